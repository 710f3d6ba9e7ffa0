package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/synful23/wrestling-simulator-sub000/internal/pkg/metrics"
)

// bodyLimit はリクエストボディの上限
const bodyLimit = "1M"

// SetupMiddleware は共通ミドルウェアを設定する
func SetupMiddleware(e *echo.Echo, m *metrics.Metrics) {
	// リクエストID
	e.Use(RequestIDMiddleware())

	// 構造化リクエストログ（zap）
	e.Use(RequestLogger())

	// HTTPメトリクス
	e.Use(PrometheusMiddleware(m))

	// パニックリカバリー
	e.Use(middleware.Recover())

	e.Use(middleware.BodyLimit(bodyLimit))

	// CORS
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
	}))
}
