package api

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/synful23/wrestling-simulator-sub000/internal/api/middleware"
	"github.com/synful23/wrestling-simulator-sub000/internal/config"
	"github.com/synful23/wrestling-simulator-sub000/internal/pkg/metrics"
)

// NewEcho は共通設定済みのEchoインスタンスを作成する
// バリデーター、エラーハンドラー、ミドルウェア、/metrics を設定する
// ドメインのルートは呼び出し側で登録する
func NewEcho(m *metrics.Metrics, metricsCfg config.MetricsConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = CustomHTTPErrorHandler

	middleware.SetupMiddleware(e, m)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.MetricsBasicAuth(metricsCfg))
	return e
}
