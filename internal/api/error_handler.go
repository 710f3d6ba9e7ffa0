package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/synful23/wrestling-simulator-sub000/internal/domain/apperr"
	"github.com/synful23/wrestling-simulator-sub000/internal/pkg/logger"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
// ドメインエラーは種別に応じて 404 / 400 / 409 に振り分ける
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, message := resolve(err)

	// エラーログを出力（5xx エラーの場合）
	if code >= 500 {
		logger.Error("サーバーエラー",
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	var respErr error
	if c.Request().Method == http.MethodHead {
		respErr = c.NoContent(code)
	} else {
		respErr = c.JSON(code, ErrorResponse{Error: message, Code: code})
	}
	if respErr != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(respErr))
	}
}

func resolve(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if m, ok := he.Message.(string); ok {
			return he.Code, m
		}
		return he.Code, http.StatusText(he.Code)
	}

	if kind, ok := apperr.KindOf(err); ok {
		switch kind {
		case apperr.NotFound:
			return http.StatusNotFound, err.Error()
		case apperr.Validation:
			return http.StatusBadRequest, err.Error()
		case apperr.Conflict:
			return http.StatusConflict, err.Error()
		}
	}

	// 内部エラーの詳細はクライアントに返さない
	return http.StatusInternalServerError, "内部サーバーエラー"
}
