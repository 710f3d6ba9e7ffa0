package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/synful23/wrestling-simulator-sub000/internal/domain/rating"
)

// CustomValidator はEcho用のカスタムバリデーター
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator は新しいバリデーターを作成する
// 独自タグ stars は 1〜5 の0.5刻みの評価を検証する
func NewValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("stars", func(fl validator.FieldLevel) bool {
		return rating.Stars(fl.Field().Float()).Valid()
	})
	return &CustomValidator{validator: v}
}

// Validate はリクエストのバリデーションを実行する
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, describe(err))
	}
	return nil
}

// describe は検証エラーをフィールド名付きの読みやすい形式にする
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		if fe.Param() != "" {
			msgs[i] = fmt.Sprintf("%s は %s=%s を満たす必要があります", fe.Field(), fe.Tag(), fe.Param())
		} else {
			msgs[i] = fmt.Sprintf("%s は %s を満たす必要があります", fe.Field(), fe.Tag())
		}
	}
	return strings.Join(msgs, ", ")
}
