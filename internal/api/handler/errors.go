package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/synful23/wrestling-simulator-sub000/internal/domain/apperr"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

var errInvalidBody = echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")

// toHTTPError はドメインエラーを種別に応じた HTTPError に変換する
// 種別を持たないエラーはそのまま返し、エラーハンドラーで 500 にする
func toHTTPError(err error) error {
	kind, ok := apperr.KindOf(err)
	if !ok {
		return err
	}
	var code int
	switch kind {
	case apperr.NotFound:
		code = http.StatusNotFound
	case apperr.Validation:
		code = http.StatusBadRequest
	case apperr.Conflict:
		code = http.StatusConflict
	default:
		return err
	}
	return echo.NewHTTPError(code, err.Error()).SetInternal(err)
}

// bindAndValidate はリクエストボディを読み込み、検証する
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errInvalidBody
	}
	return c.Validate(req)
}

// pagination は limit / offset クエリを読み取る
func pagination(c echo.Context) (limit, offset int, err error) {
	limit = defaultLimit
	if v := c.QueryParam("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "limit は正の整数で指定してください")
		}
		if limit > maxLimit {
			limit = maxLimit
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		offset, err = strconv.Atoi(v)
		if err != nil || offset < 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "offset は0以上の整数で指定してください")
		}
	}
	return limit, offset, nil
}

// requireCompanyID は company_id クエリを必須として読み取る
func requireCompanyID(c echo.Context) (string, error) {
	companyID := c.QueryParam("company_id")
	if companyID == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "company_id は必須です")
	}
	return companyID, nil
}
