package api

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ratedRequest struct {
	Name    string  `validate:"required"`
	Quality float64 `validate:"stars"`
	Count   int     `validate:"gte=0,lte=10"`
}

func TestCustomValidator_Validate(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		req     ratedRequest
		wantErr string
	}{
		{name: "正常", req: ratedRequest{Name: "a", Quality: 4.5, Count: 3}},
		{name: "評価の下限", req: ratedRequest{Name: "a", Quality: 1}},
		{name: "評価の上限", req: ratedRequest{Name: "a", Quality: 5}},
		{name: "評価が刻み外", req: ratedRequest{Name: "a", Quality: 3.7}, wantErr: "Quality は stars を満たす必要があります"},
		{name: "評価が0", req: ratedRequest{Name: "a", Quality: 0}, wantErr: "Quality は stars"},
		{name: "必須項目なし", req: ratedRequest{Quality: 3}, wantErr: "Name は required"},
		{name: "上限超過", req: ratedRequest{Name: "a", Quality: 3, Count: 11}, wantErr: "Count は lte=10 を満たす必要があります"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			he, ok := err.(*echo.HTTPError)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, he.Code)
			assert.Contains(t, he.Message, tt.wantErr)
		})
	}
}

func TestCustomValidator_MultipleErrors(t *testing.T) {
	err := NewValidator().Validate(&ratedRequest{Quality: 9, Count: -1})

	require.Error(t, err)
	msg := err.(*echo.HTTPError).Message.(string)
	assert.Contains(t, msg, "Name")
	assert.Contains(t, msg, "Quality")
	assert.Contains(t, msg, "Count")
}
