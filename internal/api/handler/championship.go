package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/synful23/wrestling-simulator-sub000/internal/application"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/championship"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/rating"
)

type ChampionshipHandler struct {
	championshipService ChampionshipServiceInterface
}

func NewChampionshipHandler(championshipService ChampionshipServiceInterface) *ChampionshipHandler {
	return &ChampionshipHandler{championshipService: championshipService}
}

type CreateChampionshipRequest struct {
	CompanyID   string `json:"company_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name        string `json:"name" validate:"required" example:"IWGP世界ヘビー級王座"`
	WeightClass string `json:"weight_class" validate:"required" example:"world"`
	Prestige    int    `json:"prestige" validate:"gte=0,lte=100" example:"95"`
}

type SetHolderRequest struct {
	WrestlerID string  `json:"wrestler_id" validate:"required"`
	WonFromID  *string `json:"won_from_id,omitempty"`
	ShowID     *string `json:"show_id,omitempty"`
}

type RecordDefenseRequest struct {
	ChallengerID string  `json:"challenger_id" validate:"required"`
	ShowID       *string `json:"show_id,omitempty"`
	Quality      float64 `json:"quality" validate:"stars" example:"4.5"`
}

type DefenseResponse struct {
	ChallengerID string  `json:"challenger_id"`
	ShowID       *string `json:"show_id,omitempty"`
	Date         string  `json:"date"`
	Quality      float64 `json:"quality"`
}

type ReignResponse struct {
	HolderID     string            `json:"holder_id"`
	WonFromID    *string           `json:"won_from_id,omitempty"`
	WonAtShowID  *string           `json:"won_at_show_id,omitempty"`
	StartDate    string            `json:"start_date"`
	EndDate      *string           `json:"end_date,omitempty"`
	DefenseCount int               `json:"defense_count"`
	Defenses     []DefenseResponse `json:"defenses"`
}

type ChampionshipResponse struct {
	ID              string          `json:"id"`
	CompanyID       string          `json:"company_id"`
	Name            string          `json:"name"`
	WeightClass     string          `json:"weight_class"`
	Prestige        int             `json:"prestige"`
	IsActive        bool            `json:"is_active"`
	CurrentHolderID *string         `json:"current_holder_id"`
	LastDefendedAt  *string         `json:"last_defended_at,omitempty"`
	TitleHistory    []ReignResponse `json:"title_history"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
	Version         int             `json:"version"`
}

type DeleteChampionshipResponse struct {
	Deleted      bool                  `json:"deleted"`
	Championship *ChampionshipResponse `json:"championship,omitempty"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func toChampionshipResponse(c *championship.Championship) *ChampionshipResponse {
	history := make([]ReignResponse, len(c.TitleHistory))
	for i, r := range c.TitleHistory {
		defenses := make([]DefenseResponse, len(r.Defenses))
		for j, d := range r.Defenses {
			defenses[j] = DefenseResponse{
				ChallengerID: d.ChallengerID,
				ShowID:       d.ShowID,
				Date:         d.Date.Format(time.RFC3339),
				Quality:      d.Quality.Float64(),
			}
		}
		history[i] = ReignResponse{
			HolderID:     r.HolderID,
			WonFromID:    r.WonFromID,
			WonAtShowID:  r.WonAtShowID,
			StartDate:    r.StartDate.Format(time.RFC3339),
			EndDate:      formatTime(r.EndDate),
			DefenseCount: r.DefenseCount,
			Defenses:     defenses,
		}
	}
	return &ChampionshipResponse{
		ID:              c.ID,
		CompanyID:       c.CompanyID,
		Name:            c.Name,
		WeightClass:     string(c.WeightClass),
		Prestige:        c.Prestige,
		IsActive:        c.IsActive,
		CurrentHolderID: c.CurrentHolderID,
		LastDefendedAt:  formatTime(c.LastDefendedAt),
		TitleHistory:    history,
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       c.UpdatedAt.Format(time.RFC3339),
		Version:         c.Version,
	}
}

func toChampionshipResponses(list []*championship.Championship) []*ChampionshipResponse {
	responses := make([]*ChampionshipResponse, len(list))
	for i, c := range list {
		responses[i] = toChampionshipResponse(c)
	}
	return responses
}

// Create godoc
// @Summary チャンピオンシップを作成
// @Tags championships
// @Accept json
// @Produce json
// @Param request body CreateChampionshipRequest true "チャンピオンシップ情報"
// @Success 201 {object} ChampionshipResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /championships [post]
func (h *ChampionshipHandler) Create(c echo.Context) error {
	var req CreateChampionshipRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ch, err := h.championshipService.CreateChampionship(c.Request().Context(), application.CreateChampionshipInput{
		CompanyID:   req.CompanyID,
		Name:        req.Name,
		WeightClass: championship.WeightClass(req.WeightClass),
		Prestige:    req.Prestige,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toChampionshipResponse(ch))
}

// GetByID godoc
// @Summary チャンピオンシップを取得
// @Tags championships
// @Produce json
// @Param id path string true "チャンピオンシップID"
// @Success 200 {object} ChampionshipResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /championships/{id} [get]
func (h *ChampionshipHandler) GetByID(c echo.Context) error {
	ch, err := h.championshipService.GetChampionship(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toChampionshipResponse(ch))
}

// List godoc
// @Summary 団体のチャンピオンシップ一覧を取得
// @Tags championships
// @Produce json
// @Param company_id query string true "団体ID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} ChampionshipResponse
// @Router /championships [get]
func (h *ChampionshipHandler) List(c echo.Context) error {
	companyID, err := requireCompanyID(c)
	if err != nil {
		return err
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}

	list, err := h.championshipService.ListChampionships(c.Request().Context(), companyID, limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toChampionshipResponses(list))
}

// SetHolder godoc
// @Summary 新王者を記録
// @Description 現在の戴冠を閉じ、新しい戴冠を開始する
// @Tags championships
// @Accept json
// @Produce json
// @Param id path string true "チャンピオンシップID"
// @Param request body SetHolderRequest true "新王者"
// @Success 200 {object} ChampionshipResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /championships/{id}/holder [post]
func (h *ChampionshipHandler) SetHolder(c echo.Context) error {
	var req SetHolderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ch, err := h.championshipService.SetHolder(c.Request().Context(), application.SetHolderInput{
		ChampionshipID: c.Param("id"),
		NewHolderID:    req.WrestlerID,
		WonFromID:      req.WonFromID,
		ShowID:         req.ShowID,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toChampionshipResponse(ch))
}

// RecordDefense godoc
// @Summary 防衛を記録
// @Tags championships
// @Accept json
// @Produce json
// @Param id path string true "チャンピオンシップID"
// @Param request body RecordDefenseRequest true "防衛情報"
// @Success 200 {object} ChampionshipResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /championships/{id}/defenses [post]
func (h *ChampionshipHandler) RecordDefense(c echo.Context) error {
	var req RecordDefenseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ch, err := h.championshipService.RecordDefense(c.Request().Context(), application.RecordDefenseInput{
		ChampionshipID: c.Param("id"),
		ChallengerID:   req.ChallengerID,
		ShowID:         req.ShowID,
		Quality:        rating.Stars(req.Quality),
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toChampionshipResponse(ch))
}

// Vacate godoc
// @Summary 王座を空位にする
// @Tags championships
// @Produce json
// @Param id path string true "チャンピオンシップID"
// @Success 200 {object} ChampionshipResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /championships/{id}/vacate [post]
func (h *ChampionshipHandler) Vacate(c echo.Context) error {
	ch, err := h.championshipService.Vacate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toChampionshipResponse(ch))
}

// Deactivate godoc
// @Summary 王座を無効化する
// @Tags championships
// @Produce json
// @Param id path string true "チャンピオンシップID"
// @Success 200 {object} ChampionshipResponse
// @Router /championships/{id}/deactivate [post]
func (h *ChampionshipHandler) Deactivate(c echo.Context) error {
	ch, err := h.championshipService.Deactivate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toChampionshipResponse(ch))
}

// Delete godoc
// @Summary チャンピオンシップを削除
// @Description 王座履歴がある場合は削除せず無効化する
// @Tags championships
// @Produce json
// @Param id path string true "チャンピオンシップID"
// @Success 200 {object} DeleteChampionshipResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /championships/{id} [delete]
func (h *ChampionshipHandler) Delete(c echo.Context) error {
	result, err := h.championshipService.DeleteChampionship(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	resp := DeleteChampionshipResponse{Deleted: result.Deleted}
	if result.Championship != nil {
		resp.Championship = toChampionshipResponse(result.Championship)
	}
	return c.JSON(http.StatusOK, resp)
}
