package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/synful23/wrestling-simulator-sub000/internal/application"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/rating"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/show"
	"github.com/synful23/wrestling-simulator-sub000/internal/infrastructure/document"
)

type ShowHandler struct {
	showService ShowServiceInterface
}

func NewShowHandler(showService ShowServiceInterface) *ShowHandler {
	return &ShowHandler{showService: showService}
}

type CreateShowRequest struct {
	CompanyID   string          `json:"company_id" validate:"required"`
	VenueID     string          `json:"venue_id" validate:"required"`
	Name        string          `json:"name" validate:"required" example:"レッスルキングダム"`
	ShowType    string          `json:"show_type" validate:"required" example:"pay_per_view"`
	Date        string          `json:"date" validate:"required" example:"2026-01-04T17:00:00+09:00"`
	TicketPrice decimal.Decimal `json:"ticket_price" example:"8000"`
}

type ParticipantRequest struct {
	WrestlerID string `json:"wrestler_id" validate:"required"`
	IsWinner   bool   `json:"is_winner"`
	Team       int    `json:"team" validate:"gte=0"`
}

type MatchRequest struct {
	Position            int                  `json:"position" validate:"gte=0"`
	MatchType           string               `json:"match_type" validate:"required" example:"singles"`
	Participants        []ParticipantRequest `json:"participants" validate:"required,min=2,dive"`
	IsChampionshipMatch bool                 `json:"is_championship_match"`
	ChampionshipID      *string              `json:"championship_id,omitempty"`
	Stipulation         string               `json:"stipulation,omitempty"`
	PlannedDuration     int                  `json:"planned_duration" validate:"gt=0" example:"25"`
	PlannedQuality      float64              `json:"planned_quality" validate:"stars" example:"4.5"`
	BookedOutcome       string               `json:"booked_outcome" validate:"required" example:"pinfall"`
}

type SegmentRequest struct {
	Position        int      `json:"position" validate:"gte=0"`
	SegmentType     string   `json:"segment_type" validate:"required" example:"promo"`
	WrestlerIDs     []string `json:"wrestler_ids" validate:"dive,required"`
	Description     string   `json:"description,omitempty"`
	PlannedDuration int      `json:"planned_duration" validate:"gt=0" example:"5"`
	PlannedQuality  float64  `json:"planned_quality" validate:"stars" example:"3"`
}

// ShowResponse は大会の表現。保存形式と同じJSONを返す
type ShowResponse = document.ShowDoc

type CompleteShowResponse struct {
	Show          ShowResponse            `json:"show"`
	Championships []*ChampionshipResponse `json:"championships"`
	TitleChanges  int                     `json:"title_changes"`
	TitleDefenses int                     `json:"title_defenses"`
}

func toShowResponse(s *show.Show) ShowResponse {
	return document.FromShow(s)
}

func (r *MatchRequest) toMatch() show.Match {
	participants := make([]show.Participant, len(r.Participants))
	for i, p := range r.Participants {
		participants[i] = show.Participant{WrestlerID: p.WrestlerID, IsWinner: p.IsWinner, Team: p.Team}
	}
	return show.Match{
		Position:            r.Position,
		MatchType:           show.MatchType(r.MatchType),
		Participants:        participants,
		IsChampionshipMatch: r.IsChampionshipMatch,
		ChampionshipID:      r.ChampionshipID,
		Stipulation:         r.Stipulation,
		PlannedDuration:     r.PlannedDuration,
		PlannedQuality:      rating.Stars(r.PlannedQuality),
		BookedOutcome:       show.Outcome(r.BookedOutcome),
	}
}

func (r *SegmentRequest) toSegment() show.Segment {
	return show.Segment{
		Position:        r.Position,
		SegmentType:     show.SegmentType(r.SegmentType),
		WrestlerIDs:     r.WrestlerIDs,
		Description:     r.Description,
		PlannedDuration: r.PlannedDuration,
		PlannedQuality:  rating.Stars(r.PlannedQuality),
	}
}

// Create godoc
// @Summary 大会を作成
// @Description 下書き状態の大会を作成します
// @Tags shows
// @Accept json
// @Produce json
// @Param request body CreateShowRequest true "大会情報"
// @Success 201 {object} ShowResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /shows [post]
func (h *ShowHandler) Create(c echo.Context) error {
	var req CreateShowRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "開催日の形式が不正です")
	}

	sh, err := h.showService.CreateShow(c.Request().Context(), application.CreateShowInput{
		CompanyID:   req.CompanyID,
		VenueID:     req.VenueID,
		Name:        req.Name,
		ShowType:    show.Type(req.ShowType),
		Date:        date,
		TicketPrice: req.TicketPrice,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toShowResponse(sh))
}

// GetByID godoc
// @Summary 大会を取得
// @Tags shows
// @Produce json
// @Param id path string true "大会ID"
// @Success 200 {object} ShowResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /shows/{id} [get]
func (h *ShowHandler) GetByID(c echo.Context) error {
	sh, err := h.showService.GetShow(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toShowResponse(sh))
}

// List godoc
// @Summary 団体の大会一覧を取得
// @Description 開催日の新しい順で返します
// @Tags shows
// @Produce json
// @Param company_id query string true "団体ID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} ShowResponse
// @Router /shows [get]
func (h *ShowHandler) List(c echo.Context) error {
	companyID, err := requireCompanyID(c)
	if err != nil {
		return err
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}

	shows, err := h.showService.ListShows(c.Request().Context(), companyID, limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	responses := make([]ShowResponse, len(shows))
	for i, sh := range shows {
		responses[i] = toShowResponse(sh)
	}
	return c.JSON(http.StatusOK, responses)
}

// Delete godoc
// @Summary 大会を削除
// @Description 下書き・公開予定・中止の大会のみ削除できます
// @Tags shows
// @Param id path string true "大会ID"
// @Success 204
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /shows/{id} [delete]
func (h *ShowHandler) Delete(c echo.Context) error {
	if err := h.showService.DeleteShow(c.Request().Context(), c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddMatch godoc
// @Summary 試合をカードに追加
// @Tags shows
// @Accept json
// @Produce json
// @Param id path string true "大会ID"
// @Param request body MatchRequest true "試合"
// @Success 201 {object} ShowResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /shows/{id}/matches [post]
func (h *ShowHandler) AddMatch(c echo.Context) error {
	var req MatchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	sh, err := h.showService.AddMatch(c.Request().Context(), c.Param("id"), req.toMatch())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toShowResponse(sh))
}

// UpdateMatch godoc
// @Summary 試合を更新
// @Tags shows
// @Accept json
// @Produce json
// @Param id path string true "大会ID"
// @Param match_id path string true "試合ID"
// @Param request body MatchRequest true "試合"
// @Success 200 {object} ShowResponse
// @Router /shows/{id}/matches/{match_id} [put]
func (h *ShowHandler) UpdateMatch(c echo.Context) error {
	var req MatchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	sh, err := h.showService.UpdateMatch(c.Request().Context(), c.Param("id"), c.Param("match_id"), req.toMatch())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toShowResponse(sh))
}

// RemoveMatch godoc
// @Summary 試合をカードから外す
// @Tags shows
// @Produce json
// @Param id path string true "大会ID"
// @Param match_id path string true "試合ID"
// @Success 200 {object} ShowResponse
// @Router /shows/{id}/matches/{match_id} [delete]
func (h *ShowHandler) RemoveMatch(c echo.Context) error {
	sh, err := h.showService.RemoveMatch(c.Request().Context(), c.Param("id"), c.Param("match_id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toShowResponse(sh))
}

// AddSegment godoc
// @Summary セグメントをカードに追加
// @Tags shows
// @Accept json
// @Produce json
// @Param id path string true "大会ID"
// @Param request body SegmentRequest true "セグメント"
// @Success 201 {object} ShowResponse
// @Router /shows/{id}/segments [post]
func (h *ShowHandler) AddSegment(c echo.Context) error {
	var req SegmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	sh, err := h.showService.AddSegment(c.Request().Context(), c.Param("id"), req.toSegment())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toShowResponse(sh))
}

// UpdateSegment godoc
// @Summary セグメントを更新
// @Tags shows
// @Accept json
// @Produce json
// @Param id path string true "大会ID"
// @Param segment_id path string true "セグメントID"
// @Param request body SegmentRequest true "セグメント"
// @Success 200 {object} ShowResponse
// @Router /shows/{id}/segments/{segment_id} [put]
func (h *ShowHandler) UpdateSegment(c echo.Context) error {
	var req SegmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	sh, err := h.showService.UpdateSegment(c.Request().Context(), c.Param("id"), c.Param("segment_id"), req.toSegment())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toShowResponse(sh))
}

// RemoveSegment godoc
// @Summary セグメントをカードから外す
// @Tags shows
// @Produce json
// @Param id path string true "大会ID"
// @Param segment_id path string true "セグメントID"
// @Success 200 {object} ShowResponse
// @Router /shows/{id}/segments/{segment_id} [delete]
func (h *ShowHandler) RemoveSegment(c echo.Context) error {
	sh, err := h.showService.RemoveSegment(c.Request().Context(), c.Param("id"), c.Param("segment_id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toShowResponse(sh))
}

// Schedule godoc
// @Summary 大会を公開予定にする
// @Tags shows
// @Produce json
// @Param id path string true "大会ID"
// @Success 200 {object} ShowResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /shows/{id}/schedule [post]
func (h *ShowHandler) Schedule(c echo.Context) error {
	return h.transition(c, h.showService.ScheduleShow)
}

// Start godoc
// @Summary 大会を開始する
// @Description 観客動員数を確定します
// @Tags shows
// @Produce json
// @Param id path string true "大会ID"
// @Success 200 {object} ShowResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /shows/{id}/start [post]
func (h *ShowHandler) Start(c echo.Context) error {
	return h.transition(c, h.showService.StartShow)
}

// Cancel godoc
// @Summary 大会を中止する
// @Tags shows
// @Produce json
// @Param id path string true "大会ID"
// @Success 200 {object} ShowResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /shows/{id}/cancel [post]
func (h *ShowHandler) Cancel(c echo.Context) error {
	return h.transition(c, h.showService.CancelShow)
}

func (h *ShowHandler) transition(c echo.Context, fn func(ctx context.Context, id string) (*show.Show, error)) error {
	sh, err := fn(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toShowResponse(sh))
}

// Complete godoc
// @Summary 大会を終了する
// @Description 結果を確定し、タイトルマッチの結果を王座の系譜に反映します
// @Tags shows
// @Produce json
// @Param id path string true "大会ID"
// @Success 200 {object} CompleteShowResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /shows/{id}/complete [post]
func (h *ShowHandler) Complete(c echo.Context) error {
	result, err := h.showService.CompleteShow(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, CompleteShowResponse{
		Show:          toShowResponse(result.Show),
		Championships: toChampionshipResponses(result.Championships),
		TitleChanges:  result.TitleChanges,
		TitleDefenses: result.TitleDefenses,
	})
}
