package show

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/synful23/wrestling-simulator-sub000/internal/domain/rating"
)

// Status は大会の状態を表す
type Status string

const (
	StatusDraft      Status = "draft"
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Type は大会の種別を表す
type Type string

const (
	TypeWeeklyTV     Type = "weekly_tv"
	TypePayPerView   Type = "pay_per_view"
	TypeHouseShow    Type = "house_show"
	TypeSpecialEvent Type = "special_event"
)

// Valid は既知の大会種別かを返す
func (t Type) Valid() bool {
	switch t {
	case TypeWeeklyTV, TypePayPerView, TypeHouseShow, TypeSpecialEvent:
		return true
	}
	return false
}

// ItemResult は試合・セグメントの終了後の結果
type ItemResult struct {
	ActualQuality    rating.Stars
	PopularityImpact int
}

// Results は大会終了時に確定する収支と評価
type Results struct {
	TicketRevenue        decimal.Decimal
	MerchandiseRevenue   decimal.Decimal
	VenueRentalCost      decimal.Decimal
	ProductionCost       decimal.Decimal
	TalentCost           decimal.Decimal
	Profit               decimal.Decimal
	OverallRating        rating.Stars
	CriticRating         rating.Stars
	AudienceSatisfaction int
}

// Show は大会エンティティを表す
// Attendance は開始時に、Results は終了時にのみ設定される
type Show struct {
	ID          string
	CompanyID   string
	VenueID     string
	Name        string
	ShowType    Type
	Date        time.Time
	TicketPrice decimal.Decimal
	Status      Status
	Matches     []Match
	Segments    []Segment
	Attendance  *int
	Results     *Results
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int // 楽観的ロック用
}

// NewShow は下書き状態の大会を作成する
func NewShow(companyID, venueID, name string, showType Type, date time.Time, ticketPrice decimal.Decimal) *Show {
	now := time.Now()
	return &Show{
		CompanyID:   companyID,
		VenueID:     venueID,
		Name:        name,
		ShowType:    showType,
		Date:        date,
		TicketPrice: ticketPrice,
		Status:      StatusDraft,
		Matches:     []Match{},
		Segments:    []Segment{},
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     0,
	}
}

// Validate は大会の検証を行う
func (s *Show) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrShowNameRequired
	}
	if strings.TrimSpace(s.CompanyID) == "" {
		return ErrCompanyIDRequired
	}
	if strings.TrimSpace(s.VenueID) == "" {
		return ErrVenueIDRequired
	}
	if !s.ShowType.Valid() {
		return ErrInvalidShowType
	}
	if s.Date.IsZero() {
		return ErrShowDateRequired
	}
	if s.TicketPrice.IsNegative() {
		return ErrInvalidTicketPrice
	}
	return nil
}

// IsEditable はカードを編集できる状態かを返す
func (s *Show) IsEditable() bool {
	switch s.Status {
	case StatusDraft, StatusScheduled, StatusInProgress:
		return true
	}
	return false
}

// IsDeletable は削除できる状態かを返す
// 終了済みの大会は王座履歴から参照されうるため削除できない
func (s *Show) IsDeletable() bool {
	switch s.Status {
	case StatusDraft, StatusScheduled, StatusCancelled:
		return true
	}
	return false
}

// ChampionshipIDs はカード上のタイトルマッチが参照するチャンピオンシップIDを重複なく返す
func (s *Show) ChampionshipIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, m := range s.Matches {
		if !m.IsChampionshipMatch || m.ChampionshipID == nil {
			continue
		}
		if _, ok := seen[*m.ChampionshipID]; ok {
			continue
		}
		seen[*m.ChampionshipID] = struct{}{}
		ids = append(ids, *m.ChampionshipID)
	}
	return ids
}

// WrestlerIDs はカードに登場する選手IDを重複なく返す
func (s *Show) WrestlerIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, m := range s.Matches {
		for _, p := range m.Participants {
			add(p.WrestlerID)
		}
	}
	for _, seg := range s.Segments {
		for _, id := range seg.WrestlerIDs {
			add(id)
		}
	}
	return ids
}

// Clone はディープコピーを返す
func (s *Show) Clone() *Show {
	cp := *s
	if s.Matches != nil {
		cp.Matches = make([]Match, len(s.Matches))
		for i, m := range s.Matches {
			cp.Matches[i] = m.clone()
		}
	}
	if s.Segments != nil {
		cp.Segments = make([]Segment, len(s.Segments))
		for i, seg := range s.Segments {
			cp.Segments[i] = seg.clone()
		}
	}
	if s.Attendance != nil {
		v := *s.Attendance
		cp.Attendance = &v
	}
	if s.Results != nil {
		r := *s.Results
		cp.Results = &r
	}
	if s.CompletedAt != nil {
		v := *s.CompletedAt
		cp.CompletedAt = &v
	}
	return &cp
}
