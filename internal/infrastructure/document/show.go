package document

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/synful23/wrestling-simulator-sub000/internal/domain/rating"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/show"
)

type ItemResultDoc struct {
	ActualQuality    float64 `json:"actual_quality"`
	PopularityImpact int     `json:"popularity_impact"`
}

type ParticipantDoc struct {
	WrestlerID string `json:"wrestler_id"`
	IsWinner   bool   `json:"is_winner"`
	Team       int    `json:"team,omitempty"`
}

type MatchDoc struct {
	ID                  string           `json:"id"`
	Position            int              `json:"position"`
	MatchType           string           `json:"match_type"`
	Participants        []ParticipantDoc `json:"participants"`
	IsChampionshipMatch bool             `json:"is_championship_match"`
	ChampionshipID      *string          `json:"championship_id,omitempty"`
	Stipulation         string           `json:"stipulation,omitempty"`
	PlannedDuration     int              `json:"planned_duration"`
	PlannedQuality      float64          `json:"planned_quality"`
	BookedOutcome       string           `json:"booked_outcome"`
	Result              *ItemResultDoc   `json:"result,omitempty"`
}

type SegmentDoc struct {
	ID              string         `json:"id"`
	Position        int            `json:"position"`
	SegmentType     string         `json:"segment_type"`
	WrestlerIDs     []string       `json:"wrestler_ids"`
	Description     string         `json:"description,omitempty"`
	PlannedDuration int            `json:"planned_duration"`
	PlannedQuality  float64        `json:"planned_quality"`
	Result          *ItemResultDoc `json:"result,omitempty"`
}

// ResultsDoc の金額は decimal の文字列表現で保存する
type ResultsDoc struct {
	TicketRevenue        decimal.Decimal `json:"ticket_revenue"`
	MerchandiseRevenue   decimal.Decimal `json:"merchandise_revenue"`
	VenueRentalCost      decimal.Decimal `json:"venue_rental_cost"`
	ProductionCost       decimal.Decimal `json:"production_cost"`
	TalentCost           decimal.Decimal `json:"talent_cost"`
	Profit               decimal.Decimal `json:"profit"`
	OverallRating        float64         `json:"overall_rating"`
	CriticRating         float64         `json:"critic_rating"`
	AudienceSatisfaction int             `json:"audience_satisfaction"`
}

// ShowDoc は大会全体のJSON表現
type ShowDoc struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	VenueID     string          `json:"venue_id"`
	Name        string          `json:"name"`
	ShowType    string          `json:"show_type"`
	Date        time.Time       `json:"date"`
	TicketPrice decimal.Decimal `json:"ticket_price"`
	Status      string          `json:"status"`
	Matches     []MatchDoc      `json:"matches"`
	Segments    []SegmentDoc    `json:"segments"`
	Attendance  *int            `json:"attendance,omitempty"`
	Results     *ResultsDoc     `json:"results,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

func FromShow(s *show.Show) ShowDoc {
	return ShowDoc{
		ID:          s.ID,
		CompanyID:   s.CompanyID,
		VenueID:     s.VenueID,
		Name:        s.Name,
		ShowType:    string(s.ShowType),
		Date:        s.Date,
		TicketPrice: s.TicketPrice,
		Status:      string(s.Status),
		Matches:     FromMatches(s.Matches),
		Segments:    FromSegments(s.Segments),
		Attendance:  s.Attendance,
		Results:     FromResults(s.Results),
		CompletedAt: s.CompletedAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		Version:     s.Version,
	}
}

func (d ShowDoc) Entity() *show.Show {
	return &show.Show{
		ID:          d.ID,
		CompanyID:   d.CompanyID,
		VenueID:     d.VenueID,
		Name:        d.Name,
		ShowType:    show.Type(d.ShowType),
		Date:        d.Date,
		TicketPrice: d.TicketPrice,
		Status:      show.Status(d.Status),
		Matches:     ToMatches(d.Matches),
		Segments:    ToSegments(d.Segments),
		Attendance:  d.Attendance,
		Results:     d.Results.Entity(),
		CompletedAt: d.CompletedAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		Version:     d.Version,
	}
}

// EncodeShow は大会をJSONに変換する
func EncodeShow(s *show.Show) ([]byte, error) {
	data, err := json.Marshal(FromShow(s))
	if err != nil {
		return nil, fmt.Errorf("大会のエンコードに失敗: %w", err)
	}
	return data, nil
}

// DecodeShow はJSONから大会を復元する
func DecodeShow(data []byte) (*show.Show, error) {
	var doc ShowDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("大会のデコードに失敗: %w", err)
	}
	return doc.Entity(), nil
}

func FromMatches(matches []show.Match) []MatchDoc {
	if matches == nil {
		return nil
	}
	docs := make([]MatchDoc, len(matches))
	for i, m := range matches {
		docs[i] = MatchDoc{
			ID:                  m.ID,
			Position:            m.Position,
			MatchType:           string(m.MatchType),
			IsChampionshipMatch: m.IsChampionshipMatch,
			ChampionshipID:      m.ChampionshipID,
			Stipulation:         m.Stipulation,
			PlannedDuration:     m.PlannedDuration,
			PlannedQuality:      float64(m.PlannedQuality),
			BookedOutcome:       string(m.BookedOutcome),
			Result:              fromItemResult(m.Result),
		}
		if m.Participants != nil {
			docs[i].Participants = make([]ParticipantDoc, len(m.Participants))
			for j, p := range m.Participants {
				docs[i].Participants[j] = ParticipantDoc(p)
			}
		}
	}
	return docs
}

func ToMatches(docs []MatchDoc) []show.Match {
	if docs == nil {
		return nil
	}
	matches := make([]show.Match, len(docs))
	for i, d := range docs {
		matches[i] = show.Match{
			ID:                  d.ID,
			Position:            d.Position,
			MatchType:           show.MatchType(d.MatchType),
			IsChampionshipMatch: d.IsChampionshipMatch,
			ChampionshipID:      d.ChampionshipID,
			Stipulation:         d.Stipulation,
			PlannedDuration:     d.PlannedDuration,
			PlannedQuality:      rating.Stars(d.PlannedQuality),
			BookedOutcome:       show.Outcome(d.BookedOutcome),
			Result:              d.Result.entity(),
		}
		if d.Participants != nil {
			matches[i].Participants = make([]show.Participant, len(d.Participants))
			for j, p := range d.Participants {
				matches[i].Participants[j] = show.Participant(p)
			}
		}
	}
	return matches
}

func FromSegments(segments []show.Segment) []SegmentDoc {
	if segments == nil {
		return nil
	}
	docs := make([]SegmentDoc, len(segments))
	for i, s := range segments {
		docs[i] = SegmentDoc{
			ID:              s.ID,
			Position:        s.Position,
			SegmentType:     string(s.SegmentType),
			WrestlerIDs:     s.WrestlerIDs,
			Description:     s.Description,
			PlannedDuration: s.PlannedDuration,
			PlannedQuality:  float64(s.PlannedQuality),
			Result:          fromItemResult(s.Result),
		}
	}
	return docs
}

func ToSegments(docs []SegmentDoc) []show.Segment {
	if docs == nil {
		return nil
	}
	segments := make([]show.Segment, len(docs))
	for i, d := range docs {
		segments[i] = show.Segment{
			ID:              d.ID,
			Position:        d.Position,
			SegmentType:     show.SegmentType(d.SegmentType),
			WrestlerIDs:     d.WrestlerIDs,
			Description:     d.Description,
			PlannedDuration: d.PlannedDuration,
			PlannedQuality:  rating.Stars(d.PlannedQuality),
			Result:          d.Result.entity(),
		}
	}
	return segments
}

func FromResults(r *show.Results) *ResultsDoc {
	if r == nil {
		return nil
	}
	return &ResultsDoc{
		TicketRevenue:        r.TicketRevenue,
		MerchandiseRevenue:   r.MerchandiseRevenue,
		VenueRentalCost:      r.VenueRentalCost,
		ProductionCost:       r.ProductionCost,
		TalentCost:           r.TalentCost,
		Profit:               r.Profit,
		OverallRating:        float64(r.OverallRating),
		CriticRating:         float64(r.CriticRating),
		AudienceSatisfaction: r.AudienceSatisfaction,
	}
}

func (d *ResultsDoc) Entity() *show.Results {
	if d == nil {
		return nil
	}
	return &show.Results{
		TicketRevenue:        d.TicketRevenue,
		MerchandiseRevenue:   d.MerchandiseRevenue,
		VenueRentalCost:      d.VenueRentalCost,
		ProductionCost:       d.ProductionCost,
		TalentCost:           d.TalentCost,
		Profit:               d.Profit,
		OverallRating:        rating.Stars(d.OverallRating),
		CriticRating:         rating.Stars(d.CriticRating),
		AudienceSatisfaction: d.AudienceSatisfaction,
	}
}

func fromItemResult(r *show.ItemResult) *ItemResultDoc {
	if r == nil {
		return nil
	}
	return &ItemResultDoc{ActualQuality: float64(r.ActualQuality), PopularityImpact: r.PopularityImpact}
}

func (d *ItemResultDoc) entity() *show.ItemResult {
	if d == nil {
		return nil
	}
	return &show.ItemResult{ActualQuality: rating.Stars(d.ActualQuality), PopularityImpact: d.PopularityImpact}
}

// EncodeCard は matches / segments カラム用にカードをJSONに変換する
func EncodeCard(matches []show.Match, segments []show.Segment) ([]byte, []byte, error) {
	matchDocs := FromMatches(matches)
	if matchDocs == nil {
		matchDocs = []MatchDoc{}
	}
	segmentDocs := FromSegments(segments)
	if segmentDocs == nil {
		segmentDocs = []SegmentDoc{}
	}
	m, err := json.Marshal(matchDocs)
	if err != nil {
		return nil, nil, fmt.Errorf("試合のエンコードに失敗: %w", err)
	}
	s, err := json.Marshal(segmentDocs)
	if err != nil {
		return nil, nil, fmt.Errorf("セグメントのエンコードに失敗: %w", err)
	}
	return m, s, nil
}

// DecodeCard は matches / segments カラムからカードを復元する
// カードが空でも nil ではなく空のスライスを返す
func DecodeCard(matchData, segmentData []byte) ([]show.Match, []show.Segment, error) {
	matchDocs := []MatchDoc{}
	if len(matchData) > 0 {
		if err := json.Unmarshal(matchData, &matchDocs); err != nil {
			return nil, nil, fmt.Errorf("試合のデコードに失敗: %w", err)
		}
	}
	segmentDocs := []SegmentDoc{}
	if len(segmentData) > 0 {
		if err := json.Unmarshal(segmentData, &segmentDocs); err != nil {
			return nil, nil, fmt.Errorf("セグメントのデコードに失敗: %w", err)
		}
	}
	matches := ToMatches(matchDocs)
	if matches == nil {
		matches = []show.Match{}
	}
	segments := ToSegments(segmentDocs)
	if segments == nil {
		segments = []show.Segment{}
	}
	return matches, segments, nil
}

// EncodeResults は results カラム用に大会結果をJSONに変換する（未確定なら nil）
func EncodeResults(r *show.Results) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	data, err := json.Marshal(FromResults(r))
	if err != nil {
		return nil, fmt.Errorf("大会結果のエンコードに失敗: %w", err)
	}
	return data, nil
}

func DecodeResults(data []byte) (*show.Results, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var doc *ResultsDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("大会結果のデコードに失敗: %w", err)
	}
	return doc.Entity(), nil
}
