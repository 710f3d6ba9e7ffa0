// Package simulation は観客動員・試合評価・収支を決定的に算出する
//
// 同じ入力からは常に同じ結果を返す。揺らぎは大会IDと項目IDのハッシュから導出する。
package simulation

import (
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/shopspring/decimal"

	"github.com/synful23/wrestling-simulator-sub000/internal/domain/rating"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/roster"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/show"
)

// qualityOffsets は予定評価に加える揺らぎ（0 を2つ含むので予定通りが最も多い）
var qualityOffsets = [...]float64{-1, -0.5, 0, 0, 0.5, 1}

// Config はシミュレーションの係数
type Config struct {
	MinDemand         float64 // 需要の下限（空カード時はさらに半減）
	PopularityWeight  float64 // 需要に占める団体人気の比重
	QualityWeight     float64 // 需要に占める予定評価の比重
	DemandJitter      float64 // 需要の揺らぎ幅（±）
	WinnerBonus       int
	SegmentCritic     float64 // 評論家評価でのセグメントの比重
	MerchBase         decimal.Decimal
	MerchPerPop       decimal.Decimal
	ProductionBase    map[show.Type]decimal.Decimal
	ProductionPerItem decimal.Decimal
	TalentShare       decimal.Decimal
}

// DefaultConfig は標準の係数を返す
func DefaultConfig() Config {
	return Config{
		MinDemand:        0.25,
		PopularityWeight: 0.6,
		QualityWeight:    0.4,
		DemandJitter:     0.05,
		WinnerBonus:      1,
		SegmentCritic:    0.5,
		MerchBase:        decimal.NewFromInt(2),
		MerchPerPop:      decimal.RequireFromString("0.08"),
		ProductionBase: map[show.Type]decimal.Decimal{
			show.TypeWeeklyTV:     decimal.NewFromInt(20000),
			show.TypePayPerView:   decimal.NewFromInt(75000),
			show.TypeHouseShow:    decimal.NewFromInt(5000),
			show.TypeSpecialEvent: decimal.NewFromInt(40000),
		},
		ProductionPerItem: decimal.NewFromInt(250),
		TalentShare:       decimal.RequireFromString("0.25"),
	}
}

// Simulator は大会の結果を算出する
type Simulator struct {
	cfg Config
}

// New は Simulator を作成する
func New(cfg Config) *Simulator {
	return &Simulator{cfg: cfg}
}

// Outcome は大会終了時の算出結果
type Outcome struct {
	Items   map[string]show.ItemResult // 試合・セグメントIDごとの結果
	Results show.Results
}

// Attendance は観客動員数を算出する（0 以上、会場の収容人数以下）
func (s *Simulator) Attendance(sh *show.Show, company *roster.Company, venue *roster.Venue) int {
	if venue == nil || venue.Capacity <= 0 {
		return 0
	}

	pop := 0.0
	if company != nil {
		pop = clamp01(float64(company.Popularity) / 100)
	}
	quality := 0.0
	items := len(sh.Matches) + len(sh.Segments)
	if items > 0 {
		quality = (meanPlannedQuality(sh) - float64(rating.Min)) / float64(rating.Max-rating.Min)
	}

	demand := s.cfg.MinDemand + (1-s.cfg.MinDemand)*(s.cfg.PopularityWeight*pop+s.cfg.QualityWeight*quality)
	jitter := (unit(sh.ID, "attendance")*2 - 1) * s.cfg.DemandJitter
	demand = math.Max(s.cfg.MinDemand, math.Min(1, demand+jitter))
	if items == 0 {
		demand /= 2
	}

	attendance := int(math.Floor(float64(venue.Capacity) * demand))
	if attendance < 0 {
		return 0
	}
	if attendance > venue.Capacity {
		return venue.Capacity
	}
	return attendance
}

// Complete は各項目の実評価と人気変動、大会の評価と収支を算出する
// attendance は開始時に確定した値を使う
func (s *Simulator) Complete(sh *show.Show, company *roster.Company, venue *roster.Venue, wrestlers roster.Index) Outcome {
	out := Outcome{Items: make(map[string]show.ItemResult, len(sh.Matches)+len(sh.Segments))}

	var overall, critic, audience weighted
	for i := range sh.Matches {
		m := &sh.Matches[i]
		actual := s.actualQuality(sh.ID, m.ID, m.PlannedQuality)
		impact := popularityImpact(actual)
		if m.Winner() != "" {
			impact += s.cfg.WinnerBonus
		}
		out.Items[m.ID] = show.ItemResult{ActualQuality: actual, PopularityImpact: impact}

		ids := participantIDs(m)
		dur := float64(m.PlannedDuration)
		overall.add(actual.Float64(), dur)
		critic.add(actual.Float64(), dur*(1+styleShare(ids, wrestlers, roster.StyleTechnical, roster.StyleHighFlyer)))
		audience.add(actual.Float64(), dur*(1+styleShare(ids, wrestlers, roster.StyleShowman, roster.StyleBrawler, roster.StylePowerhouse)))
	}
	for i := range sh.Segments {
		seg := &sh.Segments[i]
		actual := s.actualQuality(sh.ID, seg.ID, seg.PlannedQuality)
		out.Items[seg.ID] = show.ItemResult{ActualQuality: actual, PopularityImpact: popularityImpact(actual)}

		dur := float64(seg.PlannedDuration)
		overall.add(actual.Float64(), dur)
		critic.add(actual.Float64(), dur*s.cfg.SegmentCritic*(1+styleShare(seg.WrestlerIDs, wrestlers, roster.StyleTechnical, roster.StyleHighFlyer)))
		audience.add(actual.Float64(), dur*(1+styleShare(seg.WrestlerIDs, wrestlers, roster.StyleShowman, roster.StyleBrawler, roster.StylePowerhouse)))
	}

	aud := audience.mean()
	out.Results = show.Results{
		OverallRating:        rating.Clamp(overall.mean()),
		CriticRating:         rating.Clamp(critic.mean()),
		AudienceSatisfaction: satisfaction(aud),
	}
	s.applyFinance(&out.Results, sh, company, venue, wrestlers)
	return out
}

func (s *Simulator) applyFinance(r *show.Results, sh *show.Show, company *roster.Company, venue *roster.Venue, wrestlers roster.Index) {
	attendance := decimal.Zero
	if sh.Attendance != nil {
		attendance = decimal.NewFromInt(int64(*sh.Attendance))
	}
	popularity := decimal.Zero
	if company != nil {
		popularity = decimal.NewFromInt(int64(company.Popularity))
	}

	r.TicketRevenue = attendance.Mul(sh.TicketPrice)
	r.MerchandiseRevenue = attendance.Mul(s.cfg.MerchBase.Add(s.cfg.MerchPerPop.Mul(popularity)))
	r.VenueRentalCost = decimal.Zero
	if venue != nil {
		r.VenueRentalCost = venue.RentalCost
	}
	items := decimal.NewFromInt(int64(len(sh.Matches) + len(sh.Segments)))
	r.ProductionCost = s.cfg.ProductionBase[sh.ShowType].Add(s.cfg.ProductionPerItem.Mul(items))

	salaries := decimal.Zero
	for _, id := range sh.WrestlerIDs() {
		if w, ok := wrestlers[id]; ok {
			salaries = salaries.Add(w.Salary)
		}
	}
	r.TalentCost = salaries.Mul(s.cfg.TalentShare)

	revenue := r.TicketRevenue.Add(r.MerchandiseRevenue)
	costs := r.VenueRentalCost.Add(r.ProductionCost).Add(r.TalentCost)
	r.Profit = revenue.Sub(costs)
}

func (s *Simulator) actualQuality(showID, itemID string, planned rating.Stars) rating.Stars {
	offset := qualityOffsets[xxhash.Sum64String(showID+":"+itemID)%uint64(len(qualityOffsets))]
	return rating.Clamp(planned.Float64() + offset)
}

func popularityImpact(actual rating.Stars) int {
	return int(math.Round((actual.Float64() - 3) * 2))
}

func satisfaction(audience float64) int {
	if audience == 0 {
		return 0
	}
	v := int(math.Round((audience - float64(rating.Min)) / float64(rating.Max-rating.Min) * 100))
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

func meanPlannedQuality(sh *show.Show) float64 {
	var w weighted
	for _, m := range sh.Matches {
		w.add(m.PlannedQuality.Float64(), float64(m.PlannedDuration))
	}
	for _, seg := range sh.Segments {
		w.add(seg.PlannedQuality.Float64(), float64(seg.PlannedDuration))
	}
	return w.mean()
}

func participantIDs(m *show.Match) []string {
	ids := make([]string, len(m.Participants))
	for i, p := range m.Participants {
		ids[i] = p.WrestlerID
	}
	return ids
}

// styleShare は ids のうち styles のいずれかに該当する選手の割合を返す
func styleShare(ids []string, wrestlers roster.Index, styles ...roster.Style) float64 {
	if len(ids) == 0 {
		return 0
	}
	n := 0
	for _, id := range ids {
		w, ok := wrestlers[id]
		if !ok {
			continue
		}
		for _, st := range styles {
			if w.Style == st {
				n++
				break
			}
		}
	}
	return float64(n) / float64(len(ids))
}

// unit は key から [0,1) の決定的な値を返す
func unit(parts ...string) float64 {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.WriteString(p)
		_, _ = d.WriteString(":")
	}
	return float64(d.Sum64()>>11) / float64(1<<53)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

type weighted struct {
	sum    float64
	weight float64
}

func (w *weighted) add(v, weight float64) {
	if weight <= 0 {
		return
	}
	w.sum += v * weight
	w.weight += weight
}

func (w *weighted) mean() float64 {
	if w.weight == 0 {
		return 0
	}
	return w.sum / w.weight
}
