package simulation

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synful23/wrestling-simulator-sub000/internal/domain/rating"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/roster"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/show"
)

func testShow(t *testing.T, id string, quality rating.Stars) *show.Show {
	t.Helper()
	s := show.NewShow("company-1", "venue-1", "大会", show.TypeWeeklyTV,
		time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC), decimal.NewFromInt(4000))
	s.ID = id
	_, err := s.AddMatch(show.Match{
		MatchType: show.MatchTypeSingles,
		Participants: []show.Participant{
			{WrestlerID: "tech", IsWinner: true},
			{WrestlerID: "brawler"},
		},
		PlannedDuration: 20,
		PlannedQuality:  quality,
		BookedOutcome:   show.OutcomePinfall,
	})
	require.NoError(t, err)
	_, err = s.AddSegment(show.Segment{
		SegmentType:     show.SegmentTypePromo,
		WrestlerIDs:     []string{"showman"},
		PlannedDuration: 5,
		PlannedQuality:  quality,
	})
	require.NoError(t, err)
	return s
}

func testRoster() roster.Index {
	return roster.NewIndex([]*roster.Wrestler{
		{ID: "tech", Style: roster.StyleTechnical, Salary: decimal.NewFromInt(10000)},
		{ID: "brawler", Style: roster.StyleBrawler, Salary: decimal.NewFromInt(6000)},
		{ID: "showman", Style: roster.StyleShowman, Salary: decimal.NewFromInt(4000)},
	})
}

func TestSimulator_AttendanceBounds(t *testing.T) {
	sim := New(DefaultConfig())
	venue := &roster.Venue{ID: "venue-1", Capacity: 8000}

	for _, pop := range []int{0, 35, 70, 100} {
		for _, q := range []rating.Stars{1, 2.5, 4, 5} {
			t.Run(fmt.Sprintf("人気%d_評価%.1f", pop, q), func(t *testing.T) {
				s := testShow(t, fmt.Sprintf("show-%d-%v", pop, q), q)
				company := &roster.Company{ID: "company-1", Popularity: pop}

				got := sim.Attendance(s, company, venue)

				assert.GreaterOrEqual(t, got, int(float64(venue.Capacity)*0.25))
				assert.LessOrEqual(t, got, venue.Capacity)
				assert.Equal(t, got, sim.Attendance(s, company, venue), "同じ入力なら同じ結果")
			})
		}
	}
}

func TestSimulator_AttendanceEdgeCases(t *testing.T) {
	sim := New(DefaultConfig())
	company := &roster.Company{Popularity: 100}

	t.Run("会場なし", func(t *testing.T) {
		assert.Equal(t, 0, sim.Attendance(testShow(t, "s", 3), company, nil))
	})

	t.Run("収容人数0", func(t *testing.T) {
		assert.Equal(t, 0, sim.Attendance(testShow(t, "s", 3), company, &roster.Venue{Capacity: 0}))
	})

	t.Run("空カードは半分以下", func(t *testing.T) {
		venue := &roster.Venue{Capacity: 1000}
		empty := show.NewShow("company-1", "venue-1", "空", show.TypeHouseShow, time.Now(), decimal.Zero)
		empty.ID = "empty"

		got := sim.Attendance(empty, company, venue)

		assert.LessOrEqual(t, got, venue.Capacity/2)
		assert.GreaterOrEqual(t, got, 125)
	})
}

func TestSimulator_CompleteDeterministic(t *testing.T) {
	sim := New(DefaultConfig())
	company := &roster.Company{ID: "company-1", Popularity: 60}
	venue := &roster.Venue{ID: "venue-1", Capacity: 5000, RentalCost: decimal.NewFromInt(300000)}
	s := testShow(t, "show-deterministic", 3.5)
	attendance := 3000
	s.Attendance = &attendance

	first := sim.Complete(s, company, venue, testRoster())
	second := sim.Complete(s.Clone(), company, venue, testRoster())

	assert.Equal(t, first, second)
}

func TestSimulator_CompleteBounds(t *testing.T) {
	sim := New(DefaultConfig())
	company := &roster.Company{ID: "company-1", Popularity: 50}
	venue := &roster.Venue{ID: "venue-1", Capacity: 5000}

	for i := 0; i < 50; i++ {
		for _, q := range []rating.Stars{1, 3, 5} {
			s := testShow(t, fmt.Sprintf("show-%d", i), q)
			out := sim.Complete(s, company, venue, testRoster())

			require.Len(t, out.Items, 2)
			for id, item := range out.Items {
				assert.True(t, item.ActualQuality.Valid(), "item %s quality %v", id, item.ActualQuality)
				assert.InDelta(t, q.Float64(), item.ActualQuality.Float64(), 1)
			}
			assert.True(t, out.Results.OverallRating.Valid())
			assert.True(t, out.Results.CriticRating.Valid())
			assert.GreaterOrEqual(t, out.Results.AudienceSatisfaction, 0)
			assert.LessOrEqual(t, out.Results.AudienceSatisfaction, 100)
		}
	}
}

func TestSimulator_OverallRatingIsDurationWeighted(t *testing.T) {
	sim := New(DefaultConfig())
	s := testShow(t, "show-overall", 3)
	out := sim.Complete(s, nil, nil, testRoster())

	var sum, minutes float64
	for _, m := range s.Matches {
		sum += out.Items[m.ID].ActualQuality.Float64() * float64(m.PlannedDuration)
		minutes += float64(m.PlannedDuration)
	}
	for _, seg := range s.Segments {
		sum += out.Items[seg.ID].ActualQuality.Float64() * float64(seg.PlannedDuration)
		minutes += float64(seg.PlannedDuration)
	}

	require.Greater(t, minutes, 0.0)
	assert.Equal(t, rating.Clamp(sum/minutes), out.Results.OverallRating)
}

func TestSimulator_PopularityImpact(t *testing.T) {
	sim := New(DefaultConfig())
	s := testShow(t, "show-impact", 3)
	out := sim.Complete(s, nil, nil, testRoster())

	match := out.Items[s.Matches[0].ID]
	segment := out.Items[s.Segments[0].ID]
	assert.Equal(t, popularityImpact(match.ActualQuality)+1, match.PopularityImpact, "勝者ありの試合はボーナス")
	assert.Equal(t, popularityImpact(segment.ActualQuality), segment.PopularityImpact)
	assert.Equal(t, -4, popularityImpact(1))
	assert.Equal(t, 0, popularityImpact(3))
	assert.Equal(t, 4, popularityImpact(5))
}

func TestSimulator_Finance(t *testing.T) {
	sim := New(DefaultConfig())
	company := &roster.Company{ID: "company-1", Popularity: 50}
	venue := &roster.Venue{ID: "venue-1", Capacity: 5000, RentalCost: decimal.NewFromInt(300000)}
	s := testShow(t, "show-finance", 4)
	attendance := 2000
	s.Attendance = &attendance

	r := sim.Complete(s, company, venue, testRoster()).Results

	// 2000 × 4000
	assert.True(t, decimal.NewFromInt(8000000).Equal(r.TicketRevenue), r.TicketRevenue.String())
	// 2000 × (2 + 0.08 × 50)
	assert.True(t, decimal.NewFromInt(12000).Equal(r.MerchandiseRevenue), r.MerchandiseRevenue.String())
	assert.True(t, decimal.NewFromInt(300000).Equal(r.VenueRentalCost))
	// 20000 + 250 × 2
	assert.True(t, decimal.NewFromInt(20500).Equal(r.ProductionCost), r.ProductionCost.String())
	// (10000 + 6000 + 4000) × 0.25
	assert.True(t, decimal.NewFromInt(5000).Equal(r.TalentCost), r.TalentCost.String())
	assert.True(t, decimal.NewFromInt(8000000+12000-300000-20500-5000).Equal(r.Profit), r.Profit.String())
}

func TestSimulator_CriticWeightsTechnical(t *testing.T) {
	sim := New(DefaultConfig())
	s := show.NewShow("company-1", "venue-1", "大会", show.TypeWeeklyTV, time.Now(), decimal.Zero)
	s.ID = "show-critic"
	for _, m := range []show.Match{
		{
			MatchType:       show.MatchTypeSingles,
			Participants:    []show.Participant{{WrestlerID: "t1"}, {WrestlerID: "t2"}},
			PlannedDuration: 20, PlannedQuality: 5, BookedOutcome: show.OutcomeSubmission,
		},
		{
			MatchType:       show.MatchTypeSingles,
			Participants:    []show.Participant{{WrestlerID: "s1"}, {WrestlerID: "s2"}},
			PlannedDuration: 20, PlannedQuality: 1, BookedOutcome: show.OutcomePinfall,
		},
	} {
		_, err := s.AddMatch(m)
		require.NoError(t, err)
	}
	wrestlers := roster.NewIndex([]*roster.Wrestler{
		{ID: "t1", Style: roster.StyleTechnical},
		{ID: "t2", Style: roster.StyleHighFlyer},
		{ID: "s1", Style: roster.StyleShowman},
		{ID: "s2", Style: roster.StylePowerhouse},
	})

	out := sim.Complete(s, nil, nil, wrestlers)

	assert.GreaterOrEqual(t, out.Results.CriticRating, out.Results.OverallRating)
}
