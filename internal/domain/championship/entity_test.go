package championship

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synful23/wrestling-simulator-sub000/internal/domain/apperr"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/rating"
)

var (
	d0 = time.Date(2026, 1, 5, 19, 0, 0, 0, time.UTC)
	d1 = time.Date(2026, 2, 9, 19, 0, 0, 0, time.UTC)
	d2 = time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC)
)

func strPtr(s string) *string { return &s }

func newTestChampionship(t *testing.T) *Championship {
	t.Helper()
	c := NewChampionship("company-1", "世界ヘビー級王座", WeightClassWorld, 80)
	c.ID = "title-1"
	require.NoError(t, c.Validate())
	return c
}

// requireLineageInvariant は継続中の戴冠が0か1件で、現王者と一致することを確認する
func requireLineageInvariant(t *testing.T, c *Championship) {
	t.Helper()
	open := 0
	var holder string
	for _, r := range c.TitleHistory {
		if r.EndDate == nil {
			open++
			holder = r.HolderID
		}
	}
	require.LessOrEqual(t, open, 1)
	if open == 0 {
		assert.Nil(t, c.CurrentHolderID)
		return
	}
	require.NotNil(t, c.CurrentHolderID)
	assert.Equal(t, holder, *c.CurrentHolderID)
}

func TestNewChampionship(t *testing.T) {
	c := NewChampionship("company-1", "クルーザー級王座", WeightClassCruiserweight, 55)

	assert.Equal(t, "company-1", c.CompanyID)
	assert.Equal(t, "クルーザー級王座", c.Name)
	assert.Equal(t, WeightClassCruiserweight, c.WeightClass)
	assert.Equal(t, 55, c.Prestige)
	assert.True(t, c.IsActive)
	assert.Nil(t, c.CurrentHolderID)
	assert.Empty(t, c.TitleHistory)
	assert.True(t, c.IsVacant())
	assert.Equal(t, 0, c.Version)
}

func TestChampionship_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Championship)
		expectedErr error
	}{
		{name: "有効なチャンピオンシップ", mutate: func(c *Championship) {}},
		{name: "名前が空", mutate: func(c *Championship) { c.Name = "  " }, expectedErr: ErrNameRequired},
		{name: "団体IDが空", mutate: func(c *Championship) { c.CompanyID = "" }, expectedErr: ErrCompanyIDRequired},
		{name: "不明な階級", mutate: func(c *Championship) { c.WeightClass = "super_heavy" }, expectedErr: ErrInvalidWeightClass},
		{name: "格付けが負", mutate: func(c *Championship) { c.Prestige = -1 }, expectedErr: ErrInvalidPrestige},
		{name: "格付けが100超", mutate: func(c *Championship) { c.Prestige = 101 }, expectedErr: ErrInvalidPrestige},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChampionship("company-1", "王座", WeightClassHeavyweight, 50)
			tt.mutate(c)
			err := c.Validate()
			if tt.expectedErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestChampionship_SetHolder_FirstHolder(t *testing.T) {
	c := newTestChampionship(t)

	err := c.SetHolder("wrestler-a", nil, nil, d0)

	require.NoError(t, err)
	require.Len(t, c.TitleHistory, 1)
	reign := c.TitleHistory[0]
	assert.Equal(t, "wrestler-a", reign.HolderID)
	assert.Nil(t, reign.WonFromID)
	assert.Nil(t, reign.WonAtShowID)
	assert.Equal(t, d0, reign.StartDate)
	assert.Nil(t, reign.EndDate)
	require.NotNil(t, c.CurrentHolderID)
	assert.Equal(t, "wrestler-a", *c.CurrentHolderID)
	requireLineageInvariant(t, c)
}

func TestChampionship_SetHolder_TitleChangeAtShow(t *testing.T) {
	c := newTestChampionship(t)
	require.NoError(t, c.SetHolder("wrestler-a", nil, nil, d0))

	err := c.SetHolder("wrestler-b", strPtr("wrestler-a"), strPtr("show-1"), d1)

	require.NoError(t, err)
	require.Len(t, c.TitleHistory, 2)

	prev := c.TitleHistory[0]
	assert.Equal(t, "wrestler-a", prev.HolderID)
	require.NotNil(t, prev.EndDate)
	assert.Equal(t, d1, *prev.EndDate)

	cur := c.TitleHistory[1]
	assert.Equal(t, "wrestler-b", cur.HolderID)
	assert.Equal(t, strPtr("wrestler-a"), cur.WonFromID)
	assert.Equal(t, strPtr("show-1"), cur.WonAtShowID)
	assert.Equal(t, d1, cur.StartDate)
	assert.Nil(t, cur.EndDate)
	assert.Equal(t, "wrestler-b", *c.CurrentHolderID)
	requireLineageInvariant(t, c)
}

func TestChampionship_SetHolder_DefaultsWonFromToPreviousHolder(t *testing.T) {
	c := newTestChampionship(t)
	require.NoError(t, c.SetHolder("wrestler-a", nil, nil, d0))

	require.NoError(t, c.SetHolder("wrestler-b", nil, nil, d1))

	assert.Equal(t, strPtr("wrestler-a"), c.TitleHistory[1].WonFromID)
}

func TestChampionship_SetHolder_AppendsExactlyOneReignPerCall(t *testing.T) {
	c := newTestChampionship(t)
	holders := []string{"w-1", "w-2", "w-3", "w-4", "w-5"}

	for i, h := range holders {
		at := d0.Add(time.Duration(i) * 24 * time.Hour)
		require.NoError(t, c.SetHolder(h, nil, nil, at))
		assert.Len(t, c.TitleHistory, i+1)
		requireLineageInvariant(t, c)
	}

	closed := 0
	for _, r := range c.TitleHistory {
		if r.EndDate != nil {
			closed++
		}
	}
	assert.Equal(t, len(holders)-1, closed)
}

func TestChampionship_SetHolder_Rejections(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(c *Championship)
		holder      string
		at          time.Time
		expectedErr error
		kind        error
	}{
		{
			name:        "新王者が空",
			setup:       func(c *Championship) {},
			holder:      " ",
			at:          d0,
			expectedErr: ErrHolderRequired,
			kind:        apperr.ErrValidation,
		},
		{
			name:        "現王者と同じ",
			setup:       func(c *Championship) { _ = c.SetHolder("wrestler-a", nil, nil, d0) },
			holder:      "wrestler-a",
			at:          d1,
			expectedErr: ErrSameHolder,
			kind:        apperr.ErrValidation,
		},
		{
			name:        "戴冠開始日より前",
			setup:       func(c *Championship) { _ = c.SetHolder("wrestler-a", nil, nil, d1) },
			holder:      "wrestler-b",
			at:          d0,
			expectedErr: ErrBoundaryBeforeStart,
			kind:        apperr.ErrValidation,
		},
		{
			name:        "無効化済み",
			setup:       func(c *Championship) { c.Deactivate() },
			holder:      "wrestler-a",
			at:          d0,
			expectedErr: ErrChampionshipInactive,
			kind:        apperr.ErrConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChampionship(t)
			tt.setup(c)
			before := c.Clone()

			err := c.SetHolder(tt.holder, nil, nil, tt.at)

			assert.ErrorIs(t, err, tt.expectedErr)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, before.TitleHistory, c.TitleHistory)
			assert.Equal(t, before.CurrentHolderID, c.CurrentHolderID)
		})
	}
}

func TestChampionship_VacateAndRewin(t *testing.T) {
	c := newTestChampionship(t)
	require.NoError(t, c.SetHolder("wrestler-a", nil, nil, d0))

	require.NoError(t, c.Vacate(d1))
	assert.True(t, c.IsVacant())
	assert.Nil(t, c.CurrentHolderID)
	requireLineageInvariant(t, c)

	// 空位を挟めば同じレスラーが再戴冠できる
	require.NoError(t, c.SetHolder("wrestler-a", nil, nil, d2))
	require.Len(t, c.TitleHistory, 2)
	assert.Nil(t, c.TitleHistory[1].WonFromID)
	assert.Equal(t, "wrestler-a", *c.CurrentHolderID)
	requireLineageInvariant(t, c)
}

func TestChampionship_Vacate_AlreadyVacant(t *testing.T) {
	c := newTestChampionship(t)
	err := c.Vacate(d0)
	assert.ErrorIs(t, err, ErrAlreadyVacant)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestChampionship_RecordDefense_VacantTitle(t *testing.T) {
	c := newTestChampionship(t)
	before := c.Clone()

	err := c.RecordDefense("wrestler-1", nil, d0, 3)

	assert.ErrorIs(t, err, ErrTitleVacant)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, before, c)
}

func TestChampionship_RecordDefense_VacantAfterVacate(t *testing.T) {
	c := newTestChampionship(t)
	require.NoError(t, c.SetHolder("wrestler-a", nil, nil, d0))
	require.NoError(t, c.Vacate(d1))
	before := c.Clone()

	// 品質値が不正でも空位の競合が優先される
	err := c.RecordDefense("wrestler-b", nil, d2, 9)

	assert.ErrorIs(t, err, ErrTitleVacant)
	assert.Equal(t, before, c)
}

func TestChampionship_RecordDefense_Success(t *testing.T) {
	c := newTestChampionship(t)
	require.NoError(t, c.SetHolder("wrestler-a", nil, nil, d0))

	require.NoError(t, c.RecordDefense("wrestler-b", strPtr("show-2"), d1, 4.5))
	require.NoError(t, c.RecordDefense("wrestler-c", nil, d2, 3))

	reign := c.TitleHistory[0]
	assert.Equal(t, 2, reign.DefenseCount)
	require.Len(t, reign.Defenses, 2)
	assert.Equal(t, "wrestler-b", reign.Defenses[0].ChallengerID)
	assert.Equal(t, strPtr("show-2"), reign.Defenses[0].ShowID)
	assert.Equal(t, rating.Stars(4.5), reign.Defenses[0].Quality)
	assert.Equal(t, d1, reign.Defenses[0].Date)
	require.NotNil(t, c.LastDefendedAt)
	assert.Equal(t, d2, *c.LastDefendedAt)
	require.NoError(t, c.CheckInvariants())
}

func TestChampionship_RecordDefense_Rejections(t *testing.T) {
	tests := []struct {
		name        string
		challenger  string
		quality     rating.Stars
		at          time.Time
		expectedErr error
	}{
		{name: "品質が範囲外", challenger: "wrestler-b", quality: 5.5, at: d1, expectedErr: ErrInvalidQuality},
		{name: "品質が0.5刻みでない", challenger: "wrestler-b", quality: 3.25, at: d1, expectedErr: ErrInvalidQuality},
		{name: "品質が0", challenger: "wrestler-b", quality: 0, at: d1, expectedErr: ErrInvalidQuality},
		{name: "挑戦者が空", challenger: "", quality: 3, at: d1, expectedErr: ErrChallengerRequired},
		{name: "挑戦者が現王者", challenger: "wrestler-a", quality: 3, at: d1, expectedErr: ErrChallengerIsHolder},
		{name: "戴冠開始日より前", challenger: "wrestler-b", quality: 3, at: d0.Add(-time.Hour), expectedErr: ErrBoundaryBeforeStart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChampionship(t)
			require.NoError(t, c.SetHolder("wrestler-a", nil, nil, d0))
			before := c.Clone()

			err := c.RecordDefense(tt.challenger, nil, tt.at, tt.quality)

			assert.ErrorIs(t, err, tt.expectedErr)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, before.TitleHistory, c.TitleHistory)
			assert.Nil(t, c.LastDefendedAt)
		})
	}
}

func TestChampionship_CanDelete(t *testing.T) {
	c := newTestChampionship(t)
	assert.True(t, c.CanDelete())

	require.NoError(t, c.SetHolder("wrestler-a", nil, nil, d0))
	assert.False(t, c.CanDelete())

	c.Deactivate()
	assert.False(t, c.IsActive)
}

func TestChampionship_CheckInvariants(t *testing.T) {
	end := d1
	tests := []struct {
		name    string
		history []Reign
		holder  *string
		wantErr bool
	}{
		{name: "空位", history: nil, holder: nil},
		{name: "継続中1件", history: []Reign{{HolderID: "a", StartDate: d0}}, holder: strPtr("a")},
		{
			name:    "継続中が2件",
			history: []Reign{{HolderID: "a", StartDate: d0}, {HolderID: "b", StartDate: d1}},
			holder:  strPtr("b"),
			wantErr: true,
		},
		{name: "現王者が不一致", history: []Reign{{HolderID: "a", StartDate: d0}}, holder: strPtr("b"), wantErr: true},
		{name: "現王者なし", history: []Reign{{HolderID: "a", StartDate: d0}}, holder: nil, wantErr: true},
		{name: "空位なのに現王者あり", history: []Reign{{HolderID: "a", StartDate: d0, EndDate: &end}}, holder: strPtr("a"), wantErr: true},
		{name: "終了日が開始日より前", history: []Reign{{HolderID: "a", StartDate: d2, EndDate: &end}}, holder: nil, wantErr: true},
		{
			name:    "防衛回数の不一致",
			history: []Reign{{HolderID: "a", StartDate: d0, DefenseCount: 2, Defenses: []Defense{{ChallengerID: "b", Date: d1, Quality: 3}}}},
			holder:  strPtr("a"),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Championship{TitleHistory: tt.history, CurrentHolderID: tt.holder}
			err := c.CheckInvariants()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInconsistentLineage)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestChampionship_Clone_IsIndependent(t *testing.T) {
	c := newTestChampionship(t)
	require.NoError(t, c.SetHolder("wrestler-a", nil, strPtr("show-1"), d0))
	require.NoError(t, c.RecordDefense("wrestler-b", strPtr("show-2"), d1, 3))

	cp := c.Clone()
	assert.Equal(t, c, cp)

	require.NoError(t, cp.SetHolder("wrestler-c", nil, nil, d2))
	*cp.TitleHistory[0].Defenses[0].ShowID = "changed"

	assert.Len(t, c.TitleHistory, 1)
	assert.Nil(t, c.TitleHistory[0].EndDate)
	assert.Equal(t, "show-2", *c.TitleHistory[0].Defenses[0].ShowID)
	assert.Equal(t, "wrestler-a", *c.CurrentHolderID)
}

func ExampleChampionship_SetHolder() {
	c := NewChampionship("company-1", "世界王座", WeightClassWorld, 90)
	_ = c.SetHolder("wrestler-a", nil, nil, d0)
	_ = c.SetHolder("wrestler-b", nil, nil, d1)
	fmt.Println(len(c.TitleHistory), *c.CurrentHolderID, *c.TitleHistory[1].WonFromID)
	// Output: 2 wrestler-b wrestler-a
}
