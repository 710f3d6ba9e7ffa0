package championship

import (
	"fmt"
	"strings"
	"time"

	"github.com/synful23/wrestling-simulator-sub000/internal/domain/rating"
)

// WeightClass はチャンピオンシップの階級を表す
type WeightClass string

const (
	WeightClassWorld         WeightClass = "world"
	WeightClassHeavyweight   WeightClass = "heavyweight"
	WeightClassCruiserweight WeightClass = "cruiserweight"
	WeightClassWomen         WeightClass = "women"
	WeightClassTagTeam       WeightClass = "tag_team"
	WeightClassSecondary     WeightClass = "secondary"
)

// Valid は既知の階級かを返す
func (w WeightClass) Valid() bool {
	switch w {
	case WeightClassWorld, WeightClassHeavyweight, WeightClassCruiserweight,
		WeightClassWomen, WeightClassTagTeam, WeightClassSecondary:
		return true
	}
	return false
}

// Defense は王座防衛の記録
type Defense struct {
	ChallengerID string
	ShowID       *string
	Date         time.Time
	Quality      rating.Stars
}

// Reign は1人の王者による連続した保持期間
// EndDate が nil の Reign が「現在の戴冠」
type Reign struct {
	HolderID     string
	WonFromID    *string
	WonAtShowID  *string
	StartDate    time.Time
	EndDate      *time.Time
	DefenseCount int
	Defenses     []Defense
}

// IsOpen は戴冠が継続中かを返す
func (r *Reign) IsOpen() bool {
	return r.EndDate == nil
}

// Championship はチャンピオンシップエンティティを表す
// TitleHistory が唯一の正であり、CurrentHolderID はそこから導出される
type Championship struct {
	ID              string
	CompanyID       string
	Name            string
	WeightClass     WeightClass
	Prestige        int
	IsActive        bool
	CurrentHolderID *string
	LastDefendedAt  *time.Time
	TitleHistory    []Reign
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int // 楽観的ロック用
}

// NewChampionship は新しいチャンピオンシップを作成する（空位・有効）
func NewChampionship(companyID, name string, weightClass WeightClass, prestige int) *Championship {
	now := time.Now()
	return &Championship{
		CompanyID:   companyID,
		Name:        name,
		WeightClass: weightClass,
		Prestige:    prestige,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     0,
	}
}

// Validate はチャンピオンシップの検証を行う
func (c *Championship) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(c.CompanyID) == "" {
		return ErrCompanyIDRequired
	}
	if !c.WeightClass.Valid() {
		return ErrInvalidWeightClass
	}
	if c.Prestige < 0 || c.Prestige > 100 {
		return ErrInvalidPrestige
	}
	return nil
}

// OpenReign は EndDate が nil の戴冠を走査して返す
// 見つからない場合は -1 と nil を返す
func (c *Championship) OpenReign() (int, *Reign) {
	for i := range c.TitleHistory {
		if c.TitleHistory[i].IsOpen() {
			return i, &c.TitleHistory[i]
		}
	}
	return -1, nil
}

// IsVacant は王座が空位かを返す
func (c *Championship) IsVacant() bool {
	_, open := c.OpenReign()
	return open == nil
}

// SetHolder は新王者を記録する
// 現在の戴冠があれば at で閉じ、新しい戴冠を追加する
// wonFromID 省略時は閉じた戴冠の王者を前王者とする
func (c *Championship) SetHolder(newHolderID string, wonFromID, showID *string, at time.Time) error {
	if !c.IsActive {
		return ErrChampionshipInactive
	}
	if strings.TrimSpace(newHolderID) == "" {
		return ErrHolderRequired
	}

	_, open := c.OpenReign()
	if open != nil {
		if open.HolderID == newHolderID {
			return ErrSameHolder
		}
		if at.Before(open.StartDate) {
			return ErrBoundaryBeforeStart
		}
		end := at
		open.EndDate = &end
		if wonFromID == nil {
			prev := open.HolderID
			wonFromID = &prev
		}
	}

	c.TitleHistory = append(c.TitleHistory, Reign{
		HolderID:    newHolderID,
		WonFromID:   copyString(wonFromID),
		WonAtShowID: copyString(showID),
		StartDate:   at,
		Defenses:    []Defense{},
	})
	return c.touch()
}

// RecordDefense は現在の戴冠に防衛記録を追加する
// 空位の場合は状態を一切変更せずに ErrTitleVacant を返す
func (c *Championship) RecordDefense(challengerID string, showID *string, at time.Time, quality rating.Stars) error {
	_, open := c.OpenReign()
	if open == nil {
		return ErrTitleVacant
	}
	if !c.IsActive {
		return ErrChampionshipInactive
	}
	if !quality.Valid() {
		return ErrInvalidQuality
	}
	if strings.TrimSpace(challengerID) == "" {
		return ErrChallengerRequired
	}
	if challengerID == open.HolderID {
		return ErrChallengerIsHolder
	}
	if at.Before(open.StartDate) {
		return ErrBoundaryBeforeStart
	}

	open.Defenses = append(open.Defenses, Defense{
		ChallengerID: challengerID,
		ShowID:       copyString(showID),
		Date:         at,
		Quality:      quality,
	})
	open.DefenseCount = len(open.Defenses)
	defended := at
	c.LastDefendedAt = &defended
	return c.touch()
}

// Vacate は現在の戴冠を閉じて王座を空位にする
func (c *Championship) Vacate(at time.Time) error {
	_, open := c.OpenReign()
	if open == nil {
		return ErrAlreadyVacant
	}
	if at.Before(open.StartDate) {
		return ErrBoundaryBeforeStart
	}
	end := at
	open.EndDate = &end
	return c.touch()
}

// Deactivate は論理削除としてチャンピオンシップを無効化する
func (c *Championship) Deactivate() {
	c.IsActive = false
	c.UpdatedAt = time.Now()
}

// CanDelete は物理削除が許可されるかを返す（履歴が空の場合のみ）
func (c *Championship) CanDelete() bool {
	return len(c.TitleHistory) == 0
}

// CheckInvariants は系譜の整合性を検証する
func (c *Championship) CheckInvariants() error {
	openCount := 0
	var openHolder string
	for i, r := range c.TitleHistory {
		if r.IsOpen() {
			openCount++
			openHolder = r.HolderID
		} else if r.EndDate.Before(r.StartDate) {
			return fmt.Errorf("%w: 戴冠%dの終了日が開始日より前です", ErrInconsistentLineage, i)
		}
		if r.DefenseCount != len(r.Defenses) {
			return fmt.Errorf("%w: 戴冠%dの防衛回数が一致しません", ErrInconsistentLineage, i)
		}
	}
	if openCount > 1 {
		return fmt.Errorf("%w: 継続中の戴冠が%d件あります", ErrInconsistentLineage, openCount)
	}
	switch {
	case openCount == 0 && c.CurrentHolderID != nil:
		return fmt.Errorf("%w: 空位なのに現王者が設定されています", ErrInconsistentLineage)
	case openCount == 1 && (c.CurrentHolderID == nil || *c.CurrentHolderID != openHolder):
		return fmt.Errorf("%w: 現王者が継続中の戴冠と一致しません", ErrInconsistentLineage)
	}
	return nil
}

// Clone はディープコピーを返す
func (c *Championship) Clone() *Championship {
	cp := *c
	cp.CurrentHolderID = copyString(c.CurrentHolderID)
	cp.LastDefendedAt = copyTime(c.LastDefendedAt)
	if c.TitleHistory == nil {
		return &cp
	}
	cp.TitleHistory = make([]Reign, len(c.TitleHistory))
	for i, r := range c.TitleHistory {
		r.WonFromID = copyString(r.WonFromID)
		r.WonAtShowID = copyString(r.WonAtShowID)
		r.EndDate = copyTime(r.EndDate)
		if r.Defenses != nil {
			defenses := make([]Defense, len(r.Defenses))
			for j, d := range r.Defenses {
				d.ShowID = copyString(d.ShowID)
				defenses[j] = d
			}
			r.Defenses = defenses
		}
		cp.TitleHistory[i] = r
	}
	return &cp
}

// touch は現王者を履歴から導出し直し、整合性を検証する
func (c *Championship) touch() error {
	c.syncHolder()
	c.UpdatedAt = time.Now()
	return c.CheckInvariants()
}

func (c *Championship) syncHolder() {
	_, open := c.OpenReign()
	if open == nil {
		c.CurrentHolderID = nil
		return
	}
	holder := open.HolderID
	c.CurrentHolderID = &holder
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
