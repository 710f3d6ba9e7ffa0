// Package document はエンティティと永続化用JSONの相互変換を行う
// PostgreSQL の JSONB カラムと Redis のキャッシュが同じ表現を使う
package document

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/synful23/wrestling-simulator-sub000/internal/domain/championship"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/rating"
)

type DefenseDoc struct {
	ChallengerID string    `json:"challenger_id"`
	ShowID       *string   `json:"show_id,omitempty"`
	Date         time.Time `json:"date"`
	Quality      float64   `json:"quality"`
}

type ReignDoc struct {
	HolderID     string       `json:"holder_id"`
	WonFromID    *string      `json:"won_from_id,omitempty"`
	WonAtShowID  *string      `json:"won_at_show_id,omitempty"`
	StartDate    time.Time    `json:"start_date"`
	EndDate      *time.Time   `json:"end_date,omitempty"`
	DefenseCount int          `json:"defense_count"`
	Defenses     []DefenseDoc `json:"defenses"`
}

// ChampionshipDoc はチャンピオンシップ全体のJSON表現
type ChampionshipDoc struct {
	ID              string     `json:"id"`
	CompanyID       string     `json:"company_id"`
	Name            string     `json:"name"`
	WeightClass     string     `json:"weight_class"`
	Prestige        int        `json:"prestige"`
	IsActive        bool       `json:"is_active"`
	CurrentHolderID *string    `json:"current_holder_id,omitempty"`
	LastDefendedAt  *time.Time `json:"last_defended_at,omitempty"`
	TitleHistory    []ReignDoc `json:"title_history"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Version         int        `json:"version"`
}

func FromChampionship(c *championship.Championship) ChampionshipDoc {
	return ChampionshipDoc{
		ID:              c.ID,
		CompanyID:       c.CompanyID,
		Name:            c.Name,
		WeightClass:     string(c.WeightClass),
		Prestige:        c.Prestige,
		IsActive:        c.IsActive,
		CurrentHolderID: c.CurrentHolderID,
		LastDefendedAt:  c.LastDefendedAt,
		TitleHistory:    fromReigns(c.TitleHistory),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Version:         c.Version,
	}
}

func (d ChampionshipDoc) Entity() *championship.Championship {
	return &championship.Championship{
		ID:              d.ID,
		CompanyID:       d.CompanyID,
		Name:            d.Name,
		WeightClass:     championship.WeightClass(d.WeightClass),
		Prestige:        d.Prestige,
		IsActive:        d.IsActive,
		CurrentHolderID: d.CurrentHolderID,
		LastDefendedAt:  d.LastDefendedAt,
		TitleHistory:    toReigns(d.TitleHistory),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		Version:         d.Version,
	}
}

// EncodeChampionship はチャンピオンシップをJSONに変換する
func EncodeChampionship(c *championship.Championship) ([]byte, error) {
	data, err := json.Marshal(FromChampionship(c))
	if err != nil {
		return nil, fmt.Errorf("チャンピオンシップのエンコードに失敗: %w", err)
	}
	return data, nil
}

// DecodeChampionship はJSONからチャンピオンシップを復元し、系譜の整合性を検証する
func DecodeChampionship(data []byte) (*championship.Championship, error) {
	var doc ChampionshipDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("チャンピオンシップのデコードに失敗: %w", err)
	}
	c := doc.Entity()
	if err := c.CheckInvariants(); err != nil {
		return nil, err
	}
	return c, nil
}

// EncodeTitleHistory は title_history カラム用に王座履歴をJSONに変換する
// 空の履歴は [] として保存する
func EncodeTitleHistory(reigns []championship.Reign) ([]byte, error) {
	docs := fromReigns(reigns)
	if docs == nil {
		docs = []ReignDoc{}
	}
	data, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("王座履歴のエンコードに失敗: %w", err)
	}
	return data, nil
}

// DecodeTitleHistory は title_history カラムから王座履歴を復元する
// 空の履歴は nil を返す
func DecodeTitleHistory(data []byte) ([]championship.Reign, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var docs []ReignDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("王座履歴のデコードに失敗: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return toReigns(docs), nil
}

func fromReigns(reigns []championship.Reign) []ReignDoc {
	if reigns == nil {
		return nil
	}
	docs := make([]ReignDoc, len(reigns))
	for i, r := range reigns {
		docs[i] = ReignDoc{
			HolderID:     r.HolderID,
			WonFromID:    r.WonFromID,
			WonAtShowID:  r.WonAtShowID,
			StartDate:    r.StartDate,
			EndDate:      r.EndDate,
			DefenseCount: r.DefenseCount,
		}
		if r.Defenses != nil {
			docs[i].Defenses = make([]DefenseDoc, len(r.Defenses))
			for j, d := range r.Defenses {
				docs[i].Defenses[j] = DefenseDoc{
					ChallengerID: d.ChallengerID,
					ShowID:       d.ShowID,
					Date:         d.Date,
					Quality:      float64(d.Quality),
				}
			}
		}
	}
	return docs
}

func toReigns(docs []ReignDoc) []championship.Reign {
	if docs == nil {
		return nil
	}
	reigns := make([]championship.Reign, len(docs))
	for i, d := range docs {
		reigns[i] = championship.Reign{
			HolderID:     d.HolderID,
			WonFromID:    d.WonFromID,
			WonAtShowID:  d.WonAtShowID,
			StartDate:    d.StartDate,
			EndDate:      d.EndDate,
			DefenseCount: d.DefenseCount,
		}
		if d.Defenses != nil {
			reigns[i].Defenses = make([]championship.Defense, len(d.Defenses))
			for j, def := range d.Defenses {
				reigns[i].Defenses[j] = championship.Defense{
					ChallengerID: def.ChallengerID,
					ShowID:       def.ShowID,
					Date:         def.Date,
					Quality:      rating.Stars(def.Quality),
				}
			}
		}
	}
	return reigns
}
