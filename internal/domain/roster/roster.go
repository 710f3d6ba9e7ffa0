// Package roster は大会と王座の管理が参照する団体・選手・会場の読み取り専用ビューを定義する
package roster

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/synful23/wrestling-simulator-sub000/internal/domain/apperr"
)

var (
	ErrCompanyNotFound = apperr.New(apperr.NotFound, "団体が見つかりません")
	ErrVenueNotFound   = apperr.New(apperr.NotFound, "会場が見つかりません")
)

// Style は選手のファイトスタイル
type Style string

const (
	StyleTechnical  Style = "technical"
	StyleHighFlyer  Style = "high_flyer"
	StyleBrawler    Style = "brawler"
	StylePowerhouse Style = "powerhouse"
	StyleShowman    Style = "showman"
	StyleAllRounder Style = "all_rounder"
)

// Company は団体
type Company struct {
	ID         string
	Name       string
	Popularity int // 0〜100
	Money      decimal.Decimal
}

// Wrestler は団体所属の選手
type Wrestler struct {
	ID         string
	CompanyID  string
	Name       string
	Style      Style
	Salary     decimal.Decimal // 1大会あたりの基準ギャラ
	Popularity int
}

// Venue は会場
type Venue struct {
	ID         string
	Name       string
	Capacity   int
	RentalCost decimal.Decimal
}

// Directory は団体・選手・会場の参照を提供する
type Directory interface {
	GetCompany(ctx context.Context, id string) (*Company, error)
	GetVenue(ctx context.Context, id string) (*Venue, error)
	ListRoster(ctx context.Context, companyID string) ([]*Wrestler, error)
}

// ProfitApplied は大会終了時に団体の資金へ反映すべき収支の通知
type ProfitApplied struct {
	CompanyID   string          `json:"company_id"`
	ShowID      string          `json:"show_id"`
	Profit      decimal.Decimal `json:"profit"`
	CompletedAt time.Time       `json:"completed_at"`
}

// ProfitNotifier は収支の反映を団体管理側へ依頼する
type ProfitNotifier interface {
	ApplyProfit(ctx context.Context, event ProfitApplied) error
}

// Index は選手IDで引けるロスター
type Index map[string]*Wrestler

// NewIndex はロスターから Index を作成する
func NewIndex(wrestlers []*Wrestler) Index {
	idx := make(Index, len(wrestlers))
	for _, w := range wrestlers {
		idx[w.ID] = w
	}
	return idx
}

// Missing は ids のうちロスターに含まれない選手IDを返す
func (idx Index) Missing(ids []string) []string {
	var missing []string
	for _, id := range ids {
		if _, ok := idx[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
