package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/synful23/wrestling-simulator-sub000/internal/domain/roster"
)

type companyRow struct {
	ID         string          `db:"id"`
	Name       string          `db:"name"`
	Popularity int             `db:"popularity"`
	Money      decimal.Decimal `db:"money"`
}

type venueRow struct {
	ID         string          `db:"id"`
	Name       string          `db:"name"`
	Capacity   int             `db:"capacity"`
	RentalCost decimal.Decimal `db:"rental_cost"`
}

type wrestlerRow struct {
	ID         string          `db:"id"`
	CompanyID  string          `db:"company_id"`
	Name       string          `db:"name"`
	Style      string          `db:"style"`
	Salary     decimal.Decimal `db:"salary"`
	Popularity int             `db:"popularity"`
}

// RosterDirectory は団体・選手・会場テーブルを読み取り専用で参照する
type RosterDirectory struct {
	db *sqlx.DB
}

// NewRosterDirectory はRosterDirectoryを作成する
func NewRosterDirectory(db *sqlx.DB) *RosterDirectory {
	return &RosterDirectory{db: db}
}

// GetCompany はIDから団体を取得する
func (d *RosterDirectory) GetCompany(ctx context.Context, id string) (*roster.Company, error) {
	var row companyRow
	query := `SELECT id, name, popularity, money FROM companies WHERE id = $1`
	if err := d.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, roster.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("団体取得に失敗しました: %w", err)
	}
	return &roster.Company{
		ID:         row.ID,
		Name:       row.Name,
		Popularity: row.Popularity,
		Money:      row.Money,
	}, nil
}

// GetVenue はIDから会場を取得する
func (d *RosterDirectory) GetVenue(ctx context.Context, id string) (*roster.Venue, error) {
	var row venueRow
	query := `SELECT id, name, capacity, rental_cost FROM venues WHERE id = $1`
	if err := d.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, roster.ErrVenueNotFound
		}
		return nil, fmt.Errorf("会場取得に失敗しました: %w", err)
	}
	return &roster.Venue{
		ID:         row.ID,
		Name:       row.Name,
		Capacity:   row.Capacity,
		RentalCost: row.RentalCost,
	}, nil
}

// ListRoster は団体に所属する選手を名前順で取得する
func (d *RosterDirectory) ListRoster(ctx context.Context, companyID string) ([]*roster.Wrestler, error) {
	var rows []wrestlerRow
	query := `
		SELECT id, company_id, name, style, salary, popularity
		FROM wrestlers
		WHERE company_id = $1
		ORDER BY name, id
	`
	if err := d.db.SelectContext(ctx, &rows, query, companyID); err != nil {
		if isInvalidID(err) {
			return []*roster.Wrestler{}, nil
		}
		return nil, fmt.Errorf("選手一覧取得に失敗しました: %w", err)
	}

	wrestlers := make([]*roster.Wrestler, len(rows))
	for i, row := range rows {
		wrestlers[i] = &roster.Wrestler{
			ID:         row.ID,
			CompanyID:  row.CompanyID,
			Name:       row.Name,
			Style:      roster.Style(row.Style),
			Salary:     row.Salary,
			Popularity: row.Popularity,
		}
	}
	return wrestlers, nil
}

var _ roster.Directory = (*RosterDirectory)(nil)
