package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/synful23/wrestling-simulator-sub000/internal/domain/show"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/transaction"
	"github.com/synful23/wrestling-simulator-sub000/internal/infrastructure/document"
)

const showColumns = `id, company_id, venue_id, name, show_type, date, ticket_price, status, matches, segments,
	attendance, results, completed_at, created_at, updated_at, version`

// pendingStatuses は開始前の大会の状態
var pendingStatuses = []string{string(show.StatusDraft), string(show.StatusScheduled)}

type showRow struct {
	ID          string          `db:"id"`
	CompanyID   string          `db:"company_id"`
	VenueID     string          `db:"venue_id"`
	Name        string          `db:"name"`
	ShowType    string          `db:"show_type"`
	Date        time.Time       `db:"date"`
	TicketPrice decimal.Decimal `db:"ticket_price"`
	Status      string          `db:"status"`
	Matches     []byte          `db:"matches"`
	Segments    []byte          `db:"segments"`
	Attendance  *int            `db:"attendance"`
	Results     []byte          `db:"results"`
	CompletedAt *time.Time      `db:"completed_at"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	Version     int             `db:"version"`
}

func (r *showRow) toEntity() (*show.Show, error) {
	matches, segments, err := document.DecodeCard(r.Matches, r.Segments)
	if err != nil {
		return nil, fmt.Errorf("大会 %s: %w", r.ID, err)
	}
	results, err := document.DecodeResults(r.Results)
	if err != nil {
		return nil, fmt.Errorf("大会 %s: %w", r.ID, err)
	}
	return &show.Show{
		ID:          r.ID,
		CompanyID:   r.CompanyID,
		VenueID:     r.VenueID,
		Name:        r.Name,
		ShowType:    show.Type(r.ShowType),
		Date:        r.Date,
		TicketPrice: r.TicketPrice,
		Status:      show.Status(r.Status),
		Matches:     matches,
		Segments:    segments,
		Attendance:  r.Attendance,
		Results:     results,
		CompletedAt: r.CompletedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Version:     r.Version,
	}, nil
}

func toShows(rows []showRow) ([]*show.Show, error) {
	shows := make([]*show.Show, len(rows))
	for i := range rows {
		sh, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		shows[i] = sh
	}
	return shows, nil
}

// ShowRepository は大会リポジトリのPostgreSQL実装
// カード（試合・セグメント）と結果は JSONB カラムに保存する
type ShowRepository struct {
	db *sqlx.DB
}

// NewShowRepository はShowRepositoryを作成する
func NewShowRepository(db *sqlx.DB) *ShowRepository {
	return &ShowRepository{db: db}
}

// Create は新しい大会を作成する
func (r *ShowRepository) Create(ctx context.Context, s *show.Show) error {
	matches, segments, err := document.EncodeCard(s.Matches, s.Segments)
	if err != nil {
		return err
	}
	results, err := document.EncodeResults(s.Results)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO shows (company_id, venue_id, name, show_type, date, ticket_price, status, matches, segments,
			attendance, results, completed_at, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`
	err = r.db.QueryRowContext(ctx, query,
		s.CompanyID, s.VenueID, s.Name, string(s.ShowType), s.Date, s.TicketPrice, string(s.Status),
		string(matches), string(segments), s.Attendance, nullableJSON(results), s.CompletedAt,
		s.CreatedAt, s.UpdatedAt, s.Version,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("大会作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDから大会を取得する
func (r *ShowRepository) GetByID(ctx context.Context, id string) (*show.Show, error) {
	query := `SELECT ` + showColumns + ` FROM shows WHERE id = $1`
	return r.get(ctx, r.db, query, id)
}

// GetByIDForUpdate はトランザクション内で行ロックを取得しつつ読み込む
func (r *ShowRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*show.Show, error) {
	sqlTx, err := requireTx(tx)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + showColumns + ` FROM shows WHERE id = $1 FOR UPDATE`
	return r.get(ctx, sqlTx, query, id)
}

func (r *ShowRepository) get(ctx context.Context, q sqlx.QueryerContext, query, id string) (*show.Show, error) {
	var row showRow
	if err := sqlx.GetContext(ctx, q, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, show.ErrShowNotFound
		}
		return nil, fmt.Errorf("大会取得に失敗しました: %w", err)
	}
	return row.toEntity()
}

// ListByCompany は団体の大会一覧を開催日の新しい順で取得する
func (r *ShowRepository) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*show.Show, error) {
	query := `
		SELECT ` + showColumns + `
		FROM shows
		WHERE company_id = $1
		ORDER BY date DESC, id
		LIMIT $2 OFFSET $3
	`
	var rows []showRow
	if err := r.db.SelectContext(ctx, &rows, query, companyID, limit, offset); err != nil {
		if isInvalidID(err) {
			return []*show.Show{}, nil
		}
		return nil, fmt.Errorf("大会一覧取得に失敗しました: %w", err)
	}
	return toShows(rows)
}

// ListOverdue は開催日が before より前で未開始の大会を開催日の古い順で取得する
func (r *ShowRepository) ListOverdue(ctx context.Context, before time.Time, limit int) ([]*show.Show, error) {
	query := `
		SELECT ` + showColumns + `
		FROM shows
		WHERE status = ANY($1) AND date < $2
		ORDER BY date
		LIMIT $3
	`
	var rows []showRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(pendingStatuses), before, limit); err != nil {
		return nil, fmt.Errorf("期限切れ大会の取得に失敗しました: %w", err)
	}
	return toShows(rows)
}

// Update は大会を更新する（楽観的ロック）
func (r *ShowRepository) Update(ctx context.Context, tx transaction.Tx, s *show.Show) error {
	sqlTx, err := requireTx(tx)
	if err != nil {
		return err
	}
	matches, segments, err := document.EncodeCard(s.Matches, s.Segments)
	if err != nil {
		return err
	}
	results, err := document.EncodeResults(s.Results)
	if err != nil {
		return err
	}

	query := `
		UPDATE shows
		SET venue_id = $1, name = $2, show_type = $3, date = $4, ticket_price = $5, status = $6,
		    matches = $7, segments = $8, attendance = $9, results = $10, completed_at = $11,
		    updated_at = $12, version = version + 1
		WHERE id = $13 AND version = $14
	`
	result, err := sqlTx.ExecContext(ctx, query,
		s.VenueID, s.Name, string(s.ShowType), s.Date, s.TicketPrice, string(s.Status),
		string(matches), string(segments), s.Attendance, nullableJSON(results), s.CompletedAt,
		s.UpdatedAt, s.ID, s.Version,
	)
	if err != nil {
		return fmt.Errorf("大会更新に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return show.ErrOptimisticLockConflict
	}

	s.Version++
	return nil
}

// Delete は大会を削除する
func (r *ShowRepository) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	sqlTx, err := requireTx(tx)
	if err != nil {
		return err
	}
	result, err := sqlTx.ExecContext(ctx, `DELETE FROM shows WHERE id = $1`, id)
	if err != nil {
		if isInvalidID(err) {
			return show.ErrShowNotFound
		}
		return fmt.Errorf("大会削除に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return show.ErrShowNotFound
	}
	return nil
}

// nullableJSON は空のJSONを NULL として渡す
func nullableJSON(data []byte) *string {
	if data == nil {
		return nil
	}
	s := string(data)
	return &s
}

// インターフェースを満たしているか確認
var _ show.Repository = (*ShowRepository)(nil)
