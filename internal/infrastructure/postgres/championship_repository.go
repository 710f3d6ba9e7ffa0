package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/synful23/wrestling-simulator-sub000/internal/domain/championship"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/transaction"
	"github.com/synful23/wrestling-simulator-sub000/internal/infrastructure/document"
)

const championshipColumns = `id, company_id, name, weight_class, prestige, is_active, current_holder_id,
	last_defended_at, title_history, created_at, updated_at, version`

// championshipRow はDBの行を表す構造体
type championshipRow struct {
	ID              string     `db:"id"`
	CompanyID       string     `db:"company_id"`
	Name            string     `db:"name"`
	WeightClass     string     `db:"weight_class"`
	Prestige        int        `db:"prestige"`
	IsActive        bool       `db:"is_active"`
	CurrentHolderID *string    `db:"current_holder_id"`
	LastDefendedAt  *time.Time `db:"last_defended_at"`
	TitleHistory    []byte     `db:"title_history"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	Version         int        `db:"version"`
}

// toEntity は championshipRow を Championship エンティティに変換する
// 保存された系譜が矛盾している場合はエラーを返す
func (r *championshipRow) toEntity() (*championship.Championship, error) {
	history, err := document.DecodeTitleHistory(r.TitleHistory)
	if err != nil {
		return nil, err
	}
	c := &championship.Championship{
		ID:              r.ID,
		CompanyID:       r.CompanyID,
		Name:            r.Name,
		WeightClass:     championship.WeightClass(r.WeightClass),
		Prestige:        r.Prestige,
		IsActive:        r.IsActive,
		CurrentHolderID: r.CurrentHolderID,
		LastDefendedAt:  r.LastDefendedAt,
		TitleHistory:    history,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Version:         r.Version,
	}
	if err := c.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("チャンピオンシップ %s: %w", r.ID, err)
	}
	return c, nil
}

// ChampionshipRepository はチャンピオンシップリポジトリのPostgreSQL実装
// 王座履歴は title_history (JSONB) に丸ごと保存する
type ChampionshipRepository struct {
	db *sqlx.DB
}

// NewChampionshipRepository はChampionshipRepositoryを作成する
func NewChampionshipRepository(db *sqlx.DB) *ChampionshipRepository {
	return &ChampionshipRepository{db: db}
}

// Create は新しいチャンピオンシップを作成する
func (r *ChampionshipRepository) Create(ctx context.Context, c *championship.Championship) error {
	history, err := document.EncodeTitleHistory(c.TitleHistory)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO championships (company_id, name, weight_class, prestige, is_active, current_holder_id,
			last_defended_at, title_history, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	err = r.db.QueryRowContext(ctx, query,
		c.CompanyID, c.Name, string(c.WeightClass), c.Prestige, c.IsActive, c.CurrentHolderID,
		c.LastDefendedAt, string(history), c.CreatedAt, c.UpdatedAt, c.Version,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("チャンピオンシップ作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDからチャンピオンシップを取得する
func (r *ChampionshipRepository) GetByID(ctx context.Context, id string) (*championship.Championship, error) {
	query := `SELECT ` + championshipColumns + ` FROM championships WHERE id = $1`
	return r.get(ctx, r.db, query, id)
}

// GetByIDForUpdate はトランザクション内で行ロックを取得しつつ読み込む
func (r *ChampionshipRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*championship.Championship, error) {
	sqlTx, err := requireTx(tx)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + championshipColumns + ` FROM championships WHERE id = $1 FOR UPDATE`
	return r.get(ctx, sqlTx, query, id)
}

func (r *ChampionshipRepository) get(ctx context.Context, q sqlx.QueryerContext, query, id string) (*championship.Championship, error) {
	var row championshipRow
	if err := sqlx.GetContext(ctx, q, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, championship.ErrChampionshipNotFound
		}
		return nil, fmt.Errorf("チャンピオンシップ取得に失敗しました: %w", err)
	}
	return row.toEntity()
}

// ListByCompany は団体のチャンピオンシップ一覧を名前順で取得する
func (r *ChampionshipRepository) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*championship.Championship, error) {
	query := `
		SELECT ` + championshipColumns + `
		FROM championships
		WHERE company_id = $1
		ORDER BY name, id
		LIMIT $2 OFFSET $3
	`
	var rows []championshipRow
	if err := r.db.SelectContext(ctx, &rows, query, companyID, limit, offset); err != nil {
		if isInvalidID(err) {
			return []*championship.Championship{}, nil
		}
		return nil, fmt.Errorf("チャンピオンシップ一覧取得に失敗しました: %w", err)
	}

	list := make([]*championship.Championship, len(rows))
	for i := range rows {
		c, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		list[i] = c
	}
	return list, nil
}

// Update はチャンピオンシップを更新する（楽観的ロック）
func (r *ChampionshipRepository) Update(ctx context.Context, tx transaction.Tx, c *championship.Championship) error {
	sqlTx, err := requireTx(tx)
	if err != nil {
		return err
	}
	if err := c.CheckInvariants(); err != nil {
		return err
	}
	history, err := document.EncodeTitleHistory(c.TitleHistory)
	if err != nil {
		return err
	}

	query := `
		UPDATE championships
		SET name = $1, weight_class = $2, prestige = $3, is_active = $4, current_holder_id = $5,
		    last_defended_at = $6, title_history = $7, updated_at = $8, version = version + 1
		WHERE id = $9 AND version = $10
	`
	result, err := sqlTx.ExecContext(ctx, query,
		c.Name, string(c.WeightClass), c.Prestige, c.IsActive, c.CurrentHolderID,
		c.LastDefendedAt, string(history), c.UpdatedAt, c.ID, c.Version,
	)
	if err != nil {
		return fmt.Errorf("チャンピオンシップ更新に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return championship.ErrOptimisticLockConflict
	}

	c.Version++
	return nil
}

// Delete はチャンピオンシップを物理削除する
func (r *ChampionshipRepository) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	sqlTx, err := requireTx(tx)
	if err != nil {
		return err
	}
	result, err := sqlTx.ExecContext(ctx, `DELETE FROM championships WHERE id = $1`, id)
	if err != nil {
		if isInvalidID(err) {
			return championship.ErrChampionshipNotFound
		}
		return fmt.Errorf("チャンピオンシップ削除に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return championship.ErrChampionshipNotFound
	}
	return nil
}

// インターフェースを満たしているか確認
var _ championship.Repository = (*ChampionshipRepository)(nil)
