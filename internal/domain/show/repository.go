package show

import (
	"context"
	"time"

	"github.com/synful23/wrestling-simulator-sub000/internal/domain/transaction"
)

// Repository は大会リポジトリのインターフェース
type Repository interface {
	// Create は新しい大会を作成する
	Create(ctx context.Context, s *Show) error

	// GetByID はIDから大会を取得する
	GetByID(ctx context.Context, id string) (*Show, error)

	// GetByIDForUpdate はトランザクション内で行ロックを取得しつつ読み込む
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Show, error)

	// ListByCompany は団体の大会一覧を開催日の新しい順で取得する
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*Show, error)

	// ListOverdue は開催日が before より前で未開始（draft/scheduled）の大会を取得する
	ListOverdue(ctx context.Context, before time.Time, limit int) ([]*Show, error)

	// Update は大会を更新する（楽観的ロック、トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, s *Show) error

	// Delete は大会を削除する（トランザクション必須）
	Delete(ctx context.Context, tx transaction.Tx, id string) error
}
