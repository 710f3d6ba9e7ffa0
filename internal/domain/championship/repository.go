package championship

import (
	"context"

	"github.com/synful23/wrestling-simulator-sub000/internal/domain/transaction"
)

// Repository はチャンピオンシップリポジトリのインターフェース
type Repository interface {
	// Create は新しいチャンピオンシップを作成する
	Create(ctx context.Context, c *Championship) error

	// GetByID はIDからチャンピオンシップを取得する
	GetByID(ctx context.Context, id string) (*Championship, error)

	// GetByIDForUpdate はトランザクション内で行ロックを取得しつつ読み込む
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Championship, error)

	// ListByCompany は団体のチャンピオンシップ一覧を取得する
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*Championship, error)

	// Update はチャンピオンシップを更新する（楽観的ロック、トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, c *Championship) error

	// Delete はチャンピオンシップを物理削除する（トランザクション必須）
	Delete(ctx context.Context, tx transaction.Tx, id string) error
}
