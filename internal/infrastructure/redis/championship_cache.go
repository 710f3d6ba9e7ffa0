package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/synful23/wrestling-simulator-sub000/internal/domain/championship"
	"github.com/synful23/wrestling-simulator-sub000/internal/infrastructure/document"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// ChampionshipCache はチャンピオンシップの読み取りキャッシュ
// 値は document パッケージのJSON表現で保存する
type ChampionshipCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewChampionshipCache は新しいChampionshipCacheインスタンスを作成する
func NewChampionshipCache(client *redis.Client, ttl time.Duration) *ChampionshipCache {
	return &ChampionshipCache{client: client, ttl: ttl}
}

// Get はチャンピオンシップをキャッシュから取得する
func (c *ChampionshipCache) Get(ctx context.Context, id string) (*championship.Championship, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	ch, err := document.DecodeChampionship(data)
	if err != nil {
		// 壊れたエントリは捨ててミス扱いにする
		_ = c.client.Del(ctx, c.key(id)).Err()
		return nil, ErrCacheMiss
	}
	return ch, nil
}

// Set はチャンピオンシップをキャッシュに保存する
func (c *ChampionshipCache) Set(ctx context.Context, ch *championship.Championship) error {
	data, err := document.EncodeChampionship(ch)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.key(ch.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は指定したチャンピオンシップのキャッシュを無効化する
func (c *ChampionshipCache) Invalidate(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.key(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *ChampionshipCache) key(id string) string {
	return fmt.Sprintf("championship:%s", id)
}
