package application

import (
	"context"
	"sort"

	"github.com/synful23/wrestling-simulator-sub000/internal/domain/championship"
)

const defaultListLimit = 20

// Locker は ID 単位の排他制御を提供する
// 返される unlock は必ず呼び出すこと
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// ChampionshipCache はチャンピオンシップの読み取りキャッシュ
// キャッシュにない場合は redis.ErrCacheMiss を返す
type ChampionshipCache interface {
	Get(ctx context.Context, id string) (*championship.Championship, error)
	Set(ctx context.Context, c *championship.Championship) error
	Invalidate(ctx context.Context, ids ...string) error
}

func showLockKey(id string) string {
	return "show:" + id
}

func championshipLockKey(id string) string {
	return "championship:" + id
}

// lockAll は keys を与えられた順に取得する
// 途中で失敗した場合は取得済みのロックを解放する
func lockAll(ctx context.Context, l Locker, keys ...string) (func(), error) {
	if l == nil {
		return func() {}, nil
	}
	unlocks := make([]func(), 0, len(keys))
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
	for _, key := range keys {
		unlock, err := l.Lock(ctx, key)
		if err != nil {
			release()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}

// sortedChampionshipKeys はチャンピオンシップIDをソートしてロックキーにする（デッドロック防止）
func sortedChampionshipKeys(ids []string) []string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	keys := make([]string, len(sorted))
	for i, id := range sorted {
		keys[i] = championshipLockKey(id)
	}
	return keys
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return limit
}
