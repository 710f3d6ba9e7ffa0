package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/synful23/wrestling-simulator-sub000/internal/config"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/apperr"
	"github.com/synful23/wrestling-simulator-sub000/internal/pkg/logger"
	"github.com/synful23/wrestling-simulator-sub000/internal/pkg/metrics"
)

var (
	// ErrLockNotAcquired は他のリクエストが同じ大会・王座を処理中であることを表す
	ErrLockNotAcquired = apperr.New(apperr.Conflict, "他の操作が処理中のためロックを取得できませんでした")
	ErrLockNotOwned    = errors.New("ロックの所有者ではありません")
)

// 所有者確認と削除をアトミックに実行する
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// DistributedLock は Redis を使用した分散ロック
type DistributedLock struct {
	client *redis.Client
	key    string
	value  string
	ttl    time.Duration
}

// LockManager は分散ロックを管理する
type LockManager struct {
	client *redis.Client
}

func NewLockManager(client *redis.Client) *LockManager {
	return &LockManager{client: client}
}

// AcquireLock はロックを取得する
func (m *LockManager) AcquireLock(ctx context.Context, key string, ttl time.Duration) (*DistributedLock, error) {
	lockKey := fmt.Sprintf("lock:%s", key)
	lockValue := uuid.New().String()

	ok, err := m.client.SetNX(ctx, lockKey, lockValue, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("ロック取得に失敗: %w", err)
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}

	return &DistributedLock{
		client: m.client,
		key:    lockKey,
		value:  lockValue,
		ttl:    ttl,
	}, nil
}

// AcquireLockWithRetry はリトライ付きでロックを取得する
func (m *LockManager) AcquireLockWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (*DistributedLock, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		lock, err := m.AcquireLock(ctx, key, ttl)
		if err == nil {
			return lock, nil
		}
		lastErr = err
		if !errors.Is(err, ErrLockNotAcquired) {
			return nil, err
		}
		if i == maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, lastErr
}

// Release はロックを解放する
func (l *DistributedLock) Release(ctx context.Context) error {
	result, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.value).Int()
	if err != nil {
		return fmt.Errorf("ロック解放に失敗: %w", err)
	}
	if result == 0 {
		return ErrLockNotOwned
	}
	return nil
}

// Locker は LockManager を ID 単位の排他制御として提供する
type Locker struct {
	manager    *LockManager
	ttl        time.Duration
	retries    int
	retryDelay time.Duration
}

func NewLocker(manager *LockManager, cfg config.LockConfig) *Locker {
	return &Locker{
		manager:    manager,
		ttl:        cfg.TTL,
		retries:    cfg.Retries,
		retryDelay: cfg.RetryDelay,
	}
}

// Lock は key のロックを取得し、解放関数を返す
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	start := time.Now()
	lock, err := l.manager.AcquireLockWithRetry(ctx, key, l.ttl, l.retries, l.retryDelay)
	metrics.Get().ObserveLock("acquire", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, err
	}

	// リクエストがキャンセルされても解放は行う
	releaseCtx := context.WithoutCancel(ctx)
	return func() {
		start := time.Now()
		err := lock.Release(releaseCtx)
		metrics.Get().ObserveLock("release", time.Since(start).Seconds(), err)
		if err != nil {
			logger.Warn("ロック解放エラー", zap.String("key", key), zap.Error(err))
		}
	}, nil
}
