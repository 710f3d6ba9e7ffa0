package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/synful23/wrestling-simulator-sub000/internal/domain/championship"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/rating"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/show"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/transaction"
	redisinfra "github.com/synful23/wrestling-simulator-sub000/internal/infrastructure/redis"
	"github.com/synful23/wrestling-simulator-sub000/internal/pkg/logger"
	"github.com/synful23/wrestling-simulator-sub000/internal/pkg/metrics"
)

// ChampionshipService は王座の系譜を管理する
// 更新系の操作は championship:<id> のロックと1つのトランザクションの中で行う
type ChampionshipService struct {
	txManager transaction.Manager
	repo      championship.Repository
	showRepo  show.Repository
	cache     ChampionshipCache
	locker    Locker
	now       func() time.Time
}

func NewChampionshipService(tm transaction.Manager, cr championship.Repository, sr show.Repository) *ChampionshipService {
	return &ChampionshipService{txManager: tm, repo: cr, showRepo: sr, now: time.Now}
}

// WithCache は読み取りキャッシュを設定する
func (s *ChampionshipService) WithCache(c ChampionshipCache) *ChampionshipService {
	s.cache = c
	return s
}

// WithLocker は分散ロックを設定する
func (s *ChampionshipService) WithLocker(l Locker) *ChampionshipService {
	s.locker = l
	return s
}

type CreateChampionshipInput struct {
	CompanyID   string
	Name        string
	WeightClass championship.WeightClass
	Prestige    int
}

func (s *ChampionshipService) CreateChampionship(ctx context.Context, input CreateChampionshipInput) (*championship.Championship, error) {
	c := championship.NewChampionship(input.CompanyID, input.Name, input.WeightClass, input.Prestige)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ChampionshipService) GetChampionship(ctx context.Context, id string) (*championship.Championship, error) {
	// キャッシュから取得を試みる
	if s.cache != nil {
		c, err := s.cache.Get(ctx, id)
		if err == nil {
			logger.Debug("キャッシュヒット", zap.String("championship_id", id))
			return c, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	if s.cache == nil {
		return s.repo.GetByID(ctx, id)
	}

	// 更新と同じロックの中で読んだ値だけをキャッシュに入れる
	unlock, err := lockAll(ctx, s.locker, championshipLockKey(id))
	if err != nil {
		logger.Debug("ロック取得失敗のためキャッシュせずに返す", zap.String("championship_id", id), zap.Error(err))
		return s.repo.GetByID(ctx, id)
	}
	defer unlock()

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cacheErr := s.cache.Set(ctx, c); cacheErr != nil {
		logger.Warn("キャッシュ保存エラー", zap.Error(cacheErr))
	}
	return c, nil
}

func (s *ChampionshipService) ListChampionships(ctx context.Context, companyID string, limit, offset int) ([]*championship.Championship, error) {
	return s.repo.ListByCompany(ctx, companyID, normalizeLimit(limit), offset)
}

type SetHolderInput struct {
	ChampionshipID string
	NewHolderID    string
	WonFromID      *string
	ShowID         *string
}

// SetHolder は新王者を記録する
// 大会を指定した場合、戴冠の境界はその大会の開催日になる
func (s *ChampionshipService) SetHolder(ctx context.Context, input SetHolderInput) (*championship.Championship, error) {
	c, err := s.mutate(ctx, input.ChampionshipID, func(c *championship.Championship) error {
		at, err := s.boundary(ctx, c, input.ShowID)
		if err != nil {
			return err
		}
		return c.SetHolder(input.NewHolderID, input.WonFromID, input.ShowID, at)
	})
	if err != nil {
		return nil, err
	}
	metrics.Get().AddTitleChanges("manual", 1)
	return c, nil
}

type RecordDefenseInput struct {
	ChampionshipID string
	ChallengerID   string
	ShowID         *string
	Quality        rating.Stars
}

// RecordDefense は現王者の防衛を記録する
func (s *ChampionshipService) RecordDefense(ctx context.Context, input RecordDefenseInput) (*championship.Championship, error) {
	c, err := s.mutate(ctx, input.ChampionshipID, func(c *championship.Championship) error {
		// 空位チェックを大会の参照より先に行う
		if c.IsVacant() {
			return championship.ErrTitleVacant
		}
		at, err := s.boundary(ctx, c, input.ShowID)
		if err != nil {
			return err
		}
		return c.RecordDefense(input.ChallengerID, input.ShowID, at, input.Quality)
	})
	if err != nil {
		return nil, err
	}
	metrics.Get().AddTitleDefenses("manual", 1)
	return c, nil
}

// Vacate は王座を空位にする
func (s *ChampionshipService) Vacate(ctx context.Context, id string) (*championship.Championship, error) {
	return s.mutate(ctx, id, func(c *championship.Championship) error {
		return c.Vacate(s.now())
	})
}

// Deactivate はチャンピオンシップを無効化する
func (s *ChampionshipService) Deactivate(ctx context.Context, id string) (*championship.Championship, error) {
	return s.mutate(ctx, id, func(c *championship.Championship) error {
		c.Deactivate()
		return nil
	})
}

// DeleteResult は削除要求の結果
// 履歴があるため無効化にとどめた場合は Deleted が false になる
type DeleteResult struct {
	Deleted      bool
	Championship *championship.Championship
}

// DeleteChampionship は履歴が空なら物理削除し、そうでなければ無効化する
func (s *ChampionshipService) DeleteChampionship(ctx context.Context, id string) (*DeleteResult, error) {
	unlock, err := lockAll(ctx, s.locker, championshipLockKey(id))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result DeleteResult
	err = transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		c, err := s.repo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if c.CanDelete() {
			result.Deleted = true
			return s.repo.Delete(ctx, tx, id)
		}
		c.Deactivate()
		if err := s.repo.Update(ctx, tx, c); err != nil {
			return err
		}
		result.Championship = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	if !result.Deleted {
		logger.Info("履歴があるため無効化にとどめました", zap.String("championship_id", id))
	}
	return &result, nil
}

// mutate はロックとトランザクションの中でチャンピオンシップを読み込み、fn を適用して保存する
func (s *ChampionshipService) mutate(ctx context.Context, id string, fn func(c *championship.Championship) error) (*championship.Championship, error) {
	unlock, err := lockAll(ctx, s.locker, championshipLockKey(id))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var updated *championship.Championship
	err = transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		c, err := s.repo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return updated, nil
}

// boundary は戴冠・防衛の日付を決める
// 大会を参照する場合は終了済みかつ同じ団体の大会であることを確認する
func (s *ChampionshipService) boundary(ctx context.Context, c *championship.Championship, showID *string) (time.Time, error) {
	if showID == nil {
		return s.now(), nil
	}
	sh, err := s.showRepo.GetByID(ctx, *showID)
	if err != nil {
		return time.Time{}, fmt.Errorf("大会取得に失敗: %w", err)
	}
	if sh.Status != show.StatusCompleted {
		return time.Time{}, championship.ErrShowNotCompleted
	}
	if sh.CompanyID != c.CompanyID {
		return time.Time{}, championship.ErrShowOtherCompany
	}
	return sh.Date, nil
}

func (s *ChampionshipService) invalidate(ctx context.Context, ids ...string) {
	if s.cache == nil || len(ids) == 0 {
		return
	}
	if err := s.cache.Invalidate(ctx, ids...); err != nil {
		logger.Warn("キャッシュ無効化エラー", zap.Strings("championship_ids", ids), zap.Error(err))
	}
}
