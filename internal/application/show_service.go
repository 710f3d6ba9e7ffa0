package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/synful23/wrestling-simulator-sub000/internal/domain/championship"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/roster"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/show"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/simulation"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/transaction"
	"github.com/synful23/wrestling-simulator-sub000/internal/pkg/logger"
	"github.com/synful23/wrestling-simulator-sub000/internal/pkg/metrics"
)

const overdueBatchSize = 100

// ShowService は大会のカード編集と状態遷移を管理する
// 大会終了時の王座の更新は大会と同じトランザクションで行う
type ShowService struct {
	txManager transaction.Manager
	repo      show.Repository
	champRepo championship.Repository
	directory roster.Directory
	simulator *simulation.Simulator
	notifier  roster.ProfitNotifier
	cache     ChampionshipCache
	locker    Locker
	now       func() time.Time
}

func NewShowService(tm transaction.Manager, sr show.Repository, cr championship.Repository, dir roster.Directory, sim *simulation.Simulator) *ShowService {
	return &ShowService{
		txManager: tm,
		repo:      sr,
		champRepo: cr,
		directory: dir,
		simulator: sim,
		now:       time.Now,
	}
}

// WithNotifier は収支通知の送信先を設定する
func (s *ShowService) WithNotifier(n roster.ProfitNotifier) *ShowService {
	s.notifier = n
	return s
}

// WithCache は大会終了時に無効化するチャンピオンシップキャッシュを設定する
func (s *ShowService) WithCache(c ChampionshipCache) *ShowService {
	s.cache = c
	return s
}

// WithLocker は分散ロックを設定する
func (s *ShowService) WithLocker(l Locker) *ShowService {
	s.locker = l
	return s
}

type CreateShowInput struct {
	CompanyID   string
	VenueID     string
	Name        string
	ShowType    show.Type
	Date        time.Time
	TicketPrice decimal.Decimal
}

func (s *ShowService) CreateShow(ctx context.Context, input CreateShowInput) (*show.Show, error) {
	sh := show.NewShow(input.CompanyID, input.VenueID, input.Name, input.ShowType, input.Date, input.TicketPrice)
	if err := sh.Validate(); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.directory.GetCompany(gctx, input.CompanyID)
		return err
	})
	g.Go(func() error {
		_, err := s.directory.GetVenue(gctx, input.VenueID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, sh); err != nil {
		return nil, err
	}
	return sh, nil
}

func (s *ShowService) GetShow(ctx context.Context, id string) (*show.Show, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ShowService) ListShows(ctx context.Context, companyID string, limit, offset int) ([]*show.Show, error) {
	return s.repo.ListByCompany(ctx, companyID, normalizeLimit(limit), offset)
}

// DeleteShow は未開始または中止済みの大会を削除する
// 終了済みの大会は王座履歴から参照されるため削除できない
func (s *ShowService) DeleteShow(ctx context.Context, id string) error {
	unlock, err := lockAll(ctx, s.locker, showLockKey(id))
	if err != nil {
		return err
	}
	defer unlock()

	return transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		sh, err := s.repo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if !sh.IsDeletable() {
			return show.ErrShowNotDeletable
		}
		return s.repo.Delete(ctx, tx, id)
	})
}

// === カード編集 ===

func (s *ShowService) AddMatch(ctx context.Context, showID string, m show.Match) (*show.Show, error) {
	return s.editCard(ctx, showID, func(sh *show.Show) error {
		if err := m.Validate(); err != nil {
			return err
		}
		if err := s.checkMatchBooking(ctx, sh, &m); err != nil {
			return err
		}
		_, err := sh.AddMatch(m)
		return err
	})
}

func (s *ShowService) UpdateMatch(ctx context.Context, showID, matchID string, m show.Match) (*show.Show, error) {
	return s.editCard(ctx, showID, func(sh *show.Show) error {
		if _, ok := sh.Match(matchID); !ok {
			return show.ErrMatchNotFound
		}
		if err := m.Validate(); err != nil {
			return err
		}
		if err := s.checkMatchBooking(ctx, sh, &m); err != nil {
			return err
		}
		_, err := sh.UpdateMatch(matchID, m)
		return err
	})
}

func (s *ShowService) RemoveMatch(ctx context.Context, showID, matchID string) (*show.Show, error) {
	return s.editCard(ctx, showID, func(sh *show.Show) error {
		return sh.RemoveMatch(matchID)
	})
}

func (s *ShowService) AddSegment(ctx context.Context, showID string, seg show.Segment) (*show.Show, error) {
	return s.editCard(ctx, showID, func(sh *show.Show) error {
		if err := seg.Validate(); err != nil {
			return err
		}
		if err := s.checkRoster(ctx, sh.CompanyID, seg.WrestlerIDs); err != nil {
			return err
		}
		_, err := sh.AddSegment(seg)
		return err
	})
}

func (s *ShowService) UpdateSegment(ctx context.Context, showID, segmentID string, seg show.Segment) (*show.Show, error) {
	return s.editCard(ctx, showID, func(sh *show.Show) error {
		if _, ok := sh.Segment(segmentID); !ok {
			return show.ErrSegmentNotFound
		}
		if err := seg.Validate(); err != nil {
			return err
		}
		if err := s.checkRoster(ctx, sh.CompanyID, seg.WrestlerIDs); err != nil {
			return err
		}
		_, err := sh.UpdateSegment(segmentID, seg)
		return err
	})
}

func (s *ShowService) RemoveSegment(ctx context.Context, showID, segmentID string) (*show.Show, error) {
	return s.editCard(ctx, showID, func(sh *show.Show) error {
		return sh.RemoveSegment(segmentID)
	})
}

// editCard は編集可能な状態であることを確認してから fn を適用する
func (s *ShowService) editCard(ctx context.Context, id string, fn func(sh *show.Show) error) (*show.Show, error) {
	return s.mutate(ctx, id, func(sh *show.Show) error {
		if !sh.IsEditable() {
			return show.ErrShowNotEditable
		}
		return fn(sh)
	})
}

// checkMatchBooking は出場選手の所属とタイトルマッチのチャンピオンシップを並行して確認する
func (s *ShowService) checkMatchBooking(ctx context.Context, sh *show.Show, m *show.Match) error {
	ids := make([]string, len(m.Participants))
	for i, p := range m.Participants {
		ids[i] = p.WrestlerID
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.checkRoster(gctx, sh.CompanyID, ids)
	})
	if m.IsChampionshipMatch && m.ChampionshipID != nil {
		championshipID := *m.ChampionshipID
		g.Go(func() error {
			c, err := s.champRepo.GetByID(gctx, championshipID)
			if err != nil {
				return err
			}
			if c.CompanyID != sh.CompanyID || !c.IsActive {
				return show.ErrChampionshipMismatch
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *ShowService) checkRoster(ctx context.Context, companyID string, wrestlerIDs []string) error {
	if len(wrestlerIDs) == 0 {
		return nil
	}
	wrestlers, err := s.directory.ListRoster(ctx, companyID)
	if err != nil {
		return fmt.Errorf("ロスター取得に失敗: %w", err)
	}
	if missing := roster.NewIndex(wrestlers).Missing(wrestlerIDs); len(missing) > 0 {
		return fmt.Errorf("%w: %s", show.ErrNotRosterMember, strings.Join(missing, ", "))
	}
	return nil
}

// === 状態遷移 ===

// ScheduleShow は下書きの大会を公開予定にする
func (s *ShowService) ScheduleShow(ctx context.Context, id string) (*show.Show, error) {
	sh, err := s.mutate(ctx, id, func(sh *show.Show) error {
		return sh.Schedule()
	})
	metrics.Get().ObserveTransition(string(show.TransitionSchedule), err)
	return sh, err
}

// StartShow は大会を開始し、観客動員数を確定する
func (s *ShowService) StartShow(ctx context.Context, id string) (*show.Show, error) {
	sh, err := s.mutate(ctx, id, func(sh *show.Show) error {
		if err := sh.CheckTransition(show.TransitionStart); err != nil {
			return err
		}
		var (
			company *roster.Company
			venue   *roster.Venue
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			company, err = s.directory.GetCompany(gctx, sh.CompanyID)
			return err
		})
		g.Go(func() (err error) {
			venue, err = s.directory.GetVenue(gctx, sh.VenueID)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}
		return sh.Start(s.simulator.Attendance(sh, company, venue))
	})
	metrics.Get().ObserveTransition(string(show.TransitionStart), err)
	return sh, err
}

// CompleteShowResult は大会終了の結果
type CompleteShowResult struct {
	Show          *show.Show
	Championships []*championship.Championship // 王座移動・防衛が記録されたもの
	TitleChanges  int
	TitleDefenses int
}

// CompleteShow は大会を終了し、結果の凍結と王座の更新を1つのトランザクションで行う
// 王座の更新に失敗した場合は大会の状態も含めてすべてロールバックする
func (s *ShowService) CompleteShow(ctx context.Context, id string) (*CompleteShowResult, error) {
	result, err := s.completeShow(ctx, id)
	metrics.Get().ObserveTransition(string(show.TransitionComplete), err)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(result.Championships))
	for i, c := range result.Championships {
		ids[i] = c.ID
	}
	s.invalidateChampionships(ctx, ids)
	metrics.Get().AddTitleChanges("show", result.TitleChanges)
	metrics.Get().AddTitleDefenses("show", result.TitleDefenses)
	s.notifyProfit(ctx, result.Show)
	return result, nil
}

func (s *ShowService) completeShow(ctx context.Context, id string) (*CompleteShowResult, error) {
	unlockShow, err := lockAll(ctx, s.locker, showLockKey(id))
	if err != nil {
		return nil, err
	}
	defer unlockShow()

	// カード編集は大会のロックを取るため、ここで読んだタイトルマッチは確定している
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	unlockTitles, err := lockAll(ctx, s.locker, sortedChampionshipKeys(current.ChampionshipIDs())...)
	if err != nil {
		return nil, err
	}
	defer unlockTitles()

	var result *CompleteShowResult
	err = transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		sh, err := s.repo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := sh.CheckTransition(show.TransitionComplete); err != nil {
			return err
		}
		if err := sh.CheckWinners(); err != nil {
			return err
		}

		company, venue, wrestlers, err := s.loadCollaborators(ctx, sh)
		if err != nil {
			return err
		}
		outcome := s.simulator.Complete(sh, company, venue, wrestlers)

		result, err = s.applyTitleMatches(ctx, tx, sh, outcome)
		if err != nil {
			return fmt.Errorf("%w: %w", show.ErrChampionshipUpdateFailed, err)
		}

		if err := sh.Complete(outcome.Items, outcome.Results, s.now()); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, sh); err != nil {
			return err
		}
		for _, c := range result.Championships {
			if err := s.champRepo.Update(ctx, tx, c); err != nil {
				return fmt.Errorf("%w: %w", show.ErrChampionshipUpdateFailed, err)
			}
		}
		result.Show = sh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// applyTitleMatches はカード順にタイトルマッチを処理し、王座移動と防衛を記録する
// 同じ王座を懸けた試合が複数ある場合は、前の試合の結果を反映した状態で次の試合を処理する
func (s *ShowService) applyTitleMatches(ctx context.Context, tx transaction.Tx, sh *show.Show, outcome simulation.Outcome) (*CompleteShowResult, error) {
	result := &CompleteShowResult{}
	ids := sh.ChampionshipIDs()
	sort.Strings(ids)
	loaded := make(map[string]*championship.Championship, len(ids))
	for _, cid := range ids {
		c, err := s.champRepo.GetByIDForUpdate(ctx, tx, cid)
		if err != nil {
			return nil, err
		}
		loaded[cid] = c
	}

	touched := make(map[string]bool, len(ids))
	for _, m := range cardOrder(sh.Matches) {
		if !m.IsChampionshipMatch || m.ChampionshipID == nil {
			continue
		}
		c := loaded[*m.ChampionshipID]
		winner := m.Winner()
		holder := c.CurrentHolderID

		switch {
		case winner != "" && (holder == nil || *holder != winner):
			var wonFrom *string
			if holder != nil {
				prev := *holder
				wonFrom = &prev
			}
			if err := c.SetHolder(winner, wonFrom, &sh.ID, sh.Date); err != nil {
				return nil, fmt.Errorf("王座移動の記録に失敗 (%s): %w", c.ID, err)
			}
			result.TitleChanges++
		case holder != nil && m.HasParticipant(*holder) && (winner == *holder || (winner == "" && m.BookedOutcome.NoFinish())):
			quality := m.PlannedQuality
			if r, ok := outcome.Items[m.ID]; ok {
				quality = r.ActualQuality
			}
			if err := c.RecordDefense(m.Opponent(*holder), &sh.ID, sh.Date, quality); err != nil {
				return nil, fmt.Errorf("防衛の記録に失敗 (%s): %w", c.ID, err)
			}
			result.TitleDefenses++
		default:
			continue
		}
		touched[c.ID] = true
	}

	for _, cid := range ids {
		if touched[cid] {
			result.Championships = append(result.Championships, loaded[cid])
		}
	}
	return result, nil
}

func (s *ShowService) loadCollaborators(ctx context.Context, sh *show.Show) (*roster.Company, *roster.Venue, roster.Index, error) {
	var (
		company   *roster.Company
		venue     *roster.Venue
		wrestlers []*roster.Wrestler
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		company, err = s.directory.GetCompany(gctx, sh.CompanyID)
		return err
	})
	g.Go(func() (err error) {
		venue, err = s.directory.GetVenue(gctx, sh.VenueID)
		return err
	})
	g.Go(func() (err error) {
		wrestlers, err = s.directory.ListRoster(gctx, sh.CompanyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return company, venue, roster.NewIndex(wrestlers), nil
}

// CancelShow は終了前の大会を中止する（王座には影響しない）
func (s *ShowService) CancelShow(ctx context.Context, id string) (*show.Show, error) {
	sh, err := s.mutate(ctx, id, func(sh *show.Show) error {
		return sh.Cancel()
	})
	metrics.Get().ObserveTransition(string(show.TransitionCancel), err)
	return sh, err
}

// CancelOverdueShows は開催日から grace を過ぎても開始されていない大会を中止する
// 個別の失敗はログに残して処理を続け、中止した件数を返す
func (s *ShowService) CancelOverdueShows(ctx context.Context, grace time.Duration) (int, error) {
	now := s.now()
	overdue, err := s.repo.ListOverdue(ctx, now.Add(-grace), overdueBatchSize)
	if err != nil {
		return 0, fmt.Errorf("期限切れ大会の取得に失敗: %w", err)
	}

	cancelled := 0
	for _, candidate := range overdue {
		_, err := s.mutate(ctx, candidate.ID, func(sh *show.Show) error {
			if !sh.IsOverdue(now, grace) {
				return errNotOverdue
			}
			return sh.Cancel()
		})
		metrics.Get().ObserveTransition(string(show.TransitionCancel), err)
		switch {
		case err == nil:
			cancelled++
		case errors.Is(err, errNotOverdue):
		default:
			logger.Warn("期限切れ大会の中止に失敗", zap.String("show_id", candidate.ID), zap.Error(err))
		}
	}
	return cancelled, nil
}

var errNotOverdue = errors.New("期限切れではありません")

// mutate はロックとトランザクションの中で大会を読み込み、fn を適用して保存する
func (s *ShowService) mutate(ctx context.Context, id string, fn func(sh *show.Show) error) (*show.Show, error) {
	unlock, err := lockAll(ctx, s.locker, showLockKey(id))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var updated *show.Show
	err = transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		sh, err := s.repo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(sh); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, sh); err != nil {
			return err
		}
		updated = sh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ShowService) invalidateChampionships(ctx context.Context, ids []string) {
	if s.cache == nil || len(ids) == 0 {
		return
	}
	if err := s.cache.Invalidate(ctx, ids...); err != nil {
		logger.Warn("キャッシュ無効化エラー", zap.Strings("championship_ids", ids), zap.Error(err))
	}
}

func (s *ShowService) notifyProfit(ctx context.Context, sh *show.Show) {
	if s.notifier == nil || sh.Results == nil {
		return
	}
	event := roster.ProfitApplied{
		CompanyID:   sh.CompanyID,
		ShowID:      sh.ID,
		Profit:      sh.Results.Profit,
		CompletedAt: s.now(),
	}
	if sh.CompletedAt != nil {
		event.CompletedAt = *sh.CompletedAt
	}
	if err := s.notifier.ApplyProfit(ctx, event); err != nil {
		logger.Warn("収支通知の送信に失敗", zap.String("show_id", sh.ID), zap.Error(err))
	}
}

// cardOrder は試合をカード順に並べたコピーを返す
func cardOrder(matches []show.Match) []*show.Match {
	ordered := make([]*show.Match, len(matches))
	for i := range matches {
		ordered[i] = &matches[i]
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})
	return ordered
}
