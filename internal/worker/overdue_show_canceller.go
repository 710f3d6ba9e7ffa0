package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/synful23/wrestling-simulator-sub000/internal/pkg/logger"
)

// OverdueShowService は開催日を過ぎた大会を中止するインターフェース
type OverdueShowService interface {
	CancelOverdueShows(ctx context.Context, grace time.Duration) (int, error)
}

// OverdueShowCanceller は開催日から猶予を過ぎても開始されない大会を定期的に中止するワーカー
type OverdueShowCanceller struct {
	shows    OverdueShowService
	interval time.Duration
	grace    time.Duration
	log      *zap.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

const defaultCheckInterval = time.Minute

// NewOverdueShowCanceller は新しいワーカーを作成する
// interval が0以下なら1分間隔で実行する
func NewOverdueShowCanceller(shows OverdueShowService, interval, grace time.Duration) *OverdueShowCanceller {
	if interval <= 0 {
		interval = defaultCheckInterval
	}
	return &OverdueShowCanceller{
		shows:    shows,
		interval: interval,
		grace:    grace,
		log:      logger.Named("overdue_show_canceller"),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はワーカーを開始する。ctx のキャンセルか Stop で戻る
// 起動直後に1回、その後は interval ごとに実行する
func (w *OverdueShowCanceller) Start(ctx context.Context) {
	w.log.Info("期限切れ大会の中止ワーカー開始",
		zap.Duration("interval", w.interval),
		zap.Duration("grace", w.grace),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneCh)

	w.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			w.log.Info("期限切れ大会の中止ワーカー停止（コンテキストキャンセル）")
			return
		case <-w.stopCh:
			w.log.Info("期限切れ大会の中止ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// Stop はワーカーを停止し、実行中の処理の終了を待つ
// 複数回呼んでもよい
func (w *OverdueShowCanceller) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.doneCh
}

func (w *OverdueShowCanceller) sweep(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	count, err := w.shows.CancelOverdueShows(ctx, w.grace)
	if err != nil {
		w.log.Error("期限切れ大会の中止に失敗", zap.Error(err))
		return
	}
	if count > 0 {
		w.log.Info("期限切れ大会を中止", zap.Int("count", count))
	} else {
		w.log.Debug("期限切れ大会なし")
	}
}
