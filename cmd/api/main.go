package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/synful23/wrestling-simulator-sub000/internal/api"
	"github.com/synful23/wrestling-simulator-sub000/internal/api/handler"
	"github.com/synful23/wrestling-simulator-sub000/internal/application"
	"github.com/synful23/wrestling-simulator-sub000/internal/config"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/simulation"
	"github.com/synful23/wrestling-simulator-sub000/internal/infrastructure/postgres"
	"github.com/synful23/wrestling-simulator-sub000/internal/infrastructure/rabbitmq"
	redisinfra "github.com/synful23/wrestling-simulator-sub000/internal/infrastructure/redis"
	"github.com/synful23/wrestling-simulator-sub000/internal/pkg/logger"
	"github.com/synful23/wrestling-simulator-sub000/internal/pkg/metrics"
	"github.com/synful23/wrestling-simulator-sub000/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	logger.Set(logger.NewLogger(cfg.App.Env))
	defer func() { _ = logger.Sync() }()

	m := metrics.Init()

	// DB接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("DB接続エラー", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db.DB, cfg.App.MigrationsPath); err != nil {
		logger.Fatal("マイグレーションエラー", zap.Error(err))
	}

	// リポジトリ
	txManager := postgres.NewTxManager(db)
	showRepo := postgres.NewShowRepository(db)
	championshipRepo := postgres.NewChampionshipRepository(db)
	directory := postgres.NewRosterDirectory(db)

	// サービス
	showService := application.NewShowService(txManager, showRepo, championshipRepo, directory,
		simulation.New(simulation.DefaultConfig()))
	championshipService := application.NewChampionshipService(txManager, championshipRepo, showRepo)

	healthChecks := []handler.HealthCheck{
		{Name: "postgres", Check: func(ctx context.Context) error { return postgres.Ping(ctx, db) }},
	}

	// Redis は任意。接続できない場合はロックとキャッシュなしで起動する
	redisClient, err := redisinfra.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn("Redisに接続できないため、分散ロックとキャッシュを無効にします", zap.Error(err))
	} else {
		defer redisClient.Close()

		locker := redisinfra.NewLocker(redisinfra.NewLockManager(redisClient), cfg.Lock)
		cache := redisinfra.NewChampionshipCache(redisClient, cfg.Cache.ChampionshipTTL)
		showService.WithLocker(locker).WithCache(cache)
		championshipService.WithLocker(locker).WithCache(cache)

		healthChecks = append(healthChecks, handler.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisinfra.Ping(ctx, redisClient) },
		})
	}

	if cfg.AMQP.URL != "" {
		showService.WithNotifier(rabbitmq.NewProfitPublisher(cfg.AMQP))
		logger.Info("収支通知を有効化", zap.String("queue", cfg.AMQP.ProfitQueue))
	}

	// Echo セットアップ
	e := api.NewEcho(m, cfg.Metrics)
	e.GET("/health", handler.NewHealthHandler(healthChecks...).Check)
	handler.RegisterRoutes(e,
		handler.NewChampionshipHandler(championshipService),
		handler.NewShowHandler(showService),
	)

	// 期限切れ大会の中止ワーカー
	canceller := worker.NewOverdueShowCanceller(showService, cfg.Worker.OverdueCheckInterval, cfg.Worker.OverdueGrace)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	go canceller.Start(workerCtx)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Graceful shutdown
	go func() {
		logger.Info("サーバー起動", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := e.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	canceller.Stop()
	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("サーバーシャットダウンエラー", zap.Error(err))
		return
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
