package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/synful23/wrestling-simulator-sub000/internal/domain/apperr"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 大会の状態遷移の総数（transition: schedule/start/complete/cancel, status: success/conflict/error）
	ShowTransitionsTotal *prometheus.CounterVec

	// 王座移動の総数（source: show/manual）
	TitleChangesTotal *prometheus.CounterVec

	// 王座防衛の総数（source: show/manual）
	TitleDefensesTotal *prometheus.CounterVec

	// 分散ロックの操作時間（operation: acquire/release, status: success/failed）
	DistributedLockDuration *prometheus.HistogramVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ShowTransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "show_transitions_total",
				Help: "Total number of show lifecycle transition attempts",
			},
			[]string{"transition", "status"},
		),
		TitleChangesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "title_changes_total",
				Help: "Total number of recorded championship title changes",
			},
			[]string{"source"},
		),
		TitleDefensesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "title_defenses_total",
				Help: "Total number of recorded championship title defenses",
			},
			[]string{"source"},
		),
		DistributedLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "distributed_lock_duration_seconds",
				Help:    "Time spent on distributed lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ShowTransitionsTotal,
		m.TitleChangesTotal,
		m.TitleDefensesTotal,
		m.DistributedLockDuration,
	)

	return m
}

// ObserveTransition は状態遷移の結果を記録する（nil の Metrics では何もしない）
func (m *Metrics) ObserveTransition(transition string, err error) {
	if m == nil {
		return
	}
	m.ShowTransitionsTotal.WithLabelValues(transition, statusOf(err)).Inc()
}

// AddTitleChanges は王座移動を n 件記録する
func (m *Metrics) AddTitleChanges(source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.TitleChangesTotal.WithLabelValues(source).Add(float64(n))
}

// AddTitleDefenses は王座防衛を n 件記録する
func (m *Metrics) AddTitleDefenses(source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.TitleDefensesTotal.WithLabelValues(source).Add(float64(n))
}

// ObserveLock はロック操作の所要時間を記録する
func (m *Metrics) ObserveLock(operation string, seconds float64, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failed"
	}
	m.DistributedLockDuration.WithLabelValues(operation, status).Observe(seconds)
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, apperr.ErrConflict):
		return "conflict"
	}
	return "error"
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
