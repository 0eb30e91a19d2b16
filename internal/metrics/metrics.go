// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// APIクライアント、ルートガード、HTTPミドルウェア、セッションクリーンアップから利用する。
type MetricsCollector interface {
	RecordAPIRequest(method, path string, status int, duration time.Duration)
	RecordGuardDecision(action string)
	RecordHTTPStatus(statusCode int)
	RecordSessionCleanup(deleted int64, err error)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	apiRequests    *prometheus.CounterVec
	apiLatency     *prometheus.HistogramVec
	guardDecisions *prometheus.CounterVec
	httpStatus     *prometheus.CounterVec
	cleanupRuns    *prometheus.CounterVec
	sessionsPurged prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smarttime_api_requests_total",
			Help: "バックエンドAPI呼び出しの合計数（statusは通信エラー時に0）",
		}, []string{"method", "path", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "smarttime_api_request_duration_seconds",
			Help:    "バックエンドAPI呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smarttime_guard_decisions_total",
			Help: "ルートガードの判定数",
		}, []string{"action"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smarttime_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		cleanupRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smarttime_session_cleanup_runs_total",
			Help: "セッションクリーンアップの実行回数（resultはsuccessまたはerror）",
		}, []string{"result"}),
		sessionsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smarttime_sessions_purged_total",
			Help: "クリーンアップで削除された期限切れセッション数",
		}),
	}

	reg.MustRegister(
		c.apiRequests,
		c.apiLatency,
		c.guardDecisions,
		c.httpStatus,
		c.cleanupRuns,
		c.sessionsPurged,
	)

	return c
}

// RecordAPIRequest はバックエンドAPI呼び出しの結果とレイテンシを記録する。
func (c *Collector) RecordAPIRequest(method, path string, status int, duration time.Duration) {
	c.apiRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.apiLatency.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordGuardDecision はルートガードの判定を記録する。
func (c *Collector) RecordGuardDecision(action string) {
	c.guardDecisions.WithLabelValues(action).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordSessionCleanup はクリーンアップ1回分の結果を記録する。
func (c *Collector) RecordSessionCleanup(deleted int64, err error) {
	if err != nil {
		c.cleanupRuns.WithLabelValues("error").Inc()
		return
	}
	c.cleanupRuns.WithLabelValues("success").Inc()
	if deleted > 0 {
		c.sessionsPurged.Add(float64(deleted))
	}
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
