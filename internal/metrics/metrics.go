// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// サービス層のMetricsRecorderインターフェースを満たす。
type Collector struct {
	httpRequests     *prometheus.CounterVec
	httpLatency      prometheus.Histogram
	postsCreated     prometheus.Counter
	postsDeleted     prometheus.Counter
	feedRenders      prometheus.Counter
	usersProvisioned prometheus.Counter
	sessionsDeleted  prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "minifeed_http_requests_total",
			Help: "メソッド・ステータスコード別のHTTPリクエスト数",
		}, []string{"method", "status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "minifeed_http_request_duration_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		postsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minifeed_posts_created_total",
			Help: "作成された投稿の合計数",
		}),
		postsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minifeed_posts_deleted_total",
			Help: "削除された投稿の合計数",
		}),
		feedRenders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minifeed_feed_renders_total",
			Help: "フィード取得の合計数",
		}),
		usersProvisioned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minifeed_users_provisioned_total",
			Help: "プロビジョニングされたユーザーの合計数",
		}),
		sessionsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minifeed_sessions_deleted_total",
			Help: "クリーンアップで削除された期限切れセッションの合計数",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.postsCreated,
		c.postsDeleted,
		c.feedRenders,
		c.usersProvisioned,
		c.sessionsDeleted,
	)

	return c
}

// RecordHTTPRequest はHTTPリクエストの完了を記録する。
func (c *Collector) RecordHTTPRequest(method string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.Observe(duration.Seconds())
}

// IncPostsCreated は投稿の作成を記録する。
func (c *Collector) IncPostsCreated() {
	c.postsCreated.Inc()
}

// IncPostsDeleted は投稿の削除を記録する。
func (c *Collector) IncPostsDeleted() {
	c.postsDeleted.Inc()
}

// IncFeedRenders はフィードの取得を記録する。
func (c *Collector) IncFeedRenders() {
	c.feedRenders.Inc()
}

// IncUsersProvisioned はユーザーのプロビジョニングを記録する。
func (c *Collector) IncUsersProvisioned() {
	c.usersProvisioned.Inc()
}

// AddSessionsDeleted はクリーンアップで削除されたセッション数を記録する。
func (c *Collector) AddSessionsDeleted(count int64) {
	c.sessionsDeleted.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
