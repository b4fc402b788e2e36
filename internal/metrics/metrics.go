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
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordBandCreated()
	RecordBandJoined()
	RecordEventCreated(eventType string)
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	bandsCreated   prometheus.Counter
	bandJoins      prometheus.Counter
	eventsCreated  *prometheus.CounterVec
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		bandsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bandman_bands_created_total",
			Help: "作成されたバンドの合計数",
		}),
		bandJoins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bandman_band_joins_total",
			Help: "参加コードによるバンド参加の合計数",
		}),
		eventsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bandman_events_created_total",
			Help: "作成されたイベントの種別ごとの合計数",
		}, []string{"type"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bandman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bandman_request_latency_seconds",
			Help:    "APIリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.bandsCreated,
		c.bandJoins,
		c.eventsCreated,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordBandCreated はバンド作成を記録する。
func (c *Collector) RecordBandCreated() {
	c.bandsCreated.Inc()
}

// RecordBandJoined は参加コードによるバンド参加を記録する。
func (c *Collector) RecordBandJoined() {
	c.bandJoins.Inc()
}

// RecordEventCreated はイベント作成を種別ラベル付きで記録する。
func (c *Collector) RecordEventCreated(eventType string) {
	c.eventsCreated.WithLabelValues(eventType).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
