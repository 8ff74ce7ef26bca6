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
// ハンドラー・サービス層・メディアリレーから利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordItemCreated()
	RecordClaimCreated()
	RecordUploadSuccess()
	RecordUploadFailure()
	RecordUploadLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus    *prometheus.CounterVec
	itemsCreated  prometheus.Counter
	claimsCreated prometheus.Counter
	uploadSuccess prometheus.Counter
	uploadFail    prometheus.Counter
	uploadLatency prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "otoshimono_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		itemsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "otoshimono_items_created_total",
			Help: "作成されたアイテムの合計数",
		}),
		claimsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "otoshimono_claims_created_total",
			Help: "作成された申請の合計数",
		}),
		uploadSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "otoshimono_upload_success_total",
			Help: "画像アップロード成功の合計数",
		}),
		uploadFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "otoshimono_upload_fail_total",
			Help: "画像アップロード失敗の合計数",
		}),
		uploadLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "otoshimono_upload_latency_seconds",
			Help:    "画像アップロードのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.itemsCreated,
		c.claimsCreated,
		c.uploadSuccess,
		c.uploadFail,
		c.uploadLatency,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordItemCreated はアイテム作成を記録する。
func (c *Collector) RecordItemCreated() {
	c.itemsCreated.Inc()
}

// RecordClaimCreated は申請作成を記録する。
func (c *Collector) RecordClaimCreated() {
	c.claimsCreated.Inc()
}

// RecordUploadSuccess は画像アップロード成功を記録する。
func (c *Collector) RecordUploadSuccess() {
	c.uploadSuccess.Inc()
}

// RecordUploadFailure は画像アップロード失敗を記録する。
func (c *Collector) RecordUploadFailure() {
	c.uploadFail.Inc()
}

// RecordUploadLatency は画像アップロードのレイテンシを記録する。
func (c *Collector) RecordUploadLatency(duration time.Duration) {
	c.uploadLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
