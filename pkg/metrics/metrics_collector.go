package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector 指标收集器
type MetricsCollector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// 论坛业务指标
	postsCreatedTotal    prometheus.Counter
	commentsCreatedTotal *prometheus.CounterVec
	votesTotal           *prometheus.CounterVec
	starsTotal           *prometheus.CounterVec
	chatMessagesTotal    prometheus.Counter
	attachmentsTotal     *prometheus.CounterVec
}

// NewMetricsCollector 在给定的 Registerer 上注册指标，测试中传入独立的 Registry
func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	factory := promauto.With(reg)

	return &MetricsCollector{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "endpoint"},
		),

		postsCreatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "forum_posts_created_total",
				Help: "Total number of posts created",
			},
		),

		commentsCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forum_comments_created_total",
				Help: "Total number of comments and replies created",
			},
			[]string{"kind"},
		),

		votesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forum_votes_total",
				Help: "Total number of votes cast",
			},
			[]string{"target", "direction"},
		),

		starsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forum_stars_total",
				Help: "Total number of star toggles",
			},
			[]string{"state"},
		),

		chatMessagesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "chat_messages_total",
				Help: "Total number of chat messages",
			},
		),

		attachmentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forum_attachments_total",
				Help: "Total number of uploaded attachments by kind",
			},
			[]string{"kind"},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求指标
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint string, status int, duration time.Duration, responseSize int) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, getStatusCategory(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	if responseSize >= 0 {
		m.httpResponseSize.WithLabelValues(method, endpoint).Observe(float64(responseSize))
	}
}

func (m *MetricsCollector) PostCreated() {
	m.postsCreatedTotal.Inc()
}

// CommentCreated kind: comment / reply
func (m *MetricsCollector) CommentCreated(kind string) {
	m.commentsCreatedTotal.WithLabelValues(kind).Inc()
}

// Voted target: post / comment
func (m *MetricsCollector) Voted(target, direction string) {
	m.votesTotal.WithLabelValues(target, direction).Inc()
}

func (m *MetricsCollector) Starred(saved bool) {
	state := "unsaved"
	if saved {
		state = "saved"
	}
	m.starsTotal.WithLabelValues(state).Inc()
}

func (m *MetricsCollector) ChatMessage() {
	m.chatMessagesTotal.Inc()
}

func (m *MetricsCollector) AttachmentStored(kind string) {
	m.attachmentsTotal.WithLabelValues(kind).Inc()
}

// getStatusCategory 获取状态分类
func getStatusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
