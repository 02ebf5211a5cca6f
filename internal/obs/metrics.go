package obs

import (
	"net/http"
	"time"

	"feedbridge/internal/adapter/enum"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "feedbridge"

// Refresh outcomes recorded by ObserveRefresh.
const (
	RefreshOK       = "ok"
	RefreshRollback = "rollback"
	RefreshAsync    = "async"
)

// Metrics owns a private prometheus registry so that several instances can
// live in one process. Every method is safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	feedMessages   *prometheus.CounterVec
	feedDropped    *prometheus.CounterVec
	subscriptions  *prometheus.GaugeVec
	refreshTotal   *prometheus.CounterVec
	refreshSeconds prometheus.Histogram
	lifecycle      prometheus.Gauge
}

// NewMetrics allocates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		feedMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_messages_total",
			Help:      "Market data messages received from the upstream feed.",
		}, []string{"kind"}),
		feedDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_dropped_total",
			Help:      "Market data messages dropped because no open queue matched.",
		}, []string{"kind"}),
		subscriptions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "subscriptions",
			Help:      "Live subscriptions per kind.",
		}, []string{"kind"}),
		refreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_refresh_total",
			Help:      "Order cache refreshes by outcome.",
		}, []string{"result"}),
		refreshSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_refresh_seconds",
			Help:      "Order cache refresh latency in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		lifecycle: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lifecycle_state",
			Help:      "Current lifecycle state (0 created, 1 logging in, 2 ready, 3 shutting down, 4 stopped).",
		}),
	}

	m.registry.MustRegister(
		m.feedMessages,
		m.feedDropped,
		m.subscriptions,
		m.refreshTotal,
		m.refreshSeconds,
		m.lifecycle,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry for scraping and tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) IncFeed(kind string) {
	if m == nil {
		return
	}
	m.feedMessages.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncDropped(kind string) {
	if m == nil {
		return
	}
	m.feedDropped.WithLabelValues(kind).Inc()
}

func (m *Metrics) SetSubscriptions(kind enum.SubscriptionKind, n int) {
	if m == nil {
		return
	}
	m.subscriptions.WithLabelValues(kind.String()).Set(float64(n))
}

// ObserveRefresh records one refresh outcome and its duration.
func (m *Metrics) ObserveRefresh(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.refreshTotal.WithLabelValues(result).Inc()
	m.refreshSeconds.Observe(d.Seconds())
}

func (m *Metrics) SetLifecycle(state enum.Lifecycle) {
	if m == nil {
		return
	}
	m.lifecycle.Set(float64(state))
}

// Dropped returns the drop counter for kind.
func (m *Metrics) Dropped(kind string) prometheus.Counter {
	return m.feedDropped.WithLabelValues(kind)
}
