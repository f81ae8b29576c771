package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the marketplace's prometheus collectors on a private
// registry.
type Metrics struct {
	Registry           *prometheus.Registry
	AdsCreatedTotal    prometheus.Counter
	AdsDeletedTotal    prometheus.Counter
	AdViewsTotal       prometheus.Counter
	AdClicksTotal      *prometheus.CounterVec
	QuotaRejectsTotal  prometheus.Counter
	SessionTransitions *prometheus.CounterVec
	SubscriptionsTotal *prometheus.CounterVec
	StorageErrors      *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		AdsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ads_created_total",
			Help:      "Total number of ads created.",
		}),
		AdsDeletedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ads_deleted_total",
			Help:      "Total number of ads deleted.",
		}),
		AdViewsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ad_views_total",
			Help:      "Total number of ad views.",
		}),
		AdClicksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ad_clicks_total",
			Help:      "Total number of ad contact clicks by kind.",
		}, []string{"kind"}),
		QuotaRejectsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_rejections_total",
			Help:      "Ad creations rejected by the weekly quota.",
		}),
		SessionTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_transitions_total",
			Help:      "Session state transitions by operation and outcome.",
		}, []string{"op", "outcome"}),
		SubscriptionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscriptions_total",
			Help:      "Plan subscriptions by plan.",
		}, []string{"plan"}),
		StorageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_errors_total",
			Help:      "Storage failures swallowed by the facade, by operation.",
		}, []string{"op"}),
	}

	registry.MustRegister(
		m.AdsCreatedTotal,
		m.AdsDeletedTotal,
		m.AdViewsTotal,
		m.AdClicksTotal,
		m.QuotaRejectsTotal,
		m.SessionTransitions,
		m.SubscriptionsTotal,
		m.StorageErrors,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return m
}

// StorageErrorHook adapts StorageErrors to the storage facade's error hook.
func (m *Metrics) StorageErrorHook(op string, _ error) {
	m.StorageErrors.WithLabelValues(op).Inc()
}

// The helpers below accept a nil receiver so callers can run without
// metrics.

func (m *Metrics) AdCreated() {
	if m != nil {
		m.AdsCreatedTotal.Inc()
	}
}

func (m *Metrics) AdDeleted() {
	if m != nil {
		m.AdsDeletedTotal.Inc()
	}
}

func (m *Metrics) AdViewed() {
	if m != nil {
		m.AdViewsTotal.Inc()
	}
}

func (m *Metrics) AdClicked(kind string) {
	if m != nil {
		m.AdClicksTotal.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) QuotaRejected() {
	if m != nil {
		m.QuotaRejectsTotal.Inc()
	}
}

func (m *Metrics) SessionTransition(op, outcome string) {
	if m != nil {
		m.SessionTransitions.WithLabelValues(op, outcome).Inc()
	}
}

func (m *Metrics) Subscribed(plan string) {
	if m != nil {
		m.SubscriptionsTotal.WithLabelValues(plan).Inc()
	}
}
