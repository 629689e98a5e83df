package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service. Every method is safe
// on a nil receiver so components can run without instrumentation in tests.
type Metrics struct {
	// Verification call latency by authority and outcome ("ok", "degraded")
	AuthorityLatency *prometheus.HistogramVec

	// Degraded-mode substitutions by authority and failure category
	DegradedOutcomes *prometheus.CounterVec

	// Audit decisions by case ("deceased", "suspended", "compliant")
	AuditOutcomes *prometheus.CounterVec

	// Failed audits by error code
	AuditFailures *prometheus.CounterVec

	// End-to-end audit latency
	AuditLatency prometheus.Histogram

	ReversionsCreated    prometheus.Counter
	BeneficiariesCreated prometheus.Counter

	HTTPLatency *prometheus.HistogramVec
}

// New registers all metrics with reg. Pass prometheus.DefaultRegisterer in
// main and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AuthorityLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cnr_authority_call_duration_seconds",
			Help:    "Duration of external authority verification calls",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"authority", "outcome"}),

		DegradedOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cnr_authority_degraded_total",
			Help: "Verification calls that fell back to the degraded-mode default",
		}, []string{"authority", "category"}),

		AuditOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cnr_audit_outcomes_total",
			Help: "Committed audits by decision case",
		}, []string{"case"}),

		AuditFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cnr_audit_failures_total",
			Help: "Audits that did not commit, by error code",
		}, []string{"code"}),

		AuditLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "cnr_audit_duration_seconds",
			Help:    "Duration of a full audit including both verification calls and the commit",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		ReversionsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "cnr_reversions_created_total",
			Help: "Survivor-benefit records created by the death branch",
		}),

		BeneficiariesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "cnr_beneficiaries_created_total",
			Help: "Entitlement records enrolled",
		}),

		HTTPLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cnr_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status class",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

func (m *Metrics) ObserveAuthorityLatency(authority, outcome string, d time.Duration) {
	if m != nil {
		m.AuthorityLatency.WithLabelValues(authority, outcome).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementDegraded(authority, category string) {
	if m != nil {
		m.DegradedOutcomes.WithLabelValues(authority, category).Inc()
	}
}

func (m *Metrics) IncrementAuditOutcome(decisionCase string) {
	if m != nil {
		m.AuditOutcomes.WithLabelValues(decisionCase).Inc()
	}
}

func (m *Metrics) IncrementAuditFailure(code string) {
	if m != nil {
		m.AuditFailures.WithLabelValues(code).Inc()
	}
}

func (m *Metrics) ObserveAuditLatency(d time.Duration) {
	if m != nil {
		m.AuditLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementReversionsCreated() {
	if m != nil {
		m.ReversionsCreated.Inc()
	}
}

func (m *Metrics) IncrementBeneficiariesCreated() {
	if m != nil {
		m.BeneficiariesCreated.Inc()
	}
}

func (m *Metrics) ObserveHTTPLatency(route, status string, d time.Duration) {
	if m != nil {
		m.HTTPLatency.WithLabelValues(route, status).Observe(d.Seconds())
	}
}
