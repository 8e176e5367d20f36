package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters/histograms for the lead capture flow.
type LeadMetrics struct {
	submissionsTotal *prometheus.CounterVec
	spamTotal        prometheus.Counter
	appendsTotal     *prometheus.CounterVec
	postLatency      *prometheus.HistogramVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "realestate",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Contact form submissions by outcome",
		}, []string{"outcome"}),
		spamTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "realestate",
			Subsystem: "leads",
			Name:      "honeypot_dropped_total",
			Help:      "Submissions dropped because the honeypot field was filled",
		}),
		appendsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "realestate",
			Subsystem: "leads",
			Name:      "log_appends_total",
			Help:      "Lead log appends by backend and status",
		}, []string{"backend", "status"}),
		postLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "realestate",
			Subsystem: "leads",
			Name:      "form_post_latency_seconds",
			Help:      "Latency of the outbound post to the form backend",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.spamTotal, m.appendsTotal, m.postLatency)
	return m
}

// ObserveSubmission counts a finished submission. outcome is one of
// success, invalid, submit_failed or log_failed.
func (m *LeadMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObserveSpam() {
	if m == nil {
		return
	}
	m.spamTotal.Inc()
}

func (m *LeadMetrics) ObserveAppend(backend string, ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.appendsTotal.WithLabelValues(backend, status).Inc()
}

func (m *LeadMetrics) ObservePostLatency(ok bool, seconds float64) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.postLatency.WithLabelValues(status).Observe(seconds)
}
