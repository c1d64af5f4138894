package metrics

import "github.com/prometheus/client_golang/prometheus"

// AssistantMetrics exposes counters/histograms for conversation flows.
type AssistantMetrics struct {
	messagesTotal *prometheus.CounterVec
	stageFailures *prometheus.CounterVec
	leadsTotal    *prometheus.CounterVec
	handleLatency prometheus.Histogram
}

func NewAssistantMetrics(reg prometheus.Registerer) *AssistantMetrics {
	m := &AssistantMetrics{
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datapath",
			Subsystem: "assistant",
			Name:      "messages_total",
			Help:      "Inbound messages by routed intent",
		}, []string{"intent"}),
		stageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datapath",
			Subsystem: "media",
			Name:      "stage_failures_total",
			Help:      "Media pipeline failures by stage",
		}, []string{"stage"}),
		leadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datapath",
			Subsystem: "leads",
			Name:      "registrations_total",
			Help:      "Lead registration attempts by outcome",
		}, []string{"status"}),
		handleLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "datapath",
			Subsystem: "assistant",
			Name:      "handle_latency_seconds",
			Help:      "Latency of full message handling",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.messagesTotal, m.stageFailures, m.leadsTotal, m.handleLatency)
	return m
}

func (m *AssistantMetrics) ObserveMessage(intent string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(intent).Inc()
}

func (m *AssistantMetrics) ObserveStageFailure(stage string) {
	if m == nil {
		return
	}
	m.stageFailures.WithLabelValues(stage).Inc()
}

func (m *AssistantMetrics) ObserveLeadRegistration(status string) {
	if m == nil {
		return
	}
	m.leadsTotal.WithLabelValues(status).Inc()
}

func (m *AssistantMetrics) ObserveHandleLatency(seconds float64) {
	if m == nil {
		return
	}
	m.handleLatency.Observe(seconds)
}
