package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAssistantMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAssistantMetrics(reg)

	m.ObserveMessage("answering")
	m.ObserveMessage("answering")
	m.ObserveMessage("media")
	m.ObserveStageFailure("transcribe")
	m.ObserveLeadRegistration("ok")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.messagesTotal.WithLabelValues("answering")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.messagesTotal.WithLabelValues("media")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.stageFailures.WithLabelValues("transcribe")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.leadsTotal.WithLabelValues("ok")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *AssistantMetrics
	m.ObserveMessage("answering")
	m.ObserveStageFailure("download")
	m.ObserveLeadRegistration("failed")
	m.ObserveHandleLatency(0.1)
}
