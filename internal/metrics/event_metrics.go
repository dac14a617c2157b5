package metrics

import "github.com/prometheus/client_golang/prometheus"

// EventMetrics — публикации в Kafka и тревоги по расходу.
type EventMetrics struct {
	published *prometheus.CounterVec
	alerts    *prometheus.CounterVec
}

func NewEventMetrics(registerer prometheus.Registerer) *EventMetrics {
	registerer = registererOrDefault(registerer)

	return &EventMetrics{
		published: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "wms_kafka_published_total",
			Help: "Total number of change events sent to Kafka by topic and result",
		}, []string{"topic", "result"}),
		alerts: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "wms_flow_alerts_total",
			Help: "Total number of readings whose flow rate exceeded the meter threshold",
		}, []string{"meter_id"}),
	}
}

// RecordPublish учитывает отправку события в топик.
func (m *EventMetrics) RecordPublish(topic string, err error) {
	result := resultOK
	if err != nil {
		result = resultError
	}
	m.published.WithLabelValues(topic, result).Inc()
}

// RecordAlert учитывает тревожное показание счётчика.
func (m *EventMetrics) RecordAlert(meterID string) {
	m.alerts.WithLabelValues(meterID).Inc()
}
