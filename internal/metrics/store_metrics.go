package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vladislavdragonenkov/wms/internal/storage/collection"
)

// StoreMetrics содержит метрики записи снимков коллекций.
type StoreMetrics struct {
	snapshotWrites   *prometheus.CounterVec
	snapshotDuration *prometheus.HistogramVec
	records          *prometheus.GaugeVec
}

var _ collection.Observer = (*StoreMetrics)(nil)

// NewStoreMetrics регистрирует метрики хранилища в registerer (nil — default).
func NewStoreMetrics(registerer prometheus.Registerer) *StoreMetrics {
	registerer = registererOrDefault(registerer)

	return &StoreMetrics{
		snapshotWrites: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "wms_store_snapshot_writes_total",
			Help: "Total number of collection snapshot writes by result",
		}, []string{"collection", "result"}),
		snapshotDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "wms_store_snapshot_write_duration_seconds",
			Help:    "Duration of collection snapshot writes in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"collection"}),
		records: registerGaugeVec(registerer, prometheus.GaugeOpts{
			Name: "wms_store_records",
			Help: "Number of records in the last saved snapshot of a collection",
		}, []string{"collection"}),
	}
}

// SnapshotSaved вызывается хранилищем после каждой записи снимка.
func (m *StoreMetrics) SnapshotSaved(name string, records int, duration time.Duration, err error) {
	m.snapshotDuration.WithLabelValues(name).Observe(duration.Seconds())
	if err != nil {
		m.snapshotWrites.WithLabelValues(name, resultError).Inc()
		return
	}
	m.snapshotWrites.WithLabelValues(name, resultOK).Inc()
	m.records.WithLabelValues(name).Set(float64(records))
}

const (
	resultOK    = "ok"
	resultError = "error"
)
