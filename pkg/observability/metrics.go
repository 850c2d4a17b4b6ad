package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Operation results used as label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics groups the collectors updated by harbor.Manager.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Ports        prometheus.Gauge
	ShipsParked  *prometheus.CounterVec
	ShipsTaken   *prometheus.CounterVec
	Overflows    *prometheus.CounterVec
	Persistence  *prometheus.CounterVec
	SnapshotSize prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Ports: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "harbor_ports",
			Help: "Number of ports in the collection",
		}),
		ShipsParked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "harbor_ships_parked_total",
			Help: "Ships parked, by port and ship kind",
		}, []string{"port", "kind"}),
		ShipsTaken: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "harbor_ships_taken_total",
			Help: "Ships taken out of a port",
		}, []string{"port"}),
		Overflows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "harbor_port_overflows_total",
			Help: "Park attempts rejected because the port was full",
		}, []string{"port"}),
		Persistence: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "harbor_snapshot_operations_total",
			Help: "Snapshot save/load operations by result",
		}, []string{"op", "result"}),
		SnapshotSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "harbor_snapshot_bytes",
			Help:    "Size of saved snapshots",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8),
		}),
	}
	reg.MustRegister(m.Ports, m.ShipsParked, m.ShipsTaken, m.Overflows, m.Persistence, m.SnapshotSize)
	return m
}

func (m *Metrics) SetPorts(n int) {
	if m == nil {
		return
	}
	m.Ports.Set(float64(n))
}

func (m *Metrics) Parked(port, kind string) {
	if m == nil {
		return
	}
	m.ShipsParked.WithLabelValues(port, kind).Inc()
}

func (m *Metrics) Taken(port string) {
	if m == nil {
		return
	}
	m.ShipsTaken.WithLabelValues(port).Inc()
}

func (m *Metrics) Overflow(port string) {
	if m == nil {
		return
	}
	m.Overflows.WithLabelValues(port).Inc()
}

// Persisted records a save or load outcome; size is only observed for successful saves.
func (m *Metrics) Persisted(op string, err error, size int) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.Persistence.WithLabelValues(op, result).Inc()
	if err == nil && op == "save" {
		m.SnapshotSize.Observe(float64(size))
	}
}
