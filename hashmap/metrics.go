package hashmap

// metrics.go is a thin Prometheus abstraction identical in spirit to the
// sibling cache package's metricsSink: a no-op sink when the caller never
// passes WithMetrics, a labeled-by-shard Prometheus sink when they do. The
// hot path only ever touches the no-op's empty method bodies unless metrics
// were explicitly requested.
//
// © 2026 lfcore authors. MIT License.

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

type metricsSink interface {
	incInsert(shard int)
	incFind(shard int, hit bool)
	incErase(shard int)
}

type noopMetrics struct{}

func (noopMetrics) incInsert(int)      {}
func (noopMetrics) incFind(int, bool)  {}
func (noopMetrics) incErase(int)       {}

type promMetrics struct {
	inserts *prometheus.CounterVec
	finds   *prometheus.CounterVec
	erases  *prometheus.CounterVec
}

func newPromMetrics(reg *prometheus.Registry) *promMetrics {
	label := []string{"shard"}
	pm := &promMetrics{
		inserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lfcore",
			Subsystem: "hashmap",
			Name:      "inserts_total",
			Help:      "Number of Insert calls.",
		}, label),
		finds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lfcore",
			Subsystem: "hashmap",
			Name:      "finds_total",
			Help:      "Number of Find calls, labeled by hit/miss.",
		}, []string{"shard", "result"}),
		erases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lfcore",
			Subsystem: "hashmap",
			Name:      "erases_total",
			Help:      "Number of Erase calls that removed an entry.",
		}, label),
	}
	reg.MustRegister(pm.inserts, pm.finds, pm.erases)
	return pm
}

func (m *promMetrics) incInsert(shard int) {
	m.inserts.WithLabelValues(strconv.Itoa(shard)).Inc()
}

func (m *promMetrics) incFind(shard int, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.finds.WithLabelValues(strconv.Itoa(shard), result).Inc()
}

func (m *promMetrics) incErase(shard int) {
	m.erases.WithLabelValues(strconv.Itoa(shard)).Inc()
}

func newMetricsSink(reg *prometheus.Registry) metricsSink {
	if reg == nil {
		return noopMetrics{}
	}
	return newPromMetrics(reg)
}
