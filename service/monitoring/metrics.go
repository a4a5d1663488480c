/*
 * @module service/monitoring/metrics
 * @description Prometheus collectors for reshapes, cache lookups and dataset loads
 * @architecture Infrastructure - metrics export
 * @documentReference DESIGN.md
 * @stateFlow collector registration -> observation from services -> scrape on /metrics
 * @rules All methods are safe on a nil *Metrics so callers never branch on wiring
 * @dependencies github.com/prometheus/client_golang
 * @refs main.go, service/dataset/service.go, service/dashboard/service.go
 */

package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultHit     = "hit"
	ResultMiss    = "miss"
)

// Metrics holds the service collectors.
type Metrics struct {
	reshapes         *prometheus.CounterVec
	reshapeDuration  prometheus.Histogram
	cacheRequests    *prometheus.CounterVec
	datasetLoads     *prometheus.CounterVec
	datasetDistricts prometheus.Gauge
	datasetCoverage  prometheus.Gauge
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		reshapes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "peer_reshape_total",
			Help: "Funding metric reshapes by result.",
		}, []string{"result"}),
		reshapeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "peer_reshape_duration_seconds",
			Help:    "Time spent reshaping one district row.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 2, 12),
		}),
		cacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "peer_cache_requests_total",
			Help: "Reshape cache lookups by result.",
		}, []string{"result"}),
		datasetLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "peer_dataset_loads_total",
			Help: "Dataset loads by result.",
		}, []string{"result"}),
		datasetDistricts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "peer_dataset_districts",
			Help: "District rows in the active dataset.",
		}),
		datasetCoverage: factory.NewGauge(prometheus.GaugeOpts{
			Name: "peer_dataset_coverage_rows",
			Help: "Legislative coverage rows in the active dataset.",
		}),
	}
}

// ObserveReshape records one reshape.
func (m *Metrics) ObserveReshape(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.reshapes.WithLabelValues(resultOf(err)).Inc()
	m.reshapeDuration.Observe(elapsed.Seconds())
}

// ObserveCache records a cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheRequests.WithLabelValues(ResultHit).Inc()
		return
	}
	m.cacheRequests.WithLabelValues(ResultMiss).Inc()
}

// ObserveLoad records a dataset load and, on success, the active dataset size.
func (m *Metrics) ObserveLoad(err error, districts, coverageRows int) {
	if m == nil {
		return
	}
	m.datasetLoads.WithLabelValues(resultOf(err)).Inc()
	if err == nil {
		m.datasetDistricts.Set(float64(districts))
		m.datasetCoverage.Set(float64(coverageRows))
	}
}

func resultOf(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}
