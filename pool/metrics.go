package pool

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	connCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fdfs_pool_connections_created_total",
			Help: "Connections dialed by the pool",
		},
		[]string{"target"},
	)
	openConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fdfs_pool_connections_open",
			Help: "Open connections, idle or checked out",
		},
		[]string{"target"},
	)
	probes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fdfs_pool_active_tests_total",
			Help: "Active tests run on idle connections before reuse",
		},
		[]string{"target", "result"},
	)
	discards = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fdfs_pool_connections_discarded_total",
			Help: "Checked out connections discarded by their owner",
		},
		[]string{"target"},
	)
	evictions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fdfs_pool_connections_evicted_total",
			Help: "Idle connections closed for exceeding the max idle time",
		},
		[]string{"target"},
	)
	waitTimeouts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fdfs_pool_wait_timeouts_total",
			Help: "Checkouts that gave up waiting for a free connection",
		},
		[]string{"target"},
	)
)

// RegisterMetrics registers the pool collectors to r,
// collectors already registered to r are skipped.
func RegisterMetrics(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{connCreated, openConns, probes, discards, evictions, waitTimeouts} {
		if err := r.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
