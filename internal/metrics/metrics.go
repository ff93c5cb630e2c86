package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics owns its registry so tests can build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	Cycles        *prometheus.CounterVec
	CycleDuration *prometheus.HistogramVec
	Announced     *prometheus.CounterVec
	Notifications *prometheus.CounterVec
	Tracked       *prometheus.GaugeVec
	Swept         prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bossmonitor",
			Name:      "cycles_total",
			Help:      "Monitor cycles by mode and outcome",
		}, []string{"mode", "result"}),
		CycleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bossmonitor",
			Name:      "cycle_duration_seconds",
			Help:      "Time spent in one monitor cycle",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		Announced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bossmonitor",
			Name:      "spawns_announced_total",
			Help:      "Newly detected spawns sent to chat",
		}, []string{"category"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bossmonitor",
			Name:      "notifications_total",
			Help:      "Webhook deliveries by channel and outcome",
		}, []string{"channel", "result"}),
		Tracked: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "bossmonitor",
			Name:      "tracked_spawns",
			Help:      "Spawns currently remembered as announced",
		}, []string{"category"}),
		Swept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bossmonitor",
			Name:      "spawns_expired_total",
			Help:      "Tracked spawns removed after their end time",
		}),
	}

	m.Registry.MustRegister(
		m.Cycles,
		m.CycleDuration,
		m.Announced,
		m.Notifications,
		m.Tracked,
		m.Swept,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}
