package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so tests can build as many as they like.
type Collector struct {
	reg *prometheus.Registry

	RoutingCalls    *prometheus.CounterVec // operation, outcome
	RoutingDuration *prometheus.HistogramVec

	CacheLookups *prometheus.CounterVec // kind, result: hit|miss

	SolverIterations prometheus.Histogram
	SolverRuns       *prometheus.CounterVec // outcome: converged|approximate|failed

	ChangesPublished *prometheus.CounterVec // kind
	ChangeErrors     prometheus.Counter
	ChangesDropped   prometheus.Counter

	BroadcastsPublished prometheus.Counter
	BroadcastErrors     prometheus.Counter
	NATSConnected       prometheus.Gauge

	ActiveSessions prometheus.Gauge

	WorkerProcessed *prometheus.CounterVec // result: ok|failed|skipped
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		RoutingCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "std_routing_calls_total",
			Help: "Routing provider calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		RoutingDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "std_routing_duration_seconds",
			Help:    "Latency of routing provider calls.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"operation"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "std_cache_lookups_total",
			Help: "Route and places cache lookups.",
		}, []string{"kind", "result"}),
		SolverIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "std_midpoint_solver_iterations",
			Help:    "Iterations used per group midpoint solve.",
			Buckets: prometheus.LinearBuckets(1, 1, 12),
		}),
		SolverRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "std_midpoint_solver_runs_total",
			Help: "Group midpoint solves by outcome.",
		}, []string{"outcome"}),
		ChangesPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "std_change_events_published_total",
			Help: "Trip change notifications published.",
		}, []string{"kind"}),
		ChangeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "std_change_events_errors_total",
			Help: "Trip change notifications that failed to publish.",
		}),
		ChangesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "std_change_events_dropped_total",
			Help: "Change subscribers disconnected because they fell behind.",
		}),
		BroadcastsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "std_position_broadcasts_total",
			Help: "Live position broadcasts published.",
		}),
		BroadcastErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "std_position_broadcast_errors_total",
			Help: "Live position broadcasts that failed.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "std_nats_connected",
			Help: "1 if the NATS connection is established, 0 otherwise.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "std_live_sessions_active",
			Help: "Server-side live sharing sessions currently running.",
		}),
		WorkerProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "std_worker_messages_total",
			Help: "Stream messages handled by the distance worker.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.RoutingCalls, c.RoutingDuration, c.CacheLookups,
		c.SolverIterations, c.SolverRuns,
		c.ChangesPublished, c.ChangeErrors, c.ChangesDropped,
		c.BroadcastsPublished, c.BroadcastErrors, c.NATSConnected,
		c.ActiveSessions, c.WorkerProcessed,
	)
	return c
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// ObserveRouting records one provider call.
func (c *Collector) ObserveRouting(operation string, started time.Time, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.RoutingCalls.WithLabelValues(operation, outcome).Inc()
	c.RoutingDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func (c *Collector) CacheHit(kind string, hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.CacheLookups.WithLabelValues(kind, result).Inc()
}

func (c *Collector) ObserveSolve(iterations int, converged bool, err error) {
	if c == nil {
		return
	}
	switch {
	case err != nil:
		c.SolverRuns.WithLabelValues("failed").Inc()
		return
	case converged:
		c.SolverRuns.WithLabelValues("converged").Inc()
	default:
		c.SolverRuns.WithLabelValues("approximate").Inc()
	}
	c.SolverIterations.Observe(float64(iterations))
}

func (c *Collector) ChangePublished(kind string, err error) {
	if c == nil {
		return
	}
	if err != nil {
		c.ChangeErrors.Inc()
		return
	}
	c.ChangesPublished.WithLabelValues(kind).Inc()
}

func (c *Collector) ChangeDropped() {
	if c == nil {
		return
	}
	c.ChangesDropped.Inc()
}

// The methods below satisfy the broadcaster's metrics hook.

func (c *Collector) BroadcastInc(err error) {
	if c == nil {
		return
	}
	if err != nil {
		c.BroadcastErrors.Inc()
		return
	}
	c.BroadcastsPublished.Inc()
}

func (c *Collector) SetConnected(connected bool) {
	if c == nil {
		return
	}
	if connected {
		c.NATSConnected.Set(1)
	} else {
		c.NATSConnected.Set(0)
	}
}

func (c *Collector) SessionStarted() {
	if c != nil {
		c.ActiveSessions.Inc()
	}
}

func (c *Collector) SessionStopped() {
	if c != nil {
		c.ActiveSessions.Dec()
	}
}

func (c *Collector) WorkerResult(result string) {
	if c != nil {
		c.WorkerProcessed.WithLabelValues(result).Inc()
	}
}
