package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	launches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "launchpad",
			Subsystem: "launcher",
			Name:      "launches_total",
			Help:      "EnsureRunning outcomes per service.",
		}, []string{"name", "outcome"},
	)
	detectFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "launchpad",
			Subsystem: "monitor",
			Name:      "detect_failures_total",
			Help:      "Detect checks that could not be executed (Unknown status).",
		}, []string{"name"},
	)
	readyWait = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "launchpad",
			Subsystem: "launcher",
			Name:      "ready_wait_seconds",
			Help:      "Time spent polling a started service for readiness.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"name"},
	)
	processUp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "launchpad",
			Subsystem: "monitor",
			Name:      "process_up",
			Help:      "Last observed liveness per service (1 running, 0 stopped or unknown).",
		}, []string{"name"},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{launches, detectFailures, readyWait, processUp}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			// If already registered, ignore (allows double Register with default registry)
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler returns an http.Handler serving Prometheus metrics for the DefaultGatherer.
// The caller is responsible for starting an HTTP server and wiring the route.
func Handler() http.Handler { return promhttp.Handler() }

// Below are lightweight helpers used by internal packages to record metrics.
// They no-op if Register hasn't been called.

func IncLaunch(name, outcome string) {
	if regOK.Load() {
		launches.WithLabelValues(name, outcome).Inc()
	}
}

func IncDetectFailure(name string) {
	if regOK.Load() {
		detectFailures.WithLabelValues(name).Inc()
	}
}

func ObserveReadyWait(name string, seconds float64) {
	if regOK.Load() {
		readyWait.WithLabelValues(name).Observe(seconds)
	}
}

func SetProcessUp(name string, up bool) {
	if regOK.Load() {
		v := 0.0
		if up {
			v = 1.0
		}
		processUp.WithLabelValues(name).Set(v)
	}
}
