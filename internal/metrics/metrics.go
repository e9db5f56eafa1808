// Package metrics exposes dashboard counters on a private prometheus
// registry.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Result labels.
const (
	ResultOK    = "ok"
	ResultError = "error"
	ResultStale = "stale"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	reads         *prometheus.CounterVec
	writes        *prometheus.CounterVec
	confirmations *prometheus.CounterVec
	pendingReward prometheus.Gauge
	readLatency   *prometheus.HistogramVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "minedash",
			Name:      "reads_total",
			Help:      "Contract reads by query and result.",
		}, []string{"query", "result"}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "minedash",
			Name:      "writes_total",
			Help:      "Submitted writes by kind and result.",
		}, []string{"kind", "result"}),
		confirmations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "minedash",
			Name:      "confirmations_total",
			Help:      "Mined transactions by kind and receipt status.",
		}, []string{"kind", "status"}),
		pendingReward: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "minedash",
			Name:      "pending_reward",
			Help:      "Last pending reward read, in whole tokens.",
		}),
		readLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "minedash",
			Name:      "read_duration_seconds",
			Help:      "Contract read latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"query"}),
	}
	m.registry.MustRegister(m.reads, m.writes, m.confirmations, m.pendingReward, m.readLatency)
	return m
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveRead records one read outcome.
func (m *Metrics) ObserveRead(query string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.reads.WithLabelValues(query, result(err)).Inc()
	m.readLatency.WithLabelValues(query).Observe(d.Seconds())
}

// StaleRead counts a result dropped because its key or sequence moved on.
func (m *Metrics) StaleRead(query string) {
	if m == nil {
		return
	}
	m.reads.WithLabelValues(query, ResultStale).Inc()
}

// ObserveWrite records a submission outcome.
func (m *Metrics) ObserveWrite(kind string, err error) {
	if m == nil {
		return
	}
	m.writes.WithLabelValues(kind, result(err)).Inc()
}

// ObserveConfirmation records a receipt.
func (m *Metrics) ObserveConfirmation(kind string, success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "reverted"
	}
	m.confirmations.WithLabelValues(kind, status).Inc()
}

// SetPendingReward sets the pending reward gauge.
func (m *Metrics) SetPendingReward(v float64) {
	if m == nil {
		return
	}
	m.pendingReward.Set(v)
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled. A listen failure
// is returned immediately.
func (m *Metrics) Serve(ctx context.Context, addr string, log *zap.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx) //nolint:errcheck
	}()
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	log.Info("metrics listening", zap.String("addr", ln.Addr().String()))
	return nil
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
