package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/vaultline/dat-backoffice-go/internal/domain"
)

// Metrics holds all Prometheus metrics for the back-office service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration  *prometheus.HistogramVec
	externalErrors   *prometheus.CounterVec
	cacheHits        *prometheus.CounterVec
	cacheMisses      *prometheus.CounterVec
	requestsTotal    *prometheus.CounterVec
	simulationsTotal prometheus.Counter
	transfersTotal   *prometheus.CounterVec
	renewalsTotal    *prometheus.CounterVec
	advisoryFailures prometheus.Counter
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "datbo_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datbo_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datbo_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datbo_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datbo_requests_total",
				Help: "Total requests processed.",
			},
			[]string{"status"},
		),
		simulationsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "datbo_simulations_total",
				Help: "Total interest simulations computed.",
			},
		),
		transfersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datbo_transfers_total",
				Help: "Interest transfer requests by outcome.",
			},
			[]string{"outcome"},
		),
		renewalsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datbo_renewals_total",
				Help: "Deposit renewals by outcome.",
			},
			[]string{"outcome"},
		),
		advisoryFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "datbo_advisory_failures_total",
				Help: "Failed advisory interest-processing triggers.",
			},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrRequest increments the request counter with a status label.
func (m *Metrics) IncrRequest(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// RequestCounterMiddleware counts every finished request by outcome. A 5xx
// response counts as "error", everything else as "success"; these feed the
// totalRequests/errorRate fields of the ops overview.
func RequestCounterMiddleware(m *Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if ww.Status() >= 500 {
				m.IncrRequest("error")
			} else {
				m.IncrRequest("success")
			}
		})
	}
}

// IncrSimulation increments the simulation counter.
func (m *Metrics) IncrSimulation() {
	m.simulationsTotal.Inc()
}

// IncrTransfer records a transfer validation outcome ("validated" or "rejected").
func (m *Metrics) IncrTransfer(outcome string) {
	m.transfersTotal.WithLabelValues(outcome).Inc()
}

// IncrRenewal records a renewal outcome ("completed" or "failed").
func (m *Metrics) IncrRenewal(outcome string) {
	m.renewalsTotal.WithLabelValues(outcome).Inc()
}

// IncrAdvisoryFailure increments the advisory failure counter.
func (m *Metrics) IncrAdvisoryFailure() {
	m.advisoryFailures.Inc()
}

// GetOverviewSnapshot returns a snapshot of operational metrics suitable for
// the GET /v1/metrics/overview endpoint.
func (m *Metrics) GetOverviewSnapshot() *domain.OpsOverview {
	totalRequests := getCounterValue(m.requestsTotal.WithLabelValues("success")) +
		getCounterValue(m.requestsTotal.WithLabelValues("error"))
	errorCount := getCounterValue(m.requestsTotal.WithLabelValues("error"))
	cacheHits := getCounterValue(m.cacheHits.WithLabelValues("deposits"))
	cacheMisses := getCounterValue(m.cacheMisses.WithLabelValues("deposits"))

	errorRate := float64(0)
	cacheHitRate := float64(0)
	if totalRequests > 0 {
		errorRate = errorCount / totalRequests
	}
	if cacheHits+cacheMisses > 0 {
		cacheHitRate = cacheHits / (cacheHits + cacheMisses)
	}

	return &domain.OpsOverview{
		TotalRequests:      int64(totalRequests),
		ErrorRate:          errorRate,
		SimulationsRun:     int64(getCounterValue(m.simulationsTotal)),
		TransfersValidated: int64(getCounterValue(m.transfersTotal.WithLabelValues("validated"))),
		TransfersRejected:  int64(getCounterValue(m.transfersTotal.WithLabelValues("rejected"))),
		RenewalsCompleted:  int64(getCounterValue(m.renewalsTotal.WithLabelValues("completed"))),
		RenewalsFailed:     int64(getCounterValue(m.renewalsTotal.WithLabelValues("failed"))),
		CacheHitRate:       cacheHitRate,
		AdvisoryFailures:   int64(getCounterValue(m.advisoryFailures)),
		Period:             "all_time",
	}
}

// getCounterValue extracts the current float64 value from a counter.
func getCounterValue(c prometheus.Counter) float64 {
	msg := &dto.Metric{}
	if err := c.(prometheus.Metric).Write(msg); err != nil {
		return 0
	}
	if msg.Counter != nil && msg.Counter.Value != nil {
		return *msg.Counter.Value
	}
	return 0
}
