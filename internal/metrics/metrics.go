// Package metrics exposes Prometheus collectors for boost-guardd.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the Prometheus collectors observed across a boost-guardd process.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	boostsSkipped   *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	lotteryDraws    prometheus.Counter
	signaturesTotal prometheus.Counter
}

var (
	registry *Metrics
)

// New constructs and registers the boost-guardd metrics. Safe to call once per process.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boost_guard_requests_total",
			Help: "Count of HTTP requests handled, labeled by route and outcome.",
		}, []string{"route", "outcome"}),
		boostsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boost_guard_boosts_skipped_total",
			Help: "Count of per-boost skips, labeled by reason.",
		}, []string{"reason"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boost_guard_cache_hits_total",
			Help: "Count of cache hits, labeled by cache name.",
		}, []string{"cache"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boost_guard_cache_misses_total",
			Help: "Count of cache misses, labeled by cache name.",
		}, []string{"cache"}),
		lotteryDraws: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boost_guard_lottery_draws_total",
			Help: "Count of lottery winner computations performed.",
		}),
		signaturesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boost_guard_signatures_total",
			Help: "Count of EIP-712 claim signatures produced.",
		}),
	}
	registerer.MustRegister(
		m.requestsTotal,
		m.boostsSkipped,
		m.cacheHits,
		m.cacheMisses,
		m.lotteryDraws,
		m.signaturesTotal,
	)
	registry = m
	return m
}

// Default returns the process-wide metrics registry, constructing it against the default
// Prometheus registerer if it has not been initialised yet.
func Default() *Metrics {
	if registry == nil {
		return New(nil)
	}
	return registry
}

// ObserveRequest records an HTTP request outcome.
func (m *Metrics) ObserveRequest(route, outcome string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(route, outcome).Inc()
}

// ObserveBoostSkipped records a per-boost skip by reason.
func (m *Metrics) ObserveBoostSkipped(reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	m.boostsSkipped.WithLabelValues(reason).Inc()
}

// ObserveCacheHit records a cache hit for the named cache.
func (m *Metrics) ObserveCacheHit(cache string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(cache).Inc()
}

// ObserveCacheMiss records a cache miss for the named cache.
func (m *Metrics) ObserveCacheMiss(cache string) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// ObserveLotteryDraw records a lottery computation.
func (m *Metrics) ObserveLotteryDraw() {
	if m == nil {
		return
	}
	m.lotteryDraws.Inc()
}

// ObserveSignature records a produced claim signature.
func (m *Metrics) ObserveSignature() {
	if m == nil {
		return
	}
	m.signaturesTotal.Inc()
}
