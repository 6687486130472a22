package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the resolver.
type Metrics struct {
	Resolutions    *prometheus.CounterVec
	CacheHits      prometheus.Counter
	TokenRotations prometheus.Counter
}

// New creates and registers all metrics on the default registerer.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates and registers all metrics on the given registerer. Tests
// pass a private registry to avoid duplicate-registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eventgate_authorize_resolutions_total",
			Help: "Authorization resolutions by outcome",
		}, []string{"outcome"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventgate_authorize_cache_hits_total",
			Help: "Resolutions served from the verified-result cache",
		}),
		TokenRotations: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventgate_token_rotations_total",
			Help: "Proactive token rotations performed and persisted",
		}),
	}
}

// Outcome labels for Resolutions.
const (
	OutcomeAuthorized  = "authorized"
	OutcomeNotFound    = "not_found"
	OutcomeInvalidAuth = "invalid_auth"
	OutcomeError       = "error"
)

// ObserveResolution increments the outcome counter; safe on a nil receiver
// so callers can leave metrics unconfigured.
func (m *Metrics) ObserveResolution(outcome string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(outcome).Inc()
}

// ObserveCacheHit increments the cache-hit counter; nil-safe.
func (m *Metrics) ObserveCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// ObserveRotation increments the rotation counter; nil-safe.
func (m *Metrics) ObserveRotation() {
	if m == nil {
		return
	}
	m.TokenRotations.Inc()
}
