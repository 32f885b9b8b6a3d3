// Package prometheus registers and exposes the naming-pipeline metrics.
// The core engine never touches these directly; the application service
// records them around each call so the pipeline itself stays pure.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Default histogram buckets for naming calls: the pipeline is in-memory and
// fast, so sub-millisecond resolution matters.
var defaultDurationBuckets = []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1, .5}

// Metrics holds every metric the naming service emits.
type Metrics struct {
	// NamesTotal counts naming calls by outcome ("ok", "degraded", "error").
	NamesTotal *prometheus.CounterVec

	// RuleApplicationsTotal counts rule firings by phase and rule id.
	RuleApplicationsTotal *prometheus.CounterVec

	// ConflictsTotal counts recorded conflicts by type.
	ConflictsTotal *prometheus.CounterVec

	// NamingDuration observes wall-clock seconds per call by phase
	// ("total" plus the three engine phases).
	NamingDuration *prometheus.HistogramVec

	// CacheHitsTotal / CacheMissesTotal track the server-side result cache.
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	// SchemesSearched observes how many renumbering schemes the locant
	// optimizer enumerated per call; a guard against pathological inputs.
	SchemesSearched prometheus.Histogram
}

// New registers all naming metrics on reg and returns the handle struct.
// Pass prometheus.NewRegistry() in tests to avoid global registry collisions.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		NamesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nomen_names_total",
			Help: "Naming calls by outcome.",
		}, []string{"outcome"}),
		RuleApplicationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nomen_rule_applications_total",
			Help: "Rule firings by phase and rule id.",
		}, []string{"phase", "rule"}),
		ConflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nomen_conflicts_total",
			Help: "Non-fatal conflicts by type.",
		}, []string{"type"}),
		NamingDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nomen_naming_duration_seconds",
			Help:    "Naming call duration by phase.",
			Buckets: defaultDurationBuckets,
		}, []string{"phase"}),
		CacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nomen_cache_hits_total",
			Help: "Result-cache hits.",
		}),
		CacheMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nomen_cache_misses_total",
			Help: "Result-cache misses.",
		}),
		SchemesSearched: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nomen_locant_schemes_searched",
			Help:    "Renumbering schemes enumerated per call.",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128},
		}),
	}

	reg.MustRegister(
		m.NamesTotal,
		m.RuleApplicationsTotal,
		m.ConflictsTotal,
		m.NamingDuration,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.SchemesSearched,
	)
	return m
}

// NewNop returns a Metrics handle registered on a throwaway registry, for
// components constructed without monitoring.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
