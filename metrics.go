package globalization

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the counters exported by the engine, service and culture service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	CacheHits      *prometheus.CounterVec
	CacheMisses    *prometheus.CounterVec
	ParseFailures  *prometheus.CounterVec
	CultureChanges *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them on reg.
// Collectors already registered on reg are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "globalization_formatter_cache_hits_total",
				Help: "Total number of formatter cache hits",
			},
			[]string{"kind"},
		),
		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "globalization_formatter_cache_misses_total",
				Help: "Total number of formatters built",
			},
			[]string{"kind"},
		),
		ParseFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "globalization_parse_failures_total",
				Help: "Total number of rejected date and number inputs",
			},
			[]string{"kind", "culture"},
		),
		CultureChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "globalization_culture_changes_total",
				Help: "Total number of successful culture changes",
			},
			[]string{"culture"},
		),
	}

	if reg == nil {
		return m, nil
	}

	for _, vec := range []**prometheus.CounterVec{&m.CacheHits, &m.CacheMisses, &m.ParseFailures, &m.CultureChanges} {
		registered, err := registerCounterVec(reg, *vec)
		if err != nil {
			return nil, err
		}
		*vec = registered
	}
	return m, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	err := reg.Register(vec)
	if err == nil {
		return vec, nil
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
			return existing, nil
		}
	}
	return nil, err
}

func (m *Metrics) cacheHit(kind FormatKind) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) cacheMiss(kind FormatKind) {
	if m == nil {
		return
	}
	m.CacheMisses.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) parseFailure(kind FormatKind, culture string) {
	if m == nil {
		return
	}
	m.ParseFailures.WithLabelValues(string(kind), culture).Inc()
}

func (m *Metrics) cultureChanged(culture string) {
	if m == nil {
		return
	}
	m.CultureChanges.WithLabelValues(culture).Inc()
}
