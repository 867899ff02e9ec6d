package globalization

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

type DateFormatter func(time.Time) string

// DateParser reads text produced by the DateFormatter built from the same options.
type DateParser func(string) (time.Time, error)

type NumberFormatter func(float64) string

type NumberParser func(string) (float64, error)

// cacheKey identifies one formatter/parser pair.
type cacheKey struct {
	culture string
	kind    FormatKind
	options string
}

// Engine builds formatter/parser pairs from locale data and memoizes them per
// (culture, kind, options). Entries live for the lifetime of the engine.
type Engine struct {
	provider LocaleDataProvider
	logger   *zap.Logger
	metrics  *Metrics
	location *time.Location
	now      func() time.Time

	mu    sync.RWMutex
	cache map[cacheKey]any
}

type EngineOption func(*Engine)

func WithEngineLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithEngineMetrics(metrics *Metrics) EngineOption {
	return func(e *Engine) {
		e.metrics = metrics
	}
}

// WithEngineLocation sets the zone dates are formatted in and parsed into.
func WithEngineLocation(loc *time.Location) EngineOption {
	return func(e *Engine) {
		if loc != nil {
			e.location = loc
		}
	}
}

// WithEngineClock overrides the clock used to fill the date of time-only input
// and to pivot two digit years.
func WithEngineClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func NewEngine(provider LocaleDataProvider, opts ...EngineOption) *Engine {
	e := &Engine{
		provider: provider,
		logger:   zap.NewNop(),
		location: time.Local,
		now:      time.Now,
		cache:    make(map[cacheKey]any),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Location returns the zone used by date formatters and parsers.
func (e *Engine) Location() *time.Location {
	return e.location
}

func (e *Engine) DateFormatter(culture string, opts *FormatOptions) (DateFormatter, error) {
	codec, err := e.dateCodec(culture, opts)
	if err != nil {
		return nil, err
	}
	location := e.location
	return func(t time.Time) string {
		return codec.format(t.In(location))
	}, nil
}

func (e *Engine) DateParser(culture string, opts *FormatOptions) (DateParser, error) {
	codec, err := e.dateCodec(culture, opts)
	if err != nil {
		return nil, err
	}
	return codec.parse, nil
}

// NumberFormatter returns a formatter for the number preset or, when
// opts.Currency is set, for that currency.
func (e *Engine) NumberFormatter(culture string, opts *FormatOptions) (NumberFormatter, error) {
	codec, err := e.numberCodec(culture, opts)
	if err != nil {
		return nil, err
	}
	return codec.format, nil
}

func (e *Engine) NumberParser(culture string, opts *FormatOptions) (NumberParser, error) {
	codec, err := e.numberCodec(culture, opts)
	if err != nil {
		return nil, err
	}
	return codec.parse, nil
}

// CacheSize reports how many formatter/parser pairs have been built.
func (e *Engine) CacheSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.cache)
}

func (e *Engine) dateCodec(culture string, opts *FormatOptions) (*dateCodec, error) {
	sel, err := resolveDateSelection(opts)
	if err != nil {
		return nil, err
	}
	culture = canonicalLocale(culture)
	key := cacheKey{culture: culture, kind: KindDate, options: sel.key()}

	return cached(e, key, func() (*dateCodec, error) {
		data, err := e.provider.Locale(culture)
		if err != nil {
			return nil, err
		}
		source, err := sel.pattern(data.Calendar)
		if err != nil {
			return nil, err
		}
		pattern, err := compileDatePattern(source)
		if err != nil {
			return nil, err
		}
		return newDateCodec(culture, pattern, data, e.location, e.now), nil
	})
}

func (e *Engine) numberCodec(culture string, opts *FormatOptions) (*numberCodec, error) {
	sel, err := resolveNumberSelection(opts)
	if err != nil {
		return nil, err
	}
	culture = canonicalLocale(culture)
	key := cacheKey{culture: culture, kind: sel.kind, options: sel.key()}

	return cached(e, key, func() (*numberCodec, error) {
		data, err := e.provider.Locale(culture)
		if err != nil {
			return nil, err
		}
		return buildNumberCodec(culture, sel, data)
	})
}

func buildNumberCodec(culture string, sel numberSelection, data *LocaleData) (*numberCodec, error) {
	nums := data.Numbers
	source := nums.DecimalPattern
	switch {
	case sel.kind == KindCurrency:
		source = nums.CurrencyPattern
		if source == "" {
			source = "¤" + nums.DecimalPattern
		}
	case sel.preset == NumberPercent:
		source = nums.PercentPattern
		if source == "" {
			source = "#,##0%"
		}
	}

	pattern, err := compileNumberPattern(source)
	if err != nil {
		return nil, err
	}

	if sel.kind == KindNumber {
		if sel.preset == NumberInteger {
			pattern = pattern.withFraction(0)
		}
		return newNumberCodec(culture, KindNumber, pattern, data), nil
	}

	if digits, ok := currencyFractionDigits(sel.code); ok {
		pattern = pattern.withFraction(digits)
	}
	pattern = pattern.withCurrencyStyle(sel.style)

	codec := newNumberCodec(culture, KindCurrency, pattern, data)
	codec.code = sel.code
	codec.currency = currencyDisplay(data, sel.code, sel.style)
	return codec, nil
}

// cached returns the entry for key, building and storing it on first use.
// Failed builds are not cached.
func cached[T any](e *Engine, key cacheKey, build func() (T, error)) (T, error) {
	e.mu.RLock()
	entry, ok := e.cache[key]
	e.mu.RUnlock()
	if ok {
		e.metrics.cacheHit(key.kind)
		return entry.(T), nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if entry, ok := e.cache[key]; ok {
		e.metrics.cacheHit(key.kind)
		return entry.(T), nil
	}

	value, err := build()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("build %s formatter for %q: %w", key.kind, key.culture, err)
	}

	e.cache[key] = value
	e.metrics.cacheMiss(key.kind)
	e.logger.Debug("formatter built",
		zap.String("culture", key.culture),
		zap.String("kind", string(key.kind)),
		zap.String("options", key.options),
	)
	return value, nil
}
