package globalization

import (
	"sort"
	"sync"
)

// LocaleDataProvider supplies locale tables by culture identifier.
// Lookups walk the CLDR parent chain, so data loaded for "de" serves "de-AT".
type LocaleDataProvider interface {
	// LoadLocale registers data under id, replacing any previous bundle.
	LoadLocale(id string, data *LocaleData) error
	// HasLocale reports whether Locale(id) would succeed.
	HasLocale(id string) bool
	// Locale returns the tables for id or a *LocaleNotLoadedError.
	Locale(id string) (*LocaleData, error)
}

// StaticLocaleProvider is an in memory provider. Data is validated and copied
// on load, and every lookup hands out a fresh copy.
type StaticLocaleProvider struct {
	mu      sync.RWMutex
	locales map[string]*LocaleData
}

var _ LocaleDataProvider = &StaticLocaleProvider{}

// NewStaticLocaleProvider builds a provider seeded with bundles.
func NewStaticLocaleProvider(bundles ...*LocaleData) (*StaticLocaleProvider, error) {
	provider := &StaticLocaleProvider{locales: make(map[string]*LocaleData)}
	for _, bundle := range bundles {
		if bundle == nil {
			continue
		}
		if err := provider.LoadLocale(bundle.Locale, bundle); err != nil {
			return nil, err
		}
	}
	return provider, nil
}

func (p *StaticLocaleProvider) LoadLocale(id string, data *LocaleData) error {
	locale := canonicalLocale(id)
	clone := data.Clone()
	if clone != nil {
		clone.Locale = locale
	}
	if err := clone.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.locales == nil {
		p.locales = make(map[string]*LocaleData)
	}
	p.locales[locale] = clone
	return nil
}

func (p *StaticLocaleProvider) HasLocale(id string) bool {
	_, ok := p.lookup(id)
	return ok
}

func (p *StaticLocaleProvider) Locale(id string) (*LocaleData, error) {
	data, ok := p.lookup(id)
	if !ok {
		return nil, &LocaleNotLoadedError{Culture: canonicalLocale(id)}
	}
	return data.Clone(), nil
}

// Locales returns the identifiers loaded so far, sorted.
func (p *StaticLocaleProvider) Locales() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]string, 0, len(p.locales))
	for locale := range p.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

func (p *StaticLocaleProvider) lookup(id string) (*LocaleData, bool) {
	locale := canonicalLocale(id)
	if locale == "" {
		return nil, false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if data, ok := p.locales[locale]; ok {
		return data, true
	}
	for _, parent := range localeParentChain(locale) {
		if data, ok := p.locales[parent]; ok {
			return data, true
		}
	}
	return nil, false
}
