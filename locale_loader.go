package globalization

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var defaultLocaleFS embed.FS

// LocaleDataLoader reads locale bundles from the embedded defaults and from files.
// Later sources win: files override the embedded bundle for the same locale,
// and overrides are merged field by field on top of that.
type LocaleDataLoader struct {
	paths       []string
	overrides   map[string]string
	skipDefault bool
}

// NewLocaleDataLoader creates a loader for the given bundle files.
func NewLocaleDataLoader(paths ...string) *LocaleDataLoader {
	return &LocaleDataLoader{
		paths:     append([]string(nil), paths...),
		overrides: make(map[string]string),
	}
}

// WithoutDefaults skips the embedded bundles.
func (l *LocaleDataLoader) WithoutDefaults() *LocaleDataLoader {
	l.skipDefault = true
	return l
}

// AddOverride merges the bundle at path into locale after all other sources.
func (l *LocaleDataLoader) AddOverride(locale, path string) {
	l.overrides[canonicalLocale(locale)] = path
}

// Load returns the resolved bundles sorted by locale.
func (l *LocaleDataLoader) Load() ([]*LocaleData, error) {
	bundles := make(map[string]*LocaleData)

	if !l.skipDefault {
		defaults, err := DefaultLocaleData()
		if err != nil {
			return nil, err
		}
		for _, bundle := range defaults {
			bundles[bundle.Locale] = bundle
		}
	}

	for _, p := range l.paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("load locale data: %w", err)
		}
		bundle, err := decodeLocaleFile(p, data)
		if err != nil {
			return nil, fmt.Errorf("parse locale data %s: %w", p, err)
		}
		bundles[bundle.Locale] = bundle
	}

	for locale, p := range l.overrides {
		if err := l.loadOverride(bundles, locale, p); err != nil {
			return nil, err
		}
	}

	out := make([]*LocaleData, 0, len(bundles))
	for _, bundle := range bundles {
		out = append(out, bundle)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Locale < out[j].Locale })
	return out, nil
}

func (l *LocaleDataLoader) loadOverride(bundles map[string]*LocaleData, locale, p string) error {
	data, err := os.ReadFile(p)
	if err != nil {
		return fmt.Errorf("load locale override for %q: %w", locale, err)
	}

	override, err := decodeLocaleFile(p, data)
	if err != nil {
		return fmt.Errorf("parse locale override for %q: %w", locale, err)
	}

	base, ok := bundles[locale]
	if !ok {
		override.Locale = locale
		bundles[locale] = override
		return nil
	}
	base.merge(override)
	return nil
}

// DefaultLocaleData decodes the embedded en-GB, de and ar-EG bundles.
func DefaultLocaleData() ([]*LocaleData, error) {
	entries, err := fs.ReadDir(defaultLocaleFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("read embedded locales: %w", err)
	}

	out := make([]*LocaleData, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := path.Join("locales", entry.Name())
		data, err := defaultLocaleFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read embedded locale %s: %w", name, err)
		}
		bundle, err := decodeLocaleFile(name, data)
		if err != nil {
			return nil, fmt.Errorf("parse embedded locale %s: %w", name, err)
		}
		out = append(out, bundle)
	}
	return out, nil
}

func decodeLocaleFile(p string, data []byte) (*LocaleData, error) {
	var bundle LocaleData

	ext := strings.ToLower(filepath.Ext(p))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &bundle); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &bundle); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported extension %s", ext)
	}

	if bundle.Locale == "" {
		bundle.Locale = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
	}
	bundle.Locale = canonicalLocale(bundle.Locale)
	return &bundle, nil
}
