package globalization

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Config wires the locale data, culture service, engine, service and type
// converter together.
type Config struct {
	Cultures    []string
	LocaleFiles []string
	LocaleData  []*LocaleData
	Provider    LocaleDataProvider
	Logger      *zap.Logger
	Registerer  prometheus.Registerer
	Location    *time.Location
	Persister   CulturePersister

	skipDefaultLocales bool
	localeOverrides    map[string]string

	metrics   *Metrics
	cultures  *CultureService
	engine    *Engine
	service   *Service
	converter *TypeConverter
}

// Option mutates Config during construction
type Option func(*Config) error

// NewConfig applies opts and builds every component. The first culture passed
// to WithCultures is the default culture.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	cfg.Cultures = normalizeCultures(cfg.Cultures)
	if len(cfg.Cultures) == 0 {
		return nil, ErrNoCultures
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	if err := cfg.ensureProvider(); err != nil {
		return nil, err
	}
	cfg.warnMissingLocales()

	if cfg.Registerer != nil {
		metrics, err := NewMetrics(cfg.Registerer)
		if err != nil {
			return nil, err
		}
		cfg.metrics = metrics
	}

	cultureOpts := []CultureOption{
		WithCultureLogger(cfg.Logger.Named("culture")),
		WithCultureMetrics(cfg.metrics),
	}
	if cfg.Persister != nil {
		cultureOpts = append(cultureOpts, WithCulturePersistence(cfg.Persister))
	}
	cultures, err := NewCultureService(cfg.Cultures, cultureOpts...)
	if err != nil {
		return nil, err
	}
	cfg.cultures = cultures

	cfg.engine = NewEngine(cfg.Provider,
		WithEngineLogger(cfg.Logger.Named("engine")),
		WithEngineMetrics(cfg.metrics),
		WithEngineLocation(cfg.Location),
	)
	cfg.service = NewService(cfg.cultures, cfg.engine,
		WithServiceLogger(cfg.Logger.Named("service")),
		WithServiceMetrics(cfg.metrics),
	)
	cfg.converter = NewTypeConverter(cfg.service)

	return cfg, nil
}

// WithCultures appends supported cultures, in priority order
func WithCultures(cultures ...string) Option {
	return func(c *Config) error {
		c.Cultures = append(c.Cultures, cultures...)
		return nil
	}
}

// WithLocaleFiles loads extra YAML or JSON bundles on top of the embedded ones.
func WithLocaleFiles(paths ...string) Option {
	return func(c *Config) error {
		c.LocaleFiles = append(c.LocaleFiles, paths...)
		return nil
	}
}

// WithLocaleOverride merges the bundle at path field by field into locale.
func WithLocaleOverride(locale, path string) Option {
	return func(c *Config) error {
		if locale == "" || path == "" {
			return nil
		}
		if c.localeOverrides == nil {
			c.localeOverrides = make(map[string]string)
		}
		c.localeOverrides[locale] = path
		return nil
	}
}

func WithLocaleData(bundles ...*LocaleData) Option {
	return func(c *Config) error {
		c.LocaleData = append(c.LocaleData, bundles...)
		return nil
	}
}

// WithoutDefaultLocales skips the embedded en-GB, de and ar-EG bundles.
func WithoutDefaultLocales() Option {
	return func(c *Config) error {
		c.skipDefaultLocales = true
		return nil
	}
}

// WithLocaleProvider replaces the built in provider. Files and embedded
// bundles are ignored; bundles from WithLocaleData are loaded into provider.
func WithLocaleProvider(provider LocaleDataProvider) Option {
	return func(c *Config) error {
		c.Provider = provider
		return nil
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithMetrics registers the globalization counters on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Config) error {
		c.Registerer = reg
		return nil
	}
}

func WithLocation(loc *time.Location) Option {
	return func(c *Config) error {
		c.Location = loc
		return nil
	}
}

func WithCulturePersister(p CulturePersister) Option {
	return func(c *Config) error {
		c.Persister = p
		return nil
	}
}

func (cfg *Config) CultureService() *CultureService {
	return cfg.cultures
}

func (cfg *Config) Engine() *Engine {
	return cfg.engine
}

func (cfg *Config) Service() *Service {
	return cfg.service
}

func (cfg *Config) TypeConverter() *TypeConverter {
	return cfg.converter
}

// Metrics returns the registered counters, or nil when WithMetrics was not used.
func (cfg *Config) Metrics() *Metrics {
	return cfg.metrics
}

// TemplateHelpers returns the template function map bound to this config's service.
func (cfg *Config) TemplateHelpers(helperCfg HelperConfig) map[string]any {
	return TemplateHelpers(cfg.service, helperCfg)
}

func (cfg *Config) ensureProvider() error {
	if cfg.Provider != nil {
		for _, bundle := range cfg.LocaleData {
			if bundle == nil {
				continue
			}
			if err := cfg.Provider.LoadLocale(bundle.Locale, bundle); err != nil {
				return err
			}
		}
		return nil
	}

	loader := NewLocaleDataLoader(cfg.LocaleFiles...)
	if cfg.skipDefaultLocales {
		loader.WithoutDefaults()
	}
	for locale, path := range cfg.localeOverrides {
		loader.AddOverride(locale, path)
	}

	bundles, err := loader.Load()
	if err != nil {
		return err
	}
	bundles = append(bundles, cfg.LocaleData...)

	provider, err := NewStaticLocaleProvider(bundles...)
	if err != nil {
		return err
	}
	cfg.Provider = provider
	return nil
}

// warnMissingLocales flags supported cultures that will fail at format time.
func (cfg *Config) warnMissingLocales() {
	for _, culture := range cfg.Cultures {
		if !cfg.Provider.HasLocale(culture) {
			cfg.Logger.Warn("supported culture has no locale data",
				zap.String("culture", culture),
			)
		}
	}
}
