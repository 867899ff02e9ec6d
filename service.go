package globalization

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Service formats and parses values for the effective culture: the explicit
// culture argument when non-empty, otherwise the current culture. The
// effective culture is resolved on every call.
//
// Nil values short-circuit before any locale lookup: formatting nil yields ""
// and parsing nil yields nil, both without error.
type Service struct {
	cultures *CultureService
	engine   *Engine
	logger   *zap.Logger
	metrics  *Metrics
}

type ServiceOption func(*Service)

func WithServiceLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithServiceMetrics(metrics *Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = metrics
	}
}

func NewService(cultures *CultureService, engine *Engine, opts ...ServiceOption) *Service {
	s := &Service{
		cultures: cultures,
		engine:   engine,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) Cultures() *CultureService {
	return s.cultures
}

func (s *Service) CurrentCulture() string {
	return s.cultures.CurrentCulture()
}

func (s *Service) FormatDate(value *time.Time, culture string, opts *FormatOptions) (string, error) {
	if value == nil {
		return "", nil
	}
	effective, err := s.effectiveCulture(culture)
	if err != nil {
		return "", err
	}
	format, err := s.engine.DateFormatter(effective, opts)
	if err != nil {
		return "", err
	}
	return format(*value), nil
}

func (s *Service) ParseDate(text *string, culture string, opts *FormatOptions) (*time.Time, error) {
	if text == nil {
		return nil, nil
	}
	effective, err := s.effectiveCulture(culture)
	if err != nil {
		return nil, err
	}
	parse, err := s.engine.DateParser(effective, opts)
	if err != nil {
		return nil, err
	}
	value, err := parse(*text)
	if err != nil {
		s.recordParseFailure(KindDate, effective, *text, err)
		return nil, err
	}
	return &value, nil
}

// FormatNumber formats value with the number preset in opts, or as a currency
// amount when opts.Currency is set. NaN and infinities use the culture's symbols.
func (s *Service) FormatNumber(value *float64, culture string, opts *FormatOptions) (string, error) {
	if value == nil {
		return "", nil
	}
	effective, err := s.effectiveCulture(culture)
	if err != nil {
		return "", err
	}
	format, err := s.engine.NumberFormatter(effective, opts)
	if err != nil {
		return "", err
	}
	return format(*value), nil
}

func (s *Service) ParseNumber(text *string, culture string, opts *FormatOptions) (*float64, error) {
	if text == nil {
		return nil, nil
	}
	effective, err := s.effectiveCulture(culture)
	if err != nil {
		return nil, err
	}
	parse, err := s.engine.NumberParser(effective, opts)
	if err != nil {
		return nil, err
	}
	value, err := parse(*text)
	if err != nil {
		s.recordParseFailure(numberKind(opts), effective, *text, err)
		return nil, err
	}
	return &value, nil
}

// FormatCurrency formats value as an amount of code. A currency style in opts
// is honoured; its code is replaced by code.
func (s *Service) FormatCurrency(value *float64, code, culture string, opts *FormatOptions) (string, error) {
	return s.FormatNumber(value, culture, withCurrency(opts, code))
}

func (s *Service) ParseCurrency(text *string, code, culture string, opts *FormatOptions) (*float64, error) {
	return s.ParseNumber(text, culture, withCurrency(opts, code))
}

func (s *Service) effectiveCulture(culture string) (string, error) {
	if strings.TrimSpace(culture) == "" {
		return s.cultures.CurrentCulture(), nil
	}
	if !s.cultures.IsSupported(culture) {
		return "", &UnsupportedCultureError{Culture: culture, Supported: s.cultures.SupportedCultures()}
	}
	return canonicalLocale(culture), nil
}

func (s *Service) recordParseFailure(kind FormatKind, culture, input string, err error) {
	if !errors.Is(err, ErrParse) {
		return
	}
	s.metrics.parseFailure(kind, culture)
	s.logger.Debug("parse failed",
		zap.String("kind", string(kind)),
		zap.String("culture", culture),
		zap.String("input", input),
		zap.Error(err),
	)
}

func withCurrency(opts *FormatOptions, code string) *FormatOptions {
	out := FormatOptions{}
	if opts != nil {
		out = *opts
	}
	currency := CurrencyOptions{Code: code}
	if out.Currency != nil {
		currency.Style = out.Currency.Style
	}
	out.Currency = &currency
	return &out
}

func numberKind(opts *FormatOptions) FormatKind {
	if opts != nil && opts.Currency != nil {
		return KindCurrency
	}
	return KindNumber
}
