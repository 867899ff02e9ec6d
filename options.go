package globalization

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FormatOptions selects one format family and a preset within it.
// A nil *FormatOptions and a zero value both mean "use the defaults".
//
// When several date families are set the most specific wins:
// DateTime, then Date+Time combined, then Date, then Time.
// Currency wins over Number.
type FormatOptions struct {
	Date     string           `json:"date,omitempty" yaml:"date,omitempty"`
	Time     string           `json:"time,omitempty" yaml:"time,omitempty"`
	DateTime string           `json:"datetime,omitempty" yaml:"datetime,omitempty"`
	Number   string           `json:"number,omitempty" yaml:"number,omitempty"`
	Currency *CurrencyOptions `json:"currency,omitempty" yaml:"currency,omitempty"`
}

// CurrencyOptions carries an ISO 4217 code plus a display preset.
// It decodes from either a bare code ("EUR") or a {code, style} mapping.
type CurrencyOptions struct {
	Code  string `json:"code" yaml:"code"`
	Style string `json:"style,omitempty" yaml:"style,omitempty"`
}

type currencyOptionsFields CurrencyOptions

func (c *CurrencyOptions) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		c.Code = node.Value
		c.Style = ""
		return nil
	}
	var fields currencyOptionsFields
	if err := node.Decode(&fields); err != nil {
		return err
	}
	*c = CurrencyOptions(fields)
	return nil
}

func (c *CurrencyOptions) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err == nil {
		c.Code = code
		c.Style = ""
		return nil
	}
	var fields currencyOptionsFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*c = CurrencyOptions(fields)
	return nil
}

// ParseFormatOptions reads the recognized option keys from a loosely typed map.
// Unknown keys are ignored; known keys with the wrong type are an error.
func ParseFormatOptions(values map[string]any) (*FormatOptions, error) {
	if len(values) == 0 {
		return nil, nil
	}

	opts := &FormatOptions{}
	targets := map[string]*string{
		"date":     &opts.Date,
		"time":     &opts.Time,
		"datetime": &opts.DateTime,
		"number":   &opts.Number,
	}

	for key, raw := range values {
		if target, ok := targets[key]; ok {
			value, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %q must be a string, got %T", ErrInvalidOptions, key, raw)
			}
			*target = strings.TrimSpace(value)
			continue
		}
		if key != "currency" {
			continue
		}

		currency, err := parseCurrencyValue(raw)
		if err != nil {
			return nil, err
		}
		opts.Currency = currency
	}

	return opts, nil
}

func parseCurrencyValue(raw any) (*CurrencyOptions, error) {
	switch value := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return &CurrencyOptions{Code: strings.TrimSpace(value)}, nil
	case map[string]string:
		return &CurrencyOptions{Code: value["code"], Style: value["style"]}, nil
	case map[string]any:
		out := &CurrencyOptions{}
		if code, ok := value["code"].(string); ok {
			out.Code = code
		}
		if style, ok := value["style"].(string); ok {
			out.Style = style
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: currency must be a code or mapping, got %T", ErrInvalidOptions, raw)
	}
}

// ParseOptionString reads the compact "family:preset" form used by the CLI and
// template helpers, e.g. "date:long", "date:short,time:short" or "currency:EUR/code".
func ParseOptionString(spec string) (*FormatOptions, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	values := make(map[string]any)
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("%w: expected family:preset, got %q", ErrInvalidOptions, part)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if key == "currency" {
			code, style, _ := strings.Cut(value, "/")
			values[key] = map[string]string{"code": code, "style": style}
			continue
		}
		values[key] = value
	}

	return ParseFormatOptions(values)
}

// dateSelection is the resolved date family for one call.
type dateSelection struct {
	date     string
	time     string
	datetime string
}

func resolveDateSelection(opts *FormatOptions) (dateSelection, error) {
	if opts == nil {
		return dateSelection{}, nil
	}

	var sel dateSelection
	switch {
	case opts.DateTime != "":
		sel.datetime = opts.DateTime
	case opts.Date != "" && opts.Time != "":
		sel.date = opts.Date
		sel.time = opts.Time
	case opts.Date != "":
		sel.date = opts.Date
	case opts.Time != "":
		sel.time = opts.Time
	}

	for _, style := range []string{sel.datetime, sel.date, sel.time} {
		if style != "" && !isDateStyle(style) {
			return dateSelection{}, fmt.Errorf("%w: unknown date style %q", ErrInvalidOptions, style)
		}
	}
	return sel, nil
}

func (s dateSelection) key() string {
	switch {
	case s.datetime != "":
		return "datetime:" + s.datetime
	case s.date != "" && s.time != "":
		return "date:" + s.date + "|time:" + s.time
	case s.date != "":
		return "date:" + s.date
	case s.time != "":
		return "time:" + s.time
	default:
		return "default"
	}
}

func (s dateSelection) pattern(cal CalendarData) (string, error) {
	switch {
	case s.datetime != "":
		return combineDateTime(cal, s.datetime, s.datetime, s.datetime)
	case s.date != "" && s.time != "":
		return combineDateTime(cal, s.date, s.date, s.time)
	case s.date != "":
		return requirePattern(cal.DateFormats, s.date, "date")
	case s.time != "":
		return requirePattern(cal.TimeFormats, s.time, "time")
	default:
		if cal.DefaultDate == "" {
			return requirePattern(cal.DateFormats, StyleShort, "date")
		}
		return cal.DefaultDate, nil
	}
}

func combineDateTime(cal CalendarData, glueStyle, dateStyle, timeStyle string) (string, error) {
	glue, err := requirePattern(cal.DateTimeFormats, glueStyle, "datetime")
	if err != nil {
		return "", err
	}
	datePattern, err := requirePattern(cal.DateFormats, dateStyle, "date")
	if err != nil {
		return "", err
	}
	timePattern, err := requirePattern(cal.TimeFormats, timeStyle, "time")
	if err != nil {
		return "", err
	}
	result := strings.ReplaceAll(glue, "{1}", datePattern)
	return strings.ReplaceAll(result, "{0}", timePattern), nil
}

func requirePattern(set StyleSet, style, family string) (string, error) {
	pattern := set.Pattern(style)
	if pattern == "" {
		return "", fmt.Errorf("%w: no %s pattern for style %q", ErrInvalidOptions, family, style)
	}
	return pattern, nil
}

// numberSelection is the resolved number or currency family for one call.
type numberSelection struct {
	kind   FormatKind
	preset string
	code   string
	style  string
}

func resolveNumberSelection(opts *FormatOptions) (numberSelection, error) {
	if opts != nil && opts.Currency != nil {
		code := strings.ToUpper(strings.TrimSpace(opts.Currency.Code))
		if code == "" {
			return numberSelection{}, fmt.Errorf("%w: currency code is required", ErrInvalidOptions)
		}
		style := strings.ToLower(strings.TrimSpace(opts.Currency.Style))
		if style == "" {
			style = CurrencySymbol
		}
		if !isCurrencyStyle(style) {
			return numberSelection{}, fmt.Errorf("%w: unknown currency style %q", ErrInvalidOptions, style)
		}
		return numberSelection{kind: KindCurrency, code: code, style: style}, nil
	}

	preset := NumberDecimal
	if opts != nil && opts.Number != "" {
		preset = strings.ToLower(opts.Number)
	}
	if !isNumberPreset(preset) {
		return numberSelection{}, fmt.Errorf("%w: unknown number preset %q", ErrInvalidOptions, preset)
	}
	return numberSelection{kind: KindNumber, preset: preset}, nil
}

func (s numberSelection) key() string {
	if s.kind == KindCurrency {
		return s.code + ":" + s.style
	}
	return s.preset
}
