package globalization

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// HelperConfig configures template helper exports
type HelperConfig struct {
	// CultureKey names the map key or struct field holding the culture in
	// template data. Defaults to "Culture".
	CultureKey string
}

// TemplateHelpers exposes the service to html/template and text/template.
//
// Every helper takes the template data (or a culture string) first. An empty
// or missing culture means the current culture. Option arguments use the
// compact form accepted by ParseOptionString, e.g. "date:long".
func TemplateHelpers(service *Service, cfg HelperConfig) map[string]any {
	key := cfg.CultureKey

	return map[string]any{
		"format_date": func(data any, value any, options ...string) (string, error) {
			opts, err := helperOptions(options)
			if err != nil {
				return "", err
			}
			v := classify(value)
			switch v.kind {
			case valueNull:
				return "", nil
			case valueDate:
				return service.FormatDate(&v.date, extractCulture(data, key), opts)
			default:
				return "", &ConversionError{Value: value, Target: targetDate}
			}
		},

		"parse_date": func(data any, text string, options ...string) (*time.Time, error) {
			opts, err := helperOptions(options)
			if err != nil {
				return nil, err
			}
			return service.ParseDate(&text, extractCulture(data, key), opts)
		},

		"format_number": func(data any, value any, options ...string) (string, error) {
			opts, err := helperOptions(options)
			if err != nil {
				return "", err
			}
			number, err := helperNumber(value)
			if err != nil {
				return "", err
			}
			return service.FormatNumber(number, extractCulture(data, key), opts)
		},

		"format_currency": func(data any, value any, code string, options ...string) (string, error) {
			opts, err := helperOptions(options)
			if err != nil {
				return "", err
			}
			number, err := helperNumber(value)
			if err != nil {
				return "", err
			}
			return service.FormatCurrency(number, code, extractCulture(data, key), opts)
		},

		"current_culture": func(data any) string {
			if culture := extractCulture(data, key); culture != "" && service.Cultures().IsSupported(culture) {
				return canonicalLocale(culture)
			}
			return service.CurrentCulture()
		},

		"supported_cultures": func() []string {
			return service.Cultures().SupportedCultures()
		},
	}
}

func helperOptions(options []string) (*FormatOptions, error) {
	if len(options) == 0 {
		return nil, nil
	}
	return ParseOptionString(strings.Join(options, ","))
}

// helperNumber accepts Go numbers only; text is not parsed inside templates.
func helperNumber(value any) (*float64, error) {
	v := classify(value)
	switch v.kind {
	case valueNull:
		return nil, nil
	case valueNumber:
		return &v.number, nil
	default:
		return nil, &ConversionError{Value: value, Target: targetNumber}
	}
}

// extractCulture reads the culture from template data. It accepts a culture
// string, a map keyed by cultureKey or a struct with a cultureKey field.
func extractCulture(data any, cultureKey string) string {
	if data == nil {
		return ""
	}

	if cultureKey == "" {
		cultureKey = "Culture"
	}

	if str, ok := data.(string); ok {
		return str
	}

	switch d := data.(type) {
	case map[string]any:
		if v, ok := d[cultureKey]; ok {
			if str, ok := v.(string); ok {
				return str
			}
			return fmt.Sprint(v)
		}
		return ""
	case map[string]string:
		return d[cultureKey]
	}

	value := reflect.ValueOf(data)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return ""
		}
		value = value.Elem()
	}

	if value.Kind() == reflect.Struct {
		field := value.FieldByName(cultureKey)
		if field.IsValid() && field.Kind() == reflect.String {
			return field.String()
		}
	}

	return ""
}
