package globalization

// FormatKind names the family of values a formatter/parser pair handles
type FormatKind string

const (
	KindDate     FormatKind = "date"
	KindNumber   FormatKind = "number"
	KindCurrency FormatKind = "currency"
)

// Style presets shared by the date, time and datetime families.
const (
	StyleShort  = "short"
	StyleMedium = "medium"
	StyleLong   = "long"
	StyleFull   = "full"
)

// Number presets.
const (
	NumberDecimal = "decimal"
	NumberInteger = "integer"
	NumberPercent = "percent"
)

// Currency display presets.
const (
	CurrencySymbol = "symbol"
	CurrencyCode   = "code"
	CurrencyName   = "name"
)

func isDateStyle(style string) bool {
	switch style {
	case StyleShort, StyleMedium, StyleLong, StyleFull:
		return true
	default:
		return false
	}
}

func isNumberPreset(preset string) bool {
	switch preset {
	case NumberDecimal, NumberInteger, NumberPercent:
		return true
	default:
		return false
	}
}

func isCurrencyStyle(style string) bool {
	switch style {
	case CurrencySymbol, CurrencyCode, CurrencyName:
		return true
	default:
		return false
	}
}

// Ptr returns a pointer to v. Handy for the nil-aware Service API.
func Ptr[T any](v T) *T {
	return &v
}
