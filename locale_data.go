package globalization

import (
	"fmt"
	"unicode/utf8"
)

// LocaleData is the pre-validated table bundle for one culture: calendar
// patterns and names, number symbols and currency display data.
// Patterns use CLDR syntax.
type LocaleData struct {
	Locale     string                  `json:"locale" yaml:"locale"`
	Calendar   CalendarData            `json:"calendar" yaml:"calendar"`
	Numbers    NumberData              `json:"numbers" yaml:"numbers"`
	Currencies map[string]CurrencyData `json:"currencies,omitempty" yaml:"currencies,omitempty"`
}

// CalendarData holds gregorian calendar patterns and names.
type CalendarData struct {
	DateFormats     StyleSet   `json:"date_formats" yaml:"date_formats"`
	TimeFormats     StyleSet   `json:"time_formats" yaml:"time_formats"`
	DateTimeFormats StyleSet   `json:"datetime_formats" yaml:"datetime_formats"`
	DefaultDate     string     `json:"default_date" yaml:"default_date"`
	Months          NameSet    `json:"months" yaml:"months"`
	Days            NameSet    `json:"days" yaml:"days"`
	DayPeriods      DayPeriods `json:"day_periods" yaml:"day_periods"`
	GMTFormat       string     `json:"gmt_format" yaml:"gmt_format"`
	GMTZeroFormat   string     `json:"gmt_zero_format" yaml:"gmt_zero_format"`
}

// StyleSet maps the four CLDR presets to a pattern.
type StyleSet struct {
	Short  string `json:"short" yaml:"short"`
	Medium string `json:"medium" yaml:"medium"`
	Long   string `json:"long" yaml:"long"`
	Full   string `json:"full" yaml:"full"`
}

func (s StyleSet) Pattern(style string) string {
	switch style {
	case StyleShort:
		return s.Short
	case StyleMedium:
		return s.Medium
	case StyleLong:
		return s.Long
	case StyleFull:
		return s.Full
	default:
		return ""
	}
}

// NameSet holds wide and abbreviated names. Months start at January, days at Sunday.
type NameSet struct {
	Wide        []string `json:"wide" yaml:"wide"`
	Abbreviated []string `json:"abbreviated" yaml:"abbreviated"`
}

type DayPeriods struct {
	AM string `json:"am" yaml:"am"`
	PM string `json:"pm" yaml:"pm"`
}

// NumberData holds symbols and patterns for the default numbering system.
// Digits lists the ten native digits when they are not ASCII.
type NumberData struct {
	Symbols         NumberSymbols `json:"symbols" yaml:"symbols"`
	Digits          string        `json:"digits,omitempty" yaml:"digits,omitempty"`
	DecimalPattern  string        `json:"decimal_pattern" yaml:"decimal_pattern"`
	PercentPattern  string        `json:"percent_pattern" yaml:"percent_pattern"`
	CurrencyPattern string        `json:"currency_pattern" yaml:"currency_pattern"`
}

type NumberSymbols struct {
	Decimal  string `json:"decimal" yaml:"decimal"`
	Group    string `json:"group" yaml:"group"`
	Percent  string `json:"percent" yaml:"percent"`
	Plus     string `json:"plus" yaml:"plus"`
	Minus    string `json:"minus" yaml:"minus"`
	NaN      string `json:"nan" yaml:"nan"`
	Infinity string `json:"infinity" yaml:"infinity"`
}

type CurrencyData struct {
	Symbol      string `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	DisplayName string `json:"display_name,omitempty" yaml:"display_name,omitempty"`
}

// Validate checks the invariants the engine relies on.
func (d *LocaleData) Validate() error {
	if d == nil {
		return fmt.Errorf("globalization: nil locale data")
	}
	if d.Locale == "" {
		return fmt.Errorf("globalization: locale data without locale identifier")
	}

	cal := d.Calendar
	if len(cal.Months.Wide) != 12 || len(cal.Months.Abbreviated) != 12 {
		return fmt.Errorf("globalization: %s: expected 12 wide and abbreviated month names", d.Locale)
	}
	if len(cal.Days.Wide) != 7 || len(cal.Days.Abbreviated) != 7 {
		return fmt.Errorf("globalization: %s: expected 7 wide and abbreviated day names", d.Locale)
	}
	for _, style := range []string{StyleShort, StyleMedium, StyleLong, StyleFull} {
		if cal.DateFormats.Pattern(style) == "" || cal.TimeFormats.Pattern(style) == "" || cal.DateTimeFormats.Pattern(style) == "" {
			return fmt.Errorf("globalization: %s: missing %s calendar pattern", d.Locale, style)
		}
	}

	syms := d.Numbers.Symbols
	if syms.Decimal == "" || syms.Minus == "" {
		return fmt.Errorf("globalization: %s: decimal and minus symbols are required", d.Locale)
	}
	if syms.Decimal == syms.Group {
		return fmt.Errorf("globalization: %s: decimal and group symbols must differ", d.Locale)
	}
	if d.Numbers.Digits != "" && utf8.RuneCountInString(d.Numbers.Digits) != 10 {
		return fmt.Errorf("globalization: %s: digits must list exactly ten runes", d.Locale)
	}
	if d.Numbers.DecimalPattern == "" {
		return fmt.Errorf("globalization: %s: decimal pattern is required", d.Locale)
	}

	return nil
}

// Clone returns a deep copy so providers never share mutable tables with callers.
func (d *LocaleData) Clone() *LocaleData {
	if d == nil {
		return nil
	}
	out := *d
	out.Calendar.Months = d.Calendar.Months.clone()
	out.Calendar.Days = d.Calendar.Days.clone()
	if d.Currencies != nil {
		out.Currencies = make(map[string]CurrencyData, len(d.Currencies))
		for code, data := range d.Currencies {
			out.Currencies[code] = data
		}
	}
	return &out
}

func (n NameSet) clone() NameSet {
	return NameSet{
		Wide:        append([]string(nil), n.Wide...),
		Abbreviated: append([]string(nil), n.Abbreviated...),
	}
}

// merge overlays the non-empty fields of src onto d.
func (d *LocaleData) merge(src *LocaleData) {
	if src == nil {
		return
	}
	mergeStyleSet(&d.Calendar.DateFormats, src.Calendar.DateFormats)
	mergeStyleSet(&d.Calendar.TimeFormats, src.Calendar.TimeFormats)
	mergeStyleSet(&d.Calendar.DateTimeFormats, src.Calendar.DateTimeFormats)
	mergeString(&d.Calendar.DefaultDate, src.Calendar.DefaultDate)
	if len(src.Calendar.Months.Wide) > 0 {
		d.Calendar.Months.Wide = append([]string(nil), src.Calendar.Months.Wide...)
	}
	if len(src.Calendar.Months.Abbreviated) > 0 {
		d.Calendar.Months.Abbreviated = append([]string(nil), src.Calendar.Months.Abbreviated...)
	}
	if len(src.Calendar.Days.Wide) > 0 {
		d.Calendar.Days.Wide = append([]string(nil), src.Calendar.Days.Wide...)
	}
	if len(src.Calendar.Days.Abbreviated) > 0 {
		d.Calendar.Days.Abbreviated = append([]string(nil), src.Calendar.Days.Abbreviated...)
	}
	mergeString(&d.Calendar.DayPeriods.AM, src.Calendar.DayPeriods.AM)
	mergeString(&d.Calendar.DayPeriods.PM, src.Calendar.DayPeriods.PM)
	mergeString(&d.Calendar.GMTFormat, src.Calendar.GMTFormat)
	mergeString(&d.Calendar.GMTZeroFormat, src.Calendar.GMTZeroFormat)

	syms := &d.Numbers.Symbols
	mergeString(&syms.Decimal, src.Numbers.Symbols.Decimal)
	mergeString(&syms.Group, src.Numbers.Symbols.Group)
	mergeString(&syms.Percent, src.Numbers.Symbols.Percent)
	mergeString(&syms.Plus, src.Numbers.Symbols.Plus)
	mergeString(&syms.Minus, src.Numbers.Symbols.Minus)
	mergeString(&syms.NaN, src.Numbers.Symbols.NaN)
	mergeString(&syms.Infinity, src.Numbers.Symbols.Infinity)
	mergeString(&d.Numbers.Digits, src.Numbers.Digits)
	mergeString(&d.Numbers.DecimalPattern, src.Numbers.DecimalPattern)
	mergeString(&d.Numbers.PercentPattern, src.Numbers.PercentPattern)
	mergeString(&d.Numbers.CurrencyPattern, src.Numbers.CurrencyPattern)

	if len(src.Currencies) > 0 {
		if d.Currencies == nil {
			d.Currencies = make(map[string]CurrencyData, len(src.Currencies))
		}
		for code, data := range src.Currencies {
			d.Currencies[code] = data
		}
	}
}

func mergeStyleSet(dest *StyleSet, src StyleSet) {
	mergeString(&dest.Short, src.Short)
	mergeString(&dest.Medium, src.Medium)
	mergeString(&dest.Long, src.Long)
	mergeString(&dest.Full, src.Full)
}

func mergeString(dest *string, src string) {
	if src != "" {
		*dest = src
	}
}
