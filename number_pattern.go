package globalization

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// numberPattern is a compiled CLDR number pattern such as "#,##0.###" or "¤#,##0.00".
// Affixes keep the '%' and '¤' placeholders until a codec substitutes them.
type numberPattern struct {
	source   string
	prefix   string
	suffix   string
	minInt   int
	minFrac  int
	maxFrac  int
	grouping int
	percent  bool
}

func compileNumberPattern(pattern string) (numberPattern, error) {
	positive, _, _ := strings.Cut(pattern, ";")
	out := numberPattern{source: pattern}

	start := strings.IndexAny(positive, "#0,.")
	if start < 0 {
		return out, fmt.Errorf("globalization: number pattern %q has no digits", pattern)
	}
	end := start
	for end < len(positive) && strings.ContainsRune("#0,.", rune(positive[end])) {
		end++
	}

	out.prefix = positive[:start]
	out.suffix = positive[end:]
	out.percent = strings.Contains(out.prefix, "%") || strings.Contains(out.suffix, "%")

	intPart, fracPart, _ := strings.Cut(positive[start:end], ".")
	if strings.Trim(intPart, ",") == "" {
		return out, fmt.Errorf("globalization: number pattern %q has no integer digits", pattern)
	}
	out.minInt = strings.Count(intPart, "0")
	if idx := strings.LastIndex(intPart, ","); idx >= 0 {
		out.grouping = len(intPart) - idx - 1
	}
	out.minFrac = strings.Count(fracPart, "0")
	out.maxFrac = len(fracPart)
	if strings.ContainsAny(fracPart, ",") {
		return out, fmt.Errorf("globalization: number pattern %q groups fraction digits", pattern)
	}

	return out, nil
}

// withFraction pins the fraction digits, used by the integer preset and
// currencies whose minor unit differs from the pattern.
func (p numberPattern) withFraction(digits int) numberPattern {
	p.minFrac = digits
	p.maxFrac = digits
	return p
}

// withCurrencyStyle rewrites the '¤' affix for the code and name presets.
// Codes get a non-breaking space when they touch the digits; names move after the amount.
func (p numberPattern) withCurrencyStyle(style string) numberPattern {
	switch style {
	case CurrencyCode:
		if strings.HasSuffix(p.prefix, "¤") {
			p.prefix += "\u00a0"
		}
		if strings.HasPrefix(p.suffix, "¤") {
			p.suffix = "\u00a0" + p.suffix
		}
	case CurrencyName:
		p.prefix = strings.TrimRightFunc(strings.ReplaceAll(p.prefix, "¤", ""), unicode.IsSpace)
		p.suffix = strings.TrimRightFunc(strings.ReplaceAll(p.suffix, "¤", ""), unicode.IsSpace) + "\u00a0¤"
	}
	return p
}

// numberCodec formats and parses one compiled pattern with one culture's symbols.
type numberCodec struct {
	culture  string
	kind     FormatKind
	pattern  numberPattern
	symbols  NumberSymbols
	digits   []rune
	currency string
	code     string
}

func newNumberCodec(culture string, kind FormatKind, pattern numberPattern, data *LocaleData) *numberCodec {
	codec := &numberCodec{
		culture: culture,
		kind:    kind,
		pattern: pattern,
		symbols: data.Numbers.Symbols,
	}
	if data.Numbers.Digits != "" {
		codec.digits = []rune(data.Numbers.Digits)
	}
	if codec.symbols.Percent == "" {
		codec.symbols.Percent = "%"
	}
	if codec.symbols.Plus == "" {
		codec.symbols.Plus = "+"
	}
	if codec.symbols.NaN == "" {
		codec.symbols.NaN = "NaN"
	}
	if codec.symbols.Infinity == "" {
		codec.symbols.Infinity = "∞"
	}
	return codec
}

func (c *numberCodec) format(value float64) string {
	if math.IsNaN(value) {
		return c.symbols.NaN
	}

	negative := value < 0
	var body string
	if math.IsInf(value, 0) {
		body = c.symbols.Infinity
	} else {
		if c.pattern.percent {
			value *= 100
		}
		var zero bool
		body, zero = c.formatDigits(math.Abs(value))
		negative = negative && !zero
	}

	var b strings.Builder
	if negative {
		b.WriteString(c.symbols.Minus)
	}
	b.WriteString(c.affix(c.pattern.prefix))
	b.WriteString(body)
	b.WriteString(c.affix(c.pattern.suffix))
	return b.String()
}

// formatDigits renders abs with the pattern's digit rules. zero reports
// whether every rendered digit is zero so callers can drop the sign.
func (c *numberCodec) formatDigits(abs float64) (body string, zero bool) {
	p := c.pattern
	raw := strconv.FormatFloat(roundHalfUp(abs, p.maxFrac), 'f', p.maxFrac, 64)
	intPart, frac, _ := strings.Cut(raw, ".")

	frac = strings.TrimRight(frac, "0")
	if len(frac) < p.minFrac {
		frac += strings.Repeat("0", p.minFrac-len(frac))
	}
	if len(intPart) < p.minInt {
		intPart = strings.Repeat("0", p.minInt-len(intPart)) + intPart
	}
	if intPart == "0" && p.minInt == 0 && frac != "" {
		intPart = ""
	}
	zero = strings.Trim(intPart+frac, "0") == ""

	var b strings.Builder
	if p.grouping > 0 && len(intPart) > p.grouping {
		lead := len(intPart) % p.grouping
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += p.grouping {
			if b.Len() > 0 {
				b.WriteString(c.symbols.Group)
			}
			b.WriteString(intPart[i : i+p.grouping])
		}
	} else {
		b.WriteString(intPart)
	}
	if frac != "" {
		b.WriteString(c.symbols.Decimal)
		b.WriteString(frac)
	}

	return localizeDigits(b.String(), c.digits), zero
}

// roundHalfUp rounds abs to digits fraction digits with ties going away from zero.
func roundHalfUp(abs float64, digits int) float64 {
	scale := math.Pow10(digits)
	scaled := abs * scale
	if math.IsInf(scaled, 0) || scaled >= 1<<53 {
		return abs
	}
	return math.Round(scaled) / scale
}

func (c *numberCodec) affix(raw string) string {
	if raw == "" {
		return ""
	}
	out := strings.ReplaceAll(raw, "%", c.symbols.Percent)
	return strings.ReplaceAll(out, "¤", c.currency)
}

// affixCandidates lists the accepted spellings of an affix when parsing.
// A currency affix accepts the display form and the ISO code.
func (c *numberCodec) affixCandidates(raw string) []string {
	primary := compactNumberText(c.affix(raw))
	out := []string{primary}
	if c.code != "" && strings.Contains(raw, "¤") {
		alt := compactNumberText(strings.ReplaceAll(strings.ReplaceAll(raw, "%", c.symbols.Percent), "¤", c.code))
		if alt != primary {
			out = append(out, alt)
		}
	}
	return out
}

func (c *numberCodec) parse(text string) (float64, error) {
	input := compactNumberText(text)
	if input == "" {
		return 0, c.parseError(text, "empty input")
	}
	if strings.EqualFold(input, compactNumberText(c.symbols.NaN)) {
		return math.NaN(), nil
	}

	negative, signed, rest := c.stripSign(input)
	rest, ok := stripPrefixFold(rest, c.affixCandidates(c.pattern.prefix))
	if !ok {
		return 0, c.parseError(text, fmt.Sprintf("missing prefix for pattern %q", c.pattern.source))
	}
	if !signed {
		negative, _, rest = c.stripSign(rest)
	}
	rest, ok = stripSuffixFold(rest, c.affixCandidates(c.pattern.suffix))
	if !ok {
		return 0, c.parseError(text, fmt.Sprintf("missing suffix for pattern %q", c.pattern.source))
	}

	var value float64
	if rest == compactNumberText(c.symbols.Infinity) {
		value = math.Inf(1)
	} else {
		digits, err := c.asciiNumber(rest)
		if err != nil {
			return 0, c.parseError(text, err.Error())
		}
		value, err = strconv.ParseFloat(digits, 64)
		if err != nil {
			return 0, c.parseError(text, "not a number")
		}
		if c.pattern.percent {
			value /= 100
		}
	}

	if negative {
		value = -value
	}
	return value, nil
}

// stripSign removes one leading sign. signed reports whether one was found.
func (c *numberCodec) stripSign(s string) (negative, signed bool, rest string) {
	for _, minus := range []string{compactNumberText(c.symbols.Minus), "-", "−"} {
		if minus != "" && strings.HasPrefix(s, minus) {
			return true, true, s[len(minus):]
		}
	}
	for _, plus := range []string{compactNumberText(c.symbols.Plus), "+"} {
		if plus != "" && strings.HasPrefix(s, plus) {
			return false, true, s[len(plus):]
		}
	}
	return false, false, s
}

// asciiNumber maps localized digits and symbols to a strconv-ready string.
// Group separators are only accepted in the integer part at the pattern's interval.
func (c *numberCodec) asciiNumber(s string) (string, error) {
	intPart, frac, hasFrac := s, "", false
	if decimal := compactNumberText(c.symbols.Decimal); decimal != "" {
		intPart, frac, hasFrac = strings.Cut(s, decimal)
	}

	if group := compactNumberText(c.symbols.Group); group != "" && strings.Contains(intPart, group) {
		var err error
		if intPart, err = c.ungroup(intPart, group); err != nil {
			return "", err
		}
	}

	var b strings.Builder
	if err := c.appendDigits(&b, intPart); err != nil {
		return "", err
	}
	if hasFrac {
		b.WriteByte('.')
		if err := c.appendDigits(&b, frac); err != nil {
			return "", err
		}
	}
	if len(strings.Trim(b.String(), ".")) == 0 {
		return "", fmt.Errorf("no digits")
	}
	return b.String(), nil
}

func (c *numberCodec) ungroup(s, group string) (string, error) {
	size := c.pattern.grouping
	if size == 0 {
		return "", fmt.Errorf("unexpected group separator")
	}
	chunks := strings.Split(s, group)
	for i, chunk := range chunks {
		n := utf8.RuneCountInString(chunk)
		if (i == 0 && (n == 0 || n > size)) || (i > 0 && n != size) {
			return "", fmt.Errorf("misplaced group separator")
		}
	}
	return strings.Join(chunks, ""), nil
}

func (c *numberCodec) appendDigits(b *strings.Builder, s string) error {
	for _, r := range s {
		d, ok := digitValue(r, c.digits)
		if !ok {
			return fmt.Errorf("unexpected character %q", r)
		}
		b.WriteByte(byte('0' + d))
	}
	return nil
}

func (c *numberCodec) parseError(input, reason string) error {
	return &ParseError{Kind: c.kind, Culture: c.culture, Input: input, Reason: reason}
}

// compactNumberText drops bidi marks and every kind of whitespace.
func compactNumberText(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, normalizeInput(s))
}

func stripPrefixFold(s string, candidates []string) (string, bool) {
	for _, candidate := range candidates {
		if end, ok := matchFold(s, 0, candidate); ok {
			return s[end:], true
		}
	}
	return s, false
}

func stripSuffixFold(s string, candidates []string) (string, bool) {
	for _, candidate := range candidates {
		if candidate == "" {
			return s, true
		}
		if len(candidate) <= len(s) && strings.EqualFold(s[len(s)-len(candidate):], candidate) {
			return s[:len(s)-len(candidate)], true
		}
	}
	return s, false
}

// currencyDisplay resolves what replaces '¤' for code under style.
// Bundle data wins, then CLDR symbols from x/text, then the code itself.
func currencyDisplay(data *LocaleData, code, style string) string {
	entry := data.Currencies[code]
	switch style {
	case CurrencyCode:
		return code
	case CurrencyName:
		if entry.DisplayName != "" {
			return entry.DisplayName
		}
		return code
	default:
		if entry.Symbol != "" {
			return entry.Symbol
		}
		if symbol := currencySymbol(data.Locale, code); symbol != "" {
			return symbol
		}
		return code
	}
}

func currencySymbol(locale, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return ""
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return strings.TrimSpace(message.NewPrinter(tag).Sprint(currency.Symbol(unit)))
}

// currencyFractionDigits returns the ISO 4217 minor unit for code.
func currencyFractionDigits(code string) (int, bool) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 0, false
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale, true
}
