package globalization

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// dateToken is either a pattern field (symbol != 0) or a literal run.
type dateToken struct {
	symbol  rune
	count   int
	literal string
}

// datePattern is a compiled CLDR date pattern such as "d MMMM y" or "HH:mm:ss z".
type datePattern struct {
	source  string
	tokens  []dateToken
	hasDate bool
}

// maximum repeat count accepted per field symbol
var dateFieldLimits = map[rune]int{
	'y': 4,
	'M': 4,
	'L': 4,
	'd': 2,
	'E': 4,
	'a': 1,
	'h': 2,
	'H': 2,
	'm': 2,
	's': 2,
	'z': 4,
}

func compileDatePattern(pattern string) (*datePattern, error) {
	runes := []rune(pattern)
	compiled := &datePattern{source: pattern}

	var literal strings.Builder
	flush := func() {
		if literal.Len() == 0 {
			return
		}
		compiled.tokens = append(compiled.tokens, dateToken{literal: literal.String()})
		literal.Reset()
	}

	for i := 0; i < len(runes); {
		r := runes[i]

		switch {
		case r == '\'':
			if i+1 < len(runes) && runes[i+1] == '\'' {
				literal.WriteRune('\'')
				i += 2
				continue
			}
			closed := false
			for i++; i < len(runes); i++ {
				if runes[i] != '\'' {
					literal.WriteRune(runes[i])
					continue
				}
				if i+1 < len(runes) && runes[i+1] == '\'' {
					literal.WriteRune('\'')
					i++
					continue
				}
				closed = true
				i++
				break
			}
			if !closed {
				return nil, fmt.Errorf("globalization: unterminated quote in date pattern %q", pattern)
			}

		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			count := 1
			for i+count < len(runes) && runes[i+count] == r {
				count++
			}
			limit, ok := dateFieldLimits[r]
			if !ok || count > limit {
				return nil, fmt.Errorf("globalization: unsupported field %q in date pattern %q", strings.Repeat(string(r), count), pattern)
			}
			flush()
			compiled.tokens = append(compiled.tokens, dateToken{symbol: r, count: count})
			if r == 'y' || r == 'M' || r == 'L' || r == 'd' {
				compiled.hasDate = true
			}
			i += count

		default:
			literal.WriteRune(r)
			i++
		}
	}
	flush()

	return compiled, nil
}

// dateCodec formats and parses one compiled pattern against one culture's tables.
type dateCodec struct {
	culture  string
	pattern  *datePattern
	calendar CalendarData
	digits   []rune
	location *time.Location
	now      func() time.Time
}

func newDateCodec(culture string, pattern *datePattern, data *LocaleData, location *time.Location, now func() time.Time) *dateCodec {
	codec := &dateCodec{
		culture:  culture,
		pattern:  pattern,
		calendar: data.Calendar,
		location: location,
		now:      now,
	}
	if data.Numbers.Digits != "" {
		codec.digits = []rune(data.Numbers.Digits)
	}
	return codec
}

func (c *dateCodec) format(t time.Time) string {
	var b strings.Builder
	cal := c.calendar

	for _, tok := range c.pattern.tokens {
		switch tok.symbol {
		case 0:
			b.WriteString(tok.literal)
		case 'y':
			if tok.count == 2 {
				c.writeNumber(&b, t.Year()%100, 2)
			} else {
				c.writeNumber(&b, t.Year(), tok.count)
			}
		case 'M', 'L':
			month := int(t.Month())
			switch tok.count {
			case 3:
				b.WriteString(cal.Months.Abbreviated[month-1])
			case 4:
				b.WriteString(cal.Months.Wide[month-1])
			default:
				c.writeNumber(&b, month, tok.count)
			}
		case 'd':
			c.writeNumber(&b, t.Day(), tok.count)
		case 'E':
			if tok.count == 4 {
				b.WriteString(cal.Days.Wide[t.Weekday()])
			} else {
				b.WriteString(cal.Days.Abbreviated[t.Weekday()])
			}
		case 'a':
			if t.Hour() < 12 {
				b.WriteString(cal.DayPeriods.AM)
			} else {
				b.WriteString(cal.DayPeriods.PM)
			}
		case 'h':
			hour := t.Hour() % 12
			if hour == 0 {
				hour = 12
			}
			c.writeNumber(&b, hour, tok.count)
		case 'H':
			c.writeNumber(&b, t.Hour(), tok.count)
		case 'm':
			c.writeNumber(&b, t.Minute(), tok.count)
		case 's':
			c.writeNumber(&b, t.Second(), tok.count)
		case 'z':
			c.writeZone(&b, t, tok.count == 4)
		}
	}

	return b.String()
}

func (c *dateCodec) writeNumber(b *strings.Builder, value, minDigits int) {
	s := strconv.Itoa(value)
	if pad := minDigits - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	b.WriteString(localizeDigits(s, c.digits))
}

func (c *dateCodec) writeZone(b *strings.Builder, t time.Time, long bool) {
	_, offset := t.Zone()
	if offset == 0 {
		b.WriteString(c.gmtZero())
		return
	}

	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	hours := offset / 3600
	minutes := (offset % 3600) / 60

	var value string
	switch {
	case long:
		value = fmt.Sprintf("%s%02d:%02d", sign, hours, minutes)
	case minutes != 0:
		value = fmt.Sprintf("%s%d:%02d", sign, hours, minutes)
	default:
		value = fmt.Sprintf("%s%d", sign, hours)
	}
	b.WriteString(strings.Replace(c.gmtFormat(), "{0}", localizeDigits(value, c.digits), 1))
}

func (c *dateCodec) gmtFormat() string {
	if c.calendar.GMTFormat == "" {
		return "GMT{0}"
	}
	return c.calendar.GMTFormat
}

func (c *dateCodec) gmtZero() string {
	if c.calendar.GMTZeroFormat == "" {
		return "GMT"
	}
	return c.calendar.GMTZeroFormat
}

// parsedDate collects the fields read from input.
type parsedDate struct {
	year, month, day     int
	hour, minute, second int
	hasPeriod, pm        bool
	twelveHour           bool
	offset               *int
}

func (c *dateCodec) parse(text string) (time.Time, error) {
	input := strings.TrimSpace(normalizeInput(text))
	if input == "" {
		return time.Time{}, c.parseError(text, "empty input")
	}

	now := c.now().In(c.location)
	fields := parsedDate{year: now.Year(), month: int(now.Month()), day: now.Day()}
	if c.pattern.hasDate {
		fields.year, fields.month, fields.day = 0, 1, 1
	}

	pos := 0
	for _, tok := range c.pattern.tokens {
		var ok bool
		switch tok.symbol {
		case 0:
			pos, ok = matchLiteral(input, pos, normalizeInput(tok.literal))
		case 'y':
			if tok.count == 2 {
				var yy, n int
				yy, n, pos = c.readDigits(input, pos, 2)
				ok = n == 2
				fields.year = pivotYear(yy, now.Year())
			} else {
				var n int
				fields.year, n, pos = c.readDigits(input, pos, 4)
				ok = n > 0
			}
		case 'M', 'L':
			if tok.count >= 3 {
				var idx int
				idx, pos, ok = matchNames(input, pos, c.calendar.Months.Wide, c.calendar.Months.Abbreviated)
				fields.month = idx + 1
			} else {
				var n int
				fields.month, n, pos = c.readDigits(input, pos, 2)
				ok = n > 0
			}
		case 'd':
			var n int
			fields.day, n, pos = c.readDigits(input, pos, 2)
			ok = n > 0
		case 'E':
			_, pos, ok = matchNames(input, pos, c.calendar.Days.Wide, c.calendar.Days.Abbreviated)
		case 'a':
			var idx int
			periods := []string{c.calendar.DayPeriods.AM, c.calendar.DayPeriods.PM}
			idx, pos, ok = matchNames(input, pos, periods)
			fields.hasPeriod = ok
			fields.pm = idx == 1
		case 'h', 'H':
			var n int
			fields.hour, n, pos = c.readDigits(input, pos, 2)
			ok = n > 0
			fields.twelveHour = tok.symbol == 'h'
		case 'm':
			var n int
			fields.minute, n, pos = c.readDigits(input, pos, 2)
			ok = n > 0
		case 's':
			var n int
			fields.second, n, pos = c.readDigits(input, pos, 2)
			ok = n > 0
		case 'z':
			var offset int
			offset, pos, ok = c.readZone(input, pos)
			fields.offset = &offset
		}

		if !ok {
			return time.Time{}, c.parseError(text, fmt.Sprintf("does not match pattern %q", c.pattern.source))
		}
	}

	if pos != len(input) {
		return time.Time{}, c.parseError(text, fmt.Sprintf("unexpected trailing text %q", input[pos:]))
	}

	return c.compose(text, fields)
}

func (c *dateCodec) compose(text string, f parsedDate) (time.Time, error) {
	if f.twelveHour {
		if f.hour < 1 || f.hour > 12 {
			return time.Time{}, c.parseError(text, "hour out of range")
		}
		if f.hasPeriod && f.pm && f.hour < 12 {
			f.hour += 12
		} else if f.hasPeriod && !f.pm && f.hour == 12 {
			f.hour = 0
		}
	}

	switch {
	case f.month < 1 || f.month > 12:
		return time.Time{}, c.parseError(text, "month out of range")
	case f.day < 1 || f.day > 31:
		return time.Time{}, c.parseError(text, "day out of range")
	case f.hour > 23 || f.minute > 59 || f.second > 59:
		return time.Time{}, c.parseError(text, "time out of range")
	}

	loc := c.location
	if f.offset != nil {
		loc = time.FixedZone("", *f.offset)
	}

	t := time.Date(f.year, time.Month(f.month), f.day, f.hour, f.minute, f.second, 0, loc)
	if t.Day() != f.day || int(t.Month()) != f.month {
		return time.Time{}, c.parseError(text, "day out of range for month")
	}

	return t.In(c.location), nil
}

// readDigits reads up to maxDigits ASCII or native digits starting at pos.
func (c *dateCodec) readDigits(input string, pos, maxDigits int) (value, count, next int) {
	next = pos
	for count < maxDigits && next < len(input) {
		r, size := utf8.DecodeRuneInString(input[next:])
		digit, ok := digitValue(r, c.digits)
		if !ok {
			break
		}
		value = value*10 + digit
		count++
		next += size
	}
	return value, count, next
}

func (c *dateCodec) readZone(input string, pos int) (offset, next int, ok bool) {
	format := normalizeInput(c.gmtFormat())
	prefix, suffix, _ := strings.Cut(format, "{0}")

	if next, ok = matchFold(input, pos, prefix); ok && next < len(input) {
		sign := 0
		switch input[next] {
		case '+':
			sign = 1
		case '-':
			sign = -1
		}
		if sign != 0 {
			hours, n, after := c.readDigits(input, next+1, 2)
			if n > 0 {
				minutes := 0
				if after < len(input) && input[after] == ':' {
					var m int
					minutes, m, after = c.readDigits(input, after+1, 2)
					if m != 2 {
						return 0, pos, false
					}
				}
				if end, ok := matchFold(input, after, suffix); ok {
					return sign * (hours*3600 + minutes*60), end, true
				}
			}
		}
	}

	if end, ok := matchFold(input, pos, normalizeInput(c.gmtZero())); ok {
		return 0, end, true
	}
	return 0, pos, false
}

func (c *dateCodec) parseError(input, reason string) error {
	return &ParseError{Kind: KindDate, Culture: c.culture, Input: input, Reason: reason}
}

// pivotYear resolves a two digit year to the century window 80 years back, 20 ahead.
func pivotYear(yy, currentYear int) int {
	year := currentYear/100*100 + yy
	switch {
	case year > currentYear+20:
		year -= 100
	case year <= currentYear-80:
		year += 100
	}
	return year
}

// matchLiteral consumes lit at pos; whitespace in lit matches any run of whitespace.
func matchLiteral(input string, pos int, lit string) (int, bool) {
	for _, r := range lit {
		if unicode.IsSpace(r) {
			for pos < len(input) {
				next, size := utf8.DecodeRuneInString(input[pos:])
				if !unicode.IsSpace(next) {
					break
				}
				pos += size
			}
			continue
		}
		if pos >= len(input) {
			return pos, false
		}
		next, size := utf8.DecodeRuneInString(input[pos:])
		if next != r && !strings.EqualFold(string(next), string(r)) {
			return pos, false
		}
		pos += size
	}
	return pos, true
}

func matchFold(input string, pos int, value string) (int, bool) {
	if value == "" {
		return pos, true
	}
	end := pos + len(value)
	if end > len(input) || !strings.EqualFold(input[pos:end], value) {
		return pos, false
	}
	return end, true
}

// matchNames finds the longest name in lists matching input at pos.
// The returned index is the position within its list.
func matchNames(input string, pos int, lists ...[]string) (index, next int, ok bool) {
	best := -1
	next = pos
	for _, names := range lists {
		for i, name := range names {
			name = normalizeInput(name)
			if name == "" || len(name) <= best {
				continue
			}
			if end, matched := matchFold(input, pos, name); matched {
				best = len(name)
				index = i
				next = end
			}
		}
	}
	return index, next, best >= 0
}

// normalizeInput drops bidi marks and maps non-breaking spaces to plain spaces.
func normalizeInput(s string) string {
	return inputNormalizer.Replace(s)
}

var inputNormalizer = strings.NewReplacer(
	"\u200e", "",
	"\u200f", "",
	"\u061c", "",
	"\u00a0", " ",
	"\u202f", " ",
)

func localizeDigits(s string, digits []rune) string {
	if len(digits) != 10 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(digits[r-'0'])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func digitValue(r rune, digits []rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	for i, d := range digits {
		if d == r {
			return i, true
		}
	}
	return 0, false
}
