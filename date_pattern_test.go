package globalization

import (
	"errors"
	"testing"
	"time"
)

func TestCompileDatePattern(t *testing.T) {
	tests := []struct {
		pattern  string
		tokens   int
		hasDate  bool
		literals []string
		wantErr  bool
	}{
		{pattern: "d MMMM y", tokens: 5, hasDate: true, literals: []string{" ", " "}},
		{pattern: "{1} 'at' {0}", tokens: 1, literals: []string{"{1} at {0}"}},
		{pattern: "HH 'o''clock'", tokens: 2, literals: []string{" o'clock"}},
		{pattern: "h:mm a", tokens: 5, literals: []string{":", " "}},
		{pattern: "''yy", tokens: 2, hasDate: true, literals: []string{"'"}},
		{pattern: "d 'unterminated", wantErr: true},
		{pattern: "QQQ y", wantErr: true},
		{pattern: "MMMMM", wantErr: true},
		{pattern: "ddd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			compiled, err := compileDatePattern(tt.pattern)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.pattern)
				}
				return
			}
			if err != nil {
				t.Fatalf("compileDatePattern: %v", err)
			}
			if len(compiled.tokens) != tt.tokens {
				t.Fatalf("tokens = %d, want %d (%+v)", len(compiled.tokens), tt.tokens, compiled.tokens)
			}
			if compiled.hasDate != tt.hasDate {
				t.Fatalf("hasDate = %v, want %v", compiled.hasDate, tt.hasDate)
			}

			var literals []string
			for _, tok := range compiled.tokens {
				if tok.symbol == 0 {
					literals = append(literals, tok.literal)
				}
			}
			if len(literals) != len(tt.literals) {
				t.Fatalf("literals = %q, want %q", literals, tt.literals)
			}
			for i := range literals {
				if literals[i] != tt.literals[i] {
					t.Fatalf("literal[%d] = %q, want %q", i, literals[i], tt.literals[i])
				}
			}
		})
	}
}

func newTestDateCodec(t *testing.T, locale, pattern string) *dateCodec {
	t.Helper()

	compiled, err := compileDatePattern(pattern)
	if err != nil {
		t.Fatalf("compileDatePattern(%q): %v", pattern, err)
	}
	return newDateCodec(locale, compiled, loadTestLocale(t, locale), time.UTC, fixedClock)
}

func TestDateCodecFormat(t *testing.T) {
	plusFiveThirty := time.FixedZone("IST", 5*3600+30*60)
	minusThree := time.FixedZone("BRT", -3*3600)

	tests := []struct {
		locale  string
		pattern string
		value   time.Time
		want    string
	}{
		{locale: "en-GB", pattern: "EEEE, d MMMM y", value: sampleDate, want: "Sunday, 18 February 2018"},
		{locale: "en-GB", pattern: "EEE d MMM yy", value: sampleDate, want: "Sun 18 Feb 18"},
		{locale: "en-GB", pattern: "dd/MM/yyyy", value: time.Date(2018, 9, 3, 0, 0, 0, 0, time.UTC), want: "03/09/2018"},
		{locale: "en-GB", pattern: "d MMM y", value: time.Date(2018, 9, 3, 0, 0, 0, 0, time.UTC), want: "3 Sept 2018"},
		{locale: "en-GB", pattern: "h:mm a", value: sampleDate, want: "7:45 pm"},
		{locale: "en-GB", pattern: "hh:mm a", value: time.Date(2018, 2, 18, 0, 5, 0, 0, time.UTC), want: "12:05 am"},
		{locale: "en-GB", pattern: "HH:mm:ss z", value: sampleDate, want: "19:45:57 GMT"},
		{locale: "en-GB", pattern: "HH:mm z", value: sampleDate.In(plusFiveThirty), want: "01:15 GMT+5:30"},
		{locale: "en-GB", pattern: "HH:mm zzzz", value: sampleDate.In(plusFiveThirty), want: "01:15 GMT+05:30"},
		{locale: "en-GB", pattern: "HH:mm z", value: sampleDate.In(minusThree), want: "16:45 GMT-3"},
		{locale: "en-GB", pattern: "d MMMM y 'at' HH:mm", value: sampleDate, want: "18 February 2018 at 19:45"},
		{locale: "de", pattern: "EEEE, d. MMMM y", value: sampleDate, want: "Sonntag, 18. Februar 2018"},
		{locale: "de", pattern: "dd.MM.yy", value: sampleDate, want: "18.02.18"},
		{locale: "ar-EG", pattern: "d/M/y", value: sampleDate, want: "١٨/٢/٢٠١٨"},
		{locale: "ar-EG", pattern: "h:mm a", value: sampleDate, want: "٧:٤٥ م"},
	}

	for _, tt := range tests {
		t.Run(tt.locale+" "+tt.pattern, func(t *testing.T) {
			codec := newTestDateCodec(t, tt.locale, tt.pattern)
			if got := codec.format(tt.value); got != tt.want {
				t.Fatalf("format = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDateCodecParse(t *testing.T) {
	today := fixedClock()

	tests := []struct {
		locale  string
		pattern string
		input   string
		want    time.Time
	}{
		{locale: "en-GB", pattern: "d MMMM y", input: "18 February 2018", want: time.Date(2018, 2, 18, 0, 0, 0, 0, time.UTC)},
		{locale: "en-GB", pattern: "d MMMM y", input: "18 february 2018", want: time.Date(2018, 2, 18, 0, 0, 0, 0, time.UTC)},
		{locale: "en-GB", pattern: "d MMM y", input: "3 Sept 2018", want: time.Date(2018, 9, 3, 0, 0, 0, 0, time.UTC)},
		{locale: "en-GB", pattern: "d MMM y", input: "3 September 2018", want: time.Date(2018, 9, 3, 0, 0, 0, 0, time.UTC)},
		{locale: "en-GB", pattern: "EEEE, d MMMM y", input: "Sunday, 18 February 2018", want: time.Date(2018, 2, 18, 0, 0, 0, 0, time.UTC)},
		{locale: "en-GB", pattern: "dd/MM/y", input: " 8/2/2018 ", want: time.Date(2018, 2, 8, 0, 0, 0, 0, time.UTC)},
		{locale: "en-GB", pattern: "h:mm a", input: "7:45 PM", want: time.Date(today.Year(), today.Month(), today.Day(), 19, 45, 0, 0, time.UTC)},
		{locale: "en-GB", pattern: "h:mm a", input: "12:10 am", want: time.Date(today.Year(), today.Month(), today.Day(), 0, 10, 0, 0, time.UTC)},
		{locale: "en-GB", pattern: "d MMM y, HH:mm z", input: "18 Feb 2018, 19:45 GMT+1", want: time.Date(2018, 2, 18, 18, 45, 0, 0, time.UTC)},
		{locale: "en-GB", pattern: "d MMM y, HH:mm zzzz", input: "18 Feb 2018, 19:45 GMT-03:30", want: time.Date(2018, 2, 18, 23, 15, 0, 0, time.UTC)},
		{locale: "en-GB", pattern: "d MMM y, HH:mm z", input: "18 Feb 2018, 19:45 GMT", want: time.Date(2018, 2, 18, 19, 45, 0, 0, time.UTC)},
		{locale: "de", pattern: "d.M.y", input: "18.2.2018", want: time.Date(2018, 2, 18, 0, 0, 0, 0, time.UTC)},
		{locale: "de", pattern: "dd.MM.yy", input: "18.02.18", want: time.Date(2018, 2, 18, 0, 0, 0, 0, time.UTC)},
		{locale: "de", pattern: "dd.MM.yy", input: "18.02.60", want: time.Date(1960, 2, 18, 0, 0, 0, 0, time.UTC)},
		{locale: "de", pattern: "d. MMMM y", input: "1. März 2018", want: time.Date(2018, 3, 1, 0, 0, 0, 0, time.UTC)},
		{locale: "ar-EG", pattern: "d\u200f/M\u200f/y", input: "١٨\u200f/٢\u200f/٢٠١٨", want: time.Date(2018, 2, 18, 0, 0, 0, 0, time.UTC)},
		{locale: "ar-EG", pattern: "d\u200f/M\u200f/y", input: "18/2/2018", want: time.Date(2018, 2, 18, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.locale+" "+tt.input, func(t *testing.T) {
			codec := newTestDateCodec(t, tt.locale, tt.pattern)
			got, err := codec.parse(tt.input)
			if err != nil {
				t.Fatalf("parse(%q): %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDateCodecParseErrors(t *testing.T) {
	tests := []struct {
		locale  string
		pattern string
		input   string
	}{
		{locale: "de", pattern: "d.M.y", input: ""},
		{locale: "de", pattern: "d.M.y", input: "   "},
		{locale: "de", pattern: "d.M.y", input: "18/2/2018"},
		{locale: "de", pattern: "d.M.y", input: "31.2.2018"},
		{locale: "de", pattern: "d.M.y", input: "18.13.2018"},
		{locale: "de", pattern: "d.M.y", input: "18.2.2018 extra"},
		{locale: "de", pattern: "dd.MM.yy", input: "18.02.2018"},
		{locale: "en-GB", pattern: "d MMMM y", input: "18 Febtober 2018"},
		{locale: "en-GB", pattern: "HH:mm", input: "24:00"},
		{locale: "en-GB", pattern: "h:mm a", input: "13:00 pm"},
		{locale: "en-GB", pattern: "HH:mm z", input: "10:00 UTC"},
	}

	for _, tt := range tests {
		t.Run(tt.locale+" "+tt.input, func(t *testing.T) {
			codec := newTestDateCodec(t, tt.locale, tt.pattern)
			_, err := codec.parse(tt.input)
			if err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}
			if !errors.Is(err, ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) || parseErr.Culture != tt.locale || parseErr.Kind != KindDate {
				t.Fatalf("unexpected parse error detail: %#v", err)
			}
		})
	}
}

func TestPivotYear(t *testing.T) {
	tests := []struct {
		yy, current, want int
	}{
		{yy: 18, current: 2026, want: 2018},
		{yy: 46, current: 2026, want: 2046},
		{yy: 47, current: 2026, want: 1947},
		{yy: 99, current: 2026, want: 1999},
		{yy: 0, current: 2026, want: 2000},
		{yy: 5, current: 2090, want: 2105},
	}

	for _, tt := range tests {
		if got := pivotYear(tt.yy, tt.current); got != tt.want {
			t.Errorf("pivotYear(%d, %d) = %d, want %d", tt.yy, tt.current, got, tt.want)
		}
	}
}
