package globalization

import (
	"testing"
	"time"
)

// sampleDate is Sunday 18 February 2018, 19:45:57 UTC.
var sampleDate = time.Date(2018, time.February, 18, 19, 45, 57, 0, time.UTC)

// fixedClock pins "today" to 15 October 2026 noon UTC.
func fixedClock() time.Time {
	return time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
}

func newTestConfig(t *testing.T, opts ...Option) *Config {
	t.Helper()

	base := []Option{
		WithCultures("en-GB", "de", "ar-EG"),
		WithLocation(time.UTC),
	}
	cfg, err := NewConfig(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	return cfg
}

func loadTestLocale(t *testing.T, locale string) *LocaleData {
	t.Helper()

	bundles, err := DefaultLocaleData()
	if err != nil {
		t.Fatalf("DefaultLocaleData: %v", err)
	}
	for _, bundle := range bundles {
		if bundle.Locale == locale {
			return bundle
		}
	}
	t.Fatalf("embedded locale %q not found", locale)
	return nil
}
