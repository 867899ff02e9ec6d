package globalization

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocaleParentChain(t *testing.T) {
	tests := []struct {
		locale string
		want   []string
	}{
		{locale: "de-AT", want: []string{"de"}},
		{locale: "en-GB", want: []string{"en-001", "en"}},
		{locale: "de", want: nil},
		{locale: "", want: nil},
	}

	for _, tt := range tests {
		got := localeParentChain(tt.locale)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Fatalf("localeParentChain(%q) = %v, want %v", tt.locale, got, tt.want)
		}
	}
}

func TestCanonicalLocale(t *testing.T) {
	tests := map[string]string{
		"en_gb":   "en-GB",
		" de-at ": "de-AT",
		"AR-eg":   "ar-EG",
		"":        "",
	}
	for input, want := range tests {
		if got := canonicalLocale(input); got != want {
			t.Fatalf("canonicalLocale(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestDefaultLocaleDataValidates(t *testing.T) {
	bundles, err := DefaultLocaleData()
	if err != nil {
		t.Fatalf("DefaultLocaleData: %v", err)
	}

	var locales []string
	for _, bundle := range bundles {
		if err := bundle.Validate(); err != nil {
			t.Fatalf("embedded %s: %v", bundle.Locale, err)
		}
		locales = append(locales, bundle.Locale)
	}
	if got := strings.Join(locales, ","); got != "ar-EG,de,en-GB" {
		t.Fatalf("embedded locales = %s", got)
	}
}

func TestLocaleDataValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *LocaleData)
	}{
		{name: "no locale", mutate: func(d *LocaleData) { d.Locale = "" }},
		{name: "short months", mutate: func(d *LocaleData) { d.Calendar.Months.Wide = d.Calendar.Months.Wide[:11] }},
		{name: "short days", mutate: func(d *LocaleData) { d.Calendar.Days.Abbreviated = nil }},
		{name: "missing pattern", mutate: func(d *LocaleData) { d.Calendar.TimeFormats.Full = "" }},
		{name: "same separators", mutate: func(d *LocaleData) { d.Numbers.Symbols.Group = d.Numbers.Symbols.Decimal }},
		{name: "no minus", mutate: func(d *LocaleData) { d.Numbers.Symbols.Minus = "" }},
		{name: "bad digits", mutate: func(d *LocaleData) { d.Numbers.Digits = "0123" }},
		{name: "no decimal pattern", mutate: func(d *LocaleData) { d.Numbers.DecimalPattern = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := loadTestLocale(t, "en-GB").Clone()
			tt.mutate(data)
			if err := data.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	var nilData *LocaleData
	if err := nilData.Validate(); err == nil {
		t.Fatal("expected error for nil locale data")
	}
}

func TestStaticLocaleProvider(t *testing.T) {
	de := loadTestLocale(t, "de")
	provider, err := NewStaticLocaleProvider(de, nil)
	if err != nil {
		t.Fatalf("NewStaticLocaleProvider: %v", err)
	}

	for _, id := range []string{"de", "DE", "de-AT", "de_CH"} {
		if !provider.HasLocale(id) {
			t.Fatalf("HasLocale(%q) = false", id)
		}
	}
	if provider.HasLocale("fr") || provider.HasLocale("") {
		t.Fatal("unexpected locale available")
	}

	data, err := provider.Locale("de-AT")
	if err != nil {
		t.Fatalf("Locale(de-AT): %v", err)
	}
	if data.Locale != "de" {
		t.Fatalf("de-AT resolved to %q", data.Locale)
	}

	de.Calendar.Months.Wide[0] = "Jänner"
	if data.Calendar.Months.Wide[0] != "Januar" {
		t.Fatal("provider shares month tables with the caller")
	}

	_, err = provider.Locale("fr-CA")
	var notLoaded *LocaleNotLoadedError
	if !errors.As(err, &notLoaded) || notLoaded.Culture != "fr-CA" {
		t.Fatalf("expected LocaleNotLoadedError for fr-CA, got %v", err)
	}

	austrian := loadTestLocale(t, "de").Clone()
	austrian.Calendar.Months.Wide[0] = "Jänner"
	if err := provider.LoadLocale("de_AT", austrian); err != nil {
		t.Fatalf("LoadLocale: %v", err)
	}
	data, err = provider.Locale("de-AT")
	if err != nil {
		t.Fatalf("Locale(de-AT): %v", err)
	}
	if data.Locale != "de-AT" || data.Calendar.Months.Wide[0] != "Jänner" {
		t.Fatalf("de-AT bundle not preferred over parent: %s %s", data.Locale, data.Calendar.Months.Wide[0])
	}

	if got := strings.Join(provider.Locales(), ","); got != "de,de-AT" {
		t.Fatalf("Locales = %s", got)
	}

	broken := loadTestLocale(t, "de").Clone()
	broken.Numbers.Symbols.Decimal = ""
	if err := provider.LoadLocale("de-CH", broken); err == nil {
		t.Fatal("expected validation error from LoadLocale")
	}
	if provider.HasLocale("de-CH") && mustLocale(t, provider, "de-CH").Locale == "de-CH" {
		t.Fatal("invalid bundle was stored")
	}

	handed := mustLocale(t, provider, "de")
	handed.Calendar.Months.Wide[1] = "Feber"
	handed.Currencies["EUR"] = CurrencyData{Symbol: "EUR"}
	again := mustLocale(t, provider, "de")
	if again.Calendar.Months.Wide[1] != "Februar" || again.Currencies["EUR"].Symbol != "€" {
		t.Fatal("Locale hands out the provider's own tables")
	}
}

func TestLocaleDataLoader(t *testing.T) {
	dir := t.TempDir()

	australian := loadTestLocale(t, "en-GB").Clone()
	australian.Locale = "en-AU"
	australian.Calendar.DefaultDate = "d/M/yy"
	payload, err := json.Marshal(australian)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	jsonPath := filepath.Join(dir, "en-AU.json")
	writeTestFile(t, jsonPath, string(payload))

	overridePath := filepath.Join(dir, "de-override.yml")
	writeTestFile(t, overridePath, `
numbers:
  symbols:
    group: "'"
currencies:
  CHF: {symbol: Fr., display_name: Franken}
`)

	loader := NewLocaleDataLoader(jsonPath)
	loader.AddOverride("DE", overridePath)
	bundles, err := loader.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	byLocale := make(map[string]*LocaleData, len(bundles))
	for _, bundle := range bundles {
		byLocale[bundle.Locale] = bundle
	}
	if len(byLocale) != 4 {
		t.Fatalf("loaded %d bundles, want 4", len(byLocale))
	}
	if byLocale["en-AU"].Calendar.DefaultDate != "d/M/yy" {
		t.Fatalf("en-AU default date = %q", byLocale["en-AU"].Calendar.DefaultDate)
	}

	de := byLocale["de"]
	if de.Numbers.Symbols.Group != "'" || de.Numbers.Symbols.Decimal != "," {
		t.Fatalf("override not merged: %+v", de.Numbers.Symbols)
	}
	if de.Currencies["CHF"].Symbol != "Fr." || de.Currencies["EUR"].Symbol != "€" {
		t.Fatalf("currency override not merged: %+v", de.Currencies)
	}
	if len(de.Calendar.Months.Wide) != 12 {
		t.Fatal("override wiped month names")
	}
}

func TestLocaleDataLoaderWithoutDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fr.yaml")
	writeTestFile(t, path, "numbers:\n  decimal_pattern: \"#,##0.###\"\n")

	bundles, err := NewLocaleDataLoader(path).WithoutDefaults().Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(bundles) != 1 || bundles[0].Locale != "fr" {
		t.Fatalf("bundles = %+v", bundles)
	}
}

func TestLocaleDataLoaderErrors(t *testing.T) {
	dir := t.TempDir()

	textPath := filepath.Join(dir, "de.txt")
	writeTestFile(t, textPath, "locale: de")
	if _, err := NewLocaleDataLoader(textPath).Load(); err == nil || !strings.Contains(err.Error(), "unsupported extension") {
		t.Fatalf("expected unsupported extension error, got %v", err)
	}

	if _, err := NewLocaleDataLoader(filepath.Join(dir, "missing.yaml")).Load(); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}

	badYAML := filepath.Join(dir, "bad.yaml")
	writeTestFile(t, badYAML, "calendar: [unclosed")
	if _, err := NewLocaleDataLoader(badYAML).Load(); err == nil {
		t.Fatal("expected YAML error")
	}

	loader := NewLocaleDataLoader()
	loader.AddOverride("de", filepath.Join(dir, "nope.yaml"))
	if _, err := loader.Load(); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected missing override error, got %v", err)
	}
}

func mustLocale(t *testing.T, provider LocaleDataProvider, id string) *LocaleData {
	t.Helper()
	data, err := provider.Locale(id)
	if err != nil {
		t.Fatalf("Locale(%q): %v", id, err)
	}
	return data
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
