package globalization

import (
	"strings"

	"golang.org/x/text/language"
)

func localeParentTag(locale string) string {
	if locale == "" {
		return ""
	}

	tag, err := language.Parse(locale)
	if err == nil {
		parent := tag.Parent()
		if parent == language.Und {
			return ""
		}
		value := parent.String()
		if value == "" || value == "und" {
			return ""
		}
		return value
	}

	if idx := strings.LastIndex(locale, "-"); idx > 0 {
		return locale[:idx]
	}

	return ""
}

// localeParentChain returns the parents of locale from closest to root,
// e.g. "de-AT" -> ["de"], "en-GB" -> ["en-001", "en"].
func localeParentChain(locale string) []string {
	if locale == "" {
		return nil
	}

	var chain []string
	seen := make(map[string]struct{}, 4)

	for current := localeParentTag(locale); current != ""; current = localeParentTag(current) {
		if _, exists := seen[current]; exists {
			break
		}
		seen[current] = struct{}{}
		chain = append(chain, current)
	}

	return chain
}

// normalizeLocale replaces underscores with hyphens and trims whitespace.
func normalizeLocale(locale string) string {
	return strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
}

// canonicalLocale normalizes locale and, when it parses as a BCP 47 tag,
// returns the canonical casing ("en-gb" -> "en-GB").
func canonicalLocale(locale string) string {
	normalized := normalizeLocale(locale)
	if normalized == "" {
		return ""
	}
	tag, err := language.Parse(normalized)
	if err != nil {
		return normalized
	}
	return tag.String()
}

// normalizeCultures canonicalizes and de-duplicates cultures, keeping the
// caller's order since the first entry is the default culture.
func normalizeCultures(cultures []string) []string {
	if len(cultures) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(cultures))
	result := make([]string, 0, len(cultures))
	for _, culture := range cultures {
		canonical := canonicalLocale(culture)
		if canonical == "" {
			continue
		}
		if _, exists := seen[canonical]; exists {
			continue
		}
		seen[canonical] = struct{}{}
		result = append(result, canonical)
	}
	return result
}
