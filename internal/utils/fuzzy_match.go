package utils

import (
	"strings"
)

// MatchCategory resolves a free-text label to one of categories.
// Matching is case-insensitive and tolerates a plural "s"; when no category
// name matches, the synonym lists (keyed by category) are consulted.
// Returns the canonical spelling from categories.
func MatchCategory(label string, categories []string, synonyms map[string][]string) (string, bool) {
	labelLower := normalizeLabel(label)
	if labelLower == "" {
		return "", false
	}

	// Exact match
	for _, c := range categories {
		if normalizeLabel(c) == labelLower {
			return c, true
		}
	}

	// Singular/plural match
	for _, c := range categories {
		if singular(normalizeLabel(c)) == singular(labelLower) {
			return c, true
		}
	}

	// Synonym match
	for _, c := range categories {
		for _, syn := range synonyms[c] {
			s := normalizeLabel(syn)
			if s == labelLower || singular(s) == singular(labelLower) {
				return c, true
			}
		}
	}

	return "", false
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func singular(s string) string {
	if len(s) > 3 && strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss") {
		return strings.TrimSuffix(s, "s")
	}
	return s
}
