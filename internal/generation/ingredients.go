package generation

import (
	"strings"
)

// DefaultMaxIngredients caps the ingredient list when no limit is configured
const DefaultMaxIngredients = 20

// CleanIngredients trims every entry, drops blanks and duplicates (compared
// case-insensitively, first occurrence wins) and keeps at most max entries.
// Empty input yields an empty list, never an error.
func CleanIngredients(raw []string, max int) []string {
	if max <= 0 {
		max = DefaultMaxIngredients
	}

	cleaned := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, item := range raw {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, item)
		if len(cleaned) == max {
			break
		}
	}
	return cleaned
}
