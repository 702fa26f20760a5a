package usecase

import (
	"sort"
	"strings"
)

// NormalizeIngredients merges the given name lists into one set: surrounding
// whitespace is trimmed, blank names are dropped and duplicates collapse.
// Case is preserved. The result is sorted so equal sets compare equal.
func NormalizeIngredients(lists ...[]string) []string {
	seen := make(map[string]bool)
	names := []string{}
	for _, list := range lists {
		for _, name := range list {
			name = strings.TrimSpace(name)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names
}
