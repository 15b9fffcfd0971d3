// Package collection implements the client-side windowing, searching and
// sorting used by the cart view and the admin tables. Everything here is
// pure: inputs are never mutated and no call depends on outside state.
package collection

import "strings"

// Search keeps the items whose configured fields contain the term,
// case-insensitively. An empty or whitespace-only term returns the input
// collection unchanged.
func Search[T any](items []T, term string, fields ...func(T) string) []T {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" || len(fields) == 0 {
		return items
	}

	matched := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field(item)), needle) {
				matched = append(matched, item)
				break
			}
		}
	}
	return matched
}

// FilterBySet keeps the items whose key is a member of the allowed set. An
// empty selection means no filter is applied, not an empty result.
func FilterBySet[T any](items []T, key func(T) string, allowed []string) []T {
	if len(allowed) == 0 {
		return items
	}

	set := make(map[string]struct{}, len(allowed))
	for _, value := range allowed {
		set[value] = struct{}{}
	}

	matched := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := set[key(item)]; ok {
			matched = append(matched, item)
		}
	}
	return matched
}
