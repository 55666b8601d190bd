// Package strings normalizes externally sourced string slices.
package strings

import "strings"

// DedupeAndTrimLower trims and lowercases each value, drops empties, and
// removes duplicates while keeping first-seen order. Client-reported
// identifiers such as device fingerprints arrive with inconsistent casing
// and stray whitespace, and accumulate duplicates across sessions.
func DedupeAndTrimLower(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		normalized := strings.ToLower(strings.TrimSpace(v))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
