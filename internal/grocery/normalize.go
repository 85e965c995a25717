package grocery

import "strings"

// NormalizeName canonicalizes an ingredient name for merging: case-folded
// and trimmed, nothing more. Two ingredients merge only when their
// normalized forms are byte-identical; there is no stemming or fuzzy
// matching. A whitespace-only name normalizes to the empty string, which
// is still a valid (if degenerate) merge key.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
