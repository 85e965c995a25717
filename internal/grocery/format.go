package grocery

import (
	"fmt"
	"strings"
)

// FormatLines renders an aggregated list as flat text lines for export or
// sharing, one item per line in input order. Pagination for a physical
// medium is the exporter's concern, not ours.
func FormatLines(items []Item) []string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s — %s", item.Name, strings.Join(item.Quantities, " + ")))
	}
	return lines
}
