// Package financials orders revenue and margin history for charting and
// derives trend directions from it.
package financials

import (
	"sort"
	"strings"
	"time"

	"stock-dashboard/models"
)

// periodLayouts are tried in order after the first "/" of a label has been
// replaced with "-".
var periodLayouts = []string{"2006-01", "2006-1", "2006-01-02", "2006-1-2"}

// ParsePeriod parses a "YYYY/MM" style label into the first instant of that
// period. ok is false when the label is not a calendar date.
func ParsePeriod(label string) (t time.Time, ok bool) {
	s := strings.Replace(strings.TrimSpace(label), "/", "-", 1)
	for _, layout := range periodLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// ComparePeriods orders two revenue period labels. When both parse as dates
// they are compared by timestamp; otherwise the raw labels are compared
// lexicographically. The choice is made per pair.
func ComparePeriods(a, b string) int {
	ta, okA := ParsePeriod(a)
	tb, okB := ParsePeriod(b)
	if !okA || !okB {
		return strings.Compare(a, b)
	}
	return ta.Compare(tb)
}

// SortRevenue returns a copy of entries ordered oldest to newest.
func SortRevenue(entries []models.RevenueEntry) []models.RevenueEntry {
	sorted := make([]models.RevenueEntry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		return ComparePeriods(sorted[i].Date, sorted[j].Date) < 0
	})
	return sorted
}

// SortMargins returns a copy of entries ordered oldest to newest. Quarter
// labels like "23Q4" sort correctly as plain strings.
func SortMargins(entries []models.MarginEntry) []models.MarginEntry {
	sorted := make([]models.MarginEntry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Quarter < sorted[j].Quarter
	})
	return sorted
}
