// Package analytics derives every series the dashboard renders from the
// canonical reading set: range filters, rolling bands, MAP, summaries,
// distributions, volatility boxes and the calendar heatmap. All functions are
// pure value-in/value-out; nothing here holds state between calls.
package analytics

import (
	"slices"

	"bpdash/internal/reading"
)

// GroupByDay buckets readings by their canonical day key. Input order is
// preserved within each bucket. The filter, the rolling aggregator and the
// heatmap all group through here so "a day" means the same thing everywhere.
func GroupByDay(records []reading.Reading) map[string][]reading.Reading {
	buckets := make(map[string][]reading.Reading)
	for _, r := range records {
		buckets[r.DayKey] = append(buckets[r.DayKey], r)
	}
	return buckets
}

// DayKeysDescending returns the distinct day keys of a bucket map, newest
// first. Day keys are zero-padded ISO-like strings, so plain string ordering
// is chronological.
func DayKeysDescending(buckets map[string][]reading.Reading) []string {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	slices.Reverse(keys)
	return keys
}

// SortChronological returns a copy of records sorted ascending by instant.
func SortChronological(records []reading.Reading) []reading.Reading {
	out := make([]reading.Reading, len(records))
	copy(out, records)
	slices.SortFunc(out, func(a, b reading.Reading) int {
		return a.Taken.Compare(b.Taken)
	})
	return out
}
