package analytics

import (
	"fmt"

	"bpdash/internal/reading"
)

// Window names a date-range selection. The windows are volume-based: "last N
// days" means the N most recent calendar days that contain at least one
// reading, so gaps in the record never shrink the result.
type Window string

const (
	WindowLast7  Window = "last7days"
	WindowLast14 Window = "last14days"
	WindowLast30 Window = "last30days"
	WindowAll    Window = "all"
)

// DefaultWindow is the dashboard's initial selection.
const DefaultWindow = WindowLast7

// ParseWindow validates a window name coming from the outside.
func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case WindowLast7, WindowLast14, WindowLast30, WindowAll:
		return Window(s), nil
	case "":
		return DefaultWindow, nil
	default:
		return "", fmt.Errorf("unknown filter window %q", s)
	}
}

// days returns the day budget of a volume window, or 0 for "all".
func (w Window) days() int {
	switch w {
	case WindowLast7:
		return 7
	case WindowLast14:
		return 14
	case WindowLast30:
		return 30
	default:
		return 0
	}
}

// Filter selects the readings belonging to the window's most recent
// data-bearing days, sorted ascending by instant. Fewer available days than
// the budget returns everything; empty input returns empty output.
func Filter(records []reading.Reading, window Window) []reading.Reading {
	if len(records) == 0 {
		return []reading.Reading{}
	}

	if window == WindowAll {
		return SortChronological(records)
	}

	budget := window.days()
	if budget == 0 {
		// Unknown windows are rejected by ParseWindow; an unvalidated value
		// falls back to the full set rather than silently dropping data.
		return SortChronological(records)
	}

	buckets := GroupByDay(records)
	keys := DayKeysDescending(buckets)
	if len(keys) > budget {
		keys = keys[:budget]
	}

	var out []reading.Reading
	for _, k := range keys {
		out = append(out, buckets[k]...)
	}
	return SortChronological(out)
}
