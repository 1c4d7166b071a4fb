package analytics

import (
	"math"
	"slices"

	"bpdash/internal/localtime"
	"bpdash/internal/reading"
)

// RollingWindowDays is the trailing window size: the 7 most recent
// data-bearing days, not a fixed 7x24h span.
const RollingWindowDays = 7

// DailyMean is one calendar day collapsed to its mean vitals. Collapsing
// first prevents days with many readings from dominating a rolling average.
type DailyMean struct {
	DayKey       string         `json:"dayKey"`
	Date         localtime.Date `json:"date"`
	Sys          float64        `json:"sys"`
	Dia          float64        `json:"dia"`
	MAP          float64        `json:"map"`
	ReadingCount int            `json:"readingCount"`
}

// RollingPoint carries the trailing-window statistics broadcast to one
// visible reading. Same-day readings share identical window values: the
// rolling statistic is a property of the day.
type RollingPoint struct {
	Taken              localtime.Time `json:"taken"`
	DayKey             string         `json:"dayKey"`
	SysMean            float64        `json:"sysMean"`
	DiaMean            float64        `json:"diaMean"`
	SysSD              float64        `json:"sysSD"`
	DiaSD              float64        `json:"diaSD"`
	WindowDayCount     int            `json:"windowDayCount"`
	WindowReadingCount int            `json:"windowReadingCount"`
}

// MAPPoint is one day of the mean-arterial-pressure series.
type MAPPoint struct {
	DayKey     string         `json:"dayKey"`
	Date       localtime.Date `json:"date"`
	MAP        float64        `json:"map"`
	WindowDays int            `json:"windowDays,omitempty"`
}

// DailyMeans collapses the full record set into one mean point per day,
// sorted ascending by day key.
func DailyMeans(records []reading.Reading) []DailyMean {
	buckets := GroupByDay(records)

	out := make([]DailyMean, 0, len(buckets))
	for key, day := range buckets {
		var sys, dia, mapSum float64
		for _, r := range day {
			sys += r.Sys
			dia += r.Dia
			mapSum += r.MAP
		}
		n := float64(len(day))
		out = append(out, DailyMean{
			DayKey:       key,
			Date:         day[0].Taken.Date(),
			Sys:          sys / n,
			Dia:          dia / n,
			MAP:          mapSum / n,
			ReadingCount: len(day),
		})
	}

	slices.SortFunc(out, func(a, b DailyMean) int {
		if a.DayKey < b.DayKey {
			return -1
		}
		if a.DayKey > b.DayKey {
			return 1
		}
		return 0
	})
	return out
}

// RollingStats computes trailing 7-data-day statistics for every visible
// reading. The daily means are built from the full historical set so the
// window can look back past the start of the visible range; output is
// restricted to visibleRecords. Fewer than 7 days of history shrinks the
// window to whatever exists (minimum 1).
func RollingStats(allRecords, visibleRecords []reading.Reading) []RollingPoint {
	if len(visibleRecords) == 0 {
		return []RollingPoint{}
	}

	daily := DailyMeans(allRecords)
	indexByKey := make(map[string]int, len(daily))
	for i, d := range daily {
		indexByKey[d.DayKey] = i
	}

	visible := SortChronological(visibleRecords)
	out := make([]RollingPoint, 0, len(visible))

	for _, r := range visible {
		idx, ok := indexByKey[r.DayKey]
		if !ok {
			// Visible readings not present in the historical set have no
			// window to anchor; skip rather than fabricate.
			continue
		}

		start := idx - (RollingWindowDays - 1)
		if start < 0 {
			start = 0
		}
		window := daily[start : idx+1]

		sysMean, sysSD := meanAndPopulationSD(window, func(d DailyMean) float64 { return d.Sys })
		diaMean, diaSD := meanAndPopulationSD(window, func(d DailyMean) float64 { return d.Dia })

		readings := 0
		for _, d := range window {
			readings += d.ReadingCount
		}

		out = append(out, RollingPoint{
			Taken:              r.Taken,
			DayKey:             r.DayKey,
			SysMean:            sysMean,
			DiaMean:            diaMean,
			SysSD:              sysSD,
			DiaSD:              diaSD,
			WindowDayCount:     len(window),
			WindowReadingCount: readings,
		})
	}
	return out
}

// DailyMAPSeries returns the per-day mean MAP series for the full set.
func DailyMAPSeries(records []reading.Reading) []MAPPoint {
	daily := DailyMeans(records)
	out := make([]MAPPoint, len(daily))
	for i, d := range daily {
		out[i] = MAPPoint{DayKey: d.DayKey, Date: d.Date, MAP: d.MAP}
	}
	return out
}

// RollingMAP computes the trailing 7-data-day mean over a daily MAP series.
// Volume window, same semantics as RollingStats.
func RollingMAP(daily []MAPPoint) []MAPPoint {
	out := make([]MAPPoint, len(daily))
	for i := range daily {
		start := i - (RollingWindowDays - 1)
		if start < 0 {
			start = 0
		}
		window := daily[start : i+1]

		sum := 0.0
		for _, p := range window {
			sum += p.MAP
		}
		out[i] = MAPPoint{
			DayKey:     daily[i].DayKey,
			Date:       daily[i].Date,
			MAP:        sum / float64(len(window)),
			WindowDays: len(window),
		}
	}
	return out
}

// RestrictToVisible keeps only the MAP points whose day appears in the
// visible reading set.
func RestrictToVisible(series []MAPPoint, visible []reading.Reading) []MAPPoint {
	keys := make(map[string]struct{}, len(visible))
	for _, r := range visible {
		keys[r.DayKey] = struct{}{}
	}
	out := make([]MAPPoint, 0, len(series))
	for _, p := range series {
		if _, ok := keys[p.DayKey]; ok {
			out = append(out, p)
		}
	}
	return out
}

// meanAndPopulationSD computes the unweighted mean and the population
// standard deviation (divide by N) of one vital across a window of daily
// means. A single-point window has SD 0.
func meanAndPopulationSD(window []DailyMean, value func(DailyMean) float64) (float64, float64) {
	if len(window) == 0 {
		return 0, 0
	}

	sum := 0.0
	for _, d := range window {
		sum += value(d)
	}
	mean := sum / float64(len(window))

	if len(window) < 2 {
		return mean, 0
	}

	var sq float64
	for _, d := range window {
		diff := value(d) - mean
		sq += diff * diff
	}
	return mean, math.Sqrt(sq / float64(len(window)))
}
