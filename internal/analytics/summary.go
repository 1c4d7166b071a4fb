package analytics

import (
	"math"
	"slices"

	"bpdash/internal/localtime"
	"bpdash/internal/reading"
)

// Clinical alert thresholds for the summary cards. A metric warns when its
// high touches the upper limit, its low touches the lower limit, or its
// average leaves the band entirely.
var summaryLimits = map[string]struct{ high, low float64 }{
	"sys": {high: 140, low: 90},
	"dia": {high: 90, low: 60},
	"bpm": {high: 100, low: 60},
	"pp":  {high: 60, low: 30},
}

// MetricSummary is the high/low/average card for a single vital.
type MetricSummary struct {
	Metric      string  `json:"metric"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Avg         float64 `json:"avg"`
	HighWarning bool    `json:"highWarning"`
	LowWarning  bool    `json:"lowWarning"`
	AvgWarning  bool    `json:"avgWarning"`
}

// Warning reports whether any of the card's values triggered a threshold.
func (m MetricSummary) Warning() bool {
	return m.HighWarning || m.LowWarning || m.AvgWarning
}

// Summary aggregates the filtered range for the summary cards.
type Summary struct {
	Sys           MetricSummary `json:"sys"`
	Dia           MetricSummary `json:"dia"`
	BPM           MetricSummary `json:"bpm"`
	PulsePressure MetricSummary `json:"pulsePressure"`
	ReadingCount  int           `json:"readingCount"`
}

// Summarize computes the high/low/average cards over the filtered range.
// An empty range yields a zero Summary; the consumer renders the empty state.
func Summarize(records []reading.Reading) Summary {
	s := Summary{ReadingCount: len(records)}
	if len(records) == 0 {
		return s
	}

	s.Sys = summarizeMetric("sys", records, func(r reading.Reading) float64 { return r.Sys })
	s.Dia = summarizeMetric("dia", records, func(r reading.Reading) float64 { return r.Dia })
	s.BPM = summarizeMetric("bpm", records, func(r reading.Reading) float64 { return r.BPM })
	s.PulsePressure = summarizeMetric("pp", records, func(r reading.Reading) float64 { return r.PulsePressure })
	return s
}

func summarizeMetric(name string, records []reading.Reading, value func(reading.Reading) float64) MetricSummary {
	high := math.Inf(-1)
	low := math.Inf(1)
	sum := 0.0
	for _, r := range records {
		v := value(r)
		high = math.Max(high, v)
		low = math.Min(low, v)
		sum += v
	}
	avg := round1(sum / float64(len(records)))

	limits := summaryLimits[name]
	return MetricSummary{
		Metric:      name,
		High:        high,
		Low:         low,
		Avg:         avg,
		HighWarning: high >= limits.high,
		LowWarning:  low <= limits.low,
		AvgWarning:  avg >= limits.high || avg <= limits.low,
	}
}

// CategoryCount is one slice of the category distribution.
type CategoryCount struct {
	Category reading.Category `json:"category"`
	Count    int              `json:"count"`
	Share    float64          `json:"share"`
}

// CategoryDistribution summarizes how the filtered readings spread across the
// blood pressure ladder, plus the normal-versus-not split for the donut card.
type CategoryDistribution struct {
	ByCategory     []CategoryCount `json:"byCategory"`
	NormalCount    int             `json:"normalCount"`
	NotNormalCount int             `json:"notNormalCount"`
	NormalShare    float64         `json:"normalShare"`
}

// DistributeByCategory counts readings per BP category, ordered by severity
// descending so the worst news leads.
func DistributeByCategory(records []reading.Reading) CategoryDistribution {
	counts := make(map[reading.Category]int)
	for _, r := range records {
		counts[r.BPCategory]++
	}

	dist := CategoryDistribution{ByCategory: make([]CategoryCount, 0, len(counts))}
	total := len(records)
	for cat, n := range counts {
		share := 0.0
		if total > 0 {
			share = round1(100 * float64(n) / float64(total))
		}
		dist.ByCategory = append(dist.ByCategory, CategoryCount{Category: cat, Count: n, Share: share})
		if cat == reading.BPNormal {
			dist.NormalCount += n
		} else {
			dist.NotNormalCount += n
		}
	}

	slices.SortFunc(dist.ByCategory, func(a, b CategoryCount) int {
		return b.Category.Score - a.Category.Score
	})

	if total > 0 {
		dist.NormalShare = round1(100 * float64(dist.NormalCount) / float64(total))
	}
	return dist
}

// Cadence describes how densely the filtered range is covered by readings.
type Cadence struct {
	ReadingCount    int     `json:"readingCount"`
	DistinctDays    int     `json:"distinctDays"`
	CalendarDaySpan int     `json:"calendarDaySpan"`
	ReadingsPerDay  float64 `json:"readingsPerDay"`
}

// MeasureCadence computes reading density over the filtered range. The span
// counts calendar days between the first and last reading inclusive, so a
// single-day range has span 1.
func MeasureCadence(records []reading.Reading) Cadence {
	if len(records) == 0 {
		return Cadence{}
	}

	sorted := SortChronological(records)
	first := sorted[0].Taken.Date()
	last := sorted[len(sorted)-1].Taken.Date()
	span := localtime.DaysBetween(first, last) + 1

	c := Cadence{
		ReadingCount:    len(records),
		DistinctDays:    len(GroupByDay(records)),
		CalendarDaySpan: span,
	}
	c.ReadingsPerDay = round1(float64(c.ReadingCount) / float64(span))
	return c
}

// LastReading returns the newest reading, or nil for an empty set.
func LastReading(records []reading.Reading) *reading.Reading {
	if len(records) == 0 {
		return nil
	}
	newest := records[0]
	for _, r := range records[1:] {
		if r.Taken.After(newest.Taken) {
			newest = r
		}
	}
	return &newest
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
