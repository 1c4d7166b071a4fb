package analytics

import (
	"bpdash/internal/localtime"
	"bpdash/internal/reading"
)

// heatmapLookbackDays spans roughly 10.5 months (46 weeks), matching the
// dashboard's calendar grid.
const heatmapLookbackDays = 322

// HeatmapCell is one calendar day of the heatmap grid.
type HeatmapCell struct {
	Date         localtime.Date `json:"date"`
	DayKey       string         `json:"dayKey"`
	MaxScore     int            `json:"maxScore"`
	ReadingCount int            `json:"readingCount"`
	InFilter     bool           `json:"inFilter"`
	Future       bool           `json:"future"`
}

// HeatmapWeek is a Sunday-through-Saturday column of cells.
type HeatmapWeek struct {
	Cells [7]HeatmapCell `json:"cells"`
}

// Heatmap builds the calendar grid over the full history: 46 weeks ending at
// the newest reading's calendar day, aligned to Sunday. Each cell carries the
// worst (max) BP category score of its day, built exclusively from civil
// dates so no cell can straddle midnight. Cells belonging to the filtered
// range are flagged for highlight.
func Heatmap(allRecords, visibleRecords []reading.Reading) []HeatmapWeek {
	if len(allRecords) == 0 {
		return []HeatmapWeek{}
	}

	newest := LastReading(allRecords).Taken.Date()

	type dayAgg struct {
		maxScore int
		count    int
	}
	byDay := make(map[string]dayAgg)
	for _, r := range allRecords {
		agg := byDay[r.DayKey]
		agg.count++
		if r.BPCategory.Score > agg.maxScore {
			agg.maxScore = r.BPCategory.Score
		}
		byDay[r.DayKey] = agg
	}

	inFilter := make(map[string]struct{}, len(visibleRecords))
	for _, r := range visibleRecords {
		inFilter[r.DayKey] = struct{}{}
	}

	start := newest.AddDays(-heatmapLookbackDays)
	if wd := start.Weekday(); wd != 0 {
		start = start.AddDays(-wd)
	}

	var weeks []HeatmapWeek
	for cur := start; !cur.After(newest); cur = cur.AddDays(7) {
		var week HeatmapWeek
		for i := 0; i < 7; i++ {
			d := cur.AddDays(i)
			key := d.DayKey()
			agg := byDay[key]
			_, filtered := inFilter[key]
			week.Cells[i] = HeatmapCell{
				Date:         d,
				DayKey:       key,
				MaxScore:     agg.maxScore,
				ReadingCount: agg.count,
				InFilter:     filtered,
				Future:       d.After(newest),
			}
		}
		weeks = append(weeks, week)
	}
	return weeks
}
