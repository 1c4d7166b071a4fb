package analytics

import (
	"fmt"
	"slices"

	"bpdash/internal/localtime"
	"bpdash/internal/reading"
)

// BoxStats holds the five-number summary for one vital within a bucket.
type BoxStats struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// VolatilityBucket is one box-and-whisker group: a week of readings, or a
// month when the whole history is in view.
type VolatilityBucket struct {
	Label     string         `json:"label"`
	RangeFrom localtime.Date `json:"rangeFrom"`
	RangeTo   localtime.Date `json:"rangeTo"`
	Sys       BoxStats       `json:"sys"`
	Dia       BoxStats       `json:"dia"`
	Count     int            `json:"count"`
}

// VolatilityBoxes groups the filtered readings into sequential buckets and
// computes quartile spreads per bucket. Weekly buckets for the short windows,
// monthly for "all": the bucket boundary is 7 calendar days (or the calendar
// month) from the first reading in the bucket.
func VolatilityBoxes(records []reading.Reading, window Window) []VolatilityBucket {
	if len(records) == 0 {
		return []VolatilityBucket{}
	}

	monthly := window == WindowAll
	sorted := SortChronological(records)

	var out []VolatilityBucket
	var curSys, curDia []float64
	bucketStart := sorted[0].Taken.Date()
	threshold := nextThreshold(bucketStart, monthly)
	lastDate := bucketStart

	flush := func() {
		if len(curSys) == 0 {
			return
		}
		label := fmt.Sprintf("Week %d", len(out)+1)
		if monthly {
			label = bucketStart.MonthLabel()
		}
		out = append(out, VolatilityBucket{
			Label:     label,
			RangeFrom: bucketStart,
			RangeTo:   lastDate,
			Sys:       boxStats(curSys),
			Dia:       boxStats(curDia),
			Count:     len(curSys),
		})
		curSys, curDia = nil, nil
	}

	for _, r := range sorted {
		d := r.Taken.Date()
		if !d.Before(threshold) {
			flush()
			bucketStart = d
			threshold = nextThreshold(bucketStart, monthly)
		}
		curSys = append(curSys, r.Sys)
		curDia = append(curDia, r.Dia)
		lastDate = d
	}
	flush()

	return out
}

func nextThreshold(start localtime.Date, monthly bool) localtime.Date {
	if monthly {
		month, year := start.Month+1, start.Year
		if month > 12 {
			month = 1
			year++
		}
		return localtime.Date{Year: year, Month: month, Day: 1}
	}
	return start.AddDays(7)
}

// boxStats computes the five-number summary with linear interpolation for
// quartiles.
func boxStats(values []float64) BoxStats {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	slices.Sort(sorted)

	return BoxStats{
		Min:    sorted[0],
		Q1:     percentile(sorted, 0.25),
		Median: percentile(sorted, 0.5),
		Q3:     percentile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lower := int(pos)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}
