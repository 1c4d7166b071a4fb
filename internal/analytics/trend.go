package analytics

import (
	"bpdash/internal/localtime"
	"bpdash/internal/reading"
)

// Point is a generic x/y pair for trendline fitting.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Trendline fits a least-squares line through the points and returns the
// fitted value at every input x. Fewer than two points, or a degenerate
// x-spread, yields an empty slice.
func Trendline(points []Point) []Point {
	n := float64(len(points))
	if n < 2 {
		return []Point{}
	}

	var sumX, sumY, sumXY, sumXX float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumXX += p.X * p.X
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return []Point{}
	}

	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: p.X, Y: slope*p.X + intercept}
	}
	return out
}

// MetricTrendline fits a trendline through one vital across the filtered
// range. X is the calendar-day offset from the first reading, so uneven
// measurement cadence does not distort the slope.
func MetricTrendline(records []reading.Reading, metric Metric) []Point {
	sorted := SortChronological(records)
	if len(sorted) == 0 {
		return []Point{}
	}

	first := sorted[0].Taken.Date()
	points := make([]Point, len(sorted))
	for i, r := range sorted {
		points[i] = Point{
			X: float64(localtime.DaysBetween(first, r.Taken.Date())),
			Y: metric.value(r),
		}
	}
	return Trendline(points)
}

// TimelinePoint is one step of the category-over-time series. The category is
// the canonical one computed by the normalizer; the timeline never
// reclassifies.
type TimelinePoint struct {
	Taken    localtime.Time   `json:"taken"`
	Category reading.Category `json:"category"`
}

// CategoryTimeline returns the stepped series of BP category scores across
// the filtered range, ascending by instant.
func CategoryTimeline(records []reading.Reading) []TimelinePoint {
	sorted := SortChronological(records)
	out := make([]TimelinePoint, len(sorted))
	for i, r := range sorted {
		out[i] = TimelinePoint{Taken: r.Taken, Category: r.BPCategory}
	}
	return out
}
