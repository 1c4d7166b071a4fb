package analytics

import (
	"fmt"
	"math"

	"bpdash/internal/reading"
)

// Metric names a histogram-able vital.
type Metric string

const (
	MetricSys           Metric = "sys"
	MetricDia           Metric = "dia"
	MetricBPM           Metric = "bpm"
	MetricPulsePressure Metric = "pp"
)

// ParseMetric validates an externally supplied metric name.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricSys, MetricDia, MetricBPM, MetricPulsePressure:
		return Metric(s), nil
	default:
		return "", fmt.Errorf("unknown metric %q", s)
	}
}

func (m Metric) value(r reading.Reading) float64 {
	switch m {
	case MetricSys:
		return r.Sys
	case MetricDia:
		return r.Dia
	case MetricBPM:
		return r.BPM
	default:
		return r.PulsePressure
	}
}

// binWidth per metric, chosen to match the dashboard's distribution charts.
func (m Metric) binWidth() float64 {
	if m == MetricPulsePressure {
		return 5
	}
	return 10
}

// HistogramBin is one fixed-width bin. From is inclusive, To exclusive.
type HistogramBin struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Label string  `json:"label"`
	Count int     `json:"count"`
}

// Histogram bins the filtered readings' values for one metric. Bins are
// aligned to multiples of the bin width and empty bins between the extremes
// are kept so the distribution shape is honest about gaps. Zero BPM values
// (unknown pulse) are excluded rather than binned at zero.
func Histogram(records []reading.Reading, metric Metric) []HistogramBin {
	var values []float64
	for _, r := range records {
		v := metric.value(r)
		if metric == MetricBPM && v == 0 {
			continue
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return []HistogramBin{}
	}

	width := metric.binWidth()
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	firstBin := int(math.Floor(lo / width))
	lastBin := int(math.Floor(hi / width))

	bins := make([]HistogramBin, lastBin-firstBin+1)
	for i := range bins {
		from := float64(firstBin+i) * width
		bins[i] = HistogramBin{
			From:  from,
			To:    from + width,
			Label: fmt.Sprintf("%g-%g", from, from+width-1),
		}
	}

	for _, v := range values {
		bins[int(math.Floor(v/width))-firstBin].Count++
	}
	return bins
}
