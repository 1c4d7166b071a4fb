package analytics

import (
	"testing"

	"bpdash/internal/localtime"
	"bpdash/internal/reading"
)

// rec builds a canonical reading the way the normalizer would, so the
// analytics tests exercise the same enriched shape.
func rec(t *testing.T, ts string, sys, dia, bpm float64) reading.Reading {
	t.Helper()
	taken, err := localtime.Parse(ts)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", ts, err)
	}
	pp := sys - dia
	return reading.Reading{
		ID:                    ts,
		Taken:                 taken,
		DayKey:                taken.DayKey(),
		Sys:                   sys,
		Dia:                   dia,
		BPM:                   bpm,
		PulsePressure:         pp,
		MAP:                   reading.MeanArterialPressure(sys, dia),
		BPCategory:            reading.ClassifyBP(sys, dia),
		PulseCategory:         reading.ClassifyPulse(bpm),
		PulsePressureCategory: reading.ClassifyPulsePressure(pp),
	}
}

// week of data with a two-day gap in the middle.
func sampleWeek(t *testing.T) []reading.Reading {
	t.Helper()
	return []reading.Reading{
		rec(t, "2026-01-10 08:00:00 AM", 118, 76, 64),
		rec(t, "2026-01-11 08:30:00 AM", 122, 78, 70),
		rec(t, "2026-01-11 09:00:00 PM", 126, 82, 72),
		rec(t, "2026-01-12 07:45:00 AM", 131, 84, 75),
		rec(t, "2026-01-15 08:15:00 AM", 142, 91, 88),
		rec(t, "2026-01-16 00:05:00 AM", 117, 74, 58),
	}
}

func dayKeys(records []reading.Reading) []string {
	keys := make([]string, len(records))
	for i, r := range records {
		keys[i] = r.DayKey
	}
	return keys
}
