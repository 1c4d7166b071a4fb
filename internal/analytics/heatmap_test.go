package analytics

import (
	"testing"

	"bpdash/internal/reading"
)

func TestHeatmapShape(t *testing.T) {
	records := sampleWeek(t)
	weeks := Heatmap(records, records)

	if len(weeks) == 0 {
		t.Fatal("no weeks for non-empty history")
	}
	// 322-day lookback, Sunday-aligned: 46-47 columns.
	if len(weeks) < 46 || len(weeks) > 48 {
		t.Errorf("weeks = %d, want about 46", len(weeks))
	}

	// Every column starts on a Sunday.
	for i, w := range weeks {
		if wd := w.Cells[0].Date.Weekday(); wd != 0 {
			t.Fatalf("week %d starts on weekday %d, want Sunday", i, wd)
		}
	}

	// Consecutive cells are consecutive calendar days across column breaks.
	var cells []HeatmapCell
	for _, w := range weeks {
		cells = append(cells, w.Cells[:]...)
	}
	for i := 1; i < len(cells); i++ {
		if want := cells[i-1].Date.AddDays(1); cells[i].Date != want {
			t.Fatalf("cell %s does not follow %s", cells[i].DayKey, cells[i-1].DayKey)
		}
	}
}

func TestHeatmapCellAggregation(t *testing.T) {
	records := []reading.Reading{
		rec(t, "2026-01-11 08:00:00 AM", 118, 76, 70), // Normal (score 1)
		rec(t, "2026-01-11 09:00:00 PM", 142, 91, 70), // Stage 2 (score 4)
		rec(t, "2026-01-12 08:00:00 AM", 125, 78, 70), // Elevated (score 2)
	}
	weeks := Heatmap(records, records[2:])

	find := func(key string) *HeatmapCell {
		for i := range weeks {
			for j := range weeks[i].Cells {
				if weeks[i].Cells[j].DayKey == key {
					return &weeks[i].Cells[j]
				}
			}
		}
		return nil
	}

	jan11 := find("2026-01-11")
	if jan11 == nil {
		t.Fatal("no cell for 2026-01-11")
	}
	if jan11.MaxScore != reading.BPStage2.Score {
		t.Errorf("maxScore = %d, want %d (worst of the day wins)", jan11.MaxScore, reading.BPStage2.Score)
	}
	if jan11.ReadingCount != 2 {
		t.Errorf("readingCount = %d, want 2", jan11.ReadingCount)
	}
	if jan11.InFilter {
		t.Error("2026-01-11 is outside the visible range but flagged inFilter")
	}

	jan12 := find("2026-01-12")
	if jan12 == nil || !jan12.InFilter {
		t.Error("2026-01-12 is in the visible range but not flagged")
	}

	// A quiet day in between history entries has no score and no count.
	jan10 := find("2026-01-10")
	if jan10 == nil {
		t.Fatal("no cell for 2026-01-10")
	}
	if jan10.MaxScore != 0 || jan10.ReadingCount != 0 {
		t.Errorf("empty day = score %d count %d, want 0/0", jan10.MaxScore, jan10.ReadingCount)
	}
}

func TestHeatmapGridEndsAtNewestDay(t *testing.T) {
	records := sampleWeek(t) // newest day 2026-01-16 (Friday)
	weeks := Heatmap(records, records)

	lastWeek := weeks[len(weeks)-1]
	var sawNewest bool
	for _, c := range lastWeek.Cells {
		if c.DayKey == "2026-01-16" {
			sawNewest = true
			if c.Future {
				t.Error("newest day flagged as future")
			}
		}
		if c.DayKey > "2026-01-16" && !c.Future {
			t.Errorf("cell %s past the newest day not flagged future", c.DayKey)
		}
	}
	if !sawNewest {
		t.Error("final column does not contain the newest day")
	}
}

func TestHeatmapEmpty(t *testing.T) {
	if got := Heatmap(nil, nil); len(got) != 0 {
		t.Errorf("weeks = %d, want 0", len(got))
	}
}
