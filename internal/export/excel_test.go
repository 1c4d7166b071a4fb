package export

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"bpdash/internal/reading"
)

func sampleRecords(t *testing.T) []reading.Reading {
	t.Helper()
	res := reading.Normalize([]reading.RawReading{
		{
			ReadingID: "1",
			Date:      "2026-01-17 9:33:17 pm",
			Sys:       reading.RawNumber{Value: 142, Valid: true, Set: true},
			Dia:       reading.RawNumber{Value: 89, Valid: true, Set: true},
			BPM:       reading.RawNumber{Value: 76, Valid: true, Set: true},
			Workday:   "Yes",
		},
		{
			ReadingID: "2",
			Date:      "2026-01-18 08:05:00 AM",
			Sys:       reading.RawNumber{Value: 118, Valid: true, Set: true},
			Dia:       reading.RawNumber{Value: 76, Valid: true, Set: true},
		},
	})
	return res.Readings
}

func TestWorkbookSheets(t *testing.T) {
	f, err := Workbook(sampleRecords(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := map[string]bool{"Readings": false, "Summary": false}
	for _, s := range sheets {
		if _, ok := want[s]; ok {
			want[s] = true
		}
		if s == "Sheet1" {
			t.Error("default Sheet1 not removed")
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("sheet %q missing from workbook", name)
		}
	}
}

func TestWorkbookReadingsContent(t *testing.T) {
	f, err := Workbook(sampleRecords(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Readings")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2 records", len(rows))
	}
	if rows[0][0] != "Reading ID" || rows[0][8] != "BP Category" {
		t.Errorf("header = %v", rows[0])
	}
	// Records are chronological, so reading 1 (Jan 17) leads.
	if rows[1][0] != "1" {
		t.Errorf("first data row id = %q, want 1", rows[1][0])
	}
	if rows[1][1] != "2026-01-17 21:33:17" {
		t.Errorf("taken = %q, want canonical local timestamp", rows[1][1])
	}
	if rows[1][8] != "Hypertension Stage 2" {
		t.Errorf("bp category = %q, want Hypertension Stage 2", rows[1][8])
	}
	if rows[1][11] != "Yes" || rows[2][11] != "No" {
		t.Errorf("workday column = %q/%q, want Yes/No", rows[1][11], rows[2][11])
	}
}

func TestWorkbookSummaryContent(t *testing.T) {
	f, err := Workbook(sampleRecords(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Summary")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) < 5 {
		t.Fatalf("summary rows = %d, want at least 5", len(rows))
	}
	if rows[1][0] != "Systolic" || rows[1][1] != "142" {
		t.Errorf("systolic row = %v, want high 142", rows[1])
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readings.xlsx")
	if err := WriteFile(path, sampleRecords(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("written workbook does not open: %v", err)
	}
	defer f.Close()
	if rows, _ := f.GetRows("Readings"); len(rows) != 3 {
		t.Errorf("reopened rows = %d, want 3", len(rows))
	}
}

func TestWorkbookEmptyDataset(t *testing.T) {
	f, err := Workbook(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Readings")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("rows = %d, want header only", len(rows))
	}
}
