// Package export writes the normalized dataset to an Excel workbook, mirroring
// the tabular view of the dashboard.
package export

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"bpdash/internal/analytics"
	"bpdash/internal/reading"
)

var readingsHeader = []string{
	"Reading ID",
	"Taken",
	"Day",
	"Systolic",
	"Diastolic",
	"Pulse",
	"Pulse Pressure",
	"MAP",
	"BP Category",
	"Pulse Category",
	"PP Category",
	"Workday",
	"Comments",
}

// Workbook builds an xlsx with a "Readings" sheet of canonical records and a
// "Summary" sheet of the high/low/average cards.
func Workbook(records []reading.Reading) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeReadingsSheet(f, records); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSummarySheet(f, records); err != nil {
		f.Close()
		return nil, err
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

// WriteFile builds the workbook and saves it at path.
func WriteFile(path string, records []reading.Reading) error {
	f, err := Workbook(records)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook to %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("records", len(records)).Msg("Exported workbook")
	return nil
}

func writeReadingsSheet(f *excelize.File, records []reading.Reading) error {
	const sheet = "Readings"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	for col, header := range readingsHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for i, r := range records {
		workday := "No"
		if r.Workday {
			workday = "Yes"
		}
		row := []any{
			r.ID,
			r.Taken.String(),
			r.DayKey,
			r.Sys,
			r.Dia,
			r.BPM,
			r.PulsePressure,
			round1(r.MAP),
			r.BPCategory.Label,
			r.PulseCategory.Label,
			r.PulsePressureCategory.Label,
			workday,
			r.Comments,
		}
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, records []reading.Reading) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}

	s := analytics.Summarize(records)
	rows := [][]any{
		{"Metric", "High", "Low", "Average", "Warning"},
		{"Systolic", s.Sys.High, s.Sys.Low, s.Sys.Avg, s.Sys.Warning()},
		{"Diastolic", s.Dia.High, s.Dia.Low, s.Dia.Avg, s.Dia.Warning()},
		{"Pulse", s.BPM.High, s.BPM.Low, s.BPM.Avg, s.BPM.Warning()},
		{"Pulse Pressure", s.PulsePressure.High, s.PulsePressure.Low, s.PulsePressure.Avg, s.PulsePressure.Warning()},
		{},
		{"Readings", s.ReadingCount},
	}

	for i, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
