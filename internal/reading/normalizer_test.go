package reading

import (
	"encoding/json"
	"testing"
)

func rawPayload(t *testing.T, jsonBody string) []RawReading {
	t.Helper()
	var raw []RawReading
	if err := json.Unmarshal([]byte(jsonBody), &raw); err != nil {
		t.Fatalf("failed to decode test payload: %v", err)
	}
	return raw
}

func TestNormalizeValidRecord(t *testing.T) {
	raw := rawPayload(t, `[
		{"ReadingID": 17, "Date": "2026-01-17 09:33:17 PM", "Sys": 128, "Dia": 79, "BPM": 72, "Workday": "Yes", "FormComments": "after walk"}
	]`)

	res := Normalize(raw)
	if len(res.Readings) != 1 {
		t.Fatalf("records = %d, want 1 (diagnostics: %+v)", len(res.Readings), res.Diagnostics)
	}

	r := res.Readings[0]
	if r.ID != "17" {
		t.Errorf("ID = %q, want 17", r.ID)
	}
	if r.DayKey != "2026-01-17" {
		t.Errorf("DayKey = %q, want 2026-01-17", r.DayKey)
	}
	if r.Taken.Hour != 21 || r.Taken.Minute != 33 {
		t.Errorf("Taken = %v, want 21:33", r.Taken)
	}
	if r.PulsePressure != 49 {
		t.Errorf("PulsePressure = %g, want 49", r.PulsePressure)
	}
	if r.BPCategory != BPElevated {
		t.Errorf("BPCategory = %q, want %q", r.BPCategory.Label, BPElevated.Label)
	}
	if r.PulseCategory != PulseNormal {
		t.Errorf("PulseCategory = %q, want %q", r.PulseCategory.Label, PulseNormal.Label)
	}
	if r.PulsePressureCategory != PPNormal {
		t.Errorf("PulsePressureCategory = %q, want %q", r.PulsePressureCategory.Label, PPNormal.Label)
	}
	if !r.Workday {
		t.Error("Workday = false, want true")
	}
}

// Normalize must be a total function: any payload, including one with a
// garbage date, returns a result rather than panicking, with the bad record
// itemized and the good ones kept.
func TestNormalizeGarbageDateDoesNotAbortBatch(t *testing.T) {
	raw := rawPayload(t, `[
		{"ReadingID": 1, "Date": "garbage", "Sys": 120, "Dia": 80, "BPM": 70},
		{"ReadingID": 2, "Date": "2026-01-15 08:00:00 AM", "Sys": 118, "Dia": 76, "BPM": 64}
	]`)

	res := Normalize(raw)
	if len(res.Readings) != 1 {
		t.Fatalf("records = %d, want 1", len(res.Readings))
	}
	if len(res.Diagnostics) == 0 {
		t.Fatal("expected at least one diagnostic for the garbage date")
	}

	d := res.Diagnostics[0]
	if d.Kind != DiagnosticParse {
		t.Errorf("Kind = %q, want parse", d.Kind)
	}
	if d.Index != 0 || d.ReadingID != "1" {
		t.Errorf("diagnostic context = index %d id %q, want 0 / 1", d.Index, d.ReadingID)
	}
	if d.Raw != "garbage" {
		t.Errorf("diagnostic raw = %q, want the offending string", d.Raw)
	}
}

func TestNormalizeMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"NoDate", `[{"ReadingID": 1, "Sys": 120, "Dia": 80}]`},
		{"NoSys", `[{"ReadingID": 1, "Date": "2026-01-15 08:00:00 AM", "Dia": 80}]`},
		{"NoDia", `[{"ReadingID": 1, "Date": "2026-01-15 08:00:00 AM", "Sys": 120}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Normalize(rawPayload(t, tt.body))
			if len(res.Readings) != 0 {
				t.Errorf("records = %d, want 0", len(res.Readings))
			}
			if len(res.Diagnostics) != 1 || res.Diagnostics[0].Kind != DiagnosticValidation {
				t.Errorf("diagnostics = %+v, want one validation failure", res.Diagnostics)
			}
		})
	}
}

func TestNormalizeNumericEnvelope(t *testing.T) {
	// 300 sys is outside the clinical range but within the [0, 500] envelope:
	// kept with a warning. 9000 is beyond the envelope: rejected.
	raw := rawPayload(t, `[
		{"ReadingID": 1, "Date": "2026-01-15 08:00:00 AM", "Sys": 300, "Dia": 80, "BPM": 70},
		{"ReadingID": 2, "Date": "2026-01-15 09:00:00 AM", "Sys": 9000, "Dia": 80, "BPM": 70},
		{"ReadingID": 3, "Date": "2026-01-15 10:00:00 AM", "Sys": "not-a-number", "Dia": 80, "BPM": 70}
	]`)

	res := Normalize(raw)
	if len(res.Readings) != 1 {
		t.Fatalf("records = %d, want 1", len(res.Readings))
	}
	if res.Readings[0].Sys != 300 {
		t.Errorf("kept Sys = %g, want 300", res.Readings[0].Sys)
	}

	var warnings, rejections int
	for _, d := range res.Diagnostics {
		if d.Rejects() {
			rejections++
		} else {
			warnings++
		}
	}
	if warnings != 1 {
		t.Errorf("warnings = %d, want 1", warnings)
	}
	if rejections != 2 {
		t.Errorf("rejections = %d, want 2", rejections)
	}
}

// NaN parses as a float but defeats every range comparison, so it must be
// caught at decode time; a record carrying it would poison every mean and SD
// downstream. Inf spellings fall to the same rule.
func TestNormalizeRejectsNonFiniteVitals(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"NaNSys", `[{"ReadingID": 1, "Date": "2026-01-15 08:30:00 AM", "Sys": "NaN", "Dia": "80", "BPM": "60"}]`},
		{"NaNDia", `[{"ReadingID": 1, "Date": "2026-01-15 08:30:00 AM", "Sys": "120", "Dia": "nan", "BPM": "60"}]`},
		{"InfSys", `[{"ReadingID": 1, "Date": "2026-01-15 08:30:00 AM", "Sys": "Inf", "Dia": "80"}]`},
		{"NegInfSys", `[{"ReadingID": 1, "Date": "2026-01-15 08:30:00 AM", "Sys": "-Inf", "Dia": "80"}]`},
		{"InfDia", `[{"ReadingID": 1, "Date": "2026-01-15 08:30:00 AM", "Sys": "120", "Dia": "+Inf"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Normalize(rawPayload(t, tt.body))
			if len(res.Readings) != 0 {
				t.Fatalf("records = %d, want 0; a non-finite vital must reject the record (got %+v)", len(res.Readings), res.Readings)
			}
			if res.Rejected != 1 {
				t.Errorf("rejected = %d, want 1", res.Rejected)
			}
			if len(res.Diagnostics) != 1 || res.Diagnostics[0].Kind != DiagnosticValidation {
				t.Fatalf("diagnostics = %+v, want one validation failure", res.Diagnostics)
			}
		})
	}
}

func TestNormalizeNonFiniteBPMDefaultsToZero(t *testing.T) {
	raw := rawPayload(t, `[
		{"ReadingID": 1, "Date": "2026-01-15 08:30:00 AM", "Sys": 120, "Dia": 80, "BPM": "NaN"}
	]`)

	res := Normalize(raw)
	if len(res.Readings) != 1 {
		t.Fatalf("records = %d, want 1; BPM problems must not reject", len(res.Readings))
	}
	if res.Readings[0].BPM != 0 {
		t.Errorf("BPM = %g, want 0", res.Readings[0].BPM)
	}
	if res.Warned != 1 {
		t.Errorf("warnings = %d, want 1", res.Warned)
	}
}

func TestNormalizeBPMIsBestEffort(t *testing.T) {
	raw := rawPayload(t, `[
		{"ReadingID": 1, "Date": "2026-01-15 08:00:00 AM", "Sys": 120, "Dia": 80},
		{"ReadingID": 2, "Date": "2026-01-15 09:00:00 AM", "Sys": 120, "Dia": 80, "BPM": "n/a"},
		{"ReadingID": 3, "Date": "2026-01-15 10:00:00 AM", "Sys": 120, "Dia": 80, "Pulse": 68}
	]`)

	res := Normalize(raw)
	if len(res.Readings) != 3 {
		t.Fatalf("records = %d, want 3; BPM problems must not reject", len(res.Readings))
	}
	if res.Readings[0].BPM != 0 || res.Readings[1].BPM != 0 {
		t.Errorf("absent/invalid BPM should default to 0, got %g and %g", res.Readings[0].BPM, res.Readings[1].BPM)
	}
	if res.Readings[0].PulseCategory != PulseUnknown {
		t.Errorf("zero BPM should classify as unknown, got %q", res.Readings[0].PulseCategory.Label)
	}
	if res.Readings[2].BPM != 68 {
		t.Errorf("legacy Pulse field should back-fill BPM, got %g", res.Readings[2].BPM)
	}
}

func TestNormalizeSortsChronologically(t *testing.T) {
	raw := rawPayload(t, `[
		{"ReadingID": 2, "Date": "2026-01-16 08:00:00 AM", "Sys": 120, "Dia": 80},
		{"ReadingID": 1, "Date": "2026-01-15 11:59:00 PM", "Sys": 120, "Dia": 80},
		{"ReadingID": 3, "Date": "2026-01-16 00:05:00 AM", "Sys": 120, "Dia": 80}
	]`)

	res := Normalize(raw)
	if len(res.Readings) != 3 {
		t.Fatalf("records = %d, want 3", len(res.Readings))
	}
	order := []string{res.Readings[0].ID, res.Readings[1].ID, res.Readings[2].ID}
	want := []string{"1", "3", "2"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("chronological order = %v, want %v", order, want)
		}
	}
	if res.DistinctDays != 2 {
		t.Errorf("DistinctDays = %d, want 2", res.DistinctDays)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	res := Normalize(nil)
	if len(res.Readings) != 0 || len(res.Diagnostics) != 0 {
		t.Errorf("empty input should produce an empty, diagnostic-free result, got %+v", res)
	}
}

func TestNormalizeScenarioThresholdBoundary(t *testing.T) {
	raw := rawPayload(t, `[
		{"ReadingID": 1, "Date": "2026-01-15 08:00:00 AM", "Sys": 140, "Dia": 89, "BPM": 70}
	]`)

	res := Normalize(raw)
	if len(res.Readings) != 1 {
		t.Fatal("expected one record")
	}
	if got := res.Readings[0].BPCategory; got != BPStage2 {
		t.Errorf("140/89 classified %q, want %q (systolic branch wins)", got.Label, BPStage2.Label)
	}
}

func TestRawNumberDecoding(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		set   bool
		valid bool
		value float64
	}{
		{"Number", `{"Sys": 128}`, true, true, 128},
		{"QuotedNumber", `{"Sys": "128"}`, true, true, 128},
		{"Float", `{"Sys": 128.5}`, true, true, 128.5},
		{"NonNumeric", `{"Sys": "high"}`, true, false, 0},
		{"NaN", `{"Sys": "NaN"}`, true, false, 0},
		{"Inf", `{"Sys": "Inf"}`, true, false, 0},
		{"NegInf", `{"Sys": "-Inf"}`, true, false, 0},
		{"Null", `{"Sys": null}`, false, false, 0},
		{"Absent", `{}`, false, false, 0},
		{"EmptyString", `{"Sys": ""}`, false, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r RawReading
			if err := json.Unmarshal([]byte(tt.body), &r); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if r.Sys.Set != tt.set || r.Sys.Valid != tt.valid || r.Sys.Value != tt.value {
				t.Errorf("got set=%v valid=%v value=%g, want set=%v valid=%v value=%g",
					r.Sys.Set, r.Sys.Valid, r.Sys.Value, tt.set, tt.valid, tt.value)
			}
		})
	}
}
