package reading

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"bpdash/internal/localtime"
)

// Clinical measurement ranges. Values outside the clinical range but inside
// the tolerance envelope (0 to 2x the clinical maximum) are kept with a
// warning; values beyond the envelope reject the record.
const (
	sysClinicalMin = 40
	sysClinicalMax = 250
	diaClinicalMin = 20
	diaClinicalMax = 150
	bpmEnvelopeMax = 400
)

// DiagnosticKind classifies a per-record problem.
type DiagnosticKind string

const (
	DiagnosticParse      DiagnosticKind = "parse"
	DiagnosticValidation DiagnosticKind = "validation"
	DiagnosticWarning    DiagnosticKind = "warning"
)

// Diagnostic captures one per-record problem with enough context to reproduce
// it in isolation: the source index, the identifier when present, and the
// offending raw value.
type Diagnostic struct {
	Index     int            `json:"index"`
	ReadingID string         `json:"readingId,omitempty"`
	Kind      DiagnosticKind `json:"kind"`
	Field     string         `json:"field,omitempty"`
	Raw       string         `json:"raw,omitempty"`
	Reason    string         `json:"reason"`
}

// Rejects reports whether the diagnostic excluded its record from the
// canonical set (warnings keep the record).
func (d Diagnostic) Rejects() bool {
	return d.Kind != DiagnosticWarning
}

// Result is the outcome of a batch normalization. Readings is sorted
// ascending by instant; an empty Readings slice is a valid outcome.
type Result struct {
	Readings    []Reading    `json:"readings"`
	Diagnostics []Diagnostic `json:"diagnostics"`

	Accepted     int `json:"accepted"`
	Rejected     int `json:"rejected"`
	Warned       int `json:"warned"`
	DistinctDays int `json:"distinctDays"`
}

// Normalize converts the raw payload into the canonical record set. Bad
// records never abort the batch: each failure becomes a Diagnostic and
// processing continues. Categories are always recomputed from the validated
// numerics; category-like fields in the source are ignored.
func Normalize(raw []RawReading) Result {
	var res Result
	days := make(map[string]struct{})

	for i, r := range raw {
		rec, diags := normalizeOne(i, r)
		res.Diagnostics = append(res.Diagnostics, diags...)
		for _, d := range diags {
			if d.Rejects() {
				res.Rejected++
				rec = nil
				break
			}
			res.Warned++
		}
		if rec == nil {
			continue
		}
		res.Accepted++
		days[rec.DayKey] = struct{}{}
		res.Readings = append(res.Readings, *rec)
	}

	// Sort once here; downstream consumers rely on chronological order.
	slices.SortFunc(res.Readings, func(a, b Reading) int {
		return a.Taken.Compare(b.Taken)
	})
	res.DistinctDays = len(days)

	if res.Rejected > 0 {
		log.Warn().
			Int("rejected", res.Rejected).
			Int("accepted", res.Accepted).
			Msg("Some raw readings were dropped during normalization")
	}
	log.Info().
		Int("records", res.Accepted).
		Int("distinctDays", res.DistinctDays).
		Int("warnings", res.Warned).
		Msg("Normalized blood pressure payload")

	return res
}

func normalizeOne(index int, r RawReading) (*Reading, []Diagnostic) {
	id := string(r.ReadingID)
	var diags []Diagnostic

	reject := func(kind DiagnosticKind, field, raw, reason string) (*Reading, []Diagnostic) {
		diags = append(diags, Diagnostic{
			Index: index, ReadingID: id, Kind: kind, Field: field, Raw: raw, Reason: reason,
		})
		return nil, diags
	}
	warn := func(field, raw, reason string) {
		diags = append(diags, Diagnostic{
			Index: index, ReadingID: id, Kind: DiagnosticWarning, Field: field, Raw: raw, Reason: reason,
		})
	}

	// Date, Sys and Dia are load-bearing; their absence rejects the record.
	if strings.TrimSpace(r.Date) == "" {
		return reject(DiagnosticValidation, "Date", r.Date, "date is missing")
	}
	if !r.Sys.Set {
		return reject(DiagnosticValidation, "Sys", "", "systolic value is missing")
	}
	if !r.Dia.Set {
		return reject(DiagnosticValidation, "Dia", "", "diastolic value is missing")
	}

	taken, err := localtime.Parse(r.Date)
	if err != nil {
		return reject(DiagnosticParse, "Date", r.Date, err.Error())
	}

	sys, ok, reason := validateVital(r.Sys, sysClinicalMin, sysClinicalMax)
	if !ok {
		return reject(DiagnosticValidation, "Sys", r.Sys.Raw, reason)
	}
	if reason != "" {
		warn("Sys", r.Sys.Raw, reason)
	}

	dia, ok, reason := validateVital(r.Dia, diaClinicalMin, diaClinicalMax)
	if !ok {
		return reject(DiagnosticValidation, "Dia", r.Dia.Raw, reason)
	}
	if reason != "" {
		warn("Dia", r.Dia.Raw, reason)
	}

	// BPM is best-effort: absent or invalid collapses to 0 instead of
	// rejecting, and the pulse category degrades to unknown.
	bpm, bpmReason := coerceBPM(r.BPM, r.Pulse)
	if bpmReason != "" {
		warn("BPM", r.BPM.Raw, bpmReason)
	}

	pp := sys - dia

	rec := &Reading{
		ID:                    id,
		Taken:                 taken,
		DayKey:                taken.DayKey(),
		Sys:                   sys,
		Dia:                   dia,
		BPM:                   bpm,
		PulsePressure:         pp,
		MAP:                   MeanArterialPressure(sys, dia),
		BPCategory:            ClassifyBP(sys, dia),
		PulseCategory:         ClassifyPulse(bpm),
		PulsePressureCategory: ClassifyPulsePressure(pp),
		Workday:               strings.EqualFold(strings.TrimSpace(r.Workday), "yes"),
		Comments:              strings.TrimSpace(r.FormComments),
	}
	return rec, diags
}

// validateVital checks a load-bearing numeric against its clinical range.
// Returns the value, whether the record survives, and a non-empty reason for
// either the rejection or the kept-with-warning case.
func validateVital(n RawNumber, clinicalMin, clinicalMax float64) (float64, bool, string) {
	if !n.Valid {
		return 0, false, fmt.Sprintf("value %q is not numeric", n.Raw)
	}
	v := n.Value
	if v < 0 || v > clinicalMax*2 {
		return 0, false, fmt.Sprintf("value %g is outside the plausible envelope [0, %g]", v, clinicalMax*2)
	}
	if v < clinicalMin || v > clinicalMax {
		return v, true, fmt.Sprintf("value %g is outside the clinical range [%g, %g]", v, clinicalMin, clinicalMax)
	}
	return v, true, ""
}

func coerceBPM(bpm, pulse RawNumber) (float64, string) {
	n := bpm
	if !n.Set && pulse.Set {
		n = pulse
	}
	switch {
	case !n.Set:
		return 0, ""
	case !n.Valid:
		return 0, fmt.Sprintf("pulse value %q is not numeric, defaulting to 0", n.Raw)
	case n.Value < 0 || n.Value > bpmEnvelopeMax:
		return 0, fmt.Sprintf("pulse value %g is implausible, defaulting to 0", n.Value)
	default:
		return n.Value, ""
	}
}
