// Package reading defines the raw payload shape, the canonical enriched
// record, and the normalization step between them. Downstream code never
// touches RawReading fields; categories and day keys exist only on the
// canonical Reading produced here.
package reading

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"bpdash/internal/localtime"
)

// RawReading is one element of the untrusted source payload. Nothing about it
// is guaranteed: dates may be malformed, numerics may arrive as strings or be
// absent entirely.
type RawReading struct {
	ReadingID    FlexString `json:"ReadingID"`
	Date         string     `json:"Date"`
	Sys          RawNumber  `json:"Sys"`
	Dia          RawNumber  `json:"Dia"`
	BPM          RawNumber  `json:"BPM"`
	Pulse        RawNumber  `json:"Pulse"` // legacy alias for BPM in older payloads
	Workday      string     `json:"Workday"`
	FormComments string     `json:"FormComments"`
}

// Reading is the canonical validated record. Instances are produced only by
// Normalize and never mutated afterwards.
type Reading struct {
	ID                    string         `json:"readingId"`
	Taken                 localtime.Time `json:"taken"`
	DayKey                string         `json:"dayKey"`
	Sys                   float64        `json:"sys"`
	Dia                   float64        `json:"dia"`
	BPM                   float64        `json:"bpm"`
	PulsePressure         float64        `json:"pulsePressure"`
	MAP                   float64        `json:"map"`
	BPCategory            Category       `json:"bpCategory"`
	PulseCategory         Category       `json:"pulseCategory"`
	PulsePressureCategory Category       `json:"pulsePressureCategory"`
	Workday               bool           `json:"workday"`
	Comments              string         `json:"comments,omitempty"`
}

// MeanArterialPressure computes MAP = (sys + 2*dia) / 3. The diastolic phase
// occupies roughly two thirds of the cardiac cycle, hence the weighting.
func MeanArterialPressure(sys, dia float64) float64 {
	return (sys + 2*dia) / 3
}

// FlexString decodes a JSON string or bare scalar into a string. Source
// payloads are inconsistent about quoting identifiers.
type FlexString string

// UnmarshalJSON implements tolerant decoding; it never fails.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = FlexString(str)
		return nil
	}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = ""
		return nil
	}
	*s = FlexString(trimmed)
	return nil
}

// RawNumber decodes a JSON number or numeric string. Decoding never fails;
// non-numeric input is recorded as invalid and reported by the normalizer,
// keeping one bad field from sinking the whole payload.
type RawNumber struct {
	Raw   string
	Value float64
	Valid bool
	Set   bool
}

// UnmarshalJSON implements tolerant decoding; it never fails.
func (n *RawNumber) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}
	n.Set = true

	if unquoted, err := strconv.Unquote(trimmed); err == nil {
		trimmed = strings.TrimSpace(unquoted)
	}
	n.Raw = trimmed
	if trimmed == "" {
		n.Set = false
		return nil
	}

	// ParseFloat accepts "NaN" and "Inf" spellings; a non-finite vital is as
	// unusable as a non-numeric one, so only finite values count as valid.
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		n.Value = v
		n.Valid = true
	}
	return nil
}
