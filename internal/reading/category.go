package reading

import "math"

// Category is an immutable clinical classification. Score orders categories
// for plotting, Label is the display name, Color the rendering token. None of
// the classifiers below may consult anything beyond the numeric inputs.
type Category struct {
	Score int    `json:"score"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Blood pressure categories, ordered by severity.
var (
	BPUnknown  = Category{Score: 0, Label: "No Known Rule", Color: "#ebedf0"}
	BPNormal   = Category{Score: 1, Label: "Normal", Color: "#30693c"}
	BPElevated = Category{Score: 2, Label: "Elevated", Color: "#204929"}
	BPStage1   = Category{Score: 3, Label: "Hypertension Stage 1", Color: "#eeb649"}
	BPStage2   = Category{Score: 4, Label: "Hypertension Stage 2", Color: "#d95139"}
	BPCrisis   = Category{Score: 5, Label: "Hypertensive Crisis", Color: "#ad322d"}
)

// Pulse categories.
var (
	PulseUnknown = Category{Score: 0, Label: "No Known Rule", Color: "#ebedf0"}
	PulseBrady   = Category{Score: 1, Label: "Bradycardia", Color: "#424242"}
	PulseNormal  = Category{Score: 2, Label: "Normal Pulse", Color: "#216e39"}
	PulseTachy   = Category{Score: 3, Label: "Tachycardia", Color: "#424242"}
)

// Pulse pressure categories.
var (
	PPUnknown     = Category{Score: 0, Label: "No Known Rule", Color: "#ebedf0"}
	PPNarrowed    = Category{Score: 1, Label: "Narrowed", Color: "#9be9a8"}
	PPNormal      = Category{Score: 2, Label: "Normal", Color: "#216e39"}
	PPWidened     = Category{Score: 3, Label: "Widened", Color: "#ffcc00"}
	PPVeryWidened = Category{Score: 4, Label: "Very Widened", Color: "#c70000"}
)

// ClassifyBP maps a systolic/diastolic pair onto the blood pressure ladder.
// The ladder is evaluated top-down; the first matching rule wins. Missing or
// zero inputs short-circuit to BPUnknown before the ladder runs.
func ClassifyBP(sys, dia float64) Category {
	if sys == 0 || dia == 0 || math.IsNaN(sys) || math.IsNaN(dia) {
		return BPUnknown
	}
	switch {
	case sys > 180 || dia > 120:
		return BPCrisis
	case sys >= 140 || dia >= 90:
		return BPStage2
	case (sys >= 130 && sys <= 139) || (dia >= 80 && dia <= 89):
		return BPStage1
	case sys >= 120 && sys <= 129 && dia < 80:
		return BPElevated
	case sys < 120 && dia < 80:
		return BPNormal
	default:
		return BPUnknown
	}
}

// ClassifyPulse maps beats-per-minute onto the pulse ladder.
func ClassifyPulse(bpm float64) Category {
	if bpm == 0 || math.IsNaN(bpm) {
		return PulseUnknown
	}
	switch {
	case bpm > 100:
		return PulseTachy
	case bpm >= 60:
		return PulseNormal
	default:
		return PulseBrady
	}
}

// ClassifyPulsePressure maps a pulse pressure (sys - dia) onto its ladder.
// Negative values have no clinical rule.
func ClassifyPulsePressure(pp float64) Category {
	if math.IsNaN(pp) {
		return PPUnknown
	}
	switch {
	case pp >= 66:
		return PPVeryWidened
	case pp >= 61:
		return PPWidened
	case pp >= 41:
		return PPNormal
	case pp >= 0:
		return PPNarrowed
	default:
		return PPUnknown
	}
}
