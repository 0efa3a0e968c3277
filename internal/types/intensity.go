package types

import "fmt"

// IntensityLabel selects how packed the produced itinerary should be.
type IntensityLabel string

const (
	IntensityRelaxed IntensityLabel = "relaxed"
	IntensityMedium  IntensityLabel = "medium"
	IntensityIntense IntensityLabel = "intense"
)

// VisitMinutesRange bounds how long a single stop may take at a given pace.
type VisitMinutesRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Clamp forces an estimated visit duration into the range. Non-positive or
// missing estimates collapse to Min.
func (r VisitMinutesRange) Clamp(minutes float64) float64 {
	if minutes < float64(r.Min) {
		return float64(r.Min)
	}
	if minutes > float64(r.Max) {
		return float64(r.Max)
	}
	return minutes
}

// IntensityProfile is the pacing contract derived from an intensity label:
// how many stops per hour to aim for, how long each visit may run, how much
// slack between stops, and how much of the budget is held back.
type IntensityProfile struct {
	Label                    IntensityLabel    `json:"label"`
	TargetPerHour            float64           `json:"target_per_hour"`
	VisitMinutesRange        VisitMinutesRange `json:"visit_minutes_range"`
	TransitionPaddingMinutes int               `json:"transition_padding_minutes"`
	SafetyBufferMinutes      int               `json:"safety_buffer_minutes"`
}

var intensityProfiles = map[IntensityLabel]IntensityProfile{
	IntensityRelaxed: {
		Label:                    IntensityRelaxed,
		TargetPerHour:            2.0,
		VisitMinutesRange:        VisitMinutesRange{Min: 15, Max: 30},
		TransitionPaddingMinutes: 8,
		SafetyBufferMinutes:      15,
	},
	IntensityMedium: {
		Label:                    IntensityMedium,
		TargetPerHour:            3.0,
		VisitMinutesRange:        VisitMinutesRange{Min: 10, Max: 15},
		TransitionPaddingMinutes: 5,
		SafetyBufferMinutes:      10,
	},
	IntensityIntense: {
		Label:                    IntensityIntense,
		TargetPerHour:            4.0,
		VisitMinutesRange:        VisitMinutesRange{Min: 7, Max: 12},
		TransitionPaddingMinutes: 3,
		SafetyBufferMinutes:      8,
	},
}

// ProfileFor resolves the pacing profile for a label. Unknown labels are an
// input error, never defaulted.
func ProfileFor(label IntensityLabel) (IntensityProfile, error) {
	p, ok := intensityProfiles[label]
	if !ok {
		return IntensityProfile{}, fmt.Errorf("%w: unknown intensity %q", ErrBadRequest, label)
	}
	return p, nil
}
