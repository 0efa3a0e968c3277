package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/loci-route-engine/internal/routing"
)

// matrixFromDurations builds a test matrix where distance mirrors duration at
// walking speed. Index 0 is the start node.
func matrixFromDurations(durations [][]float64) *Matrix {
	n := len(durations)
	legs := make([][]routing.Leg, n)
	for i := range legs {
		legs[i] = make([]routing.Leg, n)
		for j := range legs[i] {
			legs[i][j] = routing.Leg{
				DistanceKm:      durations[i][j] * routing.WalkingSpeedKmh / 60,
				DurationMinutes: durations[i][j],
			}
		}
	}
	return &Matrix{Legs: legs}
}

// lineDurations places nodes on a line at the given positions; travel time is
// the position gap.
func lineDurations(positions ...float64) [][]float64 {
	n := len(positions)
	durations := make([][]float64, n)
	for i := range durations {
		durations[i] = make([]float64, n)
		for j := range durations[i] {
			d := positions[i] - positions[j]
			if d < 0 {
				d = -d
			}
			durations[i][j] = d
		}
	}
	return durations
}

func TestSequenceSubset_WalksALineInOrder(t *testing.T) {
	// Start at 0, candidates with ranks 0,1,2 at positions 1,2,3.
	m := matrixFromDurations(lineDurations(0, 1, 2, 3))

	seq := sequenceSubset(m, []int{0, 1, 2})

	assert.Equal(t, []int{0, 1, 2}, seq.order)
	assert.InDelta(t, 3.0, seq.travelMinutes, 1e-9)
	require.Len(t, seq.legs, 3)
	assert.InDelta(t, 1.0, seq.legs[0].DurationMinutes, 1e-9)
}

func TestSequenceSubset_StartsFromNearestCandidate(t *testing.T) {
	// Rank 2 sits closest to the start, so the path runs 2 -> 1 -> 0.
	m := matrixFromDurations(lineDurations(0, 3, 2, 1))

	seq := sequenceSubset(m, []int{0, 1, 2})

	assert.Equal(t, []int{2, 1, 0}, seq.order)
	assert.InDelta(t, 3.0, seq.travelMinutes, 1e-9)
}

func TestSequenceSubset_SingleStop(t *testing.T) {
	m := matrixFromDurations(lineDurations(0, 5))

	seq := sequenceSubset(m, []int{0})

	assert.Equal(t, []int{0}, seq.order)
	assert.InDelta(t, 5.0, seq.travelMinutes, 1e-9)
	assert.InDelta(t, 5.0*routing.WalkingSpeedKmh/60, seq.travelKm, 1e-9)
}

func TestSequenceSubset_Deterministic(t *testing.T) {
	m := matrixFromDurations(lineDurations(0, 2.5, 1.1, 4.2, 0.7, 3.3))
	subset := []int{0, 1, 2, 3, 4}

	first := sequenceSubset(m, subset)
	second := sequenceSubset(m, subset)

	assert.Equal(t, first.order, second.order)
	assert.Equal(t, first.travelMinutes, second.travelMinutes)
}

func TestSequenceSubset_DoesNotMutateSubset(t *testing.T) {
	m := matrixFromDurations(lineDurations(0, 1, 2, 3))
	subset := []int{0, 1, 2}

	_ = sequenceSubset(m, subset)

	assert.Equal(t, []int{0, 1, 2}, subset)
}

func TestImproveOrder2Opt_UncrossesPath(t *testing.T) {
	durations := lineDurations(0, 1, 2, 3)
	duration := func(i, j int) float64 { return durations[i][j] }

	// 0 -> 2 -> 1 -> 3 doubles back; reversing the middle fixes it.
	got := improveOrder2Opt(duration, []int{0, 2, 1, 3})

	assert.Equal(t, []int{0, 1, 2, 3}, got)
	assert.InDelta(t, 3.0, pathCost(duration, got), 1e-9)
}

func TestImproveOrder2Opt_KeepsOptimalPath(t *testing.T) {
	durations := lineDurations(0, 1, 2, 3)
	duration := func(i, j int) float64 { return durations[i][j] }

	got := improveOrder2Opt(duration, []int{0, 1, 2, 3})

	assert.Equal(t, []int{0, 1, 2, 3}, got)
}

func TestSequenceSubset_LegsMatchOrder(t *testing.T) {
	m := matrixFromDurations(lineDurations(0, 2, 1))

	seq := sequenceSubset(m, []int{0, 1})

	// Nearest is rank 1 (position 1), then rank 0 (position 2).
	require.Equal(t, []int{1, 0}, seq.order)
	assert.InDelta(t, 1.0, seq.legs[0].DurationMinutes, 1e-9)
	assert.InDelta(t, 1.0, seq.legs[1].DurationMinutes, 1e-9)

	totalLegs := 0.0
	for _, leg := range seq.legs {
		totalLegs += leg.DurationMinutes
	}
	assert.InDelta(t, seq.travelMinutes, totalLegs, 1e-9)
}
