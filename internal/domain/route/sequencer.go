package route

import (
	"math"

	"github.com/FACorreiaa/loci-route-engine/internal/routing"
)

// sequencedRoute is an ordered candidate subset with its travel totals.
type sequencedRoute struct {
	order         []int         // candidate ranks in visit order
	legs          []routing.Leg // legs[i] is the leg into stop i
	travelKm      float64
	travelMinutes float64
}

// sequenceSubset orders a subset of candidate ranks into an open walking path
// from the start node: grow a fragment by attaching the nearest unvisited
// node to either fragment end, anchor the start to the nearer end, then run
// 2-opt until stable. Deterministic: candidates are scanned in rank order,
// cost comparisons are strict, and tail extension wins endpoint ties.
func sequenceSubset(m *Matrix, subset []int) sequencedRoute {
	duration := func(i, j int) float64 { return m.At(i, j).DurationMinutes }
	node := func(rank int) int { return rank + 1 }

	remaining := append([]int(nil), subset...)

	seedIdx := 0
	for i := 1; i < len(remaining); i++ {
		if duration(0, node(remaining[i])) < duration(0, node(remaining[seedIdx])) {
			seedIdx = i
		}
	}
	fragment := []int{node(remaining[seedIdx])}
	remaining = append(remaining[:seedIdx], remaining[seedIdx+1:]...)

	for len(remaining) > 0 {
		head := fragment[0]
		tail := fragment[len(fragment)-1]
		bestIdx, bestCost, atTail := 0, math.Inf(1), true
		for i, r := range remaining {
			u := node(r)
			if c := duration(tail, u); c < bestCost {
				bestIdx, bestCost, atTail = i, c, true
			}
			if c := duration(u, head); c < bestCost {
				bestIdx, bestCost, atTail = i, c, false
			}
		}
		u := node(remaining[bestIdx])
		if atTail {
			fragment = append(fragment, u)
		} else {
			fragment = append([]int{u}, fragment...)
		}
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	if duration(0, fragment[len(fragment)-1]) < duration(0, fragment[0]) {
		for i, j := 0, len(fragment)-1; i < j; i, j = i+1, j-1 {
			fragment[i], fragment[j] = fragment[j], fragment[i]
		}
	}

	order := append([]int{0}, fragment...)
	order = improveOrder2Opt(duration, order)

	seq := sequencedRoute{
		order: make([]int, 0, len(order)-1),
		legs:  make([]routing.Leg, 0, len(order)-1),
	}
	for i := 1; i < len(order); i++ {
		leg := m.At(order[i-1], order[i])
		seq.order = append(seq.order, order[i]-1)
		seq.legs = append(seq.legs, leg)
		seq.travelKm += leg.DistanceKm
		seq.travelMinutes += leg.DurationMinutes
	}
	return seq
}

// improveOrder2Opt reverses path segments while a reversal wins by a strict
// margin. Position 0 stays pinned, the path is open (no return edge).
func improveOrder2Opt(duration func(int, int) float64, order []int) []int {
	if len(order) < 3 {
		return order
	}
	improved := true
	for improved {
		improved = false
		for i := 1; i < len(order)-1; i++ {
			for k := i + 1; k < len(order); k++ {
				candidate := append([]int(nil), order...)
				for a, b := i, k; a < b; a, b = a+1, b-1 {
					candidate[a], candidate[b] = candidate[b], candidate[a]
				}
				if pathCost(duration, candidate)+1e-9 < pathCost(duration, order) {
					order = candidate
					improved = true
				}
			}
		}
	}
	return order
}

func pathCost(duration func(int, int) float64, order []int) float64 {
	total := 0.0
	for i := 1; i < len(order); i++ {
		total += duration(order[i-1], order[i])
	}
	return total
}
