package route

import (
	"github.com/FACorreiaa/loci-route-engine/internal/types"
)

// selectionEpsilon is the minute margin under which two totals count as equal
// and cumulative relevance decides instead.
const selectionEpsilon = 1e-6

// evaluatedRoute prices one sequenced subset against the reduced budget.
type evaluatedRoute struct {
	seq            sequencedRoute
	visitMinutes   []float64 // clamped, aligned with seq.order
	ids            []string  // POI ids in visit order
	totalMinutes   float64
	rankSum        int
	feasible       bool
	overrunMinutes float64
}

// evaluateRoute computes total minutes for a sequenced subset: travel plus
// clamped visits plus transition padding between consecutive stops. Pure
// arithmetic, no I/O.
func evaluateRoute(seq sequencedRoute, cands []types.POI, profile types.IntensityProfile, reducedBudget float64) evaluatedRoute {
	ev := evaluatedRoute{
		seq:          seq,
		visitMinutes: make([]float64, 0, len(seq.order)),
		ids:          make([]string, 0, len(seq.order)),
	}

	total := seq.travelMinutes
	for i, rank := range seq.order {
		visit := profile.VisitMinutesRange.Clamp(cands[rank].AvgVisitMinutes)
		ev.visitMinutes = append(ev.visitMinutes, visit)
		ev.ids = append(ev.ids, cands[rank].ID)
		ev.rankSum += rank
		total += visit
		if i > 0 {
			total += float64(profile.TransitionPaddingMinutes)
		}
	}

	ev.totalMinutes = total
	if total <= reducedBudget {
		ev.feasible = true
	} else {
		ev.overrunMinutes = total - reducedBudget
	}
	return ev
}

// betterRoute reports whether a should replace b as the selection incumbent.
// Feasible beats infeasible; among feasible: most stops, then lowest total,
// then (within epsilon) higher cumulative relevance, then the id tuple.
// Among infeasible: smallest overrun, same tail of tie-breaks.
func betterRoute(a, b evaluatedRoute) bool {
	if a.feasible != b.feasible {
		return a.feasible
	}

	if a.feasible {
		if len(a.ids) != len(b.ids) {
			return len(a.ids) > len(b.ids)
		}
		switch {
		case b.totalMinutes-a.totalMinutes > selectionEpsilon:
			return true
		case a.totalMinutes-b.totalMinutes > selectionEpsilon:
			return false
		}
	} else {
		switch {
		case b.overrunMinutes-a.overrunMinutes > selectionEpsilon:
			return true
		case a.overrunMinutes-b.overrunMinutes > selectionEpsilon:
			return false
		}
	}

	if a.rankSum != b.rankSum {
		return a.rankSum < b.rankSum
	}
	return lessIDTuple(a.ids, b.ids)
}

func lessIDTuple(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
