package route

import (
	"math"

	"github.com/FACorreiaa/loci-route-engine/internal/types"
)

const (
	// maxSubsetSize caps how many stops a single itinerary may carry.
	maxSubsetSize = 8
	// rankSlack widens the enumeration pool beyond the target so slightly
	// lower-ranked candidates can displace awkwardly placed top ones.
	rankSlack = 3
)

// targetStopCount converts the time budget and pace into a stop target,
// clamped to what the candidate list and the subset cap allow. Never zero.
func targetStopCount(availableHours float64, profile types.IntensityProfile, candidates int) int {
	target := int(math.Round(availableHours * profile.TargetPerHour))
	limit := candidates
	if limit > maxSubsetSize {
		limit = maxSubsetSize
	}
	if target > limit {
		target = limit
	}
	if target < 1 {
		target = 1
	}
	return target
}

// subsetIterator lazily yields size-k combinations of candidate ranks in
// lexicographic order, so subsets drawn from the highest-ranked prefix come
// first. The pool is the top k+rankSlack ranks. Finite; restart by building
// a new iterator.
type subsetIterator struct {
	poolSize int
	k        int
	state    []int
	done     bool
}

func newSubsetIterator(candidates, k int) *subsetIterator {
	if k > candidates {
		k = candidates
	}
	pool := k + rankSlack
	if pool > candidates {
		pool = candidates
	}
	return &subsetIterator{poolSize: pool, k: k}
}

// next returns the following combination of candidate ranks, or false when
// the enumeration is exhausted. The returned slice is owned by the caller.
func (it *subsetIterator) next() ([]int, bool) {
	if it.done || it.k == 0 {
		return nil, false
	}

	if it.state == nil {
		it.state = make([]int, it.k)
		for i := range it.state {
			it.state[i] = i
		}
		return append([]int(nil), it.state...), true
	}

	// Advance the rightmost index that can still move.
	i := it.k - 1
	for i >= 0 && it.state[i] == it.poolSize-it.k+i {
		i--
	}
	if i < 0 {
		it.done = true
		return nil, false
	}
	it.state[i]++
	for j := i + 1; j < it.k; j++ {
		it.state[j] = it.state[j-1] + 1
	}
	return append([]int(nil), it.state...), true
}
