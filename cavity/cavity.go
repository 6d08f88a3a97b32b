// Package cavity implements the cavity framework shared by every local
// mesh operator: given a set of candidate keys and, for each, the set
// of domain entities its replacement would touch, select a
// conflict-free independent subset and gate acceptance on a monotone
// quality improvement. Every local operator (refine, coarsen, swap)
// builds its own per-dimension product topology on top of this; this
// package only owns what is common to all three: conflict detection,
// the accept-iff-improves rule, and the partition-safety assertion.
package cavity

import (
	"math"
	"sort"

	"github.com/deadsy/meshadapt/mesh"
)

// Candidate is one proposed local modification: a key entity, the set
// of domain entities (of whatever dimension the operator cares about)
// its cavity touches, and a priority used to order greedy acceptance
// (e.g. descending quality gain).
type Candidate struct {
	Key      int32
	Domains  []int32
	Priority float64
}

// SelectIndependent greedily accepts candidates in descending priority
// order (ties broken by ascending Key, for reproducibility across runs
// and partitions), skipping any candidate whose Domains
// overlap an already-accepted candidate's. It returns the indices into
// candidates that were accepted.
func SelectIndependent(candidates []Candidate) []int {
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := candidates[order[i]], candidates[order[j]]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.Key < b.Key
	})

	used := make(map[int32]bool)
	var accepted []int
	for _, idx := range order {
		c := candidates[idx]
		conflict := false
		for _, d := range c.Domains {
			if used[d] {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}
		for _, d := range c.Domains {
			used[d] = true
		}
		accepted = append(accepted, idx)
	}
	return accepted
}

// AcceptQuality applies the monotone quality-acceptance rule: the
// replacement is rejected unless its minimum quality meets or exceeds
// the cavity's old minimum quality. strict selects '>' vs. '>='; both
// are defensible on ties, so the choice is the caller's.
func AcceptQuality(newMin, oldMin float64, strict bool) bool {
	if strict {
		return newMin > oldMin
	}
	return newMin >= oldMin
}

// MinQuality returns the minimum of qualities, or +Inf if empty (an
// empty cavity trivially "improves").
func MinQuality(qualities []float64) float64 {
	min := math.Inf(1)
	for _, q := range qualities {
		if q < min {
			min = q
		}
	}
	return min
}

// AssertOwnersHaveAllUpward enforces the required partition property
// before an operator commits: owners must have all upward adjacency up
// to dimension d. A false value is a partition-safety failure: fatal,
// not a candidate rejection.
func AssertOwnersHaveAllUpward(ownersHaveAllUpward bool, dim int) error {
	if !ownersHaveAllUpward {
		return mesh.Fatalf("cavity.AssertOwnersHaveAllUpward", "owners do not have all upward adjacency at dimension %d", dim)
	}
	return nil
}
