package fault

import (
	"github.com/AbdulRahmanTaleb/IronMaskPlus/pkg/circuit"
	"github.com/AbdulRahmanTaleb/IronMaskPlus/pkg/util/collection/enum"
)

// InputPrefixes enumerates every adversarial input-share fault prefix per
// spec.md §4.5.1: for each share-level input, any subset of size
// 0..floor((d-1)/2) of its d duplicates may be corrupted before any internal
// fault is added. The result is the Cartesian product of these per-share
// choices across all share-level inputs, with the all-empty tuple excluded
// (that case is already covered by plain CRP).
//
// Per spec.md's Open Question, the empty subset is included at each
// per-share level during construction (so recursion composes correctly
// across inputs) and stripped only once, at the top level -- this is also
// what keeps d=1 (bound 0) correctly reducing CRPC to CRP: the only
// per-share subset is then empty, the Cartesian product is the single empty
// prefix, and it gets excluded.
func InputPrefixes(c *circuit.Circuit) []Set {
	bound := c.CorrectionBound()
	if len(c.Inputs) == 0 {
		return nil
	}

	perShare := make([][]Set, len(c.Inputs))
	for i, input := range c.Inputs {
		perShare[i] = shareSubsets(c.InputDuplicates(input), bound)
	}

	all := cartesianUnion(perShare)

	out := make([]Set, 0, len(all))

	for _, prefix := range all {
		if len(prefix) != 0 {
			out = append(out, prefix)
		}
	}

	return out
}

// shareSubsets returns every subset of dups of size 0..bound, as fault
// Sets, the empty subset included.
func shareSubsets(dups []circuit.Wire, bound uint) []Set {
	subsets := []Set{{}}

	for size := uint(1); size <= bound; size++ {
		it := enum.Combinations(dups, size)
		for it.HasNext() {
			subsets = append(subsets, NewSet(it.Next()...))
		}
	}

	return subsets
}

// cartesianUnion computes, for a list of per-input choice-sets, every way
// of picking one choice per input and unioning them together.
func cartesianUnion(choices [][]Set) []Set {
	combined := []Set{{}}

	for _, options := range choices {
		next := make([]Set, 0, len(combined)*len(options))

		for _, prefix := range combined {
			for _, option := range options {
				next = append(next, prefix.Union(option))
			}
		}

		combined = next
	}

	return combined
}
