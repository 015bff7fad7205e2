package fault

import (
	"github.com/AbdulRahmanTaleb/IronMaskPlus/pkg/circuit"
	"github.com/AbdulRahmanTaleb/IronMaskPlus/pkg/poly"
)

// IsCorrectable decides whether a faulted output vector is recoverable by
// majority vote across duplications, per share, per spec.md §4.4. baseline
// must have been produced against the same evaluation context as faulted --
// in particular, if the fault set that produced faulted includes any random
// wires, baseline must itself have been recomputed with those same randoms
// forced (see the Enumerator's fault-aware baseline selection, which owns
// this contract).
func IsCorrectable(c *circuit.Circuit, faulted, baseline ValueTable) bool {
	bound := c.CorrectionBound()
	corrupted := make([]uint, c.Shares)

	for name, share := range c.OutputIdxFromDuplicate {
		if !poly.Equal(faulted[name], baseline[name]) {
			corrupted[share]++
		}
	}

	for _, k := range corrupted {
		if k > bound {
			return false
		}
	}

	return true
}
