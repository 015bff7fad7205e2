// Package fault implements the core of the analyzer: symbolic evaluation of
// a circuit under a candidate fault set (Evaluate), the majority-vote
// correction decision (IsCorrectable), and the CRP/CRPC combinatorial
// drivers (RunCRP, RunCRPC) that together decide which fault scenarios
// defeat correction.
package fault

import (
	"github.com/AbdulRahmanTaleb/IronMaskPlus/pkg/circuit"
	"github.com/AbdulRahmanTaleb/IronMaskPlus/pkg/poly"
)

// Set is an unordered selection of wire names forced to a single constant
// polarity by a candidate fault scenario.
type Set map[circuit.Wire]struct{}

// NewSet builds a fault Set from zero or more wire names.
func NewSet(wires ...circuit.Wire) Set {
	s := make(Set, len(wires))
	for _, w := range wires {
		s[w] = struct{}{}
	}

	return s
}

// Union returns a new Set containing every wire in either s or other.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for w := range s {
		out[w] = struct{}{}
	}

	for w := range other {
		out[w] = struct{}{}
	}

	return out
}

// Wires returns this set's members as a slice, in no particular order (set
// semantics only -- see spec.md §8, property 7).
func (s Set) Wires() []circuit.Wire {
	out := make([]circuit.Wire, 0, len(s))
	for w := range s {
		out = append(out, w)
	}

	return out
}

// ValueTable maps wire names to the symbolic polynomial currently bound to
// them during one Evaluate call.
type ValueTable map[circuit.Wire]poly.Polynomial

// Evaluate computes the symbolic value of every internal and output wire of
// c, given a fault set and polarity, per spec.md §4.3. It is pure: it
// allocates a fresh pair of value tables and never mutates c.
func Evaluate(ring *poly.Ring, c *circuit.Circuit, faults Set, set bool) (internal, output ValueTable) {
	internal = make(ValueTable, len(c.Randoms)+len(c.InputNameFromDuplicate)+len(c.Eqs)+2)

	var forcedVal poly.Polynomial
	if set {
		forcedVal = ring.One()
	} else {
		forcedVal = ring.Zero()
	}

	bind := func(name circuit.Wire, natural poly.Polynomial) poly.Polynomial {
		if _, hit := faults[name]; hit {
			return forcedVal
		}

		return natural
	}

	// Step 1/2: random wires and the two constants.
	internal["0"] = bind("0", ring.Zero())
	internal["1"] = bind("1", ring.One())

	for _, r := range c.Randoms {
		internal[r] = bind(r, ring.Var(r))
	}

	// Step 3: duplicated inputs bind to their share-level indeterminate,
	// unless individually faulted.
	for dup, share := range c.InputNameFromDuplicate {
		internal[dup] = bind(dup, ring.Var(share))
	}

	// Step 4: internal equations, in their topological order.
	for _, eq := range c.Eqs {
		internal[eq.Dst] = bind(eq.Dst, evalForm(ring, eq.Form, internal))
	}

	// Step 5: output equations, same discipline, writing into their own
	// table.
	output = make(ValueTable, len(c.EqsOutputs))
	for _, eq := range c.EqsOutputs {
		output[eq.Dst] = bind(eq.Dst, evalForm(ring, eq.Form, internal))
	}

	return internal, output
}

func evalForm(ring *poly.Ring, form circuit.Form, vals ValueTable) poly.Polynomial {
	switch f := form.(type) {
	case circuit.Copy:
		return vals[f.Src]
	case circuit.Neg:
		return ring.Add(ring.One(), vals[f.Src])
	case circuit.BinOp:
		a, b := vals[f.A], vals[f.B]
		if f.Op == circuit.MUL {
			return ring.Mul(a, b)
		}

		return ring.Add(a, b)
	default:
		panic("fault: unknown equation form")
	}
}
