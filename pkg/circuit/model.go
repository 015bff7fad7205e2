// Package circuit holds the in-memory representation of a parsed masked and
// duplicated Boolean circuit: its ordered equation list, its input
// share/duplication topology, its random wire set, and the reverse indices
// the fault enumerator needs to map duplicated wires back to shares.
package circuit

import "strconv"

// Wire is an opaque wire identifier, e.g. "a0", "a0_1", "r3", "t17".
type Wire = string

// Op identifies a binary gate operation.
type Op uint8

const (
	// ADD is XOR in GF(2).
	ADD Op = iota
	// MUL is AND in GF(2).
	MUL
)

// String renders an Op the way it appears in a circuit file.
func (o Op) String() string {
	if o == MUL {
		return "*"
	}

	return "+"
}

// Form is the right-hand side of an Equation. It is one of Copy, Neg or
// BinOp.
type Form interface {
	isForm()
}

// Copy is "dst = src".
type Copy struct {
	Src Wire
}

func (Copy) isForm() {}

// Neg is "dst = 1 + src", parsed from the "~src" shorthand.
type Neg struct {
	Src Wire
}

func (Neg) isForm() {}

// BinOp is "dst = a <op> b".
type BinOp struct {
	Op   Op
	A, B Wire
}

func (BinOp) isForm() {}

// Equation is dst = form, where every non-constant wire named in form is
// either an input duplicate, a random wire, a constant, or an earlier dst in
// the same circuit (the parser preserves this topological order).
type Equation struct {
	Dst  Wire
	Form Form
}

// Circuit is the immutable, parsed representation of a masked/duplicated
// circuit description. It is built once by Parse and never mutated
// afterwards; per-fault-scenario evaluation (package fault) only ever reads
// from it.
type Circuit struct {
	// Shares is s, the number of additive shares of the (single) secret
	// input/output.
	Shares uint
	// Duplications is d, the number of redundant copies of each share used
	// for majority-vote correction.
	Duplications uint
	// Inputs lists the s*|original inputs| share-level input names, e.g.
	// for original input "a" and s=2: "a0", "a1".
	Inputs []Wire
	// InputNameFromDuplicate maps a duplicated input name (e.g. "a0_1") to
	// its share-level name ("a0").
	InputNameFromDuplicate map[Wire]Wire
	// Randoms is the set of random wire names, in declaration order.
	Randoms []Wire
	// Eqs is the ordered list of internal equations (outputs removed per
	// the last-definition-wins rule).
	Eqs []Equation
	// EqsOutputs is the ordered list of output-duplicate equations.
	// len(EqsOutputs) == Shares*Duplications.
	EqsOutputs []Equation
	// OutputIdxFromDuplicate maps an output-duplicate name to its share
	// index i in [0, Shares).
	OutputIdxFromDuplicate map[Wire]uint
}

// CorrectionBound is the maximum number of corrupted duplicates of a single
// share that majority vote can still correct: floor((d-1)/2).
func (c *Circuit) CorrectionBound() uint {
	return (c.Duplications - 1) / 2
}

// IsRandom reports whether name is one of this circuit's random wires.
func (c *Circuit) IsRandom(name Wire) bool {
	for _, r := range c.Randoms {
		if r == name {
			return true
		}
	}

	return false
}

// Names returns, in the order required by spec.md's Enumerator setup,
// eqs.dst ++ randoms ++ eqs_outputs.dst -- the full universe of wires a
// fault scenario may target.
func (c *Circuit) Names() []Wire {
	names := make([]Wire, 0, len(c.Eqs)+len(c.Randoms)+len(c.EqsOutputs))

	for _, e := range c.Eqs {
		names = append(names, e.Dst)
	}

	names = append(names, c.Randoms...)

	for _, e := range c.EqsOutputs {
		names = append(names, e.Dst)
	}

	return names
}

// RingVariables returns the fixed variable universe for a poly.Ring
// evaluating this circuit: the share-level inputs followed by the randoms.
// Duplicated-input names and internal wire names are deliberately excluded
// -- they are bound to polynomials over these variables, not indeterminates
// themselves.
func (c *Circuit) RingVariables() []string {
	vars := make([]string, 0, len(c.Inputs)+len(c.Randoms))
	vars = append(vars, c.Inputs...)
	vars = append(vars, c.Randoms...)

	return vars
}

// InputDuplicates returns, for a given share-level input name, its d
// duplicate wire names "<input>_0".."<input>_(d-1)", in order.
func (c *Circuit) InputDuplicates(input Wire) []Wire {
	dups := make([]Wire, c.Duplications)
	for j := uint(0); j < c.Duplications; j++ {
		dups[j] = duplicateName(input, j)
	}

	return dups
}

func duplicateName(base Wire, j uint) Wire {
	return base + "_" + strconv.FormatUint(uint64(j), 10)
}
