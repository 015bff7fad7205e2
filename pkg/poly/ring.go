// Package poly implements Boolean polynomial arithmetic: the quotient ring
// GF(2)[x1,...,xn]/(xi^2-xi) used by the fault enumerator to evaluate
// circuits symbolically. Random wires are kept as free indeterminates so
// that a wire whose value merely *looks* different under a fault, but is
// actually unchanged up to the randomness it carries, is correctly
// recognised as unchanged.
package poly

// Ring fixes a variable universe at construction time and hands out
// Polynomial values over it. Per the data model, the universe is the set of
// share-level input names plus the random wire names of a circuit --
// duplicated-input names and internal wire names are never ring variables
// themselves; they are bound to polynomials built from these.
type Ring struct {
	names []string
	index map[string]uint
}

// NewRing constructs a ring whose indeterminates are exactly the given
// names, in the given order. Names must be distinct.
func NewRing(names []string) *Ring {
	index := make(map[string]uint, len(names))
	for i, n := range names {
		index[n] = uint(i)
	}

	return &Ring{names: append([]string{}, names...), index: index}
}

// Zero returns the additive identity, 0.
func (r *Ring) Zero() Polynomial {
	return Polynomial{}
}

// One returns the multiplicative identity, 1.
func (r *Ring) One() Polynomial {
	return Polynomial{terms: []Monomial{monomialOne(uint(len(r.names)))}}
}

// Var returns the polynomial consisting of exactly the named indeterminate.
// Panics if name is not part of this ring's variable universe -- that would
// indicate an internal invariant violation (see spec's InternalInvariant
// error class), since callers only ever look up share-level input names and
// random wire names, both fixed when the ring was constructed.
func (r *Ring) Var(name string) Polynomial {
	idx, ok := r.index[name]
	if !ok {
		panic("poly: unknown ring variable " + name)
	}

	return Polynomial{terms: []Monomial{monomialVar(uint(len(r.names)), idx)}}
}

// Add returns p + q (XOR) in this ring.
func (r *Ring) Add(p, q Polynomial) Polynomial {
	return add(p, q)
}

// Mul returns p * q (AND, distributed) in this ring.
func (r *Ring) Mul(p, q Polynomial) Polynomial {
	return mul(p, q)
}

// Names returns the ring's variable universe, in index order. Exposed so
// callers (e.g. the reporter) can render Polynomial.String output.
func (r *Ring) Names() []string {
	return r.names
}
