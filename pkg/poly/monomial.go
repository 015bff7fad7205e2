package poly

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Monomial is a product of zero or more ring variables. Since this ring is
// GF(2)[x]/(xi^2-xi), a variable occurring any number of times collapses to
// occurring once: a monomial is therefore just the *set* of variables it
// contains, represented as a bitset indexed by the ring's fixed variable
// universe. The empty monomial is the multiplicative identity (constant 1).
type Monomial struct {
	vars *bitset.BitSet
}

// monomialOne is the empty product, i.e. the constant 1.
func monomialOne(nvars uint) Monomial {
	return Monomial{bitset.New(nvars)}
}

// monomialVar is the monomial consisting of a single variable.
func monomialVar(nvars uint, index uint) Monomial {
	b := bitset.New(nvars)
	b.Set(index)

	return Monomial{b}
}

// mul returns the product of two monomials. Since xi*xi=xi in this ring, the
// result is simply the union of the two variable sets.
func (m Monomial) mul(other Monomial) Monomial {
	return Monomial{m.vars.Union(other.vars)}
}

// equal performs structural (set) equality between two monomials.
func (m Monomial) equal(other Monomial) bool {
	return m.vars.Equal(other.vars)
}

// less imposes an arbitrary but total and deterministic order over
// monomials, used only to keep a polynomial's term list in a canonical,
// reproducible order. Smaller monomials (fewer variables) sort first; ties
// are broken lexicographically on variable index.
func (m Monomial) less(other Monomial) bool {
	mc, oc := m.vars.Count(), other.vars.Count()
	if mc != oc {
		return mc < oc
	}

	mi, mok := m.vars.NextSet(0)
	oi, ook := other.vars.NextSet(0)

	for mok && ook {
		if mi != oi {
			return mi < oi
		}

		mi, mok = m.vars.NextSet(mi + 1)
		oi, ook = other.vars.NextSet(oi + 1)
	}

	return false
}

// key returns a canonical string uniquely identifying this monomial's
// variable set; used to de-duplicate terms when summing polynomials.
func (m Monomial) key() string {
	var sb strings.Builder

	for i, ok := m.vars.NextSet(0); ok; i, ok = m.vars.NextSet(i + 1) {
		sb.WriteString(strconv.FormatUint(uint64(i), 10))
		sb.WriteByte(',')
	}

	return sb.String()
}

// String renders a monomial using the given variable names, e.g. "a0*r3".
func (m Monomial) string(names []string) string {
	if m.vars.Count() == 0 {
		return "1"
	}

	var sb strings.Builder

	first := true

	for i, ok := m.vars.NextSet(0); ok; i, ok = m.vars.NextSet(i + 1) {
		if !first {
			sb.WriteByte('*')
		}

		first = false
		sb.WriteString(names[i])
	}

	return sb.String()
}
