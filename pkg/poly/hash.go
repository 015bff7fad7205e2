package poly

import "hash/fnv"

// Hash returns a hash of this polynomial's canonical form. Two structurally
// equal polynomials always hash equal; this is used only to accelerate
// memoized comparisons (e.g. a cache keyed on faulted-output vectors), never
// as a substitute for Equal.
func (p Polynomial) Hash() uint64 {
	h := fnv.New64a()

	for _, m := range p.terms {
		_, _ = h.Write([]byte(m.key()))
		_, _ = h.Write([]byte{0})
	}

	return h.Sum64()
}
