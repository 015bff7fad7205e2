package fault

import (
	"strings"
	"testing"

	"github.com/AbdulRahmanTaleb/IronMaskPlus/pkg/circuit"
	"github.com/AbdulRahmanTaleb/IronMaskPlus/pkg/poly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseCircuit(t *testing.T, text string) *circuit.Circuit {
	t.Helper()

	c, err := circuit.Parse("test", strings.NewReader(text))
	require.NoError(t, err)

	return c
}

// S1 (smoke). A single copy from an input duplicate straight to the sole
// output duplicate. Per spec.md §4.5's formal "names" construction (eqs.dst
// ∪ randoms ∪ eqs_outputs.dst, matching original_source's
// get_uncorrected_faulty_combs_CRP exactly), input duplicates like a0_0 are
// never themselves CRP fault candidates -- only CRPC's prefix enumeration
// (§4.5.1) ever faults an input duplicate directly. So with no internal
// equations and no randoms, names = {o0_0} and the only CRP scenario is
// faulting the output wire itself.
func TestS1Smoke(t *testing.T) {
	c := parseCircuit(t, `SHARES 1
DUPLICATIONS 1
IN a
RANDOMS
OUT o
o0_0 = a0_0
`)

	a := NewAnalyzer(c)
	length, scenarios := a.RunCRP(1, true)

	assert.Equal(t, uint(1), length)
	require.Len(t, scenarios, 1)
	assert.Equal(t, Scenario{"o0_0"}, scenarios[0])
}

// S2: 3-way duplication tolerates a single fault (bound = (3-1)/2 = 1).
func threeDupCopyCircuit(t *testing.T) *circuit.Circuit {
	return parseCircuit(t, `SHARES 1
DUPLICATIONS 3
IN a
RANDOMS
OUT o
o0_0 = a0_0
o0_1 = a0_1
o0_2 = a0_2
`)
}

func TestS2ToleratesSingleFault(t *testing.T) {
	c := threeDupCopyCircuit(t)
	a := NewAnalyzer(c)

	_, scenarios := a.RunCRP(1, true)
	assert.Empty(t, scenarios)
}

// S3: any pair of faults corrupting two of the three output duplicates of
// the single share exceeds the bound.
func TestS3PairsExceedBound(t *testing.T) {
	c := threeDupCopyCircuit(t)
	a := NewAnalyzer(c)

	_, scenarios := a.RunCRP(2, true)
	assert.Len(t, scenarios, 3)

	seen := map[string]bool{}
	for _, s := range scenarios {
		require.Len(t, s, 2)
		seen[setKey(s)] = true
	}

	for _, pair := range [][2]string{{"o0_0", "o0_1"}, {"o0_0", "o0_2"}, {"o0_1", "o0_2"}} {
		assert.True(t, seen[setKey(pair[:])], "expected pair %v among scenarios", pair)
	}
}

func setKey(s []string) string {
	cp := append([]string{}, s...)
	// simple order-independent key for a 2-element scenario
	if len(cp) == 2 && cp[0] > cp[1] {
		cp[0], cp[1] = cp[1], cp[0]
	}

	return strings.Join(cp, ",")
}

// S4: random masking. t = a0_0 + r; u = t + r; o0_0 = u; o1_0 = a1_0.
// Faulting only the random r must be reported correctable once the
// baseline is recomputed under that same forced random.
func TestS4RandomMaskingPreservesEquality(t *testing.T) {
	c := parseCircuit(t, `SHARES 2
DUPLICATIONS 1
IN a
RANDOMS r
OUT o
t = a0_0 + r
u = t + r
o0_0 = u
o1_0 = a1_0
`)

	a := NewAnalyzer(c)

	ring := poly.NewRing(c.RingVariables())
	_, baseline := Evaluate(ring, c, Set{}, true)
	assert.True(t, poly.Equal(baseline["o0_0"], ring.Var("a0")), "r should cancel out of o0_0 in the baseline")

	faults := NewSet("r")
	recomputedBaseline := a.baselineFor(faults, true)
	_, faulted := Evaluate(a.Ring, c, faults, true)

	assert.True(t, IsCorrectable(c, faulted, recomputedBaseline))
}

// S5: NEG parsing. "t = ~a0_0" must evaluate to var(a0) + 1.
func TestS5NegParsing(t *testing.T) {
	c := parseCircuit(t, `SHARES 1
DUPLICATIONS 1
IN a
RANDOMS
OUT o
t = ~a0_0
o0_0 = t
`)

	require.Len(t, c.Eqs, 1)
	neg, ok := c.Eqs[0].Form.(circuit.Neg)
	require.True(t, ok)
	assert.Equal(t, circuit.Wire("a0_0"), neg.Src)

	ring := poly.NewRing(c.RingVariables())
	internal, _ := Evaluate(ring, c, Set{}, true)

	want := ring.Add(ring.Var("a0"), ring.One())
	assert.True(t, poly.Equal(internal["t"], want))
}

// S6: CRPC prefix enumeration with k=0 on a 3-duplication circuit with a
// single input produces exactly the 3 size-1 input-duplicate prefixes, each
// with zero internal scenarios.
func TestS6CRPCPrefixes(t *testing.T) {
	c := threeDupCopyCircuit(t)
	a := NewAnalyzer(c)

	_, prefixes, scenarios := a.RunCRPC(0, true)

	require.Len(t, prefixes, 3)

	wantWires := map[string]bool{"a0_0": true, "a0_1": true, "a0_2": true}

	for _, p := range prefixes {
		require.Len(t, p, 1)

		for w := range p {
			assert.True(t, wantWires[w])
		}
	}

	for _, s := range scenarios {
		assert.Empty(t, s)
	}
}
