package circuit_test

import (
	"strings"
	"testing"

	"github.com/AbdulRahmanTaleb/IronMaskPlus/pkg/circuit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeaderAndDuplicateNames(t *testing.T) {
	c, err := circuit.Parse("t.sim", strings.NewReader(`SHARES 2
DUPLICATIONS 3
IN a
RANDOMS r
OUT o
t = a0_0 + r
o0_0 = t
o0_1 = a0_1
o0_2 = a0_2
o1_0 = a1_0
o1_1 = a1_1
o1_2 = a1_2
`))
	require.NoError(t, err)

	assert.Equal(t, uint(2), c.Shares)
	assert.Equal(t, uint(3), c.Duplications)
	assert.Equal(t, uint(1), c.CorrectionBound())
	assert.Equal(t, []circuit.Wire{"a0", "a1"}, c.Inputs)
	assert.Equal(t, []circuit.Wire{"r"}, c.Randoms)
	assert.True(t, c.IsRandom("r"))
	assert.False(t, c.IsRandom("a0"))

	assert.Equal(t, circuit.Wire("a0"), c.InputNameFromDuplicate["a0_0"])
	assert.Equal(t, circuit.Wire("a0"), c.InputNameFromDuplicate["a0_2"])
	assert.Equal(t, circuit.Wire("a1"), c.InputNameFromDuplicate["a1_1"])

	assert.Equal(t, []circuit.Wire{"a0_0", "a0_1", "a0_2"}, c.InputDuplicates("a0"))

	// last-definition-wins: "t" feeds o0_0 and never itself becomes an output.
	require.Len(t, c.Eqs, 1)
	assert.Equal(t, circuit.Wire("t"), c.Eqs[0].Dst)
	require.Len(t, c.EqsOutputs, 6)

	assert.Equal(t, uint(0), c.OutputIdxFromDuplicate["o0_1"])
	assert.Equal(t, uint(1), c.OutputIdxFromDuplicate["o1_2"])
}

func TestParseNegAndMul(t *testing.T) {
	c, err := circuit.Parse("t.sim", strings.NewReader(`SHARES 1
DUPLICATIONS 1
IN a b
RANDOMS
OUT o
n = ~a0_0
m = n * b0_0
o0_0 = m
`))
	require.NoError(t, err)

	require.Len(t, c.Eqs, 2)

	neg, ok := c.Eqs[0].Form.(circuit.Neg)
	require.True(t, ok)
	assert.Equal(t, circuit.Wire("a0_0"), neg.Src)

	bin, ok := c.Eqs[1].Form.(circuit.BinOp)
	require.True(t, ok)
	assert.Equal(t, circuit.MUL, bin.Op)
	assert.Equal(t, circuit.Wire("n"), bin.A)
	assert.Equal(t, circuit.Wire("b0_0"), bin.B)
}

func TestParseBracketDecorationsAndComments(t *testing.T) {
	c, err := circuit.Parse("t.sim", strings.NewReader(`SHARES 1
DUPLICATIONS 1
IN a
RANDOMS
OUT o
![ t = a0_0 ]  #throwaway-comment
o0_0 = t
`))
	require.NoError(t, err)
	require.Len(t, c.Eqs, 1)
	assert.Equal(t, circuit.Wire("t"), c.Eqs[0].Dst)
}

func TestParseOutputRedefinitionKeepsLastAsOutput(t *testing.T) {
	// Redefining the output wire is not malformed (spec.md §3/§4.2/§9):
	// last-definition-wins demotes the earlier o0_0 to an internal
	// equation instead.
	c, err := circuit.Parse("t.sim", strings.NewReader(`SHARES 1
DUPLICATIONS 1
IN a
RANDOMS
OUT o
o0_0 = a0_0
o0_0 = ~a0_0
`))
	require.NoError(t, err)

	require.Len(t, c.Eqs, 1)
	copyForm, ok := c.Eqs[0].Form.(circuit.Copy)
	require.True(t, ok)
	assert.Equal(t, circuit.Wire("a0_0"), copyForm.Src)

	require.Len(t, c.EqsOutputs, 1)
	negForm, ok := c.EqsOutputs[0].Form.(circuit.Neg)
	require.True(t, ok)
	assert.Equal(t, circuit.Wire("a0_0"), negForm.Src)
}

func TestParseRejectsMultipleOutputs(t *testing.T) {
	_, err := circuit.Parse("t.sim", strings.NewReader(`SHARES 1
DUPLICATIONS 1
IN a
RANDOMS
OUT o p
o0_0 = a0_0
`))
	require.Error(t, err)

	var perr *circuit.ParseError
	require.ErrorAs(t, err, &perr)
}

func TestParseRejectsDuplicateDefinition(t *testing.T) {
	_, err := circuit.Parse("t.sim", strings.NewReader(`SHARES 1
DUPLICATIONS 1
IN a
RANDOMS
OUT o
t = a0_0
t = a0_0
o0_0 = t
`))
	require.Error(t, err)
}

func TestParseRejectsShortHeader(t *testing.T) {
	_, err := circuit.Parse("t.sim", strings.NewReader("SHARES 1\nDUPLICATIONS 1\n"))
	require.Error(t, err)
}

func TestRingVariablesExcludesDuplicatesAndInternals(t *testing.T) {
	c, err := circuit.Parse("t.sim", strings.NewReader(`SHARES 1
DUPLICATIONS 2
IN a
RANDOMS r
OUT o
t = a0_0 + r
o0_0 = t
o0_1 = a0_1
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a0", "r"}, c.RingVariables())
}
