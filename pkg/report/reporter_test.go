package report_test

import (
	"bytes"
	"testing"

	"github.com/AbdulRahmanTaleb/IronMaskPlus/pkg/fault"
	"github.com/AbdulRahmanTaleb/IronMaskPlus/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRPMu(t *testing.T) {
	r := report.CRP{
		Length: 4,
		Scenarios: []fault.Scenario{
			{"a"},
			{"b", "c"},
		},
	}

	f := 0.01
	want := f*(1-f)*(1-f)*(1-f) + f*f*(1-f)*(1-f)
	assert.InDelta(t, want, r.Mu(f), 1e-12)
}

func TestCRPCMuTakesWorstPrefix(t *testing.T) {
	r := report.CRPC{
		Length:   3,
		Prefixes: []fault.Set{fault.NewSet("a0_0"), fault.NewSet("a0_1")},
		ScenariosByPrefix: [][]fault.Scenario{
			{{"x"}},
			{{"x"}, {"y"}},
		},
	}

	f := 0.1
	single := f * (1 - f) * (1 - f)
	double := 2 * (f * (1 - f) * (1 - f))
	assert.InDelta(t, double, r.Mu(f), 1e-12)
	assert.Greater(t, double, single)
}

func TestWriteCRP(t *testing.T) {
	var buf bytes.Buffer

	err := report.WriteCRP(&buf, report.CRP{
		Length: 5,
		Scenarios: []fault.Scenario{
			{"o0_0"},
			{"o0_1", "r"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "2\n1, o0_0\n2, o0_1, r\n", buf.String())
}

func TestWriteCRPCFormat(t *testing.T) {
	var buf bytes.Buffer

	err := report.WriteCRPC(&buf, report.CRPC{
		Length:   4,
		Prefixes: []fault.Set{fault.NewSet("a0_0")},
		ScenariosByPrefix: [][]fault.Scenario{
			{{"o0_0"}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "1\n1, a0_0\n1\n1, o0_0\n", buf.String())
}

func TestWriteCRPEmptyScenariosPanicsOnMalformedScenario(t *testing.T) {
	assert.Panics(t, func() {
		_ = report.WriteCRP(&bytes.Buffer{}, report.CRP{
			Length:    1,
			Scenarios: []fault.Scenario{{}},
		})
	})
}
