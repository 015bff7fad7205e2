// Package report is the boundary component of spec.md §4.6 and §6.3: it
// turns an Analyzer's CRP/CRPC results into the text sidecar file the tool
// produces, and computes the μ upper bound on the probability that a
// random, independent per-wire fault injection defeats correction.
package report

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/AbdulRahmanTaleb/IronMaskPlus/pkg/fault"
)

// DefaultFaultRate is the per-wire fault probability f used by μ when the
// caller does not override it (spec.md §4.6).
const DefaultFaultRate = 0.01

// CRP holds a completed CRP run, ready to report.
type CRP struct {
	Length    uint
	Scenarios []fault.Scenario
}

// Mu computes spec.md §4.6's CRP bound: the sum, over every uncorrectable
// scenario S, of f^|S| * (1-f)^(length-|S|).
func (r CRP) Mu(f float64) float64 {
	var mu float64
	for _, s := range r.Scenarios {
		mu += scenarioWeight(f, uint(len(s)), r.Length)
	}

	return mu
}

// CRPC holds a completed CRPC run, ready to report.
type CRPC struct {
	Length            uint
	Prefixes          []fault.Set
	ScenariosByPrefix [][]fault.Scenario
}

// Mu computes spec.md §4.6's CRPC bound: the maximum, over every prefix, of
// the CRP-style sum over that prefix's internal scenarios.
func (r CRPC) Mu(f float64) float64 {
	var best float64

	for _, scenarios := range r.ScenariosByPrefix {
		var mu float64
		for _, s := range scenarios {
			mu += scenarioWeight(f, uint(len(s)), r.Length)
		}

		if mu > best {
			best = mu
		}
	}

	return best
}

func scenarioWeight(f float64, size, length uint) float64 {
	return math.Pow(f, float64(size)) * math.Pow(1-f, float64(length-size))
}

// WriteCRP writes the CRP sidecar layout of spec.md §6.3: a scenario count
// followed by one "size, w1, ..., wsize" line per uncorrectable scenario.
func WriteCRP(w io.Writer, r CRP) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%d\n", len(r.Scenarios)); err != nil {
		return err
	}

	for _, s := range r.Scenarios {
		if err := writeScenarioLine(bw, s); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteCRPC writes the CRPC sidecar layout of spec.md §6.3: a prefix count,
// then per prefix its wire line, its internal scenario count, and its
// scenario lines.
func WriteCRPC(w io.Writer, r CRPC) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%d\n", len(r.Prefixes)); err != nil {
		return err
	}

	for i, prefix := range r.Prefixes {
		if err := writeScenarioLine(bw, sortedWires(prefix)); err != nil {
			return err
		}

		scenarios := r.ScenariosByPrefix[i]
		if _, err := fmt.Fprintf(bw, "%d\n", len(scenarios)); err != nil {
			return err
		}

		for _, s := range scenarios {
			if err := writeScenarioLine(bw, s); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// writeScenarioLine writes "size, w1, ..., wsize". Per spec.md §9's open
// question on the original's s[:-1]/s[-1] file writer, an empty scenario
// would be malformed input (every scenario has at least 1 wire, since i
// ranges from 1); this is asserted rather than silently tolerated.
func writeScenarioLine(w io.Writer, s []string) error {
	if len(s) == 0 {
		panic("report: internal invariant violated: empty fault scenario")
	}

	if _, err := fmt.Fprintf(w, "%d, ", len(s)); err != nil {
		return err
	}

	for i, wire := range s {
		if i > 0 {
			if _, err := io.WriteString(w, ", "); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, wire); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "\n")

	return err
}

func sortedWires(s fault.Set) []string {
	wires := s.Wires()
	sort.Strings(wires)

	return wires
}
