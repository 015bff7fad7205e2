package fault

import (
	"runtime"
	"sync"

	"github.com/AbdulRahmanTaleb/IronMaskPlus/pkg/circuit"
	"github.com/AbdulRahmanTaleb/IronMaskPlus/pkg/poly"
	"github.com/AbdulRahmanTaleb/IronMaskPlus/pkg/util/collection/enum"
	log "github.com/sirupsen/logrus"
)

// Scenario is an uncorrectable fault scenario: a fixed ordering of the wire
// names selected by one candidate fault subset. Ordering carries no
// semantic weight (spec.md §8, property 7: "set semantics") -- it exists
// only so the reporter can render a stable line.
type Scenario []circuit.Wire

// Analyzer wraps a parsed circuit with its evaluation ring and cached
// no-fault baseline. The baseline is cached here, rather than inside
// circuit.Circuit, to keep package circuit free of any dependency on the
// evaluator that computes it.
type Analyzer struct {
	Circuit  *circuit.Circuit
	Ring     *poly.Ring
	baseline ValueTable
	// OnSubsetTested and OnScenarioFound, when non-nil, are invoked once
	// per candidate fault subset tested / uncorrectable scenario found,
	// from whichever worker goroutine processed it. Used by pkg/report's
	// optional Prometheus counters; left nil, they cost nothing.
	OnSubsetTested  func()
	OnScenarioFound func()
}

// NewAnalyzer builds an Analyzer for c, computing its F=∅ baseline once.
func NewAnalyzer(c *circuit.Circuit) *Analyzer {
	ring := poly.NewRing(c.RingVariables())
	// Polarity is irrelevant for an empty fault set.
	_, output := Evaluate(ring, c, Set{}, true)

	return &Analyzer{Circuit: c, Ring: ring, baseline: output}
}

// baselineFor implements spec.md §4.5's fault-aware baseline selection:
// only random-wire faults change the symbolic semantics of the untouched
// circuit, so the cached no-fault baseline is reused unless faults touches
// at least one random wire, in which case the baseline is recomputed with
// exactly those random faults forced (spec.md §4.4's "subtle contract").
func (a *Analyzer) baselineFor(faults Set, set bool) ValueTable {
	var randFaults Set

	for w := range faults {
		if a.Circuit.IsRandom(w) {
			if randFaults == nil {
				randFaults = Set{}
			}

			randFaults[w] = struct{}{}
		}
	}

	if len(randFaults) == 0 {
		return a.baseline
	}

	_, output := Evaluate(a.Ring, a.Circuit, randFaults, set)

	return output
}

// workers returns how many goroutines the CRP/CRPC fan-out should use.
func workers() int {
	if n := runtime.GOMAXPROCS(0); n > 1 {
		return n
	}

	return 1
}

// RunCRP implements the CRP mode of spec.md §4.5: every fault subset of
// size 1..k over internal/random/output wires is tested, and every one
// that defeats correction is collected. Returns the total wire-name
// universe size and the uncorrectable scenarios found.
func (a *Analyzer) RunCRP(k uint, set bool) (length uint, scenarios []Scenario) {
	names := a.Circuit.Names()
	length = uint(len(names))

	for i := uint(1); i <= k; i++ {
		log.Debugf("testing combinations of %d faults...", i)

		found := a.scanSubsets(names, i, nil, set)
		scenarios = append(scenarios, found...)
	}

	return length, scenarios
}

// RunCRPC implements the CRPC mode of spec.md §4.5/§4.5.1: first the
// adversarial input-share fault prefixes are enumerated, then for each
// non-empty prefix the CRP enumeration is repeated with faults = prefix ∪
// internal subset.
func (a *Analyzer) RunCRPC(k uint, set bool) (length uint, prefixes []Set, scenariosByPrefix [][]Scenario) {
	names := a.Circuit.Names()
	length = uint(len(names))
	prefixes = InputPrefixes(a.Circuit)
	scenariosByPrefix = make([][]Scenario, len(prefixes))

	for p, prefix := range prefixes {
		log.Debugf("input faults = %v", prefix.Wires())

		var found []Scenario

		for i := uint(1); i <= k; i++ {
			log.Debugf("testing combinations of %d faults...", i)
			found = append(found, a.scanSubsets(names, i, prefix, set)...)
		}

		scenariosByPrefix[p] = found
	}

	return length, prefixes, scenariosByPrefix
}

// scanSubsets tests every i-subset of names, optionally prefixed by a fixed
// set of input-share faults, and returns the uncorrectable scenarios found.
// Work is fanned out across a worker pool (spec.md §5: "embarrassingly
// parallel... the only cross-thread contract is that each worker owns its
// scratch evaluator tables, and uncorrectable-scenario appends are
// serialized").
func (a *Analyzer) scanSubsets(names []circuit.Wire, i uint, prefix Set, set bool) []Scenario {
	jobs := make(chan []circuit.Wire, workers())

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result []Scenario
	)

	for w := 0; w < workers(); w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for combo := range jobs {
				faults := NewSet(combo...)
				if prefix != nil {
					faults = faults.Union(prefix)
				}

				baseline := a.baselineFor(faults, set)
				_, output := Evaluate(a.Ring, a.Circuit, faults, set)

				if a.OnSubsetTested != nil {
					a.OnSubsetTested()
				}

				if !IsCorrectable(a.Circuit, output, baseline) {
					mu.Lock()
					result = append(result, Scenario(combo))
					mu.Unlock()

					if a.OnScenarioFound != nil {
						a.OnScenarioFound()
					}
				}
			}
		}()
	}

	it := enum.Combinations(names, i)
	for it.HasNext() {
		jobs <- it.Next()
	}

	close(jobs)
	wg.Wait()

	return result
}
