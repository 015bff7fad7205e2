package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/AbdulRahmanTaleb/IronMaskPlus/pkg/circuit"
	"github.com/AbdulRahmanTaleb/IronMaskPlus/pkg/fault"
	"github.com/AbdulRahmanTaleb/IronMaskPlus/pkg/report"
	"github.com/AbdulRahmanTaleb/IronMaskPlus/pkg/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Enumerate fault scenarios that defeat a circuit's majority-vote correction.",
	Run:   runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringP("file", "f", "", "circuit description to analyze (required)")
	analyzeCmd.Flags().UintP("budget", "k", 0, "maximum internal fault budget")
	analyzeCmd.Flags().UintP("polarity", "s", 1, "fault polarity, 0=reset or 1=set")
	analyzeCmd.Flags().StringP("property", "p", "CRP", "property to check, CRP or CRPC")
	analyzeCmd.Flags().StringP("config", "c", "", "optional YAML file supplying defaults for -k/-s/-p/--rate")
	analyzeCmd.Flags().String("metrics-addr", "", "if set, serve Prometheus metrics on this address while analyzing")
	analyzeCmd.Flags().Float64("rate", report.DefaultFaultRate, "per-wire fault rate f used to compute the reported mu bound")

	_ = analyzeCmd.MarkFlagRequired("file")
}

func runAnalyze(cmd *cobra.Command, args []string) {
	applyConfigDefaults(cmd)

	path := GetString(cmd, "file")
	if path == "" {
		fmt.Println("error: -f/--file is required")
		os.Exit(3)
	}

	k := GetUint(cmd, "budget")
	polarity := GetUint(cmd, "polarity")
	property := strings.ToUpper(GetString(cmd, "property"))
	rate, _ := cmd.Flags().GetFloat64("rate")

	if polarity > 1 {
		fmt.Println("error: -s/--polarity must be 0 or 1")
		os.Exit(3)
	}

	if property != "CRP" && property != "CRPC" {
		fmt.Println("error: -p/--property must be CRP or CRPC")
		os.Exit(3)
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	defer f.Close()

	c, err := circuit.Parse(path, f)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	stats := util.NewPerfStats()
	analyzer := fault.NewAnalyzer(c)

	var tested, found int64

	showProgress := term.IsTerminal(int(os.Stderr.Fd()))
	analyzer.OnSubsetTested = func() {
		n := atomic.AddInt64(&tested, 1)
		if showProgress && n%1000 == 0 {
			fmt.Fprintf(os.Stderr, "\rtested %d subsets, found %d scenarios...", n, atomic.LoadInt64(&found))
		}
	}
	analyzer.OnScenarioFound = func() {
		atomic.AddInt64(&found, 1)
	}

	// wireMetrics wraps these progress hooks rather than replacing them, so
	// --metrics-addr and the terminal progress line compose.
	wireMetrics(analyzer, GetString(cmd, "metrics-addr"))

	set := polarity == 1
	outPath := sidecarPath(path, k, polarity, property)

	switch property {
	case "CRP":
		length, scenarios := analyzer.RunCRP(k, set)
		writeCRPReport(outPath, length, scenarios, rate)
	case "CRPC":
		length, prefixes, scenariosByPrefix := analyzer.RunCRPC(k, set)
		writeCRPCReport(outPath, length, prefixes, scenariosByPrefix, rate)
	}

	if showProgress {
		fmt.Fprintln(os.Stderr)
	}

	stats.Log("analysis")
}

func writeCRPReport(path string, length uint, scenarios []fault.Scenario, rate float64) {
	r := report.CRP{Length: length, Scenarios: scenarios}
	log.Infof("%d uncorrectable scenarios found, mu=%g", len(scenarios), r.Mu(rate))
	writeSidecar(path, func(w *os.File) error { return report.WriteCRP(w, r) })
}

func writeCRPCReport(path string, length uint, prefixes []fault.Set, scenariosByPrefix [][]fault.Scenario, rate float64) {
	r := report.CRPC{Length: length, Prefixes: prefixes, ScenariosByPrefix: scenariosByPrefix}
	log.Infof("%d input-fault prefixes checked, mu=%g", len(prefixes), r.Mu(rate))
	writeSidecar(path, func(w *os.File) error { return report.WriteCRPC(w, r) })
}

func writeSidecar(path string, write func(*os.File) error) {
	out, err := os.Create(path)
	if err != nil {
		fmt.Println(err)
		os.Exit(4)
	}
	defer out.Close()

	if err := write(out); err != nil {
		fmt.Println(err)
		os.Exit(4)
	}

	log.Infof("wrote %s", path)
}

// sidecarPath implements spec.md §6.3's output naming rule:
// <circuit>_faulty_scenarios_k<k>_f<s>_<property>.
func sidecarPath(circuitPath string, k, polarity uint, property string) string {
	dir := filepath.Dir(circuitPath)
	base := strings.TrimSuffix(filepath.Base(circuitPath), filepath.Ext(circuitPath))
	name := fmt.Sprintf("%s_faulty_scenarios_k%d_f%d_%s", base, k, polarity, property)

	return filepath.Join(dir, name)
}

func wireMetrics(a *fault.Analyzer, addr string) {
	if addr == "" {
		return
	}

	m, reg := report.NewMetrics()

	onTested := a.OnSubsetTested
	a.OnSubsetTested = func() {
		if onTested != nil {
			onTested()
		}

		m.SubsetsTested.Inc()
	}

	onFound := a.OnScenarioFound
	a.OnScenarioFound = func() {
		if onFound != nil {
			onFound()
		}

		m.ScenariosFound.Inc()
	}

	go report.Serve(addr, reg)
}

func applyConfigDefaults(cmd *cobra.Command) {
	path := GetString(cmd, "config")
	if path == "" {
		return
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}

	if cfg.K != nil && !Changed(cmd, "budget") {
		_ = cmd.Flags().Set("budget", fmt.Sprint(*cfg.K))
	}

	if cfg.Polarity != nil && !Changed(cmd, "polarity") {
		_ = cmd.Flags().Set("polarity", fmt.Sprint(*cfg.Polarity))
	}

	if cfg.Property != nil && !Changed(cmd, "property") {
		_ = cmd.Flags().Set("property", *cfg.Property)
	}

	if cfg.FaultRate != nil && !Changed(cmd, "rate") {
		_ = cmd.Flags().Set("rate", fmt.Sprint(*cfg.FaultRate))
	}
}
