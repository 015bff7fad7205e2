package report

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Metrics exposes operational counters for long-running batch/CI analysis
// runs, grounded on the operational-counters pattern used elsewhere in the
// pack for scraping run progress. These are entirely optional -- the core
// enumeration never depends on them -- and are wired up only when the CLI
// is given --metrics-addr.
type Metrics struct {
	ScenariosFound prometheus.Counter
	SubsetsTested  prometheus.Counter
}

// NewMetrics registers a fresh set of counters against a private registry
// (not the global default one, so multiple analyzer runs in the same
// process never collide).
func NewMetrics() (*Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		ScenariosFound: factory.NewCounter(prometheus.CounterOpts{
			Name: "ironmaskplus_scenarios_found_total",
			Help: "Number of uncorrectable fault scenarios found so far.",
		}),
		SubsetsTested: factory.NewCounter(prometheus.CounterOpts{
			Name: "ironmaskplus_subsets_tested_total",
			Help: "Number of candidate fault subsets evaluated so far.",
		}),
	}, reg
}

// Serve starts an HTTP server exposing the registry's metrics at /metrics
// on addr. It runs until the process exits; callers typically launch it in
// a goroutine before starting the enumeration.
func Serve(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.Infof("serving metrics on %s/metrics", addr)

	if err := http.ListenAndServe(addr, mux); err != nil { //nolint:gosec
		log.Error(err)
	}
}
