package cmd

import (
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is empty unless set at build time (e.g. with -ldflags "-X");
// when empty, the version subcommand falls back to the module build info.
var Version string

var rootCmd = &cobra.Command{
	Use:   "ironmaskplus",
	Short: "A fault-injection correctness analyzer for masked and duplicated Boolean circuits.",
	Long: "ironmaskplus checks whether a masked and duplicated Boolean circuit's majority-vote\n" +
		"correction survives every fault scenario up to a given budget, under the CRP and\n" +
		"CRPC threat models.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Report the version of this executable.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print("ironmaskplus ")

		if Version != "" {
			fmt.Print(Version)
		} else if info, ok := debug.ReadBuildInfo(); ok {
			fmt.Print(info.Main.Version)
		} else {
			fmt.Print("(unknown version)")
		}

		fmt.Println()
	},
}
