// Package cmd wires the monte package's calculators to the command line
// (spec §6). Reading guide: root.go (entry point, shared flags) →
// common.go (document loading shared across calculators) → canonical.go /
// semigrand.go / kinetic.go (one subcommand per ensemble).
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "clexmc",
	Short:   "Cluster-expansion Monte Carlo engine for crystalline alloys",
	Version: "0.1.0",
}

// Execute runs the CLI root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "V", false, "version for clexmc")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cobra.OnInitialize(func() {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	})

	rootCmd.AddCommand(canonicalCmd)
	rootCmd.AddCommand(semiGrandCmd)
	rootCmd.AddCommand(kineticCmd)
}
