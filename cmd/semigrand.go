package cmd

import (
	"github.com/spf13/cobra"

	"github.com/clexmonte/clexmonte-go/monte"
)

var semiGrandCmd = &cobra.Command{
	Use:   "semi-grand <system.yaml> <run_params.yaml>",
	Short: "Run a semi-grand-canonical occupation Monte Carlo calculation",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runSwapEnsemble(args[0], args[1], monte.ModeSemiGrand)
	},
}
