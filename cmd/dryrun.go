package cmd

import (
	"github.com/spf13/cobra"

	"github.com/smoliakoff/rload/internal/dryrun"
	"github.com/smoliakoff/rload/internal/plan"
	"github.com/smoliakoff/rload/internal/state"
)

func getDryRunCmd(gs *state.State) *cobra.Command {
	var (
		seed       string
		iterations int
		output     string
	)

	cobraCmd := &cobra.Command{
		Use:   "dry-run <scenario-file>",
		Short: "Tally planned requests per endpoint without sending any",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScenario(gs, args[0])
			if err != nil {
				return err
			}

			p := plan.New(s)
			report, err := dryrun.Run(p, seed, iterations)
			if err != nil {
				return err
			}
			return writeJSON(gs.FS, gs.Stdout, output, report)
		},
	}
	cobraCmd.Flags().StringVar(&seed, "seed", "dry-run", "sampler seed")
	cobraCmd.Flags().IntVarP(&iterations, "iterations", "n", 1000, "number of iterations to tally")
	cobraCmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout (.gz suffix gzips it)")
	return cobraCmd
}
