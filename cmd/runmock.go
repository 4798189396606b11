package cmd

import (
	"github.com/spf13/cobra"

	"github.com/smoliakoff/rload/errext"
	"github.com/smoliakoff/rload/errext/exitcodes"
	"github.com/smoliakoff/rload/internal/engine"
	"github.com/smoliakoff/rload/internal/event"
	"github.com/smoliakoff/rload/internal/executor"
	"github.com/smoliakoff/rload/internal/state"
)

func getRunMockCmd(gs *state.State) *cobra.Command {
	var (
		seed   string
		vus    int
		output string
	)

	cobraCmd := &cobra.Command{
		Use:   "run-mock <scenario-file>",
		Short: "Run a scenario in Deterministic mode against the mock executor",
		Long:  "Run a scenario in Deterministic mode against the mock executor: no network I/O, virtual time advanced by scheduler arithmetic, bit-identical results for the same scenario and seed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScenario(gs, args[0])
			if err != nil {
				return err
			}

			cfg := engine.DefaultConfig()
			cfg.Mode = engine.ModeDeterministic
			cfg.Seed = seed
			cfg.VUs = vus

			eng := engine.New(cfg, executor.NewMock(), event.Noop(), gs.Logger)
			report, err := eng.Run(gs.Ctx, s)
			if err != nil {
				return errext.WithExitCodeIfNone(err, exitcodes.Internal)
			}
			return writeJSON(gs.FS, gs.Stdout, output, report)
		},
	}
	cobraCmd.Flags().StringVar(&seed, "seed", "rload", "sampler seed")
	cobraCmd.Flags().IntVar(&vus, "vus", engine.DefaultConfig().VUs, "virtual user pool size")
	cobraCmd.Flags().StringVarP(&output, "output", "o", "", "write report to file instead of stdout (.gz suffix gzips it)")
	return cobraCmd
}
