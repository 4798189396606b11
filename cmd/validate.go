package cmd

import (
	"github.com/spf13/cobra"

	"github.com/smoliakoff/rload/errext"
	"github.com/smoliakoff/rload/errext/exitcodes"
	"github.com/smoliakoff/rload/internal/scenario"
	"github.com/smoliakoff/rload/internal/state"
)

// loadScenario reads and validates the scenario at path, annotating any
// plain I/O failure (Load only wraps validation failures with an exit
// code already) with exitcodes.IOError.
func loadScenario(gs *state.State, path string) (*scenario.Scenario, error) {
	s, err := scenario.Load(gs.FS, path)
	if err != nil {
		return nil, errext.WithExitCodeIfNone(err, exitcodes.IOError)
	}
	return s, nil
}

func getValidateCmd(gs *state.State) *cobra.Command {
	cobraCmd := &cobra.Command{
		Use:   "validate <scenario-file>",
		Short: "Validate a scenario document and report all violations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScenario(gs, args[0])
			if err != nil {
				return err
			}
			gs.Logger.Infof("scenario %q is valid (%d journeys, %d stage(s))",
				s.Name, len(s.Journeys), len(s.Workload.Stages))
			return nil
		},
	}
	return cobraCmd
}
