package cmd

import (
	"github.com/spf13/cobra"

	"github.com/smoliakoff/rload/internal/scenario"
	"github.com/smoliakoff/rload/internal/state"
)

func getGenerateCmd(gs *state.State) *cobra.Command {
	var output string

	cobraCmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a minimal valid scenario document",
		Long:  "Print a minimal valid scenario document that `validate`/`run` will accept, as a starting point to edit.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := scenario.Default()
			return writeJSON(gs.FS, gs.Stdout, output, s)
		},
	}
	cobraCmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout (.gz suffix gzips it)")
	return cobraCmd
}
