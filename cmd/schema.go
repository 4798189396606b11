package cmd

import (
	"github.com/spf13/cobra"

	"github.com/smoliakoff/rload/internal/scenario"
	"github.com/smoliakoff/rload/internal/state"
)

func getSchemaCmd(gs *state.State) *cobra.Command {
	var output string

	cobraCmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the scenario document's JSON Schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(gs.FS, gs.Stdout, output, scenario.JSONSchema())
		},
	}
	cobraCmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout (.gz suffix gzips it)")
	return cobraCmd
}
