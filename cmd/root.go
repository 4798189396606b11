// Package cmd implements rload's CLI surface: generate, schema, validate,
// dry-run, run, run-mock.
package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/smoliakoff/rload/errext"
	"github.com/smoliakoff/rload/errext/exitcodes"
	"github.com/smoliakoff/rload/internal/state"
)

type rootCommand struct {
	cmd *cobra.Command
}

func newRootCommand(gs *state.State) *rootCommand {
	c := &rootCommand{}

	root := &cobra.Command{
		Use:           "rload",
		Short:         "a deterministic HTTP load-testing engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	root.SetArgs(gs.Args[1:])
	root.SetOut(gs.Stdout)
	root.SetErr(gs.Stderr)
	root.SetIn(gs.Stdin)
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			gs.Logger.SetLevel(logrus.DebugLevel)
		}
		if tf, ok := gs.Logger.Formatter.(*logrus.TextFormatter); ok && noColor {
			tf.DisableColors = true
		}
	}

	root.AddCommand(
		getGenerateCmd(gs),
		getSchemaCmd(gs),
		getValidateCmd(gs),
		getDryRunCmd(gs),
		getRunCmd(gs),
		getRunMockCmd(gs),
	)

	c.cmd = root
	return c
}

// persistent flags shared by every subcommand via root's PersistentFlags.
var (
	verbose bool
	noColor bool
)

// Execute is main()'s sole entry point. It builds the real State, runs the
// command tree, and converts any returned error into the process exit
// code: 0 on success, 2/3 per errext.HasExitCode, 70 for anything
// unannotated (invariant violations and unexpected failures alike).
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gs := state.New(ctx)
	root := newRootCommand(gs)

	if err := root.cmd.Execute(); err != nil {
		exitCode := exitcodes.Internal
		var ecerr errext.HasExitCode
		if errors.As(err, &ecerr) {
			exitCode = ecerr.ExitCode()
		}

		fields := logrus.Fields{}
		var herr errext.HasHint
		if errors.As(err, &herr) {
			fields["hint"] = herr.Hint()
		}
		gs.Logger.WithFields(fields).Error(err.Error())

		os.Exit(exitCode)
	}
}
