package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smoliakoff/rload/errext"
	"github.com/smoliakoff/rload/errext/exitcodes"
	"github.com/smoliakoff/rload/internal/engine"
	"github.com/smoliakoff/rload/internal/event"
	"github.com/smoliakoff/rload/internal/executor"
	"github.com/smoliakoff/rload/internal/scenario"
	"github.com/smoliakoff/rload/internal/scheduler"
	"github.com/smoliakoff/rload/internal/state"
	"github.com/smoliakoff/rload/internal/uiprogress"
)

func buildExecutor(s *scenario.Scenario) (executor.Executor, func(), error) {
	switch s.Target.Protocol {
	case "", "http":
		return executor.NewHTTP(s.Target.DefaultHeaders), func() {}, nil
	case "grpc":
		g, err := executor.NewGRPC(s.Target.BaseURL)
		if err != nil {
			return nil, func() {}, errext.WithExitCodeIfNone(err, exitcodes.IOError)
		}
		return g, func() { _ = g.Close() }, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown target protocol %q", s.Target.Protocol)
	}
}

func runScenario(gs *state.State, s *scenario.Scenario, cfg engine.Config, output string, quiet bool) error {
	exec, closeExec, err := buildExecutor(s)
	if err != nil {
		return err
	}
	defer closeExec()

	sink := event.Noop()
	if !quiet && gs.Stdout.IsTTY {
		sink = event.New()
		sched := scheduler.New(s.Workload)
		bar := uiprogress.New(gs.Stdout, sched.TotalTicks())
		done := make(chan struct{})
		go func() {
			bar.Run(sink)
			close(done)
		}()
		defer func() { <-done }()
	}

	eng := engine.New(cfg, exec, sink, gs.Logger)
	report, err := eng.Run(gs.Ctx, s)
	if err != nil {
		return errext.WithExitCodeIfNone(err, exitcodes.Internal)
	}

	return writeJSON(gs.FS, gs.Stdout, output, report)
}

func getRunCmd(gs *state.State) *cobra.Command {
	var (
		seed        string
		vus         int
		maxInFlight int
		graceMs     int64
		output      string
		quiet       bool
	)

	cobraCmd := &cobra.Command{
		Use:   "run <scenario-file>",
		Short: "Run a scenario against its real target in Real mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScenario(gs, args[0])
			if err != nil {
				return err
			}

			cfg := engine.DefaultConfig()
			cfg.Mode = engine.ModeReal
			cfg.Seed = seed
			cfg.VUs = vus
			cfg.MaxInFlight = maxInFlight
			cfg.GraceMs = graceMs

			return runScenario(gs, s, cfg, output, quiet)
		},
	}
	cobraCmd.Flags().StringVar(&seed, "seed", "rload", "sampler seed")
	cobraCmd.Flags().IntVar(&vus, "vus", engine.DefaultConfig().VUs, "virtual user pool size")
	cobraCmd.Flags().IntVar(&maxInFlight, "max-in-flight", engine.DefaultConfig().MaxInFlight, "max concurrent in-flight requests")
	cobraCmd.Flags().Int64Var(&graceMs, "grace-ms", engine.DefaultConfig().GraceMs, "drain grace period in milliseconds")
	cobraCmd.Flags().StringVarP(&output, "output", "o", "", "write report to file instead of stdout (.gz suffix gzips it)")
	cobraCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "disable the progress bar")
	return cobraCmd
}
