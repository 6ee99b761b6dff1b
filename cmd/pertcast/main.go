package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshharrison/pertcast/internal/config"
	"github.com/joshharrison/pertcast/internal/cpm"
	"github.com/joshharrison/pertcast/internal/graph"
	"github.com/joshharrison/pertcast/internal/loader"
	"github.com/joshharrison/pertcast/internal/report"
	"github.com/joshharrison/pertcast/internal/sim"
	"github.com/joshharrison/pertcast/internal/state"
	"github.com/joshharrison/pertcast/internal/ui"
)

var (
	flagTasks      string
	flagConfig     string
	flagJSON       bool
	flagIterations int
	flagSeed       int64
	flagWorkers    int
	flagQuiet      bool
	flagOut        string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pertcast",
		Short: "Monte Carlo completion forecasts for dependent task schedules",
		Long: `Pertcast reads a task list with three-point (PERT) estimates and
dependencies, then runs a Monte Carlo simulation: every iteration samples
task durations, computes the critical-path schedule, and applies hidden-task
and systemic-risk overlays. The result is a completion-time distribution
with 50/80/95% confidence estimates and the deterministic critical path.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flagTasks, "tasks", "project_data.csv", "Task definition file (.csv or .json)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Optional YAML configuration file")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(pathCmd())
	rootCmd.AddCommand(sampleCmd())
	rootCmd.AddCommand(lastCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// options is the merged run configuration: config-file values fill in
// wherever the user did not pass an explicit flag.
type options struct {
	tasks      string
	iterations int
	seed       int64
	workers    int
	json       bool
}

func resolveOptions(cmd *cobra.Command) (options, error) {
	opts := options{
		tasks:      flagTasks,
		iterations: flagIterations,
		seed:       flagSeed,
		workers:    flagWorkers,
		json:       flagJSON,
	}

	if flagConfig != "" {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return opts, err
		}
		changed := cmd.Flags().Changed
		if cfg.Tasks != "" && !changed("tasks") {
			opts.tasks = cfg.Tasks
		}
		if cfg.Iterations > 0 && !changed("iterations") {
			opts.iterations = cfg.Iterations
		}
		if cfg.Seed != 0 && !changed("seed") {
			opts.seed = cfg.Seed
		}
		if cfg.Workers > 0 && !changed("workers") {
			opts.workers = cfg.Workers
		}
		if cfg.Format != "" && !changed("json") {
			opts.json = cfg.Format == "json"
		}
	}

	if opts.iterations == 0 {
		opts.iterations = sim.DefaultIterations
	}
	return opts, nil
}

func loadGraph(path string) (*graph.TaskGraph, error) {
	g, err := loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load task graph: %w", err)
	}
	return g, nil
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the Monte Carlo simulation and report the forecast",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := resolveOptions(cmd)
			if err != nil {
				return err
			}

			g, err := loadGraph(opts.tasks)
			if err != nil {
				return err
			}

			chatty := !flagQuiet && !opts.json
			if chatty {
				report.PrintMethodology(os.Stderr, opts.iterations, opts.tasks)
				report.PrintTasks(os.Stderr, g)
			}

			// Ctrl-C stops after in-flight iterations; whatever completed is
			// still reported, marked incomplete.
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			simCfg := sim.Config{
				Iterations: opts.iterations,
				Seed:       opts.seed,
				Workers:    opts.workers,
			}
			if chatty {
				simCfg.Progress = func(done int) {
					fmt.Fprintf(os.Stderr, "\r   ⚡ %d / %d iterations", done, opts.iterations)
				}
			}

			res, runErr := sim.Run(ctx, g, simCfg)
			if chatty {
				fmt.Fprintln(os.Stderr)
			}
			if res == nil {
				return runErr
			}
			if runErr != nil && chatty {
				fmt.Fprintf(os.Stderr, "   %s %v\n\n", ui.Yellow("⚠ interrupted:"), runErr)
			}

			rep := report.New(g, res)
			if opts.json {
				if err := rep.PrintJSON(os.Stdout); err != nil {
					return err
				}
			} else {
				rep.PrintText(os.Stdout)
			}

			if err := state.Save(&state.LastRun{
				FinishedAt: time.Now(),
				TasksFile:  opts.tasks,
				Result:     res,
			}); err != nil {
				fmt.Fprintf(os.Stderr, "%s save run state: %v\n", ui.Yellow("⚠ warning:"), err)
			}

			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				return runErr
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&flagIterations, "iterations", 0, "Monte Carlo iterations (default 10000)")
	cmd.Flags().Int64Var(&flagSeed, "seed", 0, "Random seed for reproducible runs (0 = time-based)")
	cmd.Flags().IntVar(&flagWorkers, "workers", 0, "Simulation workers (0 = all CPUs)")
	cmd.Flags().BoolVar(&flagQuiet, "quiet", false, "Suppress progress and task listing")
	return cmd
}

func pathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the deterministic critical-path schedule (no simulation)",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := resolveOptions(cmd)
			if err != nil {
				return err
			}

			g, err := loadGraph(opts.tasks)
			if err != nil {
				return err
			}
			plan, err := cpm.NewPlan(g)
			if err != nil {
				return err
			}

			if opts.json {
				path, duration := plan.ExpectedSchedule()
				return printJSON(os.Stdout, map[string]any{
					"critical_path":          path,
					"critical_path_duration": duration,
				})
			}
			report.PrintSchedule(os.Stdout, plan, g)
			return nil
		},
	}
}

func sampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a sample task file to get started",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.WriteFile(flagOut, []byte(loader.SampleCSV), 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote sample task file to %s\n", flagOut)
			return nil
		},
	}
	cmd.Flags().StringVar(&flagOut, "out", "project_data.csv", "Output path for the sample file")
	return cmd
}

func lastCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "last",
		Short: "Re-render the most recent simulation result",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !state.Exists() {
				return fmt.Errorf("no previous run found — run 'pertcast run' first")
			}
			run, err := state.Load()
			if err != nil {
				return err
			}

			rep := report.New(nil, run.Result)
			if flagJSON {
				return rep.PrintJSON(os.Stdout)
			}
			fmt.Printf("%s %s %s\n\n",
				ui.Dim("Previous run:"), run.TasksFile,
				ui.Dim(run.FinishedAt.Format("2006-01-02 15:04:05")))
			rep.PrintText(os.Stdout)
			return nil
		},
	}
}

func printJSON(w *os.File, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
