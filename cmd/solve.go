package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/plugopt/worhpgo/internal/config"
	"github.com/plugopt/worhpgo/internal/opt"
	"github.com/plugopt/worhpgo/internal/problem"
	"github.com/plugopt/worhpgo/internal/trace"
	"github.com/plugopt/worhpgo/internal/worhp"
	"github.com/spf13/cobra"
)

var showLog bool

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Polish a population member with the WORHP solver",
	Long: `Builds a random population for a catalog problem, optionally warm
starts it with the mayfly optimizer, and runs one WORHP session on the
selected member.`,
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().String("library", config.DefaultLibrary, "Path to the WORHP shared library")
	solveCmd.Flags().String("problem", config.DefaultProblem, "Catalog problem to solve")
	solveCmd.Flags().Int("pop", config.DefaultPopSize, "Population size")
	solveCmd.Flags().Int64("seed", config.DefaultSeed, "Random seed")
	solveCmd.Flags().Uint("verbosity", 0, "Log every n-th objective evaluation (0 = off)")
	solveCmd.Flags().Bool("screen-output", false, "Let the solver print its own iteration output")
	solveCmd.Flags().String("select", config.DefaultPolicy, "Individual handed to the solver: best, worst, random, or an index")
	solveCmd.Flags().String("replace", config.DefaultPolicy, "Individual the result replaces: best, worst, random, or an index")
	solveCmd.Flags().Bool("warm-start", false, "Run the mayfly optimizer before the solver")
	solveCmd.Flags().Int("warm-iters", config.DefaultWarmIters, "Warm start iteration budget")
	solveCmd.Flags().Int("warm-pop", config.DefaultWarmPop, "Warm start swarm size")
	solveCmd.Flags().Float64("warm-penalty", config.DefaultWarmPenalty, "Violation weight in the warm start merit")
	solveCmd.Flags().String("trace-dir", "", "Write a run log and summary under this directory")
	solveCmd.Flags().BoolVar(&showLog, "show-log", false, "Print the progress log after the solve")

	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	prob, err := problem.ByName(cfg.Problem)
	if err != nil {
		return err
	}

	slog.Info("Building population", "problem", prob.Name(), "size", cfg.PopSize, "seed", cfg.Seed)
	pop := problem.NewPopulation(prob, cfg.PopSize, cfg.Seed)

	if cfg.WarmStart {
		slog.Info("Warm starting", "iters", cfg.WarmIters, "swarm", cfg.WarmPop)
		optimizer := opt.NewMayfly(cfg.WarmIters, cfg.WarmPop, cfg.Seed)
		opt.WarmStart(pop, optimizer, cfg.WarmPenalty)
	}

	solver := worhp.New(cfg.Library, cfg.ScreenOutput)
	solver.SetSeed(cfg.Seed)
	sel, err := worhp.ParseIndividual(cfg.Select)
	if err != nil {
		return err
	}
	repl, err := worhp.ParseIndividual(cfg.Replace)
	if err != nil {
		return err
	}
	solver.SetSelection(sel)
	solver.SetReplacement(repl)
	if err := solver.SetVerbosity(cfg.Verbosity); err != nil {
		return err
	}
	slog.Debug("Solver configured", "extra_info", solver.ExtraInfo())

	_, beforeF := pop.Champion()

	start := time.Now()
	pop, err = solver.Evolve(pop)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	x, f := pop.Champion()
	feasible := prob.Feasible(f)
	status := solver.LastStatus()

	slog.Info("Solve complete",
		"elapsed", elapsed,
		"status", status.String(),
		"initial_objective", beforeF[0],
		"final_objective", f[0],
		"improvement", beforeF[0]-f[0],
		"fevals", prob.FevalCount(),
	)

	if cfg.TraceDir != "" {
		if err := writeTrace(cfg, prob, solver, f, feasible, start); err != nil {
			return err
		}
	}

	if showLog {
		printLog(solver.Log())
	}

	fmt.Printf("%s on %s: objective %.6f -> %.6f (%s, feasible: %v, %d evals, %s)\n",
		solver.Name(), prob.Name(), beforeF[0], f[0], status, feasible,
		prob.FevalCount(), elapsed.Round(time.Millisecond))
	fmt.Printf("Champion: %v\n", x)

	return nil
}

// writeTrace records the progress log and a run summary under the trace
// directory.
func writeTrace(cfg *config.Config, prob *problem.Problem, solver *worhp.Solver, f []float64, feasible bool, start time.Time) error {
	runID := trace.NewRunID()
	writer, err := trace.NewWriter(cfg.TraceDir, runID)
	if err != nil {
		return fmt.Errorf("failed to create trace writer: %w", err)
	}
	defer writer.Close()

	for _, line := range solver.Log() {
		entry := trace.Entry{
			Fevals:        line.Fevals,
			Objective:     line.Objective,
			Violated:      line.Violated,
			ViolationNorm: line.ViolationNorm,
			Feasible:      line.Feasible,
			Timestamp:     time.Now(),
		}
		if err := writer.Write(entry); err != nil {
			return fmt.Errorf("failed to write trace entry: %w", err)
		}
	}

	status := solver.LastStatus()
	summary := &trace.Summary{
		RunID:      runID,
		Problem:    prob.Name(),
		Library:    cfg.Library,
		Status:     int(status),
		StatusText: status.String(),
		Succeeded:  status.Succeeded(),
		Objective:  f[0],
		Feasible:   feasible,
		Fevals:     prob.FevalCount(),
		StartTime:  start,
		EndTime:    time.Now(),
	}
	if err := trace.SaveSummary(cfg.TraceDir, summary); err != nil {
		return fmt.Errorf("failed to save run summary: %w", err)
	}

	fmt.Printf("Trace written to %s\n", trace.RunDir(cfg.TraceDir, runID))
	return nil
}

func printLog(lines []worhp.LogLine) {
	if len(lines) == 0 {
		fmt.Println("No progress log recorded (set --verbosity).")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FEVALS\tOBJECTIVE\tVIOLATED\tVIOLATION NORM\tFEASIBLE")
	fmt.Fprintln(w, "------\t---------\t--------\t--------------\t--------")
	for _, line := range lines {
		fmt.Fprintf(w, "%d\t%.6f\t%d\t%.3e\t%v\n",
			line.Fevals, line.Objective, line.Violated, line.ViolationNorm, line.Feasible)
	}
	w.Flush()
}
