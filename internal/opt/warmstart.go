package opt

import (
	"log/slog"

	"github.com/plugopt/worhpgo/internal/problem"
)

// WarmStart runs the optimizer on a penalized merit function built from
// the population's problem and pushes the result into the population,
// replacing the worst member when it improves on it. Constraint
// violations enter the merit as penalty times the violation norm, so
// the swarm is pulled toward the feasible region without hard barriers.
// Returns the replaced index, or -1 when the population was left alone.
func WarmStart(pop *problem.Population, o Optimizer, penalty float64) int {
	prob := pop.Problem()
	lower, upper := prob.Bounds()

	merit := func(x []float64) float64 {
		f := prob.Fitness(x)
		_, norm := problem.Violations(f, prob.NumEq(), prob.Tolerance())
		return f[0] + penalty*norm
	}

	x, cost := o.Run(merit, lower, upper, prob.Dim())
	f := prob.Fitness(x)

	worst := pop.WorstIdx()
	if !problem.Compare(f, pop.F(worst), prob.NumEq(), prob.Tolerance()) {
		slog.Debug("warm start kept the population", "cost", cost)
		return -1
	}
	if err := pop.Set(worst, x, f); err != nil {
		slog.Warn("warm start result rejected", "error", err)
		return -1
	}
	slog.Info("warm start replaced the worst individual",
		"idx", worst,
		"objective", f[0],
		"cost", cost,
	)
	return worst
}
