// Package opt provides derivative-free global optimizers used to warm
// start a solve with a good initial candidate.
package opt

// Optimizer is a global optimizer over a box-bounded search space.
type Optimizer interface {
	// Run minimizes eval over [lower, upper] and returns the best
	// parameters found together with their cost.
	Run(eval func([]float64) float64, lower, upper []float64, dim int) ([]float64, float64)
}
