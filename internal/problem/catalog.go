package problem

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownProblem is returned when a name does not match a catalog entry.
var ErrUnknownProblem = errors.New("unknown benchmark problem")

// Names returns the catalog problem names in a stable order.
func Names() []string {
	return []string{"sphere", "corner", "hs71"}
}

// ByName constructs a fresh catalog problem. Each call returns an independent
// instance with its own evaluation counter.
func ByName(name string) (*Problem, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sphere":
		return newSphere()
	case "corner":
		return newCorner()
	case "hs71":
		return newHS71()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProblem, name)
	}
}

// newSphere is the unconstrained 3-variable sum of squares with its minimum
// at the origin.
func newSphere() (*Problem, error) {
	return New(Definition{
		Name:  "sphere",
		Lower: []float64{-10, -10, -10},
		Upper: []float64{10, 10, 10},
		Fitness: func(x []float64) []float64 {
			var sum float64
			for _, v := range x {
				sum += v * v
			}
			return []float64{sum}
		},
	})
}

// newCorner minimizes x1^2 + x2^2 over [-10,10]^2 subject to x1 + x2 <= 5.
// The constraint is inactive at the unconstrained optimum, so it only matters
// for infeasible starting points.
func newCorner() (*Problem, error) {
	return New(Definition{
		Name:    "corner",
		Lower:   []float64{-10, -10},
		Upper:   []float64{10, 10},
		NumIneq: 1,
		Fitness: func(x []float64) []float64 {
			return []float64{
				x[0]*x[0] + x[1]*x[1],
				x[0] + x[1] - 5,
			}
		},
	})
}

// newHS71 is Hock-Schittkowski problem 71: four variables in [1,5], one
// equality row and one inequality row.
func newHS71() (*Problem, error) {
	return New(Definition{
		Name:      "hs71",
		Lower:     []float64{1, 1, 1, 1},
		Upper:     []float64{5, 5, 5, 5},
		NumEq:     1,
		NumIneq:   1,
		Tolerance: []float64{1e-8},
		Fitness: func(x []float64) []float64 {
			return []float64{
				x[0]*x[3]*(x[0]+x[1]+x[2]) + x[2],
				x[0]*x[0] + x[1]*x[1] + x[2]*x[2] + x[3]*x[3] - 40,
				25 - x[0]*x[1]*x[2]*x[3],
			}
		},
	})
}
