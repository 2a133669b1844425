package problem

import (
	"fmt"
	"math/rand"
)

// Population is an ordered set of evaluated candidates over one problem.
// Decision and fitness vectors are copied on the way in and out, never
// aliased to caller memory.
type Population struct {
	prob *Problem
	xs   [][]float64
	fs   [][]float64
}

// NewPopulation creates a population of size random members drawn uniformly
// within the problem bounds from a deterministic seed.
func NewPopulation(p *Problem, size int, seed int64) *Population {
	pop := &Population{prob: p}
	rng := rand.New(rand.NewSource(seed))
	lower, upper := p.Bounds()
	for i := 0; i < size; i++ {
		x := make([]float64, p.Dim())
		for j := range x {
			x[j] = lower[j] + rng.Float64()*(upper[j]-lower[j])
		}
		pop.Push(x)
	}
	return pop
}

// EmptyPopulation creates a population with no members.
func EmptyPopulation(p *Problem) *Population {
	return &Population{prob: p}
}

// Problem returns the problem the population is defined over.
func (p *Population) Problem() *Problem { return p.prob }

// Len returns the number of members.
func (p *Population) Len() int { return len(p.xs) }

// Push evaluates x and appends it as a new member.
func (p *Population) Push(x []float64) {
	xc := make([]float64, len(x))
	copy(xc, x)
	p.xs = append(p.xs, xc)
	p.fs = append(p.fs, p.prob.Fitness(xc))
}

// X returns a copy of member i's decision vector.
func (p *Population) X(i int) []float64 {
	x := make([]float64, len(p.xs[i]))
	copy(x, p.xs[i])
	return x
}

// F returns a copy of member i's fitness vector.
func (p *Population) F(i int) []float64 {
	f := make([]float64, len(p.fs[i]))
	copy(f, p.fs[i])
	return f
}

// Set overwrites member i with the given decision and fitness vectors.
func (p *Population) Set(i int, x, f []float64) error {
	if i < 0 || i >= len(p.xs) {
		return fmt.Errorf("population index %d out of range [0, %d)", i, len(p.xs))
	}
	if len(x) != p.prob.Dim() {
		return fmt.Errorf("decision vector length %d, want %d", len(x), p.prob.Dim())
	}
	if len(f) != p.prob.FitnessLen() {
		return fmt.Errorf("fitness vector length %d, want %d", len(f), p.prob.FitnessLen())
	}
	xc := make([]float64, len(x))
	fc := make([]float64, len(f))
	copy(xc, x)
	copy(fc, f)
	p.xs[i] = xc
	p.fs[i] = fc
	return nil
}

// BestIdx returns the index of the best member under the feasibility-aware
// comparison rule. It panics on an empty population.
func (p *Population) BestIdx() int {
	if len(p.xs) == 0 {
		panic("BestIdx on empty population")
	}
	best := 0
	for i := 1; i < len(p.fs); i++ {
		if Compare(p.fs[i], p.fs[best], p.prob.NumEq(), p.prob.tol) {
			best = i
		}
	}
	return best
}

// WorstIdx returns the index of the worst member under the feasibility-aware
// comparison rule. It panics on an empty population.
func (p *Population) WorstIdx() int {
	if len(p.xs) == 0 {
		panic("WorstIdx on empty population")
	}
	worst := 0
	for i := 1; i < len(p.fs); i++ {
		if Compare(p.fs[worst], p.fs[i], p.prob.NumEq(), p.prob.tol) {
			worst = i
		}
	}
	return worst
}

// Champion returns copies of the best member's decision and fitness vectors.
func (p *Population) Champion() ([]float64, []float64) {
	i := p.BestIdx()
	return p.X(i), p.F(i)
}
