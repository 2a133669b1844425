// Package problem defines the optimization problem contract consumed by the
// solver adapter: box-bounded, single-objective problems with an ordered
// constraint vector (equality rows first, then inequality rows expressed as
// "<= 0" violations).
package problem

import (
	"fmt"
	"sync/atomic"
)

// Definition describes a problem before validation. Fitness must map a
// decision vector of length len(Lower) to a vector of Objectives values
// followed by NumEq + NumIneq constraint values.
type Definition struct {
	Name    string
	Lower   []float64
	Upper   []float64
	NumEq   int
	NumIneq int

	// Objectives is the number of leading objective values in the fitness
	// vector. Zero means one.
	Objectives int

	// Stochastic marks problems whose fitness depends on an internal seed.
	Stochastic bool

	// Tolerance holds per-constraint feasibility tolerances. Nil means zero
	// tolerance on every row; a single value is broadcast to all rows.
	Tolerance []float64

	Fitness func(x []float64) []float64
}

// Problem is a validated, immutable problem definition with an evaluation
// counter. Safe for concurrent use by independent solves.
type Problem struct {
	name       string
	lower      []float64
	upper      []float64
	nec        int
	nic        int
	nobj       int
	stochastic bool
	tol        []float64
	fitness    func(x []float64) []float64

	fevals atomic.Uint64
}

// DefinitionError reports an invalid field in a problem definition.
type DefinitionError struct {
	Field  string
	Reason string
}

func (e *DefinitionError) Error() string {
	return "invalid problem definition: " + e.Field + " " + e.Reason
}

// New validates a definition and returns the problem.
func New(def Definition) (*Problem, error) {
	if def.Name == "" {
		return nil, &DefinitionError{Field: "Name", Reason: "cannot be empty"}
	}
	if def.Fitness == nil {
		return nil, &DefinitionError{Field: "Fitness", Reason: "cannot be nil"}
	}
	if len(def.Lower) == 0 {
		return nil, &DefinitionError{Field: "Lower", Reason: "cannot be empty"}
	}
	if len(def.Lower) != len(def.Upper) {
		return nil, &DefinitionError{Field: "Upper", Reason: fmt.Sprintf("length %d does not match Lower length %d", len(def.Upper), len(def.Lower))}
	}
	for i := range def.Lower {
		if def.Lower[i] > def.Upper[i] {
			return nil, &DefinitionError{Field: "Lower", Reason: fmt.Sprintf("bound %d exceeds its upper bound", i)}
		}
	}
	if def.NumEq < 0 {
		return nil, &DefinitionError{Field: "NumEq", Reason: "cannot be negative"}
	}
	if def.NumIneq < 0 {
		return nil, &DefinitionError{Field: "NumIneq", Reason: "cannot be negative"}
	}

	nobj := def.Objectives
	if nobj == 0 {
		nobj = 1
	}
	if nobj < 0 {
		return nil, &DefinitionError{Field: "Objectives", Reason: "cannot be negative"}
	}

	m := def.NumEq + def.NumIneq
	tol := make([]float64, m)
	switch len(def.Tolerance) {
	case 0:
	case 1:
		for i := range tol {
			tol[i] = def.Tolerance[0]
		}
	case m:
		copy(tol, def.Tolerance)
	default:
		return nil, &DefinitionError{Field: "Tolerance", Reason: fmt.Sprintf("length must be 0, 1 or %d, got %d", m, len(def.Tolerance))}
	}
	for i, t := range tol {
		if t < 0 {
			return nil, &DefinitionError{Field: "Tolerance", Reason: fmt.Sprintf("row %d cannot be negative", i)}
		}
	}

	lower := make([]float64, len(def.Lower))
	upper := make([]float64, len(def.Upper))
	copy(lower, def.Lower)
	copy(upper, def.Upper)

	return &Problem{
		name:       def.Name,
		lower:      lower,
		upper:      upper,
		nec:        def.NumEq,
		nic:        def.NumIneq,
		nobj:       nobj,
		stochastic: def.Stochastic,
		tol:        tol,
		fitness:    def.Fitness,
	}, nil
}

// Name returns the problem name.
func (p *Problem) Name() string { return p.name }

// Dim returns the decision vector length.
func (p *Problem) Dim() int { return len(p.lower) }

// NumObj returns the number of objectives declared by the fitness function.
func (p *Problem) NumObj() int { return p.nobj }

// NumEq returns the number of leading equality constraint rows.
func (p *Problem) NumEq() int { return p.nec }

// NumIneq returns the number of trailing inequality constraint rows.
func (p *Problem) NumIneq() int { return p.nic }

// NumConstraints returns the total constraint count.
func (p *Problem) NumConstraints() int { return p.nec + p.nic }

// FitnessLen returns the length of the fitness vector.
func (p *Problem) FitnessLen() int { return p.nobj + p.nec + p.nic }

// Stochastic reports whether the fitness depends on an internal seed.
func (p *Problem) Stochastic() bool { return p.stochastic }

// Bounds returns copies of the per-variable lower and upper bounds.
func (p *Problem) Bounds() ([]float64, []float64) {
	lower := make([]float64, len(p.lower))
	upper := make([]float64, len(p.upper))
	copy(lower, p.lower)
	copy(upper, p.upper)
	return lower, upper
}

// Tolerance returns a copy of the per-constraint feasibility tolerances.
func (p *Problem) Tolerance() []float64 {
	tol := make([]float64, len(p.tol))
	copy(tol, p.tol)
	return tol
}

// Fitness evaluates the fitness vector at x and bumps the evaluation counter.
// It panics if x or the returned vector have the wrong length.
func (p *Problem) Fitness(x []float64) []float64 {
	if len(x) != p.Dim() {
		panic(fmt.Sprintf("problem %q: decision vector length %d, want %d", p.name, len(x), p.Dim()))
	}
	f := p.fitness(x)
	if len(f) != p.FitnessLen() {
		panic(fmt.Sprintf("problem %q: fitness vector length %d, want %d", p.name, len(f), p.FitnessLen()))
	}
	p.fevals.Add(1)
	return f
}

// FevalCount returns the number of fitness evaluations performed so far.
func (p *Problem) FevalCount() uint64 {
	return p.fevals.Load()
}

// Feasible reports whether the fitness vector f satisfies every constraint
// within the problem's tolerances.
func (p *Problem) Feasible(f []float64) bool {
	violated, _ := Violations(f, p.nec, p.tol)
	return violated == 0
}
