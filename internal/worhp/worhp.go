// Package worhp adapts the WORHP nonlinear programming solver to the
// population model of package problem. The solver is not linked at build
// time: it is resolved from a shared library at run time and driven through
// its reverse-communication protocol, in which the library repeatedly asks
// the caller to perform one of a fixed set of actions (run a solver step,
// report an iteration, evaluate the objective or the constraints, or run
// the finite-difference machinery) until a terminal status is reached.
//
// The Solver type is the entry point: it selects one member of a
// population, polishes it with WORHP, and writes the result back only when
// it improves on the selected member under the feasibility-aware comparison
// rule of package problem.
package worhp

// Action identifies one operation the solver can request from the caller
// during the reverse-communication loop.
type Action int

const (
	// ActionStep asks the caller to invoke the solver's main routine.
	ActionStep Action = iota
	// ActionIterationOutput asks for the current iterate to be reported.
	ActionIterationOutput
	// ActionEvalObjective asks for the objective at X to be written into F.
	ActionEvalObjective
	// ActionEvalConstraints asks for the constraint values at X to be
	// written into G.
	ActionEvalConstraints
	// ActionFiniteDifference asks the caller to invoke the solver's
	// finite-difference routine.
	ActionFiniteDifference
)

func (a Action) String() string {
	switch a {
	case ActionStep:
		return "step"
	case ActionIterationOutput:
		return "iterationOutput"
	case ActionEvalObjective:
		return "evalObjective"
	case ActionEvalConstraints:
		return "evalConstraints"
	case ActionFiniteDifference:
		return "finiteDifference"
	default:
		return "unknown"
	}
}

// API is the abstract surface of one loaded solver build: the ten entry
// points of WORHP's Unified Solver Interface, operating on sessions created
// by the same binder. Implementations must be safe for concurrent solves on
// distinct sessions; a single session is only ever driven by one solve.
type API interface {
	// PreInit allocates the solver's data structures for one solve and puts
	// them into their defined empty state.
	PreInit() Session

	// ReadParams loads the solver parameter file at path into the session's
	// parameter block and returns the number of parameters that were set.
	// A missing file is not an error; the solver keeps its defaults.
	ReadParams(s Session, path string) int

	// Init sizes and allocates the solver workspace. The session's buffer
	// views are valid afterwards if the session status is still running;
	// a terminal status reports an initialisation failure.
	Init(s Session)

	// GetUserAction reports whether the session currently requests action a.
	GetUserAction(s Session, a Action) bool

	// DoneUserAction tells the solver that action a has been serviced.
	// It must not be called for ActionStep or ActionFiniteDifference,
	// whose flags the library clears on its own.
	DoneUserAction(s Session, a Action)

	// IterationOutput prints the solver's own per-iteration report line.
	IterationOutput(s Session)

	// Step runs the solver's main routine for one round.
	Step(s Session)

	// StatusMessage prints the solver's final status report.
	StatusMessage(s Session)

	// Free releases all solver-owned memory. The session must not be used
	// afterwards. Free is idempotent.
	Free(s Session)

	// FiniteDifference advances the solver's finite-difference machinery.
	FiniteDifference(s Session)
}

// Session is the solver-owned state for a single solve: problem dimensions,
// the flat decision and constraint buffers, parameters and the control
// status. A session is created by API.PreInit, used by exactly one solve
// and released with API.Free; it is never shared between solves or reused.
//
// Methods panic when called out of stage order (for example reading X
// before Init has run); such misuse is a programming error, not a runtime
// condition.
type Session interface {
	// SetDims declares the problem size and dense derivative storage.
	// Must be called after PreInit and before Init.
	SetDims(n, m int)
	N() int
	M() int

	// SetDerivativeFreeMode clears the user-supplied derivative flags so the
	// solver estimates all derivatives internally, and enables its initial
	// estimation of the dual variables.
	SetDerivativeFreeMode()

	// SuppressOutput disables the solver's own screen printing for this
	// session, overriding whatever the parameter file configured.
	SuppressOutput()

	// Buffer views, valid after Init. The slices alias the solver's memory:
	// writes are seen by the solver and the solver's writes are seen by the
	// caller.
	X() []float64
	XL() []float64
	XU() []float64
	G() []float64
	GL() []float64
	GU() []float64

	// F is the scalar objective slot.
	F() float64
	SetF(v float64)

	// ScaleObj is the objective scaling factor the solver chose during
	// Init. It is treated as a constant for the lifetime of the solve.
	ScaleObj() float64

	// Infinity is the value the parameter block uses for unbounded rows.
	Infinity() float64

	// Status returns the current control status.
	Status() Status
}

// Binder opens the solver library identified by path and binds its entry
// points. The native binder is the default; tests and alternative backends
// install their own through RegisterBinder.
type Binder func(path string) (API, error)
