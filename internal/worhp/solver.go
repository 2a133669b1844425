package worhp

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/plugopt/worhpgo/internal/problem"
)

const (
	// DefaultLibraryPath is where a system-wide WORHP install usually
	// places its shared library.
	DefaultLibraryPath = "/usr/local/lib/libworhp.so"
	// DefaultParamFile is the solver parameter file read before each solve.
	DefaultParamFile = "param.xml"
	// ParamFileEnv overrides DefaultParamFile when set.
	ParamFileEnv = "WORHP_PARAM_FILE"
)

// LogLine is one verbosity sample: the state of the solve at the objective
// evaluation that produced it.
type LogLine struct {
	Fevals        uint64
	Objective     float64
	Violated      int
	ViolationNorm float64
	Feasible      bool
}

// Solver polishes one member of a population with the WORHP solver, loaded
// at run time from a shared library. A Solver is reusable across
// populations and problems but not safe for concurrent use: every Evolve
// call drives one solver session from creation to teardown.
type Solver struct {
	libraryPath  string
	screenOutput bool
	verbosity    uint
	selection    Individual
	replacement  Individual
	rng          *rand.Rand

	lastStatus Status
	log        []LogLine
}

// New returns a solver bound to the library at libraryPath. The library is
// not touched until Evolve runs. With screenOutput the solver prints its
// own iteration and status reports to standard output; without it the
// solver is silenced and progress is available through SetVerbosity.
func New(libraryPath string, screenOutput bool) *Solver {
	return &Solver{
		libraryPath:  libraryPath,
		screenOutput: screenOutput,
		selection:    Individual{name: "best"},
		replacement:  Individual{name: "best"},
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetSelection controls which member Evolve hands to the solver.
func (s *Solver) SetSelection(in Individual) { s.selection = in }

// SetReplacement controls which member Evolve overwrites with an improved
// result.
func (s *Solver) SetReplacement(in Individual) { s.replacement = in }

// Selection returns the current selection policy.
func (s *Solver) Selection() Individual { return s.selection }

// Replacement returns the current replacement policy.
func (s *Solver) Replacement() Individual { return s.replacement }

// SetSeed reseeds the generator behind the random selection and
// replacement policies.
func (s *Solver) SetSeed(seed int64) {
	s.rng = rand.New(rand.NewSource(seed))
}

// SetVerbosity asks for one LogLine every n objective evaluations; zero
// disables logging. Verbosity is only available when the solver's own
// screen output is off.
func (s *Solver) SetVerbosity(n uint) error {
	if s.screenOutput && n > 0 {
		return &ConfigurationError{
			Check:  "verbosity",
			Reason: "cannot log progress while the solver's own screen output is active",
		}
	}
	s.verbosity = n
	return nil
}

// Verbosity returns the current logging interval.
func (s *Solver) Verbosity() uint { return s.verbosity }

// LastStatus returns the terminal status of the most recent Evolve. Before
// the first Evolve it is StatusFirstCall.
func (s *Solver) LastStatus() Status { return s.lastStatus }

// Log returns the progress samples collected during the most recent
// Evolve.
func (s *Solver) Log() []LogLine {
	return append([]LogLine(nil), s.log...)
}

// Name returns the display name of the wrapped solver.
func (s *Solver) Name() string { return "WORHP" }

// ExtraInfo returns a human-readable description of the solver setup.
func (s *Solver) ExtraInfo() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\tWorhp library filename: %s\n", s.libraryPath)
	fmt.Fprintf(&b, "\tScreen output: %v\n", s.screenOutput)
	fmt.Fprintf(&b, "\tVerbosity: %d\n", s.verbosity)
	fmt.Fprintf(&b, "\tIndividual selection %s\n", s.selection)
	fmt.Fprintf(&b, "\tIndividual replacement %s\n", s.replacement)
	return b.String()
}

// Evolve selects one member of pop, runs a full solver session on it and
// writes the result back through the replacement policy when it improves
// on the selected member without worsening the replaced one. The
// population is modified in place and returned.
//
// Population and problem are validated before the library is loaded; a
// rejected input never causes a load attempt. Once a session is
// initialised its status report and teardown run no matter how the solve
// ends, and a failed solve is not an error: whatever progress passes the
// replacement test is kept and the status is available through
// LastStatus.
func (s *Solver) Evolve(pop *problem.Population) (*problem.Population, error) {
	prob := pop.Problem()

	if n := prob.NumObj(); n != 1 {
		return nil, &ConfigurationError{
			Check:  "objectives",
			Reason: fmt.Sprintf("problem %q has %d objectives, worhp solves single-objective problems", prob.Name(), n),
		}
	}
	if prob.Stochastic() {
		return nil, &ConfigurationError{
			Check:  "stochastic",
			Reason: fmt.Sprintf("problem %q is stochastic", prob.Name()),
		}
	}
	if pop.Len() == 0 {
		return nil, &ConfigurationError{
			Check:  "population",
			Reason: "cannot evolve an empty population",
		}
	}
	if err := s.selection.validate(pop, "selection"); err != nil {
		return nil, err
	}
	if err := s.replacement.validate(pop, "replacement"); err != nil {
		return nil, err
	}

	selIdx, err := s.selection.pick(pop, s.rng)
	if err != nil {
		return nil, err
	}
	x0 := pop.X(selIdx)
	f0 := pop.F(selIdx)
	s.log = nil

	api, err := Load(s.libraryPath)
	if err != nil {
		return nil, err
	}
	slog.Debug("worhp library bound", "path", s.libraryPath)

	sess := api.PreInit()

	paramPath := os.Getenv(ParamFileEnv)
	if paramPath == "" {
		paramPath = DefaultParamFile
	}
	nset := api.ReadParams(sess, paramPath)
	slog.Debug("worhp parameters read", "file", paramPath, "set", nset)

	sess.SetDims(prob.Dim(), prob.NumConstraints())

	api.Init(sess)
	defer func() {
		api.StatusMessage(sess)
		api.Free(sess)
	}()
	if st := sess.Status(); !st.Running() {
		s.lastStatus = st
		slog.Warn("worhp initialisation failed", "status", st.String())
		return pop, nil
	}

	if !s.screenOutput {
		sess.SuppressOutput()
	}
	sess.SetDerivativeFreeMode()

	br := newBridge(prob, sess)
	br.seedCandidate(x0, f0)
	br.seedBounds()

	evals := 0
	d := &driver{
		api:  api,
		sess: sess,
		onObjective: func() {
			f := br.evalObjective()
			evals++
			if s.verbosity > 0 && uint(evals-1)%s.verbosity == 0 {
				s.record(prob, f)
			}
		},
		onConstraints: br.evalConstraints,
	}
	if !s.screenOutput {
		// With output suppressed the library's iteration report would
		// print nothing, so a logging reporter takes its place.
		d.onIteration = func() {
			slog.Debug("worhp iteration", "objective", sess.F(), "fevals", prob.FevalCount())
		}
	}

	slog.Info("worhp solve started",
		"problem", prob.Name(),
		"dim", prob.Dim(),
		"constraints", prob.NumConstraints(),
		"individual", selIdx)
	st := d.run()
	s.lastStatus = st
	slog.Info("worhp solve finished", "status", st.String(), "fevals", prob.FevalCount())

	xf, ff := br.finalCandidate()
	if !problem.Compare(ff, f0, prob.NumEq(), prob.Tolerance()) {
		slog.Debug("result does not improve the selected individual", "idx", selIdx)
		return pop, nil
	}
	replIdx, err := s.replacement.pick(pop, s.rng)
	if err != nil {
		return nil, err
	}
	if replIdx != selIdx && problem.Compare(pop.F(replIdx), ff, prob.NumEq(), prob.Tolerance()) {
		slog.Debug("result would worsen the replacement target", "idx", replIdx)
		return pop, nil
	}
	if err := pop.Set(replIdx, xf, ff); err != nil {
		return nil, fmt.Errorf("replace individual %d: %w", replIdx, err)
	}
	slog.Debug("individual replaced", "idx", replIdx, "objective", ff[0])
	return pop, nil
}

func (s *Solver) record(prob *problem.Problem, f []float64) {
	violated, norm := problem.Violations(f, prob.NumEq(), prob.Tolerance())
	line := LogLine{
		Fevals:        prob.FevalCount(),
		Objective:     f[0],
		Violated:      violated,
		ViolationNorm: norm,
		Feasible:      violated == 0,
	}
	s.log = append(s.log, line)
	slog.Info("worhp progress",
		"fevals", line.Fevals,
		"objective", line.Objective,
		"violated", line.Violated,
		"violation_norm", line.ViolationNorm,
		"feasible", line.Feasible)
}
