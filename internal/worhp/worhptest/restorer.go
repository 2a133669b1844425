package worhptest

import (
	"math"

	"github.com/plugopt/worhpgo/internal/worhp"
)

const (
	restorerTol       = 1e-9
	restorerFDStep    = 1e-7
	restorerMargin    = 1e-6
	restorerMaxRounds = 50
)

// RestorerAPI returns a stub solver that restores feasibility: it probes
// the constraint Jacobian through the finite-difference action, projects
// the iterate onto the violated constraint rows and clamps it to the
// variable box, round after round, until the point is feasible. It stops
// at the first feasible iterate, so a feasible seed passes through
// untouched and an infeasible seed converges to a nearby feasible point.
// Inequality rows are pushed a small margin into the interior.
//
// The probe cycle runs entirely under the finite-difference flag, with the
// main routine retracted and one constraint evaluation per variable, which
// makes it the double of choice for protocol-ordering tests.
func RestorerAPI() *StubAPI {
	api := &StubAPI{ScaleObj: 2}
	api.StepFn = restorerStep
	api.FD = restorerFD
	return api
}

// Restorer is the binder form of RestorerAPI.
func Restorer() worhp.Binder {
	return RestorerAPI().Binder()
}

const (
	restRefresh = iota // ask for fresh values at the current iterate
	restAssess         // judge feasibility, start a probe cycle if needed
)

type restorerState struct {
	phase    int
	round    int
	base     []float64
	g0       []float64
	jac      [][]float64
	probeVar int
}

func restorerStep(s *StubSession) {
	st, ok := s.Aux.(*restorerState)
	if !ok {
		st = &restorerState{phase: restRefresh}
		s.Aux = st
	}
	switch st.phase {
	case restRefresh:
		s.Request(
			worhp.ActionIterationOutput,
			worhp.ActionEvalObjective,
			worhp.ActionEvalConstraints,
		)
		st.phase = restAssess
	case restAssess:
		if restorerFeasible(s) {
			s.Terminate(worhp.TerminateSuccess)
			return
		}
		if st.round >= restorerMaxRounds {
			s.Terminate(worhp.TerminateError)
			return
		}
		st.round++
		st.beginProbe(s)
	}
}

// beginProbe retracts the main routine, perturbs the first variable and
// raises the finite-difference flag. The per-variable constraint
// evaluations run under that flag until every Jacobian column is recorded.
func (st *restorerState) beginProbe(s *StubSession) {
	st.base = append(st.base[:0], s.x...)
	st.g0 = append(st.g0[:0], s.g...)
	st.jac = make([][]float64, s.m)
	for i := range st.jac {
		st.jac[i] = make([]float64, s.n)
	}
	st.probeVar = 0
	s.x[0] += restorerFDStep
	s.ClearRequest(worhp.ActionStep)
	s.Request(worhp.ActionFiniteDifference, worhp.ActionEvalConstraints)
	st.phase = restRefresh
}

func restorerFD(s *StubSession) {
	st := s.Aux.(*restorerState)
	for i := 0; i < s.m; i++ {
		st.jac[i][st.probeVar] = (s.g[i] - st.g0[i]) / restorerFDStep
	}
	st.probeVar++
	if st.probeVar < s.n {
		copy(s.x, st.base)
		s.x[st.probeVar] += restorerFDStep
		s.Request(worhp.ActionEvalConstraints)
		return
	}
	copy(s.x, st.base)
	st.project(s)
	for j := range s.x {
		s.x[j] = math.Max(s.xl[j], math.Min(s.xu[j], s.x[j]))
	}
	s.ClearRequest(worhp.ActionFiniteDifference)
	s.Request(worhp.ActionStep)
}

// project sweeps once over the constraint rows and accumulates a
// correction that moves each violated row to its target under the linear
// model of the recorded Jacobian.
func (st *restorerState) project(s *StubSession) {
	delta := make([]float64, s.n)
	for r := 0; r < s.m; r++ {
		row := st.jac[r]
		denom := dot(row, row)
		if denom < 1e-16 {
			continue
		}
		est := st.g0[r] + dot(row, delta)
		var want float64
		if s.gl[r] == s.gu[r] {
			want = s.gl[r]
			if math.Abs(want-est) <= restorerTol {
				continue
			}
		} else {
			want = s.gu[r] - restorerMargin
			if est <= want {
				continue
			}
		}
		step := (want - est) / denom
		for j := range delta {
			delta[j] += step * row[j]
		}
	}
	for j := range s.x {
		s.x[j] += delta[j]
	}
}

func restorerFeasible(s *StubSession) bool {
	for i := range s.g {
		if s.gl[i] == s.gu[i] {
			if math.Abs(s.g[i]-s.gl[i]) > restorerTol {
				return false
			}
		} else if s.g[i] > s.gu[i] {
			return false
		}
	}
	return true
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
