package worhptest

import "github.com/plugopt/worhpgo/internal/worhp"

// PassThroughAPI returns a stub solver that requests one round of
// iteration output and user evaluations and then reports success without
// moving the decision vector. It exercises the whole protocol surface in a
// bounded number of passes, which makes it the baseline double for
// lifecycle tests.
func PassThroughAPI() *StubAPI {
	api := &StubAPI{ScaleObj: 0.5}
	api.StepFn = func(s *StubSession) {
		switch s.StepCalls() {
		case 1:
			s.Request(
				worhp.ActionIterationOutput,
				worhp.ActionEvalObjective,
				worhp.ActionEvalConstraints,
			)
		default:
			s.Terminate(worhp.TerminateSuccess)
		}
	}
	return api
}

// PassThrough is the binder form of PassThroughAPI.
func PassThrough() worhp.Binder {
	return PassThroughAPI().Binder()
}
