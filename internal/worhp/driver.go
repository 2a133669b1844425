package worhp

// dispatch is the fixed polling order of the reverse-communication loop.
// Entries with ack true are acknowledged through DoneUserAction after their
// handler ran; the solver clears the flags of the other two itself, inside
// Step and FiniteDifference.
var dispatch = []struct {
	action Action
	ack    bool
}{
	{ActionStep, false},
	{ActionIterationOutput, true},
	{ActionEvalObjective, true},
	{ActionEvalConstraints, true},
	{ActionFiniteDifference, false},
}

// driver services one solver session until it leaves the running state.
// The handlers translate the solver's buffer-level requests into problem
// evaluations; ActionStep and ActionFiniteDifference go straight to the
// library. A non-nil onIteration stands in for the library's own
// IterationOutput routine.
type driver struct {
	api  API
	sess Session

	onIteration   func()
	onObjective   func()
	onConstraints func()
}

// run polls every action in dispatch order and services the ones the
// session asserts, over and over, until the status turns terminal. It
// returns the final status.
func (d *driver) run() Status {
	for d.sess.Status().Running() {
		for _, e := range dispatch {
			if !d.api.GetUserAction(d.sess, e.action) {
				continue
			}
			d.service(e.action)
			if e.ack {
				d.api.DoneUserAction(d.sess, e.action)
			}
		}
	}
	return d.sess.Status()
}

func (d *driver) service(a Action) {
	switch a {
	case ActionStep:
		d.api.Step(d.sess)
	case ActionIterationOutput:
		if d.onIteration != nil {
			d.onIteration()
		} else {
			d.api.IterationOutput(d.sess)
		}
	case ActionEvalObjective:
		d.onObjective()
	case ActionEvalConstraints:
		d.onConstraints()
	case ActionFiniteDifference:
		d.api.FiniteDifference(d.sess)
	}
}
