package worhp

import "github.com/plugopt/worhpgo/internal/problem"

// bridge moves candidate data between a problem and a solver session. The
// fitness layout is [objective, equality constraints, inequality
// constraints]; the session sees the objective through F, scaled by the
// factor the solver chose at Init, and the constraints through G.
type bridge struct {
	prob  *problem.Problem
	sess  Session
	scale float64
}

func newBridge(prob *problem.Problem, sess Session) *bridge {
	return &bridge{prob: prob, sess: sess, scale: sess.ScaleObj()}
}

// seedCandidate writes the selected member into the session: the decision
// vector into X, the objective into F and the constraint part of the
// fitness into G.
func (b *bridge) seedCandidate(x, f []float64) {
	copy(b.sess.X(), x)
	b.sess.SetF(b.scale * f[0])
	copy(b.sess.G(), f[1:])
}

// seedBounds writes the variable box into XL/XU and the constraint rows
// into GL/GU: equality rows are fixed at zero, inequality rows range from
// unbounded below to zero.
func (b *bridge) seedBounds() {
	lower, upper := b.prob.Bounds()
	copy(b.sess.XL(), lower)
	copy(b.sess.XU(), upper)

	gl, gu := b.sess.GL(), b.sess.GU()
	neg := -b.sess.Infinity()
	nec := b.prob.NumEq()
	for i := range gl {
		if i < nec {
			gl[i], gu[i] = 0, 0
		} else {
			gl[i], gu[i] = neg, 0
		}
	}
}

// evalObjective evaluates the problem at the session's current X and writes
// the scaled objective into F. The full fitness vector is returned so the
// caller can log it.
func (b *bridge) evalObjective() []float64 {
	f := b.prob.Fitness(b.current())
	b.sess.SetF(b.scale * f[0])
	return f
}

// evalConstraints evaluates the problem at the session's current X and
// writes the constraint values into G.
func (b *bridge) evalConstraints() {
	f := b.prob.Fitness(b.current())
	copy(b.sess.G(), f[1:])
}

// finalCandidate copies the session's decision vector out and evaluates it
// once more through the problem. The fresh evaluation undoes the objective
// scaling and clears any values the finite-difference probes left in the
// buffers.
func (b *bridge) finalCandidate() (x, f []float64) {
	x = append([]float64(nil), b.sess.X()...)
	return x, b.prob.Fitness(x)
}

func (b *bridge) current() []float64 {
	return append([]float64(nil), b.sess.X()...)
}
