package worhp

import (
	"testing"

	"github.com/plugopt/worhpgo/internal/problem"
)

// fakeSession backs the bridge tests with plain slices.
type fakeSession struct {
	x, xl, xu []float64
	g, gl, gu []float64
	f         float64
	scale     float64
	inf       float64
}

func newFakeSession(n, m int, scale float64) *fakeSession {
	return &fakeSession{
		x: make([]float64, n), xl: make([]float64, n), xu: make([]float64, n),
		g: make([]float64, m), gl: make([]float64, m), gu: make([]float64, m),
		scale: scale,
		inf:   1e20,
	}
}

func (s *fakeSession) SetDims(n, m int)       {}
func (s *fakeSession) N() int                 { return len(s.x) }
func (s *fakeSession) M() int                 { return len(s.g) }
func (s *fakeSession) SetDerivativeFreeMode() {}
func (s *fakeSession) SuppressOutput()        {}
func (s *fakeSession) X() []float64           { return s.x }
func (s *fakeSession) XL() []float64          { return s.xl }
func (s *fakeSession) XU() []float64          { return s.xu }
func (s *fakeSession) G() []float64           { return s.g }
func (s *fakeSession) GL() []float64          { return s.gl }
func (s *fakeSession) GU() []float64          { return s.gu }
func (s *fakeSession) F() float64             { return s.f }
func (s *fakeSession) SetF(v float64)         { s.f = v }
func (s *fakeSession) ScaleObj() float64      { return s.scale }
func (s *fakeSession) Infinity() float64      { return s.inf }
func (s *fakeSession) Status() Status         { return StatusFirstCall }

func hs71Bridge(t *testing.T, scale float64) (*problem.Problem, *fakeSession, *bridge) {
	t.Helper()
	prob, err := problem.ByName("hs71")
	if err != nil {
		t.Fatalf("ByName(hs71): %v", err)
	}
	sess := newFakeSession(prob.Dim(), prob.NumConstraints(), scale)
	return prob, sess, newBridge(prob, sess)
}

// Seeding a session and reading it back must reproduce the candidate
// exactly: no arithmetic beyond the documented objective scaling touches
// the values.
func TestBridgeSeedRoundTrip(t *testing.T) {
	prob, sess, br := hs71Bridge(t, 2)

	x := []float64{1, 4.5, 3.8, 1.4}
	f := prob.Fitness(x)
	br.seedCandidate(x, f)

	for i := range x {
		if sess.x[i] != x[i] {
			t.Errorf("X[%d] = %v, want %v", i, sess.x[i], x[i])
		}
	}
	if sess.f != 2*f[0] {
		t.Errorf("F = %v, want %v", sess.f, 2*f[0])
	}
	for i := range sess.g {
		if sess.g[i] != f[1+i] {
			t.Errorf("G[%d] = %v, want %v", i, sess.g[i], f[1+i])
		}
	}
}

func TestBridgeSeedBounds(t *testing.T) {
	prob, sess, br := hs71Bridge(t, 1)
	br.seedBounds()

	lower, upper := prob.Bounds()
	for i := range lower {
		if sess.xl[i] != lower[i] || sess.xu[i] != upper[i] {
			t.Errorf("variable %d bounds = [%v, %v], want [%v, %v]",
				i, sess.xl[i], sess.xu[i], lower[i], upper[i])
		}
	}
	// Row 0 is the equality row, row 1 the inequality row.
	if sess.gl[0] != 0 || sess.gu[0] != 0 {
		t.Errorf("equality row bounds = [%v, %v], want [0, 0]", sess.gl[0], sess.gu[0])
	}
	if sess.gl[1] != -sess.inf || sess.gu[1] != 0 {
		t.Errorf("inequality row bounds = [%v, %v], want [%v, 0]", sess.gl[1], sess.gu[1], -sess.inf)
	}
}

func TestBridgeEvalWritesSessionSlots(t *testing.T) {
	prob, err := problem.ByName("corner")
	if err != nil {
		t.Fatalf("ByName(corner): %v", err)
	}
	sess := newFakeSession(2, 1, 4)
	br := newBridge(prob, sess)

	copy(sess.x, []float64{3, 1})
	f := br.evalObjective()
	if sess.f != 40 {
		t.Errorf("F after evalObjective = %v, want 40", sess.f)
	}
	if f[0] != 10 || f[1] != -1 {
		t.Errorf("fitness = %v, want [10 -1]", f)
	}

	copy(sess.x, []float64{2, 4})
	br.evalConstraints()
	if sess.g[0] != 1 {
		t.Errorf("G[0] after evalConstraints = %v, want 1", sess.g[0])
	}
}

func TestBridgeFinalCandidateReevaluates(t *testing.T) {
	prob, err := problem.ByName("corner")
	if err != nil {
		t.Fatalf("ByName(corner): %v", err)
	}
	sess := newFakeSession(2, 1, 8)
	br := newBridge(prob, sess)

	copy(sess.x, []float64{1, 2})
	before := prob.FevalCount()
	x, f := br.finalCandidate()
	if got := prob.FevalCount(); got != before+1 {
		t.Errorf("feval count = %d, want %d", got, before+1)
	}
	if x[0] != 1 || x[1] != 2 {
		t.Errorf("x = %v, want [1 2]", x)
	}
	if f[0] != 5 || f[1] != -2 {
		t.Errorf("f = %v, want [5 -2]", f)
	}

	// The returned vector is a copy, detached from the session buffer.
	sess.x[0] = 9
	if x[0] != 1 {
		t.Error("final candidate aliases the session buffer")
	}
}
