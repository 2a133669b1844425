// Package worhptest provides in-memory doubles for the worhp adapter:
// scriptable reverse-communication solvers that stand in for a real shared
// library through the binder registry. None of them touch native code, so
// the full session lifecycle is exercisable on any platform.
package worhptest

import (
	"sync"

	"github.com/plugopt/worhpgo/internal/worhp"
)

// StubAPI implements worhp.API over StubSession values. The zero value is
// usable; StepFn and FD script the solver's behaviour, everything else is
// bookkeeping. A StubAPI is not safe for concurrent solves.
type StubAPI struct {
	// ScaleObj seeds the session's objective scaling factor; zero means 1.
	ScaleObj float64
	// Infinity seeds the session's unbounded-row value; zero means 1e20.
	Infinity float64
	// NParams is the parameter count ReadParams reports.
	NParams int
	// InitStatus, when terminal, makes Init fail with that status.
	InitStatus worhp.Status
	// StepFn runs when the main routine is invoked.
	StepFn func(*StubSession)
	// FD runs when the finite-difference routine is invoked.
	FD func(*StubSession)

	mu         sync.Mutex
	sessions   []*StubSession
	paramFiles []string
}

// Binder returns a binder that hands out this API for any path.
func (a *StubAPI) Binder() worhp.Binder {
	return func(string) (worhp.API, error) { return a, nil }
}

// Sessions returns every session created so far, in creation order.
func (a *StubAPI) Sessions() []*StubSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*StubSession(nil), a.sessions...)
}

// ParamFiles returns the parameter file paths passed to ReadParams.
func (a *StubAPI) ParamFiles() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.paramFiles...)
}

func (a *StubAPI) session(s worhp.Session) *StubSession {
	ss, ok := s.(*StubSession)
	if !ok {
		panic("worhptest: session does not belong to this stub")
	}
	return ss
}

func (a *StubAPI) PreInit() worhp.Session {
	ss := &StubSession{
		scaleObj: a.ScaleObj,
		infinity: a.Infinity,
		status:   worhp.StatusFirstCall,
		pending:  map[worhp.Action]bool{},
		acks:     map[worhp.Action]int{},
	}
	if ss.scaleObj == 0 {
		ss.scaleObj = 1
	}
	if ss.infinity == 0 {
		ss.infinity = 1e20
	}
	a.mu.Lock()
	a.sessions = append(a.sessions, ss)
	a.mu.Unlock()
	return ss
}

func (a *StubAPI) ReadParams(s worhp.Session, path string) int {
	a.session(s)
	a.mu.Lock()
	a.paramFiles = append(a.paramFiles, path)
	a.mu.Unlock()
	return a.NParams
}

func (a *StubAPI) Init(s worhp.Session) {
	ss := a.session(s)
	if !ss.sized {
		panic("worhptest: Init before SetDims")
	}
	ss.x = make([]float64, ss.n)
	ss.xl = make([]float64, ss.n)
	ss.xu = make([]float64, ss.n)
	ss.g = make([]float64, ss.m)
	ss.gl = make([]float64, ss.m)
	ss.gu = make([]float64, ss.m)
	ss.inited = true
	if !a.InitStatus.Running() {
		ss.status = a.InitStatus
		return
	}
	ss.pending[worhp.ActionStep] = true
}

func (a *StubAPI) GetUserAction(s worhp.Session, act worhp.Action) bool {
	ss := a.session(s)
	ss.polls++
	return ss.pending[act]
}

func (a *StubAPI) DoneUserAction(s worhp.Session, act worhp.Action) {
	if act == worhp.ActionStep || act == worhp.ActionFiniteDifference {
		panic("worhptest: " + act.String() + " must not be acknowledged")
	}
	ss := a.session(s)
	ss.acks[act]++
	ss.pending[act] = false
}

func (a *StubAPI) IterationOutput(s worhp.Session) {
	a.session(s).iterOuts++
}

func (a *StubAPI) Step(s worhp.Session) {
	ss := a.session(s)
	ss.stepCalls++
	if a.StepFn != nil {
		a.StepFn(ss)
	} else {
		ss.status = worhp.TerminateSuccess
	}
}

func (a *StubAPI) StatusMessage(s worhp.Session) {
	a.session(s).statusMsgs++
}

func (a *StubAPI) Free(s worhp.Session) {
	ss := a.session(s)
	ss.freeCalls++
	ss.freed = true
}

func (a *StubAPI) FiniteDifference(s worhp.Session) {
	ss := a.session(s)
	ss.fidifCalls++
	if a.FD != nil {
		a.FD(ss)
	}
}

// StubSession is the in-memory counterpart of a native solver session. The
// buffers are plain slices, the action flags live in a map, and every
// protocol interaction is counted so tests can assert on the traffic.
type StubSession struct {
	n, m   int
	sized  bool
	inited bool
	freed  bool

	x, xl, xu []float64
	g, gl, gu []float64
	f         float64

	scaleObj  float64
	infinity  float64
	status    worhp.Status
	derivFree bool
	silenced  bool

	pending map[worhp.Action]bool
	acks    map[worhp.Action]int

	polls      int
	stepCalls  int
	fidifCalls int
	iterOuts   int
	statusMsgs int
	freeCalls  int

	// Aux carries per-session state for scripted behaviours.
	Aux any
}

func (s *StubSession) SetDims(n, m int) {
	if s.inited {
		panic("worhptest: SetDims after Init")
	}
	s.n, s.m = n, m
	s.sized = true
}

func (s *StubSession) N() int { return s.n }
func (s *StubSession) M() int { return s.m }

func (s *StubSession) SetDerivativeFreeMode() { s.derivFree = true }
func (s *StubSession) SuppressOutput()        { s.silenced = true }

func (s *StubSession) X() []float64  { return s.buffer(s.x) }
func (s *StubSession) XL() []float64 { return s.buffer(s.xl) }
func (s *StubSession) XU() []float64 { return s.buffer(s.xu) }
func (s *StubSession) G() []float64  { return s.buffer(s.g) }
func (s *StubSession) GL() []float64 { return s.buffer(s.gl) }
func (s *StubSession) GU() []float64 { return s.buffer(s.gu) }

func (s *StubSession) F() float64        { return s.f }
func (s *StubSession) SetF(v float64)    { s.f = v }
func (s *StubSession) ScaleObj() float64 { return s.scaleObj }
func (s *StubSession) Infinity() float64 { return s.infinity }
func (s *StubSession) Status() worhp.Status {
	return s.status
}

func (s *StubSession) buffer(v []float64) []float64 {
	if !s.inited || s.freed {
		panic("worhptest: session buffers are only valid between Init and Free")
	}
	return v
}

// Request asserts the given action flags, as the solver does when it needs
// the caller.
func (s *StubSession) Request(actions ...worhp.Action) {
	for _, a := range actions {
		s.pending[a] = true
	}
}

// ClearRequest drops an action flag without an acknowledgement, the way
// the solver's own routines retract their flags internally.
func (s *StubSession) ClearRequest(a worhp.Action) {
	s.pending[a] = false
}

// Requested reports whether the action flag is currently asserted.
func (s *StubSession) Requested(a worhp.Action) bool { return s.pending[a] }

// Terminate moves the session to the given terminal status.
func (s *StubSession) Terminate(st worhp.Status) { s.status = st }

// Acks returns how often the action was acknowledged via DoneUserAction.
func (s *StubSession) Acks(a worhp.Action) int { return s.acks[a] }

// Polls returns the total number of GetUserAction calls.
func (s *StubSession) Polls() int { return s.polls }

// StepCalls returns how often the main routine ran.
func (s *StubSession) StepCalls() int { return s.stepCalls }

// FidifCalls returns how often the finite-difference routine ran.
func (s *StubSession) FidifCalls() int { return s.fidifCalls }

// IterationOutputs returns how often iteration output was produced.
func (s *StubSession) IterationOutputs() int { return s.iterOuts }

// StatusMessages returns how often the final status report ran.
func (s *StubSession) StatusMessages() int { return s.statusMsgs }

// FreeCalls returns how often the session was released.
func (s *StubSession) FreeCalls() int { return s.freeCalls }

// Freed reports whether the session was released.
func (s *StubSession) Freed() bool { return s.freed }

// DerivativeFree reports whether derivative-free mode was requested.
func (s *StubSession) DerivativeFree() bool { return s.derivFree }

// Silenced reports whether the solver's screen output was suppressed.
func (s *StubSession) Silenced() bool { return s.silenced }
