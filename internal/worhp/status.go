package worhp

import "fmt"

// Status mirrors the solver's control status field. The solver keeps the
// value strictly between TerminateError and TerminateSuccess while the
// reverse-communication protocol is in flight; any value at or beyond one
// of the two thresholds is terminal. Individual terminal codes are specific
// to the solver build, so Status classifies rather than enumerates them.
type Status int32

const (
	// StatusFirstCall is the initial status of a fresh session.
	StatusFirstCall Status = 0
	// TerminateSuccess is the lowest status reporting a successful solve.
	TerminateSuccess Status = 1
	// TerminateError is the highest status reporting a failed solve.
	TerminateError Status = -1
)

// Running reports whether the solve is still in progress.
func (s Status) Running() bool {
	return s > TerminateError && s < TerminateSuccess
}

// Succeeded reports whether the solve ended at a success code.
func (s Status) Succeeded() bool {
	return s >= TerminateSuccess
}

// Failed reports whether the solve ended at an error code.
func (s Status) Failed() bool {
	return s <= TerminateError
}

func (s Status) String() string {
	switch {
	case s.Running():
		return fmt.Sprintf("running (%d)", int32(s))
	case s.Succeeded():
		return fmt.Sprintf("success (%d)", int32(s))
	default:
		return fmt.Sprintf("error (%d)", int32(s))
	}
}
