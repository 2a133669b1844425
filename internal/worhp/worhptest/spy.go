package worhptest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/plugopt/worhpgo/internal/worhp"
)

// Spy counts load attempts before delegating to the wrapped binder. With a
// nil binder every attempt fails, which is enough for tests that only care
// whether loading was reached at all.
type Spy struct {
	next worhp.Binder

	mu    sync.Mutex
	paths []string
}

// NewSpy wraps next, which may be nil.
func NewSpy(next worhp.Binder) *Spy {
	return &Spy{next: next}
}

// Bind is the worhp.Binder the spy is registered as.
func (s *Spy) Bind(path string) (worhp.API, error) {
	s.mu.Lock()
	s.paths = append(s.paths, path)
	s.mu.Unlock()
	if s.next == nil {
		return nil, &worhp.LoadError{
			Path:  path,
			Step:  worhp.LoadStepOpen,
			Cause: errors.New("worhptest: no binder behind spy"),
		}
	}
	return s.next(path)
}

// Loads returns the number of load attempts observed so far.
func (s *Spy) Loads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.paths)
}

// Paths returns the paths of all observed load attempts.
func (s *Spy) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

// MissingSymbol returns a binder that fails to bind, reporting the named
// entry point as absent: the load failure shape of a library built without
// one of the required exports.
func MissingSymbol(symbol string) worhp.Binder {
	return func(path string) (worhp.API, error) {
		return nil, &worhp.LoadError{
			Path:   path,
			Step:   worhp.LoadStepBind,
			Symbol: symbol,
			Cause:  fmt.Errorf("undefined symbol: %s", symbol),
		}
	}
}
