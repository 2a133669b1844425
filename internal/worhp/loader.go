package worhp

import (
	"errors"
	"os"
	"sync"
)

var errNotRegular = errors.New("not a regular file")

// RequiredSymbols lists the entry points a solver library must export, in
// bind order. Loading fails on the first one that cannot be resolved.
func RequiredSymbols() []string {
	return []string{
		"WorhpPreInit",
		"WorhpInit",
		"ReadParams",
		"GetUserAction",
		"DoneUserAction",
		"IterationOutput",
		"Worhp",
		"StatusMsg",
		"WorhpFree",
		"WorhpFidif",
	}
}

// loadMu serialises library loading process-wide. The platform loader and
// the solver's own global initialisation are not reentrant, so concurrent
// solves against the same or different libraries must not race here.
var loadMu sync.Mutex

var (
	bindersMu sync.RWMutex
	binders   = map[string]Binder{}
)

// RegisterBinder installs b as the binder for the exact path, replacing any
// previous registration. Load consults the registry before touching the
// filesystem, which lets tests and alternative backends stand in for a real
// shared library.
func RegisterBinder(path string, b Binder) {
	bindersMu.Lock()
	defer bindersMu.Unlock()
	binders[path] = b
}

// DeregisterBinder removes the binder registered for path, if any.
func DeregisterBinder(path string) {
	bindersMu.Lock()
	defer bindersMu.Unlock()
	delete(binders, path)
}

func registeredBinder(path string) (Binder, bool) {
	bindersMu.RLock()
	defer bindersMu.RUnlock()
	b, ok := binders[path]
	return b, ok
}

// Load resolves the solver library at path and binds all required entry
// points, returning the bound API or a *LoadError. The result is all or
// nothing: on any failure the library is released and no API escapes.
//
// A registered binder for the exact path takes precedence. Otherwise the
// path must name a regular file containing a shared library; the handle
// stays open for the life of the process, so repeated loads of the same
// path are cheap.
func Load(path string) (API, error) {
	loadMu.Lock()
	defer loadMu.Unlock()

	if b, ok := registeredBinder(path); ok {
		return b(path)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Step: LoadStepProbe, Cause: err}
	}
	if !fi.Mode().IsRegular() {
		return nil, &LoadError{
			Path:  path,
			Step:  LoadStepProbe,
			Cause: &os.PathError{Op: "open", Path: path, Err: errNotRegular},
		}
	}
	return loadNative(path)
}
