//go:build !((linux || darwin) && (amd64 || arm64))

package worhp

import (
	"errors"
	"runtime"
)

// loadNative on platforms without dynamic symbol loading support. Binders
// installed through RegisterBinder still work everywhere.
func loadNative(path string) (API, error) {
	return nil, &LoadError{
		Path:  path,
		Step:  LoadStepOpen,
		Cause: errors.New("dynamic library loading is not supported on " + runtime.GOOS + "/" + runtime.GOARCH),
	}
}
