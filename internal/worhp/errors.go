package worhp

import (
	"fmt"
	"strings"
)

// LoadStep identifies the loading stage at which a library was rejected.
type LoadStep string

const (
	// LoadStepProbe means the path did not point to a regular file.
	LoadStepProbe LoadStep = "probe"
	// LoadStepOpen means the platform loader could not open the library,
	// typically because the file is not a shared library for this platform
	// or one of its own dependencies cannot be resolved.
	LoadStepOpen LoadStep = "open"
	// LoadStepBind means the library is loadable but does not export one of
	// the required solver entry points.
	LoadStepBind LoadStep = "bind"
)

// LoadError reports a failed attempt to load the solver library. No
// partially bound API ever escapes a load failure.
type LoadError struct {
	// Path is the library path as given to Load.
	Path string
	// Step is the loading stage that failed.
	Step LoadStep
	// Symbol names the missing entry point when Step is LoadStepBind.
	Symbol string
	// Cause is the underlying platform diagnostic.
	Cause error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cannot load the worhp library from %q", e.Path)
	if e.Symbol != "" {
		fmt.Fprintf(&b, " (symbol %s)", e.Symbol)
	}
	b.WriteString(": this is typically caused by one of the following:\n")
	b.WriteString(" - the file path is incorrect or does not point to a regular file\n")
	b.WriteString(" - the file is not a shared library for this platform\n")
	b.WriteString(" - the library does not export the required worhp entry points\n")
	b.WriteString(" - the library depends on further libraries that cannot be resolved at run time\n")
	fmt.Fprintf(&b, "the original error message was: %v", e.Cause)
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Cause }

// ConfigurationError reports a problem, population or setting the adapter
// rejects before any interaction with the solver library.
type ConfigurationError struct {
	// Check names the rejected input.
	Check string
	// Reason explains why it was rejected.
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid worhp configuration: " + e.Check + ": " + e.Reason
}
