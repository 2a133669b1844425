// Package config loads solver run configuration from defaults, an
// optional YAML file, environment variables, and command line flags.
//
// Precedence (highest to lowest): flags > env vars > config file > defaults.
package config

import (
	"fmt"

	"github.com/plugopt/worhpgo/internal/worhp"
)

// Config holds all settings for a solver run.
type Config struct {
	// Library is the path to the WORHP shared library.
	Library string `koanf:"library"`

	// Problem names the catalog problem to solve.
	Problem string `koanf:"problem"`

	// PopSize is the number of candidates in the population.
	PopSize int `koanf:"pop_size"`

	// Seed drives population initialization and the random policies.
	Seed int64 `koanf:"seed"`

	// Verbosity logs every n-th objective evaluation; 0 disables logging.
	Verbosity uint `koanf:"verbosity"`

	// ScreenOutput lets the solver print its own iteration output.
	ScreenOutput bool `koanf:"screen_output"`

	// Select names the individual handed to the solver ("best", "worst",
	// "random", or a population index).
	Select string `koanf:"select"`

	// Replace names the individual the result is written back to.
	Replace string `koanf:"replace"`

	// WarmStart runs the mayfly optimizer before the solver to improve
	// the starting candidate.
	WarmStart bool `koanf:"warm_start"`

	// WarmIters is the number of mayfly iterations for the warm start.
	WarmIters int `koanf:"warm_iters"`

	// WarmPop is the mayfly swarm size for the warm start.
	WarmPop int `koanf:"warm_pop"`

	// WarmPenalty weighs constraint violations in the warm start merit.
	WarmPenalty float64 `koanf:"warm_penalty"`

	// TraceDir enables run tracing into <dir>/runs/<id> when non-empty.
	TraceDir string `koanf:"trace_dir"`
}

// Default configuration values.
const (
	DefaultLibrary   = worhp.DefaultLibraryPath
	DefaultProblem   = "corner"
	DefaultPopSize   = 20
	DefaultSeed      = 42
	DefaultPolicy    = "best"
	DefaultWarmIters = 100
	DefaultWarmPop   = 30
)

// DefaultWarmPenalty is the violation weight in the warm start merit.
const DefaultWarmPenalty = 1000.0

// Validate checks the configuration for values no run can work with.
func (c *Config) Validate() error {
	if c.Library == "" {
		return fmt.Errorf("library is required")
	}
	if c.Problem == "" {
		return fmt.Errorf("problem is required")
	}
	if c.PopSize < 1 {
		return fmt.Errorf("pop_size must be at least 1, got %d", c.PopSize)
	}
	if _, err := worhp.ParseIndividual(c.Select); err != nil {
		return fmt.Errorf("invalid select policy: %w", err)
	}
	if _, err := worhp.ParseIndividual(c.Replace); err != nil {
		return fmt.Errorf("invalid replace policy: %w", err)
	}
	if c.ScreenOutput && c.Verbosity > 0 {
		return fmt.Errorf("screen_output and verbosity cannot be combined")
	}
	if c.WarmStart {
		if c.WarmIters < 1 {
			return fmt.Errorf("warm_iters must be at least 1, got %d", c.WarmIters)
		}
		if c.WarmPop < 2 {
			return fmt.Errorf("warm_pop must be at least 2, got %d", c.WarmPop)
		}
		if c.WarmPenalty < 0 {
			return fmt.Errorf("warm_penalty cannot be negative, got %g", c.WarmPenalty)
		}
	}
	return nil
}
