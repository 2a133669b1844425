package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultLibrary, cfg.Library)
	assert.Equal(t, DefaultProblem, cfg.Problem)
	assert.Equal(t, DefaultPopSize, cfg.PopSize)
	assert.Equal(t, int64(DefaultSeed), cfg.Seed)
	assert.Equal(t, DefaultPolicy, cfg.Select)
	assert.Equal(t, DefaultPolicy, cfg.Replace)
	assert.Equal(t, DefaultWarmIters, cfg.WarmIters)
	assert.Equal(t, DefaultWarmPop, cfg.WarmPop)
	assert.Equal(t, DefaultWarmPenalty, cfg.WarmPenalty)
	assert.False(t, cfg.ScreenOutput)
	assert.False(t, cfg.WarmStart)
	assert.Zero(t, cfg.Verbosity)
	assert.Empty(t, cfg.TraceDir)
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	cfgPath := writeConfig(t, "worhpgo.yaml", `problem: hs71
pop_size: 8
select: random
trace_dir: /tmp/runs
`)

	cfg, err := Load(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "hs71", cfg.Problem)
	assert.Equal(t, 8, cfg.PopSize)
	assert.Equal(t, "random", cfg.Select)
	assert.Equal(t, "/tmp/runs", cfg.TraceDir)
	// Values the file does not mention keep their defaults.
	assert.Equal(t, DefaultLibrary, cfg.Library)
	assert.Equal(t, DefaultPolicy, cfg.Replace)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load("no-such-file.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoad_DefaultFileDiscovered(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "worhpgo.yml"), []byte("pop_size: 5\n"), 0600))
	t.Chdir(tmpDir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.PopSize)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Chdir(t.TempDir())
	cfgPath := writeConfig(t, "worhpgo.yaml", "pop_size: 8\n")
	t.Setenv("WORHPGO_POP_SIZE", "9")
	t.Setenv("WORHPGO_SCREEN_OUTPUT", "true")

	cfg, err := Load(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.PopSize, "env var should override config file")
	assert.True(t, cfg.ScreenOutput)
}

func TestLoad_FlagPrecedence(t *testing.T) {
	t.Chdir(t.TempDir())
	cfgPath := writeConfig(t, "worhpgo.yaml", "problem: sphere\n")
	t.Setenv("WORHPGO_PROBLEM", "hs71")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("problem", "", "problem name")
	require.NoError(t, flags.Set("problem", "corner"))

	cfg, err := Load(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, "corner", cfg.Problem, "flag value should override config file and env var")
}

func TestLoad_FlagNotSetUsesEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	cfgPath := writeConfig(t, "worhpgo.yaml", "problem: sphere\n")
	t.Setenv("WORHPGO_PROBLEM", "hs71")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("problem", "", "problem name")

	cfg, err := Load(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, "hs71", cfg.Problem, "env var should be used when flag is not set")
}

func TestLoad_PopFlagMapsToPopSize(t *testing.T) {
	t.Chdir(t.TempDir())

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("pop", DefaultPopSize, "population size")
	require.NoError(t, flags.Set("pop", "40"))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.PopSize)
}

func TestLoad_RejectsInvalidPolicy(t *testing.T) {
	t.Chdir(t.TempDir())
	cfgPath := writeConfig(t, "worhpgo.yaml", "select: neither\n")

	_, err := Load(cfgPath, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid select policy")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Library:   DefaultLibrary,
			Problem:   DefaultProblem,
			PopSize:   DefaultPopSize,
			Select:    DefaultPolicy,
			Replace:   DefaultPolicy,
			WarmIters: DefaultWarmIters,
			WarmPop:   DefaultWarmPop,
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing library", func(c *Config) { c.Library = "" }, "library is required"},
		{"missing problem", func(c *Config) { c.Problem = "" }, "problem is required"},
		{"zero population", func(c *Config) { c.PopSize = 0 }, "pop_size must be at least 1"},
		{"bad select", func(c *Config) { c.Select = "median" }, "invalid select policy"},
		{"bad replace", func(c *Config) { c.Replace = "-2" }, "invalid replace policy"},
		{"numeric select allowed", func(c *Config) { c.Select = "3" }, ""},
		{"screen output with verbosity", func(c *Config) {
			c.ScreenOutput = true
			c.Verbosity = 5
		}, "cannot be combined"},
		{"warm start without iterations", func(c *Config) {
			c.WarmStart = true
			c.WarmIters = 0
		}, "warm_iters must be at least 1"},
		{"warm start with tiny swarm", func(c *Config) {
			c.WarmStart = true
			c.WarmPop = 1
		}, "warm_pop must be at least 2"},
		{"negative warm penalty", func(c *Config) {
			c.WarmStart = true
			c.WarmPenalty = -1
		}, "warm_penalty cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}
