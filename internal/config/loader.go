package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ConfigFileName is the default config file looked up in the working
// directory when no explicit path is given.
const ConfigFileName = "worhpgo.yaml"

// ConfigFileNameAlt is the alternate default config file name.
const ConfigFileNameAlt = "worhpgo.yml"

// EnvPrefix is the prefix for configuration environment variables,
// e.g. WORHPGO_LIBRARY or WORHPGO_POP_SIZE.
const EnvPrefix = "WORHPGO_"

// findConfigFile probes the working directory for a default config file.
func findConfigFile() string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load builds the configuration from defaults, an optional YAML file,
// WORHPGO_* environment variables, and the given flag set. An explicitly
// named config file must exist; the default names are optional. Flags
// only override when they were set on the command line.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"library":      DefaultLibrary,
		"problem":      DefaultProblem,
		"pop_size":     DefaultPopSize,
		"seed":         DefaultSeed,
		"select":       DefaultPolicy,
		"replace":      DefaultPolicy,
		"warm_iters":   DefaultWarmIters,
		"warm_pop":     DefaultWarmPop,
		"warm_penalty": DefaultWarmPenalty,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path := cfgFile
	if path == "" {
		path = findConfigFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s does not exist", path)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	// WORHPGO_POP_SIZE -> pop_size
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			// The CLI uses --pop for brevity.
			if key == "pop" {
				return "pop_size", posflag.FlagVal(flags, f)
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
