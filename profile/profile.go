// Package profile loads named targets from layered configuration.
//
// A profile names an architecture and a feature list. Profiles are read,
// lowest to highest precedence, from the built-in x86-64 micro-architecture
// levels, an optional YAML file, TARGETFEATURES_ environment variables and
// command-line flags:
//
//	default: edge
//	profiles:
//	  edge:
//	    arch: aarch64
//	    features: [+v8.2a, +sve, -sha3]
//
// Profile names must not contain dots.
package profile

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/leodido/targetfeatures"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// DefaultFile is the conventional name of a profile file.
const DefaultFile = "targetfeatures.yaml"

// EnvPrefix prefixes environment variables read by [Load].
// A double underscore separates nested keys:
// TARGETFEATURES_PROFILES__EDGE__ARCH sets profiles.edge.arch.
const EnvPrefix = "TARGETFEATURES_"

// ErrUnknownProfile is returned when a profile name is not configured.
var ErrUnknownProfile = errors.New("unknown profile")

// Config is the merged profile configuration.
type Config struct {
	// Default is the profile used when no name is given.
	Default  string             `koanf:"default"`
	Profiles map[string]Profile `koanf:"profiles"`
}

// Profile is a named target.
type Profile struct {
	// Arch is an architecture name or alias ("x86", "amd64", "arm64").
	Arch string `koanf:"arch"`
	// Features are feature-list items; each may itself be a comma-separated list.
	Features []string `koanf:"features"`
}

var (
	x86v2 = []string{"cmpxchg16b", "popcnt", "sse3", "sse4.1", "sse4.2", "ssse3"}
	x86v3 = append(slices.Clone(x86v2), "avx", "avx2", "bmi1", "bmi2", "f16c", "fma", "lzcnt", "movbe", "xsave")
	x86v4 = append(slices.Clone(x86v3), "avx512bw", "avx512cd", "avx512dq", "avx512f", "avx512vl")
)

func defaults() map[string]any {
	return map[string]any{
		"profiles.x86-64-v2.arch":     "x86",
		"profiles.x86-64-v2.features": x86v2,
		"profiles.x86-64-v3.arch":     "x86",
		"profiles.x86-64-v3.features": x86v3,
		"profiles.x86-64-v4.arch":     "x86",
		"profiles.x86-64-v4.features": x86v4,
	}
}

// Load merges built-in profiles, the YAML file at path (skipped when empty),
// environment variables and changed flags.
//
// A changed --profile flag sets the default profile. Other flags map to keys
// by replacing dashes with underscores.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	logger := targetfeatures.Logger()
	k := koanf.New(".")

	// 1. Built-in profiles
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Profile file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading profile file %s: %w", path, err)
		}
		logger.Debug("loaded profile file", zap.String("path", path))
	}

	// 3. Environment: TARGETFEATURES_PROFILES__EDGE__ARCH -> profiles.edge.arch
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			if f.Name == "profile" {
				return "default", posflag.FlagVal(flags, f)
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode profiles: %w", err)
	}

	logger.Debug("loaded profiles",
		zap.String("default", cfg.Default),
		zap.Strings("profiles", cfg.Names()))
	return &cfg, nil
}

// Names returns the configured profile names in sorted order.
func (c *Config) Names() []string {
	return slices.Sorted(maps.Keys(c.Profiles))
}

// Target resolves the named profile. An empty name selects [Config.Default].
func (c *Config) Target(name string) (targetfeatures.Target, error) {
	if name == "" {
		name = c.Default
	}
	if name == "" {
		return targetfeatures.Target{}, fmt.Errorf("%w: no profile selected and no default", ErrUnknownProfile)
	}
	p, ok := c.Profiles[name]
	if !ok {
		return targetfeatures.Target{}, fmt.Errorf("%w %q (available: %s)", ErrUnknownProfile, name, strings.Join(c.Names(), ", "))
	}
	t, err := p.Target()
	if err != nil {
		return targetfeatures.Target{}, fmt.Errorf("profile %q: %w", name, err)
	}
	return t, nil
}

// Target resolves the profile's architecture and applies its features in order.
func (p Profile) Target() (targetfeatures.Target, error) {
	arch, err := targetfeatures.ParseArchitecture(p.Arch)
	if err != nil {
		if arch = targetfeatures.LookupArchitecture(p.Arch); arch == targetfeatures.ArchUnsupported {
			return targetfeatures.Target{}, err
		}
	}
	return targetfeatures.ParseTarget(arch, strings.Join(p.Features, ","))
}
