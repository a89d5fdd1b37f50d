package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory searched for a project config.
	// Defaults to the current working directory.
	WorkingDir string

	// ExplicitPath is a config file path from --config. It must exist.
	ExplicitPath string

	// IgnoreEnv skips NAVEDIT_* variables.
	IgnoreEnv bool

	// Overrides applies command-line flags last.
	Overrides func(*Config)
}

// LoadResult is the resolved configuration and where it came from.
type LoadResult struct {
	Config     *Config
	LoadedFrom string
}

// Load resolves the final configuration.
// Precedence (highest to lowest): flags, environment, config file, defaults.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	cfg := Default()
	result := &LoadResult{Config: cfg}

	if path := DiscoverPath(opts.ExplicitPath, workDir); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
		result.LoadedFrom = path
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, err
		}
	}

	if opts.Overrides != nil {
		opts.Overrides(cfg)
	}
	return result, nil
}

// LoadFile decodes the YAML file at path over cfg. Unknown keys are rejected.
func LoadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: parse %s: %v", ErrInvalid, path, err)
	}
	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return out, nil
}
