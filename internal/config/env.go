package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"
)

// envVarPrefix is the prefix for all navedit environment variables.
const envVarPrefix = "NAVEDIT_"

// envMappings maps environment variable names (without prefix) to setters.
var envMappings = map[string]func(c *Config, v string) error{
	"DOCUMENT":       func(c *Config, v string) error { c.Document = v; return nil },
	"EXPORT_DIR":     func(c *Config, v string) error { c.ExportDir = v; return nil },
	"EXPORT_COMPACT": func(c *Config, v string) error { return setBool(&c.ExportCompact, v) },
	"THEME":          func(c *Config, v string) error { c.Theme = strings.ToLower(v); return nil },
	"HEIGHT":         func(c *Config, v string) error { c.Height = v; return nil },
	"LOG_LEVEL":      func(c *Config, v string) error { c.LogLevel = v; return nil },
	"LOG_FILE":       func(c *Config, v string) error { c.LogFile = v; return nil },

	"ADMIN_LISTEN":         func(c *Config, v string) error { c.Admin.Listen = v; return nil },
	"ADMIN_SESSION_SECRET": func(c *Config, v string) error { c.Admin.SessionSecret = v; return nil },
	"ADMIN_SESSION_TTL": func(c *Config, v string) error {
		d, err := cast.ToDurationE(v)
		if err != nil {
			return err
		}
		c.Admin.SessionTTL = d
		return nil
	},
	"ADMIN_GITHUB_CLIENT_ID":     func(c *Config, v string) error { c.Admin.GitHub.ClientID = v; return nil },
	"ADMIN_GITHUB_CLIENT_SECRET": func(c *Config, v string) error { c.Admin.GitHub.ClientSecret = v; return nil },
	"ADMIN_GITHUB_REDIRECT_URL":  func(c *Config, v string) error { c.Admin.GitHub.RedirectURL = v; return nil },
	"ADMIN_ALLOWED_USERS": func(c *Config, v string) error {
		c.Admin.AllowedUsers = parseSliceValue(v)
		return nil
	},
	"ADMIN_WS_RATE": func(c *Config, v string) error {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return err
		}
		c.Admin.WSRate = f
		return nil
	},
	"ADMIN_WS_BURST": func(c *Config, v string) error {
		n, err := cast.ToIntE(v)
		if err != nil {
			return err
		}
		c.Admin.WSBurst = n
		return nil
	},
}

// githubEnvFallbacks are the variable names commonly used for GitHub OAuth
// apps. They apply only when the NAVEDIT_ names are unset.
var githubEnvFallbacks = map[string]func(c *Config, v string){
	"GITHUB_CLIENT_ID": func(c *Config, v string) { c.Admin.GitHub.ClientID = v },
	"GITHUB_SECRET":    func(c *Config, v string) { c.Admin.GitHub.ClientSecret = v },
}

// LoadFromEnv applies environment variable overrides to cfg.
func LoadFromEnv(cfg *Config) error {
	return loadFromEnv(cfg, os.LookupEnv)
}

func loadFromEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if cfg == nil {
		return nil
	}

	for name, apply := range githubEnvFallbacks {
		if v, ok := lookup(name); ok && v != "" {
			apply(cfg, v)
		}
	}

	for suffix, apply := range envMappings {
		envVar := envVarPrefix + suffix
		v, ok := lookup(envVar)
		if !ok || v == "" {
			continue
		}
		if err := apply(cfg, v); err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, envVar, v, err)
		}
	}
	return nil
}

func setBool(dst *bool, v string) error {
	b, err := cast.ToBoolE(v)
	if err != nil {
		return err
	}
	*dst = b
	return nil
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ListEnvVars returns every supported environment variable.
func ListEnvVars() []string {
	out := make([]string, 0, len(envMappings))
	for suffix := range envMappings {
		out = append(out, envVarPrefix+suffix)
	}
	return out
}
