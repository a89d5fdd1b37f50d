// Package config resolves navedit configuration from defaults, a YAML file,
// NAVEDIT_* environment variables and command-line flags, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ErrInvalid marks configuration that failed validation.
var ErrInvalid = errors.New("invalid configuration")

// Theme values.
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Config is the resolved navedit configuration.
type Config struct {
	// Document is the path of the navigation document.
	Document string `yaml:"document"`
	// ExportDir receives downloaded copies.
	ExportDir string `yaml:"export_dir"`
	// ExportCompact writes downloads without indentation.
	ExportCompact bool `yaml:"export_compact"`

	Theme  string `yaml:"theme"`
	Height string `yaml:"height"`

	LogLevel string `yaml:"log_level"`
	// LogFile receives logs while the terminal editor runs. Empty discards them.
	LogFile string `yaml:"log_file"`

	Admin AdminConfig `yaml:"admin"`
}

// AdminConfig configures the admin HTTP service.
type AdminConfig struct {
	Listen        string        `yaml:"listen"`
	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	GitHub        GitHubConfig  `yaml:"github"`
	// AllowedUsers restricts sign-in to these GitHub logins. Empty allows any.
	AllowedUsers []string `yaml:"allowed_users"`
	// WSRate is the sustained websocket messages per second per connection.
	WSRate  float64 `yaml:"ws_rate"`
	WSBurst int     `yaml:"ws_burst"`
}

// GitHubConfig holds the OAuth application credentials.
type GitHubConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Document:  "navigation.json",
		ExportDir: "exports",
		Theme:     ThemeAuto,
		Height:    "500px",
		LogLevel:  "info",
		Admin: AdminConfig{
			Listen:     "127.0.0.1:8080",
			SessionTTL: 24 * time.Hour,
			GitHub: GitHubConfig{
				RedirectURL: "http://127.0.0.1:8080/auth/callback",
			},
			WSRate:  20,
			WSBurst: 40,
		},
	}
}

// Validate checks settings used by every command.
func (c *Config) Validate() error {
	var errs []error
	switch c.Theme {
	case ThemeAuto, ThemeLight, ThemeDark:
	default:
		errs = append(errs, fmt.Errorf("%w: theme %q (want auto, light or dark)", ErrInvalid, c.Theme))
	}
	if strings.TrimSpace(c.Document) == "" {
		errs = append(errs, fmt.Errorf("%w: document path is empty", ErrInvalid))
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel))
	}
	return errors.Join(errs...)
}

// ValidateAdmin checks the settings the admin service needs on top of Validate.
func (c *Config) ValidateAdmin() error {
	errs := []error{c.Validate()}
	a := c.Admin
	if a.Listen == "" {
		errs = append(errs, fmt.Errorf("%w: admin.listen is empty", ErrInvalid))
	}
	if len(a.SessionSecret) < 16 {
		errs = append(errs, fmt.Errorf("%w: admin.session_secret must be at least 16 bytes", ErrInvalid))
	}
	if a.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("%w: admin.session_ttl must be positive", ErrInvalid))
	}
	if a.WSRate <= 0 {
		errs = append(errs, fmt.Errorf("%w: admin.ws_rate must be positive", ErrInvalid))
	}
	if a.WSBurst <= 0 {
		errs = append(errs, fmt.Errorf("%w: admin.ws_burst must be positive", ErrInvalid))
	}
	if a.GitHub.ClientID == "" || a.GitHub.ClientSecret == "" {
		errs = append(errs, fmt.Errorf("%w: admin.github client_id and client_secret are required", ErrInvalid))
	}
	if u, err := url.Parse(a.GitHub.RedirectURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("%w: admin.github.redirect_url %q is not an absolute URL", ErrInvalid, a.GitHub.RedirectURL))
	}
	return errors.Join(errs...)
}
