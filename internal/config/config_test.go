package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iw2rmb/navedit/internal/config"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "navigation.json", cfg.Document)
	assert.Equal(t, "500px", cfg.Height)
	assert.Equal(t, config.ThemeAuto, cfg.Theme)
}

func TestValidateRejectsTheme(t *testing.T) {
	cfg := config.Default()
	cfg.Theme = "solarized"
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.Contains(t, err.Error(), "solarized")
}

func TestValidateAdmin(t *testing.T) {
	cfg := config.Default()
	err := cfg.ValidateAdmin()
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.Contains(t, err.Error(), "session_secret")

	cfg.Admin.SessionSecret = "0123456789abcdef"
	cfg.Admin.GitHub.ClientID = "id"
	cfg.Admin.GitHub.ClientSecret = "secret"
	assert.NoError(t, cfg.ValidateAdmin())

	cfg.Admin.WSRate = 0
	assert.ErrorIs(t, cfg.ValidateAdmin(), config.ErrInvalid)
}

func TestLoadFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "navedit.yaml")
	content := "document: nav/site.json\ntheme: dark\nadmin:\n  session_ttl: 2h\n  allowed_users: [alice, bob]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	res, err := config.Load(context.Background(), config.LoadOptions{WorkingDir: dir, IgnoreEnv: true})
	require.NoError(t, err)
	assert.Equal(t, path, res.LoadedFrom)
	assert.Equal(t, "nav/site.json", res.Config.Document)
	assert.Equal(t, config.ThemeDark, res.Config.Theme)
	assert.Equal(t, 2*time.Hour, res.Config.Admin.SessionTTL)
	assert.Equal(t, []string{"alice", "bob"}, res.Config.Admin.AllowedUsers)
	// untouched keys keep defaults
	assert.Equal(t, "500px", res.Config.Height)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("colour: red\n"), 0o644))

	_, err := config.Load(context.Background(), config.LoadOptions{WorkingDir: dir, ExplicitPath: path, IgnoreEnv: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestLoadExplicitMissing(t *testing.T) {
	_, err := config.Load(context.Background(), config.LoadOptions{
		WorkingDir:   t.TempDir(),
		ExplicitPath: filepath.Join(t.TempDir(), "missing.yaml"),
		IgnoreEnv:    true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadEnvAndOverridesPrecedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "navedit.yaml"), []byte("theme: light\nheight: 10\n"), 0o644))
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("NAVEDIT_THEME", "DARK")
	t.Setenv("NAVEDIT_ADMIN_WS_BURST", "7")
	t.Setenv("NAVEDIT_ADMIN_ALLOWED_USERS", " alice , ,bob")
	t.Setenv("GITHUB_CLIENT_ID", "from-github-env")
	t.Setenv("NAVEDIT_EXPORT_COMPACT", "true")

	res, err := config.Load(context.Background(), config.LoadOptions{
		WorkingDir: dir,
		Overrides:  func(c *config.Config) { c.Height = "50%" },
	})
	require.NoError(t, err)
	cfg := res.Config
	assert.Equal(t, config.ThemeDark, cfg.Theme)
	assert.Equal(t, "50%", cfg.Height)
	assert.Equal(t, 7, cfg.Admin.WSBurst)
	assert.Equal(t, []string{"alice", "bob"}, cfg.Admin.AllowedUsers)
	assert.Equal(t, "from-github-env", cfg.Admin.GitHub.ClientID)
	assert.True(t, cfg.ExportCompact)
}

func TestLoadEnvBadValue(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("NAVEDIT_ADMIN_SESSION_TTL", "forever")
	_, err := config.Load(context.Background(), config.LoadOptions{WorkingDir: t.TempDir()})
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.Contains(t, err.Error(), "NAVEDIT_ADMIN_SESSION_TTL")
}

func TestDiscoverPathUserConfig(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	user := filepath.Join(xdg, "navedit", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(user), 0o755))
	require.NoError(t, os.WriteFile(user, []byte("theme: light\n"), 0o644))

	work := t.TempDir()
	assert.Equal(t, user, config.DiscoverPath("", work))

	project := filepath.Join(work, ".navedit.yml")
	require.NoError(t, os.WriteFile(project, []byte("{}\n"), 0o644))
	assert.Equal(t, project, config.DiscoverPath("", work))
	assert.Equal(t, "x.yaml", config.DiscoverPath("x.yaml", work))
}

func TestListEnvVars(t *testing.T) {
	vars := config.ListEnvVars()
	assert.Contains(t, vars, "NAVEDIT_DOCUMENT")
	assert.Contains(t, vars, "NAVEDIT_ADMIN_SESSION_SECRET")
}

func TestMarshalRoundTrip(t *testing.T) {
	out, err := config.Marshal(config.Default())
	require.NoError(t, err)
	assert.Contains(t, string(out), "document: navigation.json")
}
