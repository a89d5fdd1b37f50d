package config

import (
	"os"
	"path/filepath"
)

// projectConfigFiles are searched in the working directory, in order.
var projectConfigFiles = []string{
	"navedit.yaml",
	"navedit.yml",
	".navedit.yaml",
	".navedit.yml",
}

// DiscoverPath returns the config file to load: explicit when set, else the
// first project file in workDir, else the user file under XDG_CONFIG_HOME.
// An empty result means no file exists.
func DiscoverPath(explicit, workDir string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range projectConfigFiles {
		p := filepath.Join(workDir, name)
		if fileExists(p) {
			return p
		}
	}
	if p := userConfigPath(); p != "" && fileExists(p) {
		return p
	}
	return ""
}

func userConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "navedit", "config.yaml")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
