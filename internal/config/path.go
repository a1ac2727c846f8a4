package config

import (
	"os"
	"path/filepath"
	"strings"
)

const appDirName = "mcpsettings"

// DefaultDataDir returns $XDG_CONFIG_HOME/mcpsettings, falling back to
// ~/.config and then the OS config dir.
func DefaultDataDir() string {
	base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME"))
	if base == "" {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		if dir, err := os.UserConfigDir(); err == nil && strings.TrimSpace(dir) != "" {
			base = dir
		}
	}
	if base == "" {
		base = "."
	}
	return filepath.Join(base, appDirName)
}
