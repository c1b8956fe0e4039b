package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "depositor"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "depositor.yml"
)

// ErrConfigNotFound is returned when no config file can be located.
var ErrConfigNotFound = errors.New("config file not found")

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/depositor/depositor.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// FindConfig locates the config file to load, in order of preference:
// the DEPOSITOR_CONFIG environment variable, depositor.yml in the current
// directory, then the global config path.
func FindConfig() (string, error) {
	if path := os.Getenv("DEPOSITOR_CONFIG"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("DEPOSITOR_CONFIG points to %s: %w", path, ErrConfigNotFound)
		}
		return path, nil
	}

	if _, err := os.Stat(GlobalConfigFile); err == nil {
		return GlobalConfigFile, nil
	}

	if path := GlobalConfigPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", ErrConfigNotFound
}

// ExpandTilde expands a leading ~ in a path to the user's home directory.
func ExpandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// HelpfulConfigMessage returns a hint for users running without a config file.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`No depositor configuration found.

Tip: Create %s to configure your deposit provider:
  mkdir -p %s
  printf 'provider: zenodo\nbase_url: https://zenodo.org\n' > %s`,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
