// Package paths resolves the configuration directory, the data directory
// and the domain file used by kbctl.
package paths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// appName names the per-user platform directories.
const appName = "contingent"

// DefaultDataDirName is the CWD-relative data directory used when nothing
// else is configured.
const DefaultDataDirName = ".contingent-db"

// Environment variable overrides.
const (
	EnvConfigDir  = "CONTINGENT_CONFIG_DIR"
	EnvDataDir    = "CONTINGENT_DATA_DIR"
	EnvDomainFile = "CONTINGENT_DOMAIN"
)

// ErrNoDomain is returned when no domain file is configured anywhere.
var ErrNoDomain = errors.New("no domain file configured")

// platformDir holds platform-detection functions that tests override.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// userDir returns $xdgVar/contingent on Linux, falling back to
// ~/<linuxFallback...>/contingent, and os.UserConfigDir()/contingent
// elsewhere.
func userDir(xdgVar string, linuxFallback ...string) (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	parts := append([]string{home}, linuxFallback...)
	return filepath.Join(append(parts, appName)...), nil
}

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/contingent (fallback ~/.config/contingent)
// macOS:   ~/Library/Application Support/contingent
// Windows: %APPDATA%/contingent
func DefaultConfigDir() (string, error) {
	return userDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory.
//
// Linux:   $XDG_DATA_HOME/contingent (fallback ~/.local/share/contingent)
// macOS and Windows: same as DefaultConfigDir.
func DefaultDataDir() (string, error) {
	return userDir("XDG_DATA_HOME", ".local", "share")
}

// firstAbs returns the absolute form of the first non-empty candidate.
func firstAbs(candidates ...string) (string, bool, error) {
	for _, c := range candidates {
		if c != "" {
			abs, err := filepath.Abs(c)
			return abs, true, err
		}
	}
	return "", false, nil
}

// ResolveConfigDir follows flag > CONTINGENT_CONFIG_DIR > DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	if dir, ok, err := firstAbs(flag, os.Getenv(EnvConfigDir)); ok {
		return dir, err
	}
	return DefaultConfigDir()
}

// ResolveDataDir follows flag > config.yaml > CONTINGENT_DATA_DIR >
// $(CWD)/.contingent-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	if dir, ok, err := firstAbs(flag, configValue, os.Getenv(EnvDataDir)); ok {
		return dir, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ResolveDomainFile follows flag > config.yaml > CONTINGENT_DOMAIN. A
// relative path from config.yaml is taken relative to configDir.
func ResolveDomainFile(flag, configValue, configDir string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		if filepath.IsAbs(configValue) {
			return configValue, nil
		}
		return filepath.Join(configDir, configValue), nil
	}
	if env := os.Getenv(EnvDomainFile); env != "" {
		return filepath.Abs(env)
	}
	return "", ErrNoDomain
}
