// Package config handles loading the windtask configuration file, which maps
// project names onto task store directories.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"
)

// DefaultProject is the project used when the caller doesn't name one.
const DefaultProject = "default"

// ErrUnknownProject is returned when a project name has no configured store
// directory.
var ErrUnknownProject = errors.New("unknown project")

// ErrInvalidProjectName is returned when a project name contains characters
// outside [a-zA-Z0-9_.-].
var ErrInvalidProjectName = errors.New("invalid project name")

var projectNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Config represents the windtask configuration file.
type Config struct {
	// Projects maps project names to task store directories. Paths may
	// start with "~/" and relative paths are resolved absolute.
	Projects map[string]string `toml:"projects"`
}

// Path returns the location of the global configuration file.
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "windtask", "config.toml"), nil
}

// Load reads the global configuration file. A missing file yields an empty
// config rather than an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return loadFile(path)
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// ValidProjectName reports whether the name is usable as a project key.
func ValidProjectName(name string) bool {
	return projectNamePattern.MatchString(name)
}

// ProjectDir resolves a project name to its task store directory. The default
// project falls back to ~/.windtask/tasks when unconfigured; any other
// unconfigured name is an error.
func (c *Config) ProjectDir(name string) (string, error) {
	if name == "" {
		name = DefaultProject
	}
	if !ValidProjectName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidProjectName, name)
	}

	if dir, ok := c.Projects[name]; ok && dir != "" {
		return expandPath(dir)
	}
	if name == DefaultProject {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		return filepath.Join(homeDir, ".windtask", "tasks"), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProject, name)
}

func expandPath(path string) (string, error) {
	if len(path) >= 2 && path[:2] == "~/" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolve path %s: %w", path, err)
		}
		path = abs
	}
	return path, nil
}
