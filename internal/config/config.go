// Package config handles the XDG configuration directory, the config file and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the application directory name.
	AppName = "taskboard"

	// ConfigFile is the optional TOML settings file.
	ConfigFile = "config.toml"

	// SessionFile holds the bearer credential and user identity.
	SessionFile = "session.json"

	// PrioritiesFile holds the local task id -> priority mapping.
	PrioritiesFile = "task_priorities.json"

	// DefaultAPIURL is used when neither the environment nor the config file
	// names a backend.
	DefaultAPIURL = "http://localhost:8000"

	// DefaultTimeout bounds every API call.
	DefaultTimeout = 10 * time.Second
)

// Environment variables.
const (
	EnvAPIURL   = "TASKBOARD_API_URL"
	EnvTimeout  = "TASKBOARD_TIMEOUT"
	EnvFormat   = "TASKBOARD_FORMAT"
	EnvPassword = "TASKBOARD_PASSWORD"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// APIURL is the base URL of the task API.
	APIURL string

	// Timeout bounds each API call.
	Timeout time.Duration

	// Format selects the output renderer: text, json or yaml.
	Format string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Logger receives diagnostics. Nil means discard.
	Logger *slog.Logger
}

// fileConfig mirrors config.toml.
type fileConfig struct {
	APIURL  string `toml:"api_url"`
	Timeout string `toml:"timeout"`
	Format  string `toml:"format"`
}

// New creates a Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskboard or $HOME/.config/taskboard.
// Settings are layered: defaults, then config.toml, then environment.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:     dir,
		APIURL:  DefaultAPIURL,
		Timeout: DefaultTimeout,
		Format:  "text",
	}

	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return cfg, nil
}

func (c *Config) loadFile() error {
	var fc fileConfig
	_, err := toml.DecodeFile(c.FilePath(), &fc)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading %s: %w", c.FilePath(), err)
	}

	if fc.APIURL != "" {
		c.APIURL = fc.APIURL
	}
	if fc.Timeout != "" {
		d, err := parseTimeout(fc.Timeout)
		if err != nil {
			return fmt.Errorf("loading %s: %w", c.FilePath(), err)
		}
		c.Timeout = d
	}
	if fc.Format != "" {
		c.Format = fc.Format
	}
	return nil
}

func (c *Config) loadEnv() error {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v := os.Getenv(EnvFormat); v != "" {
		c.Format = v
	}
	return nil
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid timeout: %s", s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid timeout: %s (must be positive)", s)
	}
	return d, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to config.toml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// SessionPath returns the path to the stored session.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// PrioritiesPath returns the path to the local priority mapping.
func (c *Config) PrioritiesPath() string {
	return filepath.Join(c.Dir, PrioritiesFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// Log returns the configured logger, or one that discards everything.
func (c *Config) Log() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}
