// Package config loads bvi configuration.
//
// Sources, highest precedence first:
//  1. CLI flags
//  2. Environment variables (BVI_ prefix)
//  3. Config file (.bvi.yaml, then ~/.config/bvi/config.yaml)
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Supported log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config is the global configuration for bvi.
type Config struct {
	// LogLevel: debug, info, warn, error.
	LogLevel string `mapstructure:"log-level" json:"logLevel"`

	// LogFormat: text, json.
	LogFormat string `mapstructure:"log-format" json:"logFormat"`

	// LogFile receives logs while the TUI owns the terminal.
	LogFile string `mapstructure:"log-file" json:"logFile"`

	// NoColor disables colored output.
	NoColor bool `mapstructure:"no-color" json:"noColor"`

	// Quiet suppresses log output below error level.
	Quiet bool `mapstructure:"quiet" json:"quiet"`

	// Repo is the repository root holding .beads/. Empty means cwd.
	Repo string `mapstructure:"repo" json:"repo"`

	// DB is the filter database path, relative to Repo unless absolute.
	DB string `mapstructure:"db" json:"db"`

	// Project keys saved filters. Empty means the base name of Repo.
	Project string `mapstructure:"project" json:"project"`

	// Watch reloads issues when issues.jsonl or the label palette changes.
	Watch bool `mapstructure:"watch" json:"watch"`

	// Debounce is the quiet period before a reload.
	Debounce time.Duration `mapstructure:"debounce" json:"debounce"`

	// ChipWidth caps the display width of a label name inside a chip.
	ChipWidth int `mapstructure:"chip-width" json:"chipWidth"`

	// ConfigFile is the resolved config file path, set by Load.
	ConfigFile string `mapstructure:"-" json:"-"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		LogLevel:  LogLevelInfo,
		LogFormat: LogFormatText,
		LogFile:   "",
		DB:        ".bv/inbox.db",
		Watch:     true,
		Debounce:  250 * time.Millisecond,
		ChipWidth: 20,
	}
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.LogFormat)
	}

	if c.ChipWidth < 4 {
		return fmt.Errorf("invalid chip width %d: must be at least 4", c.ChipWidth)
	}

	if c.Debounce < 0 {
		return fmt.Errorf("invalid debounce %s: must not be negative", c.Debounce)
	}

	return nil
}

// EffectiveLogLevel returns "error" when Quiet is set, LogLevel otherwise.
func (c *Config) EffectiveLogLevel() string {
	if c.Quiet {
		return LogLevelError
	}

	return c.LogLevel
}

// RepoPath returns Repo, or the working directory when Repo is empty.
func (c *Config) RepoPath() (string, error) {
	if c.Repo != "" {
		return filepath.Abs(c.Repo)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return wd, nil
}

// DBPath returns DB resolved against repo.
func (c *Config) DBPath(repo string) string {
	if filepath.IsAbs(c.DB) {
		return c.DB
	}
	return filepath.Join(repo, c.DB)
}

// ProjectKey returns Project, or the base name of repo.
func (c *Config) ProjectKey(repo string) string {
	if c.Project != "" {
		return c.Project
	}
	return filepath.Base(repo)
}

// Load builds the configuration from flags, environment variables, and an
// optional config file. A fresh viper instance is used on every call.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	configureEnv(v)

	if err := configureFile(v, configFile); err != nil {
		return nil, err
	}

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)
	v.SetDefault("log-file", d.LogFile)
	v.SetDefault("no-color", d.NoColor)
	v.SetDefault("quiet", d.Quiet)
	v.SetDefault("repo", d.Repo)
	v.SetDefault("db", d.DB)
	v.SetDefault("project", d.Project)
	v.SetDefault("watch", d.Watch)
	v.SetDefault("debounce", d.Debounce)
	v.SetDefault("chip-width", d.ChipWidth)
}

func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("BVI")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

func configureFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", configFile, err)
		}

		return nil
	}

	v.SetConfigName(".bvi")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "bvi"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}

		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// bindFlags binds cmd's own flags and every persistent flag up to the root.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	for c := cmd; c != nil; c = c.Parent() {
		if err := v.BindPFlags(c.PersistentFlags()); err != nil {
			return fmt.Errorf("binding persistent flags: %w", err)
		}
	}

	return nil
}

type ctxKey struct{}

// NewContext returns a child context carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext extracts a Config from ctx, falling back to Default().
func FromContext(ctx context.Context) *Config {
	if ctx == nil {
		return Default()
	}
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}

	return Default()
}
