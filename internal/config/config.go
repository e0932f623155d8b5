// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/notifier/internal/host"
	"github.com/jmylchreest/notifier/internal/notifier"
)

// Default configuration values.
const (
	DefaultAppName  = "notifier"
	DefaultBackend  = "auto"
	DefaultLogLevel = "warn"
)

// Backends that can be selected with app.backend.
var Backends = []string{"auto", "freedesktop", "toast", "generic"}

// Config represents the notifier configuration.
type Config struct {
	App      AppConfig      `toml:"app" yaml:"app"`
	Defaults DefaultsConfig `toml:"defaults" yaml:"defaults"`
	Log      LogConfig      `toml:"log" yaml:"log"`
}

// AppConfig identifies the application notifications are sent for.
type AppConfig struct {
	Name    string `toml:"name" yaml:"name"`       // Shown as the sending application
	ID      string `toml:"id" yaml:"id"`           // Desktop entry / application id, used for focus
	Backend string `toml:"backend" yaml:"backend"` // auto, freedesktop, toast, generic
}

// DefaultsConfig holds the global notification options.
type DefaultsConfig struct {
	Body               string   `toml:"body" yaml:"body"`
	Icon               string   `toml:"icon" yaml:"icon"`
	Image              string   `toml:"image" yaml:"image"`
	Category           string   `toml:"category" yaml:"category"`
	Urgency            string   `toml:"urgency" yaml:"urgency"`           // low, normal, critical
	AutoDismiss        Duration `toml:"auto_dismiss" yaml:"auto_dismiss"` // 0 = never
	Delay              Duration `toml:"delay" yaml:"delay"`
	Silent             bool     `toml:"silent" yaml:"silent"`
	RequireInteraction bool     `toml:"require_interaction" yaml:"require_interaction"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    DefaultAppName,
			Backend: DefaultBackend,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

var configNames = []string{"config.toml", "config.yaml", "config.yml"}

// ConfigPath returns the path to the config file. The first existing
// notifier/config.{toml,yaml,yml} in the XDG config directories wins,
// otherwise the TOML file under XDG_CONFIG_HOME.
func ConfigPath() string {
	for _, name := range configNames {
		if path, err := xdg.SearchConfigFile(filepath.Join(DefaultAppName, name)); err == nil {
			return path
		}
	}
	return filepath.Join(xdg.ConfigHome, DefaultAppName, configNames[0])
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = toml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.App.Backend != "" && !slices.Contains(Backends, c.App.Backend) {
		return fmt.Errorf("invalid backend %q, must be one of: %v", c.App.Backend, Backends)
	}
	if _, ok := host.ParseUrgency(c.Defaults.Urgency); !ok {
		return fmt.Errorf("invalid urgency %q, must be one of: low, normal, critical", c.Defaults.Urgency)
	}
	if c.Defaults.AutoDismiss < 0 {
		return fmt.Errorf("auto_dismiss must not be negative, got %s", c.Defaults.AutoDismiss.Duration())
	}
	if c.Defaults.Delay < 0 {
		return fmt.Errorf("delay must not be negative, got %s", c.Defaults.Delay.Duration())
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the configured slog level. Empty means warn.
func (c *Config) LogLevel() (slog.Level, error) {
	if c.Log.Level == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return level, nil
}

// NotifierOptions converts the [defaults] section into global notifier options.
// The configuration must have been validated.
func (c *Config) NotifierOptions() notifier.Options {
	urgency, _ := host.ParseUrgency(c.Defaults.Urgency)
	return notifier.Options{
		Options: host.Options{
			Body:               c.Defaults.Body,
			Icon:               c.Defaults.Icon,
			Image:              c.Defaults.Image,
			Category:           c.Defaults.Category,
			Urgency:            urgency,
			Silent:             host.Bool(c.Defaults.Silent),
			RequireInteraction: host.Bool(c.Defaults.RequireInteraction),
		},
		AutoDismiss: c.Defaults.AutoDismiss.Duration(),
		Delay:       c.Defaults.Delay.Duration(),
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
