package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spoorthylakshmi/wellnest/internal/breathing"
	"github.com/spoorthylakshmi/wellnest/internal/reminder"
)

// ErrInvalid wraps every validation failure returned by Validate.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Breathing BreathingConfig `yaml:"breathing"`
	Stream    StreamConfig    `yaml:"stream"`
	Reminders ReminderConfig  `yaml:"reminders"`
	Practice  PracticeConfig  `yaml:"practice"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	Host           string   `yaml:"host"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// BreathingConfig fixes the phase durations for every session the
// process creates.
type BreathingConfig struct {
	InhaleSeconds int           `yaml:"inhale_seconds"`
	HoldSeconds   int           `yaml:"hold_seconds"`
	ExhaleSeconds int           `yaml:"exhale_seconds"`
	TickInterval  time.Duration `yaml:"tick_interval"`
}

type StreamConfig struct {
	SnapshotInterval time.Duration `yaml:"snapshot_interval"`
	ClientBuffer     int           `yaml:"client_buffer"`
	// MaxClients caps concurrent WebSocket clients; 0 means unlimited.
	MaxClients int `yaml:"max_clients"`
}

type ReminderConfig struct {
	Enabled       bool          `yaml:"enabled"`
	WaterInterval time.Duration `yaml:"water_interval"`
	TipInterval   time.Duration `yaml:"tip_interval"`
	QuoteInterval time.Duration `yaml:"quote_interval"`
}

type PracticeConfig struct {
	DBPath string `yaml:"db_path"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
	// File, when set, replaces stderr as the log destination.
	File string `yaml:"file"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
			Host: "127.0.0.1",
		},
		Breathing: BreathingConfig{
			InhaleSeconds: breathing.DefaultInhaleSeconds,
			HoldSeconds:   breathing.DefaultHoldSeconds,
			ExhaleSeconds: breathing.DefaultExhaleSeconds,
			TickInterval:  time.Second,
		},
		Stream: StreamConfig{
			SnapshotInterval: 5 * time.Second,
			ClientBuffer:     64,
			MaxClients:       100,
		},
		Reminders: ReminderConfig{
			Enabled:       true,
			WaterInterval: time.Hour,
			TipInterval:   4 * time.Hour,
			QuoteInterval: 24 * time.Hour,
		},
		Practice: PracticeConfig{
			DBPath: defaultDBPath(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaultConfig()
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but returns the defaults when the file
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return defaultConfig(), nil
	}
	return cfg, err
}

// Pattern returns the configured breathing rhythm.
func (c *Config) Pattern() breathing.Pattern {
	return breathing.Pattern{
		Inhale: c.Breathing.InhaleSeconds,
		Hold:   c.Breathing.HoldSeconds,
		Exhale: c.Breathing.ExhaleSeconds,
	}
}

// ReminderIntervals returns the scheduler intervals, all zero when
// reminders are disabled.
func (c *Config) ReminderIntervals() reminder.Intervals {
	if !c.Reminders.Enabled {
		return reminder.Intervals{}
	}
	return reminder.Intervals{
		Water: c.Reminders.WaterInterval,
		Tip:   c.Reminders.TipInterval,
		Quote: c.Reminders.QuoteInterval,
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalid, c.Server.Port)
	}
	if err := c.Pattern().Validate(); err != nil {
		return fmt.Errorf("%w: breathing: %v", ErrInvalid, err)
	}
	if c.Breathing.TickInterval <= 0 {
		return fmt.Errorf("%w: breathing.tick_interval must be positive", ErrInvalid)
	}
	if c.Stream.SnapshotInterval <= 0 {
		return fmt.Errorf("%w: stream.snapshot_interval must be positive", ErrInvalid)
	}
	if c.Stream.ClientBuffer < 1 {
		return fmt.Errorf("%w: stream.client_buffer must be at least 1", ErrInvalid)
	}
	if c.Stream.MaxClients < 0 {
		return fmt.Errorf("%w: stream.max_clients must not be negative", ErrInvalid)
	}
	if c.Reminders.Enabled {
		for name, d := range map[string]time.Duration{
			"water_interval": c.Reminders.WaterInterval,
			"tip_interval":   c.Reminders.TipInterval,
			"quote_interval": c.Reminders.QuoteInterval,
		} {
			if d <= 0 {
				return fmt.Errorf("%w: reminders.%s must be positive", ErrInvalid, name)
			}
		}
	}
	return nil
}

// defaultDBPath returns ~/.local/state/wellnest/practice.db, respecting
// XDG_STATE_HOME if set.
func defaultDBPath() string {
	if base := os.Getenv("XDG_STATE_HOME"); base != "" {
		return filepath.Join(base, "wellnest", "practice.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".local", "state", "wellnest", "practice.db")
}
