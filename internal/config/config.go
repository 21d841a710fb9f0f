package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	// Listen is the HTTP listen address for the rendered search strings.
	Listen string `mapstructure:"listen"`

	// Language is the default keyword language (ISO 639-1).
	Language string `mapstructure:"language"`

	// RefreshBoundary selects which midnight the daily refresh tracks:
	// BoundaryLocal or BoundaryUTC.
	RefreshBoundary string `mapstructure:"refresh_boundary"`

	// Timezone is the IANA zone used for the local boundary. Empty
	// means the host's configured zone.
	Timezone string `mapstructure:"timezone"`

	// SafetyMargin is added to every computed delay so the timer never
	// fires fractionally before the boundary.
	SafetyMargin time.Duration `mapstructure:"safety_margin"`

	// InitialRender controls the eager render performed before the
	// first scheduled cycle.
	InitialRender bool `mapstructure:"initial_render"`

	// Events overrides the built-in event window table when non-empty.
	Events []EventConfig `mapstructure:"events"`

	Telegram TelegramConfig `mapstructure:"telegram"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// EventConfig describes one promotional window in the config file.
// Start and End are RFC3339 timestamps.
type EventConfig struct {
	ID    string `mapstructure:"id"`
	Name  string `mapstructure:"name"`
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

// TelegramConfig holds the optional notification channel settings.
type TelegramConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from an optional file plus environment
// variables. An empty path yields the built-in defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrConfigRead, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrConfigParse, err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options.
func setDefaults(v *viper.Viper) {
	v.SetDefault(CfgKeyListen, DefaultListen)
	v.SetDefault(CfgKeyLanguage, DefaultLanguage)
	v.SetDefault(CfgKeyBoundary, DefaultBoundary)
	v.SetDefault(CfgKeyTimezone, "")
	v.SetDefault(CfgKeySafetyMargin, DefaultSafetyMargin)
	v.SetDefault(CfgKeyInitialRender, true)
	v.SetDefault(CfgKeyLogLevel, DefaultLogLevel)
	v.SetDefault(CfgKeyTgEnabled, false)
	v.SetDefault(CfgKeyTgMaxRetries, 3)
	v.SetDefault(CfgKeyTgRetryDelay, time.Second)
}

// Validate checks that all configuration values are valid.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return errors.New(ErrListenRequired)
	}

	if c.RefreshBoundary != BoundaryLocal && c.RefreshBoundary != BoundaryUTC {
		return fmt.Errorf("%s: %q", ErrBadBoundary, c.RefreshBoundary)
	}

	if c.SafetyMargin <= 0 {
		return fmt.Errorf("%s: %v", ErrBadMargin, c.SafetyMargin)
	}

	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("%s %q: %w", ErrBadTimezone, c.Timezone, err)
		}
	}

	if !slices.Contains(SupportedLanguages, c.Language) {
		return fmt.Errorf("%s: %q", ErrBadLanguage, c.Language)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("%s: %q", ErrBadLogLevel, c.Logging.Level)
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return errors.New(ErrTgTokenReq)
		}
		if c.Telegram.ChatID == "" {
			return errors.New(ErrTgChatReq)
		}
	}

	return nil
}

// Location resolves the configured timezone, falling back to the
// host's local zone. Validate guarantees the name loads, so errors
// here only occur for an unvalidated Config.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
