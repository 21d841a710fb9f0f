package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nan-gogh/Mighty-Pokemon-Searchstring-Generator/internal/config"
)

// TestLoad_Defaults verifies that loading without a file yields a
// complete, valid configuration.
func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.DefaultListen, cfg.Listen)
	assert.Equal(t, config.DefaultLanguage, cfg.Language)
	assert.Equal(t, config.BoundaryLocal, cfg.RefreshBoundary)
	assert.Equal(t, config.DefaultSafetyMargin, cfg.SafetyMargin)
	assert.True(t, cfg.InitialRender, "the eager initial render is on by default")
	assert.False(t, cfg.Telegram.Enabled)
	assert.Empty(t, cfg.Events, "the built-in window table applies unless overridden")

	assert.NoError(t, cfg.Validate())
}

// TestLoad_File covers loading and unmarshalling a YAML config file.
func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
listen: "0.0.0.0:9000"
language: de
refresh_boundary: utc
timezone: Europe/Berlin
safety_margin: 2s
initial_render: false
logging:
  level: debug
events:
  - id: gmax-lapras
    name: Gigantamax Lapras
    start: 2025-01-08T10:00:00Z
    end: 2025-01-08T17:00:00Z
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Listen)
	assert.Equal(t, "de", cfg.Language)
	assert.Equal(t, config.BoundaryUTC, cfg.RefreshBoundary)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, 2*time.Second, cfg.SafetyMargin)
	assert.False(t, cfg.InitialRender)
	assert.Equal(t, "debug", cfg.Logging.Level)

	require.Len(t, cfg.Events, 1)
	assert.Equal(t, "gmax-lapras", cfg.Events[0].ID)

	assert.NoError(t, cfg.Validate())
}

// TestLoad_MissingFile ensures an explicit but absent path is an error
// rather than a silent fallback to defaults.
func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrConfigRead)
}

// TestValidate rejects each malformed field with a recognizable error.
func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		cfg, err := config.Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "Empty listen",
			mutate:  func(c *config.Config) { c.Listen = "" },
			wantErr: config.ErrListenRequired,
		},
		{
			name:    "Unknown boundary",
			mutate:  func(c *config.Config) { c.RefreshBoundary = "solar" },
			wantErr: config.ErrBadBoundary,
		},
		{
			name:    "Zero margin",
			mutate:  func(c *config.Config) { c.SafetyMargin = 0 },
			wantErr: config.ErrBadMargin,
		},
		{
			name:    "Negative margin",
			mutate:  func(c *config.Config) { c.SafetyMargin = -time.Second },
			wantErr: config.ErrBadMargin,
		},
		{
			name:    "Bad timezone",
			mutate:  func(c *config.Config) { c.Timezone = "Mars/Olympus_Mons" },
			wantErr: config.ErrBadTimezone,
		},
		{
			name:    "Unsupported language",
			mutate:  func(c *config.Config) { c.Language = "tlh" },
			wantErr: config.ErrBadLanguage,
		},
		{
			name:    "Bad log level",
			mutate:  func(c *config.Config) { c.Logging.Level = "verbose" },
			wantErr: config.ErrBadLogLevel,
		},
		{
			name:    "Telegram enabled without token",
			mutate:  func(c *config.Config) { c.Telegram.Enabled = true; c.Telegram.ChatID = "42" },
			wantErr: config.ErrTgTokenReq,
		},
		{
			name:    "Telegram enabled without chat",
			mutate:  func(c *config.Config) { c.Telegram.Enabled = true; c.Telegram.BotToken = "token" },
			wantErr: config.ErrTgChatReq,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestValidate_UTCBoundary accepts the alternative boundary mode.
func TestValidate_UTCBoundary(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	cfg.RefreshBoundary = config.BoundaryUTC
	assert.NoError(t, cfg.Validate())
}

// TestLocation resolves the configured zone with a local fallback.
func TestLocation(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Same(t, time.Local, cfg.Location(), "empty timezone means the host zone")

	cfg.Timezone = "Asia/Tokyo"
	loc := cfg.Location()
	require.NotNil(t, loc)
	assert.Equal(t, "Asia/Tokyo", loc.String())
}

// TestConstants_Integrity ensures critical constants are not empty.
// This prevents accidental deletion of keys required at runtime.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"ICalProdid", config.ICalProdid},
		{"TKeySearchKeyword", config.TKeySearchKeyword},
		{"FormatAgeRange", config.FormatAgeRange},
		{"QuerySeparator", config.QuerySeparator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestDefaults_Sanity checks that default values make sense logically.
func TestDefaults_Sanity(t *testing.T) {
	assert.Equal(t, 1000*time.Millisecond, config.DefaultSafetyMargin,
		"the safety margin matches the observed 1000 ms")
	assert.Equal(t, int64(86_400_000), int64(config.MillisPerDay))
	assert.Contains(t, config.SupportedLanguages, config.DefaultLanguage,
		"the fallback language must itself be supported")
	assert.Greater(t, config.ShutdownTimeout, 0*time.Second)
}
