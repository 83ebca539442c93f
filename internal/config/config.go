package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all folio configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Where the resume document comes from
	Resume ResumeConfig `yaml:"resume"`

	// Interactive terminal
	Terminal TerminalConfig `yaml:"terminal"`

	// Page scroll behaviour, exported to the site's terminal.js
	Scroll ScrollConfig `yaml:"scroll"`

	// Live server, static build and MCP
	Server ServerConfig `yaml:"server"`

	// Persisted visitor preferences
	Preferences PreferencesConfig `yaml:"preferences"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ResumeConfig configures the resume store.
type ResumeConfig struct {
	Source  string `yaml:"source"` // file path or http(s) URL
	Timeout string `yaml:"timeout"`
}

// TerminalConfig configures the interactive terminal.
type TerminalConfig struct {
	Prompt string `yaml:"prompt"`

	// Delay between banner lines while typing it out
	TypewriterDelay string `yaml:"typewriter_delay"`

	// Scroll controller frame interval
	FrameInterval string `yaml:"frame_interval"`

	// Lines below the viewport top that decide the active nav entry
	NavOffset int `yaml:"nav_offset"`

	// Lines above the viewport a block still counts as seen
	RevealMargin int `yaml:"reveal_margin"`
}

// ScrollConfig configures scroll tracking on the HTML page, in pixels.
type ScrollConfig struct {
	Offset       int     `yaml:"offset" json:"offset"`
	Threshold    float64 `yaml:"threshold" json:"threshold"`
	Margin       int     `yaml:"margin" json:"margin"`
	HeaderOffset int     `yaml:"header_offset" json:"header_offset"`
}

// ServerConfig configures `folio serve`, `folio build` and `folio mcp`.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	OutputDir       string `yaml:"output_dir"`
	Watch           bool   `yaml:"watch"`
	ReloadDebounce  string `yaml:"reload_debounce"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	MCPAddr         string `yaml:"mcp_addr"`
}

// PreferencesConfig locates the preferences file.
type PreferencesConfig struct {
	Path         string `yaml:"path"` // empty = per-user config dir
	DefaultTheme string `yaml:"default_theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "folio",
		Version: "1.0.0",

		Resume: ResumeConfig{
			Source:  "resume.yaml",
			Timeout: "10s",
		},

		Terminal: TerminalConfig{
			Prompt:          "guest@folio:~$",
			TypewriterDelay: "40ms",
			FrameInterval:   "16ms",
			NavOffset:       2,
			RevealMargin:    2,
		},

		Scroll: ScrollConfig{
			Offset:       100,
			Threshold:    0.9,
			Margin:       100,
			HeaderOffset: 80,
		},

		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			OutputDir:       "dist",
			Watch:           true,
			ReloadDebounce:  "300ms",
			ShutdownTimeout: "5s",
			MCPAddr:         "127.0.0.1:8090",
		},

		Preferences: PreferencesConfig{
			DefaultTheme: "dark",
		},

		Logging: DefaultLoggingConfig(),
	}
}

// DefaultConfigPath returns the per-user config file location.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "folio.yaml"
	}
	return filepath.Join(dir, "folio", "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if src := os.Getenv("FOLIO_RESUME"); src != "" {
		c.Resume.Source = src
	}
	if addr := os.Getenv("FOLIO_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if theme := os.Getenv("FOLIO_THEME"); theme != "" {
		c.Preferences.DefaultTheme = strings.ToLower(theme)
	}
	if prefs := os.Getenv("FOLIO_PREFERENCES"); prefs != "" {
		c.Preferences.Path = prefs
	}

	switch strings.ToLower(os.Getenv("FOLIO_DEBUG")) {
	case "1", "true", "yes", "on":
		c.Logging.DebugMode = true
		c.Logging.Level = "debug"
	case "0", "false", "no", "off":
		c.Logging.DebugMode = false
	}
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// GetResumeTimeout returns the resume load timeout.
func (c *Config) GetResumeTimeout() time.Duration {
	return parseDuration(c.Resume.Timeout, 10*time.Second)
}

// GetTypewriterDelay returns the delay between banner lines.
func (c *Config) GetTypewriterDelay() time.Duration {
	return parseDuration(c.Terminal.TypewriterDelay, 40*time.Millisecond)
}

// GetFrameInterval returns the scroll frame interval.
func (c *Config) GetFrameInterval() time.Duration {
	return parseDuration(c.Terminal.FrameInterval, 16*time.Millisecond)
}

// GetReloadDebounce returns how long the watcher waits for writes to settle.
func (c *Config) GetReloadDebounce() time.Duration {
	return parseDuration(c.Server.ReloadDebounce, 300*time.Millisecond)
}

// GetShutdownTimeout bounds graceful server shutdown.
func (c *Config) GetShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 5*time.Second)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Resume.Source) == "" {
		return fmt.Errorf("resume source not configured (set resume.source or FOLIO_RESUME)")
	}
	if c.Scroll.Threshold <= 0 || c.Scroll.Threshold > 1 {
		return fmt.Errorf("invalid scroll threshold: %v (must be in (0, 1])", c.Scroll.Threshold)
	}
	if c.Scroll.Offset < 0 || c.Scroll.Margin < 0 || c.Scroll.HeaderOffset < 0 {
		return fmt.Errorf("scroll offsets must not be negative")
	}
	if c.Terminal.NavOffset < 0 || c.Terminal.RevealMargin < 0 {
		return fmt.Errorf("terminal offsets must not be negative")
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server address not configured")
	}
	if strings.TrimSpace(c.Preferences.DefaultTheme) == "" {
		return fmt.Errorf("default theme not configured")
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	return nil
}

// IsRemoteResume reports whether the resume is fetched over HTTP.
func (c *Config) IsRemoteResume() bool {
	s := strings.ToLower(c.Resume.Source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
