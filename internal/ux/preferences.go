package ux

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// PreferencesVersion is the current schema version for preferences.json.
const PreferencesVersion = "1.0"

// DefaultTheme is used until the visitor picks one.
const DefaultTheme = "dark"

// Preferences is the persisted preferences schema.
type Preferences struct {
	// Version is the schema version for migration detection
	Version string `json:"version"`

	// Theme is empty until chosen.
	Theme string `json:"theme,omitempty"`

	// ReducedMotion is nil until chosen; nil follows the system check.
	ReducedMotion *bool `json:"reduced_motion,omitempty"`

	Metrics Metrics `json:"metrics"`

	UpdatedAt string `json:"updated_at,omitempty"`
}

// Metrics tracks local usage statistics.
type Metrics struct {
	SessionsCount    int    `json:"sessions_count"`
	CommandsExecuted int    `json:"commands_executed"`
	UnknownCommands  int    `json:"unknown_commands"`
	LastSession      string `json:"last_session,omitempty"`
}

// PreferencesManager handles loading/saving preferences.
type PreferencesManager struct {
	mu          sync.RWMutex
	path        string
	preferences *Preferences
}

// NewPreferencesManager creates a manager for the preferences file at path.
func NewPreferencesManager(path string) *PreferencesManager {
	return &PreferencesManager{path: path}
}

// DefaultPath returns the per-user preferences location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "folio", "preferences.json")
}

// Path returns the backing file.
func (pm *PreferencesManager) Path() string {
	return pm.path
}

// Load reads preferences from disk. A missing file yields defaults.
func (pm *PreferencesManager) Load() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	data, err := os.ReadFile(pm.path)
	if err != nil {
		if os.IsNotExist(err) {
			pm.preferences = DefaultPreferences()
			return nil
		}
		return fmt.Errorf("failed to read preferences: %w", err)
	}

	var prefs Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return fmt.Errorf("failed to parse preferences: %w", err)
	}
	if prefs.Version == "" {
		prefs.Version = PreferencesVersion
	}

	pm.preferences = &prefs
	return nil
}

// Save writes preferences to disk.
func (pm *PreferencesManager) Save() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.preferences == nil {
		pm.preferences = DefaultPreferences()
	}
	pm.preferences.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	dir := filepath.Dir(pm.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	data, err := json.MarshalIndent(pm.preferences, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	if err := os.WriteFile(pm.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}

	return nil
}

// Get returns a copy of the current preferences (thread-safe).
func (pm *PreferencesManager) Get() Preferences {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	if pm.preferences == nil {
		return *DefaultPreferences()
	}
	p := *pm.preferences
	if p.ReducedMotion != nil {
		v := *p.ReducedMotion
		p.ReducedMotion = &v
	}
	return p
}

// Theme returns the chosen theme or DefaultTheme.
func (pm *PreferencesManager) Theme() string {
	if t := pm.Get().Theme; t != "" {
		return t
	}
	return DefaultTheme
}

// SetTheme records the theme choice.
func (pm *PreferencesManager) SetTheme(name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("theme name is empty")
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.ensure()
	pm.preferences.Theme = name
	return nil
}

// ReducedMotion returns the explicit choice, or the system check when the
// visitor has not chosen.
func (pm *PreferencesManager) ReducedMotion() bool {
	if rm := pm.Get().ReducedMotion; rm != nil {
		return *rm
	}
	return SystemReducedMotion()
}

// SetReducedMotion records the reduced-motion choice.
func (pm *PreferencesManager) SetReducedMotion(on bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.ensure()
	pm.preferences.ReducedMotion = &on
}

// ClearReducedMotion forgets the choice so the system check applies again.
func (pm *PreferencesManager) ClearReducedMotion() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.ensure()
	pm.preferences.ReducedMotion = nil
}

// IncrementMetric increments a numeric metric.
func (pm *PreferencesManager) IncrementMetric(metric string) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.ensure()

	switch metric {
	case "sessions_count":
		pm.preferences.Metrics.SessionsCount++
		pm.preferences.Metrics.LastSession = time.Now().UTC().Format(time.RFC3339)
	case "commands_executed":
		pm.preferences.Metrics.CommandsExecuted++
	case "unknown_commands":
		pm.preferences.Metrics.UnknownCommands++
	default:
		return fmt.Errorf("unknown metric: %s", metric)
	}

	return nil
}

func (pm *PreferencesManager) ensure() {
	if pm.preferences == nil {
		pm.preferences = DefaultPreferences()
	}
}

// DefaultPreferences returns the first-visit preferences: nothing chosen.
func DefaultPreferences() *Preferences {
	return &Preferences{Version: PreferencesVersion}
}

// SystemReducedMotion is the terminal stand-in for a prefers-reduced-motion
// media query.
func SystemReducedMotion() bool {
	for _, key := range []string{"FOLIO_REDUCED_MOTION", "REDUCE_MOTION"} {
		if v, ok := os.LookupEnv(key); ok {
			return truthy(v)
		}
	}
	return os.Getenv("TERM") == "dumb"
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on", "reduce":
		return true
	}
	return false
}
