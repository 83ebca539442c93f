package ux

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// MigrationResult contains information about a preferences migration.
type MigrationResult struct {
	WasMigrated     bool
	FromVersion     string
	ToVersion       string
	PreservedData   []string
	DefaultsApplied []string
}

// MigratePreferences upgrades an unversioned preferences file in place.
//
// Unversioned files are flat key/value maps of strings, the layout a browser
// keeps in local storage: {"theme": "light", "reducedMotion": "true"}.
// Current files are left alone. A missing file is not created.
func MigratePreferences(path string) (*MigrationResult, error) {
	result := &MigrationResult{ToVersion: PreferencesVersion}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		// Unreadable file: start over with defaults
		result.WasMigrated = true
		result.DefaultsApplied = append(result.DefaultsApplied, "invalid_json_reset")
		return result, writeMigrated(path, DefaultPreferences())
	}

	version, _ := raw["version"].(string)
	result.FromVersion = version
	if version == PreferencesVersion {
		return result, nil
	}

	prefs := DefaultPreferences()
	result.WasMigrated = true

	if theme, ok := raw["theme"].(string); ok && theme != "" {
		prefs.Theme = theme
		result.PreservedData = append(result.PreservedData, "theme")
	} else {
		result.DefaultsApplied = append(result.DefaultsApplied, "theme")
	}

	for _, key := range []string{"reducedMotion", "reduced_motion"} {
		if on, ok := legacyBool(raw[key]); ok {
			prefs.ReducedMotion = &on
			result.PreservedData = append(result.PreservedData, "reduced_motion")
			break
		}
	}

	return result, writeMigrated(path, prefs)
}

// legacyBool accepts JSON booleans and the string forms local storage uses.
func legacyBool(v interface{}) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, false
		}
		return parsed, true
	}
	return false, false
}

func writeMigrated(path string, prefs *Preferences) error {
	pm := NewPreferencesManager(path)
	pm.preferences = prefs
	if err := pm.Save(); err != nil {
		return fmt.Errorf("failed to save migrated preferences: %w", err)
	}
	return nil
}

// RecordSessionStart bumps the visit counter and persists it.
func RecordSessionStart(path string) (Metrics, error) {
	pm := NewPreferencesManager(path)
	if err := pm.Load(); err != nil {
		return Metrics{}, err
	}
	if err := pm.IncrementMetric("sessions_count"); err != nil {
		return Metrics{}, err
	}
	if err := pm.Save(); err != nil {
		return Metrics{}, err
	}
	return pm.Get().Metrics, nil
}
