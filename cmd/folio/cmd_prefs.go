package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"folio/cmd/folio/ui"
	"folio/internal/ux"
)

const (
	prefTheme         = "theme"
	prefReducedMotion = "reduced-motion"
)

// prefsCmd manages persisted terminal preferences
var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change terminal preferences",
}

var prefsGetCmd = &cobra.Command{
	Use:       "get [theme|reduced-motion]",
	Short:     "Print preferences",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{prefTheme, prefReducedMotion},
	RunE:      prefsGet,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <theme|reduced-motion> <value>",
	Short: "Change a preference",
	Long: `Changes a persisted preference.

  folio prefs set theme light
  folio prefs set reduced-motion true
  folio prefs set reduced-motion auto   # follow the system setting`,
	Args: cobra.ExactArgs(2),
	RunE: prefsSet,
}

func loadPrefs() (*ux.PreferencesManager, error) {
	pm := ux.NewPreferencesManager(prefsPath())
	if err := pm.Load(); err != nil {
		return nil, err
	}
	return pm, nil
}

func prefsGet(cmd *cobra.Command, args []string) error {
	pm, err := loadPrefs()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	key := ""
	if len(args) == 1 {
		key = strings.ToLower(args[0])
	}

	switch key {
	case prefTheme:
		fmt.Fprintln(out, pm.Theme())
	case prefReducedMotion:
		fmt.Fprintln(out, pm.ReducedMotion())
	case "":
		p := pm.Get()
		fmt.Fprintf(out, "file:           %s\n", pm.Path())
		fmt.Fprintf(out, "theme:          %s\n", pm.Theme())
		fmt.Fprintf(out, "reduced-motion: %t%s\n", pm.ReducedMotion(), motionSource(p))
		fmt.Fprintf(out, "sessions:       %d\n", p.Metrics.SessionsCount)
		fmt.Fprintf(out, "commands:       %d\n", p.Metrics.CommandsExecuted)
	default:
		return fmt.Errorf("unknown preference %q", args[0])
	}
	return nil
}

func motionSource(p ux.Preferences) string {
	if p.ReducedMotion == nil {
		return " (system)"
	}
	return ""
}

func prefsSet(cmd *cobra.Command, args []string) error {
	pm, err := loadPrefs()
	if err != nil {
		return err
	}
	key, value := strings.ToLower(args[0]), strings.ToLower(strings.TrimSpace(args[1]))

	switch key {
	case prefTheme:
		if value != ui.ThemeDark && value != ui.ThemeLight {
			return fmt.Errorf("unknown theme %q (want dark or light)", value)
		}
		if err := pm.SetTheme(value); err != nil {
			return err
		}
	case prefReducedMotion:
		if value == "auto" || value == "system" {
			pm.ClearReducedMotion()
			break
		}
		on, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("reduced-motion wants true, false or auto, got %q", value)
		}
		pm.SetReducedMotion(on)
	default:
		return fmt.Errorf("unknown preference %q", args[0])
	}

	if err := pm.Save(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
	return nil
}
