package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"folio/cmd/folio/term"
	"folio/internal/config"
	"folio/internal/logging"
	"folio/internal/resume"
	"folio/internal/ux"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	// Global flags
	verbose      bool
	configPath   string
	resumeSource string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "folio - a terminal-style portfolio",
	Long: `folio presents a resume as an interactive terminal.

Type commands like 'about', 'skills' or 'experience' to explore it. The same
document drives a single-page site (folio build, folio serve) and an MCP tool
server (folio mcp).

Run without arguments to start the interactive terminal.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: runInteractive,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the folio version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "folio %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: user config dir)")
	rootCmd.PersistentFlags().StringVarP(&resumeSource, "resume", "r", "", "Resume file or http(s) URL (overrides config)")

	runCmd.Flags().StringVarP(&runFormat, "format", "f", formatPlain, "Output format: plain, markdown or pretty")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	serveCmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload when the resume file changes")

	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "Output directory (overrides config)")

	mcpCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "Serve streamable HTTP instead of stdio (bare --http uses server.mcp_addr)")
	mcpCmd.Flags().Lookup("http").NoOptDefVal = mcpAddrFromConfig

	prefsCmd.AddCommand(prefsGetCmd)
	prefsCmd.AddCommand(prefsSetCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads config and logging before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if resumeSource != "" {
		c.Resume.Source = resumeSource
	}
	if verbose {
		c.Logging.DebugMode = true
		c.Logging.Level = "debug"
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg = c

	if err := logging.Initialize(c.Logging.Options(), filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logging.Boot("folio %s starting (%s)", version, cmd.CommandPath())

	// The interactive terminal owns the screen; keep stderr quiet.
	if !cmd.HasParent() {
		logger = zap.NewNop()
		return nil
	}

	zc := zap.NewProductionConfig()
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err = zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newStore() *resume.Store {
	return resume.NewStore(cfg.Resume.Source, resume.WithTimeout(cfg.GetResumeTimeout()))
}

func prefsPath() string {
	if cfg != nil && cfg.Preferences.Path != "" {
		return cfg.Preferences.Path
	}
	return ux.DefaultPath()
}

// runInteractive starts the full-screen terminal.
func runInteractive(cmd *cobra.Command, args []string) error {
	path := prefsPath()
	if res, err := ux.MigratePreferences(path); err != nil {
		logging.BootError("preferences migration failed: %v", err)
	} else if res.WasMigrated {
		logging.Boot("preferences migrated from %s", res.FromVersion)
	}

	metrics, err := ux.RecordSessionStart(path)
	if err != nil {
		logging.BootError("failed to record session: %v", err)
	}

	prefs := ux.NewPreferencesManager(path)
	if err := prefs.Load(); err != nil {
		logging.BootError("failed to load preferences: %v", err)
	}
	if prefs.Get().Theme == "" && cfg.Preferences.DefaultTheme != "" {
		_ = prefs.SetTheme(cfg.Preferences.DefaultTheme)
	}

	visitor := metrics.State()
	logging.Boot("session #%d (%s visitor)", metrics.SessionsCount, visitor)

	return term.Run(term.Options{
		Store:           newStore(),
		Prompt:          cfg.Terminal.Prompt,
		Prefs:           prefs,
		Greeting:        visitor.Greeting(),
		ShowHints:       visitor.ShowHints(),
		TypewriterDelay: cfg.GetTypewriterDelay(),
		FrameInterval:   cfg.GetFrameInterval(),
		NavOffset:       cfg.Terminal.NavOffset,
		RevealMargin:    cfg.Terminal.RevealMargin,
		Threshold:       cfg.Scroll.Threshold,
	})
}
