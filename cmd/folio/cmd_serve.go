package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"folio/internal/command"
	"folio/internal/mcpserver"
	"folio/internal/site"
	"folio/internal/web"
)

// mcpAddrFromConfig is the value of a bare --http flag.
const mcpAddrFromConfig = "config"

var (
	serveAddr   string
	noWatch     bool
	buildOut    string
	mcpHTTPAddr string
)

// serveCmd runs the live site
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the portfolio page with a live terminal",
	Long: `Serves the single-page portfolio and a WebSocket terminal at /ws.

Each browser tab gets its own terminal session. When the resume is a local
file it is watched, and new sessions see edits after a short debounce.`,
	Args: cobra.NoArgs,
	RunE: serve,
}

// buildCmd writes the static site
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Write the static portfolio site",
	Long: `Renders index.html, site.css and terminal.js plus the resume as
config.json and config.yaml into the output directory.`,
	Args: cobra.NoArgs,
	RunE: build,
}

// mcpCmd exposes the terminal commands as MCP tools
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the terminal commands as MCP tools",
	Long: `Starts an MCP server with one tool per terminal command plus run_command.
Uses stdio unless --http is given.

Examples:
  folio mcp --http                  # server.mcp_addr from the config
  folio mcp --http=127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: serveMCP,
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
}

func serve(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if noWatch {
		cfg.Server.Watch = false
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	srv, err := web.New(cfg.Resume.Source, nil, web.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}
	logger.Info("Serving portfolio",
		zap.String("addr", cfg.Server.Addr),
		zap.String("resume", cfg.Resume.Source),
		zap.Bool("watch", cfg.Server.Watch && !cfg.IsRemoteResume()))
	fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (Ctrl+C to stop)\n", cfg.Server.Addr)
	return srv.Run(ctx)
}

func build(cmd *cobra.Command, args []string) error {
	out := buildOut
	if out == "" {
		out = cfg.Server.OutputDir
	}

	store := newStore()
	doc, err := store.Load(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("cannot build without a resume: %w", err)
	}

	b, err := site.NewBuilder(site.Options{
		Theme:  cfg.Preferences.DefaultTheme,
		Prompt: cfg.Terminal.Prompt,
		Scroll: cfg.Scroll,
	})
	if err != nil {
		return err
	}
	files, err := b.Build(out, doc)
	if err != nil {
		return err
	}
	logger.Info("Site built", zap.String("dir", out), zap.Int("files", len(files)))
	for _, f := range files {
		fmt.Fprintln(cmd.OutOrStdout(), f)
	}
	return nil
}

func serveMCP(cmd *cobra.Command, args []string) error {
	store := newStore()
	if _, err := store.Load(commandContext(cmd)); err != nil {
		logger.Warn("resume load failed; tools will report it", zap.Error(err))
	}
	srv := mcpserver.New(command.NewRegistry(store), version)

	addr := mcpAddr()
	if addr == "" {
		return srv.ServeStdio()
	}
	ctx, stop := signalContext(cmd)
	defer stop()
	logger.Info("Serving MCP", zap.String("addr", addr), zap.String("endpoint", mcpserver.Endpoint))
	return srv.ServeHTTP(ctx, addr)
}

// mcpAddr returns the HTTP address for the MCP server, "" for stdio.
func mcpAddr() string {
	if mcpHTTPAddr == mcpAddrFromConfig {
		return cfg.Server.MCPAddr
	}
	return mcpHTTPAddr
}
