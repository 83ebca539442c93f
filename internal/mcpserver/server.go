// Package mcpserver exposes the terminal commands as MCP tools so assistants
// can read the portfolio. Each tool returns the command's output as Markdown.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"folio/internal/command"
	"folio/internal/logging"
	"folio/internal/render"
	"folio/internal/resume"
)

const (
	// Name is the server name announced to clients.
	Name = "folio"
	// Endpoint is the streamable HTTP path.
	Endpoint = "/mcp"
	// RunTool resolves free-form terminal input.
	RunTool = "run_command"
)

// RunRequest is the argument of the run_command tool.
type RunRequest struct {
	Command string `json:"command"`
}

// Server wraps an MCP server over one command registry.
type Server struct {
	registry *command.Registry
	mcp      *server.MCPServer
	tools    []string
}

// New registers one tool per command plus run_command. clear only makes
// sense in a terminal, so it is not exposed.
func New(reg *command.Registry, version string) *Server {
	s := &Server{
		registry: reg,
		mcp: server.NewMCPServer(
			Name,
			version,
			server.WithToolCapabilities(false),
		),
	}

	for _, cmd := range reg.Commands() {
		if cmd.ClearsLog {
			continue
		}
		tool := mcp.NewTool(cmd.Name, mcp.WithDescription(cmd.Description))
		s.mcp.AddTool(tool, s.commandHandler(cmd.Name))
		s.tools = append(s.tools, cmd.Name)
	}

	runTool := mcp.NewTool(RunTool,
		mcp.WithDescription("Run a portfolio terminal command by name"),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("Command to run, e.g. 'skills' or 'experience'"),
		),
	)
	s.mcp.AddTool(runTool, mcp.NewTypedToolHandler(s.runHandler))
	s.tools = append(s.tools, RunTool)
	return s
}

// Tools returns the registered tool names in registration order.
func (s *Server) Tools() []string {
	return append([]string(nil), s.tools...)
}

// MCP returns the underlying server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

func (s *Server) load(ctx context.Context) {
	if store := s.registry.Store(); store != nil {
		if _, err := store.Load(ctx); err != nil {
			logging.Get(logging.CategoryMCP).Warn("resume load failed: %v", err)
		}
	}
}

func (s *Server) resolve(ctx context.Context, input string) (*mcp.CallToolResult, error) {
	s.load(ctx)
	res := s.registry.Resolve(input)
	logging.MCP("tool call %q -> %s", res.Name, res.Status)

	switch res.Status {
	case command.ResultEmpty:
		return mcp.NewToolResultError("command is required"), nil
	case command.ResultNotFound:
		return mcp.NewToolResultError(fmt.Sprintf("unknown command %q; try 'help'", res.Name)), nil
	}
	if res.Clear {
		return mcp.NewToolResultError("clear is only available in the terminal"), nil
	}
	if res.Output == nil || res.Output.Empty() {
		return mcp.NewToolResultText(""), nil
	}
	if store := s.registry.Store(); store != nil && res.Name != command.Help {
		if _, err := store.Document(); errors.Is(err, resume.ErrUnavailable) {
			return mcp.NewToolResultError(render.PlainText(*res.Output)), nil
		}
	}
	return mcp.NewToolResultText(render.Markdown(*res.Output)), nil
}

func (s *Server) commandHandler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.resolve(ctx, name)
	}
}

func (s *Server) runHandler(ctx context.Context, _ mcp.CallToolRequest, args RunRequest) (*mcp.CallToolResult, error) {
	return s.resolve(ctx, args.Command)
}

// ServeStdio serves over stdin and stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	logging.MCP("serving MCP over stdio")
	return server.ServeStdio(s.mcp)
}

// Handler returns the streamable HTTP handler mounted at Endpoint.
func (s *Server) Handler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp, server.WithEndpointPath(Endpoint))
}

// ServeHTTP serves streamable HTTP on addr until ctx is done.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle(Endpoint, s.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logging.MCP("serving MCP on http://%s%s", ln.Addr(), Endpoint)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
