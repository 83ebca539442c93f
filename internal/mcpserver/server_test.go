package mcpserver

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"folio/internal/command"
	"folio/internal/resume"
)

func sampleStore() *resume.Store {
	return resume.NewStaticStore(&resume.Document{
		Personal: resume.Personal{Name: "Ada Example", Title: "Engineer"},
		Skills: resume.Skills{Categories: []resume.SkillCategory{
			{Name: "Languages", Items: []string{"Go", "SQL"}},
		}},
		Banner: resume.Banner{Lines: []string{"ADA"}},
	})
}

func newServer(store *resume.Store) *Server {
	reg := command.NewRegistry(store, command.WithClock(func() time.Time {
		return time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	}))
	return New(reg, "test")
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("nil result")
	}
	var parts []string
	for _, c := range result.Content {
		switch tc := c.(type) {
		case mcp.TextContent:
			parts = append(parts, tc.Text)
		case *mcp.TextContent:
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func TestTools(t *testing.T) {
	s := newServer(sampleStore())
	tools := s.Tools()
	want := []string{"help", "about", "skills", "experience", "projects", "contact", "social", "banner", RunTool}
	if strings.Join(tools, ",") != strings.Join(want, ",") {
		t.Fatalf("tools = %v, want %v", tools, want)
	}
	if s.MCP() == nil {
		t.Fatal("MCP() returned nil")
	}
}

func TestCommandHandler(t *testing.T) {
	s := newServer(sampleStore())
	result, err := s.commandHandler(command.Skills)(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", textOf(t, result))
	}
	text := textOf(t, result)
	if !strings.Contains(text, "Languages") || !strings.Contains(text, "- Go") {
		t.Errorf("skills markdown missing items:\n%s", text)
	}
}

func TestBannerIsFenced(t *testing.T) {
	s := newServer(sampleStore())
	result, err := s.commandHandler(command.Banner)(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if text := textOf(t, result); !strings.Contains(text, "```\nADA\n```") {
		t.Errorf("banner not fenced:\n%s", text)
	}
}

func TestRunHandler(t *testing.T) {
	s := newServer(sampleStore())
	ctx := context.Background()

	tests := []struct {
		name    string
		input   string
		isError bool
		want    string
	}{
		{"known", "  ABOUT ", false, "Ada Example"},
		{"unknown", "sudo", true, "unknown command \"sudo\""},
		{"empty", "   ", true, "command is required"},
		{"clear", "clear", true, "only available in the terminal"},
		{"help", "help", false, "experience"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.runHandler(ctx, mcp.CallToolRequest{}, RunRequest{Command: tt.input})
			if err != nil {
				t.Fatalf("runHandler returned error: %v", err)
			}
			if result.IsError != tt.isError {
				t.Fatalf("IsError = %v, want %v (%s)", result.IsError, tt.isError, textOf(t, result))
			}
			if text := textOf(t, result); !strings.Contains(text, tt.want) {
				t.Errorf("result %q does not contain %q", text, tt.want)
			}
		})
	}
}

func TestUnavailableStore(t *testing.T) {
	s := newServer(resume.NewStore(t.TempDir() + "/missing.yaml"))
	ctx := context.Background()

	result, err := s.commandHandler(command.About)(ctx, mcp.CallToolRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Fatalf("expected error result, got %s", textOf(t, result))
	}
	if _, err := s.registry.Store().Document(); !errors.Is(err, resume.ErrUnavailable) {
		t.Fatalf("store error = %v, want ErrUnavailable", err)
	}

	// help does not need the document.
	result, err = s.commandHandler(command.Help)(ctx, mcp.CallToolRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("help failed: %s", textOf(t, result))
	}
}

func TestHandler(t *testing.T) {
	if newServer(sampleStore()).Handler() == nil {
		t.Fatal("Handler() returned nil")
	}
}
