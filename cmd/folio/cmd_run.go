package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"folio/internal/command"
	"folio/internal/render"
	"folio/internal/resume"
)

// Output formats for `folio run`.
const (
	formatPlain    = "plain"
	formatMarkdown = "markdown"
	formatPretty   = "pretty"
)

var runFormat string

// runCmd executes one terminal command and prints its output
var runCmd = &cobra.Command{
	Use:   "run [command]",
	Short: "Run one terminal command and print its output",
	Long: `Loads the resume, runs a single terminal command and prints the result.

Examples:
  folio run skills
  folio run experience --format markdown
  folio run about --format pretty`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCommand,
}

func runCommand(cmd *cobra.Command, args []string) error {
	switch runFormat {
	case formatPlain, formatMarkdown, formatPretty:
	default:
		return fmt.Errorf("unknown format %q (want plain, markdown or pretty)", runFormat)
	}

	store := newStore()
	if _, err := store.Load(commandContext(cmd)); err != nil {
		logger.Warn("resume load failed", zap.String("source", store.Source()), zap.Error(err))
	}

	reg := command.NewRegistry(store)
	res := reg.Resolve(strings.Join(args, " "))
	logger.Debug("resolved command", zap.String("name", res.Name), zap.Stringer("status", res.Status))

	if res.Output != nil && !res.Output.Empty() {
		text, err := formatOutput(*res.Output, runFormat)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
	}

	switch {
	case res.Status == command.ResultNotFound:
		return fmt.Errorf("command not found: %s", res.Name)
	case res.Name != command.Help && store.State() == resume.StateUnavailable:
		_, err := store.Document()
		return err
	}
	return nil
}

// formatOutput renders a block in the requested format, ending in a newline.
func formatOutput(out render.Output, format string) (string, error) {
	switch format {
	case formatMarkdown:
		return render.Markdown(out), nil
	case formatPretty:
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			return "", fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		text, err := r.Render(render.Markdown(out))
		if err != nil {
			return "", fmt.Errorf("failed to render markdown: %w", err)
		}
		return text, nil
	default:
		return render.PlainText(out) + "\n", nil
	}
}
