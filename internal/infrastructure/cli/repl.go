package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/doeshing/askai-go/internal/app"
	"github.com/doeshing/askai-go/internal/domain"
	"github.com/doeshing/askai-go/internal/infrastructure/cli/commands"
)

// exitSentinels terminate the interactive loop.
var exitSentinels = map[string]bool{
	"quit": true,
	"exit": true,
	"q":    true,
}

// ReplOptions carries per-session settings for the interactive loop.
type ReplOptions struct {
	Model       string
	BypassCache bool
	Timeout     time.Duration
	Debug       bool
}

// RunRepl reads prompts line by line until EOF or an exit sentinel.
// A failed request prints its error and the loop continues; the session
// summary is printed on the way out.
func RunRepl(ctx context.Context, container *app.Container, in io.Reader, out io.Writer, opts ReplOptions) error {
	renderer := NewRendererTo(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fmt.Fprintln(out, "askai interactive session. Type 'quit', 'exit' or 'q' to leave.")

	for {
		fmt.Fprint(out, "askai> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if exitSentinels[strings.ToLower(line)] {
			break
		}

		result := runOnce(ctx, container, line, opts)
		renderer.RenderResult(result)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	printSessionSummary(out, container)
	return autoExportSession(out, container)
}

// runOnce executes one prompt with a per-request timeout.
func runOnce(ctx context.Context, container *app.Container, prompt string, opts ReplOptions) domain.AskResult {
	reqCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	result, _ := container.AskService.Run(domain.AskRequest{
		Context:       reqCtx,
		Prompt:        prompt,
		ModelOverride: opts.Model,
		BypassCache:   opts.BypassCache,
		Debug:         opts.Debug,
	})
	return result
}

func printSessionSummary(out io.Writer, container *app.Container) {
	summary, err := container.Ledger.Summary()
	if err != nil {
		fmt.Fprintf(out, "session summary unavailable: %v\n", err)
		return
	}
	if summary.Requests == 0 && summary.CacheHits == 0 {
		return
	}
	fmt.Fprintln(out, "\nSession summary:")
	commands.RenderSummary(out, summary)
}

// autoExportSession writes the session document when ledger.auto_export is set.
func autoExportSession(out io.Writer, container *app.Container) error {
	if container.AutoExport == "" {
		return nil
	}
	if err := container.Ledger.ExportJSON(container.AutoExport); err != nil {
		return fmt.Errorf("auto export: %w", err)
	}
	fmt.Fprintf(out, "Session exported to %s\n", container.AutoExport)
	return nil
}
