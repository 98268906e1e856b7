package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/doeshing/askai-go/internal/domain"
)

const (
	ansiDim   = "\x1b[2m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// Renderer prints results, dimming metadata when writing to a terminal.
type Renderer struct {
	out   io.Writer
	color bool
}

// NewRendererTo builds a renderer for the given writer. Color is enabled only
// when the writer is a terminal, so piped output stays clean.
func NewRendererTo(out io.Writer) *Renderer {
	r := &Renderer{out: out}
	if f, ok := out.(*os.File); ok {
		r.color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return r
}

// RenderResult prints the answer followed by a one-line status footer.
func (r *Renderer) RenderResult(result domain.AskResult) {
	if result.Failed() {
		fmt.Fprintf(r.out, "%srequest failed: %s%s\n", r.code(ansiRed), result.Error, r.code(ansiReset))
		return
	}

	fmt.Fprintln(r.out, result.Answer)
	fmt.Fprintf(r.out, "%s%s%s\n", r.code(ansiDim), r.footer(result), r.code(ansiReset))
}

func (r *Renderer) footer(result domain.AskResult) string {
	if result.FromCache {
		return fmt.Sprintf("[%s | cached | %s]", result.ModelUsed, formatElapsed(result.Elapsed))
	}
	return fmt.Sprintf("[%s | %s in / %s out | $%.6f | %s]",
		result.ModelUsed,
		humanize.Comma(int64(result.Usage.Input)),
		humanize.Comma(int64(result.Usage.Output)),
		result.CostUSD,
		formatElapsed(result.Elapsed))
}

func (r *Renderer) code(seq string) string {
	if !r.color {
		return ""
	}
	return seq
}

func formatElapsed(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
