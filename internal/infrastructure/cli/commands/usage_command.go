package commands

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/askai-go/internal/app"
	"github.com/doeshing/askai-go/internal/domain"
	"github.com/doeshing/askai-go/internal/infrastructure/cli/helpers"
)

const (
	msgNoUsageRecorded = "No usage recorded yet."
)

// NewUsageCommand creates the usage command with all subcommands
func NewUsageCommand(container *app.Container) *cobra.Command {
	usageCmd := &cobra.Command{
		Use:   "usage",
		Short: "Inspect the usage ledger",
	}

	usageCmd.AddCommand(
		newUsageShowCommand(container),
		newUsageSummaryCommand(container),
		newUsageExportCommand(container),
		newUsageClearCommand(container),
	)

	return usageCmd
}

// newUsageShowCommand creates the 'usage show' subcommand
func newUsageShowCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List recent usage records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listUsageRecords(cmd.OutOrStdout(), container, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultUsageLimit, "Max records to show")
	return cmd
}

// newUsageSummaryCommand creates the 'usage summary' subcommand
func newUsageSummaryCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show aggregate token counts and cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showUsageSummary(cmd.OutOrStdout(), container)
		},
	}
}

// newUsageExportCommand creates the 'usage export' subcommand
func newUsageExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export records and summary to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportUsage(cmd.OutOrStdout(), container, args[0])
		},
	}
}

// newUsageClearCommand creates the 'usage clear' subcommand
func newUsageClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the usage ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearUsage(container)
		},
	}
}

// listUsageRecords lists recent usage records
func listUsageRecords(out io.Writer, container *app.Container, limit int) error {
	store := container.Ledger
	if store == nil {
		return fmt.Errorf("usage ledger unavailable")
	}

	records, err := store.Records(limit)
	if err != nil {
		return fmt.Errorf("failed to retrieve usage records: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, msgNoUsageRecorded)
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(out, "%s | %s | in=%s out=%s | $%.6f | %s\n",
			rec.Timestamp.Format(TimestampFormat),
			rec.Model,
			humanize.Comma(int64(rec.InputTokens)),
			humanize.Comma(int64(rec.OutputTokens)),
			rec.CostUSD,
			rec.Prompt)
	}

	return nil
}

// showUsageSummary displays aggregate statistics for the ledger
func showUsageSummary(out io.Writer, container *app.Container) error {
	store := container.Ledger
	if store == nil {
		return fmt.Errorf("usage ledger unavailable")
	}

	summary, err := store.Summary()
	if err != nil {
		return fmt.Errorf("failed to compute usage summary: %w", err)
	}

	if summary.Requests == 0 && summary.CacheHits == 0 {
		fmt.Fprintln(out, msgNoUsageRecorded)
		return nil
	}

	RenderSummary(out, summary)
	return nil
}

// RenderSummary writes a SessionSummary in the standard layout.
// Shared with the interactive loop's exit report.
func RenderSummary(out io.Writer, summary domain.SessionSummary) {
	fmt.Fprintf(out, "Requests: %d\nCache hits: %d (%.1f%%)\n",
		summary.Requests,
		summary.CacheHits,
		helpers.CalculateHitRatePercent(summary.CacheHits, summary.Requests))
	fmt.Fprintf(out, "Tokens: %s in / %s out\n",
		humanize.Comma(int64(summary.TotalInputTokens)),
		humanize.Comma(int64(summary.TotalOutputTokens)))
	fmt.Fprintf(out, "Total cost: $%.6f\n", summary.TotalCostUSD)
	if summary.UnpricedRequests > 0 {
		fmt.Fprintf(out, "Unpriced requests: %d (cost recorded as zero)\n", summary.UnpricedRequests)
	}

	if len(summary.Models) > 0 {
		fmt.Fprintln(out, "Requests per model:")
		topModels := helpers.CalculateTopModels(summary.Models, TopModelsDisplayed)
		for _, stat := range topModels {
			fmt.Fprintf(out, "  %s: %d\n", stat.Model, stat.Count)
		}
	}
}

// exportUsage writes the ledger export document to a file
func exportUsage(out io.Writer, container *app.Container, path string) error {
	store := container.Ledger
	if store == nil {
		return fmt.Errorf("usage ledger unavailable")
	}

	if err := store.ExportJSON(path); err != nil {
		return fmt.Errorf("failed to export usage to %s: %w", path, err)
	}

	fmt.Fprintf(out, "Usage exported to %s\n", path)
	return nil
}

// clearUsage clears the usage ledger
func clearUsage(container *app.Container) error {
	if container.Ledger == nil {
		return fmt.Errorf("usage ledger unavailable")
	}

	if err := container.Ledger.Clear(); err != nil {
		return fmt.Errorf("failed to clear usage ledger: %w", err)
	}

	return nil
}
