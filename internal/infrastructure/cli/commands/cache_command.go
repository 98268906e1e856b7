package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/askai-go/internal/app"
	"github.com/doeshing/askai-go/internal/domain"
	"github.com/doeshing/askai-go/internal/infrastructure/cli/helpers"
)

const (
	msgNoCachedAnswers = "No cached answers."
)

// NewCacheCommand creates the cache command with all subcommands
func NewCacheCommand(container *app.Container) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the answer cache",
	}

	cacheCmd.AddCommand(
		newCacheListCommand(container),
		newCacheClearCommand(container),
		newCacheStatsCommand(container),
		newCacheConfigCommand(container),
	)

	return cacheCmd
}

// newCacheListCommand creates the 'cache list' subcommand
func newCacheListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCacheEntries(cmd.OutOrStdout(), container)
		},
	}
}

// newCacheClearCommand creates the 'cache clear' subcommand
func newCacheClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop all cached answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearCache(container)
		},
	}
}

// newCacheStatsCommand creates the 'cache stats' subcommand
func newCacheStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache settings and per-model entry counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showCacheStats(cmd.OutOrStdout(), container)
		},
	}
}

// newCacheConfigCommand creates the 'cache config' subcommand
func newCacheConfigCommand(container *app.Container) *cobra.Command {
	var ttl string
	var maxEntries int

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Update cache TTL/max entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateCacheConfiguration(cmd.Context(), cmd.OutOrStdout(), container, ttl, maxEntries)
		},
	}

	cmd.Flags().StringVar(&ttl, "ttl", "", "Cache TTL duration (e.g. 30m, 2h; 0 disables expiry)")
	cmd.Flags().IntVar(&maxEntries, "max", 0, "Max cache entries (0 keeps the cache unbounded)")
	return cmd
}

// listCacheEntries lists all cache entries
func listCacheEntries(out io.Writer, container *app.Container) error {
	if container.Cache == nil {
		return fmt.Errorf("cache store unavailable")
	}

	entries, err := container.Cache.Entries()
	if err != nil {
		return fmt.Errorf("failed to retrieve cache entries: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, msgNoCachedAnswers)
		return nil
	}

	for _, entry := range entries {
		fmt.Fprintf(out, "%s | %s | %s | %s\n",
			shortKey(entry.Key),
			entry.Model,
			entry.CreatedAt.Format(TimestampFormat),
			entry.Prompt)
	}

	return nil
}

// clearCache drops all cached answers
func clearCache(container *app.Container) error {
	if container.Cache == nil {
		return fmt.Errorf("cache store unavailable")
	}

	if err := container.Cache.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	return nil
}

// showCacheStats displays cache settings and per-model statistics
func showCacheStats(out io.Writer, container *app.Container) error {
	cache := container.Cache
	if cache == nil {
		return fmt.Errorf("cache store unavailable")
	}

	settings := cache.Settings()
	entries, err := cache.Entries()
	if err != nil {
		return fmt.Errorf("failed to retrieve cache entries: %w", err)
	}

	fmt.Fprintf(out, "Backend: %s\nTTL: %s\nMax entries: %d\nCurrent entries: %d\n",
		settings.Backend,
		formatTTL(settings.TTL),
		settings.MaxEntries,
		len(entries))

	modelCounts := calculateModelCounts(entries)

	if len(modelCounts) == 0 {
		fmt.Fprintln(out, msgNoCachedAnswers)
		return nil
	}

	fmt.Fprintln(out, "Entries per model:")
	topModels := helpers.CalculateTopModels(modelCounts, len(modelCounts))
	for _, stat := range topModels {
		fmt.Fprintf(out, "  %s: %d\n", stat.Model, stat.Count)
	}

	return nil
}

// updateCacheConfiguration updates cache TTL and/or max entries
func updateCacheConfiguration(ctx context.Context, out io.Writer, container *app.Container, ttl string, maxEntries int) error {
	cfg, err := container.ConfigLoader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	updated := cfg.Cache

	if ttl != "" {
		if _, err := time.ParseDuration(ttl); err != nil {
			return fmt.Errorf("invalid ttl: %w", err)
		}
		updated.TTL = ttl
	}

	if maxEntries > 0 {
		updated.MaxEntries = maxEntries
	}

	cfg.Cache = updated

	if err := helpers.SaveConfigWithValidation(container, cfg); err != nil {
		return err
	}

	// The running store is built once at startup; new settings apply next run.
	fmt.Fprintln(out, "Cache settings saved. They take effect on the next invocation.")
	return nil
}

// calculateModelCounts calculates the number of cache entries per model
func calculateModelCounts(entries []domain.CacheEntry) map[string]int {
	counts := make(map[string]int)

	for _, entry := range entries {
		counts[entry.Model]++
	}

	return counts
}

func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}

func formatTTL(ttl time.Duration) string {
	if ttl <= 0 {
		return "disabled"
	}
	return ttl.String()
}
