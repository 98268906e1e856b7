package cli

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/doeshing/askai-go/internal/app"
	"github.com/doeshing/askai-go/internal/domain"
	"github.com/doeshing/askai-go/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd builds the container and wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}
	return newRootCommand(container), nil
}

func newRootCommand(container *app.Container) *cobra.Command {
	root := &cobra.Command{
		Use:   "askai [prompt]",
		Short: "askai - cached LLM question runner",
		Long:  "askai answers prompts via configured LLM providers, caching answers and tracking token usage and cost per session.",
		// Bare arguments are a prompt, not a subcommand.
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
					return RunRepl(cmd.Context(), container, os.Stdin, cmd.OutOrStdout(), ReplOptions{
						Timeout: resolveTimeout(cmd.Context(), container, false, domain.DefaultRequestTimeout),
					})
				}
				return cmd.Help()
			}
			return executeAsk(cmd, container, askOptions{timeout: domain.DefaultRequestTimeout}, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newAskCommand(container))
	root.AddCommand(newReplCommand(container))
	root.AddCommand(commands.NewUsageCommand(container))
	root.AddCommand(commands.NewCacheCommand(container))
	root.AddCommand(commands.NewModelsCommand(container))
	root.AddCommand(commands.NewConfigCommand(container))
	root.AddCommand(commands.NewDoctorCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root
}

// askOptions carries the ask flag values shared by the root and ask commands.
type askOptions struct {
	model      string
	noCache    bool
	debug      bool
	timeout    time.Duration
	timeoutSet bool
	params     domain.InferenceParams
}

// executeAsk runs one prompt and renders the result to the command's writer.
func executeAsk(cmd *cobra.Command, container *app.Container, opts askOptions, args []string) error {
	ctx := cmd.Context()
	if timeout := resolveTimeout(ctx, container, opts.timeoutSet, opts.timeout); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	result, err := container.AskService.Run(domain.AskRequest{
		Context:       ctx,
		Prompt:        strings.Join(args, " "),
		ModelOverride: opts.model,
		BypassCache:   opts.noCache,
		Params:        opts.params,
		Debug:         opts.debug,
	})
	NewRendererTo(cmd.OutOrStdout()).RenderResult(result)
	return err
}

// resolveTimeout prefers an explicit --timeout; otherwise preferences.timeout
// from the config file, falling back to the flag default.
func resolveTimeout(ctx context.Context, container *app.Container, flagSet bool, flagValue time.Duration) time.Duration {
	if flagSet || container.ConfigLoader == nil {
		return flagValue
	}
	cfg, err := container.ConfigLoader.Load(ctx)
	if err != nil || cfg.Preferences.TimeoutSeconds <= 0 {
		return flagValue
	}
	return time.Duration(cfg.Preferences.TimeoutSeconds) * time.Second
}

func newAskCommand(container *app.Container) *cobra.Command {
	var (
		model       string
		noCache     bool
		debug       bool
		timeout     time.Duration
		maxTokens   int
		temperature float64
		topP        float64
	)

	cmd := &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Ask a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeAsk(cmd, container, askOptions{
				model:      model,
				noCache:    noCache,
				debug:      debug,
				timeout:    timeout,
				timeoutSet: cmd.Flags().Changed("timeout"),
				params: domain.InferenceParams{
					MaxTokens:   maxTokens,
					Temperature: temperature,
					TopP:        topP,
				},
			}, args)
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Override model name (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the cache lookup and force a provider call")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable verbose logging")
	cmd.Flags().DurationVar(&timeout, "timeout", domain.DefaultRequestTimeout, "Override request timeout (default from config)")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Override max output tokens")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "Override sampling temperature")
	cmd.Flags().Float64Var(&topP, "top-p", 0, "Override nucleus sampling cutoff")

	return cmd
}

func newReplCommand(container *app.Container) *cobra.Command {
	var (
		model   string
		noCache bool
		debug   bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunRepl(cmd.Context(), container, cmd.InOrStdin(), cmd.OutOrStdout(), ReplOptions{
				Model:       model,
				BypassCache: noCache,
				Timeout:     resolveTimeout(cmd.Context(), container, cmd.Flags().Changed("timeout"), timeout),
				Debug:       debug,
			})
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Override model name (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip cache lookups for the whole session")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable verbose logging")
	cmd.Flags().DurationVar(&timeout, "timeout", domain.DefaultRequestTimeout, "Per-request timeout (default from config)")

	return cmd
}
