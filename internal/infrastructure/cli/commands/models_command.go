package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/askai-go/internal/app"
	"github.com/doeshing/askai-go/internal/infrastructure/cli/helpers"
)

// NewModelsCommand creates the models command with all subcommands
func NewModelsCommand(container *app.Container) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "List configured models",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listModels(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}

	modelsCmd.AddCommand(
		newModelsDefaultCommand(container),
		newModelsFallbackCommand(container),
	)

	return modelsCmd
}

// newModelsDefaultCommand creates the 'models default' subcommand
func newModelsDefaultCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "default <name>",
		Short: "Set the default model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setDefaultModel(cmd.Context(), container, args[0])
		},
	}
}

// newModelsFallbackCommand creates the 'models fallback' subcommand
func newModelsFallbackCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "fallback <names>",
		Short: "Set the fallback model chain (comma separated, empty clears)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := ""
			if len(args) == 1 {
				names = args[0]
			}
			return setFallbackModels(cmd.Context(), container, names)
		},
	}
}

// listModels prints each configured model with its family and endpoint
func listModels(ctx context.Context, out io.Writer, container *app.Container) error {
	cfg, err := container.ConfigLoader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	for _, model := range cfg.Models {
		marker := " "
		if model.Name == cfg.Preferences.DefaultModel {
			marker = "*"
		}
		priced := ""
		if container.Pricing != nil {
			if _, found := container.Pricing.Lookup(model.ModelID); !found {
				priced = " | unpriced"
			}
		}
		fmt.Fprintf(out, "%s %s | %s | %s | %s%s\n",
			marker,
			model.Name,
			model.Family,
			model.ModelID,
			model.Endpoint,
			priced)
	}

	if len(cfg.Preferences.FallbackModels) > 0 {
		fmt.Fprintf(out, "Fallback chain: %v\n", cfg.Preferences.FallbackModels)
	}

	return nil
}

// setDefaultModel updates preferences.default_model
func setDefaultModel(ctx context.Context, container *app.Container, name string) error {
	cfg, err := container.ConfigLoader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if _, found := helpers.FindModelByName(cfg, name); !found {
		return fmt.Errorf("model %s not configured", name)
	}

	cfg.Preferences.DefaultModel = name
	return helpers.SaveConfigWithValidation(container, cfg)
}

// setFallbackModels replaces the fallback chain
func setFallbackModels(ctx context.Context, container *app.Container, names string) error {
	cfg, err := container.ConfigLoader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	chain := helpers.SplitAndTrimCSV(names)
	for _, name := range chain {
		if _, found := helpers.FindModelByName(cfg, name); !found {
			return fmt.Errorf("model %s not configured", name)
		}
	}

	cfg.Preferences.FallbackModels = chain
	return helpers.SaveConfigWithValidation(container, cfg)
}
