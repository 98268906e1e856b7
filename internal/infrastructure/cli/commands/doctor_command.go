package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/askai-go/internal/app"
	"github.com/doeshing/askai-go/internal/domain"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check config, API keys, pricing and storage health",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.DoctorService == nil {
				return fmt.Errorf("doctor service unavailable")
			}

			report, err := container.DoctorService.Run(cmd.Context())

			// Partial reports are still worth showing.
			printHealthReport(cmd.OutOrStdout(), report)

			if err != nil {
				return fmt.Errorf("diagnostics incomplete: %w", err)
			}
			return nil
		},
	}
}

func printHealthReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		tag := "[" + strings.ToUpper(string(check.Status)) + "]"
		fmt.Fprintf(out, "%-7s %s: %s\n", tag, check.Name, check.Details)
	}
}
