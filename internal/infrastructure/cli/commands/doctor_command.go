package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/doeshing/shell-ai/internal/app"
	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/infrastructure/cli/helpers"
)

var errDoctorFailed = errors.New("doctor found problems")

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(rt *helpers.Runtime) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and local tooling without contacting a provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := app.NewDoctor(rt.Options(cmd))
			if err != nil {
				return err
			}
			report, err := service.Run(cmd.Context())
			if err != nil {
				return err
			}
			if format == formatJSON {
				if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
					return err
				}
			} else {
				renderHealthReport(cmd.OutOrStdout(), report)
			}
			if report.HasErrors() {
				return errDoctorFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", formatHuman, "Output format: human|json")
	return cmd
}

func renderHealthReport(out io.Writer, report domain.HealthReport) {
	okMark := color.New(color.FgGreen).Sprint("✓")
	warnMark := color.New(color.FgYellow).Sprint("!")
	failMark := color.New(color.FgRed).Sprint("✗")

	for _, check := range report.Checks {
		mark := okMark
		switch check.Status {
		case domain.HealthWarn:
			mark = warnMark
		case domain.HealthError:
			mark = failMark
		}
		fmt.Fprintf(out, "%s %s: %s\n", mark, check.Name, check.Details)
	}
}
