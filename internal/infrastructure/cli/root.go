// Package cli wires the cobra command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Michael-Yan-wun/google-calendar-tool/internal/app"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/domain"
)

// Version is stamped at build time.
var Version = "dev"

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command. Running the bare binary starts
// the server.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	serveCmd := newServeCommand(container)

	root := &cobra.Command{
		Use:   "gcaltool",
		Short: "AI assistant for Google Calendar",
		Long:  "gcaltool turns natural-language requests into calendar changes, with a confirmation step before anything is modified.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.ExecuteContext(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serveCmd)
	root.AddCommand(newDoctorCommand(container))
	root.AddCommand(newVersionCommand())
	return root, nil
}

func newServeCommand(container *app.Container) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := listen
			if addr == "" {
				addr = container.Config.Server.Listen
			}
			return container.Server.Run(addr)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	return cmd
}

func newDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose environment setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := container.DoctorService.Run(cmd.Context())
			displayDoctorReport(cmd.OutOrStdout(), report)
			if err != nil {
				return fmt.Errorf("diagnostics completed with errors: %w", err)
			}
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "gcaltool", Version)
		},
	}
}

func displayDoctorReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		fmt.Fprintf(out, "[%s] %s - %s\n",
			strings.ToUpper(string(check.Status)),
			check.Name,
			check.Details)
	}
}
