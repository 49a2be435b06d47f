package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"dinnerbell/internal/config"
)

// NewSweepCommand creates the sweep command, which delivers due
// notifications once and exits. Useful from cron when serve runs with
// --no-sweep.
func NewSweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Deliver due notifications once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := newLogger(cfg, nil)

			a, err := newApp(cmd.Context(), cfg, log)
			if err != nil {
				return fmt.Errorf("wire services: %w", err)
			}
			defer a.Close()

			report, err := a.sweep.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "due=%d consumed=%d skipped=%d delivered=%d\n",
				report.Due, report.Consumed, report.Skipped, report.Delivered)
			return nil
		},
	}
}
