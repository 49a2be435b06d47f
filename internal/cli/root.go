// Package cli holds the dinnerbell commands.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the dinnerbell binary.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dinnerbell",
		Short: "Dinner Bell backend",
		Long: `Dinner Bell backend: events, invites, RSVPs, bring lists and
dinner bells for hosts and their guests.

Configuration comes from the environment (and an optional .env file).`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewSweepCommand())
	cmd.AddCommand(NewSeedCommand())
	cmd.AddCommand(NewTokenCommand())

	return cmd
}
