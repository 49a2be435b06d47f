package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dinnerbell/internal/adapters/rest"
	"dinnerbell/internal/config"
)

// NewTokenCommand creates the token command, which signs a session token
// for local testing against the API.
func NewTokenCommand() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a session token for a user id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.IsDevelopment() {
				return fmt.Errorf("token is only available with APP_ENV=development")
			}
			token, err := rest.IssueToken([]byte(cfg.JWTSecret), user, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "user id to put in the token subject (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
