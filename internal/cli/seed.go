package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"dinnerbell/internal/config"
	"dinnerbell/internal/ports/input"
)

// SeedFile is the YAML layout accepted by the seed command.
type SeedFile struct {
	HostUserID string           `yaml:"host_user_id"`
	Event      input.EventDraft `yaml:"event"`
}

// LoadSeedFile reads and checks a seed file.
func LoadSeedFile(path string) (*SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed SeedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	if seed.HostUserID == "" {
		return nil, fmt.Errorf("seed file %s: host_user_id is required", path)
	}
	return &seed, nil
}

type SeedOptions struct {
	QROut string
}

// NewSeedCommand creates the seed command.
func NewSeedCommand() *cobra.Command {
	opts := &SeedOptions{}

	cmd := &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Create an event from a YAML file",
		Long: `Create an event, with its menu, bring list and schedule, from a YAML
file and print its invite link.

Example:
  dinnerbell seed ./testdata/harvest.yaml --qr invite.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := LoadSeedFile(args[0])
			if err != nil {
				return err
			}
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

			view, err := a.events.Create(cmd.Context(), seed.HostUserID, seed.Event)
			if err != nil {
				return fmt.Errorf("create event: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "event %s created\n", view.Event.ID)
			fmt.Fprintf(out, "invite link: %s\n", a.invites.Link(&view.Event))

			if opts.QROut != "" {
				png, err := a.invites.QRCode(cmd.Context(), seed.HostUserID, view.Event.ID, 512)
				if err != nil {
					return err
				}
				if err := os.WriteFile(opts.QROut, png, 0o644); err != nil {
					return fmt.Errorf("write qr code: %w", err)
				}
				fmt.Fprintf(out, "qr code written to %s\n", opts.QROut)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.QROut, "qr", "", "write the invite QR code PNG to this path")

	return cmd
}
