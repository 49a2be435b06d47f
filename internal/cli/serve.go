package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"dinnerbell/internal/adapters/rest"
	"dinnerbell/internal/config"
	"dinnerbell/internal/infrastructure/database"
)

type ServeOptions struct {
	Migrate bool
	NoSweep bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the notification sweeper",
		Long: `Run the HTTP API and, unless --no-sweep is set, the sweeper that
delivers due reminder notifications every SWEEP_INTERVAL.

Example:
  dinnerbell serve --migrate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Migrate, "migrate", false, "apply pending postgres migrations before serving")
	cmd.Flags().BoolVar(&opts.NoSweep, "no-sweep", false, "do not run the notification sweeper in this process")

	return cmd
}

func runServe(parent context.Context, opts *ServeOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := newLogger(cfg, nil)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.Migrate && !cfg.IsSQLite() {
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			return err
		}
	}

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("wire services: %w", err)
	}
	defer a.Close()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := rest.NewRouter(a.services(), rest.Options{
		JWTSecret: []byte(cfg.JWTSecret),
		DevLogin:  devLogin(cfg),
		Log:       log,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return rest.Serve(gctx, cfg.HTTPAddr, router, log)
	})
	if !opts.NoSweep {
		g.Go(func() error {
			log.Info().Dur("interval", cfg.SweepInterval).Msg("sweeper started")
			a.sweep.Loop(gctx, cfg.SweepInterval)
			return nil
		})
	}

	err = g.Wait()
	log.Info().Msg("shutting down")
	return err
}

func (a *app) services() rest.Services {
	return rest.Services{
		Events:     a.events,
		Invites:    a.invites,
		RSVP:       a.rsvp,
		Claims:     a.claims,
		Bell:       a.bell,
		Delivery:   a.delivery,
		Groups:     a.groups,
		Profiles:   a.profiles,
		Feed:       a.hub,
		Analytics:  a.analytics,
		Translator: a.translator,
	}
}

func devLogin(cfg *config.Config) *rest.DevLogin {
	if !cfg.DevLoginEnabled() {
		return nil
	}
	return &rest.DevLogin{UserID: cfg.DevUserID, Email: cfg.DevEmail, Password: cfg.DevPassword}
}
