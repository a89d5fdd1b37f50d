package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iw2rmb/navedit/internal/admin"
	"github.com/iw2rmb/navedit/internal/config"
	"github.com/iw2rmb/navedit/internal/logging"
	"github.com/iw2rmb/navedit/internal/store"
)

func newServeCommand(opts *globalOptions) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the admin HTTP service",
		Long: `Serve the admin API and websocket editor behind GitHub sign-in.

Every /admin path requires a session. Unauthenticated requests are redirected
to /auth/signin with the original URL as callbackUrl.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, args, func(c *config.Config) {
				if listen != "" {
					c.Admin.Listen = listen
				}
			})
			if err != nil {
				return err
			}
			if err := cfg.ValidateAdmin(); err != nil {
				return err
			}

			logger := logging.New(cfg.LogLevel)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = logging.WithLogger(ctx, logger)

			srv := admin.New(admin.Options{
				Config: cfg.Admin,
				Store:  store.New(cfg.Document, store.Options{ExportDir: cfg.ExportDir, Compact: cfg.ExportCompact}),
				Logger: logger,
			})
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides admin.listen)")

	return cmd
}
