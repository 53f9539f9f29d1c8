package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/messageboard/internal/app"
)

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the message board HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runServe(cmd.Context())
		},
	}
	addServeFlags(cmd, c)
	return cmd
}

func addServeFlags(cmd *cobra.Command, c *cli) {
	flags := cmd.Flags()
	flags.StringVar(&c.overrides.Host, "host", "", "listen host")
	flags.IntVar(&c.overrides.Port, "port", 0, "listen port (default 5000)")
	flags.StringVar(&c.overrides.Mode, "mode", "", "deployment mode: auto, listen or lambda")
	flags.StringVar(&c.overrides.Store.Driver, "store", "", "message store: memory or sqlite")
	flags.DurationVar(&c.overrides.ReadHeaderTimeout, "read-header-timeout", 0, "HTTP read header timeout")
	flags.DurationVar(&c.overrides.ShutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout")
}

func (c *cli) runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(&c.cfg, c.logger)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to initialize application")
		return err
	}

	c.logger.Info().
		Str("addr", c.cfg.Addr()).
		Str("mode", c.cfg.Mode).
		Msg("starting message board")
	if err := application.Run(ctx); err != nil {
		c.logger.Error().Err(err).Msg("server exited with error")
		return err
	}
	c.logger.Info().Msg("server stopped")
	return nil
}
