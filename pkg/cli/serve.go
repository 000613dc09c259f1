package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hermes/pkg/cli/config"
	httpctrl "github.com/secmon-lab/hermes/pkg/controller/http"
	"github.com/secmon-lab/hermes/pkg/domain/interfaces"
	"github.com/secmon-lab/hermes/pkg/domain/types"
	"github.com/secmon-lab/hermes/pkg/integration/slackchat"
	"github.com/secmon-lab/hermes/pkg/registry"
	"github.com/secmon-lab/hermes/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		addr            string
		debug           bool
		nangoCfg        config.Nango
		integrationsCfg config.Integrations
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Listen address of the HTTP server",
			Category:    "Server",
			Value:       "127.0.0.1:8080",
			Sources:     cli.EnvVars("HERMES_ADDR"),
			Destination: &addr,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "Attach error values and stack traces to error envelopes",
			Category:    "Server",
			Sources:     cli.EnvVars("HERMES_DEBUG"),
			Destination: &debug,
		},
	}
	flags = append(flags, nangoCfg.Flags()...)
	flags = append(flags, integrationsCfg.Flags()...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start the integration gateway HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()
			logger.Info("Starting server", "addr", addr, "nango", nangoCfg)

			client, err := nangoCfg.Configure()
			if err != nil {
				return err
			}

			settings, err := integrationsCfg.Configure()
			if err != nil {
				return err
			}

			enabled := true
			defaultChannel := nangoCfg.DefaultChannel
			if s, ok := config.Lookup(settings, types.IntegrationSlack); ok {
				if s.Enabled != nil {
					enabled = *s.Enabled
				}
				if s.DefaultChannel != "" {
					defaultChannel = s.DefaultChannel
				}
			}

			reg := registry.New()
			slackItg, err := slackchat.New(client,
				slackchat.WithEnabled(enabled),
				slackchat.WithDebug(debug),
			)
			if err != nil {
				return err
			}
			if err := reg.Register(slackItg); err != nil {
				return err
			}

			factory := func() (interfaces.ChatIntegration, error) {
				return slackchat.New(client,
					slackchat.WithEnabled(enabled),
					slackchat.WithDebug(debug),
				)
			}

			srv, err := httpctrl.New(reg,
				httpctrl.WithSlackFactory(factory),
				httpctrl.WithDefaultChannel(defaultChannel),
			)
			if err != nil {
				return err
			}

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           srv,
				ReadHeaderTimeout: 30 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to listen and serve")
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logger.Info("Shutting down server", "signal", sig.String())
			case <-ctx.Done():
				logger.Info("Shutting down server", "reason", "context canceled")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server")
			}

			logger.Info("Server stopped")
			return nil
		},
	}
}
