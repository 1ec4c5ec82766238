package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbeaudouin05/stripe-subscriptions/api/bootstrap"
	"github.com/tbeaudouin05/stripe-subscriptions/api/config"
	"github.com/tbeaudouin05/stripe-subscriptions/api/logging"
	"github.com/tbeaudouin05/stripe-subscriptions/api/router"
	"github.com/tbeaudouin05/stripe-subscriptions/api/services/stripe/app"
)

// Version is set at build time with -ldflags.
var Version = "dev"

const shutdownTimeout = 10 * time.Second

// newService builds the service used by one-shot commands. Tests replace it.
var newService = func() (app.SubscriptionService, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	return bootstrap.NewService(cfg)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "subscriptions",
		Short:         "Manage Stripe subscriptions",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCmd(),
		newCreateCmd(),
		newGetCmd(),
		newUpdateCmd(),
		newCancelCmd(),
		newListCmd(),
		newValidateCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the subscription HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := bootstrap.Ensure(); err != nil {
				return err
			}
			cfg := bootstrap.Config()
			srv := &http.Server{
				Addr:              ":" + cfg.HTTPPort,
				Handler:           router.NewRouter(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", srv.Addr).Str("version", Version).Msg("starting subscription server")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down subscription server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
