package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-settingspage/internal/auth"
	"github.com/goliatone/go-settingspage/internal/httpapi"
	xlog "github.com/goliatone/go-settingspage/internal/log"
	"github.com/goliatone/go-settingspage/internal/metrics"
	"github.com/goliatone/go-settingspage/pkg/renderers/vanilla"
)

func newServeCmd(a *app) *cobra.Command {
	var secureCookies bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the settings page and options API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			p, err := a.buildPage(ctx, st, auth.Authorizer{}, httpapi.VerifyToken)
			if err != nil {
				return err
			}

			dir := a.directory()
			if dir.Len() == 0 {
				a.logger.Warn().Msg("no auth tokens configured, every page request will be denied")
			}

			api := httpapi.New(p.Controller, dir,
				httpapi.WithLogger(xlog.WithComponent("http")),
				httpapi.WithMetrics(metrics.New()),
				httpapi.WithAssets(vanilla.AssetsFS()),
				httpapi.WithRateLimit(a.cfg.HTTP.RateLimit),
				httpapi.WithSecureCookies(secureCookies),
			)
			srv := &http.Server{
				Addr:              a.cfg.HTTP.Addr,
				Handler:           api.Handler(),
				ReadHeaderTimeout: a.cfg.HTTP.ReadTimeout,
				ReadTimeout:       a.cfg.HTTP.ReadTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info().Str("addr", srv.Addr).Str("store", a.cfg.Store.Driver).Msg("listening")
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

			a.logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().BoolVar(&secureCookies, "secure-cookies", false, "mark the CSRF cookie Secure (serve behind TLS)")
	return cmd
}
