package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/DorisUkamaka/StacksGuard/app"
)

const (
	flagListen          = "listen"
	flagShutdownTimeout = "shutdown-timeout"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [scenario.json]",
		Short: "Serve health, metrics and quotes for a chain, optionally seeded by a scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := newHost(v, cmd)
			if err != nil {
				return err
			}
			defer host.Close()

			if id, _ := cmd.Flags().GetString(flagScenario); id != "" || len(args) > 0 {
				scenario, err := resolveScenario(cmd, args)
				if err != nil {
					return err
				}
				if _, err := app.RunScenario(host, scenario); err != nil {
					return err
				}
			}

			listen, _ := cmd.Flags().GetString(flagListen)
			timeout, _ := cmd.Flags().GetDuration(flagShutdownTimeout)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			lis, err := net.Listen("tcp", listen)
			if err != nil {
				return fmt.Errorf("listen %s: %w", listen, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "serving on %s\n", lis.Addr())
			return serveHost(ctx, host, lis, timeout)
		},
	}
	cmd.Flags().String(flagListen, "127.0.0.1:26660", "address for the HTTP endpoints")
	cmd.Flags().Duration(flagShutdownTimeout, 5*time.Second, "grace period for in-flight requests on shutdown")
	cmd.Flags().String(flagScenario, "", "seed the chain with a builtin scenario")
	return cmd
}

// newRouter routes the host's operational and read endpoints.
func newRouter(host *app.Host) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/health", host.HealthHandler())
	r.Handle("/metrics", host.MetricsHandler())
	r.Get("/pools/{poolID}/quote", host.QuoteHandler())
	return r
}

// serveHost runs the HTTP server until ctx is cancelled, then drains it.
func serveHost(ctx context.Context, host *app.Host, lis net.Listener, timeout time.Duration) error {
	srv := &http.Server{
		Handler:           newRouter(host),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
