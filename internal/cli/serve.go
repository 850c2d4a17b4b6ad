package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/harbor/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout gives outstanding requests a deadline for completion.
const shutdownTimeout = 5 * time.Second

// Serve runs the HTTP API and the metrics endpoint until ctx is cancelled.
// The collection is saved to the app snapshot on the way out.
func (a *App) Serve(ctx context.Context) error {
	apiLn, err := net.Listen("tcp", a.Config.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.Config.HTTP.Addr, err)
	}
	metricsLn, err := net.Listen("tcp", a.Config.HTTP.MetricsAddr)
	if err != nil {
		apiLn.Close()
		return fmt.Errorf("listen %s: %w", a.Config.HTTP.MetricsAddr, err)
	}
	return a.serve(ctx, apiLn, metricsLn)
}

func (a *App) serve(ctx context.Context, apiLn, metricsLn net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))

	servers := []*http.Server{
		{Handler: httpAdapter.NewHandler(a.Manager, a.Logger)},
		{Handler: mux},
	}
	listeners := []net.Listener{apiLn, metricsLn}

	g, gctx := errgroup.WithContext(ctx)
	for i, srv := range servers {
		ln := listeners[i]
		g.Go(func() error {
			a.Logger.Info("Listening", "addr", ln.Addr().String())
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err, srv.Close())
			}
		}
		if err := a.Manager.Save(shutdownCtx, a.Snapshot); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
