package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rahvusarhiiv/vaugate/config"
	"github.com/rahvusarhiiv/vaugate/internal/adapters/devvau"
	httpx "github.com/rahvusarhiiv/vaugate/internal/http"
	"github.com/rahvusarhiiv/vaugate/internal/service"
	"golang.org/x/sync/errgroup"
)

// HTTPServerDeps groups everything the HTTP layer needs.
type HTTPServerDeps struct {
	Config      *config.AppConfig
	Auth        *service.AuthService
	DevProvider *devvau.Provider
	Logger      *slog.Logger
}

const shutdownTimeout = 10 * time.Second

// BuildHTTPHandler assembles the router with the middleware chain.
// Order: Recover -> Logging -> Router.
func BuildHTTPHandler(deps *HTTPServerDeps) http.Handler {
	router := httpx.NewRouter(httpx.RouterServices{
		Auth:          deps.Auth,
		DevProvider:   deps.DevProvider,
		VAU:           deps.Config.VAU,
		HTTP:          deps.Config.HTTP,
		IsDev:         deps.Config.IsDev,
		EnableLogging: deps.Config.VAU.EnableLogging,
		Logger:        deps.Logger,
	})

	h := httpx.Logging(deps.Logger)(router)
	h = httpx.Recover(deps.Logger)(h)
	return h
}

// RunHTTPServer serves until the context is canceled or a signal arrives,
// then drains with a bounded shutdown.
func RunHTTPServer(ctx context.Context, deps *HTTPServerDeps) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              deps.Config.HTTP.Addr,
		Handler:           BuildHTTPHandler(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		deps.Logger.Info("shutting down HTTP server")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
