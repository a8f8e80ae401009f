package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"linker/internal/config"
	"linker/internal/infra/eventbus"
	"linker/internal/shortener/events"
	"linker/internal/shortener/usecase"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// App is the assembled linker process.
type App struct {
	Service *usecase.LinkService

	cfg         *config.Config
	logger      *zap.Logger
	server      *http.Server
	eventBus    *eventbus.EventBus
	eventRouter *eventbus.Router
}

// New assembles the application and registers the link event handlers.
func New(
	cfg *config.Config,
	logger *zap.Logger,
	service *usecase.LinkService,
	handler http.Handler,
	eventBus *eventbus.EventBus,
	eventRouter *eventbus.Router,
	enricher *events.Enricher,
) *App {
	events.RegisterHandlers(eventRouter, logger, enricher)

	return &App{
		Service: service,
		cfg:     cfg,
		logger:  logger,
		server: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		eventBus:    eventBus,
		eventRouter: eventRouter,
	}
}

// Run starts the event router and the HTTP server, then blocks until ctx is
// cancelled or the server fails. In-flight requests and click updates are
// drained before it returns.
func (a *App) Run(ctx context.Context) error {
	routerErr := make(chan error, 1)
	go func() {
		routerErr <- a.eventRouter.Run(ctx)
	}()
	select {
	case <-a.eventRouter.Running():
	case err := <-routerErr:
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			zap.String("addr", a.server.Addr),
			zap.String("mode", string(a.cfg.Mode)),
			zap.String("driver", a.cfg.DatabaseDriver),
			zap.Int("rate_limit", a.cfg.RateLimit),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("server shutting down")
	case err := <-serverErr:
		runErr = err
	case err := <-routerErr:
		if err != nil {
			runErr = err
		}
	}

	a.shutdown()
	return runErr
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("server forced to shutdown", zap.Error(err))
	}

	// Click updates outlive their requests.
	a.Service.Wait()

	if err := a.eventRouter.Close(); err != nil {
		a.logger.Error("failed to close event router", zap.Error(err))
	}
	if err := a.eventBus.Close(); err != nil {
		a.logger.Error("failed to close event bus", zap.Error(err))
	}

	a.logger.Info("server stopped")
}
