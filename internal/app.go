package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"babylog/internal/providers"
	"babylog/internal/services"
	"babylog/internal/storage"
	"babylog/internal/structures"
)

type App struct {
	WebServer   *http.Server
	conf        *structures.Config
	logger      providers.Logger
	fileManager *storage.FileManager
}

func NewHandler(conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) http.Handler {
	mux := chi.NewRouter()
	mux.Use(providers.RequestLogger(logger))
	mux.Use(providers.MetricsMiddleware(metrics))
	mux.Use(providers.NewCorsMiddleware())

	if conf.Metrics.Enabled {
		mux.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}
	for _, route := range router.GetRoutes() {
		mux.Method(route.Method, route.Url, route.Handler)
	}
	// a known path with the wrong method answers like an unknown path
	if notFound := router.GetNotFound(); notFound != nil {
		mux.NotFound(notFound.ServeHTTP)
		mux.MethodNotAllowed(notFound.ServeHTTP)
	}
	return mux
}

// NewApp loads the store before anything listens, so an unreadable snapshot
// aborts startup instead of being overwritten.
func NewApp(conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface, service services.RecordServiceInterface, fileManager *storage.FileManager) (*App, error) {
	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)

	applied, err := service.Load()
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", fileManager.Path(), err)
	}
	if len(applied) > 0 {
		logger.Infof(providers.TypeApp, "Snapshot %s migrated: %v", fileManager.Path(), applied)
	}

	return &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      NewHandler(conf, logger, router, metrics),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		conf:        conf,
		logger:      logger,
		fileManager: fileManager,
	}, nil
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests.
// Every commit is already on disk, so there is nothing to flush.
func (app *App) Run() error {
	defer app.logger.Close()
	defer app.fileManager.Close()

	serverErr := make(chan error, 1)
	go func() {
		app.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", app.conf.WebServer.Host, app.conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		app.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.WebServer.Shutdown(ctx); err != nil {
		return err
	}
	app.logger.Infof(providers.TypeApp, "gracefully stopped")
	return nil
}
