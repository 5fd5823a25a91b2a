package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/okian/jobfeed/internal/adapters/crm"
	"github.com/okian/jobfeed/internal/adapters/http/api"
	"github.com/okian/jobfeed/internal/adapters/http/swagger"
	"github.com/okian/jobfeed/internal/adapters/imageproxy"
	service "github.com/okian/jobfeed/internal/app"
	"github.com/okian/jobfeed/internal/config"
	"github.com/okian/jobfeed/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't configured yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Apply configured log level (fallback to info on invalid input)
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	handler, cleanup, err := newHandler(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to build handler", logger.Error(err))
		os.Exit(1)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// newHandler wires the CRM client, the pipeline, the image proxy and every
// route. Missing CRM settings are logged, not fatal.
func newHandler(ctx context.Context, cfg *config.Config, log logger.Logger) (http.Handler, func(), error) {
	client := crm.NewClient(
		crm.WithBaseURL(cfg.APIBaseURL),
		crm.WithAPIVersion(cfg.APIVersion),
		crm.WithTimeout(cfg.RequestTimeout()),
	)
	cleanup := func() { _ = client.Close() }

	jobs, err := service.FromConfig(cfg, client, service.WithLogger(log.Named("service")))
	var cfgErr *service.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		log.Warn(ctx, "CRM is not configured; /api/jobs will report it", logger.Error(err))
	case err != nil:
		cleanup()
		return nil, nil, err
	}

	images := imageproxy.New(
		imageproxy.WithAllowedPrefix(cfg.ImageAllowedPrefix),
		imageproxy.WithMaxBytes(cfg.ImageMaxBytes),
		imageproxy.WithTimeout(cfg.RequestTimeout()),
	)

	apiServer, err := api.NewServer(jobs, images,
		api.WithJobsCacheControl(cfg.JobsCacheControl),
		api.WithAllowedOrigin(cfg.CORSAllowedOrigin),
		api.WithLogger(log.Named("api")),
	)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	router := mux.NewRouter()
	apiServer.Register(router)
	swagger.Register(ctx, router)
	return router, cleanup, nil
}
