// Package app assembles the HTTP surfaces, the storage backend and the
// periodic trigger into a runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/monesting/notification-store/internal/interfaces/controllers"
	"github.com/monesting/notification-store/pkg/auth"
	"github.com/monesting/notification-store/pkg/config"
	"github.com/monesting/notification-store/pkg/schedule"
	"github.com/monesting/notification-store/pkg/storage"
)

// Server represents the HTTP server
type Server struct {
	config *config.Config
	echo   *echo.Echo
	admin  *echo.Echo
	kv     storage.KV
	runner *schedule.Runner
	router *Router
	logger *zap.Logger
}

// NewServer builds the storage backend named by cfg and the server on top of it
func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	kv, err := storage.NewStorage(ctx, &cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("storage initialized", zap.String("type", storageType(cfg)))

	s, err := NewServerWithStorage(cfg, kv, logger)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	return s, nil
}

// NewServerWithStorage builds the server around an existing backend. The
// server takes ownership of kv and closes it on Shutdown.
func NewServerWithStorage(cfg *config.Config, kv storage.KV, logger *zap.Logger) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetOutput(io.Discard)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(logger.Named("http")))
	e.Use(requestMetrics())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))
	e.Use(auth.BearerAuth(cfg.Auth.Secret, logger.Named("auth")))
	if cfg.Server.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	}

	s := &Server{
		config: cfg,
		echo:   e,
		kv:     kv,
		logger: logger,
	}

	s.router = NewRouter(e, storage.NewStore(kv), logger)
	s.router.RegisterRoutes()

	if cfg.Admin.Address != "" {
		s.admin = newAdminEcho(storageType(cfg))
	}

	if cfg.Trigger.Enabled {
		trigger, err := NewTrigger(cfg, logger)
		if err != nil {
			return nil, err
		}
		runner, err := schedule.NewRunner(cfg.Trigger.Schedule, cfg.Trigger.Timezone, trigger, logger.Named("trigger"))
		if err != nil {
			return nil, err
		}
		s.runner = runner
	}

	return s, nil
}

// NewTrigger builds the dispatch trigger described by cfg
func NewTrigger(cfg *config.Config, logger *zap.Logger) (*schedule.Trigger, error) {
	return schedule.NewTrigger(schedule.TriggerOptions{
		BaseURL:      cfg.Dispatch.URL,
		Secret:       cfg.Auth.Secret,
		Timeout:      cfg.Trigger.Timeout,
		Retries:      cfg.Trigger.Retries,
		RetryBackoff: cfg.Trigger.RetryBackoff,
	}, logger.Named("trigger"))
}

func newAdminEcho(storageType string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetOutput(io.Discard)
	e.Use(middleware.Recover())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	controllers.NewHealthController(storageType).RegisterRoutes(e)
	return e
}

func storageType(cfg *config.Config) string {
	if cfg.Storage.Type == "" {
		return storage.TypeMemory
	}
	return cfg.Storage.Type
}

// Handler returns the public HTTP handler
func (s *Server) Handler() http.Handler {
	return s.echo
}

// AdminHandler returns the admin HTTP handler, or nil when the admin
// listener is disabled
func (s *Server) AdminHandler() http.Handler {
	if s.admin == nil {
		return nil
	}
	return s.admin
}

// Run starts the listeners and the trigger runner and blocks until ctx is
// done or a listener fails, then shuts everything down.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		s.logger.Info("public listener starting", zap.String("address", s.config.Server.Address))
		if err := s.echo.Start(s.config.Server.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("public listener: %w", err)
		}
	}()

	if s.admin != nil {
		go func() {
			s.logger.Info("admin listener starting", zap.String("address", s.config.Admin.Address))
			if err := s.admin.Start(s.config.Admin.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("admin listener: %w", err)
			}
		}()
	}

	if s.runner != nil {
		s.runner.Start(ctx)
	} else {
		s.logger.Info("periodic trigger disabled")
	}

	var runErr error
	select {
	case <-ctx.Done():
		s.logger.Info("shutting down")
	case runErr = <-errCh:
		s.logger.Error("listener failed", zap.Error(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.Server.ShutdownTimeout)
	defer cancel()

	return errors.Join(runErr, s.Shutdown(shutdownCtx))
}

// Shutdown stops the trigger runner, drains both listeners and closes the
// storage backend.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if s.runner != nil {
		if err := s.runner.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.echo.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("public listener shutdown: %w", err))
	}
	if s.admin != nil {
		if err := s.admin.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("admin listener shutdown: %w", err))
		}
	}
	if err := s.kv.Close(); err != nil {
		errs = append(errs, fmt.Errorf("storage close: %w", err))
	}

	return errors.Join(errs...)
}
