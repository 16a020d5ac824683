package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/trigate/trigate/internal/config"
	"github.com/trigate/trigate/internal/middleware"
	"github.com/trigate/trigate/internal/routes"
)

// Server wraps the Fiber application and the services behind it.
type Server struct {
	app      *fiber.App
	cfg      config.Config
	services *routes.Services
	logger   *slog.Logger
}

// New instantiates the HTTP server and delegates route wiring to routes.Setup.
func New(cfg config.Config, db *pgxpool.Pool, cache *redis.Client, logger *slog.Logger) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		BodyLimit:             8 * 1024 * 1024,
		DisableStartupMessage: !cfg.IsDev(),
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	services, err := routes.Setup(app, routes.Deps{Cfg: cfg, DB: db, Cache: cache, Logger: logger})
	if err != nil {
		return nil, err
	}

	return &Server{app: app, cfg: cfg, services: services, logger: logger}, nil
}

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	s.logger.Info("listening", "addr", s.cfg.Address(), "env", s.cfg.AppEnv, "otp_store", s.cfg.OTPStore)
	return s.app.Listen(s.cfg.Address())
}

// RunJanitor purges expired OTP challenges until ctx is cancelled.
func (s *Server) RunJanitor(ctx context.Context) {
	s.services.Janitor.Run(ctx)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
