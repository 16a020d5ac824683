package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/trigate/trigate/internal/auth"
	"github.com/trigate/trigate/internal/biometric"
	"github.com/trigate/trigate/internal/config"
	"github.com/trigate/trigate/internal/delivery"
	"github.com/trigate/trigate/internal/directory"
	"github.com/trigate/trigate/internal/metrics"
	"github.com/trigate/trigate/internal/middleware"
)

// Deps aggregates shared dependencies required to wire routes. Directory,
// Extractor, Sender and Metrics override the configured implementations.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger

	Directory directory.Repository
	Extractor biometric.Extractor
	Sender    delivery.Sender
	Metrics   *metrics.Recorder
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) (*Services, error) {
	if !d.Cfg.IsDev() && d.DB == nil {
		return nil, fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	svc, err := NewServices(d)
	if err != nil {
		return nil, err
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger, svc.Metrics))

	RegisterHealthRoutes(app, d)
	app.Get("/metrics", adaptor.HTTPHandler(svc.Metrics.Handler()))

	api := app.Group("/api/v1")
	handler := auth.NewHandler(svc.Auth)
	var idempotent fiber.Handler
	if d.Cache != nil {
		idempotent = middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	}
	RegisterAuthRoutes(api, handler, idempotent, svc.Auth.EmailBootstrapEnabled())

	protected := api.Group("", middleware.AccessAuth(svc.Tokens))
	protected.Get("/me", handler.Me)

	return svc, nil
}
