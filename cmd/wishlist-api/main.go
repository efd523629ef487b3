package main

import (
	"context"
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/wishstock/wishlist/cmd/wishlist-api/container"
	"github.com/wishstock/wishlist/cmd/wishlist-api/routes"
	"github.com/wishstock/wishlist/common/bootstrap"
	"github.com/wishstock/wishlist/common/config"
	"github.com/wishstock/wishlist/common/db"
	"github.com/wishstock/wishlist/common/logger"
	"github.com/wishstock/wishlist/common/server"
)

const serviceName = "wishlist-api"

func main() {
	ctx := context.Background()

	cfg, err := config.Load(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	opts := []bootstrap.Option{bootstrap.WithCustomConfig(cfg)}
	if cfg.Database.Migrate {
		opts = append(opts, bootstrap.WithDBInitHook(func(d *db.DB) error {
			return db.Migrate(ctx, d)
		}))
	}

	// Bootstrap common components (config, logger, DB, Redis, cache)
	components, err := bootstrap.Setup(ctx, serviceName, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap %s: %v\n", serviceName, err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	// Initialize service container (singleton pattern - all services created once)
	serviceContainer, err := container.NewContainer(components)
	if err != nil {
		components.Logger.Error("failed to initialize service container", "error", err)
		os.Exit(1)
	}

	e := setupEcho()
	setupMiddleware(e, components.Logger)
	routes.RegisterRoutes(e, serviceContainer)

	srv := server.New(serviceName, cfg.Service.Port, e, components.Logger)
	if err := srv.Start(); err != nil {
		components.Logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo, log *logger.Logger) {
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		RequestIDHandler: func(c echo.Context, id string) {
			ctx := context.WithValue(c.Request().Context(), logger.RequestIDKey, id)
			c.SetRequest(c.Request().WithContext(ctx))
		},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l := log.WithContext(c.Request().Context())
			if v.Error != nil {
				l.Warn("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "error", v.Error)
				return nil
			}
			l.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
}
