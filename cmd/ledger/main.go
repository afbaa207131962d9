package main

import (
	"context"
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shelfwise/lending/cmd/ledger/container"
	"github.com/shelfwise/lending/cmd/ledger/routes"
	"github.com/shelfwise/lending/common/bootstrap"
	"github.com/shelfwise/lending/common/db"
	"github.com/shelfwise/lending/common/repository"
	"github.com/shelfwise/lending/common/server"
	"github.com/shelfwise/lending/common/telemetry"
)

func main() {
	ctx := context.Background()

	// Bootstrap common components (config, logger, db, cache)
	components, err := bootstrap.Setup(ctx, "ledger",
		bootstrap.WithoutCache(),
		bootstrap.WithDBInitHook(func(database *db.DB) error {
			return repository.InitSchema(ctx, database)
		}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap ledger: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	// Initialize service container (store + ledger service created once)
	serviceContainer, err := container.NewContainer(components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize service container: %v\n", err)
		os.Exit(1)
	}

	e := setupEcho()
	setupMiddleware(e)
	setupHealthCheck(e, serviceContainer)
	registerRoutes(e, serviceContainer)

	if components.Config.Telemetry.PprofEnabled {
		telemetry.New(components.Config.Telemetry.PprofPort, components.Logger).Start()
	}

	startServer(e, components)
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
}

// setupHealthCheck registers the health check endpoint
func setupHealthCheck(e *echo.Echo, c *container.Container) {
	e.GET("/health", func(ec echo.Context) error {
		if err := c.Components.Health(ec.Request().Context()); err != nil {
			return ec.JSON(503, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
		}
		return ec.JSON(200, map[string]string{
			"status":  "ok",
			"service": "ledger",
		})
	})
}

// registerRoutes registers all application routes using the service container
func registerRoutes(e *echo.Echo, serviceContainer *container.Container) {
	routes.RegisterBookRoutes(e, serviceContainer)
	routes.RegisterMemberRoutes(e, serviceContainer)
}

// startServer runs the Echo handler behind the graceful-shutdown server
func startServer(e *echo.Echo, components *bootstrap.Components) {
	srv := server.New(
		components.Config.Service.Name,
		components.Config.Service.Port,
		e,
		components.Logger,
	)

	if err := srv.Start(); err != nil {
		components.Logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
