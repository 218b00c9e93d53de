/**
 * @description
 * Main entry point for the Auction Backend API.
 * Initializes the Fiber web server, loads configuration, and sets up routes.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2: Web framework
 * - github.com/storefront-auctions/backend/internal/config: Config loader
 * - github.com/storefront-auctions/backend/internal/db: Database connections
 *
 * @notes
 * - Connects to Postgres, Redis and (optionally) NATS on startup.
 * - Sets up basic middleware (CORS, Logger, Recover).
 */

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/storefront-auctions/backend/internal/api"
	"github.com/storefront-auctions/backend/internal/config"
	"github.com/storefront-auctions/backend/internal/db"
	"github.com/storefront-auctions/backend/internal/logger"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	// 2. Initialize Connections
	pgDB, err := db.ConnectPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Postgres: %v", err)
	}

	redisClient, err := db.ConnectRedis(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := db.ConnectNATS(cfg)
	if err != nil {
		// Bid events still reach Redis; NATS consumers just miss them
		logger.Error("NATS unavailable, continuing without it: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Drain()
	}

	// 3. Services
	svc := api.NewServices(pgDB, redisClient, natsConn, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if svc.Hub != nil {
		go svc.Hub.Run(ctx)
	}

	// 4. Initialize Fiber App
	app := fiber.New(fiber.Config{
		AppName:       "Storefront Auctions",
		StrictRouting: true,
		CaseSensitive: true,
	})

	app.Use(recover.New())
	app.Use(fiberLogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, X-Job-Secret",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	// 5. Routes
	api.SetupRoutes(app, svc, cfg)

	// 6. Start Server
	go func() {
		logger.Info("🚀 Starting Auction Backend on port %s", cfg.Server.Port)
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// 7. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down API...")
	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("Error during shutdown: %v", err)
	}
	logger.Info("API exited.")
}
