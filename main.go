package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinica-backend/config"
	"clinica-backend/database"
	"clinica-backend/middlewares"
	"clinica-backend/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.Load()
	log := config.GetLogger()

	// ---- Database
	db, err := database.Connect()
	if err != nil {
		log.WithError(err).Fatal("could not connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("could not run migrations")
	}

	// ---- Limits (configurable via env)
	// Fiber default BodyLimit is 4 MiB if unset; override with BODY_LIMIT_MB.
	bodyLimitBytes := config.EnvInt("BODY_LIMIT_BYTES", 0)
	if bodyLimitBytes <= 0 {
		bodyLimitBytes = config.EnvInt("BODY_LIMIT_MB", 4) * 1024 * 1024
	}

	// ---- Fiber app with global error handler + body limit
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler,
		BodyLimit:    bodyLimitBytes,
	})

	// ---- Request logging
	app.Use(logger.New())

	// ---- CORS
	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.Env("ALLOWED_ORIGINS", "*"),
		AllowCredentials: false, // using Bearer tokens, not cookies
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
	}))

	// ---- Global rate limiter (tune via env)
	app.Use(limiter.New(limiter.Config{
		Max:        config.EnvInt("RATE_LIMIT_MAX", 60),
		Expiration: time.Duration(config.EnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
	}))

	// ---- Routes
	routes.Register(app, db)

	// ---- Graceful shutdown: close the pool after the listener stops.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		_ = app.Shutdown()
	}()

	port := config.Env("PORT", "8080")
	log.WithField("port", port).Info("API server starting")
	if err := app.Listen(":" + port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}

	if err := database.Close(db); err != nil {
		log.WithError(err).Error("closing database")
	}
}
