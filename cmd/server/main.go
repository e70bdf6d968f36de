// main.go
//
// Schema relationship orchestration for the mn-school-db administration backend
// Copyright (c) 2026 lgadza (https://github.com/lgadza), mn-school-db contributors
//
// This file is part of mn-school-db.
// mn-school-db is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// mn-school-db is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with mn-school-db.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 lgadza (https://github.com/lgadza), mn-school-db contributors"
//    in this material, copies, or source code of derived works.

package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"

	"github.com/lgadza/mn-school-db-v2-sub003/internal/bootstrap"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/config"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/database"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/handlers"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/logging"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/middleware"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/services"

	_ "github.com/lgadza/mn-school-db-v2-sub003/docs/api" // Swagger docs
)

var log = logging.GetPackageLogger("server")

// @title School DB Schema API
// @version 1.0.0
// @description Schema relationship and synchronization status for the school administration backend

// @contact.name API Support
// @contact.url https://github.com/lgadza/mn-school-db

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

func main() {
	os.Exit(run())
}

func run() int {
	defer logging.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		return 1
	}
	logging.SetLevel(cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Errorf("Failed to connect to database: %v", err)
		return 1
	}
	defer database.Close(db)

	status := services.NewSchemaStatus()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: true,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("schooldb")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api", middleware.VersionMiddleware())

	health := &handlers.HealthHandler{Config: cfg, DB: db, Status: status}
	api.Get("/health", health.GetHealth)

	schemaHandler := &handlers.SchemaHandler{Status: status}
	schema := api.Group("/schema", middleware.SchemaReady(status))
	schema.Get("/relationships", schemaHandler.GetRelationships)
	schema.Get("/sync", schemaHandler.GetSync)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "[404] Resource Not Found")
	})

	ln, err := net.Listen(app.Config().Network, ":"+cfg.Port)
	if err != nil {
		log.Errorf("Failed to start server: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Schema bootstrap runs while the server answers health probes. A base table
	// failure stops the server.
	var failed atomic.Bool
	go func() {
		result, err := bootstrap.Run(ctx, db, bootstrap.Options{
			Sync:         database.SyncOptions{Force: cfg.SyncForce, Alter: cfg.SyncAlter},
			AdvisoryLock: cfg.SyncAdvisoryLock,
			Schema:       cfg.DBSchema,
		})
		status.Set(result, err)
		if err != nil {
			var syncErr *database.SyncError
			if errors.As(err, &syncErr) {
				log.Errorw("Schema synchronization failed", "entity", syncErr.Entity, "table", syncErr.Table, "code", syncErr.Code, "error", syncErr.Err)
			} else {
				log.Errorf("Schema bootstrap failed: %v", err)
			}
			failed.Store(true)
			stop()
			return
		}
		log.Infow("Schema ready", "state", status.State(), "relationships", result.Summary.Applied, "total", result.Summary.Total)
	}()

	log.Infof("Starting server on port %s", cfg.Port)
	if err := serve(ctx, app, ln); err != nil {
		log.Errorf("Server failed: %v", err)
		return 1
	}

	log.Info("Server stopped")
	if failed.Load() {
		return 1
	}
	return 0
}

// serve runs app on ln until ctx is done, then shuts it down gracefully. The
// listener is closed after shutdown so a request made before the server began
// accepting still stops it.
func serve(ctx context.Context, app *fiber.App, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		log.Info("Gracefully shutting down...")
		_ = app.ShutdownWithTimeout(10 * time.Second)
		_ = ln.Close()
	}()
	return app.Listener(ln)
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	// Check if it's a Fiber error
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
	})
}
