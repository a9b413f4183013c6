package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/hashicorp/go-hclog"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"studentapi/docs"
	"studentapi/internal/config"
	"studentapi/internal/database"
	handlers "studentapi/internal/http/handler"
	"studentapi/internal/http/middleware"
	"studentapi/internal/otel"
	"studentapi/internal/repository/mongodb"
	"studentapi/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Student Info API
// @version 1.0
// @description CRUD API over the students collection.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg, err := config.Load()
	if err != nil {
		hclog.Default().Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:       "studentapi",
		Level:      hclog.LevelFromString(cfg.LogLevel),
		JSONFormat: true,
		Output:     os.Stdout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	// One client for the whole process, handed to everything that needs it
	client, err := database.NewMongo(ctx, cfg.Mongo)
	if err != nil {
		logger.Error("failed to connect to database", "host", cfg.Mongo.Host, "port", cfg.Mongo.Port, "error", err)
		os.Exit(1)
	}

	studentRepo := mongodb.NewStudentMongo(database.Collection(client, cfg.Mongo))
	studentSvc := service.NewStudentService(studentRepo)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	// RequestID first so every later middleware and handler can read it
	app.Use(middleware.RequestID())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/swagger")
	})))
	app.Use(promMiddleware.Handler())
	app.Use(middleware.Logger(logger.Named("http")))

	app.Get("/metrics", middleware.MetricsHandler(reg))
	handlers.RegisterRoutes(app, client, studentSvc, logger.Named("handler"))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "env", cfg.Env)
		serverErr <- app.Listen(cfg.Addr)
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serverErr:
		if err != nil {
			logger.Error("failed to start server", "error", err)
			exitCode = 1
		}
	}

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("http shutdown", "error", err)
	}

	cleanupCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := client.Disconnect(cleanupCtx); err != nil {
		logger.Error("mongo disconnect", "error", err)
	}
	if err := shutdownTracing(cleanupCtx); err != nil {
		logger.Error("tracer shutdown", "error", err)
	}

	if exitCode != 0 {
		cancel()
		stop()
		os.Exit(exitCode)
	}
}
