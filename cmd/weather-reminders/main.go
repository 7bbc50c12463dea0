package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	httpapi "github.com/i474232898/weather-reminders/internal/api/http"
	"github.com/i474232898/weather-reminders/internal/calendar"
	"github.com/i474232898/weather-reminders/internal/config"
	"github.com/i474232898/weather-reminders/internal/scheduler"
	"github.com/i474232898/weather-reminders/internal/store"
	"github.com/i474232898/weather-reminders/internal/weather"
	"github.com/i474232898/weather-reminders/internal/weather/providers"
)

func main() {
	// Load configuration (also picks up .env).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Weather lookup; without an API key it stays silently disabled.
	var provider weather.Provider
	switch cfg.WeatherProvider {
	case config.ProviderWeatherAPI:
		provider = providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKeyFor(), cfg.WeatherBaseURL)
	default:
		provider = providers.NewOpenWeatherProvider(httpClient, cfg.WeatherAPIKeyFor(), cfg.WeatherBaseURL)
	}
	weatherSvc := weather.NewService(provider, cfg.WeatherLocation)
	if !weatherSvc.Enabled() {
		log.Printf("INFO: no API key for %s; reminders will be saved without weather", provider.Name())
	}

	backend, err := openBackend(cfg)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer backend.Close()

	reminders := calendar.NewStore(store.NewPersistence(backend), weatherSvc)
	log.Printf("INFO: loaded %d reminders from %s storage", len(reminders.Reminders()), cfg.StorageDriver)

	// Scheduler that retries lookups for reminders still missing a forecast.
	sched := scheduler.New(cfg.BackfillInterval, reminders)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-reminders",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{Format: "${time} | ${locals:requestid} | ${status} | ${latency} | ${method} ${path}\n"}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-reminders",
			"weather": weatherSvc.Enabled(),
		})
	})

	httpapi.RegisterRoutes(app, reminders, weatherSvc)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()
	log.Printf("INFO: listening on :%s", cfg.Port)

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

type backendCloser interface {
	store.Backend
	io.Closer
}

func openBackend(cfg *config.AppConfig) (backendCloser, error) {
	if cfg.StorageDriver == config.StorageMemory {
		log.Println("INFO: using in-memory storage; reminders are lost on restart")
		return store.NewMemoryBackend(), nil
	}
	return store.OpenSQLite(cfg.StoragePath)
}
