package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Weather providers selectable with WEATHER_PROVIDER.
const (
	ProviderOpenWeather = "openweather"
	ProviderWeatherAPI  = "weatherapi"
)

// Storage drivers selectable with STORAGE_DRIVER.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

type AppConfig struct {
	Port string

	// HTTPTimeout bounds every outbound provider request.
	HTTPTimeout time.Duration

	WeatherProvider   string
	OpenWeatherAPIKey string
	WeatherAPIKey     string
	WeatherBaseURL    string // empty = provider default

	// WeatherLocation is the zone in which a reminder date's noon is computed.
	WeatherLocation *time.Location

	StorageDriver string
	StoragePath   string

	// BackfillInterval controls how often reminders without a forecast are retried (0 = never).
	BackfillInterval time.Duration

	ShutdownTimeout time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.WeatherProvider = strings.ToLower(getenvDefault("WEATHER_PROVIDER", ProviderOpenWeather))
	switch cfg.WeatherProvider {
	case ProviderOpenWeather, ProviderWeatherAPI:
	default:
		return nil, fmt.Errorf("invalid WEATHER_PROVIDER %q", cfg.WeatherProvider)
	}
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.WeatherBaseURL = os.Getenv("WEATHER_BASE_URL")

	cfg.WeatherLocation = time.Local
	if tz := os.Getenv("WEATHER_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid WEATHER_TIMEZONE: %w", err)
		}
		cfg.WeatherLocation = loc
	}

	cfg.StorageDriver = strings.ToLower(getenvDefault("STORAGE_DRIVER", StorageSQLite))
	switch cfg.StorageDriver {
	case StorageSQLite, StorageMemory:
	default:
		return nil, fmt.Errorf("invalid STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	cfg.StoragePath = getenvDefault("STORAGE_PATH", "calendar.db")

	backfill, err := time.ParseDuration(getenvDefault("WEATHER_BACKFILL_INTERVAL", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHER_BACKFILL_INTERVAL: %w", err)
	}
	cfg.BackfillInterval = backfill

	cfg.ShutdownTimeout = time.Duration(getenvInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second

	return cfg, nil
}

// WeatherAPIKeyFor returns the credential of the selected provider.
func (c *AppConfig) WeatherAPIKeyFor() string {
	if c.WeatherProvider == ProviderWeatherAPI {
		return c.WeatherAPIKey
	}
	return c.OpenWeatherAPIKey
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
