package weather

import (
	"context"
)

// Provider abstracts a weather data source (e.g. OpenWeatherMap, WeatherAPI).
type Provider interface {
	Name() string

	// Configured reports whether the provider has the credential it needs.
	// An unconfigured provider is a valid "feature disabled" state.
	Configured() bool

	// Locate resolves a free-form place name to coordinates.
	Locate(ctx context.Context, city string) (Coordinates, error)

	// FetchForecast returns forecast buckets ordered by Timestamp ascending.
	FetchForecast(ctx context.Context, coords Coordinates) ([]ProviderReading, error)

	// IconURL expands a provider icon code into an image URL.
	IconURL(icon string) string
}
