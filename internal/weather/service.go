package weather

import (
	"context"
	"log"
	"time"
)

// IconURL returns the OpenWeatherMap image URL for an icon code.
func IconURL(icon string) string {
	return "https://openweathermap.org/img/wn/" + icon + "@2x.png"
}

// Service resolves a (city, date) pair to a single forecast bucket.
type Service struct {
	provider Provider
	location *time.Location
}

// NewService creates a new Service. A nil provider disables lookups;
// a nil location means the host's local time zone.
func NewService(provider Provider, location *time.Location) *Service {
	if location == nil {
		location = time.Local
	}
	return &Service{
		provider: provider,
		location: location,
	}
}

// Enabled reports whether lookups can reach a provider at all.
func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil && s.provider.Configured()
}

// Lookup returns the forecast bucket closest to noon of date for city.
// It never fails: every problem is logged and reported as absent.
func (s *Service) Lookup(ctx context.Context, city, date string) (Forecast, bool) {
	if !s.Enabled() {
		log.Printf("INFO: weather provider not configured; skipping lookup for %q", city)
		return Forecast{}, false
	}

	target, err := TargetInstant(date, s.location)
	if err != nil {
		log.Printf("ERROR: weather lookup for %q: %v", city, err)
		return Forecast{}, false
	}

	coords, err := s.provider.Locate(ctx, city)
	if err != nil {
		log.Printf("ERROR: provider %s could not locate %q: %v", s.provider.Name(), city, err)
		return Forecast{}, false
	}

	readings, err := s.provider.FetchForecast(ctx, coords)
	if err != nil {
		log.Printf("ERROR: provider %s forecast failed for %q: %v", s.provider.Name(), city, err)
		return Forecast{}, false
	}

	closest, ok := Closest(readings, target)
	if !ok {
		log.Printf("ERROR: provider %s returned no forecast buckets for %q", s.provider.Name(), city)
		return Forecast{}, false
	}

	log.Printf("DEBUG: weather for %q on %s resolved to bucket %s", city, date, closest.Timestamp.Format(time.RFC3339))
	return ToForecast(closest), true
}

// IconURL expands an icon code using the active provider's template.
func (s *Service) IconURL(icon string) string {
	if s == nil || s.provider == nil {
		return IconURL(icon)
	}
	return s.provider.IconURL(icon)
}
