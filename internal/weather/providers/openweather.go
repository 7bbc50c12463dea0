package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/weather-reminders/internal/weather"
	"github.com/sony/gobreaker"
)

// DefaultOpenWeatherBaseURL is the OpenWeatherMap 2.5 API root.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
// Coordinates come from the "current weather" endpoint and forecasts from the
// 5 day / 3 hour endpoint.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) Configured() bool {
	return p.apiKey != ""
}

func (p *OpenWeatherProvider) IconURL(icon string) string {
	return weather.IconURL(icon)
}

func (p *OpenWeatherProvider) Locate(ctx context.Context, city string) (weather.Coordinates, error) {
	if !p.Configured() {
		return weather.Coordinates{}, fmt.Errorf("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", p.apiKey)

	var payload struct {
		Coord *struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.baseURL+"/weather", values, &payload); err != nil {
		return weather.Coordinates{}, err
	}
	if payload.Coord == nil {
		return weather.Coordinates{}, fmt.Errorf("%w: missing coord for %q", ErrMalformedPayload, city)
	}

	return weather.Coordinates{Lat: payload.Coord.Lat, Lon: payload.Coord.Lon}, nil
}

func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, coords weather.Coordinates) ([]weather.ProviderReading, error) {
	if !p.Configured() {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")

	var payload struct {
		List []struct {
			Dt      int64 `json:"dt"`
			Weather []struct {
				Main string `json:"main"`
				Icon string `json:"icon"`
			} `json:"weather"`
			Main struct {
				Temp     float64 `json:"temp"`
				Humidity float64 `json:"humidity"`
			} `json:"main"`
		} `json:"list"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.baseURL+"/forecast", values, &payload); err != nil {
		return nil, err
	}

	readings := make([]weather.ProviderReading, 0, len(payload.List))
	for i, item := range payload.List {
		if len(item.Weather) == 0 {
			return nil, fmt.Errorf("%w: forecast bucket %d has no weather condition", ErrMalformedPayload, i)
		}
		readings = append(readings, weather.ProviderReading{
			Timestamp:    time.Unix(item.Dt, 0).UTC(),
			Condition:    item.Weather[0].Main,
			Icon:         item.Weather[0].Icon,
			TemperatureC: item.Main.Temp,
			HumidityPct:  item.Main.Humidity,
		})
	}

	return readings, nil
}
