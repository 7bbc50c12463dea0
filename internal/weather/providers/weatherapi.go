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

// DefaultWeatherAPIBaseURL is the WeatherAPI.com v1 API root.
const DefaultWeatherAPIBaseURL = "https://api.weatherapi.com/v1"

// weatherAPIForecastDays is the horizon available on the free plan.
const weatherAPIForecastDays = 3

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
// Its forecast buckets are hourly rather than 3-hourly.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey, baseURL string) *WeatherAPIProvider {
	if baseURL == "" {
		baseURL = DefaultWeatherAPIBaseURL
	}
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuitBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) Configured() bool {
	return p.apiKey != ""
}

// IconURL turns the protocol-relative icon path WeatherAPI returns into an absolute URL.
func (p *WeatherAPIProvider) IconURL(icon string) string {
	if strings.HasPrefix(icon, "//") {
		return "https:" + icon
	}
	return icon
}

func (p *WeatherAPIProvider) Locate(ctx context.Context, city string) (weather.Coordinates, error) {
	if !p.Configured() {
		return weather.Coordinates{}, fmt.Errorf("weatherapi api key is not configured")
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("q", city)

	var payload struct {
		Location *struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"location"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.baseURL+"/current.json", values, &payload); err != nil {
		return weather.Coordinates{}, err
	}
	if payload.Location == nil {
		return weather.Coordinates{}, fmt.Errorf("%w: missing location for %q", ErrMalformedPayload, city)
	}

	return weather.Coordinates{Lat: payload.Location.Lat, Lon: payload.Location.Lon}, nil
}

func (p *WeatherAPIProvider) FetchForecast(ctx context.Context, coords weather.Coordinates) ([]weather.ProviderReading, error) {
	if !p.Configured() {
		return nil, fmt.Errorf("weatherapi api key is not configured")
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	// WeatherAPI accepts "lat,lon" in q.
	values.Set("q", strconv.FormatFloat(coords.Lat, 'f', -1, 64)+","+strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	values.Set("days", strconv.Itoa(weatherAPIForecastDays))

	var payload struct {
		Forecast struct {
			ForecastDay []struct {
				Hour []struct {
					TimeEpoch int64   `json:"time_epoch"`
					TempC     float64 `json:"temp_c"`
					Humidity  float64 `json:"humidity"`
					Condition struct {
						Text string `json:"text"`
						Icon string `json:"icon"`
					} `json:"condition"`
				} `json:"hour"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.baseURL+"/forecast.json", values, &payload); err != nil {
		return nil, err
	}

	var readings []weather.ProviderReading
	for _, day := range payload.Forecast.ForecastDay {
		for _, h := range day.Hour {
			readings = append(readings, weather.ProviderReading{
				Timestamp:    time.Unix(h.TimeEpoch, 0).UTC(),
				Condition:    h.Condition.Text,
				Icon:         h.Condition.Icon,
				TemperatureC: h.TempC,
				HumidityPct:  h.Humidity,
			})
		}
	}

	return readings, nil
}
