package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/weather-reminders/internal/weather"
)

func fastBackoff() BackoffConfig {
	return BackoffConfig{
		MaxRetries:      2,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	}
}

func newTestOpenWeather(t *testing.T, handler http.HandlerFunc) *OpenWeatherProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewOpenWeatherProvider(srv.Client(), "test-key", srv.URL)
	p.httpCfg.Backoff = fastBackoff()
	return p
}

func TestOpenWeatherEndToEndLookup(t *testing.T) {
	noon := time.Date(2025, time.October, 15, 12, 0, 0, 0, time.UTC)

	p := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("appid") != "test-key" {
			t.Errorf("expected appid to be sent, got %q", q.Get("appid"))
		}
		switch r.URL.Path {
		case "/weather":
			if q.Get("q") != "New York" {
				t.Errorf("expected q=New York, got %q", q.Get("q"))
			}
			fmt.Fprint(w, `{"coord":{"lat":40.7143,"lon":-74.006},"name":"New York"}`)
		case "/forecast":
			if q.Get("units") != "metric" {
				t.Errorf("expected metric units, got %q", q.Get("units"))
			}
			if q.Get("lat") != "40.7143" || q.Get("lon") != "-74.006" {
				t.Errorf("unexpected coordinates lat=%s lon=%s", q.Get("lat"), q.Get("lon"))
			}
			fmt.Fprintf(w, `{"list":[
				{"dt":%d,"weather":[{"main":"Clouds","icon":"03d"}],"main":{"temp":18.4,"humidity":71}},
				{"dt":%d,"weather":[{"main":"Clear","icon":"01d"}],"main":{"temp":24.5,"humidity":60}},
				{"dt":%d,"weather":[{"main":"Rain","icon":"10d"}],"main":{"temp":19.0,"humidity":88}}
			]}`, noon.Add(-3*time.Hour).Unix(), noon.Add(time.Hour).Unix(), noon.Add(4*time.Hour).Unix())
		default:
			http.NotFound(w, r)
		}
	})

	svc := weather.NewService(p, time.UTC)
	got, ok := svc.Lookup(context.Background(), "New York", "2025-10-15")
	if !ok {
		t.Fatalf("expected forecast")
	}
	want := weather.Forecast{Description: "Clear", Icon: "01d", Temp: 25, Humidity: 60}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestOpenWeatherUnknownCityIsNotRetried(t *testing.T) {
	var hits int32
	p := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"cod":"404","message":"city not found"}`)
	})

	_, err := p.Locate(context.Background(), "Atlantis")
	if !errors.Is(err, errClientStatus) {
		t.Fatalf("expected client status error, got %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected a single request, got %d", n)
	}
}

func TestOpenWeatherServerErrorsAreRetried(t *testing.T) {
	var hits int32
	p := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := p.Locate(context.Background(), "Paris")
	if !errors.Is(err, errServerError) {
		t.Fatalf("expected server error, got %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 3 {
		t.Fatalf("expected 3 attempts, got %d", n)
	}
}

func TestOpenWeatherMalformedPayloads(t *testing.T) {
	p := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/weather":
			fmt.Fprint(w, `{"name":"Paris"}`)
		case "/forecast":
			fmt.Fprint(w, `{"list":[{"dt":1760529600,"weather":[],"main":{"temp":20,"humidity":50}}]}`)
		}
	})

	if _, err := p.Locate(context.Background(), "Paris"); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected malformed payload from /weather, got %v", err)
	}
	if _, err := p.FetchForecast(context.Background(), weather.Coordinates{Lat: 1, Lon: 2}); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected malformed payload from /forecast, got %v", err)
	}
}

func TestOpenWeatherInvalidJSON(t *testing.T) {
	p := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>maintenance</html>`)
	})

	if _, err := p.Locate(context.Background(), "Paris"); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected malformed payload, got %v", err)
	}
}

func TestOpenWeatherUnconfigured(t *testing.T) {
	p := NewOpenWeatherProvider(http.DefaultClient, "", "")
	if p.Configured() {
		t.Fatalf("expected provider without key to be unconfigured")
	}
	if p.baseURL != DefaultOpenWeatherBaseURL {
		t.Fatalf("expected default base url, got %s", p.baseURL)
	}
	if _, err := p.Locate(context.Background(), "Paris"); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestTransportErrorsDoNotLeakAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	p := NewOpenWeatherProvider(&http.Client{Timeout: time.Second}, "super-secret", base)
	p.httpCfg.Backoff = BackoffConfig{MaxRetries: 0, InitialInterval: time.Millisecond}

	_, err := p.Locate(context.Background(), "Paris")
	if err == nil {
		t.Fatalf("expected transport error")
	}
	if strings.Contains(err.Error(), "super-secret") {
		t.Fatalf("error leaks api key: %v", err)
	}
}

func TestIconURL(t *testing.T) {
	p := NewOpenWeatherProvider(http.DefaultClient, "k", "")
	if got := p.IconURL("10n"); got != "https://openweathermap.org/img/wn/10n@2x.png" {
		t.Fatalf("unexpected icon url %s", got)
	}
}
