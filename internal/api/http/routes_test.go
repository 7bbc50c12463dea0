package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-reminders/internal/calendar"
	"github.com/i474232898/weather-reminders/internal/store"
	"github.com/i474232898/weather-reminders/internal/weather"
)

type stubLookup struct{}

func (stubLookup) Lookup(_ context.Context, city, _ string) (weather.Forecast, bool) {
	if city == "Atlantis" {
		return weather.Forecast{}, false
	}
	return weather.Forecast{Description: "Clear", Icon: "01d", Temp: 25, Humidity: 60}, true
}

type stubIcons struct{}

func (stubIcons) IconURL(icon string) string { return weather.IconURL(icon) }

func newTestApp(t *testing.T) (*fiber.App, *calendar.Store) {
	t.Helper()
	clock := func() time.Time { return time.Date(2025, time.December, 10, 9, 0, 0, 0, time.UTC) }
	s := calendar.NewStore(store.NewPersistence(store.NewMemoryBackend()), stubLookup{}, calendar.WithClock(clock))

	app := fiber.New()
	RegisterRoutes(app, s, stubIcons{})
	return app, s
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d", want, resp.StatusCode)
	}
}

func TestCreateReminder(t *testing.T) {
	app, s := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/reminders",
		`{"text":"Team meeting","date":"2025-10-15","time":"14:00","city":"New York","color":"#ef4444"}`)
	expectStatus(t, resp, http.StatusCreated)

	var got reminderResponse
	decode(t, resp, &got)
	if got.ID != 1 || got.Text != "Team meeting" {
		t.Fatalf("unexpected reminder %+v", got)
	}
	if got.Weather == nil || got.Weather.Temp != 25 {
		t.Fatalf("expected resolved weather, got %+v", got.Weather)
	}
	if got.Weather.IconURL != "https://openweathermap.org/img/wn/01d@2x.png" {
		t.Fatalf("unexpected icon url %s", got.Weather.IconURL)
	}
	if len(s.Reminders()) != 1 {
		t.Fatalf("expected reminder to be stored")
	}
}

func TestCreateReminderWithoutWeather(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/reminders",
		`{"text":"Dive","date":"2025-10-15","time":"14:00","city":"Atlantis","color":"#3b82f6"}`)
	expectStatus(t, resp, http.StatusCreated)

	var raw map[string]interface{}
	decode(t, resp, &raw)
	if v, ok := raw["weather"]; !ok || v != nil {
		t.Fatalf("expected weather to be null, got %v", v)
	}
}

func TestCreateReminderValidation(t *testing.T) {
	app, _ := newTestApp(t)

	bodies := []string{
		`{"date":"2025-10-15","time":"14:00","city":"Paris"}`,
		`{"text":"x","date":"15/10/2025","time":"14:00","city":"Paris"}`,
		`{"text":"x","date":"2025-10-15","time":"2pm","city":"Paris"}`,
		`not json`,
	}
	for _, body := range bodies {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/reminders", body)
		expectStatus(t, resp, http.StatusBadRequest)
	}
}

func TestUpdateReminder(t *testing.T) {
	app, s := newTestApp(t)
	r := s.AddReminder(context.Background(), calendar.ReminderInput{Text: "Original", Date: "2025-10-15", Time: "10:00", City: "Boston"})

	resp := doJSON(t, app, http.MethodPatch, "/api/v1/reminders/1", `{"text":"Updated text","time":"15:00"}`)
	expectStatus(t, resp, http.StatusOK)

	var got reminderResponse
	decode(t, resp, &got)
	if got.ID != r.ID || got.Text != "Updated text" || got.Time != "15:00" || got.City != "Boston" {
		t.Fatalf("unexpected reminder %+v", got)
	}

	resp = doJSON(t, app, http.MethodPatch, "/api/v1/reminders/1", `{"city":"Atlantis"}`)
	expectStatus(t, resp, http.StatusOK)
	decode(t, resp, &got)
	if got.Weather != nil {
		t.Fatalf("expected weather to be cleared after failed lookup, got %+v", got.Weather)
	}
}

func TestUpdateReminderErrors(t *testing.T) {
	app, s := newTestApp(t)
	s.AddReminder(context.Background(), calendar.ReminderInput{Text: "Original", Date: "2025-10-15", Time: "10:00"})

	resp := doJSON(t, app, http.MethodPatch, "/api/v1/reminders/999", `{"text":"x"}`)
	expectStatus(t, resp, http.StatusNotFound)

	resp = doJSON(t, app, http.MethodPatch, "/api/v1/reminders/abc", `{"text":"x"}`)
	expectStatus(t, resp, http.StatusBadRequest)

	resp = doJSON(t, app, http.MethodPatch, "/api/v1/reminders/1", `{"date":"tomorrow"}`)
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestGetAndDeleteReminder(t *testing.T) {
	app, s := newTestApp(t)
	s.AddReminder(context.Background(), calendar.ReminderInput{Text: "Lunch", Date: "2025-10-15", Time: "12:00"})

	resp := doJSON(t, app, http.MethodGet, "/api/v1/reminders/1", "")
	expectStatus(t, resp, http.StatusOK)

	resp = doJSON(t, app, http.MethodDelete, "/api/v1/reminders/1", "")
	expectStatus(t, resp, http.StatusNoContent)

	resp = doJSON(t, app, http.MethodDelete, "/api/v1/reminders/1", "")
	expectStatus(t, resp, http.StatusNotFound)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/reminders/1", "")
	expectStatus(t, resp, http.StatusNotFound)
}

func TestRemindersByDateEndpoints(t *testing.T) {
	app, s := newTestApp(t)
	for _, tm := range []string{"15:00", "09:00", "12:00"} {
		s.AddReminder(context.Background(), calendar.ReminderInput{Text: tm, Date: "2025-10-15", Time: tm})
	}
	s.AddReminder(context.Background(), calendar.ReminderInput{Text: "other", Date: "2025-10-16", Time: "08:00"})

	resp := doJSON(t, app, http.MethodGet, "/api/v1/reminders/by-date", "")
	expectStatus(t, resp, http.StatusOK)
	var grouped map[string][]reminderResponse
	decode(t, resp, &grouped)

	var times []string
	for _, r := range grouped["2025-10-15"] {
		times = append(times, r.Time)
	}
	if strings.Join(times, ",") != "09:00,12:00,15:00" {
		t.Fatalf("unexpected order %v", times)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/v1/dates/2030-01-01/reminders", "")
	expectStatus(t, resp, http.StatusOK)
	var empty []reminderResponse
	decode(t, resp, &empty)
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty list, got %v", empty)
	}

	resp = doJSON(t, app, http.MethodDelete, "/api/v1/dates/2025-10-15/reminders", "")
	expectStatus(t, resp, http.StatusNoContent)
	if n := len(s.Reminders()); n != 1 {
		t.Fatalf("expected one reminder left, got %d", n)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/v1/dates/yesterday/reminders", "")
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestCalendarCursorEndpoints(t *testing.T) {
	app, _ := newTestApp(t)

	var cur calendar.Cursor
	resp := doJSON(t, app, http.MethodGet, "/api/v1/calendar", "")
	decode(t, resp, &cur)
	if cur != (calendar.Cursor{Month: 11, Year: 2025}) {
		t.Fatalf("unexpected cursor %+v", cur)
	}

	resp = doJSON(t, app, http.MethodPost, "/api/v1/calendar/next", "")
	decode(t, resp, &cur)
	if cur != (calendar.Cursor{Month: 0, Year: 2026}) {
		t.Fatalf("unexpected cursor after next %+v", cur)
	}

	resp = doJSON(t, app, http.MethodPut, "/api/v1/calendar", `{"month":0,"year":2020}`)
	expectStatus(t, resp, http.StatusOK)
	resp = doJSON(t, app, http.MethodPost, "/api/v1/calendar/previous", "")
	decode(t, resp, &cur)
	if cur != (calendar.Cursor{Month: 11, Year: 2019}) {
		t.Fatalf("unexpected cursor after previous %+v", cur)
	}

	resp = doJSON(t, app, http.MethodPost, "/api/v1/calendar/today", "")
	decode(t, resp, &cur)
	if cur != (calendar.Cursor{Month: 11, Year: 2025}) {
		t.Fatalf("unexpected cursor after today %+v", cur)
	}

	resp = doJSON(t, app, http.MethodPut, "/api/v1/calendar", `{"month":12}`)
	expectStatus(t, resp, http.StatusBadRequest)
	resp = doJSON(t, app, http.MethodPut, "/api/v1/calendar", `{}`)
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestIconEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/weather/icons/10n", "")
	expectStatus(t, resp, http.StatusOK)

	var got map[string]string
	decode(t, resp, &got)
	if got["url"] != "https://openweathermap.org/img/wn/10n@2x.png" {
		t.Fatalf("unexpected icon url %s", got["url"])
	}
}
