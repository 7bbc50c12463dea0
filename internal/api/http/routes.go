package httpapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-reminders/internal/calendar"
	"github.com/i474232898/weather-reminders/internal/weather"
)

var validate = validator.New()

const (
	dateRule = "required,datetime=2006-01-02"
	timeRule = "required,datetime=15:04"
)

// IconResolver expands provider icon codes into image URLs.
type IconResolver interface {
	IconURL(icon string) string
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, store *calendar.Store, icons IconResolver) {
	h := &handlers{store: store, icons: icons}

	v1 := app.Group("/api/v1")

	v1.Get("/reminders", h.listReminders)
	v1.Post("/reminders", h.addReminder)
	v1.Get("/reminders/by-date", h.remindersByDate)
	v1.Get("/reminders/:id", h.getReminder)
	v1.Patch("/reminders/:id", h.updateReminder)
	v1.Delete("/reminders/:id", h.deleteReminder)

	v1.Get("/dates/:date/reminders", h.remindersForDate)
	v1.Delete("/dates/:date/reminders", h.deleteRemindersForDate)

	v1.Get("/calendar", h.cursor)
	v1.Put("/calendar", h.setCursor)
	v1.Post("/calendar/next", h.nextMonth)
	v1.Post("/calendar/previous", h.previousMonth)
	v1.Post("/calendar/today", h.goToToday)

	v1.Get("/weather/icons/:icon", h.iconURL)
}

type handlers struct {
	store *calendar.Store
	icons IconResolver
}

func (h *handlers) listReminders(c *fiber.Ctx) error {
	return c.JSON(h.toResponses(h.store.Reminders()))
}

func (h *handlers) addReminder(c *fiber.Ctx) error {
	var req createReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	r := h.store.AddReminder(c.UserContext(), calendar.ReminderInput{
		Text:  req.Text,
		Date:  req.Date,
		Time:  req.Time,
		City:  req.City,
		Color: req.Color,
	})
	return c.Status(fiber.StatusCreated).JSON(h.toResponse(r))
}

func (h *handlers) getReminder(c *fiber.Ctx) error {
	id, err := reminderID(c)
	if err != nil {
		return err
	}
	r, ok := h.store.Get(id)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "reminder not found")
	}
	return c.JSON(h.toResponse(r))
}

func (h *handlers) updateReminder(c *fiber.Ctx) error {
	id, err := reminderID(c)
	if err != nil {
		return err
	}

	var req updateReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	r, ok := h.store.UpdateReminder(c.UserContext(), id, req.toPatch())
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "reminder not found")
	}
	return c.JSON(h.toResponse(r))
}

func (h *handlers) deleteReminder(c *fiber.Ctx) error {
	id, err := reminderID(c)
	if err != nil {
		return err
	}
	if !h.store.DeleteReminder(id) {
		return fiber.NewError(fiber.StatusNotFound, "reminder not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) remindersByDate(c *fiber.Ctx) error {
	grouped := h.store.RemindersByDate()
	out := make(map[string][]reminderResponse, len(grouped))
	for date, rs := range grouped {
		out[date] = h.toResponses(rs)
	}
	return c.JSON(out)
}

func (h *handlers) remindersForDate(c *fiber.Ctx) error {
	date, err := dateParam(c)
	if err != nil {
		return err
	}
	return c.JSON(h.toResponses(h.store.GetRemindersForDate(date)))
}

func (h *handlers) deleteRemindersForDate(c *fiber.Ctx) error {
	date, err := dateParam(c)
	if err != nil {
		return err
	}
	h.store.DeleteAllRemindersForDate(date)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) cursor(c *fiber.Ctx) error {
	return c.JSON(h.store.Cursor())
}

func (h *handlers) setCursor(c *fiber.Ctx) error {
	var req cursorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if req.Month != nil {
		h.store.SetMonth(*req.Month)
	}
	if req.Year != nil {
		h.store.SetYear(*req.Year)
	}
	return c.JSON(h.store.Cursor())
}

func (h *handlers) nextMonth(c *fiber.Ctx) error {
	h.store.NextMonth()
	return c.JSON(h.store.Cursor())
}

func (h *handlers) previousMonth(c *fiber.Ctx) error {
	h.store.PreviousMonth()
	return c.JSON(h.store.Cursor())
}

func (h *handlers) goToToday(c *fiber.Ctx) error {
	h.store.GoToToday()
	return c.JSON(h.store.Cursor())
}

func (h *handlers) iconURL(c *fiber.Ctx) error {
	icon := c.Params("icon")
	return c.JSON(fiber.Map{
		"icon": icon,
		"url":  h.icons.IconURL(icon),
	})
}

func (h *handlers) toResponse(r calendar.Reminder) reminderResponse {
	resp := reminderResponse{
		ID:    r.ID,
		Text:  r.Text,
		Date:  r.Date,
		Time:  r.Time,
		City:  r.City,
		Color: r.Color,
	}
	if r.Weather != nil {
		resp.Weather = h.toForecastResponse(*r.Weather)
	}
	return resp
}

func (h *handlers) toForecastResponse(f weather.Forecast) *forecastResponse {
	return &forecastResponse{
		Description: f.Description,
		Icon:        f.Icon,
		IconURL:     h.icons.IconURL(f.Icon),
		Temp:        f.Temp,
		Humidity:    f.Humidity,
	}
}

func (h *handlers) toResponses(rs []calendar.Reminder) []reminderResponse {
	out := make([]reminderResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, h.toResponse(r))
	}
	return out
}

func reminderID(c *fiber.Ctx) (int, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "reminder id must be a positive integer")
	}
	return id, nil
}

func dateParam(c *fiber.Ctx) (string, error) {
	date := c.Params("date")
	if err := validate.Var(date, dateRule); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "date must use YYYY-MM-DD")
	}
	return date, nil
}
