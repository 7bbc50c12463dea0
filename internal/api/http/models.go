package httpapi

import (
	"fmt"

	"github.com/i474232898/weather-reminders/internal/calendar"
)

// createReminderRequest is the body of POST /reminders.
type createReminderRequest struct {
	Text  string `json:"text" validate:"required"`
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Time  string `json:"time" validate:"required,datetime=15:04"`
	City  string `json:"city"`
	Color string `json:"color"`
}

// updateReminderRequest is the body of PATCH /reminders/:id.
// Absent fields are left untouched.
type updateReminderRequest struct {
	Text  *string `json:"text"`
	Date  *string `json:"date"`
	Time  *string `json:"time"`
	City  *string `json:"city"`
	Color *string `json:"color"`
}

func (r updateReminderRequest) validate() error {
	if r.Text != nil {
		if err := validate.Var(*r.Text, "required"); err != nil {
			return fmt.Errorf("text must not be empty")
		}
	}
	if r.Date != nil {
		if err := validate.Var(*r.Date, dateRule); err != nil {
			return fmt.Errorf("date must use YYYY-MM-DD")
		}
	}
	if r.Time != nil {
		if err := validate.Var(*r.Time, timeRule); err != nil {
			return fmt.Errorf("time must use HH:MM")
		}
	}
	return nil
}

func (r updateReminderRequest) toPatch() calendar.ReminderPatch {
	return calendar.ReminderPatch{
		Text:  r.Text,
		Date:  r.Date,
		Time:  r.Time,
		City:  r.City,
		Color: r.Color,
	}
}

// cursorRequest is the body of PUT /calendar.
type cursorRequest struct {
	Month *int `json:"month"`
	Year  *int `json:"year"`
}

func (r cursorRequest) validate() error {
	if r.Month == nil && r.Year == nil {
		return fmt.Errorf("month or year is required")
	}
	if r.Month != nil {
		if err := validate.Var(*r.Month, "min=0,max=11"); err != nil {
			return fmt.Errorf("month must be between 0 and 11")
		}
	}
	return nil
}

type forecastResponse struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
	IconURL     string `json:"iconUrl"`
	Temp        int    `json:"temp"`
	Humidity    int    `json:"humidity"`
}

type reminderResponse struct {
	ID      int               `json:"id"`
	Text    string            `json:"text"`
	Date    string            `json:"date"`
	Time    string            `json:"time"`
	City    string            `json:"city"`
	Color   string            `json:"color"`
	Weather *forecastResponse `json:"weather"`
}
