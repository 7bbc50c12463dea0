package calendar

import (
	"github.com/i474232898/weather-reminders/internal/weather"
)

// MaxTextLength is the longest reminder text kept, in characters.
const MaxTextLength = 30

// Reminder is a user-created calendar entry.
type Reminder struct {
	ID    int    `json:"id"`
	Text  string `json:"text"`
	Date  string `json:"date"` // YYYY-MM-DD
	Time  string `json:"time"` // HH:MM, 24-hour
	City  string `json:"city"`
	Color string `json:"color"`

	// Weather is nil until resolved, or when resolution failed.
	Weather *weather.Forecast `json:"weather"`
}

// ReminderInput carries the fields of a new reminder.
type ReminderInput struct {
	Text  string
	Date  string
	Time  string
	City  string
	Color string
}

// ReminderPatch holds optional fields for a partial update. Nil means "not supplied".
type ReminderPatch struct {
	Text  *string
	Date  *string
	Time  *string
	City  *string
	Color *string
}

func (r Reminder) clone() Reminder {
	if r.Weather != nil {
		w := *r.Weather
		r.Weather = &w
	}
	return r
}

func cloneAll(in []Reminder) []Reminder {
	out := make([]Reminder, len(in))
	for i, r := range in {
		out[i] = r.clone()
	}
	return out
}
