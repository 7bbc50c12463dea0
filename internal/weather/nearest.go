package weather

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the calendar date format used by reminders.
const DateLayout = "2006-01-02"

// TargetInstant returns noon of the given calendar date in loc.
// Noon keeps the match away from day boundaries of the bucket grid.
func TargetInstant(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc), nil
}

// Closest picks the reading whose timestamp is nearest to target.
// Ties resolve to the earliest reading in slice order.
func Closest(readings []ProviderReading, target time.Time) (ProviderReading, bool) {
	if len(readings) == 0 {
		return ProviderReading{}, false
	}

	best := readings[0]
	bestDiff := absDuration(best.Timestamp.Sub(target))
	for _, r := range readings[1:] {
		if diff := absDuration(r.Timestamp.Sub(target)); diff < bestDiff {
			best = r
			bestDiff = diff
		}
	}
	return best, true
}

// ToForecast maps a bucket onto the reminder-facing snapshot.
func ToForecast(r ProviderReading) Forecast {
	return Forecast{
		Description: r.Condition,
		Icon:        r.Icon,
		Temp:        roundHalfUp(r.TemperatureC),
		Humidity:    roundHalfUp(r.HumidityPct),
	}
}

// roundHalfUp matches the browser's Math.round: halves go towards +Inf.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
