package weather

import (
	"time"
)

// Forecast is the coarse weather snapshot attached to a reminder.
// Values are copied, never shared with provider payloads.
type Forecast struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Temp        int    `json:"temp"`     // Celsius, rounded
	Humidity    int    `json:"humidity"` // percent
}

// Coordinates locate a place for forecast queries.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ProviderReading is one fixed-interval forecast bucket as reported by a provider.
type ProviderReading struct {
	Timestamp time.Time // always UTC

	Condition    string // short label, e.g. "Clear"
	Icon         string // provider icon code
	TemperatureC float64
	HumidityPct  float64
}
