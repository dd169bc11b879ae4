package aqi

import "math"

// Reading is a single AQI observation. AQI is nil when the backend had no value.
type Reading struct {
	AQI       *float64 `json:"aqi"`
	Category  string   `json:"category"`
	Timestamp string   `json:"timestamp"`
}

// ForecastPoint is one step of an hourly or extended forecast. AQI is nil
// when the backend sent the step without a value.
type ForecastPoint struct {
	Time     string   `json:"time"`
	AQI      *float64 `json:"aqi"`
	Category string   `json:"category"`
}

// SourceBreakdown maps a source name to its contribution as a fraction in [0,1].
type SourceBreakdown map[string]float64

// SourceShare is a single ranked entry of a source breakdown.
type SourceShare struct {
	Source   string  `json:"source"`
	Fraction float64 `json:"fraction"`
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether c is a finite WGS84 coordinate.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// NamedLocation is a coordinate with a human label, used for fallbacks.
type NamedLocation struct {
	Name string `json:"name"`
	Coordinates
}

// DefaultLocation is substituted whenever the device location is unavailable.
var DefaultLocation = NamedLocation{
	Name:        "New Delhi",
	Coordinates: Coordinates{Latitude: 28.6139, Longitude: 77.2090},
}
