package dashboard

import (
	"github.com/yanqian/aqi-insight/internal/domain/aqi"
	"github.com/yanqian/aqi-insight/internal/domain/view"
)

// Recommendation is a normalized policy recommendation.
type Recommendation struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	ExpectedImpact string `json:"expected_impact,omitempty"`
}

// Overview is the dashboard landing screen.
type Overview struct {
	Reading         aqi.Reading       `json:"reading"`
	Sources         []aqi.SourceShare `json:"sources"`
	Recommendations []Recommendation  `json:"recommendations"`
	Cards           []view.Card       `json:"cards"`
	TopSources      view.Table        `json:"topSources"`
	Actions         []view.Card       `json:"actions"`
}

// HistoricalRow is one past observation.
type HistoricalRow struct {
	Timestamp string   `json:"timestamp"`
	AQI       *float64 `json:"aqi"`
	PM25      *float64 `json:"pm25"`
	PM10      *float64 `json:"pm10"`
}

// Forecast is the forecast and history screen.
type Forecast struct {
	Current      aqi.Reading       `json:"current"`
	Hyperlocal   aqi.Reading       `json:"hyperlocal"`
	Spot         aqi.NamedLocation `json:"spot"`
	HorizonHours float64           `json:"horizon_hours"`
	Historical   []HistoricalRow   `json:"historical"`
	Cards        []view.Card       `json:"cards"`
	History      view.Table        `json:"history"`
}

// RegionalShare is a region's contribution to local pollution.
type RegionalShare struct {
	Region   string  `json:"region"`
	Fraction float64 `json:"fraction"`
}

// FireHotspot is a detected fire.
type FireHotspot struct {
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Confidence string   `json:"confidence,omitempty"`
}

// TrendPoint is one step of the source contribution time series, ranked
// by contribution.
type TrendPoint struct {
	Timestamp string            `json:"timestamp"`
	Shares    []aqi.SourceShare `json:"shares"`
}

// TrendAnomaly flags a source whose contribution deviated from its norm.
type TrendAnomaly struct {
	Timestamp    string   `json:"timestamp"`
	Source       string   `json:"source"`
	DeviationPct *float64 `json:"deviation_pct"`
	Severity     string   `json:"severity"`
}

// Sources is the source attribution screen.
type Sources struct {
	Current   []aqi.SourceShare `json:"current"`
	Regional  []RegionalShare   `json:"regional"`
	Fires     []FireHotspot     `json:"fires"`
	Trends    []TrendPoint      `json:"trends"`
	Anomalies []TrendAnomaly    `json:"anomalies"`
	Cards     []view.Card       `json:"cards"`
	Mix       view.Table        `json:"mix"`
	MixChart  view.BarChart     `json:"mixChart"`
	Regions   view.Table        `json:"regions"`
	Hotspots  view.Table        `json:"hotspots"`
	TrendView view.Table        `json:"trendsTable"`
	Anomaly   view.Table        `json:"anomaliesTable"`
}

// Intervention is an ongoing policy measure.
type Intervention struct {
	Name           string `json:"name"`
	Status         string `json:"status"`
	ExpectedImpact string `json:"expected_impact,omitempty"`
}

// EmergencyAction is a step of the emergency response plan.
type EmergencyAction struct {
	Action  string `json:"action"`
	Trigger string `json:"trigger,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// Alert is an active pollution alert.
type Alert struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Reports is the interventions and alerts screen.
type Reports struct {
	Ongoing       []Intervention    `json:"ongoing"`
	Emergency     []EmergencyAction `json:"emergency"`
	Alerts        []Alert           `json:"alerts"`
	OngoingTable  view.Table        `json:"ongoingTable"`
	EmergencyView view.Table        `json:"emergencyTable"`
	AlertsTable   view.Table        `json:"alertsTable"`
}
