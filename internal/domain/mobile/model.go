package mobile

import (
	"github.com/yanqian/aqi-insight/internal/domain/aqi"
	"github.com/yanqian/aqi-insight/internal/domain/view"
)

// Home is the merged payload of the mobile home screen.
type Home struct {
	Location              aqi.NamedLocation   `json:"location"`
	CurrentAQI            *float64            `json:"current_aqi"`
	CurrentCategory       string              `json:"current_category"`
	Timestamp             string              `json:"timestamp"`
	HourlyForecast        []aqi.ForecastPoint `json:"hourly_forecast"`
	ExtendedForecast      []aqi.ForecastPoint `json:"extended_forecast"`
	SourceBreakdown       aqi.SourceBreakdown `json:"source_breakdown"`
	HealthRecommendations []string            `json:"health_recommendations"`
	View                  HomeView            `json:"view"`
}

// HomeView is what the home screen draws.
type HomeView struct {
	AQICard         view.Card     `json:"aqiCard"`
	Sources         []view.Bar    `json:"sources"`
	Advice          string        `json:"advice"`
	Recommendations []string      `json:"recommendations"`
	QuickTips       []string      `json:"quickTips"`
	Forecast        view.BarChart `json:"forecast"`
	NextHours       view.Table    `json:"nextHours"`
}
