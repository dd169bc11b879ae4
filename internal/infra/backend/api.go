package backend

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/yanqian/aqi-insight/internal/domain/aqi"
)

// Reader is a cached GET, satisfied by *respcache.Cache.
type Reader interface {
	Get(ctx context.Context, path string, params url.Values) (any, error)
}

// API groups the AQI backend endpoints. Reads go through the cache; the
// mutating calls (route, simulate, cost-benefit) always hit the network.
type API struct {
	reader Reader
	client *Client
}

// NewAPI builds the endpoint groups.
func NewAPI(reader Reader, client *Client) *API {
	return &API{reader: reader, client: client}
}

// CurrentForecast reads /forecast/current without a location.
func (a *API) CurrentForecast(ctx context.Context) (any, error) {
	return a.reader.Get(ctx, "/forecast/current", nil)
}

// CurrentForecastAt reads /forecast/current for a point.
func (a *API) CurrentForecastAt(ctx context.Context, loc aqi.Coordinates, hours int) (any, error) {
	return a.reader.Get(ctx, "/forecast/current", withHours(pointParams(loc), hours))
}

// HourlyForecast reads /forecast/hourly for a point.
func (a *API) HourlyForecast(ctx context.Context, loc aqi.Coordinates, hours int) (any, error) {
	return a.reader.Get(ctx, "/forecast/hourly", withHours(pointParams(loc), hours))
}

// HyperlocalForecast reads /forecast/hyperlocal, which takes lat/lon.
func (a *API) HyperlocalForecast(ctx context.Context, loc aqi.Coordinates) (any, error) {
	params := url.Values{}
	params.Set("lat", formatCoord(loc.Latitude))
	params.Set("lon", formatCoord(loc.Longitude))
	return a.reader.Get(ctx, "/forecast/hyperlocal", params)
}

// HistoricalForecast reads /forecast/historical between start and end.
func (a *API) HistoricalForecast(ctx context.Context, start, end time.Time) (any, error) {
	params := url.Values{}
	params.Set("start", start.UTC().Format(time.RFC3339))
	params.Set("end", end.UTC().Format(time.RFC3339))
	return a.reader.Get(ctx, "/forecast/historical", params)
}

// RouteForecast posts waypoints to /forecast/route.
func (a *API) RouteForecast(ctx context.Context, waypoints []aqi.Coordinates) (any, error) {
	return a.post(ctx, "/forecast/route", map[string]any{"waypoints": waypoints})
}

// CurrentSources reads /sources/current without a location.
func (a *API) CurrentSources(ctx context.Context) (any, error) {
	return a.reader.Get(ctx, "/sources/current", nil)
}

// CurrentSourcesAt reads /sources/current for a point.
func (a *API) CurrentSourcesAt(ctx context.Context, loc aqi.Coordinates) (any, error) {
	return a.reader.Get(ctx, "/sources/current", pointParams(loc))
}

// RegionalSources reads /sources/regional.
func (a *API) RegionalSources(ctx context.Context) (any, error) {
	return a.reader.Get(ctx, "/sources/regional", nil)
}

// SourceTrends reads /sources/trends.
func (a *API) SourceTrends(ctx context.Context) (any, error) {
	return a.reader.Get(ctx, "/sources/trends", nil)
}

// FireHotspots reads /sources/fires.
func (a *API) FireHotspots(ctx context.Context) (any, error) {
	return a.reader.Get(ctx, "/sources/fires", nil)
}

// PolicyRecommendations reads /policy/recommendations.
func (a *API) PolicyRecommendations(ctx context.Context) (any, error) {
	return a.reader.Get(ctx, "/policy/recommendations", nil)
}

// OngoingInterventions reads /policy/ongoing-interventions.
func (a *API) OngoingInterventions(ctx context.Context) (any, error) {
	return a.reader.Get(ctx, "/policy/ongoing-interventions", nil)
}

// EmergencyResponse reads /policy/emergency-response.
func (a *API) EmergencyResponse(ctx context.Context) (any, error) {
	return a.reader.Get(ctx, "/policy/emergency-response", nil)
}

// SimulatePolicy posts a simulation request to /policy/simulate.
func (a *API) SimulatePolicy(ctx context.Context, payload any) (any, error) {
	return a.post(ctx, "/policy/simulate", payload)
}

// CostBenefitAnalysis posts to /policy/cost-benefit-analysis.
func (a *API) CostBenefitAnalysis(ctx context.Context, payload any) (any, error) {
	return a.post(ctx, "/policy/cost-benefit-analysis", payload)
}

// HealthRecommendations reads /health/recommendations for a population segment.
func (a *API) HealthRecommendations(ctx context.Context, segment string) (any, error) {
	var params url.Values
	if segment != "" {
		params = url.Values{"segment": {segment}}
	}
	return a.reader.Get(ctx, "/health/recommendations", params)
}

// HealthAlerts reads /health/alerts.
func (a *API) HealthAlerts(ctx context.Context) (any, error) {
	return a.reader.Get(ctx, "/health/alerts", nil)
}

// ActiveAlerts reads /alerts/active.
func (a *API) ActiveAlerts(ctx context.Context) (any, error) {
	return a.reader.Get(ctx, "/alerts/active", nil)
}

func (a *API) post(ctx context.Context, path string, payload any) (any, error) {
	body, err := a.client.Post(ctx, path, payload)
	if err != nil {
		return nil, err
	}
	return Decode(body)
}

func pointParams(loc aqi.Coordinates) url.Values {
	params := url.Values{}
	params.Set("latitude", formatCoord(loc.Latitude))
	params.Set("longitude", formatCoord(loc.Longitude))
	return params
}

func withHours(params url.Values, hours int) url.Values {
	if hours > 0 {
		params.Set("hours", strconv.Itoa(hours))
	}
	return params
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
