package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/aqi-insight/internal/domain/aqi"
)

type stubBackend struct {
	mu        sync.Mutex
	responses map[string]any
	errs      map[string]error
	calls     map[string]int
	lastStart time.Time
	lastEnd   time.Time
	lastSpot  aqi.Coordinates
}

func newStubBackend() *stubBackend {
	return &stubBackend{responses: map[string]any{}, errs: map[string]error{}, calls: map[string]int{}}
}

func (s *stubBackend) get(name string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[name]++
	if err := s.errs[name]; err != nil {
		return nil, err
	}
	return s.responses[name], nil
}

func (s *stubBackend) CurrentForecast(context.Context) (any, error) { return s.get("current") }
func (s *stubBackend) HyperlocalForecast(_ context.Context, loc aqi.Coordinates) (any, error) {
	s.mu.Lock()
	s.lastSpot = loc
	s.mu.Unlock()
	return s.get("hyperlocal")
}
func (s *stubBackend) HistoricalForecast(_ context.Context, start, end time.Time) (any, error) {
	s.mu.Lock()
	s.lastStart, s.lastEnd = start, end
	s.mu.Unlock()
	return s.get("historical")
}
func (s *stubBackend) CurrentSources(context.Context) (any, error) { return s.get("sources") }
func (s *stubBackend) RegionalSources(context.Context) (any, error) { return s.get("regional") }
func (s *stubBackend) FireHotspots(context.Context) (any, error) { return s.get("fires") }
func (s *stubBackend) SourceTrends(context.Context) (any, error) { return s.get("trends") }
func (s *stubBackend) PolicyRecommendations(context.Context) (any, error) { return s.get("recommendations") }
func (s *stubBackend) OngoingInterventions(context.Context) (any, error) { return s.get("ongoing") }
func (s *stubBackend) EmergencyResponse(context.Context) (any, error) { return s.get("emergency") }
func (s *stubBackend) ActiveAlerts(context.Context) (any, error) { return s.get("alerts") }

func newTestService(backend Backend) *service {
	svc := NewService(backend, slog.New(slog.NewTextHandler(io.Discard, nil))).(*service)
	svc.now = func() time.Time { return time.Date(2024, 11, 3, 9, 30, 42, 0, time.UTC) }
	return svc
}

func TestOverview(t *testing.T) {
	backend := newStubBackend()
	backend.responses["current"] = map[string]any{"current_aqi": 312.0, "timestamp": "2024-11-03T09:00:00"}
	backend.responses["sources"] = map[string]any{"sources": []any{
		map[string]any{"source_type": "Stubble Burning", "contribution": 0.42},
		map[string]any{"source_type": "Traffic", "contribution": 0.3},
	}}
	backend.responses["recommendations"] = map[string]any{"recommended_interventions": []any{
		map[string]any{"measure": "construction_halt", "type": "dust", "expected_impact": "high"},
		map[string]any{},
	}}

	state := newTestService(backend).Overview(context.Background())
	require.Empty(t, state.Error)
	overview := state.Data

	require.Equal(t, "Very Poor", overview.Reading.Category)
	require.Equal(t, "312", overview.Cards[0].Value)
	require.Equal(t, "Stubble Burning", overview.Cards[1].Value)
	require.Equal(t, "42.0%", overview.Cards[1].Caption)
	require.Equal(t, "2", overview.Cards[2].Value)
	require.Equal(t, "2024-11-03 09:00:00", overview.Cards[3].Value)
	require.Equal(t, [][]string{{"Stubble Burning", "42.0%"}, {"Traffic", "30.0%"}}, overview.TopSources.Rows)

	require.Equal(t, "construction_halt", overview.Actions[0].Title)
	require.Equal(t, "dust", overview.Actions[0].Caption)
	require.Equal(t, "Impact: high", overview.Actions[0].Badge)
	require.Equal(t, "Recommendation 2", overview.Actions[1].Title)
	require.Empty(t, overview.Actions[1].Badge)
}

func TestOverviewEmptyShapes(t *testing.T) {
	state := newTestService(newStubBackend()).Overview(context.Background())
	require.Empty(t, state.Error)
	require.Equal(t, "N/A", state.Data.Cards[1].Value)
	require.Equal(t, "—", state.Data.Cards[0].Value)
	require.Equal(t, "Unknown", state.Data.Cards[0].Badge)
	require.Equal(t, "—", state.Data.Cards[3].Value)
	require.Empty(t, state.Data.TopSources.Rows)
}

func TestOverviewFailsAsAUnit(t *testing.T) {
	backend := newStubBackend()
	backend.responses["current"] = map[string]any{"aqi": 80.0}
	svc := newTestService(backend)
	first := svc.Overview(context.Background())
	require.Empty(t, first.Error)

	backend.errs["recommendations"] = errors.New("GET /policy/recommendations failed with status code 500")
	second := svc.Overview(context.Background())
	require.Equal(t, "GET /policy/recommendations failed with status code 500", second.Error)
	require.NotNil(t, second.Data)
	require.Equal(t, 80.0, *second.Data.Reading.AQI)
}

func TestForecast(t *testing.T) {
	backend := newStubBackend()
	backend.responses["current"] = map[string]any{"aqi": 180.0, "category": "Moderate"}
	backend.responses["hyperlocal"] = map[string]any{"aqi": 205.0}
	rows := make([]any, 0, 60)
	for i := 0; i < 60; i++ {
		rows = append(rows, map[string]any{"timestamp": "2024-11-02T10:15:00", "aqi": 190.0, "pm2_5": 88.5})
	}
	backend.responses["historical"] = map[string]any{"data": rows}

	state := newTestService(backend).Forecast(context.Background())
	require.Empty(t, state.Error)
	forecast := state.Data

	require.Equal(t, time.Date(2024, 11, 3, 9, 30, 0, 0, time.UTC), backend.lastEnd)
	require.Equal(t, time.Date(2024, 11, 2, 9, 30, 0, 0, time.UTC), backend.lastStart)
	require.Equal(t, aqi.Coordinates{Latitude: 28.6139, Longitude: 77.2090}, backend.lastSpot)

	require.Equal(t, "Moderate", forecast.Cards[0].Badge)
	require.Equal(t, "Hyperlocal (Connaught Place)", forecast.Cards[1].Title)
	require.Equal(t, "Poor", forecast.Cards[1].Badge)
	require.Equal(t, "72h", forecast.Cards[2].Value)
	require.Len(t, forecast.Historical, 60)
	require.Len(t, forecast.History.Rows, 50)
	require.Equal(t, []string{"10:15:00", "190", "88.5", "—"}, forecast.History.Rows[0])
}

func TestForecastHorizonFromBackend(t *testing.T) {
	backend := newStubBackend()
	backend.responses["current"] = map[string]any{"forecast_horizon_hours": 48.0}
	state := newTestService(backend).Forecast(context.Background())
	require.Equal(t, "48h", state.Data.Cards[2].Value)
}

func TestSources(t *testing.T) {
	backend := newStubBackend()
	backend.responses["sources"] = []any{
		map[string]any{"source_type": "Traffic", "contribution": 0.5},
		map[string]any{"source_type": "Industry", "contribution": 0.25},
	}
	backend.responses["regional"] = map[string]any{"regional": []any{
		map[string]any{"region": "Punjab", "contribution": 0.31},
		map[string]any{"source_type": "Haryana"},
	}}
	backend.responses["fires"] = map[string]any{"active_fires": []any{
		map[string]any{"latitude": 30.7333, "longitude": 76.7794, "confidence": "high"},
		map[string]any{"latitude": 29.1, "longitude": 75.9},
	}}

	state := newTestService(backend).Sources(context.Background())
	require.Empty(t, state.Error)
	sources := state.Data

	require.Equal(t, "Traffic", sources.Cards[0].Value)
	require.Equal(t, "50.0%", sources.Cards[0].Caption)
	require.Equal(t, "2", sources.Cards[1].Value)
	require.Equal(t, [][]string{{"Punjab", "31.0%"}, {"Haryana", "0.0%"}}, sources.Regions.Rows)
	require.Equal(t, [][]string{{"30.73", "76.78", "high"}, {"29.10", "75.90", "—"}}, sources.Hotspots.Rows)
	require.Equal(t, 100.0, sources.MixChart.Bars[0].Height)
	require.Equal(t, 50.0, sources.MixChart.Bars[1].Height)
	require.Equal(t, "#FF6B35", sources.MixChart.Bars[0].Color)
}

func TestSourcesTrends(t *testing.T) {
	backend := newStubBackend()
	backend.responses["trends"] = map[string]any{
		"trend_data": []any{
			map[string]any{"timestamp": "2024-11-02T10:00:00Z", "vehicular": 30.0, "stubble_burning": 42.5, "industrial": 10.0},
			map[string]any{"timestamp": "2024-11-02T11:00:00Z", "vehicular": 38.0, "stubble_burning": 20.0},
		},
		"anomalies": []any{
			map[string]any{"timestamp": "2024-11-01T22:00:00Z", "source": "stubble_burning", "deviation_pct": 65.0, "severity": "high"},
		},
	}

	state := newTestService(backend).Sources(context.Background())
	require.Empty(t, state.Error)
	sources := state.Data

	require.Len(t, sources.Trends, 2)
	require.Equal(t, "stubble_burning", sources.Trends[0].Shares[0].Source)
	require.InDelta(t, 0.425, sources.Trends[0].Shares[0].Fraction, 1e-9)
	require.Equal(t, [][]string{
		{"2024-11-02 10:00:00", "stubble_burning", "42.5%"},
		{"2024-11-02 11:00:00", "vehicular", "38.0%"},
	}, sources.TrendView.Rows)
	require.Equal(t, [][]string{{"2024-11-01 22:00:00", "stubble_burning", "65.0%", "high"}}, sources.Anomaly.Rows)
	require.Equal(t, 1, backend.calls["trends"])
}

func TestSourcesFailOnTrendsRead(t *testing.T) {
	backend := newStubBackend()
	backend.errs["trends"] = errors.New("GET /sources/trends failed with status code 500")
	state := newTestService(backend).Sources(context.Background())
	require.Nil(t, state.Data)
	require.Equal(t, "GET /sources/trends failed with status code 500", state.Error)
}

func TestSourcesEmptyChart(t *testing.T) {
	state := newTestService(newStubBackend()).Sources(context.Background())
	require.Equal(t, "No source data", state.Data.MixChart.Empty)
	require.Equal(t, "N/A", state.Data.Cards[0].Value)
}

func TestReportsToleratesAlertFailure(t *testing.T) {
	backend := newStubBackend()
	backend.responses["ongoing"] = map[string]any{"active_interventions": []any{
		map[string]any{"measure": "odd_even"},
		map[string]any{"name": "Construction ban", "status": "paused", "expected_impact": "12%"},
	}}
	backend.responses["emergency"] = map[string]any{"measures": []any{
		map[string]any{"measure": "school closure", "reason": "AQI > 400"},
	}}
	backend.errs["alerts"] = errors.New("GET /alerts/active failed with status code 422")

	state := newTestService(backend).Reports(context.Background())
	require.Empty(t, state.Error)
	reports := state.Data

	require.Equal(t, [][]string{{"odd_even", "active", "—"}, {"Construction ban", "paused", "12%"}}, reports.OngoingTable.Rows)
	require.Equal(t, [][]string{{"school closure", "AQI > 400", "—"}}, reports.EmergencyView.Rows)
	require.Empty(t, reports.Alerts)
	require.Equal(t, "No active alerts.", reports.AlertsTable.Empty)
}

func TestReportsAlerts(t *testing.T) {
	backend := newStubBackend()
	backend.responses["alerts"] = map[string]any{"active_alerts": []any{
		map[string]any{"type": "health", "severity": "high", "message": "Avoid outdoor exercise"},
	}}
	state := newTestService(backend).Reports(context.Background())
	require.Equal(t, [][]string{{"health", "high", "Avoid outdoor exercise"}}, state.Data.AlertsTable.Rows)
}

func TestReportsFailOnRequiredRead(t *testing.T) {
	backend := newStubBackend()
	backend.errs["emergency"] = errors.New("boom")
	state := newTestService(backend).Reports(context.Background())
	require.Equal(t, "boom", state.Error)
	require.Nil(t, state.Data)
}

func TestCloseDiscardsLaterLoads(t *testing.T) {
	backend := newStubBackend()
	svc := newTestService(backend)
	svc.Close()
	state := svc.Overview(context.Background())
	require.Nil(t, state.Data)
	require.Zero(t, backend.calls["current"])
}
