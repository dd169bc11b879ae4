package mobile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/aqi-insight/internal/domain/aqi"
	"github.com/yanqian/aqi-insight/internal/infra/location"
)

type stubBackend struct {
	mu       sync.Mutex
	current  any
	hourly   any
	sources  any
	err      error
	seenLocs []aqi.Coordinates
}

func (s *stubBackend) record(loc aqi.Coordinates) {
	s.mu.Lock()
	s.seenLocs = append(s.seenLocs, loc)
	s.mu.Unlock()
}

func (s *stubBackend) CurrentForecastAt(_ context.Context, loc aqi.Coordinates, _ int) (any, error) {
	s.record(loc)
	return s.current, nil
}

func (s *stubBackend) HourlyForecast(_ context.Context, loc aqi.Coordinates, _ int) (any, error) {
	s.record(loc)
	return s.hourly, nil
}

func (s *stubBackend) CurrentSourcesAt(_ context.Context, loc aqi.Coordinates) (any, error) {
	s.record(loc)
	if s.err != nil {
		return nil, s.err
	}
	return s.sources, nil
}

func newTestService(backend Backend) *service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(backend, location.NewResolver(aqi.DefaultLocation, logger), logger).(*service)
	svc.now = func() time.Time { return time.Date(2024, 11, 3, 9, 30, 0, 0, time.UTC) }
	return svc
}

func TestLoadDerivesCategoryFromAQI(t *testing.T) {
	backend := &stubBackend{
		current: map[string]any{"current_aqi": 287.0},
		hourly:  []any{},
		sources: map[string]any{},
	}
	svc := newTestService(backend)

	state := svc.Load(context.Background(), location.Reported{Latitude: "28.6", Longitude: "77.2"})
	require.Empty(t, state.Error)
	require.False(t, state.Loading)
	require.NotNil(t, state.Data)

	home := state.Data
	require.Equal(t, 287.0, *home.CurrentAQI)
	require.Equal(t, "Poor", home.CurrentCategory)
	require.Equal(t, "2024-11-03T09:30:00.000Z", home.Timestamp)
	require.Equal(t, "#ff9933", home.View.AQICard.Color)
	require.Equal(t, "Health alert: everyone may begin to experience health effects.", home.View.Advice)
	require.Equal(t, "No forecast data available", home.View.Forecast.Empty)
}

func TestLoadPrefersBackendCategory(t *testing.T) {
	backend := &stubBackend{
		current: map[string]any{"aqi": 287.0, "category": "Very Poor"},
		hourly:  map[string]any{},
		sources: map[string]any{},
	}
	state := newTestService(backend).Load(context.Background(), nil)
	require.Equal(t, "Very Poor", state.Data.CurrentCategory)
	require.Equal(t, 287.0, *state.Data.CurrentAQI)
}

func TestLoadWithoutAQIIsUnknown(t *testing.T) {
	backend := &stubBackend{current: map[string]any{}, hourly: nil, sources: nil}
	state := newTestService(backend).Load(context.Background(), nil)
	require.Nil(t, state.Data.CurrentAQI)
	require.Equal(t, "Unknown", state.Data.CurrentCategory)
	require.Equal(t, "#555", state.Data.View.AQICard.Color)
	require.Equal(t, "—", state.Data.View.AQICard.Value)
	require.Empty(t, state.Data.HourlyForecast)
	require.Empty(t, state.Data.SourceBreakdown)
}

func TestLoadFallsBackToDefaultLocation(t *testing.T) {
	backend := &stubBackend{current: map[string]any{"current_aqi": 90.0}}
	state := newTestService(backend).Load(context.Background(), location.Reported{Denied: true})

	require.Empty(t, state.Error)
	require.Equal(t, "New Delhi", state.Data.Location.Name)
	for _, loc := range backend.seenLocs {
		require.Equal(t, aqi.Coordinates{Latitude: 28.6139, Longitude: 77.2090}, loc)
	}
	require.Len(t, backend.seenLocs, 3)
}

func TestLoadNormalizesShapes(t *testing.T) {
	backend := &stubBackend{
		current: map[string]any{
			"current_aqi":      150.0,
			"current_category": "Moderate",
			"timestamp":        "2024-11-03T14:05:00",
			"extended_forecast": []any{
				map[string]any{"time": "2024-11-03T15:00:00", "aqi": 100.0},
				map[string]any{"time": "2024-11-03T16:00:00", "aqi": 200.0, "category": "Moderate"},
				"not-a-point",
			},
			"health_recommendations": []any{"Wear a mask", ""},
		},
		hourly: []any{
			map[string]any{"time": "2024-11-03T15:00:00", "aqi": 140.0, "category": "Moderate"},
		},
		sources: map[string]any{"breakdown": map[string]any{"Traffic": 35.0, "Stubble Burning": 45.0, "Dust": "20"}},
	}
	home := newTestService(backend).Load(context.Background(), nil).Data

	require.Len(t, home.ExtendedForecast, 2)
	require.Equal(t, "Satisfactory", home.ExtendedForecast[0].Category)
	require.Equal(t, []string{"Wear a mask"}, home.HealthRecommendations)
	require.InDelta(t, 0.45, home.SourceBreakdown["Stubble Burning"], 1e-9)
	require.InDelta(t, 0.2, home.SourceBreakdown["Dust"], 1e-9)

	bars := home.View.Forecast.Bars
	require.Equal(t, "15h", bars[0].Label)
	require.Equal(t, 75.0, bars[0].Height)
	require.Equal(t, 150.0, bars[1].Height)

	sources := home.View.Sources
	require.Equal(t, "Stubble Burning: 45.0%", sources[0].Label)
	require.Equal(t, "#8B4513", sources[0].Color)
	require.Equal(t, "#555", sources[2].Color)

	require.Equal(t, [][]string{{"15:00", "AQI 140", "Moderate"}}, home.View.NextHours.Rows)
	require.Equal(t, "14:05:00", home.View.AQICard.Caption)
}

func TestLoadFailureKeepsPreviousData(t *testing.T) {
	backend := &stubBackend{
		current: map[string]any{"current_aqi": 42.0},
		sources: map[string]any{},
	}
	svc := newTestService(backend)
	first := svc.Load(context.Background(), nil)
	require.Empty(t, first.Error)

	backend.err = errors.New("GET /sources/current failed with status code 500")
	second := svc.Refresh(context.Background(), nil)
	require.Equal(t, "GET /sources/current failed with status code 500", second.Error)
	require.NotNil(t, second.Data)
	require.Equal(t, 42.0, *second.Data.CurrentAQI)
}

// latitudeBackend answers with the requested latitude as the AQI and blocks
// reads for one latitude until released.
type latitudeBackend struct {
	blockLat float64
	release  chan struct{}
	entered  chan struct{}
	once     sync.Once
}

func (b *latitudeBackend) CurrentForecastAt(ctx context.Context, loc aqi.Coordinates, _ int) (any, error) {
	if loc.Latitude == b.blockLat {
		b.once.Do(func() { close(b.entered) })
		select {
		case <-b.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return map[string]any{"current_aqi": loc.Latitude}, nil
}

func (b *latitudeBackend) HourlyForecast(context.Context, aqi.Coordinates, int) (any, error) {
	return []any{}, nil
}

func (b *latitudeBackend) CurrentSourcesAt(context.Context, aqi.Coordinates) (any, error) {
	return map[string]any{}, nil
}

func TestConcurrentLoadsForDifferentLocationsStaySeparate(t *testing.T) {
	backend := &latitudeBackend{blockLat: 10, release: make(chan struct{}), entered: make(chan struct{})}
	svc := newTestService(backend)

	first := make(chan Home, 1)
	go func() {
		state := svc.Load(context.Background(), location.Reported{Latitude: "10", Longitude: "77"})
		if state.Data != nil {
			first <- *state.Data
		}
		close(first)
	}()
	<-backend.entered

	second := svc.Load(context.Background(), location.Reported{Latitude: "20", Longitude: "77"})
	require.Equal(t, 20.0, *second.Data.CurrentAQI)

	close(backend.release)
	home, ok := <-first
	require.True(t, ok)
	require.Equal(t, 10.0, home.Location.Latitude)
	require.Equal(t, 10.0, *home.CurrentAQI)

	refreshed := svc.Refresh(context.Background(), location.Reported{Latitude: "20", Longitude: "77"})
	require.Equal(t, 20.0, *refreshed.Data.CurrentAQI)
}

func TestFailureForOneLocationDoesNotShowAnothersData(t *testing.T) {
	backend := &stubBackend{current: map[string]any{"current_aqi": 42.0}, sources: map[string]any{}}
	svc := newTestService(backend)
	require.Empty(t, svc.Load(context.Background(), nil).Error)

	backend.err = errors.New("GET /sources/current failed with status code 500")
	state := svc.Load(context.Background(), location.Reported{Latitude: "19.076", Longitude: "72.8777"})
	require.Nil(t, state.Data)
	require.Equal(t, "GET /sources/current failed with status code 500", state.Error)
}

func TestHourlyForecastIsSortedChronologically(t *testing.T) {
	hourly := []any{
		map[string]any{"time": "2024-11-03T17:00:00", "aqi": 170.0},
		map[string]any{"time": "not a time", "aqi": 1.0},
		map[string]any{"time": "2024-11-03T15:00:00", "aqi": 150.0},
		map[string]any{"aqi": 2.0},
		map[string]any{"time": "2024-11-03T16:00:00Z", "aqi": 160.0},
	}
	backend := &stubBackend{current: map[string]any{}, hourly: hourly, sources: map[string]any{}}
	home := newTestService(backend).Load(context.Background(), nil).Data

	values := make([]string, 0, len(home.HourlyForecast))
	for _, point := range home.HourlyForecast {
		values = append(values, strconv.FormatFloat(*point.AQI, 'f', -1, 64))
	}
	require.Equal(t, []string{"150", "160", "170", "1", "2"}, values)
	require.Equal(t, []string{"15:00", "AQI 150", "Moderate"}, home.View.NextHours.Rows[0])
}

func TestForecastEntriesWithoutAQIAreKept(t *testing.T) {
	hourly := []any{
		map[string]any{"time": "2024-11-03T15:00:00", "aqi": 140.0},
		map[string]any{"time": "2024-11-03T16:00:00"},
	}
	backend := &stubBackend{current: map[string]any{}, hourly: hourly, sources: map[string]any{}}
	home := newTestService(backend).Load(context.Background(), nil).Data

	require.Len(t, home.HourlyForecast, 2)
	require.Nil(t, home.HourlyForecast[1].AQI)
	require.Equal(t, "Unknown", home.HourlyForecast[1].Category)
	require.Equal(t, []string{"16:00", "AQI —", "Unknown"}, home.View.NextHours.Rows[1])
}
