// Package dashboard assembles the policy dashboard screens. Each screen is a
// loader whose reads fan out concurrently and fail as a unit.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/yanqian/aqi-insight/internal/domain/aqi"
	"github.com/yanqian/aqi-insight/internal/domain/loader"
	"github.com/yanqian/aqi-insight/pkg/util"
)

// Screen names, also used as loader and metric labels.
const (
	ScreenOverview = "overview"
	ScreenForecast = "forecast"
	ScreenSources  = "sources"
	ScreenReports  = "reports"
)

// HyperlocalSpot is the fixed point the forecast screen zooms into.
var HyperlocalSpot = aqi.NamedLocation{Name: "Connaught Place", Coordinates: aqi.DefaultLocation.Coordinates}

// Backend is the slice of the AQI API the dashboard reads.
type Backend interface {
	CurrentForecast(ctx context.Context) (any, error)
	HyperlocalForecast(ctx context.Context, loc aqi.Coordinates) (any, error)
	HistoricalForecast(ctx context.Context, start, end time.Time) (any, error)
	CurrentSources(ctx context.Context) (any, error)
	RegionalSources(ctx context.Context) (any, error)
	FireHotspots(ctx context.Context) (any, error)
	SourceTrends(ctx context.Context) (any, error)
	PolicyRecommendations(ctx context.Context) (any, error)
	OngoingInterventions(ctx context.Context) (any, error)
	EmergencyResponse(ctx context.Context) (any, error)
	ActiveAlerts(ctx context.Context) (any, error)
}

// Service loads the dashboard screens. Screens take no input, so a refresh
// is simply another load.
type Service interface {
	Overview(ctx context.Context) loader.State[Overview]
	Forecast(ctx context.Context) loader.State[Forecast]
	Sources(ctx context.Context) loader.State[Sources]
	Reports(ctx context.Context) loader.State[Reports]
	Close()
}

type service struct {
	backend Backend
	logger  *slog.Logger
	now     func() time.Time

	overview *loader.Loader[struct{}, Overview]
	forecast *loader.Loader[struct{}, Forecast]
	sources  *loader.Loader[struct{}, Sources]
	reports  *loader.Loader[struct{}, Reports]
}

// NewService wires one loader per screen.
func NewService(backend Backend, logger *slog.Logger) Service {
	s := &service{
		backend: backend,
		logger:  logger.With("component", "dashboard.service"),
		now:     util.NowUTC,
	}
	s.overview = loader.New(ScreenOverview, s.fetchOverview, logger)
	s.forecast = loader.New(ScreenForecast, s.fetchForecast, logger)
	s.sources = loader.New(ScreenSources, s.fetchSources, logger)
	s.reports = loader.New(ScreenReports, s.fetchReports, logger)
	return s
}

func (s *service) Overview(ctx context.Context) loader.State[Overview] {
	return s.overview.Load(ctx, struct{}{})
}

func (s *service) Forecast(ctx context.Context) loader.State[Forecast] {
	return s.forecast.Load(ctx, struct{}{})
}

func (s *service) Sources(ctx context.Context) loader.State[Sources] {
	return s.sources.Load(ctx, struct{}{})
}

func (s *service) Reports(ctx context.Context) loader.State[Reports] {
	return s.reports.Load(ctx, struct{}{})
}

func (s *service) Close() {
	s.overview.Close()
	s.forecast.Close()
	s.sources.Close()
	s.reports.Close()
}
