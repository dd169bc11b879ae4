// Package mobile assembles the mobile home screen: current AQI, hourly and
// extended forecasts and the source breakdown for the device location.
package mobile

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/aqi-insight/internal/domain/aqi"
	"github.com/yanqian/aqi-insight/internal/domain/loader"
	"github.com/yanqian/aqi-insight/internal/domain/view"
	"github.com/yanqian/aqi-insight/internal/infra/location"
	"github.com/yanqian/aqi-insight/pkg/util"
)

const (
	forecastHours   = 24
	chartPoints     = 9
	chartHeight     = 150
	nextHoursRows   = 6
	homeScreenTitle = "home"
)

// Backend is the slice of the AQI API the home screen reads.
type Backend interface {
	CurrentForecastAt(ctx context.Context, loc aqi.Coordinates, hours int) (any, error)
	HourlyForecast(ctx context.Context, loc aqi.Coordinates, hours int) (any, error)
	CurrentSourcesAt(ctx context.Context, loc aqi.Coordinates) (any, error)
}

// Service loads the home screen. State is kept per resolved location, so a
// caller only ever sees the payload and errors of its own location.
type Service interface {
	Load(ctx context.Context, locator location.Locator) loader.State[Home]
	Refresh(ctx context.Context, locator location.Locator) loader.State[Home]
	Close()
}

type service struct {
	backend  Backend
	resolver *location.Resolver
	logger   *slog.Logger
	now      func() time.Time
	homes    *loader.Group[aqi.NamedLocation, aqi.NamedLocation, Home]
}

// NewService wires the home screen loader.
func NewService(backend Backend, resolver *location.Resolver, logger *slog.Logger) Service {
	s := &service{
		backend:  backend,
		resolver: resolver,
		logger:   logger.With("component", "mobile.service"),
		now:      util.NowUTC,
	}
	s.homes = loader.NewGroup[aqi.NamedLocation](homeScreenTitle, loader.DefaultGroupLimit, s.fetch, logger)
	return s
}

func (s *service) Load(ctx context.Context, locator location.Locator) loader.State[Home] {
	loc := s.resolver.Resolve(ctx, locator)
	return s.homes.Load(ctx, loc, loc)
}

func (s *service) Refresh(ctx context.Context, locator location.Locator) loader.State[Home] {
	loc := s.resolver.Resolve(ctx, locator)
	if state, ok := s.homes.Refresh(ctx, loc); ok {
		return state
	}
	return s.homes.Load(ctx, loc, loc)
}

func (s *service) Close() {
	s.homes.Close()
}

func (s *service) fetch(ctx context.Context, loc aqi.NamedLocation) (Home, error) {
	var current, hourly, sources any
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.backend.CurrentForecastAt(gctx, loc.Coordinates, forecastHours)
		return err
	})
	g.Go(func() error {
		var err error
		hourly, err = s.backend.HourlyForecast(gctx, loc.Coordinates, forecastHours)
		return err
	})
	g.Go(func() error {
		var err error
		sources, err = s.backend.CurrentSourcesAt(gctx, loc.Coordinates)
		return err
	})
	if err := g.Wait(); err != nil {
		return Home{}, err
	}

	home := s.merge(loc, current, hourly, sources)
	s.logger.Info("home screen loaded",
		"location", loc.Name,
		"aqi", view.Number(home.CurrentAQI),
		"hourly", len(home.HourlyForecast),
	)
	return home, nil
}

// merge normalizes the three responses into one payload.
func (s *service) merge(loc aqi.NamedLocation, current, hourly, sources any) Home {
	currentAQI := currentAQIChain.Number(current)
	category := currentCategoryChain.String(current)
	if category == "" {
		category = aqi.CategoryForAQI(currentAQI)
	}
	timestamp := timestampChain.String(current)
	if timestamp == "" {
		timestamp = util.ISO8601(s.now())
	}

	home := Home{
		Location:              loc,
		CurrentAQI:            currentAQI,
		CurrentCategory:       category,
		Timestamp:             timestamp,
		HourlyForecast:        forecastPoints(hourlyChain.List(hourly)),
		ExtendedForecast:      forecastPoints(extendedChain.List(current)),
		SourceBreakdown:       percentBreakdown(breakdownChain.Object(sources)),
		HealthRecommendations: textList(recommendationsChain.List(current)),
	}
	home.View = present(home)
	return home
}

func present(home Home) HomeView {
	card := view.Card{
		Title:   "Current AQI",
		Value:   view.Number(home.CurrentAQI),
		Badge:   home.CurrentCategory,
		Color:   aqi.ColorForCategory(home.CurrentCategory),
		Caption: view.ClockTime(home.Timestamp),
	}

	ranked := home.SourceBreakdown.Ranked()
	sources := make([]view.Bar, 0, len(ranked))
	for _, share := range ranked {
		sources = append(sources, view.Bar{
			Label:  fmt.Sprintf("%s: %s", share.Source, view.Percent(share.Fraction)),
			Value:  share.Fraction,
			Height: math.Round(share.Fraction*1000) / 10,
			Color:  aqi.SourceColor(share.Source),
		})
	}

	extended := view.Limit(home.ExtendedForecast, chartPoints)
	bars := make([]view.Bar, 0, len(extended))
	for _, point := range extended {
		bar := view.Bar{
			Label: view.HourLabel(point.Time),
			Color: aqi.ColorForCategory(point.Category),
		}
		if point.AQI != nil {
			bar.Value = *point.AQI
		}
		bars = append(bars, bar)
	}

	next := view.Table{
		Title:   "Next 6 Hours",
		Columns: []string{"Time", "AQI", "Category"},
		Empty:   "No hourly forecast available",
	}
	for _, point := range view.Limit(home.HourlyForecast, nextHoursRows) {
		hour := view.Placeholder
		if t, ok := view.ParseTime(point.Time); ok {
			hour = fmt.Sprintf("%d:00", t.Hour())
		}
		next.AddRow(hour, "AQI "+view.Number(point.AQI), point.Category)
	}

	return HomeView{
		AQICard:         card,
		Sources:         sources,
		Advice:          aqi.GeneralAdvice(home.CurrentAQI),
		Recommendations: home.HealthRecommendations,
		QuickTips:       aqi.QuickTips,
		Forecast:        view.NewBarChart("72-Hour Forecast", chartHeight, bars),
		NextHours:       next,
	}
}
