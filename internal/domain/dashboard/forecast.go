package dashboard

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/aqi-insight/internal/domain/aqi"
	"github.com/yanqian/aqi-insight/internal/domain/view"
)

const (
	historyWindow = 24 * time.Hour
	historyRows   = 50

	defaultHorizonHours = 72.0
)

func (s *service) fetchForecast(ctx context.Context, _ struct{}) (Forecast, error) {
	// Minute precision keeps the historical cache key stable across reloads.
	end := s.now().UTC().Truncate(time.Minute)
	start := end.Add(-historyWindow)

	var current, hyperlocal, historical any
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		current, err = s.backend.CurrentForecast(gctx)
		return err
	})
	g.Go(func() (err error) {
		hyperlocal, err = s.backend.HyperlocalForecast(gctx, HyperlocalSpot.Coordinates)
		return err
	})
	g.Go(func() (err error) {
		historical, err = s.backend.HistoricalForecast(gctx, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return Forecast{}, err
	}

	horizon := defaultHorizonHours
	if hours := horizonChain.Number(current); hours != nil && *hours > 0 {
		horizon = *hours
	}
	out := Forecast{
		Current:      reading(current),
		Hyperlocal:   reading(hyperlocal),
		Spot:         HyperlocalSpot,
		HorizonHours: horizon,
		Historical:   historicalRows(historical),
	}
	presentForecast(&out)
	return out, nil
}

func presentForecast(f *Forecast) {
	f.Cards = []view.Card{
		{
			Title: "Current AQI",
			Value: view.Number(f.Current.AQI),
			Badge: f.Current.Category,
			Color: aqi.ColorForCategory(f.Current.Category),
		},
		{
			Title: "Hyperlocal (" + f.Spot.Name + ")",
			Value: view.Number(f.Hyperlocal.AQI),
			Badge: f.Hyperlocal.Category,
			Color: aqi.ColorForCategory(f.Hyperlocal.Category),
		},
		{
			Title:   "Forecast Horizon",
			Value:   strconv.FormatFloat(f.HorizonHours, 'f', -1, 64) + "h",
			Caption: "Model horizon",
		},
	}

	f.History = view.Table{
		Title:   "Historical (Past 24h)",
		Columns: []string{"Timestamp", "AQI", "PM2.5", "PM10"},
		Empty:   "No AQI data",
	}
	for _, row := range view.Limit(f.Historical, historyRows) {
		f.History.AddRow(view.ClockTime(row.Timestamp), view.Number(row.AQI), view.Number(row.PM25), view.Number(row.PM10))
	}
}
