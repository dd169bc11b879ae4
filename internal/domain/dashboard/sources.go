package dashboard

import (
	"context"
	"math"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/aqi-insight/internal/domain/aqi"
	"github.com/yanqian/aqi-insight/internal/domain/view"
)

const (
	trendRows       = 12
	hotspotRows     = 40
	mixChartHeight  = 100
	noSourceDataMsg = "No source data"
)

func (s *service) fetchSources(ctx context.Context, _ struct{}) (Sources, error) {
	var current, regional, fires, trends any
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		current, err = s.backend.CurrentSources(gctx)
		return err
	})
	g.Go(func() (err error) {
		regional, err = s.backend.RegionalSources(gctx)
		return err
	})
	g.Go(func() (err error) {
		fires, err = s.backend.FireHotspots(gctx)
		return err
	})
	g.Go(func() (err error) {
		trends, err = s.backend.SourceTrends(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Sources{}, err
	}

	out := Sources{
		Current:   sourceShares(current),
		Regional:  regionalShares(regional),
		Fires:     fireHotspots(fires),
		Trends:    trendPoints(trends),
		Anomalies: trendAnomalies(trends),
	}
	presentSources(&out)
	return out, nil
}

func presentSources(s *Sources) {
	top := view.Card{Title: "Top Source Now", Value: "N/A"}
	if len(s.Current) > 0 {
		top.Value = view.Text(s.Current[0].Source)
		top.Caption = view.Percent(s.Current[0].Fraction)
		top.Color = aqi.SourceColor(s.Current[0].Source)
	}
	s.Cards = []view.Card{
		top,
		{Title: "Active Fires", Value: strconv.Itoa(len(s.Fires)), Caption: "Detected hotspots"},
	}

	s.Mix = view.Table{Title: "Current Source Mix", Columns: []string{"Source", "Contribution"}, Empty: "No source data available."}
	bars := make([]view.Bar, 0, len(s.Current))
	for _, share := range s.Current {
		s.Mix.AddRow(view.Text(share.Source), view.Percent(share.Fraction))
		bars = append(bars, view.Bar{
			Label: view.Text(share.Source),
			Value: math.Round(share.Fraction*10000) / 100,
			Color: aqi.SourceColor(share.Source),
		})
	}
	s.MixChart = view.NewBarChart("Contribution %", mixChartHeight, bars)
	if len(bars) == 0 {
		s.MixChart.Empty = noSourceDataMsg
	}

	s.Regions = view.Table{Title: "Regional Transport", Columns: []string{"Region", "Contribution"}, Empty: "No source data available."}
	for _, region := range s.Regional {
		s.Regions.AddRow(view.Text(region.Region), view.Percent(region.Fraction))
	}

	s.Hotspots = view.Table{Title: "Fire Hotspots (sample)", Columns: []string{"Lat", "Lon", "Confidence"}, Empty: "No fire hotspots detected."}
	for _, fire := range view.Limit(s.Fires, hotspotRows) {
		s.Hotspots.AddRow(view.Fixed(fire.Latitude, 2), view.Fixed(fire.Longitude, 2), view.Text(fire.Confidence))
	}

	// The most recent steps, newest last.
	s.TrendView = view.Table{Title: "Source Trends", Columns: []string{"Time", "Dominant Source", "Contribution"}, Empty: "No trend data available."}
	recent := s.Trends
	if len(recent) > trendRows {
		recent = recent[len(recent)-trendRows:]
	}
	for _, point := range recent {
		dominant, share := view.Placeholder, view.Placeholder
		if len(point.Shares) > 0 {
			dominant = view.Text(point.Shares[0].Source)
			share = view.Percent(point.Shares[0].Fraction)
		}
		s.TrendView.AddRow(view.DateTime(point.Timestamp), dominant, share)
	}

	s.Anomaly = view.Table{Title: "Anomalies", Columns: []string{"Time", "Source", "Deviation", "Severity"}, Empty: "No anomalies detected."}
	for _, a := range s.Anomalies {
		s.Anomaly.AddRow(view.DateTime(a.Timestamp), view.Text(a.Source), deviationLabel(a.DeviationPct), view.Text(a.Severity))
	}
}

func deviationLabel(pct *float64) string {
	if pct == nil {
		return view.Placeholder
	}
	return view.Fixed(pct, 1) + "%"
}
