package dashboard

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/aqi-insight/internal/domain/aqi"
	"github.com/yanqian/aqi-insight/internal/domain/view"
)

const topSourceRows = 8

func (s *service) fetchOverview(ctx context.Context, _ struct{}) (Overview, error) {
	var current, sources, recs any
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		current, err = s.backend.CurrentForecast(gctx)
		return err
	})
	g.Go(func() (err error) {
		sources, err = s.backend.CurrentSources(gctx)
		return err
	})
	g.Go(func() (err error) {
		recs, err = s.backend.PolicyRecommendations(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	out := Overview{
		Reading:         reading(current),
		Sources:         sourceShares(sources),
		Recommendations: recommendations(recs),
	}
	presentOverview(&out)
	return out, nil
}

func presentOverview(o *Overview) {
	primary := view.Card{Title: "Primary Source", Value: "N/A"}
	if len(o.Sources) > 0 {
		primary.Value = view.Text(o.Sources[0].Source)
		primary.Caption = view.Percent(o.Sources[0].Fraction)
	}
	o.Cards = []view.Card{
		{
			Title: "Current AQI",
			Value: view.Number(o.Reading.AQI),
			Badge: o.Reading.Category,
			Color: aqi.ColorForCategory(o.Reading.Category),
		},
		primary,
		{
			Title:   "Interventions",
			Value:   strconv.Itoa(len(o.Recommendations)),
			Caption: "Recommended actions",
		},
		{Title: "Data Timestamp", Value: view.DateTime(o.Reading.Timestamp)},
	}

	o.TopSources = view.Table{
		Title:   "Top Sources",
		Columns: []string{"Source", "Contribution"},
		Empty:   "No source data available.",
	}
	for _, share := range view.Limit(o.Sources, topSourceRows) {
		o.TopSources.AddRow(view.Text(share.Source), view.Percent(share.Fraction))
	}

	o.Actions = make([]view.Card, 0, len(o.Recommendations))
	for _, rec := range o.Recommendations {
		card := view.Card{Title: rec.Title, Caption: rec.Description}
		if rec.ExpectedImpact != "" {
			card.Badge = "Impact: " + rec.ExpectedImpact
		}
		o.Actions = append(o.Actions, card)
	}
}
