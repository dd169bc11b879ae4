package mobile

import (
	"slices"

	"github.com/yanqian/aqi-insight/internal/domain/aqi"
	"github.com/yanqian/aqi-insight/internal/domain/normalize"
	"github.com/yanqian/aqi-insight/internal/domain/view"
)

var (
	currentAQIChain      = normalize.Chain{normalize.Field("current_aqi"), normalize.Field("aqi")}
	currentCategoryChain = normalize.Chain{normalize.Field("current_category"), normalize.Field("category")}
	timestampChain       = normalize.Chain{normalize.Field("timestamp")}
	hourlyChain          = normalize.Chain{normalize.Field("hourly_forecast"), normalize.Self()}
	extendedChain        = normalize.Chain{normalize.Field("extended_forecast")}
	recommendationsChain = normalize.Chain{normalize.Field("health_recommendations")}
	breakdownChain       = normalize.Chain{normalize.Field("source_breakdown"), normalize.Field("breakdown")}
	pointTimeChain       = normalize.Chain{normalize.Field("time"), normalize.Field("timestamp")}
	pointAQIChain        = normalize.Chain{normalize.Field("aqi"), normalize.Field("predicted_aqi")}
	pointCategoryChain   = normalize.Chain{normalize.Field("category")}
)

// forecastPoints reads the object entries of items in chronological order.
// Entries without an AQI are kept with a nil value. A missing category is
// derived from the AQI. Unparseable times sort last in backend order.
func forecastPoints(items []any) []aqi.ForecastPoint {
	out := make([]aqi.ForecastPoint, 0, len(items))
	for _, obj := range normalize.Objects(items) {
		value := pointAQIChain.Number(obj)
		category := pointCategoryChain.String(obj)
		if category == "" {
			category = aqi.CategoryForAQI(value)
		}
		out = append(out, aqi.ForecastPoint{
			Time:     pointTimeChain.String(obj),
			AQI:      value,
			Category: category,
		})
	}
	slices.SortStableFunc(out, compareForecastTime)
	return out
}

func compareForecastTime(a, b aqi.ForecastPoint) int {
	ta, okA := view.ParseTime(a.Time)
	tb, okB := view.ParseTime(b.Time)
	switch {
	case okA && okB:
		return ta.Compare(tb)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return 0
	}
}

// percentBreakdown reads a source -> percent map into fractions.
func percentBreakdown(obj map[string]any) aqi.SourceBreakdown {
	out := make(aqi.SourceBreakdown, len(obj))
	for source, raw := range obj {
		if percent, ok := normalize.AsNumber(raw); ok {
			out[source] = aqi.FromPercent(percent)
		}
	}
	return out
}

func textList(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := normalize.AsText(item); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
