package dashboard

import (
	"strconv"

	"github.com/yanqian/aqi-insight/internal/domain/aqi"
	"github.com/yanqian/aqi-insight/internal/domain/normalize"
)

var (
	readingAQIChain      = normalize.Chain{normalize.Field("aqi"), normalize.Field("current_aqi")}
	readingCategoryChain = normalize.Chain{normalize.Field("category"), normalize.Field("current_category")}
	timestampChain       = normalize.Chain{normalize.Field("timestamp")}
	horizonChain         = normalize.Chain{normalize.Field("forecast_horizon_hours")}

	sourceListChain   = normalize.Chain{normalize.Field("sources"), normalize.Field("source_breakdown"), normalize.Self()}
	sourceNameChain   = normalize.Chain{normalize.Field("source_type"), normalize.Field("source"), normalize.Field("name")}
	contributionChain = normalize.Chain{normalize.Field("contribution"), normalize.Const(0.0)}

	recommendationListChain = normalize.Chain{normalize.Field("recommendations"), normalize.Field("recommended_interventions"), normalize.Self()}
	recommendationTitle     = normalize.Chain{normalize.Field("title"), normalize.Field("measure")}
	recommendationDetail    = normalize.Chain{normalize.Field("description"), normalize.Field("type")}
	expectedImpactChain     = normalize.Chain{normalize.Field("expected_impact")}

	historicalListChain = normalize.Chain{normalize.Field("data"), normalize.Self()}
	historyTimeChain    = normalize.Chain{normalize.Field("timestamp"), normalize.Field("time"), normalize.Field("date")}
	historyAQIChain     = normalize.Chain{normalize.Field("aqi"), normalize.Field("avg_aqi")}
	pm25Chain           = normalize.Chain{normalize.Field("pm25"), normalize.Field("pm2_5")}
	pm10Chain           = normalize.Chain{normalize.Field("pm10")}

	regionalListChain = normalize.Chain{normalize.Field("regional"), normalize.Field("source_map"), normalize.Self()}
	regionNameChain   = normalize.Chain{normalize.Field("region"), normalize.Field("source_type")}

	fireListChain   = normalize.Chain{normalize.Field("fires"), normalize.Field("active_fires"), normalize.Self()}
	latitudeChain   = normalize.Chain{normalize.Field("latitude"), normalize.Field("lat")}
	longitudeChain  = normalize.Chain{normalize.Field("longitude"), normalize.Field("lon")}
	confidenceChain = normalize.Chain{normalize.Field("confidence")}

	ongoingListChain = normalize.Chain{normalize.Field("interventions"), normalize.Field("active_interventions"), normalize.Self()}
	ongoingNameChain = normalize.Chain{normalize.Field("name"), normalize.Field("measure")}
	statusChain      = normalize.Chain{normalize.Field("status"), normalize.Const("active")}

	emergencyListChain = normalize.Chain{normalize.Field("measures"), normalize.Field("immediate_actions"), normalize.Self()}
	actionChain        = normalize.Chain{normalize.Field("action"), normalize.Field("measure")}
	triggerChain       = normalize.Chain{normalize.Field("trigger"), normalize.Field("reason")}
	notesChain         = normalize.Chain{normalize.Field("notes")}

	trendListChain     = normalize.Chain{normalize.Field("trend_data"), normalize.Field("time_series"), normalize.Self()}
	anomalyListChain   = normalize.Chain{normalize.Field("anomalies")}
	anomalySourceChain = normalize.Chain{normalize.Field("source"), normalize.Field("source_type")}
	deviationChain     = normalize.Chain{normalize.Field("deviation_pct")}

	alertListChain = normalize.Chain{normalize.Field("alerts"), normalize.Field("active_alerts"), normalize.Self()}
	alertType      = normalize.Chain{normalize.Field("type"), normalize.Field("alert_type")}
	alertSeverity  = normalize.Chain{normalize.Field("severity"), normalize.Field("level")}
	alertMessage   = normalize.Chain{normalize.Field("message"), normalize.Field("description")}
)

// reading reads the current AQI block. The category falls back to the
// mapper when the backend omits it.
func reading(doc any) aqi.Reading {
	value := readingAQIChain.Number(doc)
	category := readingCategoryChain.String(doc)
	if category == "" {
		category = aqi.CategoryForAQI(value)
	}
	return aqi.Reading{AQI: value, Category: category, Timestamp: timestampChain.String(doc)}
}

// sourceShares reads the dashboard list shape, where contribution is
// already a fraction.
func sourceShares(doc any) []aqi.SourceShare {
	items := normalize.Objects(sourceListChain.List(doc))
	out := make([]aqi.SourceShare, 0, len(items))
	for _, obj := range items {
		out = append(out, aqi.SourceShare{
			Source:   sourceNameChain.String(obj),
			Fraction: *contributionChain.Number(obj),
		})
	}
	return out
}

func recommendations(doc any) []Recommendation {
	items := normalize.Objects(recommendationListChain.List(doc))
	out := make([]Recommendation, 0, len(items))
	for i, obj := range items {
		title := recommendationTitle.String(obj)
		if title == "" {
			title = "Recommendation " + strconv.Itoa(i+1)
		}
		out = append(out, Recommendation{
			Title:          title,
			Description:    recommendationDetail.String(obj),
			ExpectedImpact: expectedImpactChain.String(obj),
		})
	}
	return out
}

func historicalRows(doc any) []HistoricalRow {
	items := normalize.Objects(historicalListChain.List(doc))
	out := make([]HistoricalRow, 0, len(items))
	for _, obj := range items {
		out = append(out, HistoricalRow{
			Timestamp: historyTimeChain.String(obj),
			AQI:       historyAQIChain.Number(obj),
			PM25:      pm25Chain.Number(obj),
			PM10:      pm10Chain.Number(obj),
		})
	}
	return out
}

func regionalShares(doc any) []RegionalShare {
	items := normalize.Objects(regionalListChain.List(doc))
	out := make([]RegionalShare, 0, len(items))
	for _, obj := range items {
		out = append(out, RegionalShare{
			Region:   regionNameChain.String(obj),
			Fraction: *contributionChain.Number(obj),
		})
	}
	return out
}

func fireHotspots(doc any) []FireHotspot {
	items := normalize.Objects(fireListChain.List(doc))
	out := make([]FireHotspot, 0, len(items))
	for _, obj := range items {
		out = append(out, FireHotspot{
			Latitude:   latitudeChain.Number(obj),
			Longitude:  longitudeChain.Number(obj),
			Confidence: confidenceChain.String(obj),
		})
	}
	return out
}

func interventions(doc any) []Intervention {
	items := normalize.Objects(ongoingListChain.List(doc))
	out := make([]Intervention, 0, len(items))
	for _, obj := range items {
		out = append(out, Intervention{
			Name:           ongoingNameChain.String(obj),
			Status:         statusChain.String(obj),
			ExpectedImpact: expectedImpactChain.String(obj),
		})
	}
	return out
}

func emergencyActions(doc any) []EmergencyAction {
	items := normalize.Objects(emergencyListChain.List(doc))
	out := make([]EmergencyAction, 0, len(items))
	for _, obj := range items {
		out = append(out, EmergencyAction{
			Action:  actionChain.String(obj),
			Trigger: triggerChain.String(obj),
			Notes:   notesChain.String(obj),
		})
	}
	return out
}

func alerts(doc any) []Alert {
	items := normalize.Objects(alertListChain.List(doc))
	out := make([]Alert, 0, len(items))
	for _, obj := range items {
		out = append(out, Alert{
			Type:     alertType.String(obj),
			Severity: alertSeverity.String(obj),
			Message:  alertMessage.String(obj),
		})
	}
	return out
}

// trendPoints reads the time series, where every numeric field of a step is
// a source percentage.
func trendPoints(doc any) []TrendPoint {
	items := normalize.Objects(trendListChain.List(doc))
	out := make([]TrendPoint, 0, len(items))
	for _, obj := range items {
		breakdown := aqi.SourceBreakdown{}
		for key, raw := range obj {
			if key == "timestamp" {
				continue
			}
			if percent, ok := normalize.AsNumber(raw); ok {
				breakdown[key] = aqi.FromPercent(percent)
			}
		}
		out = append(out, TrendPoint{
			Timestamp: timestampChain.String(obj),
			Shares:    breakdown.Ranked(),
		})
	}
	return out
}

func trendAnomalies(doc any) []TrendAnomaly {
	items := normalize.Objects(anomalyListChain.List(doc))
	out := make([]TrendAnomaly, 0, len(items))
	for _, obj := range items {
		out = append(out, TrendAnomaly{
			Timestamp:    timestampChain.String(obj),
			Source:       anomalySourceChain.String(obj),
			DeviationPct: deviationChain.Number(obj),
			Severity:     alertSeverity.String(obj),
		})
	}
	return out
}
