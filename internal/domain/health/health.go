// Package health serves the static AQI guidance and the per-segment
// recommendations and alerts published by the backend.
package health

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/aqi-insight/internal/domain/aqi"
	"github.com/yanqian/aqi-insight/internal/domain/loader"
	"github.com/yanqian/aqi-insight/internal/domain/normalize"
	"github.com/yanqian/aqi-insight/internal/domain/view"
)

const screenName = "health"

// ProtectiveMeasures are the general precautions shown with the guidelines.
var ProtectiveMeasures = []string{
	"Use N95/FFP2 masks when outdoors",
	"Avoid strenuous outdoor activities during high pollution",
	"Use air purifiers at home and office",
	"Keep windows closed during peak pollution hours",
	"Stay hydrated and maintain a healthy diet",
	"Monitor air quality before planning outdoor activities",
}

// Band is the guideline matching a given AQI.
type Band struct {
	AQI      float64             `json:"aqi"`
	Category string              `json:"category"`
	Color    string              `json:"color"`
	Guide    aqi.HealthGuideline `json:"guideline"`
	Advice   string              `json:"advice"`
}

// Guide is the static health screen.
type Guide struct {
	Guidelines         view.Table `json:"guidelines"`
	ProtectiveMeasures []string   `json:"protectiveMeasures"`
	SensitiveGroups    string     `json:"sensitiveGroups"`
	Current            *Band      `json:"current,omitempty"`
}

// Alert is a published health alert.
type Alert struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	ValidUntil string `json:"valid_until,omitempty"`
}

// SegmentAdvice is the backend guidance for a population segment.
type SegmentAdvice struct {
	Segment            string     `json:"segment"`
	RiskLevel          string     `json:"risk_level,omitempty"`
	Recommendations    []string   `json:"recommendations"`
	ProtectiveMeasures []string   `json:"protective_measures"`
	Alerts             []Alert    `json:"alerts"`
	AlertsTable        view.Table `json:"alertsTable"`
}

// Backend is the slice of the AQI API the health screen reads.
type Backend interface {
	HealthRecommendations(ctx context.Context, segment string) (any, error)
	HealthAlerts(ctx context.Context) (any, error)
}

// Service exposes the health views.
type Service interface {
	Guide(value *float64) Guide
	Recommendations(ctx context.Context, segment string) loader.State[SegmentAdvice]
	Close()
}

type service struct {
	backend Backend
	logger  *slog.Logger
	advice  *loader.Group[string, string, SegmentAdvice]
}

// NewService wires the health domain.
func NewService(backend Backend, logger *slog.Logger) Service {
	s := &service{
		backend: backend,
		logger:  logger.With("component", "health.service"),
	}
	s.advice = loader.NewGroup[string](screenName, loader.DefaultGroupLimit, s.fetch, logger)
	return s
}

// Guide renders the guideline table. When value is set, the matching band
// and general advice are included.
func (s *service) Guide(value *float64) Guide {
	table := view.Table{Title: "AQI Health Recommendations", Columns: []string{"Range", "Advice"}}
	for _, g := range aqi.HealthGuidelines {
		table.AddRow(g.Range, g.Advice)
	}
	guide := Guide{
		Guidelines:         table,
		ProtectiveMeasures: ProtectiveMeasures,
		SensitiveGroups:    aqi.SensitiveGroupsNote,
	}
	if value != nil {
		category := aqi.Categorize(*value)
		guide.Current = &Band{
			AQI:      *value,
			Category: category,
			Color:    aqi.ColorForCategory(category),
			Guide:    aqi.GuidelineFor(*value),
			Advice:   aqi.GeneralAdvice(value),
		}
	}
	return guide
}

func (s *service) Recommendations(ctx context.Context, segment string) loader.State[SegmentAdvice] {
	segment = strings.TrimSpace(segment)
	return s.advice.Load(ctx, segment, segment)
}

func (s *service) Close() {
	s.advice.Close()
}

var (
	riskChain       = normalize.Chain{normalize.Field("health_risk_level"), normalize.Field("risk_level")}
	adviceListChain = normalize.Chain{normalize.Field("personalized_recommendations"), normalize.Field("recommendations"), normalize.Self()}
	protectiveChain = normalize.Chain{normalize.Field("protective_measures")}
	alertListChain  = normalize.Chain{normalize.Field("alerts"), normalize.Self()}
	alertTypeChain  = normalize.Chain{normalize.Field("alert_type"), normalize.Field("type")}
	alertSeverity   = normalize.Chain{normalize.Field("severity")}
	alertMessage    = normalize.Chain{normalize.Field("message")}
	alertValidUntil = normalize.Chain{normalize.Field("valid_until")}
)

func (s *service) fetch(ctx context.Context, segment string) (SegmentAdvice, error) {
	var recs, alerts any
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		recs, err = s.backend.HealthRecommendations(gctx, segment)
		return err
	})
	g.Go(func() (err error) {
		alerts, err = s.backend.HealthAlerts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return SegmentAdvice{}, err
	}

	out := SegmentAdvice{
		Segment:            segment,
		RiskLevel:          riskChain.String(recs),
		Recommendations:    texts(adviceListChain.List(recs)),
		ProtectiveMeasures: texts(protectiveChain.List(recs)),
		AlertsTable: view.Table{
			Title:   "Health Alerts",
			Columns: []string{"Type", "Severity", "Message"},
			Empty:   "No active alerts.",
		},
	}
	for _, obj := range normalize.Objects(alertListChain.List(alerts)) {
		alert := Alert{
			Type:       alertTypeChain.String(obj),
			Severity:   alertSeverity.String(obj),
			Message:    alertMessage.String(obj),
			ValidUntil: alertValidUntil.String(obj),
		}
		out.Alerts = append(out.Alerts, alert)
		out.AlertsTable.AddRow(view.Text(alert.Type), view.Text(alert.Severity), view.Text(alert.Message))
	}
	if out.Alerts == nil {
		out.Alerts = []Alert{}
	}
	s.logger.Info("health recommendations loaded", "segment", segment, "recommendations", len(out.Recommendations), "alerts", len(out.Alerts))
	return out, nil
}

func texts(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if text, ok := normalize.AsText(item); ok && text != "" {
			out = append(out, text)
		}
	}
	return out
}
