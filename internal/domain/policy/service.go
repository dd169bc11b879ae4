// Package policy submits intervention simulations, cost-benefit comparisons
// and route exposure requests. None of these calls are cached.
package policy

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/yanqian/aqi-insight/internal/domain/aqi"
	"github.com/yanqian/aqi-insight/internal/domain/normalize"
	"github.com/yanqian/aqi-insight/internal/domain/view"
	apperrors "github.com/yanqian/aqi-insight/pkg/errors"
)

// Backend is the slice of the AQI API used for policy work.
type Backend interface {
	SimulatePolicy(ctx context.Context, payload any) (any, error)
	CostBenefitAnalysis(ctx context.Context, payload any) (any, error)
	RouteForecast(ctx context.Context, waypoints []aqi.Coordinates) (any, error)
}

// Service exposes the policy operations.
type Service interface {
	Simulate(ctx context.Context, req SimulationRequest) (Simulation, error)
	CostBenefit(ctx context.Context, req CostBenefitRequest) (CostBenefit, error)
	Route(ctx context.Context, req RouteRequest) (RouteForecast, error)
}

type service struct {
	backend Backend
	logger  *slog.Logger
}

// NewService wires the policy domain.
func NewService(backend Backend, logger *slog.Logger) Service {
	return &service{
		backend: backend,
		logger:  logger.With("component", "policy.service"),
	}
}

var (
	reductionChain  = normalize.Chain{normalize.Field("expected_reduction")}
	confidenceChain = normalize.Chain{normalize.Field("confidence")}
	timeframeChain  = normalize.Chain{normalize.Field("timeframe")}
	durationChain   = normalize.Chain{normalize.Field("duration")}
	notesChain      = normalize.Chain{normalize.Field("notes")}

	costsChain    = normalize.Chain{normalize.Field("cost_analysis")}
	benefitsChain = normalize.Chain{normalize.Field("benefit_analysis")}
	roiChain      = normalize.Chain{normalize.Field("roi_comparison")}
	optimalChain  = normalize.Chain{normalize.Field("optimal_portfolio")}

	exposureChain        = normalize.Chain{normalize.Field("pollution_exposure")}
	routeAdviceChain     = normalize.Chain{normalize.Field("recommendations")}
	alternativeListChain = normalize.Chain{normalize.Field("alternative_routes")}
)

func (s *service) Simulate(ctx context.Context, req SimulationRequest) (Simulation, error) {
	if err := req.Validate(); err != nil {
		return Simulation{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}

	doc, err := s.backend.SimulatePolicy(ctx, req)
	if err != nil {
		return Simulation{}, apperrors.Wrap(apperrors.CodeUpstreamError, "policy simulation failed", err)
	}

	result := SimulationResult{
		ExpectedReduction: reductionChain.Number(doc),
		Confidence:        optionalText(confidenceChain, doc),
		Timeframe:         optionalText(timeframeChain, doc),
		Duration:          optionalText(durationChain, doc),
		Notes:             optionalText(notesChain, doc),
	}
	s.logger.Info("policy simulated",
		"measure", req.Measure,
		"intensity", req.Intensity,
		"durationDays", req.DurationDays,
		"expectedReduction", view.PercentOrPlaceholder(result.ExpectedReduction),
	)
	return Simulation{Request: req, Result: result, View: Present(req, result)}, nil
}

// Present renders a result. Absent fields become placeholders.
func Present(req SimulationRequest, result SimulationResult) SimulationView {
	out := SimulationView{
		ExpectedReduction: view.PercentOrPlaceholder(result.ExpectedReduction),
		Confidence:        view.Placeholder,
		Timeframe:         strconv.Itoa(req.DurationDays) + "d",
	}
	if result.Confidence != nil {
		out.Confidence = *result.Confidence
	}
	switch {
	case result.Timeframe != nil:
		out.Timeframe = *result.Timeframe
	case result.Duration != nil:
		out.Timeframe = *result.Duration
	}
	if result.Notes != nil {
		out.Notes = *result.Notes
	}
	return out
}

func (s *service) CostBenefit(ctx context.Context, req CostBenefitRequest) (CostBenefit, error) {
	if err := req.Validate(); err != nil {
		return CostBenefit{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	doc, err := s.backend.CostBenefitAnalysis(ctx, req)
	if err != nil {
		return CostBenefit{}, apperrors.Wrap(apperrors.CodeUpstreamError, "cost-benefit analysis failed", err)
	}
	roi, _ := roiChain.Resolve(doc)
	optimal, _ := optimalChain.Resolve(doc)
	return CostBenefit{
		Request:  req,
		Costs:    costsChain.Object(doc),
		Benefits: benefitsChain.Object(doc),
		ROI:      roi,
		Optimal:  optimal,
	}, nil
}

func (s *service) Route(ctx context.Context, req RouteRequest) (RouteForecast, error) {
	if err := req.Validate(); err != nil {
		return RouteForecast{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	doc, err := s.backend.RouteForecast(ctx, req.Waypoints)
	if err != nil {
		return RouteForecast{}, apperrors.Wrap(apperrors.CodeUpstreamError, "route forecast failed", err)
	}
	advice := make([]string, 0)
	for _, item := range routeAdviceChain.List(doc) {
		if text, ok := normalize.AsText(item); ok && text != "" {
			advice = append(advice, text)
		}
	}
	return RouteForecast{
		Waypoints:       req.Waypoints,
		Exposure:        exposureChain.Object(doc),
		Recommendations: advice,
		Alternatives:    alternativeListChain.List(doc),
	}, nil
}

func optionalText(chain normalize.Chain, doc any) *string {
	text := chain.String(doc)
	if text == "" {
		return nil
	}
	return &text
}
