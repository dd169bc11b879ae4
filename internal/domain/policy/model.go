package policy

import (
	"fmt"

	"github.com/yanqian/aqi-insight/internal/domain/aqi"
)

// Measure identifies a simulated intervention.
type Measure string

const (
	MeasureTrafficRestriction Measure = "traffic_restriction"
	MeasureConstructionHalt   Measure = "construction_halt"
	MeasureStubbleManagement  Measure = "stubble_management"
	MeasureIndustrialControls Measure = "industrial_controls"
	MeasureDustSuppression    Measure = "dust_suppression"
)

// MeasureOption is a selectable measure with its display label.
type MeasureOption struct {
	Value Measure `json:"value"`
	Label string  `json:"label"`
}

// Measures lists the supported measures in display order.
var Measures = []MeasureOption{
	{Value: MeasureTrafficRestriction, Label: "Traffic Restriction (Odd-Even)"},
	{Value: MeasureConstructionHalt, Label: "Construction Halt"},
	{Value: MeasureStubbleManagement, Label: "Enhanced Stubble Mgmt"},
	{Value: MeasureIndustrialControls, Label: "Industrial Controls"},
	{Value: MeasureDustSuppression, Label: "Dust Suppression"},
}

// Valid reports whether m is a supported measure.
func (m Measure) Valid() bool {
	for _, opt := range Measures {
		if opt.Value == m {
			return true
		}
	}
	return false
}

// Input bounds.
const (
	MinIntensity    = 1
	MaxIntensity    = 100
	MinDurationDays = 1
	MaxDurationDays = 60

	DefaultIntensity    = 25
	DefaultDurationDays = 7

	defaultHorizonYears = 5
	maxHorizonYears     = 30
)

// SimulationRequest is the payload of a policy simulation.
type SimulationRequest struct {
	Measure      Measure `json:"measure"`
	Intensity    int     `json:"intensity"`
	DurationDays int     `json:"duration_days"`
}

// Validate rejects unknown measures and out-of-range values.
func (r SimulationRequest) Validate() error {
	if !r.Measure.Valid() {
		return fmt.Errorf("unknown measure %q", r.Measure)
	}
	if r.Intensity < MinIntensity || r.Intensity > MaxIntensity {
		return fmt.Errorf("intensity must be between %d and %d", MinIntensity, MaxIntensity)
	}
	if r.DurationDays < MinDurationDays || r.DurationDays > MaxDurationDays {
		return fmt.Errorf("duration_days must be between %d and %d", MinDurationDays, MaxDurationDays)
	}
	return nil
}

// SimulationResult is the backend answer. Every field is optional.
type SimulationResult struct {
	ExpectedReduction *float64 `json:"expected_reduction,omitempty"`
	Confidence        *string  `json:"confidence,omitempty"`
	Timeframe         *string  `json:"timeframe,omitempty"`
	Duration          *string  `json:"duration,omitempty"`
	Notes             *string  `json:"notes,omitempty"`
}

// SimulationView is the rendered result card.
type SimulationView struct {
	ExpectedReduction string `json:"expectedReduction"`
	Confidence        string `json:"confidence"`
	Timeframe         string `json:"timeframe"`
	Notes             string `json:"notes,omitempty"`
}

// Simulation pairs a request with its result.
type Simulation struct {
	Request SimulationRequest `json:"request"`
	Result  SimulationResult  `json:"result"`
	View    SimulationView    `json:"view"`
}

// CostBenefitRequest compares interventions under an optional budget.
type CostBenefitRequest struct {
	InterventionTypes []Measure `json:"intervention_types"`
	BudgetLimit       *float64  `json:"budget_limit,omitempty"`
	TimeHorizonYears  int       `json:"time_horizon_years"`
}

// Validate checks the compared measures and horizon. A zero horizon is
// replaced by the default before validation.
func (r *CostBenefitRequest) Validate() error {
	if len(r.InterventionTypes) == 0 {
		return fmt.Errorf("intervention_types must not be empty")
	}
	for _, m := range r.InterventionTypes {
		if !m.Valid() {
			return fmt.Errorf("unknown measure %q", m)
		}
	}
	if r.BudgetLimit != nil && *r.BudgetLimit < 0 {
		return fmt.Errorf("budget_limit must not be negative")
	}
	if r.TimeHorizonYears == 0 {
		r.TimeHorizonYears = defaultHorizonYears
	}
	if r.TimeHorizonYears < 1 || r.TimeHorizonYears > maxHorizonYears {
		return fmt.Errorf("time_horizon_years must be between 1 and %d", maxHorizonYears)
	}
	return nil
}

// CostBenefit is the comparison returned by the backend.
type CostBenefit struct {
	Request  CostBenefitRequest `json:"request"`
	Costs    map[string]any     `json:"cost_analysis"`
	Benefits map[string]any     `json:"benefit_analysis"`
	ROI      any                `json:"roi_comparison"`
	Optimal  any                `json:"optimal_portfolio"`
}

// RouteRequest asks for the exposure along a route.
type RouteRequest struct {
	Waypoints []aqi.Coordinates `json:"waypoints"`
}

// Validate requires at least two valid waypoints.
func (r RouteRequest) Validate() error {
	if len(r.Waypoints) < 2 {
		return fmt.Errorf("a route needs at least two waypoints")
	}
	for i, wp := range r.Waypoints {
		if !wp.Valid() {
			return fmt.Errorf("waypoint %d is out of range", i)
		}
	}
	return nil
}

// RouteForecast is the exposure along a route.
type RouteForecast struct {
	Waypoints       []aqi.Coordinates `json:"waypoints"`
	Exposure        map[string]any    `json:"pollution_exposure"`
	Recommendations []string          `json:"recommendations"`
	Alternatives    []any             `json:"alternative_routes"`
}
