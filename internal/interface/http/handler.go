package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/aqi-insight/internal/domain/dashboard"
	"github.com/yanqian/aqi-insight/internal/domain/health"
	"github.com/yanqian/aqi-insight/internal/domain/mobile"
	"github.com/yanqian/aqi-insight/internal/domain/policy"
	"github.com/yanqian/aqi-insight/internal/infra/location"
	apperrors "github.com/yanqian/aqi-insight/pkg/errors"
)

const screenHome = "home"

// CacheAdmin drops cached upstream responses.
type CacheAdmin interface {
	Invalidate(ctx context.Context, path string, params url.Values) error
	Clear(ctx context.Context) error
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	mobileSvc    mobile.Service
	dashboardSvc dashboard.Service
	policySvc    policy.Service
	healthSvc    health.Service
	cache        CacheAdmin
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(mobileSvc mobile.Service, dashboardSvc dashboard.Service, policySvc policy.Service, healthSvc health.Service, cache CacheAdmin, logger *slog.Logger) *Handler {
	return &Handler{
		mobileSvc:    mobileSvc,
		dashboardSvc: dashboardSvc,
		policySvc:    policySvc,
		healthSvc:    healthSvc,
		cache:        cache,
		logger:       logger.With("component", "http.handler"),
	}
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Home loads the mobile home screen for the reported device position.
// Load failures are reported inside the state, not as an HTTP error.
func (h *Handler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, h.mobileSvc.Load(c.Request.Context(), reportedLocation(c)))
}

func reportedLocation(c *gin.Context) location.Reported {
	return location.Reported{
		Latitude:  c.Query("latitude"),
		Longitude: c.Query("longitude"),
		Denied:    isTruthy(c.Query("denied")),
	}
}

// Overview loads the dashboard overview.
func (h *Handler) Overview(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboardSvc.Overview(c.Request.Context()))
}

// Forecast loads the dashboard forecast screen.
func (h *Handler) Forecast(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboardSvc.Forecast(c.Request.Context()))
}

// Sources loads the dashboard source attribution screen.
func (h *Handler) Sources(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboardSvc.Sources(c.Request.Context()))
}

// Reports loads the dashboard interventions screen.
func (h *Handler) Reports(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboardSvc.Reports(c.Request.Context()))
}

// Refresh re-runs a screen loader. The home screen is refreshed for the
// location in the request's own query.
func (h *Handler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()
	switch screen := c.Param("screen"); screen {
	case screenHome:
		c.JSON(http.StatusOK, h.mobileSvc.Refresh(ctx, reportedLocation(c)))
	case dashboard.ScreenOverview:
		c.JSON(http.StatusOK, h.dashboardSvc.Overview(ctx))
	case dashboard.ScreenForecast:
		c.JSON(http.StatusOK, h.dashboardSvc.Forecast(ctx))
	case dashboard.ScreenSources:
		c.JSON(http.StatusOK, h.dashboardSvc.Sources(ctx))
	case dashboard.ScreenReports:
		c.JSON(http.StatusOK, h.dashboardSvc.Reports(ctx))
	default:
		abortWithError(c, NewHTTPError(http.StatusNotFound, "unknown_screen", "unknown screen "+strconv.Quote(screen), nil))
	}
}

// Guidelines returns the static AQI health table, with the matching band
// when an aqi query parameter is given.
func (h *Handler) Guidelines(c *gin.Context) {
	var value *float64
	if raw := strings.TrimSpace(c.Query("aqi")); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, "aqi must be a non-negative number", err))
			return
		}
		value = &parsed
	}
	c.JSON(http.StatusOK, h.healthSvc.Guide(value))
}

// HealthRecommendations loads backend guidance for a population segment.
func (h *Handler) HealthRecommendations(c *gin.Context) {
	c.JSON(http.StatusOK, h.healthSvc.Recommendations(c.Request.Context(), c.Query("segment")))
}

// Measures lists the simulation measures with the form defaults.
func (h *Handler) Measures(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"measures": policy.Measures,
		"defaults": policy.SimulationRequest{
			Measure:      policy.Measures[0].Value,
			Intensity:    policy.DefaultIntensity,
			DurationDays: policy.DefaultDurationDays,
		},
	})
}

// Simulate runs a policy simulation.
func (h *Handler) Simulate(c *gin.Context) {
	var req policy.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.policySvc.Simulate(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CostBenefit compares interventions.
func (h *Handler) CostBenefit(c *gin.Context) {
	var req policy.CostBenefitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.policySvc.CostBenefit(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RouteForecast returns the exposure along a route.
func (h *Handler) RouteForecast(c *gin.Context) {
	var req policy.RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.policySvc.Route(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ClearCache drops every cached response of this session.
func (h *Handler) ClearCache(c *gin.Context) {
	if err := h.cache.Clear(c.Request.Context()); err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, apperrors.CodeCacheError, "failed to clear cache", err))
		return
	}
	c.Status(http.StatusNoContent)
}

// InvalidateCacheEntry drops one cached response. The path query parameter
// names the upstream path; every other parameter is part of the key.
func (h *Handler) InvalidateCacheEntry(c *gin.Context) {
	params := c.Request.URL.Query()
	path := strings.TrimSpace(params.Get("path"))
	if path == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, "path is required", nil))
		return
	}
	params.Del("path")

	if err := h.cache.Invalidate(c.Request.Context(), path, params); err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, apperrors.CodeCacheError, "failed to invalidate cache entry", err))
		return
	}
	c.Status(http.StatusNoContent)
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
