// Package location resolves the coordinates a location-aware screen should
// load for, falling back to a fixed city when the device cannot supply one.
package location

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/yanqian/aqi-insight/internal/domain/aqi"
)

var (
	// ErrPermissionDenied reports that the user refused location access.
	ErrPermissionDenied = errors.New("location permission denied")
	// ErrUnavailable reports that no usable position could be acquired.
	ErrUnavailable = errors.New("location unavailable")
)

// Locator yields the current device position.
type Locator interface {
	Locate(ctx context.Context) (aqi.Coordinates, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (aqi.Coordinates, error)

// Locate calls f.
func (f LocatorFunc) Locate(ctx context.Context) (aqi.Coordinates, error) {
	return f(ctx)
}

// Reported is a position relayed by the client in its request.
type Reported struct {
	Latitude  string
	Longitude string
	Denied    bool
}

// Locate parses the relayed coordinates.
func (r Reported) Locate(ctx context.Context) (aqi.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return aqi.Coordinates{}, err
	}
	if r.Denied {
		return aqi.Coordinates{}, ErrPermissionDenied
	}
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(r.Latitude), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(r.Longitude), 64)
	if latErr != nil || lonErr != nil {
		return aqi.Coordinates{}, ErrUnavailable
	}
	coords := aqi.Coordinates{Latitude: lat, Longitude: lon}
	if !coords.Valid() {
		return aqi.Coordinates{}, ErrUnavailable
	}
	return coords, nil
}

// Resolver turns a Locator outcome into a location, never an error.
type Resolver struct {
	fallback aqi.NamedLocation
	logger   *slog.Logger
}

// NewResolver builds a resolver that substitutes fallback on any failure.
func NewResolver(fallback aqi.NamedLocation, logger *slog.Logger) *Resolver {
	if fallback.Name == "" {
		fallback = aqi.DefaultLocation
	}
	return &Resolver{
		fallback: fallback,
		logger:   logger.With("component", "location.resolver"),
	}
}

// Fallback returns the substitute location.
func (r *Resolver) Fallback() aqi.NamedLocation {
	return r.fallback
}

// Resolve asks locator for a position. Denial and acquisition failures are
// logged and replaced by the fallback.
func (r *Resolver) Resolve(ctx context.Context, locator Locator) aqi.NamedLocation {
	if locator == nil {
		return r.fallback
	}
	coords, err := locator.Locate(ctx)
	switch {
	case err == nil:
		return aqi.NamedLocation{Name: "Current location", Coordinates: coords}
	case errors.Is(err, ErrPermissionDenied):
		r.logger.Warn("location permission denied, using fallback", "fallback", r.fallback.Name)
	default:
		r.logger.Warn("location unavailable, using fallback", "fallback", r.fallback.Name, "error", err)
	}
	return r.fallback
}
