package aqi

import "sort"

// DefaultSourceColor is used for source names outside the palette.
const DefaultSourceColor = "#555"

var sourceColors = map[string]string{
	"Stubble Burning": "#8B4513",
	"Traffic":         "#FF6B35",
	"Industry":        "#4A90E2",
	"Construction":    "#F9A825",
	"Other":           "#9E9E9E",
}

// SourceColor returns the display color for a pollution source.
func SourceColor(source string) string {
	if color, ok := sourceColors[source]; ok {
		return color
	}
	return DefaultSourceColor
}

// FromPercent converts a 0-100 share into the canonical fraction.
func FromPercent(percent float64) float64 {
	return percent / 100
}

// Ranked returns the breakdown ordered by descending share, ties by name.
func (b SourceBreakdown) Ranked() []SourceShare {
	out := make([]SourceShare, 0, len(b))
	for source, fraction := range b {
		out = append(out, SourceShare{Source: source, Fraction: fraction})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Fraction == out[j].Fraction {
			return out[i].Source < out[j].Source
		}
		return out[i].Fraction > out[j].Fraction
	})
	return out
}
