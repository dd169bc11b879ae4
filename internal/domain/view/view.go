// Package view holds the presentation components screens are assembled
// from: cards, tables and bar charts, plus the display formatting they share.
package view

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Placeholder is rendered wherever a value is absent.
const Placeholder = "—"

// Card is a single KPI tile.
type Card struct {
	Title   string `json:"title"`
	Value   string `json:"value"`
	Badge   string `json:"badge,omitempty"`
	Color   string `json:"color,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// Table is a titled grid of pre-formatted cells.
type Table struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Empty   string     `json:"empty,omitempty"`
}

// AddRow appends a row of cells.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Bar is one column of a bar chart. Height is in chart units.
type Bar struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Height float64 `json:"height"`
	Color  string  `json:"color,omitempty"`
}

// BarChart is a fixed-height bar chart scaled to its largest value.
type BarChart struct {
	Title  string  `json:"title"`
	Height float64 `json:"height"`
	Bars   []Bar   `json:"bars"`
	Empty  string  `json:"empty,omitempty"`
}

// NewBarChart scales bars so the tallest reaches height.
func NewBarChart(title string, height float64, bars []Bar) BarChart {
	maxValue := 0.0
	for _, b := range bars {
		maxValue = math.Max(maxValue, b.Value)
	}
	scaled := make([]Bar, len(bars))
	for i, b := range bars {
		if maxValue > 0 {
			b.Height = math.Round(b.Value/maxValue*height*10) / 10
		}
		scaled[i] = b
	}
	chart := BarChart{Title: title, Height: height, Bars: scaled}
	if len(scaled) == 0 {
		chart.Empty = "No forecast data available"
	}
	return chart
}

// Percent renders a fraction as a one-decimal percentage, "0.12" -> "12.0%".
func Percent(fraction float64) string {
	return strconv.FormatFloat(fraction*100, 'f', 1, 64) + "%"
}

// PercentOrPlaceholder renders a present, non-zero fraction; otherwise the placeholder.
func PercentOrPlaceholder(fraction *float64) string {
	if fraction == nil || *fraction == 0 {
		return Placeholder
	}
	return Percent(*fraction)
}

// Number renders an optional number without trailing zeros.
func Number(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Fixed renders an optional number with the given decimals.
func Fixed(v *float64, decimals int) string {
	if v == nil {
		return Placeholder
	}
	return strconv.FormatFloat(*v, 'f', decimals, 64)
}

// Text returns s or the placeholder when s is empty.
func Text(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// HourLabel renders a timestamp as "{hour}h", e.g. "15h".
func HourLabel(ts string) string {
	t, ok := ParseTime(ts)
	if !ok {
		return Placeholder
	}
	return fmt.Sprintf("%dh", t.Hour())
}

// ClockTime renders a timestamp as HH:MM:SS.
func ClockTime(ts string) string {
	t, ok := ParseTime(ts)
	if !ok {
		return Placeholder
	}
	return t.Format("15:04:05")
}

// DateTime renders a timestamp as a readable date and time.
func DateTime(ts string) string {
	t, ok := ParseTime(ts)
	if !ok {
		return Placeholder
	}
	return t.Format("2006-01-02 15:04:05")
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// ParseTime accepts the ISO-8601 variants the backend emits.
func ParseTime(ts string) (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Limit returns at most n leading elements.
func Limit[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
