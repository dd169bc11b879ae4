package view

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	require.Equal(t, "12.0%", Percent(0.12))
	require.Equal(t, "33.3%", Percent(1.0/3))

	require.Equal(t, Placeholder, PercentOrPlaceholder(nil))
	zero := 0.0
	require.Equal(t, Placeholder, PercentOrPlaceholder(&zero))
	v := 0.125
	require.Equal(t, "12.5%", PercentOrPlaceholder(&v))
}

func TestNewBarChartScalesToTallest(t *testing.T) {
	chart := NewBarChart("Forecast", 150, []Bar{
		{Label: "1h", Value: 100},
		{Label: "2h", Value: 200},
		{Label: "3h", Value: 50},
	})
	require.Equal(t, 75.0, chart.Bars[0].Height)
	require.Equal(t, 150.0, chart.Bars[1].Height)
	require.Equal(t, 37.5, chart.Bars[2].Height)
	require.Empty(t, chart.Empty)

	empty := NewBarChart("Forecast", 150, nil)
	require.NotEmpty(t, empty.Empty)
}

func TestTimeLabels(t *testing.T) {
	require.Equal(t, "15h", HourLabel("2024-11-02T15:00:00Z"))
	require.Equal(t, "9h", HourLabel("2024-11-02T09:30:00"))
	require.Equal(t, Placeholder, HourLabel("soon"))
	require.Equal(t, "15:04:00", ClockTime("2024-11-02T15:04:00.000Z"))
	require.Equal(t, Placeholder, DateTime(""))
}

func TestFormattingHelpers(t *testing.T) {
	v := 28.61394
	require.Equal(t, "28.61", Fixed(&v, 2))
	require.Equal(t, Placeholder, Fixed(nil, 2))
	whole := 287.0
	require.Equal(t, "287", Number(&whole))
	require.Equal(t, Placeholder, Text(""))
	require.Equal(t, []int{1, 2}, Limit([]int{1, 2, 3}, 2))
	require.Equal(t, []int{1}, Limit([]int{1}, 5))
}
