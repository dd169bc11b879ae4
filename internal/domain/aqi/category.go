package aqi

// Category names used across the API and the views.
const (
	CategoryGood         = "Good"
	CategorySatisfactory = "Satisfactory"
	CategoryModerate     = "Moderate"
	CategoryPoor         = "Poor"
	CategoryVeryPoor     = "Very Poor"
	CategorySevere       = "Severe"
	CategoryUnknown      = "Unknown"

	// DefaultColor is returned for categories outside the table.
	DefaultColor = "#555"
)

// Band is one row of the category table. Max is an inclusive upper bound.
type Band struct {
	Name  string  `json:"name"`
	Max   float64 `json:"max"`
	Color string  `json:"color"`
}

// Bands lists the categories in ascending severity.
var Bands = []Band{
	{Name: CategoryGood, Max: 50, Color: "#009966"},
	{Name: CategorySatisfactory, Max: 100, Color: "#79bc6a"},
	{Name: CategoryModerate, Max: 200, Color: "#ffde33"},
	{Name: CategoryPoor, Max: 300, Color: "#ff9933"},
	{Name: CategoryVeryPoor, Max: 400, Color: "#cc0033"},
	{Name: CategorySevere, Max: 500, Color: "#660099"},
}

// CategoryForAQI maps an optional AQI value to its category name.
func CategoryForAQI(aqi *float64) string {
	if aqi == nil {
		return CategoryUnknown
	}
	return Categorize(*aqi)
}

// Categorize maps an AQI value to its category. Values above the table,
// and NaN, are Severe.
func Categorize(aqi float64) string {
	for _, band := range Bands {
		if aqi <= band.Max {
			return band.Name
		}
	}
	return CategorySevere
}

// ColorForCategory returns the display color for a category name.
func ColorForCategory(category string) string {
	for _, band := range Bands {
		if band.Name == category {
			return band.Color
		}
	}
	return DefaultColor
}

// Severity ranks a category from 1 (Good) to 6 (Severe); 0 for anything else.
func Severity(category string) int {
	for i, band := range Bands {
		if band.Name == category {
			return i + 1
		}
	}
	return 0
}
