package aqi

// HealthGuideline pairs an AQI range label with advice.
type HealthGuideline struct {
	Range  string `json:"range"`
	Advice string `json:"advice"`
}

// HealthGuidelines covers AQI 0-500 in ascending order, one entry per band.
var HealthGuidelines = []HealthGuideline{
	{Range: "0-50 (Good)", Advice: "Ideal air quality. Perfect for outdoor activities and exercise."},
	{Range: "51-100 (Satisfactory)", Advice: "Acceptable air quality. Sensitive individuals should reduce prolonged outdoor exertion."},
	{Range: "101-200 (Moderate)", Advice: "People with respiratory or heart conditions, children and older adults should limit prolonged outdoor exertion."},
	{Range: "201-300 (Poor)", Advice: "Everyone may begin to experience health effects. Limit prolonged outdoor exertion."},
	{Range: "301-400 (Very Poor)", Advice: "Health alert: serious health effects more likely. Avoid outdoor activities."},
	{Range: "401-500 (Severe)", Advice: "Health emergency. Stay indoors with air purification."},
}

// SensitiveGroupsNote is shown alongside the guideline table.
const SensitiveGroupsNote = "Children, elderly, pregnant women, and people with pre-existing respiratory or cardiovascular conditions should take extra precautions."

var generalAdvice = []struct {
	max    float64
	advice string
}{
	{50, "Air quality is satisfactory. Enjoy outdoor activities."},
	{100, "Air quality is acceptable. Unusually sensitive people should consider reducing prolonged outdoor exertion."},
	{200, "Members of sensitive groups may experience health effects. General public is less likely to be affected."},
	{300, "Health alert: everyone may begin to experience health effects."},
	{400, "Health warning of emergency conditions. The entire population is more likely to be affected."},
}

const severeAdvice = "Health emergency: everyone may experience more serious health effects."

// GuidelineFor returns the guideline whose band contains aqi.
func GuidelineFor(aqi float64) HealthGuideline {
	idx := Severity(Categorize(aqi)) - 1
	return HealthGuidelines[idx]
}

// GeneralAdvice returns the one-line recommendation for the current AQI.
// A missing reading is treated as 0, matching how the card renders it.
func GeneralAdvice(aqi *float64) string {
	value := 0.0
	if aqi != nil {
		value = *aqi
	}
	for _, step := range generalAdvice {
		if value <= step.max {
			return step.advice
		}
	}
	return severeAdvice
}

// QuickTips are shown under the health recommendations on every AQI level.
var QuickTips = []string{
	"Use N95 masks when outdoors",
	"Avoid strenuous outdoor activities",
	"Use air purifiers indoors",
	"Keep windows closed during high pollution",
}
