package board

// Degraded defaults substituted for anything an upstream could not provide.
const (
	TemperatureUnknown = "no data"
	EmojiUnknown       = "❓"
	MenuNoData         = "no meal information"
	MenuRequestFailed  = "meal request failed"
)

// Weather provider categories consumed by the board.
const (
	CategoryTemperature = "T1H"
	CategorySky         = "SKY"
)

// CurrentConditions is the weather shown for "now".
type CurrentConditions struct {
	Temperature string `json:"temp"`
	Emoji       string `json:"emoji"`
}

// HourlyForecastEntry is the weather for one upcoming hour.
type HourlyForecastEntry struct {
	Time        string `json:"time"` // HH00
	Temperature string `json:"temp"`
	Emoji       string `json:"emoji"`
}

// MealMenu is the cleaned menu for the resolved meal slot.
type MealMenu struct {
	MealType string   `json:"meal_type"`
	Lines    []string `json:"menu"`
}

// AggregatedResponse is the document served to the display client.
// It is built once per cache miss and must not be mutated afterwards.
type AggregatedResponse struct {
	Current CurrentConditions     `json:"current_weather"`
	Hourly  []HourlyForecastEntry `json:"hourly_forecast"`
	Meal    MealMenu              `json:"lunch_menu"`
}

// ForecastRecord is a single (time, category, value) triple reported by the weather provider.
type ForecastRecord struct {
	ForecastTime string
	Category     string
	Value        string
}
