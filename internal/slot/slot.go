// Package slot resolves which upstream data batch applies at a given instant.
// Everything here is a pure function of the time it is handed.
package slot

import (
	"strconv"
	"time"

	"github.com/i474232898/kiosk-feed/internal/common"
)

// HourlyCount is the number of hourly forecast slots following the current hour.
const HourlyCount = 5

// lastMark is the final half-hour mark of a day.
const lastMark = "2330"

// ForecastSlot identifies the weather provider batch to request.
type ForecastSlot struct {
	Date string // YYYYMMDD
	Time string // HHMM, one of Marks()
}

// MealCode is the meal of the day.
type MealCode string

const (
	Breakfast MealCode = "breakfast"
	Lunch     MealCode = "lunch"
	Dinner    MealCode = "dinner"
)

// Display labels for meal slots.
const (
	LabelBreakfast        = "breakfast"
	LabelLunch            = "lunch"
	LabelDinner           = "dinner"
	LabelNextDayBreakfast = "next-day breakfast"
)

// MealSlot identifies the meal provider batch to request and how to label it.
type MealSlot struct {
	Code  MealCode
	Label string
	Date  string // YYYYMMDD
}

// Slots bundles everything resolved for one aggregation cycle.
type Slots struct {
	Forecast ForecastSlot
	Meal     MealSlot
	Hours    []string // HH00 for now+1h .. now+HourlyCount h
}

// Meal cutovers as minutes of the day.
const (
	lunchFrom    = 7*60 + 40
	dinnerFrom   = 13*60 + 50
	nextDayFrom  = 18*60 + 50
	minutesInDay = 24 * 60
)

var marks = buildMarks()

func buildMarks() []string {
	out := make([]string, 0, minutesInDay/30)
	for m := 0; m < minutesInDay; m += 30 {
		out = append(out, common.ClockKey(time.Date(0, 1, 1, m/60, m%60, 0, 0, time.UTC)))
	}
	return out
}

// Marks returns the 48 canonical half-hour marks in ascending order.
func Marks() []string {
	out := make([]string, len(marks))
	copy(out, marks)
	return out
}

// Resolve computes the forecast slot, meal slot and hourly slots for now.
func Resolve(now time.Time) Slots {
	return Slots{
		Forecast: ResolveForecast(now),
		Meal:     ResolveMeal(now),
		Hours:    HourlySlots(now),
	}
}

// ResolveForecast picks the greatest half-hour mark not after the clock time of now.
func ResolveForecast(now time.Time) ForecastSlot {
	current := common.ClockKey(now)

	base := marks[0]
	for _, m := range marks {
		if m <= current {
			base = m
		}
	}

	date := common.DateKey(now)
	yesterday := common.DateKey(now.AddDate(0, 0, -1))

	// No mark sorts after lastMark, so this never fires with the current table.
	if base > lastMark && dateValue(date) > dateValue(yesterday) {
		date = yesterday
	}

	return ForecastSlot{Date: date, Time: base}
}

// ResolveMeal maps the clock time of now onto the meal cutover table.
func ResolveMeal(now time.Time) MealSlot {
	minute := now.Hour()*60 + now.Minute()

	switch {
	case minute < lunchFrom:
		return MealSlot{Code: Breakfast, Label: LabelBreakfast, Date: common.DateKey(now)}
	case minute < dinnerFrom:
		return MealSlot{Code: Lunch, Label: LabelLunch, Date: common.DateKey(now)}
	case minute < nextDayFrom:
		return MealSlot{Code: Dinner, Label: LabelDinner, Date: common.DateKey(now)}
	default:
		return MealSlot{Code: Breakfast, Label: LabelNextDayBreakfast, Date: common.DateKey(now.AddDate(0, 0, 1))}
	}
}

// HourlySlots returns HH00 for each of the next HourlyCount hours, in order.
func HourlySlots(now time.Time) []string {
	out := make([]string, 0, HourlyCount)
	for i := 1; i <= HourlyCount; i++ {
		out = append(out, common.HourKey(now.Add(time.Duration(i)*time.Hour)))
	}
	return out
}

func dateValue(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
