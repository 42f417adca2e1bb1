package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hours = []string{"0900", "1000", "1100", "1200", "1300"}

func TestSeedForecast(t *testing.T) {
	current, hourly := SeedForecast(hours)

	assert.Equal(t, CurrentConditions{Temperature: TemperatureUnknown, Emoji: EmojiUnknown}, current)
	require.Len(t, hourly, 5)
	for i, h := range hourly {
		assert.Equal(t, hours[i], h.Time)
		assert.Equal(t, TemperatureUnknown, h.Temperature)
		assert.Equal(t, EmojiUnknown, h.Emoji)
	}
}

func TestApplyForecastRecordsTemperatureOnly(t *testing.T) {
	current, hourly := SeedForecast(hours)

	ApplyForecastRecords(&current, hourly, []ForecastRecord{
		{ForecastTime: "0900", Category: CategoryTemperature, Value: "21"},
	})

	assert.Equal(t, "21℃", hourly[0].Temperature)
	assert.Equal(t, EmojiUnknown, hourly[0].Emoji)
	assert.Equal(t, "21℃", current.Temperature)
	assert.Equal(t, EmojiUnknown, current.Emoji)
}

func TestApplyForecastRecordsCurrentIsFirstWriteWins(t *testing.T) {
	current, hourly := SeedForecast(hours)

	ApplyForecastRecords(&current, hourly, []ForecastRecord{
		{ForecastTime: "0900", Category: CategorySky, Value: "1"},
		{ForecastTime: "0900", Category: CategoryTemperature, Value: "18"},
		{ForecastTime: "0900", Category: CategoryTemperature, Value: "19"},
		{ForecastTime: "0900", Category: CategorySky, Value: "4"},
	})

	assert.Equal(t, CurrentConditions{Temperature: "18℃", Emoji: "☀️"}, current)
	assert.Equal(t, "19℃", hourly[0].Temperature)
	assert.Equal(t, "☁️", hourly[0].Emoji)
}

func TestApplyForecastRecordsKeepsOrder(t *testing.T) {
	current, hourly := SeedForecast(hours)

	ApplyForecastRecords(&current, hourly, []ForecastRecord{
		{ForecastTime: "1300", Category: CategoryTemperature, Value: "25"},
		{ForecastTime: "1100", Category: CategorySky, Value: "3"},
		{ForecastTime: "1000", Category: "RN1", Value: "0"},
		{ForecastTime: "1500", Category: CategoryTemperature, Value: "30"},
	})

	got := make([]string, 0, len(hourly))
	for _, h := range hourly {
		got = append(got, h.Time)
	}
	assert.Equal(t, hours, got)
	assert.Equal(t, "25℃", hourly[4].Temperature)
	assert.Equal(t, "⛅", hourly[2].Emoji)
	assert.Equal(t, TemperatureUnknown, hourly[1].Temperature)
	assert.Equal(t, TemperatureUnknown, current.Temperature)
}

func TestSkyEmoji(t *testing.T) {
	assert.Equal(t, "☀️", SkyEmoji("1"))
	assert.Equal(t, "⛅", SkyEmoji("3"))
	assert.Equal(t, "☁️", SkyEmoji("4"))
	assert.Equal(t, EmojiUnknown, SkyEmoji("2"))
	assert.Equal(t, EmojiUnknown, SkyEmoji(""))
}

func TestCleanMenu(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"allergen codes", "Rice (12.5.6)", []string{"Rice"}},
		{"single code", "Soup (5)", []string{"Soup"}},
		{"break variants", "A<br/>B<br>C", []string{"A", "B", "C"}},
		{"blank lines", "A<br/> <br/><br/>B", []string{"A", "B"}},
		{"newlines", "Kimchi (9.13)\nFruit", []string{"Kimchi", "Fruit"}},
		{"keeps other parens", "Juice (apple)", []string{"Juice (apple)"}},
		{"empty", "", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CleanMenu(tc.raw))
		})
	}
}
