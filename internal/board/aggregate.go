package board

import (
	"regexp"
	"strings"
)

var skyEmoji = map[string]string{
	"1": "☀️",
	"3": "⛅",
	"4": "☁️",
}

var (
	lineBreak = regexp.MustCompile(`<br\s*/?>`)
	// A parenthesised allergen code list such as " (1.5.6)".
	allergenCodes = regexp.MustCompile(`\s*\(\d+(\.\d+)*\)`)
)

// SeedForecast returns current conditions and one hourly entry per slot,
// all set to the unknown sentinels.
func SeedForecast(hours []string) (CurrentConditions, []HourlyForecastEntry) {
	current := CurrentConditions{Temperature: TemperatureUnknown, Emoji: EmojiUnknown}

	hourly := make([]HourlyForecastEntry, 0, len(hours))
	for _, h := range hours {
		hourly = append(hourly, HourlyForecastEntry{
			Time:        h,
			Temperature: TemperatureUnknown,
			Emoji:       EmojiUnknown,
		})
	}
	return current, hourly
}

// ApplyForecastRecords folds provider records into the seeded forecast.
// Current conditions take the first record for the first hourly slot per field;
// hourly entries take the last matching record. Entry order is never changed.
func ApplyForecastRecords(current *CurrentConditions, hourly []HourlyForecastEntry, records []ForecastRecord) {
	first := ""
	if len(hourly) > 0 {
		first = hourly[0].Time
	}

	for _, r := range records {
		if first != "" && r.ForecastTime == first {
			switch r.Category {
			case CategoryTemperature:
				if current.Temperature == TemperatureUnknown {
					current.Temperature = formatTemperature(r.Value)
				}
			case CategorySky:
				if current.Emoji == EmojiUnknown {
					current.Emoji = SkyEmoji(r.Value)
				}
			}
		}

		for i := range hourly {
			if hourly[i].Time != r.ForecastTime {
				continue
			}
			switch r.Category {
			case CategoryTemperature:
				hourly[i].Temperature = formatTemperature(r.Value)
			case CategorySky:
				hourly[i].Emoji = SkyEmoji(r.Value)
			}
		}
	}
}

// SkyEmoji maps a sky condition code to its emoji.
func SkyEmoji(code string) string {
	if e, ok := skyEmoji[code]; ok {
		return e
	}
	return EmojiUnknown
}

func formatTemperature(v string) string {
	return v + "℃"
}

// CleanMenu splits raw dish text into display lines, dropping blanks and
// allergen annotations.
func CleanMenu(raw string) []string {
	raw = lineBreak.ReplaceAllString(raw, "\n")

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if loc := allergenCodes.FindStringIndex(line); loc != nil {
			line = line[:loc[0]] + line[loc[1]:]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
