// Package condition maps Open-Meteo WMO weather codes to coarse display
// conditions, human readable descriptions and compass labels.
package condition

import "math"

// Tag is the coarse condition that drives the dashboard theme.
type Tag string

const (
	Sunny  Tag = "sunny"
	Rainy  Tag = "rainy"
	Snowy  Tag = "snowy"
	Cloudy Tag = "cloudy"
)

// Classify returns the condition for a weather code. Rules are checked in
// order and the first match wins; anything unmatched is cloudy.
func Classify(code int) Tag {
	switch {
	case code == 0 || code == 1:
		return Sunny
	case (code >= 71 && code <= 77) || (code >= 85 && code <= 86):
		return Snowy
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82) ||
		code == 95 || code == 96 || code == 99:
		return Rainy
	default:
		return Cloudy
	}
}

const Unknown = "Unknown"

var descriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Foggy",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Slight snow",
	73: "Moderate snow",
	75: "Heavy snow",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// Describe returns the description for an exact code, or Unknown.
func Describe(code int) string {
	if d, ok := descriptions[code]; ok {
		return d
	}
	return Unknown
}

var compass = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// WindLabel maps a bearing in degrees to a 16-point compass label. Bearings
// outside [0, 360) are wrapped first, so -90 is "W" and 450 is "E".
// NaN and infinite bearings map to "N".
func WindLabel(degrees float64) string {
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		return compass[0]
	}

	d := math.Mod(math.Mod(degrees, 360)+360, 360)
	idx := int(math.Round(d/22.5)) % len(compass)
	return compass[idx]
}
