package service

import "context"

// Geocoder turns free text into ranked candidate locations.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]LocationCandidate, error)
	Policy() ErrorPolicy
	Name() string
}

// WeatherFetcher returns a normalized snapshot for a coordinate pair. An empty
// name means the snapshot carries no display location.
type WeatherFetcher interface {
	Fetch(ctx context.Context, lat, lon float64, name, country string) (*WeatherSnapshot, error)
	Policy() ErrorPolicy
	Name() string
}

// CallRecorder receives one event per outbound provider call.
type CallRecorder interface {
	RecordWeatherServiceCall(ctx context.Context, service string, success bool)
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationCandidate is one geocoding match. ID is provider assigned and only
// meaningful as a list key.
type LocationCandidate struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Admin1  string `json:"admin1,omitempty"`
	Coordinates
}

type DisplayLocation struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// WeatherSnapshot is one complete set of readings for one location. Every
// slice inside Hourly and inside Daily has the same length, and index i of
// each slice describes the same timestamp.
type WeatherSnapshot struct {
	Current  CurrentReading   `json:"current"`
	Hourly   HourlySeries     `json:"hourly"`
	Daily    DailySeries      `json:"daily"`
	Timezone string           `json:"timezone"`
	Location *DisplayLocation `json:"location,omitempty"`
}

type CurrentReading struct {
	Temperature   float64  `json:"temperature"`
	WeatherCode   int      `json:"weatherCode"`
	WindSpeed     float64  `json:"windSpeed"`
	WindDirection *float64 `json:"windDirection,omitempty"`
	Humidity      float64  `json:"humidity"`
	Precipitation float64  `json:"precipitation"`
	Rain          float64  `json:"rain"`
	Showers       float64  `json:"showers"`
	Snowfall      float64  `json:"snowfall"`
}

type HourlySeries struct {
	Time                     []string  `json:"time"`
	Temperature              []float64 `json:"temperature"`
	PrecipitationProbability []float64 `json:"precipitation"`
	WeatherCode              []int     `json:"weatherCode"`
	WindSpeed                []float64 `json:"windSpeed"`
	Humidity                 []float64 `json:"humidity"`
}

func (h HourlySeries) Len() int { return len(h.Time) }

type DailySeries struct {
	Time                     []string  `json:"time"`
	WeatherCode              []int     `json:"weatherCode"`
	TempMax                  []float64 `json:"tempMax"`
	TempMin                  []float64 `json:"tempMin"`
	PrecipitationSum         []float64 `json:"precipitationSum"`
	PrecipitationProbability []float64 `json:"precipitationProbability"`
}

func (d DailySeries) Len() int { return len(d.Time) }

// Head returns the first n days, or all of them when fewer exist.
func (d DailySeries) Head(n int) DailySeries {
	if n < 0 || n >= d.Len() {
		return d
	}
	return DailySeries{
		Time:                     d.Time[:n],
		WeatherCode:              d.WeatherCode[:n],
		TempMax:                  d.TempMax[:n],
		TempMin:                  d.TempMin[:n],
		PrecipitationSum:         d.PrecipitationSum[:n],
		PrecipitationProbability: d.PrecipitationProbability[:n],
	}
}
