package dashboard

import (
	"math"
	"time"

	"github.com/PRUTHVI-VANKA/Weather-Now/internal/condition"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/location"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/service"
)

// ForecastDays is the number of daily entries shown.
const ForecastDays = 10

type View struct {
	Status     Status              `json:"status"`
	Error      string              `json:"error,omitempty"`
	Permission location.Permission `json:"permission"`
	Weather    *WeatherView        `json:"weather,omitempty"`
	UpdatedAt  *time.Time          `json:"updatedAt,omitempty"`
}

// WeatherView is a snapshot with the values derived for display.
type WeatherView struct {
	Location    *service.DisplayLocation `json:"location,omitempty"`
	Timezone    string                   `json:"timezone"`
	Condition   condition.Tag            `json:"condition"`
	Description string                   `json:"description"`
	WindLabel   string                   `json:"windLabel,omitempty"`
	FeelsLike   float64                  `json:"feelsLike"`
	Current     service.CurrentReading   `json:"current"`
	Hourly      service.HourlySeries     `json:"hourly"`
	Daily       service.DailySeries      `json:"daily"`
}

// NewView derives the presentation model. Weather is only set in the
// success state.
func NewView(state State) View {
	v := View{
		Status:     state.Status,
		Error:      state.Error,
		Permission: state.Permission,
	}
	if !state.UpdatedAt.IsZero() {
		updated := state.UpdatedAt
		v.UpdatedAt = &updated
	}

	if state.Status == StatusSuccess && state.Snapshot != nil {
		v.Weather = NewWeatherView(state.Snapshot)
	}
	return v
}

func NewWeatherView(s *service.WeatherSnapshot) *WeatherView {
	wv := &WeatherView{
		Location:    s.Location,
		Timezone:    s.Timezone,
		Condition:   condition.Classify(s.Current.WeatherCode),
		Description: condition.Describe(s.Current.WeatherCode),
		FeelsLike:   FeelsLike(s.Current),
		Current:     s.Current,
		Hourly:      s.Hourly,
		Daily:       s.Daily.Head(ForecastDays),
	}
	if s.Current.WindDirection != nil {
		wv.WindLabel = condition.WindLabel(*s.Current.WindDirection)
	}
	return wv
}

// FeelsLike is the apparent temperature shown next to the current reading:
// the temperature lowered by a fifth of the wind speed, rounded to a whole
// degree.
func FeelsLike(r service.CurrentReading) float64 {
	return math.Round(r.Temperature - r.WindSpeed*0.2)
}
