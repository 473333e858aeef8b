package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PRUTHVI-VANKA/Weather-Now/internal/config"
	"github.com/PRUTHVI-VANKA/Weather-Now/pkg/telemetry"
	"github.com/go-resty/resty/v2"
	"github.com/zsefvlol/timezonemapper"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var (
	currentFields = []string{
		"temperature_2m", "weather_code", "wind_speed_10m", "wind_direction_10m",
		"relative_humidity_2m", "precipitation", "rain", "showers", "snowfall",
	}
	hourlyFields = []string{
		"temperature_2m", "precipitation_probability", "weather_code",
		"wind_speed_10m", "relative_humidity_2m",
	}
	dailyFields = []string{
		"weather_code", "temperature_2m_max", "temperature_2m_min",
		"precipitation_sum", "precipitation_probability_max",
	}
)

// OpenMeteoService fetches forecasts from the Open-Meteo forecast API.
// Failures are always surfaced; there is no partial snapshot.
type OpenMeteoService struct {
	client       *resty.Client
	hourlyPoints int
	logger       *zap.Logger
	tele         *telemetry.Telemetry
	recorder     CallRecorder
}

type openMeteoResponse struct {
	Timezone string `json:"timezone"`
	Current  *struct {
		Temperature   float64  `json:"temperature_2m"`
		WeatherCode   int      `json:"weather_code"`
		WindSpeed     float64  `json:"wind_speed_10m"`
		WindDirection *float64 `json:"wind_direction_10m"`
		Humidity      float64  `json:"relative_humidity_2m"`
		Precipitation float64  `json:"precipitation"`
		Rain          float64  `json:"rain"`
		Showers       float64  `json:"showers"`
		Snowfall      float64  `json:"snowfall"`
	} `json:"current"`
	Hourly *struct {
		Time                     []string  `json:"time"`
		Temperature              []float64 `json:"temperature_2m"`
		PrecipitationProbability []float64 `json:"precipitation_probability"`
		WeatherCode              []int     `json:"weather_code"`
		WindSpeed                []float64 `json:"wind_speed_10m"`
		Humidity                 []float64 `json:"relative_humidity_2m"`
	} `json:"hourly"`
	Daily *struct {
		Time                     []string  `json:"time"`
		WeatherCode              []int     `json:"weather_code"`
		TempMax                  []float64 `json:"temperature_2m_max"`
		TempMin                  []float64 `json:"temperature_2m_min"`
		PrecipitationSum         []float64 `json:"precipitation_sum"`
		PrecipitationProbability []float64 `json:"precipitation_probability_max"`
	} `json:"daily"`
}

func NewOpenMeteoServiceWithConfig(cfg config.ForecastConfig, logger *zap.Logger, tele *telemetry.Telemetry) *OpenMeteoService {
	return &OpenMeteoService{
		client:       NewRestClient(cfg.BaseURL, cfg.Timeout, nil),
		hourlyPoints: cfg.HourlyPoints,
		logger:       logger.With(zap.String("service", "open-meteo")),
		tele:         tele,
	}
}

func (s *OpenMeteoService) Name() string {
	return "open-meteo"
}

func (s *OpenMeteoService) Policy() ErrorPolicy {
	return PolicySurface
}

func (s *OpenMeteoService) SetCallRecorder(recorder CallRecorder) {
	s.recorder = recorder
}

func (s *OpenMeteoService) Fetch(ctx context.Context, lat, lon float64, name, country string) (*WeatherSnapshot, error) {
	ctx, span := s.tele.GetTracer().Start(ctx, "open-meteo.Fetch")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", lat),
		attribute.Float64("lon", lon),
		attribute.String("service", s.Name()),
	)

	s.logger.Debug("Fetching forecast",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
		zap.String("name", name))

	snapshot, err := s.fetch(ctx, lat, lon)
	if s.recorder != nil {
		s.recorder.RecordWeatherServiceCall(ctx, s.Name(), err == nil)
	}
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		s.tele.RecordError(ctx, err)
		s.logger.Error("Failed to fetch forecast",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.Error(err))
		return nil, err
	}

	if snapshot.Timezone == "" {
		snapshot.Timezone = timezonemapper.LatLngToTimezoneString(lat, lon)
	}
	if name != "" {
		snapshot.Location = &DisplayLocation{Name: name, Country: country}
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("hourly_points", snapshot.Hourly.Len()),
		attribute.Int("daily_points", snapshot.Daily.Len()),
	)

	return snapshot, nil
}

func (s *OpenMeteoService) fetch(ctx context.Context, lat, lon float64) (*WeatherSnapshot, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":  strconv.FormatFloat(lat, 'f', -1, 64),
			"longitude": strconv.FormatFloat(lon, 'f', -1, 64),
			"current":   strings.Join(currentFields, ","),
			"hourly":    strings.Join(hourlyFields, ","),
			"daily":     strings.Join(dailyFields, ","),
			"timezone":  "auto",
		}).
		Get("/forecast")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	if !resp.IsSuccess() {
		return nil, &StatusError{Service: s.Name(), Code: resp.StatusCode()}
	}

	var payload openMeteoResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return s.normalize(&payload)
}

func (s *OpenMeteoService) normalize(p *openMeteoResponse) (*WeatherSnapshot, error) {
	if p.Current == nil || p.Hourly == nil || p.Daily == nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, errors.New("missing current, hourly or daily section"))
	}

	c := p.Current
	snapshot := &WeatherSnapshot{
		Current: CurrentReading{
			Temperature:   c.Temperature,
			WeatherCode:   c.WeatherCode,
			WindSpeed:     c.WindSpeed,
			WindDirection: c.WindDirection,
			Humidity:      c.Humidity,
			Precipitation: c.Precipitation,
			Rain:          c.Rain,
			Showers:       c.Showers,
			Snowfall:      c.Snowfall,
		},
		Timezone: p.Timezone,
	}

	h := p.Hourly
	hourlyLens := []int{len(h.Time), len(h.Temperature), len(h.PrecipitationProbability),
		len(h.WeatherCode), len(h.WindSpeed), len(h.Humidity)}
	n := minLen(s.hourlyPoints, hourlyLens...)
	snapshot.Hourly = HourlySeries{
		Time:                     h.Time[:n:n],
		Temperature:              h.Temperature[:n:n],
		PrecipitationProbability: h.PrecipitationProbability[:n:n],
		WeatherCode:              h.WeatherCode[:n:n],
		WindSpeed:                h.WindSpeed[:n:n],
		Humidity:                 h.Humidity[:n:n],
	}

	d := p.Daily
	dailyLens := []int{len(d.Time), len(d.WeatherCode), len(d.TempMax), len(d.TempMin),
		len(d.PrecipitationSum), len(d.PrecipitationProbability)}
	m := minLen(dailyLens[0], dailyLens[1:]...)
	snapshot.Daily = DailySeries{
		Time:                     d.Time[:m:m],
		WeatherCode:              d.WeatherCode[:m:m],
		TempMax:                  d.TempMax[:m:m],
		TempMin:                  d.TempMin[:m:m],
		PrecipitationSum:         d.PrecipitationSum[:m:m],
		PrecipitationProbability: d.PrecipitationProbability[:m:m],
	}

	if !sameLen(hourlyLens...) || !sameLen(dailyLens...) {
		s.logger.Warn("Provider series had unequal lengths, truncated to align",
			zap.Int("hourly_points", n),
			zap.Int("daily_points", m))
	}

	return snapshot, nil
}

func minLen(first int, rest ...int) int {
	m := first
	for _, v := range rest {
		if v < m {
			m = v
		}
	}
	return m
}

func sameLen(lens ...int) bool {
	for _, l := range lens {
		if l != lens[0] {
			return false
		}
	}
	return true
}
