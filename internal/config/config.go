package config

import (
	"sync/atomic"
	"time"
)

var configValue atomic.Value

func GetConfig() *Config {
	cfg, ok := configValue.Load().(*Config)
	if !ok {
		return NewDefaultConfig()
	}
	return cfg
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string          `mapstructure:"version"`
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Geocoding   GeocodingConfig `mapstructure:"geocoding"`
	Forecast    ForecastConfig  `mapstructure:"forecast"`
	Search      SearchConfig    `mapstructure:"search"`
	Location    LocationConfig  `mapstructure:"location"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	// LocateOnStart resolves the device location once when the server starts.
	LocateOnStart bool `mapstructure:"locate_on_start"`
}

type GeocodingConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Count          int           `mapstructure:"count"`
	Language       string        `mapstructure:"language"`
	MinQueryLength int           `mapstructure:"min_query_length"`
	Timeout        time.Duration `mapstructure:"timeout"`
	// ErrorPolicy is "degrade" (failures become empty results) or "surface".
	ErrorPolicy string `mapstructure:"error_policy"`
}

type ForecastConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	HourlyPoints int           `mapstructure:"hourly_points"`
}

type SearchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

type LocationConfig struct {
	// Provider selects the device position source: "ip-api", "static" or "none".
	Provider string            `mapstructure:"provider"`
	IPAPIURL string            `mapstructure:"ip_api_url"`
	Timeout  time.Duration     `mapstructure:"timeout"`
	Static   CoordinatesConfig `mapstructure:"static"`
	Fallback FallbackConfig    `mapstructure:"fallback"`
}

type CoordinatesConfig struct {
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
}

type FallbackConfig struct {
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
	Name      string  `mapstructure:"name"`
	Country   string  `mapstructure:"country"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:          8080,
			Host:          "0.0.0.0",
			ReadTimeout:   30 * time.Second,
			WriteTimeout:  30 * time.Second,
			IdleTimeout:   60 * time.Second,
			LocateOnStart: true,
		},
		Geocoding: GeocodingConfig{
			BaseURL:        "https://geocoding-api.open-meteo.com/v1",
			Count:          5,
			Language:       "en",
			MinQueryLength: 2,
			Timeout:        10 * time.Second,
			ErrorPolicy:    "degrade",
		},
		Forecast: ForecastConfig{
			BaseURL:      "https://api.open-meteo.com/v1",
			Timeout:      10 * time.Second,
			HourlyPoints: 24,
		},
		Search: SearchConfig{
			Debounce: 300 * time.Millisecond,
		},
		Location: LocationConfig{
			Provider: "ip-api",
			IPAPIURL: "http://ip-api.com",
			Timeout:  5 * time.Second,
			Fallback: FallbackConfig{
				Latitude:  40.7128,
				Longitude: -74.0060,
				Name:      "New York",
				Country:   "USA",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Endpoint:    "tempo:4317",
			ServiceName: "weather-now",
		},
	}
}
