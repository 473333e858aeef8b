// Package app wires the provider clients, the location resolver, the
// dashboard state and the search box from configuration.
package app

import (
	"fmt"

	"github.com/PRUTHVI-VANKA/Weather-Now/internal/config"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/dashboard"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/location"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/search"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/service"
	"github.com/PRUTHVI-VANKA/Weather-Now/pkg/telemetry"
	"go.uber.org/zap"
)

type App struct {
	Geocoding *service.GeocodingService
	Forecast  *service.OpenMeteoService
	Dashboard *dashboard.Controller
	Search    *search.Controller
}

func New(cfg *config.Config, logger *zap.Logger, tele *telemetry.Telemetry) (*App, error) {
	geocoding, err := service.NewGeocodingServiceWithConfig(cfg.Geocoding, logger, tele)
	if err != nil {
		return nil, err
	}
	forecast := service.NewOpenMeteoServiceWithConfig(cfg.Forecast, logger, tele)

	geo, err := location.NewGeolocator(cfg.Location, logger, tele)
	if err != nil {
		return nil, fmt.Errorf("location: %w", err)
	}

	dash := dashboard.NewController(forecast, geo, location.FallbackFromConfig(cfg.Location.Fallback), logger, tele)
	searchCtrl := search.NewController(geocoding, dash, cfg.Search.Debounce, cfg.Geocoding.MinQueryLength, logger, tele)

	logger.Info("Application wired",
		zap.String("geocoding", geocoding.Name()),
		zap.String("geocoding_policy", geocoding.Policy().String()),
		zap.String("forecast", forecast.Name()),
		zap.String("location_provider", cfg.Location.Provider))

	return &App{
		Geocoding: geocoding,
		Forecast:  forecast,
		Dashboard: dash,
		Search:    searchCtrl,
	}, nil
}

// SetRecorders attaches the metrics sinks to every component that reports.
func (a *App) SetRecorders(calls service.CallRecorder, fetches dashboard.FetchRecorder) {
	a.Geocoding.SetCallRecorder(calls)
	a.Forecast.SetCallRecorder(calls)
	a.Dashboard.SetMetricsRecorder(fetches)
}

func (a *App) Close() {
	a.Search.Close()
}
