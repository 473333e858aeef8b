package location

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PRUTHVI-VANKA/Weather-Now/internal/config"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/service"
	"github.com/PRUTHVI-VANKA/Weather-Now/pkg/telemetry"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const ipAPIFields = "status,message,lat,lon,city,country"

// NewGeolocator builds the provider named in cfg. The "none" provider yields a
// nil Geolocator.
func NewGeolocator(cfg config.LocationConfig, logger *zap.Logger, tele *telemetry.Telemetry) (Geolocator, error) {
	switch cfg.Provider {
	case "ip-api":
		return NewIPAPIGeolocator(cfg, logger, tele), nil
	case "static":
		return &StaticGeolocator{Position: service.Coordinates{
			Latitude:  cfg.Static.Latitude,
			Longitude: cfg.Static.Longitude,
		}}, nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown location provider %q", cfg.Provider)
	}
}

// StaticGeolocator always reports the same position.
type StaticGeolocator struct {
	Position service.Coordinates
}

func (g *StaticGeolocator) CurrentPosition(context.Context) (service.Coordinates, error) {
	return g.Position, nil
}

// IPAPIGeolocator approximates the device position from its public IP.
type IPAPIGeolocator struct {
	client *resty.Client
	logger *zap.Logger
	tele   *telemetry.Telemetry
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city"`
	Country string  `json:"country"`
}

func NewIPAPIGeolocator(cfg config.LocationConfig, logger *zap.Logger, tele *telemetry.Telemetry) *IPAPIGeolocator {
	return &IPAPIGeolocator{
		client: service.NewRestClient(cfg.IPAPIURL, cfg.Timeout, nil),
		logger: logger.With(zap.String("geolocator", "ip-api")),
		tele:   tele,
	}
}

func (g *IPAPIGeolocator) CurrentPosition(ctx context.Context) (service.Coordinates, error) {
	ctx, span := g.tele.GetTracer().Start(ctx, "ip-api.CurrentPosition")
	defer span.End()

	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("fields", ipAPIFields).
		Get("/json/")
	if err != nil {
		g.tele.RecordError(ctx, err)
		return service.Coordinates{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if !resp.IsSuccess() {
		return service.Coordinates{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}

	var payload ipAPIResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return service.Coordinates{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if payload.Status != "success" {
		return service.Coordinates{}, fmt.Errorf("%w: %s", ErrUnavailable, payload.Message)
	}

	g.logger.Debug("Position from IP",
		zap.Float64("lat", payload.Lat),
		zap.Float64("lon", payload.Lon),
		zap.String("city", payload.City))

	return service.Coordinates{Latitude: payload.Lat, Longitude: payload.Lon}, nil
}
