package location

import (
	"context"
	"errors"
	"sync"

	"github.com/PRUTHVI-VANKA/Weather-Now/internal/config"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/service"
	"github.com/PRUTHVI-VANKA/Weather-Now/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrUnavailable is returned by a Geolocator that cannot produce a position,
// whether the capability is missing or the lookup was refused.
var ErrUnavailable = errors.New("geolocation unavailable")

type Permission string

const (
	PermissionPrompt  Permission = "prompt"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Target is a location handed to the weather fetch path. An empty Name means
// the snapshot carries no display location.
type Target struct {
	service.Coordinates
	Name    string `json:"name,omitempty"`
	Country string `json:"country,omitempty"`
}

// Fetcher loads weather for a target into the application state.
type Fetcher interface {
	FetchLocation(ctx context.Context, target Target) error
}

// Geolocator reports the device position.
type Geolocator interface {
	CurrentPosition(ctx context.Context) (service.Coordinates, error)
}

// DefaultFallback is used when the device position cannot be obtained.
var DefaultFallback = Target{
	Coordinates: service.Coordinates{Latitude: 40.7128, Longitude: -74.0060},
	Name:        "New York",
	Country:     "USA",
}

// FallbackFromConfig builds the fallback target, keeping DefaultFallback for
// an unset name.
func FallbackFromConfig(cfg config.FallbackConfig) Target {
	if cfg.Name == "" {
		return DefaultFallback
	}
	return Target{
		Coordinates: service.Coordinates{Latitude: cfg.Latitude, Longitude: cfg.Longitude},
		Name:        cfg.Name,
		Country:     cfg.Country,
	}
}

type Resolver struct {
	geo      Geolocator
	fetcher  Fetcher
	fallback Target
	logger   *zap.Logger
	tele     *telemetry.Telemetry

	mu         sync.RWMutex
	permission Permission
}

// NewResolver returns a resolver in the prompt state. A nil geo behaves as a
// device without geolocation.
func NewResolver(geo Geolocator, fetcher Fetcher, fallback Target, logger *zap.Logger, tele *telemetry.Telemetry) *Resolver {
	return &Resolver{
		geo:        geo,
		fetcher:    fetcher,
		fallback:   fallback,
		logger:     logger.With(zap.String("component", "location-resolver")),
		tele:       tele,
		permission: PermissionPrompt,
	}
}

func (r *Resolver) Permission() Permission {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.permission
}

// Resolve asks for the device position and fetches weather for it, or for the
// fallback when the position is unavailable. Geolocation failures are not
// returned; only the fetch error is.
func (r *Resolver) Resolve(ctx context.Context) error {
	ctx, span := r.tele.GetTracer().Start(ctx, "location.Resolve")
	defer span.End()

	target, permission := r.locate(ctx)

	r.mu.Lock()
	r.permission = permission
	r.mu.Unlock()

	span.SetAttributes(
		attribute.String("permission", string(permission)),
		attribute.Float64("lat", target.Latitude),
		attribute.Float64("lon", target.Longitude),
	)

	r.logger.Info("Location resolved",
		zap.String("permission", string(permission)),
		zap.Float64("lat", target.Latitude),
		zap.Float64("lon", target.Longitude),
		zap.String("name", target.Name))

	return r.fetcher.FetchLocation(ctx, target)
}

func (r *Resolver) locate(ctx context.Context) (Target, Permission) {
	if r.geo == nil {
		r.logger.Info("Geolocation not supported, using fallback")
		return r.fallback, PermissionDenied
	}

	pos, err := r.geo.CurrentPosition(ctx)
	if err != nil {
		r.logger.Warn("Geolocation failed, using fallback", zap.Error(err))
		return r.fallback, PermissionDenied
	}

	return Target{Coordinates: pos}, PermissionGranted
}
