package location

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/PRUTHVI-VANKA/Weather-Now/internal/config"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fetcherStub struct {
	mu      sync.Mutex
	targets []Target
	err     error
}

func (f *fetcherStub) FetchLocation(_ context.Context, target Target) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.targets = append(f.targets, target)
	return f.err
}

func (f *fetcherStub) last(t *testing.T) Target {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.targets)
	return f.targets[len(f.targets)-1]
}

type geoFunc func(ctx context.Context) (service.Coordinates, error)

func (g geoFunc) CurrentPosition(ctx context.Context) (service.Coordinates, error) {
	return g(ctx)
}

func TestResolverStartsInPrompt(t *testing.T) {
	r := NewResolver(nil, &fetcherStub{}, DefaultFallback, zaptest.NewLogger(t), nil)
	assert.Equal(t, PermissionPrompt, r.Permission())
}

func TestResolverGranted(t *testing.T) {
	fetcher := &fetcherStub{}
	geo := geoFunc(func(context.Context) (service.Coordinates, error) {
		return service.Coordinates{Latitude: 51.5, Longitude: -0.12}, nil
	})
	r := NewResolver(geo, fetcher, DefaultFallback, zaptest.NewLogger(t), nil)

	require.NoError(t, r.Resolve(context.Background()))

	assert.Equal(t, PermissionGranted, r.Permission())
	got := fetcher.last(t)
	assert.Equal(t, 51.5, got.Latitude)
	assert.Equal(t, -0.12, got.Longitude)
	assert.Empty(t, got.Name)
	assert.Empty(t, got.Country)
}

func TestResolverDeniedUsesNewYork(t *testing.T) {
	fetcher := &fetcherStub{}
	geo := geoFunc(func(context.Context) (service.Coordinates, error) {
		return service.Coordinates{}, ErrUnavailable
	})
	r := NewResolver(geo, fetcher, DefaultFallback, zaptest.NewLogger(t), nil)

	require.NoError(t, r.Resolve(context.Background()))

	assert.Equal(t, PermissionDenied, r.Permission())
	got := fetcher.last(t)
	assert.Equal(t, 40.7128, got.Latitude)
	assert.Equal(t, -74.0060, got.Longitude)
	assert.Equal(t, "New York", got.Name)
	assert.Equal(t, "USA", got.Country)
}

func TestResolverWithoutGeolocator(t *testing.T) {
	fetcher := &fetcherStub{}
	r := NewResolver(nil, fetcher, DefaultFallback, zaptest.NewLogger(t), nil)

	require.NoError(t, r.Resolve(context.Background()))

	assert.Equal(t, PermissionDenied, r.Permission())
	assert.Equal(t, DefaultFallback, fetcher.last(t))
}

func TestResolverIsReinvocable(t *testing.T) {
	fetcher := &fetcherStub{}
	fail := true
	geo := geoFunc(func(context.Context) (service.Coordinates, error) {
		if fail {
			return service.Coordinates{}, ErrUnavailable
		}
		return service.Coordinates{Latitude: 1, Longitude: 2}, nil
	})
	r := NewResolver(geo, fetcher, DefaultFallback, zaptest.NewLogger(t), nil)

	require.NoError(t, r.Resolve(context.Background()))
	assert.Equal(t, PermissionDenied, r.Permission())

	fail = false
	require.NoError(t, r.Resolve(context.Background()))
	assert.Equal(t, PermissionGranted, r.Permission())
	assert.Len(t, fetcher.targets, 2)
}

func TestResolverReturnsFetchError(t *testing.T) {
	fetchErr := errors.New("forecast down")
	fetcher := &fetcherStub{err: fetchErr}
	r := NewResolver(nil, fetcher, DefaultFallback, zaptest.NewLogger(t), nil)

	err := r.Resolve(context.Background())
	assert.ErrorIs(t, err, fetchErr)
	assert.Equal(t, PermissionDenied, r.Permission())
}

func TestFallbackFromConfig(t *testing.T) {
	assert.Equal(t, DefaultFallback, FallbackFromConfig(config.FallbackConfig{}))

	got := FallbackFromConfig(config.FallbackConfig{Latitude: 48.85, Longitude: 2.35, Name: "Paris", Country: "France"})
	assert.Equal(t, "Paris", got.Name)
	assert.Equal(t, 48.85, got.Latitude)

	assert.Equal(t, DefaultFallback, FallbackFromConfig(config.NewDefaultConfig().Location.Fallback))
}

func TestNewGeolocator(t *testing.T) {
	cfg := config.NewDefaultConfig().Location
	logger := zaptest.NewLogger(t)

	geo, err := NewGeolocator(cfg, logger, nil)
	require.NoError(t, err)
	assert.IsType(t, &IPAPIGeolocator{}, geo)

	cfg.Provider = "static"
	cfg.Static = config.CoordinatesConfig{Latitude: 10, Longitude: 20}
	geo, err = NewGeolocator(cfg, logger, nil)
	require.NoError(t, err)
	pos, err := geo.CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, service.Coordinates{Latitude: 10, Longitude: 20}, pos)

	cfg.Provider = "none"
	geo, err = NewGeolocator(cfg, logger, nil)
	require.NoError(t, err)
	assert.Nil(t, geo)

	cfg.Provider = "gps"
	_, err = NewGeolocator(cfg, logger, nil)
	assert.Error(t, err)
}

func newIPAPI(t *testing.T, handler http.HandlerFunc) *IPAPIGeolocator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.NewDefaultConfig().Location
	cfg.IPAPIURL = srv.URL
	cfg.Timeout = 2 * time.Second
	return NewIPAPIGeolocator(cfg, zaptest.NewLogger(t), nil)
}

func TestIPAPIGeolocatorSuccess(t *testing.T) {
	geo := newIPAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json/", r.URL.Path)
		assert.Equal(t, ipAPIFields, r.URL.Query().Get("fields"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","lat":52.52,"lon":13.405,"city":"Berlin","country":"Germany"}`))
	})

	pos, err := geo.CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 52.52, pos.Latitude)
	assert.Equal(t, 13.405, pos.Longitude)
}

func TestIPAPIGeolocatorFailStatus(t *testing.T) {
	geo := newIPAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"fail","message":"private range"}`))
	})

	_, err := geo.CurrentPosition(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "private range")
}

func TestIPAPIGeolocatorHTTPError(t *testing.T) {
	geo := newIPAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := geo.CurrentPosition(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestResolverWithIPAPIFailureFallsBack(t *testing.T) {
	geo := newIPAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	fetcher := &fetcherStub{}
	r := NewResolver(geo, fetcher, DefaultFallback, zaptest.NewLogger(t), nil)

	require.NoError(t, r.Resolve(context.Background()))
	assert.Equal(t, PermissionDenied, r.Permission())
	assert.Equal(t, "New York", fetcher.last(t).Name)
}
