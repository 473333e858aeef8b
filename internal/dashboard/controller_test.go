package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/PRUTHVI-VANKA/Weather-Now/internal/condition"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/location"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fetchCall struct {
	lat, lon      float64
	name, country string
}

// weatherStub answers each Fetch from the gate registered for its name, or
// immediately when none is registered.
type weatherStub struct {
	mu    sync.Mutex
	calls []fetchCall
	gates map[string]chan struct{}
	err   error
}

func (w *weatherStub) Fetch(ctx context.Context, lat, lon float64, name, country string) (*service.WeatherSnapshot, error) {
	w.mu.Lock()
	w.calls = append(w.calls, fetchCall{lat, lon, name, country})
	gate := w.gates[name]
	err := w.err
	w.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return snapshotFor(name, country), nil
}

func (w *weatherStub) Policy() service.ErrorPolicy { return service.PolicySurface }
func (w *weatherStub) Name() string                { return "stub" }

func (w *weatherStub) callCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.calls)
}

func snapshotFor(name, country string) *service.WeatherSnapshot {
	dir := 270.0
	days := make([]string, 16)
	codes := make([]int, 16)
	values := make([]float64, 16)
	snap := &service.WeatherSnapshot{
		Current: service.CurrentReading{
			Temperature:   21,
			WeatherCode:   0,
			WindSpeed:     5,
			WindDirection: &dir,
		},
		Daily: service.DailySeries{
			Time:                     days,
			WeatherCode:              codes,
			TempMax:                  values,
			TempMin:                  values,
			PrecipitationSum:         values,
			PrecipitationProbability: values,
		},
		Timezone: "UTC",
	}
	if name != "" {
		snap.Location = &service.DisplayLocation{Name: name, Country: country}
	}
	return snap
}

type outcomeRecorder struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *outcomeRecorder) RecordDashboardFetch(_ context.Context, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

type geoFunc func(ctx context.Context) (service.Coordinates, error)

func (g geoFunc) CurrentPosition(ctx context.Context) (service.Coordinates, error) {
	return g(ctx)
}

func newController(t *testing.T, weather *weatherStub, geo location.Geolocator) *Controller {
	t.Helper()
	return NewController(weather, geo, location.DefaultFallback, zaptest.NewLogger(t), nil)
}

func TestControllerStartsIdle(t *testing.T) {
	c := newController(t, &weatherStub{}, nil)

	state := c.State()
	assert.Equal(t, StatusIdle, state.Status)
	assert.Nil(t, state.Snapshot)
	assert.Equal(t, location.PermissionPrompt, state.Permission)
	assert.Nil(t, c.View().Weather)
}

func TestFetchLocationSuccess(t *testing.T) {
	rec := &outcomeRecorder{}
	c := newController(t, &weatherStub{}, nil)
	c.SetMetricsRecorder(rec)

	err := c.FetchLocation(context.Background(), location.Target{
		Coordinates: service.Coordinates{Latitude: 48.85, Longitude: 2.35},
		Name:        "Paris",
		Country:     "France",
	})
	require.NoError(t, err)

	state := c.State()
	assert.Equal(t, StatusSuccess, state.Status)
	require.NotNil(t, state.Snapshot)
	assert.Equal(t, "Paris", state.Snapshot.Location.Name)
	assert.Empty(t, state.Error)
	assert.Equal(t, uint64(1), state.Sequence)
	assert.False(t, state.UpdatedAt.IsZero())
	assert.Equal(t, []string{"success"}, rec.outcomes)
}

func TestFetchLocationErrorState(t *testing.T) {
	weather := &weatherStub{}
	c := newController(t, weather, nil)

	require.NoError(t, c.FetchLocation(context.Background(), location.DefaultFallback))

	weather.err = service.ErrTransport
	err := c.FetchLocation(context.Background(), location.DefaultFallback)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrTransport)

	state := c.State()
	assert.Equal(t, StatusError, state.Status)
	assert.Equal(t, FetchErrorMessage, state.Error)

	view := c.View()
	assert.Equal(t, StatusError, view.Status)
	assert.Nil(t, view.Weather)
}

func TestNewerFetchWins(t *testing.T) {
	weather := &weatherStub{gates: map[string]chan struct{}{"Slow": make(chan struct{})}}
	rec := &outcomeRecorder{}
	c := newController(t, weather, nil)
	c.SetMetricsRecorder(rec)

	slowErr := make(chan error, 1)
	go func() {
		slowErr <- c.FetchLocation(context.Background(), location.Target{Name: "Slow", Country: "A"})
	}()
	require.Eventually(t, func() bool { return weather.callCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, StatusLoading, c.State().Status)

	require.NoError(t, c.FetchLocation(context.Background(), location.Target{Name: "Fast", Country: "B"}))

	close(weather.gates["Slow"])
	assert.ErrorIs(t, <-slowErr, ErrSuperseded)

	state := c.State()
	assert.Equal(t, StatusSuccess, state.Status)
	assert.Equal(t, "Fast", state.Snapshot.Location.Name)
	assert.Equal(t, uint64(2), state.Sequence)
	assert.ElementsMatch(t, []string{"success", "superseded"}, rec.outcomes)
}

func TestFetchLocationOutlivesCallerCancellation(t *testing.T) {
	gate := make(chan struct{})
	weather := &weatherStub{gates: map[string]chan struct{}{"Paris": gate}}
	c := newController(t, weather, nil)

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), RequestIDKey, "req-9"))
	done := make(chan error, 1)
	go func() {
		done <- c.FetchLocation(ctx, location.Target{
			Coordinates: service.Coordinates{Latitude: 48.85, Longitude: 2.35},
			Name:        "Paris", Country: "France",
		})
	}()

	require.Eventually(t, func() bool { return weather.callCount() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, StatusLoading, c.State().Status)
	close(gate)

	require.NoError(t, <-done)
	state := c.State()
	assert.Equal(t, StatusSuccess, state.Status)
	assert.Empty(t, state.Error)
	assert.Equal(t, "Paris", state.Snapshot.Location.Name)
}

func TestLocateOutlivesCallerCancellation(t *testing.T) {
	weather := &weatherStub{}
	geo := geoFunc(func(ctx context.Context) (service.Coordinates, error) {
		if err := ctx.Err(); err != nil {
			return service.Coordinates{}, err
		}
		return service.Coordinates{Latitude: 52.52, Longitude: 13.41}, nil
	})
	c := newController(t, weather, geo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, c.Locate(ctx))

	state := c.State()
	assert.Equal(t, StatusSuccess, state.Status)
	assert.Equal(t, location.PermissionGranted, state.Permission)
}

func TestLocateGranted(t *testing.T) {
	weather := &weatherStub{}
	geo := geoFunc(func(context.Context) (service.Coordinates, error) {
		return service.Coordinates{Latitude: 35.68, Longitude: 139.69}, nil
	})
	c := newController(t, weather, geo)

	require.NoError(t, c.Locate(context.Background()))

	state := c.State()
	assert.Equal(t, location.PermissionGranted, state.Permission)
	assert.Nil(t, state.Snapshot.Location)
	assert.Equal(t, fetchCall{lat: 35.68, lon: 139.69}, weather.calls[0])
}

func TestLocateDeniedFetchesNewYork(t *testing.T) {
	weather := &weatherStub{}
	geo := geoFunc(func(context.Context) (service.Coordinates, error) {
		return service.Coordinates{}, location.ErrUnavailable
	})
	c := newController(t, weather, geo)

	require.NoError(t, c.Locate(context.Background()))

	assert.Equal(t, location.PermissionDenied, c.State().Permission)
	assert.Equal(t, fetchCall{lat: 40.7128, lon: -74.0060, name: "New York", country: "USA"}, weather.calls[0])
}

func TestRetryAfterErrorRerunsResolution(t *testing.T) {
	weather := &weatherStub{err: errors.New("down")}
	c := newController(t, weather, nil)

	require.Error(t, c.Locate(context.Background()))
	assert.Equal(t, StatusError, c.State().Status)

	weather.mu.Lock()
	weather.err = nil
	weather.mu.Unlock()

	require.NoError(t, c.Locate(context.Background()))
	assert.Equal(t, StatusSuccess, c.State().Status)
	assert.Equal(t, 2, weather.callCount())
}

func TestViewDerivesDisplayValues(t *testing.T) {
	c := newController(t, &weatherStub{}, nil)
	require.NoError(t, c.FetchLocation(context.Background(), location.DefaultFallback))

	view := c.View()
	require.NotNil(t, view.Weather)
	assert.Equal(t, condition.Sunny, view.Weather.Condition)
	assert.Equal(t, "Clear sky", view.Weather.Description)
	assert.Equal(t, "W", view.Weather.WindLabel)
	assert.Equal(t, 20.0, view.Weather.FeelsLike)
	assert.Equal(t, ForecastDays, view.Weather.Daily.Len())
	assert.Equal(t, "New York", view.Weather.Location.Name)
	require.NotNil(t, view.UpdatedAt)
}

func TestFeelsLike(t *testing.T) {
	tests := []struct {
		temp, wind, want float64
	}{
		{21, 5, 20},
		{18.2, 9.4, 16},
		{0, 0, 0},
		{-3, 20, -7},
		{10, 3, 9},
	}
	for _, tt := range tests {
		got := FeelsLike(service.CurrentReading{Temperature: tt.temp, WindSpeed: tt.wind})
		assert.Equal(t, tt.want, got, "temp %v wind %v", tt.temp, tt.wind)
	}
}

func TestFetchTaskCarriesRequestID(t *testing.T) {
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	task := newFetchTask(ctx, location.DefaultFallback)

	assert.Equal(t, "req-1", task.RequestID)
	assert.NotEmpty(t, task.ID)
	assert.NotEqual(t, task.ID, newFetchTask(ctx, location.DefaultFallback).ID)
}
