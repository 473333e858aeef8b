package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PRUTHVI-VANKA/Weather-Now/internal/location"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/service"
	"github.com/PRUTHVI-VANKA/Weather-Now/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type contextKey string

// RequestIDKey carries the HTTP request ID into fetch logs.
const RequestIDKey contextKey = "request_id"

// FetchErrorMessage is the user facing text of the error state.
const FetchErrorMessage = "Failed to fetch weather data. Please try again."

// ErrSuperseded is returned by a fetch that completed after a newer fetch was
// dispatched. Its result is dropped.
var ErrSuperseded = errors.New("fetch superseded by a newer request")

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// State is the application state. Snapshot keeps the last good snapshot
// while Status is error; readers must not show it in that case.
type State struct {
	Status     Status
	Snapshot   *service.WeatherSnapshot
	Error      string
	Permission location.Permission
	Sequence   uint64
	UpdatedAt  time.Time
}

// FetchRecorder receives one outcome per dispatched fetch: "success",
// "error" or "superseded".
type FetchRecorder interface {
	RecordDashboardFetch(ctx context.Context, outcome string)
}

// Controller owns the application state. Every change goes through
// FetchLocation, which moves idle/success/error to loading and loading to
// success or error. The newest dispatched fetch always wins.
type Controller struct {
	weather  service.WeatherFetcher
	resolver *location.Resolver
	logger   *zap.Logger
	tele     *telemetry.Telemetry
	metrics  FetchRecorder

	mu    sync.RWMutex
	state State
	seq   uint64
}

func NewController(weather service.WeatherFetcher, geo location.Geolocator, fallback location.Target, logger *zap.Logger, tele *telemetry.Telemetry) *Controller {
	c := &Controller{
		weather: weather,
		logger:  logger.With(zap.String("component", "dashboard")),
		tele:    tele,
		state:   State{Status: StatusIdle},
	}
	c.resolver = location.NewResolver(geo, c, fallback, logger, tele)
	return c
}

// SetMetricsRecorder sets the recorder for fetch outcomes.
func (c *Controller) SetMetricsRecorder(metrics FetchRecorder) {
	c.metrics = metrics
}

// Locate resolves the device location and fetches its weather. It also
// serves as the retry action of the error state. Like FetchLocation it runs
// to completion even when ctx is cancelled.
func (c *Controller) Locate(ctx context.Context) error {
	return c.resolver.Resolve(context.WithoutCancel(ctx))
}

// FetchLocation implements location.Fetcher. Once dispatched, the provider
// call is not tied to the caller's cancellation; only a newer fetch can
// discard its result.
func (c *Controller) FetchLocation(ctx context.Context, target location.Target) error {
	ctx = context.WithoutCancel(ctx)
	task := newFetchTask(ctx, target)

	c.mu.Lock()
	c.seq++
	task.Seq = c.seq
	c.state.Status = StatusLoading
	c.state.Sequence = task.Seq
	c.mu.Unlock()

	ctx, span := c.tele.GetTracer().Start(ctx, "dashboard.FetchLocation")
	defer span.End()
	span.SetAttributes(task.attributes()...)

	logger := c.logger.With(task.fields()...)
	logger.Debug("Fetch dispatched")

	snapshot, err := c.weather.Fetch(ctx, target.Latitude, target.Longitude, target.Name, target.Country)

	c.mu.Lock()
	defer c.mu.Unlock()

	if task.Seq != c.seq {
		span.SetAttributes(attribute.Bool("superseded", true))
		logger.Info("Dropping superseded fetch result",
			zap.Uint64("latest_seq", c.seq),
			zap.Duration("elapsed", time.Since(task.StartedAt)))
		c.record(ctx, "superseded")
		return ErrSuperseded
	}

	c.state.UpdatedAt = time.Now().UTC()

	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		c.tele.RecordError(ctx, err)
		c.state.Status = StatusError
		c.state.Error = FetchErrorMessage
		logger.Error("Fetch failed", zap.Error(err))
		c.record(ctx, "error")
		return fmt.Errorf("fetch weather: %w", err)
	}

	span.SetAttributes(attribute.Bool("success", true))
	c.state.Status = StatusSuccess
	c.state.Snapshot = snapshot
	c.state.Error = ""
	logger.Info("Fetch completed",
		zap.Duration("elapsed", time.Since(task.StartedAt)),
		zap.String("timezone", snapshot.Timezone))
	c.record(ctx, "success")

	return nil
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	state := c.state
	c.mu.RUnlock()

	state.Permission = c.resolver.Permission()
	return state
}

// View returns the presentation model of the current state.
func (c *Controller) View() View {
	return NewView(c.State())
}

func (c *Controller) record(ctx context.Context, outcome string) {
	if c.metrics != nil {
		c.metrics.RecordDashboardFetch(ctx, outcome)
	}
}
