package search

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/PRUTHVI-VANKA/Weather-Now/internal/location"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/service"
	"github.com/PRUTHVI-VANKA/Weather-Now/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var ErrUnknownCandidate = errors.New("candidate not in current results")

// View is a read-only copy of the search box state.
type View struct {
	Query   string                      `json:"query"`
	Results []service.LocationCandidate `json:"results"`
	Open    bool                        `json:"open"`
	Loading bool                        `json:"loading"`
}

// Controller owns the search query, its debounced geocoding lookups and the
// result dropdown. A selected candidate is forwarded to the fetcher.
type Controller struct {
	geocoder       service.Geocoder
	fetcher        location.Fetcher
	debouncer      *Debouncer
	minQueryLength int
	logger         *zap.Logger
	tele           *telemetry.Telemetry

	mu      sync.Mutex
	query   string
	results []service.LocationCandidate
	open    bool
	loading bool
	gen     uint64
}

func NewController(geocoder service.Geocoder, fetcher location.Fetcher, debounce time.Duration, minQueryLength int, logger *zap.Logger, tele *telemetry.Telemetry) *Controller {
	return &Controller{
		geocoder:       geocoder,
		fetcher:        fetcher,
		debouncer:      NewDebouncer(debounce),
		minQueryLength: minQueryLength,
		logger:         logger.With(zap.String("component", "search")),
		tele:           tele,
		results:        []service.LocationCandidate{},
	}
}

// SetQuery records a keystroke. Short queries clear the dropdown at once;
// longer ones schedule a lookup after the debounce delay.
func (c *Controller) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.query = query
	c.gen++
	gen := c.gen

	if utf8.RuneCountInString(query) < c.minQueryLength {
		c.debouncer.Cancel()
		c.results = []service.LocationCandidate{}
		c.open = false
		c.loading = false
		return
	}

	c.debouncer.Trigger(func() {
		c.run(gen, query)
	})
}

func (c *Controller) run(gen uint64, query string) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.loading = true
	c.open = true
	c.mu.Unlock()

	// in-flight lookups are never cancelled, only discarded
	ctx, span := c.tele.GetTracer().Start(context.Background(), "search.run")
	defer span.End()
	span.SetAttributes(attribute.String("query", query))

	results, err := c.geocoder.Search(ctx, query)
	if err != nil {
		c.logger.Warn("Search failed, showing no results",
			zap.String("query", query),
			zap.String("policy", c.geocoder.Policy().String()),
			zap.Error(err))
		results = []service.LocationCandidate{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		span.SetAttributes(attribute.Bool("discarded", true))
		c.logger.Debug("Discarding stale search results", zap.String("query", query))
		return
	}

	c.results = results
	c.loading = false
	c.open = true
}

// Dismiss hides the dropdown and keeps the query.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
}

// Select clears the search box and fetches weather for the candidate. It
// does not touch the location resolver state.
func (c *Controller) Select(ctx context.Context, candidate service.LocationCandidate) error {
	c.mu.Lock()
	c.reset()
	c.mu.Unlock()

	c.logger.Info("Location selected",
		zap.Int64("id", candidate.ID),
		zap.String("name", candidate.Name),
		zap.String("country", candidate.Country))

	return c.fetcher.FetchLocation(ctx, location.Target{
		Coordinates: candidate.Coordinates,
		Name:        candidate.Name,
		Country:     candidate.Country,
	})
}

// SelectByID selects one of the currently listed candidates.
func (c *Controller) SelectByID(ctx context.Context, id int64) error {
	c.mu.Lock()
	var found *service.LocationCandidate
	for i := range c.results {
		if c.results[i].ID == id {
			candidate := c.results[i]
			found = &candidate
			break
		}
	}
	c.mu.Unlock()

	if found == nil {
		return ErrUnknownCandidate
	}
	return c.Select(ctx, *found)
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	results := make([]service.LocationCandidate, len(c.results))
	copy(results, c.results)

	return View{
		Query:   c.query,
		Results: results,
		Open:    c.open,
		Loading: c.loading,
	}
}

// Close cancels a pending lookup.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.debouncer.Cancel()
}

func (c *Controller) reset() {
	c.gen++
	c.debouncer.Cancel()
	c.query = ""
	c.results = []service.LocationCandidate{}
	c.open = false
	c.loading = false
}
