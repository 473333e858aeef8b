package search

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PRUTHVI-VANKA/Weather-Now/internal/location"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type geocoderStub struct {
	mu      sync.Mutex
	queries []string
	results []service.LocationCandidate
	err     error
	block   chan struct{}
}

func (g *geocoderStub) Search(_ context.Context, query string) ([]service.LocationCandidate, error) {
	g.mu.Lock()
	g.queries = append(g.queries, query)
	block := g.block
	g.mu.Unlock()

	if block != nil {
		<-block
	}
	if g.err != nil {
		return nil, g.err
	}
	return g.results, nil
}

func (g *geocoderStub) Policy() service.ErrorPolicy { return service.PolicyDegrade }
func (g *geocoderStub) Name() string                { return "stub" }

func (g *geocoderStub) calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.queries...)
}

type fetcherStub struct {
	mu      sync.Mutex
	targets []location.Target
}

func (f *fetcherStub) FetchLocation(_ context.Context, target location.Target) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.targets = append(f.targets, target)
	return nil
}

var berlin = service.LocationCandidate{
	ID:          2950159,
	Name:        "Berlin",
	Country:     "Germany",
	Admin1:      "Land Berlin",
	Coordinates: service.Coordinates{Latitude: 52.52437, Longitude: 13.41053},
}

func newController(t *testing.T, geo *geocoderStub, fetcher *fetcherStub, debounce time.Duration) *Controller {
	t.Helper()
	c := NewController(geo, fetcher, debounce, 2, zaptest.NewLogger(t), nil)
	t.Cleanup(c.Close)
	return c
}

func TestDebounceIssuesSingleCallWithFinalQuery(t *testing.T) {
	geo := &geocoderStub{results: []service.LocationCandidate{berlin}}
	c := newController(t, geo, &fetcherStub{}, 300*time.Millisecond)

	c.SetQuery("Be")
	time.Sleep(100 * time.Millisecond)
	c.SetQuery("Ber")
	time.Sleep(100 * time.Millisecond)
	c.SetQuery("Berl")

	require.Eventually(t, func() bool { return len(geo.calls()) == 1 }, 2*time.Second, 10*time.Millisecond)

	// silence past the window must not produce another call
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, []string{"Berl"}, geo.calls())

	view := c.View()
	assert.True(t, view.Open)
	assert.False(t, view.Loading)
	assert.Equal(t, "Berl", view.Query)
	assert.Equal(t, []service.LocationCandidate{berlin}, view.Results)
}

func TestShortQueryClearsImmediately(t *testing.T) {
	geo := &geocoderStub{results: []service.LocationCandidate{berlin}}
	c := newController(t, geo, &fetcherStub{}, 20*time.Millisecond)

	c.SetQuery("Berlin")
	require.Eventually(t, func() bool { return c.View().Open }, time.Second, 5*time.Millisecond)

	c.SetQuery("B")
	view := c.View()
	assert.False(t, view.Open)
	assert.Empty(t, view.Results)
	assert.Equal(t, "B", view.Query)
	assert.Len(t, geo.calls(), 1)
}

func TestShortQueryCancelsPendingLookup(t *testing.T) {
	geo := &geocoderStub{}
	c := newController(t, geo, &fetcherStub{}, 100*time.Millisecond)

	c.SetQuery("Berlin")
	assert.True(t, c.debouncer.Pending())
	c.SetQuery("")
	assert.False(t, c.debouncer.Pending())

	time.Sleep(250 * time.Millisecond)
	assert.Empty(t, geo.calls())
}

func TestStaleResultsAreDiscarded(t *testing.T) {
	geo := &geocoderStub{results: []service.LocationCandidate{berlin}, block: make(chan struct{})}
	c := newController(t, geo, &fetcherStub{}, 10*time.Millisecond)

	c.SetQuery("Berlin")
	require.Eventually(t, func() bool { return len(geo.calls()) == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, c.View().Loading)

	// query changes while the lookup is in flight
	c.SetQuery("x")
	close(geo.block)

	time.Sleep(50 * time.Millisecond)
	view := c.View()
	assert.Empty(t, view.Results)
	assert.False(t, view.Open)
}

func TestSearchErrorShowsEmptyResults(t *testing.T) {
	geo := &geocoderStub{err: errors.New("boom")}
	c := newController(t, geo, &fetcherStub{}, 10*time.Millisecond)

	c.SetQuery("Berlin")
	require.Eventually(t, func() bool {
		v := c.View()
		return v.Open && !v.Loading
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, c.View().Results)
}

func TestDismissKeepsQuery(t *testing.T) {
	geo := &geocoderStub{results: []service.LocationCandidate{berlin}}
	c := newController(t, geo, &fetcherStub{}, 10*time.Millisecond)

	c.SetQuery("Berlin")
	require.Eventually(t, func() bool { return c.View().Open }, time.Second, 5*time.Millisecond)

	c.Dismiss()
	view := c.View()
	assert.False(t, view.Open)
	assert.Equal(t, "Berlin", view.Query)
	assert.Len(t, view.Results, 1)
}

func TestSelectClearsAndForwards(t *testing.T) {
	geo := &geocoderStub{results: []service.LocationCandidate{berlin}}
	fetcher := &fetcherStub{}
	c := newController(t, geo, fetcher, 10*time.Millisecond)

	c.SetQuery("Berlin")
	require.Eventually(t, func() bool { return len(c.View().Results) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, c.SelectByID(context.Background(), berlin.ID))

	view := c.View()
	assert.Empty(t, view.Query)
	assert.Empty(t, view.Results)
	assert.False(t, view.Open)

	require.Len(t, fetcher.targets, 1)
	assert.Equal(t, location.Target{
		Coordinates: berlin.Coordinates,
		Name:        "Berlin",
		Country:     "Germany",
	}, fetcher.targets[0])
}

func TestSelectByUnknownID(t *testing.T) {
	fetcher := &fetcherStub{}
	c := newController(t, &geocoderStub{}, fetcher, 10*time.Millisecond)

	err := c.SelectByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUnknownCandidate)
	assert.Empty(t, fetcher.targets)
}

func TestDebouncerCancel(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(30 * time.Millisecond)

	d.Trigger(func() { fired.Add(1) })
	d.Cancel()
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())

	d.Trigger(func() { fired.Add(1) })
	d.Trigger(func() { fired.Add(10) })
	require.Eventually(t, func() bool { return fired.Load() == 10 }, time.Second, 5*time.Millisecond)
	assert.False(t, d.Pending())
}
