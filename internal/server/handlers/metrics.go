package handlers

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/PRUTHVI-VANKA/Weather-Now/internal/server/middlewares"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppMetrics holds application-level metrics (provider calls, dashboard fetches)
type AppMetrics struct {
	mutex                sync.RWMutex
	weatherServiceCalls  map[string]int64
	weatherServiceErrors map[string]int64
	dashboardFetches     map[string]int64
}

// HTTPMetricsProvider exposes the request metrics collected by the middleware.
type HTTPMetricsProvider interface {
	Snapshot() middlewares.HTTPMetricsSnapshot
}

type MetricsHandler struct {
	logger      *zap.Logger
	httpMetrics HTTPMetricsProvider
	appMetrics  *AppMetrics
}

// NewMetricsHandler returns a handler that is also the service.CallRecorder
// and dashboard.FetchRecorder of the application. httpMetrics may be nil.
func NewMetricsHandler(logger *zap.Logger, httpMetrics HTTPMetricsProvider) *MetricsHandler {
	return &MetricsHandler{
		logger:      logger,
		httpMetrics: httpMetrics,
		appMetrics: &AppMetrics{
			weatherServiceCalls:  make(map[string]int64),
			weatherServiceErrors: make(map[string]int64),
			dashboardFetches:     make(map[string]int64),
		},
	}
}

// RecordWeatherServiceCall records an outbound provider call
func (h *MetricsHandler) RecordWeatherServiceCall(ctx context.Context, service string, success bool) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.weatherServiceCalls[service]++
	if !success {
		h.appMetrics.weatherServiceErrors[service]++
	}
	h.appMetrics.mutex.Unlock()
}

// RecordDashboardFetch records the outcome of a dashboard fetch
func (h *MetricsHandler) RecordDashboardFetch(ctx context.Context, outcome string) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.dashboardFetches[outcome]++
	h.appMetrics.mutex.Unlock()
}

// ServeMetrics exposes metrics in Prometheus text format
func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	var b strings.Builder

	if h.httpMetrics != nil {
		snap := h.httpMetrics.Snapshot()

		writeHeader(&b, "http_requests_total", "Total number of HTTP requests", "counter")
		writeLabeled(&b, "http_requests_total", "route_status", snap.RequestsTotal)

		writeHeader(&b, "http_request_duration_seconds_avg", "Average duration of HTTP requests", "gauge")
		b.WriteString("http_request_duration_seconds_avg " + strconv.FormatFloat(snap.AvgDurationSeconds, 'f', 6, 64) + "\n")

		writeHeader(&b, "http_active_requests", "Number of active HTTP requests", "gauge")
		b.WriteString("http_active_requests " + strconv.FormatInt(snap.ActiveRequests, 10) + "\n")
	}

	h.appMetrics.mutex.RLock()
	writeHeader(&b, "weather_service_calls_total", "Total weather service calls", "counter")
	writeLabeled(&b, "weather_service_calls_total", "service", h.appMetrics.weatherServiceCalls)

	writeHeader(&b, "weather_service_errors_total", "Total weather service errors", "counter")
	writeLabeled(&b, "weather_service_errors_total", "service", h.appMetrics.weatherServiceErrors)

	writeHeader(&b, "dashboard_fetches_total", "Dashboard fetches by outcome", "counter")
	writeLabeled(&b, "dashboard_fetches_total", "outcome", h.appMetrics.dashboardFetches)
	h.appMetrics.mutex.RUnlock()

	c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	c.String(http.StatusOK, b.String())
}

func writeHeader(b *strings.Builder, name, help, kind string) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString("# HELP " + name + " " + help + "\n")
	b.WriteString("# TYPE " + name + " " + kind + "\n")
}

func writeLabeled(b *strings.Builder, name, label string, values map[string]int64) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		b.WriteString(name + "{" + label + "=\"" + k + "\"} " + strconv.FormatInt(values[k], 10) + "\n")
	}
}
