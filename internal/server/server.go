package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PRUTHVI-VANKA/Weather-Now/internal/app"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/config"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/server/handlers"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/server/middlewares"
	"github.com/PRUTHVI-VANKA/Weather-Now/pkg/telemetry"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg     *config.Config
	engine  *gin.Engine
	server  *http.Server
	app     *app.App
	health  *handlers.HealthHandler
	metrics *handlers.MetricsHandler
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

func NewServer(cfg *config.Config, logger *zap.Logger, tele *telemetry.Telemetry) (*Server, error) {
	a, err := app.New(cfg, logger, tele)
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	httpMetrics := middlewares.NewMetricsMiddleware(logger, tele)

	engine.Use(middlewares.RequestIDMiddleware(logger))
	engine.Use(middlewares.LoggingMiddleware(logger, true))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))
	engine.Use(httpMetrics.Handler())

	metrics := handlers.NewMetricsHandler(logger, httpMetrics)
	a.SetRecorders(metrics, metrics)

	s := &Server{
		cfg:    cfg,
		engine: engine,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		app:     a,
		health:  handlers.NewHealthHandler(logger),
		metrics: metrics,
		logger:  logger,
		tele:    tele,
	}
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	dash := handlers.NewDashboardHandler(s.app.Dashboard, s.logger)
	search := handlers.NewSearchHandler(s.app.Search, s.app.Dashboard, s.logger)
	weather := handlers.NewWeatherHandler(s.app.Geocoding, s.app.Forecast, s.logger)

	api := s.engine.Group("/api/v1")
	{
		api.GET("/dashboard", dash.GetDashboard)
		api.POST("/dashboard/locate", dash.Locate)
		api.POST("/dashboard/location", dash.SetLocation)

		api.GET("/search", search.GetSearch)
		api.PUT("/search", search.SetQuery)
		api.POST("/search/dismiss", search.Dismiss)
		api.POST("/search/select", search.Select)

		api.GET("/geocode", weather.Geocode)
		api.GET("/forecast", weather.GetForecast)
	}

	// Health endpoints (Kubernetes friendly)
	s.engine.GET("/health", s.health.Health)
	s.engine.GET("/health/live", s.health.Liveness)
	s.engine.GET("/health/ready", s.health.Readiness)

	// Monitoring endpoints
	s.engine.GET("/metrics", s.metrics.ServeMetrics)
}

// Handler returns the routed engine.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until Shutdown. With locate_on_start it resolves the device
// location in the background first.
func (s *Server) Start(ctx context.Context) error {
	if s.cfg.Server.LocateOnStart {
		go func() {
			if err := s.app.Dashboard.Locate(ctx); err != nil {
				s.logger.Warn("Initial location fetch failed", zap.Error(err))
			}
		}()
	}

	s.health.SetReady(true)
	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))

	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	s.app.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
