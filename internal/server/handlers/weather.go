package handlers

import (
	"net/http"

	"github.com/PRUTHVI-VANKA/Weather-Now/internal/dashboard"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/server/utils"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WeatherHandler exposes the provider clients directly, outside of the
// dashboard state.
type WeatherHandler struct {
	geocoder service.Geocoder
	weather  service.WeatherFetcher
	logger   *zap.Logger
}

func NewWeatherHandler(geocoder service.Geocoder, weather service.WeatherFetcher, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{
		geocoder: geocoder,
		weather:  weather,
		logger:   logger,
	}
}

func (h *WeatherHandler) Geocode(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := utils.RequestLogger(c, h.logger)

	var req GeocodeRequest
	if !bindQuery(c, reqLogger, &req) {
		return
	}

	results, err := h.geocoder.Search(ctx, req.Query)
	if err != nil {
		reqLogger.Error("Geocoding failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "Failed to search locations",
			Code:    "GEOCODING_ERROR",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, GeocodeResponse{Results: results})
}

func (h *WeatherHandler) GetForecast(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := utils.RequestLogger(c, h.logger)

	var req ForecastRequest
	if !bindQuery(c, reqLogger, &req) {
		return
	}

	reqLogger.Info("Processing forecast request",
		zap.Float64("lat", *req.Lat),
		zap.Float64("lon", *req.Lon))

	snapshot, err := h.weather.Fetch(ctx, *req.Lat, *req.Lon, req.Name, req.Country)
	if err != nil {
		reqLogger.Error("Failed to get forecast", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   dashboard.FetchErrorMessage,
			Code:    "FORECAST_ERROR",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dashboard.NewWeatherView(snapshot))
}
