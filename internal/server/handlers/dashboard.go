package handlers

import (
	"errors"
	"net/http"

	"github.com/PRUTHVI-VANKA/Weather-Now/internal/dashboard"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/location"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/server/utils"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboard *dashboard.Controller
	logger    *zap.Logger
}

func NewDashboardHandler(ctrl *dashboard.Controller, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: ctrl,
		logger:    logger,
	}
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.View())
}

// Locate re-runs location resolution. It is also the retry action.
func (h *DashboardHandler) Locate(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := utils.RequestLogger(c, h.logger)

	reqLogger.Info("Resolving device location")
	h.respond(c, reqLogger, h.dashboard.Locate(ctx))
}

// SetLocation fetches weather for an explicit location.
func (h *DashboardHandler) SetLocation(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := utils.RequestLogger(c, h.logger)

	var req LocationRequest
	if !bindJSON(c, reqLogger, &req) {
		return
	}

	reqLogger.Info("Fetching chosen location",
		zap.Float64("lat", *req.Latitude),
		zap.Float64("lon", *req.Longitude),
		zap.String("name", req.Name))

	err := h.dashboard.FetchLocation(ctx, location.Target{
		Coordinates: service.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude},
		Name:        req.Name,
		Country:     req.Country,
	})
	h.respond(c, reqLogger, err)
}

func (h *DashboardHandler) respond(c *gin.Context, reqLogger *zap.Logger, err error) {
	writeFetchResult(c, reqLogger, err, h.dashboard.View())
}

// writeFetchResult answers a request that triggered a dashboard fetch. A
// superseded fetch is not a failure; the newer fetch owns the state.
func writeFetchResult(c *gin.Context, reqLogger *zap.Logger, err error, view dashboard.View) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, view)
	case errors.Is(err, dashboard.ErrSuperseded):
		reqLogger.Debug("Fetch superseded by a newer request")
		c.JSON(http.StatusOK, view)
	default:
		reqLogger.Error("Dashboard fetch failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   dashboard.FetchErrorMessage,
			Code:    "FORECAST_ERROR",
			Details: err.Error(),
		})
	}
}

// bindJSON decodes and validates the body, writing a 400 on failure.
func bindJSON(c *gin.Context, reqLogger *zap.Logger, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		reqLogger.Warn("Invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_BODY",
			Details: err.Error(),
		})
		return false
	}
	return validateRequest(c, reqLogger, req)
}

// bindQuery decodes and validates the query string, writing a 400 on failure.
func bindQuery(c *gin.Context, reqLogger *zap.Logger, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		reqLogger.Warn("Invalid request parameters", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		})
		return false
	}
	return validateRequest(c, reqLogger, req)
}

func validateRequest(c *gin.Context, reqLogger *zap.Logger, req interface{}) bool {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		reqLogger.Warn("Request validation failed", zap.Int("errors", len(errs)))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:  "Invalid request parameters",
			Code:   "VALIDATION_ERROR",
			Fields: errs,
		})
		return false
	}
	return true
}
