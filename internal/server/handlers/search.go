package handlers

import (
	"errors"
	"net/http"

	"github.com/PRUTHVI-VANKA/Weather-Now/internal/dashboard"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/search"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/server/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SearchHandler struct {
	search    *search.Controller
	dashboard *dashboard.Controller
	logger    *zap.Logger
}

func NewSearchHandler(ctrl *search.Controller, dash *dashboard.Controller, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		search:    ctrl,
		dashboard: dash,
		logger:    logger,
	}
}

func (h *SearchHandler) GetSearch(c *gin.Context) {
	c.JSON(http.StatusOK, h.search.View())
}

// SetQuery feeds one keystroke state into the search box.
func (h *SearchHandler) SetQuery(c *gin.Context) {
	reqLogger := utils.RequestLogger(c, h.logger)

	var req SearchQueryRequest
	if !bindJSON(c, reqLogger, &req) {
		return
	}

	h.search.SetQuery(req.Query)
	c.JSON(http.StatusOK, h.search.View())
}

func (h *SearchHandler) Dismiss(c *gin.Context) {
	h.search.Dismiss()
	c.JSON(http.StatusOK, h.search.View())
}

// Select picks a listed candidate and returns the resulting dashboard.
func (h *SearchHandler) Select(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := utils.RequestLogger(c, h.logger)

	var req SelectRequest
	if !bindJSON(c, reqLogger, &req) {
		return
	}

	err := h.search.SelectByID(ctx, *req.ID)
	if errors.Is(err, search.ErrUnknownCandidate) {
		reqLogger.Warn("Unknown candidate selected", zap.Int64("id", *req.ID))
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Candidate not found in current results",
			Code:  "UNKNOWN_CANDIDATE",
		})
		return
	}

	writeFetchResult(c, reqLogger, err, h.dashboard.View())
}
