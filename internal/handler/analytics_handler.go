package handler

import (
	"net/http"

	"fbmanager/internal/middleware"
	"fbmanager/internal/service"
	"fbmanager/pkg/response"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

// NewAnalyticsHandler sets up the routing dependencies for analytics endpoints
func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/pages/:id", h.PageSummary)
}

// PageSummary handles GET /analytics/pages/:id
// @Summary      Page engagement summary
// @Description  Refreshes per-post metrics from the Graph API and aggregates engagement for the page
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Page ID"
// @Success      200  {object}  response.Response{data=service.PageAnalytics}
// @Failure      404  {object}  response.Response
// @Router       /analytics/pages/{id} [get]
func (h *AnalyticsHandler) PageSummary(c *gin.Context) {
	summary, err := h.analyticsService.PageSummary(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(summary))
}
