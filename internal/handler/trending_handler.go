package handler

import (
	"net/http"

	"fbmanager/internal/service"
	"fbmanager/pkg/pagination"
	"fbmanager/pkg/response"

	"github.com/gin-gonic/gin"
)

type TrendingHandler struct {
	trendingService service.TrendingService
}

// NewTrendingHandler sets up the routing dependencies for trending endpoints
func NewTrendingHandler(trendingService service.TrendingService) *TrendingHandler {
	return &TrendingHandler{trendingService: trendingService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *TrendingHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("", h.List)
	router.POST("/track", h.Track)
}

// List handles GET /trending with optional category filter
// @Summary      List trending topics
// @Tags         trending
// @Produce      json
// @Security     BearerAuth
// @Param        category  query     string  false  "Category filter"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Items per page (default 20)"
// @Success      200       {object}  response.Response{data=object}
// @Router       /trending [get]
func (h *TrendingHandler) List(c *gin.Context) {
	p := pagination.Parse(c)

	topics, total, err := h.trendingService.List(c.Request.Context(), c.Query("category"), p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(map[string]interface{}{
		"topics":     topics,
		"pagination": p.MetaFor(total),
	}))
}

// Track handles POST /trending/track to ingest topic mentions
// @Summary      Track topic mentions
// @Tags         trending
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.TrackTopicRequest  true  "Mention Batch"
// @Success      200      {object}  response.Response{data=model.TrendingTopic}
// @Failure      400      {object}  response.Response
// @Router       /trending/track [post]
func (h *TrendingHandler) Track(c *gin.Context) {
	var req service.TrackTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	topic, err := h.trendingService.Track(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(topic))
}
