package handler

import (
	"net/http"

	"fbmanager/internal/middleware"
	"fbmanager/internal/service"
	"fbmanager/pkg/response"

	"github.com/gin-gonic/gin"
)

type PageHandler struct {
	pageService service.PageService
}

// NewPageHandler sets up the routing dependencies for page endpoints
func NewPageHandler(pageService service.PageService) *PageHandler {
	return &PageHandler{pageService: pageService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *PageHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("", h.Connect)
	router.GET("", h.List)
	router.GET("/:id", h.Get)
	router.POST("/:id/sync", h.Sync)
	router.DELETE("/:id", h.Disconnect)
}

// Connect handles POST /pages to link a page to the account
// @Summary      Connect a page
// @Description  Verifies the page access token against the Graph API and stores the page
// @Tags         pages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ConnectPageRequest  true  "Connect Page Payload"
// @Success      201      {object}  response.Response{data=model.FacebookPage}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /pages [post]
func (h *PageHandler) Connect(c *gin.Context) {
	var req service.ConnectPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	page, err := h.pageService.Connect(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(page))
}

// List handles GET /pages
// @Summary      List connected pages
// @Tags         pages
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.FacebookPage}
// @Router       /pages [get]
func (h *PageHandler) List(c *gin.Context) {
	pages, err := h.pageService.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(pages))
}

// Get handles GET /pages/:id
// @Summary      Get a connected page
// @Tags         pages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Page ID"
// @Success      200  {object}  response.Response{data=model.FacebookPage}
// @Failure      404  {object}  response.Response
// @Router       /pages/{id} [get]
func (h *PageHandler) Get(c *gin.Context) {
	page, err := h.pageService.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(page))
}

// Sync handles POST /pages/:id/sync to refresh metadata from the Graph API
// @Summary      Sync page metadata
// @Tags         pages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Page ID"
// @Success      200  {object}  response.Response{data=model.FacebookPage}
// @Failure      404  {object}  response.Response
// @Router       /pages/{id}/sync [post]
func (h *PageHandler) Sync(c *gin.Context) {
	page, err := h.pageService.Sync(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(page))
}

// Disconnect handles DELETE /pages/:id
// @Summary      Disconnect a page
// @Tags         pages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Page ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /pages/{id} [delete]
func (h *PageHandler) Disconnect(c *gin.Context) {
	if err := h.pageService.Disconnect(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("Page disconnected"))
}
