package handler

import (
	"net/http"

	"fbmanager/internal/middleware"
	"fbmanager/internal/service"
	"fbmanager/pkg/pagination"
	"fbmanager/pkg/response"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postService service.PostService
}

// NewPostHandler sets up the routing dependencies for post endpoints
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *PostHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("", h.Create)
	router.GET("", h.List)
	router.GET("/:id", h.Get)
	router.PUT("/:id", h.Update)
	router.DELETE("/:id", h.Delete)
	router.POST("/:id/publish", h.Publish)
}

// Create handles POST /posts, either with user content or AI-generated
// @Summary      Create a post draft
// @Description  Drafts a post; with generate set the content is produced by the AI assistant
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreatePostRequest  true  "Create Post Payload"
// @Success      201      {object}  response.Response{data=model.Post}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	var req service.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	post, err := h.postService.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(post))
}

// List handles GET /posts with pagination
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /posts [get]
func (h *PostHandler) List(c *gin.Context) {
	p := pagination.Parse(c)

	posts, total, err := h.postService.List(c.Request.Context(), middleware.UserID(c), p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(map[string]interface{}{
		"posts":      posts,
		"pagination": p.MetaFor(total),
	}))
}

// Get handles GET /posts/:id
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  response.Response{data=model.Post}
// @Failure      404  {object}  response.Response
// @Router       /posts/{id} [get]
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.postService.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(post))
}

// Update handles PUT /posts/:id for unpublished posts
// @Summary      Update a post draft
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Post ID"
// @Param        payload  body      service.UpdatePostRequest  true  "Update Post Payload"
// @Success      200      {object}  response.Response{data=model.Post}
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /posts/{id} [put]
func (h *PostHandler) Update(c *gin.Context) {
	var req service.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload"))
		return
	}

	post, err := h.postService.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(post))
}

// Delete handles DELETE /posts/:id
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.postService.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("Post deleted"))
}

// Publish handles POST /posts/:id/publish
// @Summary      Publish a post
// @Description  Pushes the draft to the page feed and records the remote post id
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  response.Response{data=model.Post}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /posts/{id}/publish [post]
func (h *PostHandler) Publish(c *gin.Context) {
	post, err := h.postService.Publish(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(post))
}
