package handler

import (
	"net/http"

	"fbmanager/internal/middleware"
	"fbmanager/internal/service"
	"fbmanager/pkg/response"

	"github.com/gin-gonic/gin"
)

type AutoResponseHandler struct {
	autoResponseService service.AutoResponseService
}

// NewAutoResponseHandler sets up the routing dependencies for rule endpoints
func NewAutoResponseHandler(autoResponseService service.AutoResponseService) *AutoResponseHandler {
	return &AutoResponseHandler{autoResponseService: autoResponseService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AutoResponseHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/rules", h.CreateRule)
	router.GET("/rules", h.ListRules)
	router.PUT("/rules/:id", h.UpdateRule)
	router.DELETE("/rules/:id", h.DeleteRule)
	router.POST("/comments", h.ProcessComment)
}

// CreateRule handles POST /autoresponse/rules
// @Summary      Create an auto-response rule
// @Tags         autoresponse
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateRuleRequest  true  "Create Rule Payload"
// @Success      201      {object}  response.Response{data=model.AutoResponseRule}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /autoresponse/rules [post]
func (h *AutoResponseHandler) CreateRule(c *gin.Context) {
	var req service.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	rule, err := h.autoResponseService.CreateRule(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(rule))
}

// ListRules handles GET /autoresponse/rules?pageId=...
// @Summary      List rules for a page
// @Tags         autoresponse
// @Produce      json
// @Security     BearerAuth
// @Param        pageId  query     string  true  "Page ID"
// @Success      200     {object}  response.Response{data=[]model.AutoResponseRule}
// @Failure      404     {object}  response.Response
// @Router       /autoresponse/rules [get]
func (h *AutoResponseHandler) ListRules(c *gin.Context) {
	rules, err := h.autoResponseService.ListRules(c.Request.Context(), middleware.UserID(c), c.Query("pageId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(rules))
}

// UpdateRule handles PUT /autoresponse/rules/:id
// @Summary      Update a rule
// @Tags         autoresponse
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Rule ID"
// @Param        payload  body      service.UpdateRuleRequest  true  "Update Rule Payload"
// @Success      200      {object}  response.Response{data=model.AutoResponseRule}
// @Failure      404      {object}  response.Response
// @Router       /autoresponse/rules/{id} [put]
func (h *AutoResponseHandler) UpdateRule(c *gin.Context) {
	var req service.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload"))
		return
	}

	rule, err := h.autoResponseService.UpdateRule(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(rule))
}

// DeleteRule handles DELETE /autoresponse/rules/:id
// @Summary      Delete a rule
// @Tags         autoresponse
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Rule ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /autoresponse/rules/{id} [delete]
func (h *AutoResponseHandler) DeleteRule(c *gin.Context) {
	if err := h.autoResponseService.DeleteRule(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("Rule deleted"))
}

// ProcessComment handles POST /autoresponse/comments for incoming comments
// @Summary      Process an incoming comment
// @Description  Matches the comment against the page's rules and replies on the first hit
// @Tags         autoresponse
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ProcessCommentRequest  true  "Incoming Comment"
// @Success      200      {object}  response.Response{data=service.CommentReply}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /autoresponse/comments [post]
func (h *AutoResponseHandler) ProcessComment(c *gin.Context) {
	var req service.ProcessCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	reply, err := h.autoResponseService.ProcessComment(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(reply))
}
