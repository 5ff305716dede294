package handler

import (
	"net/http"

	"fbmanager/internal/middleware"
	"fbmanager/internal/ratelimit"
	"fbmanager/internal/service"
	"fbmanager/internal/token"
	"fbmanager/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService   service.AuthService
	tokens        *token.Service
	loginLimiter  ratelimit.Limiter
	signupLimiter ratelimit.Limiter
}

// NewAuthHandler sets up the routing dependencies for auth endpoints
func NewAuthHandler(
	authService service.AuthService,
	tokens *token.Service,
	loginLimiter, signupLimiter ratelimit.Limiter,
) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		tokens:        tokens,
		loginLimiter:  loginLimiter,
		signupLimiter: signupLimiter,
	}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Public routes; /register is an alias kept for older clients
	router.POST("/signup", middleware.RateLimit(h.signupLimiter), h.Signup)
	router.POST("/register", middleware.RateLimit(h.signupLimiter), h.Signup)
	router.POST("/login", middleware.RateLimit(h.loginLimiter), h.Login)
	router.POST("/refresh", h.Refresh)
	router.POST("/logout", h.Logout)
	router.GET("/verify", h.VerifyEmail)

	// Protected routes
	router.GET("/profile", middleware.RequireAuth(h.tokens), h.Profile)
	router.POST("/change-password", middleware.RequireAuth(h.tokens), h.ChangePassword)
}

// Signup handles POST /signup to register a new account
// @Summary      Register a new account
// @Description  Creates a user, sends an email verification link and returns an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SignupRequest  true  "Signup Payload"
// @Success      201      {object}  response.Response{data=service.AuthResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	res, err := h.authService.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(res))
}

// Login handles POST /login to authenticate by email, username or identifier
// @Summary      Login
// @Description  Authenticates by email, username or identifier and returns access and refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Login Credentials"
// @Success      200      {object}  response.Response{data=service.AuthResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload"))
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	// A correct login clears the caller's failed-attempt budget.
	_ = h.loginLimiter.Reset(c.Request.Context(), c.ClientIP())

	c.JSON(http.StatusOK, response.Success(res))
}

// Refresh handles POST /refresh to issue a new access token
// @Summary      Refresh access token
// @Description  Issues a new access token for a valid, unrevoked refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RefreshRequest  true  "Refresh Token"
// @Success      200      {object}  response.Response{data=service.AuthResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req service.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload"))
		return
	}

	res, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(res))
}

// Logout handles POST /logout to revoke a refresh token
// @Summary      Logout
// @Description  Revokes the presented refresh token; logging out twice is not an error
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RefreshRequest  true  "Refresh Token"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req service.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload"))
		return
	}

	if err := h.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(nil))
}

// VerifyEmail handles GET /verify?token=... from the verification email
// @Summary      Verify email
// @Description  Confirms an email address using the token from the verification link
// @Tags         auth
// @Produce      json
// @Param        token  query     string  true  "Verification token"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /auth/verify [get]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	if err := h.authService.VerifyEmail(c.Request.Context(), c.Query("token")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(gin.H{"verified": true}))
}

// Profile handles GET /profile to return the authenticated account
// @Summary      Get profile
// @Description  Returns the currently authenticated user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.authService.Profile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(user))
}

// ChangePassword handles POST /change-password for the authenticated account
// @Summary      Change password
// @Description  Replaces the password after checking the current one
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ChangePasswordRequest  true  "Password Change Payload"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req service.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), middleware.UserID(c), req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{"changed": true}))
}
