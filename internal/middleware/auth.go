package middleware

import (
	"errors"
	"net/http"
	"strings"

	"fbmanager/internal/access"
	"fbmanager/internal/token"
	"fbmanager/pkg/response"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware for downstream handlers.
const (
	CtxUserID        = "userID"
	CtxEmail         = "userEmail"
	CtxRole          = "userRole"
	CtxSubscription  = "userSubscription"
	CtxEffectiveRole = "effectiveRole"
)

// bearerToken extracts the Authorization bearer token, or "".
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// setIdentity stores the verified claims on the request context.
func setIdentity(c *gin.Context, claims *token.Claims) {
	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxEmail, claims.Email)
	c.Set(CtxRole, claims.Role)
	c.Set(CtxSubscription, claims.Subscription)
	c.Set(CtxEffectiveRole, access.EffectiveRole(claims.Role, claims.Subscription))
}

// RequireAuth validates the bearer access token and injects the caller's
// identity into the context. Refresh tokens are rejected here; they are
// only accepted by the refresh/logout endpoints.
func RequireAuth(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("authorization token is missing"))
			return
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, token.ErrExpired) {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(msg))
			return
		}
		if claims.Type == token.TypeRefresh {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("refresh token cannot be used for authentication"))
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// AccessControl gates every request by path tier. Identity is picked up
// opportunistically: a valid access token upgrades the caller from
// anonymous, an absent or invalid one leaves them anonymous rather than
// failing the request, so public and unmatched paths stay reachable.
func AccessControl(tokens *token.Service, evaluator *access.Evaluator) gin.HandlerFunc {
	return func(c *gin.Context) {
		effectiveRole := ""
		if raw := bearerToken(c); raw != "" {
			if claims, err := tokens.Verify(raw); err == nil && claims.Type != token.TypeRefresh {
				setIdentity(c, claims)
				effectiveRole = access.EffectiveRole(claims.Role, claims.Subscription)
			}
		}

		if !evaluator.IsAllowed(c.Request.URL.Path, effectiveRole) {
			if effectiveRole == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("authentication required"))
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error("insufficient permissions for this resource"))
			return
		}

		c.Next()
	}
}

// EffectiveRole returns the caller's effective role from the context, or ""
// for anonymous callers.
func EffectiveRole(c *gin.Context) string {
	if v, ok := c.Get(CtxEffectiveRole); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// UserID returns the authenticated caller's id from the context, or "".
func UserID(c *gin.Context) string {
	if v, ok := c.Get(CtxUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
