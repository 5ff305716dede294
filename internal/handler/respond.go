package handler

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"fbmanager/pkg/apperrors"
	"fbmanager/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError renders a service error as the standard envelope. Internal
// causes are logged here and never echoed to the client.
func respondError(c *gin.Context, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		slog.Error("unhandled error", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, response.Error("internal server error"))
		return
	}

	if appErr.Code == apperrors.CodeInternal {
		slog.Error("request failed", "path", c.Request.URL.Path, "error", appErr)
	}
	if appErr.RetryAfter > 0 {
		seconds := int(math.Ceil(appErr.RetryAfter.Seconds()))
		if seconds < 1 {
			seconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(seconds))
	}

	c.JSON(appErr.HTTPStatus, response.ErrorLocalized(appErr.Message, appErr.MessageAr))
}
