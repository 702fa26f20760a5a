package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/saveplate/backend/internal/domain"
	"github.com/saveplate/backend/internal/infrastructure/graph"
	"github.com/saveplate/backend/internal/logging"
)

// statusFor maps an error returned by a usecase to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInactiveUser):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, graph.ErrNotInitialized):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides wrapped details of client errors and all of server errors.
func publicMessage(status int, err error) string {
	if status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	for _, known := range []error{
		domain.ErrInvalidCredentials,
		domain.ErrInvalidToken,
		domain.ErrInactiveUser,
		domain.ErrUserNotFound,
		domain.ErrUserExists,
		domain.ErrRateLimited,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)

	event := logging.Ctx(c.Request.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = logging.Ctx(c.Request.Context()).Error()
	}
	event.Err(err).Int("status", status).Str("path", c.FullPath()).Msg("request failed")

	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": publicMessage(status, err)})
}

// respondBindError reports a malformed body or a failed binding rule as 400.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":  domain.ErrInvalidRequest.Error(),
			"fields": fields,
		})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidRequest.Error()})
}
