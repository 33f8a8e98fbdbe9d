package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rideshare/internal/domain/entities"
	"rideshare/internal/logging"
	"rideshare/internal/routing"
	"rideshare/internal/services"
)

// respondError writes the status and JSON body for err. Validation failures
// carry their kind so clients can branch on it without parsing the message.
func respondError(c *gin.Context, err error) {
	var verr *entities.ValidationError
	if errors.As(err, &verr) {
		status := http.StatusBadRequest
		switch verr.Kind {
		case entities.KindNotAuthenticated:
			status = http.StatusUnauthorized
		case entities.KindStoreUnavailable:
			status = http.StatusServiceUnavailable
		case entities.KindPersistenceFailed:
			status = http.StatusInternalServerError
		}
		body := gin.H{"error": string(verr.Kind), "kind": string(verr.Kind)}
		if status == http.StatusBadRequest && verr.Cause != nil {
			body["error"] = verr.Error()
		}
		c.JSON(status, body)
		return
	}

	switch {
	case errors.Is(err, services.ErrRideNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "ride not found"})
	case errors.Is(err, services.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSeatsExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrRoleMismatch), errors.Is(err, services.ErrRouteMismatch):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, routing.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "route estimate unavailable"})
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
