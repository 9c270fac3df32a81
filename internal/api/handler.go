package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"machine-service-backend/internal/notify"
	"machine-service-backend/internal/policy"
	"machine-service-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	webpush *webpush.Options
	alerts  *notify.WorkerPool
}

// NewHandler creates a new API handler. alerts may be nil when push
// notifications are not configured.
func NewHandler(s store.Store, webpushOptions *webpush.Options, alerts *notify.WorkerPool) *Handler {
	return &Handler{
		store:   s,
		webpush: webpushOptions,
		alerts:  alerts,
	}
}

// respondError maps core errors to transport status codes. Out-of-scope
// records surface as 404 so their existence never leaks.
func respondError(c *gin.Context, err error) {
	switch {
	case policy.IsDenied(err):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case policy.IsValidation(err):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
