package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"machine-service-backend/internal/auth"
)

// GetMe handles GET /api/me: echoes the resolved principal so the frontend
// can pick the right surface without re-deriving group semantics.
func (h *Handler) GetMe(c *gin.Context) {
	p := auth.FromContext(c)
	if !p.Authenticated {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	groups := p.Groups
	if groups == nil {
		groups = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"id":        p.ID,
		"superuser": p.Superuser,
		"groups":    groups,
		"role":      auth.ResolveRole(p),
	})
}

// GetHealth handles GET /api/health.
func (h *Handler) GetHealth(c *gin.Context) {
	sqlDB, err := h.store.DB().DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
