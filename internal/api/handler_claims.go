package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"machine-service-backend/internal/auth"
	"machine-service-backend/internal/store"
)

type claimWriteRequest struct {
	MachineID          *int64     `json:"machine_id"`
	FailureDate        *time.Time `json:"failure_date"`
	OperatingHours     *int       `json:"operating_hours"`
	FailureNode        string     `json:"failure_node"`
	FailureDescription string     `json:"failure_description"`
	RecoveryMethod     string     `json:"recovery_method"`
	UsedSpare          string     `json:"used_spare"`
	RestoredDate       *time.Time `json:"restored_date"`
	DowntimeHours      *int       `json:"downtime_hours"`
}

func (r claimWriteRequest) toWrite() store.ClaimWrite {
	return store.ClaimWrite{
		MachineID:          r.MachineID,
		FailureDate:        r.FailureDate,
		OperatingHours:     r.OperatingHours,
		FailureNode:        r.FailureNode,
		FailureDescription: r.FailureDescription,
		RecoveryMethod:     r.RecoveryMethod,
		UsedSpare:          r.UsedSpare,
		RestoredDate:       r.RestoredDate,
		DowntimeHours:      r.DowntimeHours,
	}
}

// ListClaims handles GET /api/claims with optional exact-match filters.
func (h *Handler) ListClaims(c *gin.Context) {
	f := store.ClaimFilter{
		MachineSerial: c.Query("machine_serial"),
		FailureNode:   c.Query("failure_node"),
	}
	p := auth.FromContext(c)
	rows, err := h.store.ListClaims(c.Request.Context(), p, f)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]claimResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toClaimResponse(r.Claim, r.MachineSerial))
	}
	c.JSON(http.StatusOK, out)
}

// CreateClaim handles POST /api/claims. A successful creation dispatches a
// push alert for the machine's subscribers.
func (h *Handler) CreateClaim(c *gin.Context) {
	var req claimWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := auth.FromContext(c)
	rec, err := h.store.CreateClaim(c.Request.Context(), p, req.toWrite())
	if err != nil {
		respondError(c, err)
		return
	}
	if h.alerts != nil {
		h.alerts.Dispatch(rec.MachineID)
	}
	c.JSON(http.StatusCreated, rec)
}

// UpdateClaim handles PUT /api/claims/:id.
func (h *Handler) UpdateClaim(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req claimWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := auth.FromContext(c)
	rec, err := h.store.UpdateClaim(c.Request.Context(), p, id, req.toWrite())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// DeleteClaim handles DELETE /api/claims/:id.
func (h *Handler) DeleteClaim(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p := auth.FromContext(c)
	if err := h.store.DeleteClaim(c.Request.Context(), p, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClaimFacets handles GET /api/claims/facets.
func (h *Handler) ClaimFacets(c *gin.Context) {
	p := auth.FromContext(c)
	facets, err := h.store.ClaimFacets(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, facets)
}
