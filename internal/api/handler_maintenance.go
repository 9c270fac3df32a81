package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"machine-service-backend/internal/auth"
	"machine-service-backend/internal/store"
)

type maintenanceWriteRequest struct {
	MachineID         *int64     `json:"machine_id"`
	MaintenanceTypeID *int64     `json:"maintenance_type_id"`
	Date              *time.Time `json:"date"`
	OperatingHours    *int       `json:"operating_hours"`
	OrderNumber       string     `json:"order_number"`
	OrderDate         *time.Time `json:"order_date"`
	ServiceCompany    string     `json:"service_company"`
}

func (r maintenanceWriteRequest) toWrite() store.MaintenanceWrite {
	return store.MaintenanceWrite{
		MachineID:         r.MachineID,
		MaintenanceTypeID: r.MaintenanceTypeID,
		Date:              r.Date,
		OperatingHours:    r.OperatingHours,
		OrderNumber:       r.OrderNumber,
		OrderDate:         r.OrderDate,
		ServiceCompany:    r.ServiceCompany,
	}
}

// ListMaintenance handles GET /api/maintenance with optional exact-match
// filters applied after the role scope.
func (h *Handler) ListMaintenance(c *gin.Context) {
	f := store.MaintenanceFilter{
		MachineSerial:  c.Query("machine_serial"),
		ServiceCompany: c.Query("service_company"),
	}
	if raw := c.Query("maintenance_type"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid maintenance_type"})
			return
		}
		f.MaintenanceTypeID = id
	}
	p := auth.FromContext(c)
	rows, err := h.store.ListMaintenance(c.Request.Context(), p, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMaintenanceResponses(rows))
}

// CreateMaintenance handles POST /api/maintenance.
func (h *Handler) CreateMaintenance(c *gin.Context) {
	var req maintenanceWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := auth.FromContext(c)
	rec, err := h.store.CreateMaintenance(c.Request.Context(), p, req.toWrite())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// UpdateMaintenance handles PUT /api/maintenance/:id.
func (h *Handler) UpdateMaintenance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req maintenanceWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := auth.FromContext(c)
	rec, err := h.store.UpdateMaintenance(c.Request.Context(), p, id, req.toWrite())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// DeleteMaintenance handles DELETE /api/maintenance/:id.
func (h *Handler) DeleteMaintenance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p := auth.FromContext(c)
	if err := h.store.DeleteMaintenance(c.Request.Context(), p, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MaintenanceFacets handles GET /api/maintenance/facets.
func (h *Handler) MaintenanceFacets(c *gin.Context) {
	p := auth.FromContext(c)
	facets, err := h.store.MaintenanceFacets(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, facets)
}

type maintenanceTypeRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListMaintenanceTypes handles GET /api/maintenance-types.
func (h *Handler) ListMaintenanceTypes(c *gin.Context) {
	types, err := h.store.ListMaintenanceTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

// CreateMaintenanceType handles POST /api/maintenance-types.
func (h *Handler) CreateMaintenanceType(c *gin.Context) {
	var req maintenanceTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := auth.FromContext(c)
	t, err := h.store.CreateMaintenanceType(c.Request.Context(), p, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// UpdateMaintenanceType handles PUT /api/maintenance-types/:id.
func (h *Handler) UpdateMaintenanceType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req maintenanceTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := auth.FromContext(c)
	t, err := h.store.UpdateMaintenanceType(c.Request.Context(), p, id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// DeleteMaintenanceType handles DELETE /api/maintenance-types/:id.
func (h *Handler) DeleteMaintenanceType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p := auth.FromContext(c)
	if err := h.store.DeleteMaintenanceType(c.Request.Context(), p, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
