package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"machine-service-backend/internal/auth"
	"machine-service-backend/internal/policy"
	"machine-service-backend/internal/store"
)

type machineWriteRequest struct {
	SerialNumber       string     `json:"serial_number" binding:"required"`
	ModelName          string     `json:"model_name" binding:"required"`
	EngineModel        string     `json:"engine_model"`
	EngineSerial       string     `json:"engine_serial"`
	TransmissionModel  string     `json:"transmission_model"`
	TransmissionSerial string     `json:"transmission_serial"`
	DriveAxleModel     string     `json:"drive_axle_model"`
	DriveAxleSerial    string     `json:"drive_axle_serial"`
	SteerAxleModel     string     `json:"steer_axle_model"`
	SteerAxleSerial    string     `json:"steer_axle_serial"`
	ShipmentDate       *time.Time `json:"shipment_date"`
	Buyer              string     `json:"buyer"`
	Recipient          string     `json:"recipient"`
	DeliveryAddress    string     `json:"delivery_address"`
	Options            string     `json:"options"`
	ServiceCompany     string     `json:"service_company"`
	ClientID           *int64     `json:"client_id"`
	ServiceOrgID       *int64     `json:"service_org_id"`
}

func (r machineWriteRequest) toWrite() store.MachineWrite {
	return store.MachineWrite{
		SerialNumber:       r.SerialNumber,
		ModelName:          r.ModelName,
		EngineModel:        r.EngineModel,
		EngineSerial:       r.EngineSerial,
		TransmissionModel:  r.TransmissionModel,
		TransmissionSerial: r.TransmissionSerial,
		DriveAxleModel:     r.DriveAxleModel,
		DriveAxleSerial:    r.DriveAxleSerial,
		SteerAxleModel:     r.SteerAxleModel,
		SteerAxleSerial:    r.SteerAxleSerial,
		ShipmentDate:       r.ShipmentDate,
		Buyer:              r.Buyer,
		Recipient:          r.Recipient,
		DeliveryAddress:    r.DeliveryAddress,
		Options:            r.Options,
		ServiceCompany:     r.ServiceCompany,
		ClientID:           r.ClientID,
		ServiceOrgID:       r.ServiceOrgID,
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// ListMachines handles GET /api/machines. Anonymous and unrecognized
// callers get an empty list here; the public surface is /api/search.
func (h *Handler) ListMachines(c *gin.Context) {
	p := auth.FromContext(c)
	rows, err := h.store.ListMachines(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toListResponses(rows))
}

// GetMachine handles GET /api/machines/:id.
func (h *Handler) GetMachine(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p := auth.FromContext(c)
	m, err := h.store.GetMachine(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDetailResponse(m))
}

// CreateMachine handles POST /api/machines.
func (h *Handler) CreateMachine(c *gin.Context) {
	var req machineWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := auth.FromContext(c)
	m, err := h.store.CreateMachine(c.Request.Context(), p, req.toWrite())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// UpdateMachine handles PUT /api/machines/:id.
func (h *Handler) UpdateMachine(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req machineWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := auth.FromContext(c)
	m, err := h.store.UpdateMachine(c.Request.Context(), p, id, req.toWrite())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// DeleteMachine handles DELETE /api/machines/:id.
func (h *Handler) DeleteMachine(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p := auth.FromContext(c)
	if err := h.store.DeleteMachine(c.Request.Context(), p, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MachineFacets handles GET /api/machines/facets.
func (h *Handler) MachineFacets(c *gin.Context) {
	p := auth.FromContext(c)
	facets, err := h.store.MachineFacets(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, facets)
}

// SearchMachines handles GET /api/search?q=... — the only read surface open
// to anonymous callers, served through the redacted projection for them.
func (h *Handler) SearchMachines(c *gin.Context) {
	q, err := policy.ValidateSearchQuery(c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	p := auth.FromContext(c)
	rows, err := h.store.SearchMachines(c.Request.Context(), p, q)
	if err != nil {
		respondError(c, err)
		return
	}
	if auth.ResolveRole(p) == auth.RoleNone {
		c.JSON(http.StatusOK, toAnonResponses(rows))
		return
	}
	c.JSON(http.StatusOK, toListResponses(rows))
}
