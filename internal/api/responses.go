package api

import (
	"time"

	"machine-service-backend/internal/model"
	"machine-service-backend/internal/store"
)

// machineAnonResponse is the redacted projection served to anonymous
// callers: identity and technical passport only. Ownership, commercial
// fields, and related records are withheld entirely.
type machineAnonResponse struct {
	SerialNumber       string `json:"serial_number"`
	ModelName          string `json:"model_name"`
	EngineModel        string `json:"engine_model"`
	EngineSerial       string `json:"engine_serial"`
	TransmissionModel  string `json:"transmission_model"`
	TransmissionSerial string `json:"transmission_serial"`
	DriveAxleModel     string `json:"drive_axle_model"`
	DriveAxleSerial    string `json:"drive_axle_serial"`
	SteerAxleModel     string `json:"steer_axle_model"`
	SteerAxleSerial    string `json:"steer_axle_serial"`
}

func toAnonResponse(m model.Machine) machineAnonResponse {
	return machineAnonResponse{
		SerialNumber:       m.SerialNumber,
		ModelName:          m.ModelName,
		EngineModel:        m.EngineModel,
		EngineSerial:       m.EngineSerial,
		TransmissionModel:  m.TransmissionModel,
		TransmissionSerial: m.TransmissionSerial,
		DriveAxleModel:     m.DriveAxleModel,
		DriveAxleSerial:    m.DriveAxleSerial,
		SteerAxleModel:     m.SteerAxleModel,
		SteerAxleSerial:    m.SteerAxleSerial,
	}
}

func toAnonResponses(rows []store.MachineRow) []machineAnonResponse {
	out := make([]machineAnonResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toAnonResponse(r.Machine))
	}
	return out
}

// machineListResponse is the authenticated listing projection.
type machineListResponse struct {
	ID               int64      `json:"id"`
	SerialNumber     string     `json:"serial_number"`
	ModelName        string     `json:"model_name"`
	EngineModel      string     `json:"engine_model"`
	ShipmentDate     *time.Time `json:"shipment_date"`
	ServiceCompany   string     `json:"service_company"`
	MaintenanceCount int64      `json:"maintenance_count"`
	ClaimsCount      int64      `json:"claims_count"`
}

func toListResponses(rows []store.MachineRow) []machineListResponse {
	out := make([]machineListResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, machineListResponse{
			ID:               r.ID,
			SerialNumber:     r.SerialNumber,
			ModelName:        r.ModelName,
			EngineModel:      r.EngineModel,
			ShipmentDate:     r.ShipmentDate,
			ServiceCompany:   r.ServiceCompany,
			MaintenanceCount: r.MaintenanceCount,
			ClaimsCount:      r.ClaimsCount,
		})
	}
	return out
}

// maintenanceResponse is the maintenance read projection with its machine
// serial and resolved type.
type maintenanceResponse struct {
	ID              int64           `json:"id"`
	MachineSerial   string          `json:"machine_serial"`
	MaintenanceType store.TypeFacet `json:"maintenance_type"`
	Date            *time.Time      `json:"date"`
	OperatingHours  *int            `json:"operating_hours"`
	OrderNumber     string          `json:"order_number"`
	OrderDate       *time.Time      `json:"order_date"`
	ServiceCompany  string          `json:"service_company"`
}

func toMaintenanceResponses(rows []store.MaintenanceRow) []maintenanceResponse {
	out := make([]maintenanceResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, maintenanceResponse{
			ID:            r.ID,
			MachineSerial: r.MachineSerial,
			MaintenanceType: store.TypeFacet{
				ID:   r.MaintenanceTypeID,
				Name: r.MaintenanceTypeName,
			},
			Date:           r.Date,
			OperatingHours: r.OperatingHours,
			OrderNumber:    r.OrderNumber,
			OrderDate:      r.OrderDate,
			ServiceCompany: r.ServiceCompany,
		})
	}
	return out
}

// claimResponse is the claim read projection with its machine serial.
type claimResponse struct {
	ID                 int64      `json:"id"`
	MachineSerial      string     `json:"machine_serial"`
	FailureDate        *time.Time `json:"failure_date"`
	OperatingHours     *int       `json:"operating_hours"`
	FailureNode        string     `json:"failure_node"`
	FailureDescription string     `json:"failure_description"`
	RecoveryMethod     string     `json:"recovery_method"`
	UsedSpare          string     `json:"used_spare"`
	RestoredDate       *time.Time `json:"restored_date"`
	DowntimeHours      *int       `json:"downtime_hours"`
}

func toClaimResponse(c model.Claim, machineSerial string) claimResponse {
	return claimResponse{
		ID:                 c.ID,
		MachineSerial:      machineSerial,
		FailureDate:        c.FailureDate,
		OperatingHours:     c.OperatingHours,
		FailureNode:        c.FailureNode,
		FailureDescription: c.FailureDescription,
		RecoveryMethod:     c.RecoveryMethod,
		UsedSpare:          c.UsedSpare,
		RestoredDate:       c.RestoredDate,
		DowntimeHours:      c.DowntimeHours,
	}
}

// machineDetailResponse is the full authenticated detail projection with
// nested service history.
type machineDetailResponse struct {
	ID                 int64                 `json:"id"`
	SerialNumber       string                `json:"serial_number"`
	ModelName          string                `json:"model_name"`
	EngineModel        string                `json:"engine_model"`
	EngineSerial       string                `json:"engine_serial"`
	TransmissionModel  string                `json:"transmission_model"`
	TransmissionSerial string                `json:"transmission_serial"`
	DriveAxleModel     string                `json:"drive_axle_model"`
	DriveAxleSerial    string                `json:"drive_axle_serial"`
	SteerAxleModel     string                `json:"steer_axle_model"`
	SteerAxleSerial    string                `json:"steer_axle_serial"`
	ShipmentDate       *time.Time            `json:"shipment_date"`
	Buyer              string                `json:"buyer"`
	Recipient          string                `json:"recipient"`
	DeliveryAddress    string                `json:"delivery_address"`
	Options            string                `json:"options"`
	ServiceCompany     string                `json:"service_company"`
	ClientID           *int64                `json:"client_id"`
	ServiceOrgID       *int64                `json:"service_org_id"`
	Maintenance        []maintenanceResponse `json:"maintenance"`
	Claims             []claimResponse       `json:"claims"`
}

func toDetailResponse(m *model.Machine) machineDetailResponse {
	maintenance := make([]maintenanceResponse, 0, len(m.Maintenances))
	for _, rec := range m.Maintenances {
		maintenance = append(maintenance, maintenanceResponse{
			ID:            rec.ID,
			MachineSerial: m.SerialNumber,
			MaintenanceType: store.TypeFacet{
				ID:   rec.MaintenanceTypeID,
				Name: rec.MaintenanceType.Name,
			},
			Date:           rec.Date,
			OperatingHours: rec.OperatingHours,
			OrderNumber:    rec.OrderNumber,
			OrderDate:      rec.OrderDate,
			ServiceCompany: rec.ServiceCompany,
		})
	}
	claims := make([]claimResponse, 0, len(m.Claims))
	for _, rec := range m.Claims {
		claims = append(claims, toClaimResponse(rec, m.SerialNumber))
	}
	return machineDetailResponse{
		ID:                 m.ID,
		SerialNumber:       m.SerialNumber,
		ModelName:          m.ModelName,
		EngineModel:        m.EngineModel,
		EngineSerial:       m.EngineSerial,
		TransmissionModel:  m.TransmissionModel,
		TransmissionSerial: m.TransmissionSerial,
		DriveAxleModel:     m.DriveAxleModel,
		DriveAxleSerial:    m.DriveAxleSerial,
		SteerAxleModel:     m.SteerAxleModel,
		SteerAxleSerial:    m.SteerAxleSerial,
		ShipmentDate:       m.ShipmentDate,
		Buyer:              m.Buyer,
		Recipient:          m.Recipient,
		DeliveryAddress:    m.DeliveryAddress,
		Options:            m.Options,
		ServiceCompany:     m.ServiceCompany,
		ClientID:           m.ClientID,
		ServiceOrgID:       m.ServiceOrgID,
		Maintenance:        maintenance,
		Claims:             claims,
	}
}
