package store

import (
	"time"

	"machine-service-backend/internal/model"
)

// MachineRow is a machine listing row with derived per-machine counts.
// Counts come from correlated subqueries so join fan-out can never
// double-count related records.
type MachineRow struct {
	model.Machine
	MaintenanceCount int64 `json:"maintenance_count"`
	ClaimsCount      int64 `json:"claims_count"`
}

// MaintenanceRow is a maintenance listing row joined with its machine and type.
type MaintenanceRow struct {
	model.Maintenance
	MachineSerial       string `json:"machine_serial"`
	MaintenanceTypeName string `json:"maintenance_type_name"`
}

// ClaimRow is a claim listing row joined with its machine.
type ClaimRow struct {
	model.Claim
	MachineSerial string `json:"machine_serial"`
}

// MachineWrite carries the writable machine fields for create/update.
type MachineWrite struct {
	SerialNumber       string
	ModelName          string
	EngineModel        string
	EngineSerial       string
	TransmissionModel  string
	TransmissionSerial string
	DriveAxleModel     string
	DriveAxleSerial    string
	SteerAxleModel     string
	SteerAxleSerial    string
	ShipmentDate       *time.Time
	Buyer              string
	Recipient          string
	DeliveryAddress    string
	Options            string
	ServiceCompany     string
	ClientID           *int64
	ServiceOrgID       *int64
}

// MaintenanceWrite carries the writable maintenance fields. MachineID is
// required on create; on update it must be absent or equal to the record's
// current machine — maintenance records are never moved between machines.
type MaintenanceWrite struct {
	MachineID         *int64
	MaintenanceTypeID *int64
	Date              *time.Time
	OperatingHours    *int
	OrderNumber       string
	OrderDate         *time.Time
	ServiceCompany    string
}

// ClaimWrite carries the writable claim fields, with the same MachineID
// semantics as MaintenanceWrite.
type ClaimWrite struct {
	MachineID          *int64
	FailureDate        *time.Time
	OperatingHours     *int
	FailureNode        string
	FailureDescription string
	RecoveryMethod     string
	UsedSpare          string
	RestoredDate       *time.Time
	DowntimeHours      *int
}

// MaintenanceFilter narrows a maintenance listing after the role scope.
type MaintenanceFilter struct {
	MachineSerial     string
	MaintenanceTypeID int64
	ServiceCompany    string
}

// ClaimFilter narrows a claim listing after the role scope.
type ClaimFilter struct {
	MachineSerial string
	FailureNode   string
}

// TypeFacet is a maintenance-type facet entry (id + display name).
type TypeFacet struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MachineFacetSet holds distinct non-empty values per machine field,
// computed strictly over the caller's scoped queryset.
type MachineFacetSet struct {
	ModelName         []string `json:"model_name"`
	EngineModel       []string `json:"engine_model"`
	TransmissionModel []string `json:"transmission_model"`
	SteerAxleModel    []string `json:"steer_axle_model"`
	DriveAxleModel    []string `json:"drive_axle_model"`
	ServiceCompany    []string `json:"service_company"`
}

// MaintenanceFacetSet holds distinct values for maintenance filter menus.
type MaintenanceFacetSet struct {
	MaintenanceType []TypeFacet `json:"maintenance_type"`
	MachineSerial   []string    `json:"machine_serial"`
	ServiceCompany  []string    `json:"service_company"`
}

// ClaimFacetSet holds distinct values for claim filter menus.
type ClaimFacetSet struct {
	FailureNode    []string `json:"failure_node"`
	MachineSerial  []string `json:"machine_serial"`
	ServiceCompany []string `json:"service_company"`
}
