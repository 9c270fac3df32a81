package model

import "time"

// MaintenanceType is a reference/lookup value for the kind of scheduled service.
type MaintenanceType struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Maintenance is a scheduled-service record for one machine.
type Maintenance struct {
	ID                int64 `gorm:"primaryKey" json:"id"`
	MachineID         int64 `gorm:"index;not null" json:"machine_id"`
	MaintenanceTypeID int64 `gorm:"index;not null" json:"maintenance_type_id"`

	Date           *time.Time `json:"date"`
	OperatingHours *int       `json:"operating_hours"`
	OrderNumber    string     `gorm:"size:100" json:"order_number"`
	OrderDate      *time.Time `json:"order_date"`
	ServiceCompany string     `gorm:"size:255" json:"service_company"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Associations
	Machine         Machine         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	MaintenanceType MaintenanceType `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
