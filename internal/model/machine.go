package model

import "time"

// Machine represents a unit of shipped equipment and its technical passport.
type Machine struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	SerialNumber string `gorm:"uniqueIndex;size:32;not null" json:"serial_number"`
	ModelName    string `gorm:"size:100;not null" json:"model_name"`

	EngineModel  string `gorm:"size:100" json:"engine_model"`
	EngineSerial string `gorm:"size:100" json:"engine_serial"`

	TransmissionModel  string `gorm:"size:150" json:"transmission_model"`
	TransmissionSerial string `gorm:"size:100" json:"transmission_serial"`

	DriveAxleModel  string `gorm:"size:100" json:"drive_axle_model"`
	DriveAxleSerial string `gorm:"size:100" json:"drive_axle_serial"`

	SteerAxleModel  string `gorm:"size:100" json:"steer_axle_model"`
	SteerAxleSerial string `gorm:"size:100" json:"steer_axle_serial"`

	ShipmentDate    *time.Time `json:"shipment_date"`
	Buyer           string     `gorm:"size:255" json:"buyer"`
	Recipient       string     `gorm:"size:255" json:"recipient"`
	DeliveryAddress string     `gorm:"size:255" json:"delivery_address"`
	Options         string     `json:"options"`
	ServiceCompany  string     `gorm:"size:255" json:"service_company"`

	// Weak references to external identities. Cleared, never cascaded,
	// when the identity provider removes a principal.
	ClientID     *int64 `gorm:"index" json:"client_id"`
	ServiceOrgID *int64 `gorm:"index" json:"service_org_id"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Associations
	Maintenances []Maintenance `gorm:"foreignKey:MachineID;constraint:OnDelete:CASCADE" json:"-"`
	Claims       []Claim       `gorm:"foreignKey:MachineID;constraint:OnDelete:CASCADE" json:"-"`
}
