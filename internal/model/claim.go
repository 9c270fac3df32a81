package model

import "time"

// Claim is a failure/warranty claim filed against one machine.
type Claim struct {
	ID        int64 `gorm:"primaryKey" json:"id"`
	MachineID int64 `gorm:"index;not null" json:"machine_id"`

	FailureDate        *time.Time `json:"failure_date"`
	OperatingHours     *int       `json:"operating_hours"`
	FailureNode        string     `gorm:"size:255" json:"failure_node"`
	FailureDescription string     `json:"failure_description"`
	RecoveryMethod     string     `json:"recovery_method"`
	UsedSpare          string     `json:"used_spare"`
	RestoredDate       *time.Time `json:"restored_date"`
	DowntimeHours      *int       `json:"downtime_hours"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Associations
	Machine Machine `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
