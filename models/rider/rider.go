package rider

import (
	"time"
)

// Rider represents a rider application and, once approved, the rider's
// availability for deliveries.
type Rider struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Subject id from the external identity provider.
	UID   string `gorm:"type:varchar(255);not null;uniqueIndex" json:"uid"`
	Email string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`

	Name      string `gorm:"type:varchar(255);not null" json:"name"`
	Age       string `gorm:"type:varchar(10);not null" json:"age"`
	NID       string `gorm:"type:varchar(50);not null" json:"nid"`
	Contact   string `gorm:"type:varchar(20);not null" json:"contact"`
	BikeModel string `gorm:"type:varchar(255);not null" json:"bike_model"`
	Region    string `gorm:"type:varchar(255);not null;index" json:"region"`
	Warehouse string `gorm:"type:varchar(255);not null" json:"warehouse"`

	ApplicationAt     time.Time         `gorm:"autoCreateTime" json:"application_at"`
	ApplicationStatus ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"application_status"`

	WorkStatus WorkStatus `gorm:"type:varchar(20);not null;default:'idle'" json:"work_status"`

	ApproveDate *time.Time `json:"approve_date"`
	RejectDate  *time.Time `json:"reject_date"`
	IsActive    bool       `gorm:"default:false" json:"is_active"`
}

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

type WorkStatus string

const (
	WorkStatusIdle       WorkStatus = "idle"
	WorkStatusInDelivery WorkStatus = "in_delivery"
	WorkStatusBusy       WorkStatus = "busy"
	WorkStatusOnBreak    WorkStatus = "on_break"
)

// IsValid reports whether ws is a work status a rider may set on themselves.
func (ws WorkStatus) IsValid() bool {
	switch ws {
	case WorkStatusIdle, WorkStatusBusy, WorkStatusOnBreak:
		return true
	default:
		return false
	}
}

func (as ApplicationStatus) String() string {
	return string(as)
}
