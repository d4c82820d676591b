package parcel

import (
	"time"
)

// TrackingEvent is one append-only entry in a parcel's tracking history.
// Rows are never updated or deleted; insertion order is the display order.
type TrackingEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	ParcelID uint `gorm:"not null;index" json:"parcel_id"`

	Status    string    `gorm:"type:varchar(50);not null" json:"status"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the TrackingEvent model
func (TrackingEvent) TableName() string {
	return "parcel_tracking_events"
}
