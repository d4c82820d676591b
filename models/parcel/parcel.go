package parcel

import (
	"parcel-delivery/models/rider"
	"time"
)

// Parcel represents one delivery order from creation through cash-out.
type Parcel struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	TrackingID string `gorm:"type:varchar(50);not null;uniqueIndex" json:"tracking_id"`

	Type   string  `gorm:"type:varchar(20);not null" json:"type"`
	Title  string  `gorm:"type:varchar(255);not null" json:"title"`
	Weight float64 `gorm:"type:decimal(10,2)" json:"weight"`

	SenderName        string `gorm:"type:varchar(255);not null" json:"sender_name"`
	SenderContact     string `gorm:"type:varchar(20);not null" json:"sender_contact"`
	SenderRegion      string `gorm:"type:varchar(255);not null" json:"sender_region"`
	SenderCenter      string `gorm:"type:varchar(255);not null" json:"sender_center"`
	SenderArea        string `gorm:"type:varchar(255);not null" json:"sender_area"`
	PickupInstruction string `gorm:"type:text;not null" json:"pickup_instruction"`

	ReceiverName        string `gorm:"type:varchar(255);not null" json:"receiver_name"`
	ReceiverContact     string `gorm:"type:varchar(20);not null" json:"receiver_contact"`
	ReceiverRegion      string `gorm:"type:varchar(255);not null" json:"receiver_region"`
	ReceiverCenter      string `gorm:"type:varchar(255);not null" json:"receiver_center"`
	ReceiverArea        string `gorm:"type:varchar(255);not null" json:"receiver_area"`
	DeliveryInstruction string `gorm:"type:text;not null" json:"delivery_instruction"`

	// Owner email, stored lowercased.
	CreateBy string `gorm:"type:varchar(255);not null;index" json:"create_by"`

	TotalCost float64 `gorm:"type:decimal(10,2);not null" json:"total_cost"`

	PaymentStatus  PaymentStatus  `gorm:"type:varchar(20);not null;default:'unpaid'" json:"payment_status"`
	DeliveryStatus DeliveryStatus `gorm:"type:varchar(30);not null;default:'not_collected';index" json:"delivery_status"`

	AssignedRiderID *uint        `gorm:"index" json:"assigned_rider_id"`
	AssignedRider   *rider.Rider `gorm:"foreignKey:AssignedRiderID" json:"assigned_rider,omitempty"`

	CashOutStatus CashOutStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"cash_out_status"`
	CashOutAt     *time.Time    `json:"cash_out_at"`
	PickedAt      *time.Time    `json:"picked_at"`
	DeliveredAt   *time.Time    `json:"delivered_at"`

	TrackingHistory []TrackingEvent `gorm:"foreignKey:ParcelID" json:"tracking_history"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type ParcelType string

const (
	ParcelTypeDocument    ParcelType = "document"
	ParcelTypeNonDocument ParcelType = "non-document"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

type DeliveryStatus string

const (
	DeliveryStatusNotCollected  DeliveryStatus = "not_collected"
	DeliveryStatusRiderAssigned DeliveryStatus = "rider_assigned"
	DeliveryStatusInTransit     DeliveryStatus = "in_transit"
	DeliveryStatusDelivered     DeliveryStatus = "delivered"
)

type CashOutStatus string

const (
	CashOutStatusPending CashOutStatus = "pending"
	CashOutStatusPaid    CashOutStatus = "paid"
)

// MaxWeight is the declared weight upper bound in kilograms.
const MaxWeight = 1000.0
