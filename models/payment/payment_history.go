package payment

import (
	"time"
)

// PaymentHistory is one append-only record of a confirmed payment.
// Rows are never mutated after creation.
type PaymentHistory struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	ParcelID uint   `gorm:"not null;index" json:"parcel_id"`
	Email    string `gorm:"type:varchar(255);not null;index" json:"email"`

	Amount        float64 `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentMethod string  `gorm:"type:varchar(50)" json:"payment_method"`

	// External provider transaction id. Unique so a retried confirmation
	// callback cannot record the same payment twice.
	TransactionID string `gorm:"type:varchar(255);not null;uniqueIndex" json:"transaction_id"`

	PaidAt time.Time `gorm:"autoCreateTime" json:"paid_at"`
}

// TableName sets the table name for the PaymentHistory model
func (PaymentHistory) TableName() string {
	return "payment_histories"
}
