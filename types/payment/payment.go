package payment

import (
	"fmt"
	"strings"

	"parcel-delivery/utils"
)

// CheckoutRequest represents the request payload for creating a payment intent
type CheckoutRequest struct {
	Amount   int64 `json:"amount" validate:"required,gt=0"`
	ParcelID uint  `json:"parcel_id" validate:"required"`
}

func (r CheckoutRequest) Validate() error {
	if r.Amount <= 0 {
		return fmt.Errorf("invalid payment amount")
	}
	if r.ParcelID == 0 {
		return fmt.Errorf("parcel_id is required")
	}
	return nil
}

// ConfirmPaymentRequest represents the request payload for recording a confirmed payment
type ConfirmPaymentRequest struct {
	ParcelID      uint    `json:"parcel_id" validate:"required"`
	Email         string  `json:"email" validate:"required,email"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod string  `json:"payment_method"`
	TransactionID string  `json:"transaction_id" validate:"required"`
}

func (r ConfirmPaymentRequest) Validate() error {
	if r.ParcelID == 0 {
		return fmt.Errorf("parcel_id is required")
	}
	if !utils.ValidateEmail(r.Email) {
		return fmt.Errorf("invalid email address")
	}
	if r.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if strings.TrimSpace(r.TransactionID) == "" {
		return fmt.Errorf("transaction_id is required")
	}
	return nil
}
