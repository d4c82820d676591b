package payment

import (
	"errors"
	"fmt"

	paymentModel "parcel-delivery/models/payment"
	parcelService "parcel-delivery/services/parcel"
	paymentTypes "parcel-delivery/types/payment"
	"parcel-delivery/utils"

	"gorm.io/gorm"
)

// ErrDuplicateTransaction is returned when a confirmation carries a
// transaction id that was already recorded, e.g. a retried webhook.
var ErrDuplicateTransaction = errors.New("payment with this transaction id already recorded")

// PaymentService records confirmed payments against parcels.
type PaymentService struct {
	db        *gorm.DB
	lifecycle *parcelService.LifecycleService
}

func NewPaymentService(db *gorm.DB, lifecycle *parcelService.LifecycleService) *PaymentService {
	return &PaymentService{db: db, lifecycle: lifecycle}
}

// Confirm flips the parcel to paid and appends exactly one history row, in
// one transaction. A duplicate transaction id fails with
// ErrDuplicateTransaction and leaves everything unchanged.
func (s *PaymentService) Confirm(req paymentTypes.ConfirmPaymentRequest) (*paymentModel.PaymentHistory, error) {
	var history paymentModel.PaymentHistory

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing paymentModel.PaymentHistory
		err := tx.Where("transaction_id = ?", req.TransactionID).First(&existing).Error
		if err == nil {
			return ErrDuplicateTransaction
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("database error: %w", err)
		}

		if _, err := s.lifecycle.RecordPayment(tx, req.ParcelID); err != nil {
			return err
		}

		history = paymentModel.PaymentHistory{
			ParcelID:      req.ParcelID,
			Email:         utils.NormalizeEmail(req.Email),
			Amount:        req.Amount,
			PaymentMethod: req.PaymentMethod,
			TransactionID: req.TransactionID,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}
	return &history, nil
}

// HistoryByEmail returns a payer's history, newest first. Email match is
// case-insensitive.
func (s *PaymentService) HistoryByEmail(email string) ([]paymentModel.PaymentHistory, error) {
	var histories []paymentModel.PaymentHistory
	err := s.db.Where("LOWER(email) = LOWER(?)", email).
		Order("paid_at desc").
		Find(&histories).Error
	return histories, err
}
