package payment

import (
	"errors"
	"testing"

	parcelModel "parcel-delivery/models/parcel"
	paymentModel "parcel-delivery/models/payment"
	riderModel "parcel-delivery/models/rider"
	userModel "parcel-delivery/models/user"
	parcelService "parcel-delivery/services/parcel"
	parcelTypes "parcel-delivery/types/parcel"
	paymentTypes "parcel-delivery/types/payment"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&userModel.User{},
		&riderModel.Rider{},
		&parcelModel.Parcel{},
		&parcelModel.TrackingEvent{},
		&paymentModel.PaymentHistory{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedParcel(t *testing.T, lifecycle *parcelService.LifecycleService) *parcelModel.Parcel {
	t.Helper()
	p, err := lifecycle.CreateParcel(parcelTypes.ParcelCreateRequest{
		Type:   "document",
		Title:  "Invoice bundle",
		Weight: 0.5,

		SenderName:        "Karim Uddin",
		SenderContact:     "01712345678",
		SenderRegion:      "Dhaka",
		SenderCenter:      "Dhanmondi Hub",
		SenderArea:        "Dhanmondi 27",
		PickupInstruction: "Call before pickup",

		ReceiverName:        "Rahim Mia",
		ReceiverContact:     "01812345678",
		ReceiverRegion:      "Sylhet",
		ReceiverCenter:      "Zindabazar Hub",
		ReceiverArea:        "Zindabazar",
		DeliveryInstruction: "Hand over in person",

		TotalCost: 90,
	}, "sender@example.com")
	if err != nil {
		t.Fatalf("failed to seed parcel: %v", err)
	}
	return p
}

func TestConfirmFlipsPaidAndRecordsOneRow(t *testing.T) {
	db := newTestDB(t)
	lifecycle := parcelService.NewLifecycleService(db)
	svc := NewPaymentService(db, lifecycle)
	p := seedParcel(t, lifecycle)

	history, err := svc.Confirm(paymentTypes.ConfirmPaymentRequest{
		ParcelID:      p.ID,
		Email:         "Sender@Example.com",
		Amount:        90,
		PaymentMethod: "card",
		TransactionID: "txn_001",
	})
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if history.Email != "sender@example.com" {
		t.Errorf("history email = %q, want lowercased", history.Email)
	}

	var reloaded parcelModel.Parcel
	if err := db.First(&reloaded, p.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.PaymentStatus != parcelModel.PaymentStatusPaid {
		t.Errorf("payment status = %q, want paid", reloaded.PaymentStatus)
	}

	var rows int64
	if err := db.Model(&paymentModel.PaymentHistory{}).Count(&rows).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if rows != 1 {
		t.Errorf("payment history rows = %d, want 1", rows)
	}
}

func TestConfirmDuplicateTransaction(t *testing.T) {
	db := newTestDB(t)
	lifecycle := parcelService.NewLifecycleService(db)
	svc := NewPaymentService(db, lifecycle)
	p := seedParcel(t, lifecycle)

	req := paymentTypes.ConfirmPaymentRequest{
		ParcelID:      p.ID,
		Email:         "sender@example.com",
		Amount:        90,
		PaymentMethod: "card",
		TransactionID: "txn_dup",
	}
	if _, err := svc.Confirm(req); err != nil {
		t.Fatalf("first Confirm failed: %v", err)
	}
	if _, err := svc.Confirm(req); !errors.Is(err, ErrDuplicateTransaction) {
		t.Fatalf("second Confirm error = %v, want ErrDuplicateTransaction", err)
	}

	var rows int64
	if err := db.Model(&paymentModel.PaymentHistory{}).Count(&rows).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if rows != 1 {
		t.Errorf("payment history rows = %d after retry, want 1", rows)
	}
}

func TestConfirmUnknownParcel(t *testing.T) {
	db := newTestDB(t)
	lifecycle := parcelService.NewLifecycleService(db)
	svc := NewPaymentService(db, lifecycle)

	_, err := svc.Confirm(paymentTypes.ConfirmPaymentRequest{
		ParcelID:      9999,
		Email:         "sender@example.com",
		Amount:        90,
		PaymentMethod: "card",
		TransactionID: "txn_missing",
	})
	if !errors.Is(err, parcelService.ErrParcelNotFound) {
		t.Fatalf("Confirm error = %v, want ErrParcelNotFound", err)
	}

	var rows int64
	if err := db.Model(&paymentModel.PaymentHistory{}).Count(&rows).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if rows != 0 {
		t.Errorf("payment history rows = %d after failed confirm, want 0", rows)
	}
}

func TestHistoryByEmailCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	lifecycle := parcelService.NewLifecycleService(db)
	svc := NewPaymentService(db, lifecycle)
	p := seedParcel(t, lifecycle)

	if _, err := svc.Confirm(paymentTypes.ConfirmPaymentRequest{
		ParcelID:      p.ID,
		Email:         "sender@example.com",
		Amount:        90,
		PaymentMethod: "card",
		TransactionID: "txn_hist",
	}); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	histories, err := svc.HistoryByEmail("SENDER@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("HistoryByEmail failed: %v", err)
	}
	if len(histories) != 1 {
		t.Fatalf("history rows = %d, want 1", len(histories))
	}
	if histories[0].TransactionID != "txn_hist" {
		t.Errorf("transaction id = %q, want txn_hist", histories[0].TransactionID)
	}
}
