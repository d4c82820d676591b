package parcel

import (
	"errors"
	"strings"
	"testing"
	"time"

	logModel "parcel-delivery/models/log"
	parcelModel "parcel-delivery/models/parcel"
	paymentModel "parcel-delivery/models/payment"
	riderModel "parcel-delivery/models/rider"
	userModel "parcel-delivery/models/user"
	riderService "parcel-delivery/services/rider"
	parcelTypes "parcel-delivery/types/parcel"

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
		&logModel.Log{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func sampleCreateRequest() parcelTypes.ParcelCreateRequest {
	return parcelTypes.ParcelCreateRequest{
		Type:   "document",
		Title:  "Office contracts",
		Weight: 1.5,

		SenderName:        "Karim Uddin",
		SenderContact:     "01712345678",
		SenderRegion:      "Dhaka",
		SenderCenter:      "Dhanmondi Hub",
		SenderArea:        "Dhanmondi 27",
		PickupInstruction: "Call before pickup",

		ReceiverName:        "Rahim Mia",
		ReceiverContact:     "+8801812345678",
		ReceiverRegion:      "Chattogram",
		ReceiverCenter:      "Agrabad Hub",
		ReceiverArea:        "Agrabad C/A",
		DeliveryInstruction: "Leave at reception",

		TotalCost: 120,
	}
}

func seedIdleRider(t *testing.T, db *gorm.DB, email string) *riderModel.Rider {
	t.Helper()
	r := riderModel.Rider{
		UID:               "uid-" + email,
		Email:             email,
		Name:              "Test Rider",
		Age:               "28",
		NID:               "1234567890",
		Contact:           "01912345678",
		BikeModel:         "Bajaj Pulsar",
		Region:            "Dhaka",
		Warehouse:         "Dhanmondi Hub",
		ApplicationStatus: riderModel.ApplicationStatusApproved,
		WorkStatus:        riderModel.WorkStatusIdle,
		IsActive:          true,
	}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("failed to seed rider: %v", err)
	}
	return &r
}

func TestCreateParcelDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(db)

	p, err := svc.CreateParcel(sampleCreateRequest(), "Sender@Example.COM")
	if err != nil {
		t.Fatalf("CreateParcel failed: %v", err)
	}

	if p.PaymentStatus != parcelModel.PaymentStatusUnpaid {
		t.Errorf("payment status = %q, want unpaid", p.PaymentStatus)
	}
	if p.DeliveryStatus != parcelModel.DeliveryStatusNotCollected {
		t.Errorf("delivery status = %q, want not_collected", p.DeliveryStatus)
	}
	if p.CashOutStatus != parcelModel.CashOutStatusPending {
		t.Errorf("cash out status = %q, want pending", p.CashOutStatus)
	}
	if p.CreateBy != "sender@example.com" {
		t.Errorf("create_by = %q, want lowercased owner email", p.CreateBy)
	}
	if !strings.HasPrefix(p.TrackingID, "TRK-") {
		t.Errorf("tracking id %q missing TRK- prefix", p.TrackingID)
	}
	if p.AssignedRiderID != nil {
		t.Errorf("new parcel should have no assigned rider")
	}

	loaded, err := svc.GetByID(p.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(loaded.TrackingHistory) != 0 {
		t.Errorf("new parcel history has %d events, want 0", len(loaded.TrackingHistory))
	}
}

func TestGetByTrackingID(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(db)

	p, err := svc.CreateParcel(sampleCreateRequest(), "sender@example.com")
	if err != nil {
		t.Fatalf("CreateParcel failed: %v", err)
	}

	found, err := svc.GetByTrackingID(p.TrackingID)
	if err != nil {
		t.Fatalf("GetByTrackingID failed: %v", err)
	}
	if found.ID != p.ID {
		t.Errorf("lookup returned parcel %d, want %d", found.ID, p.ID)
	}
	if found.TrackingID != p.TrackingID || found.CreateBy != p.CreateBy {
		t.Error("tracking-code lookup returned a different record")
	}

	if _, err := svc.GetByTrackingID("TRK-19700101-00000000"); !errors.Is(err, ErrParcelNotFound) {
		t.Errorf("unknown tracking code error = %v, want ErrParcelNotFound", err)
	}
}

func TestRecordPaymentUnknownParcel(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(db)

	if _, err := svc.RecordPayment(nil, 9999); !errors.Is(err, ErrParcelNotFound) {
		t.Fatalf("RecordPayment error = %v, want ErrParcelNotFound", err)
	}
}

func TestAssignRider(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(db)

	p, err := svc.CreateParcel(sampleCreateRequest(), "sender@example.com")
	if err != nil {
		t.Fatalf("CreateParcel failed: %v", err)
	}
	r := seedIdleRider(t, db, "rider@example.com")

	gotParcel, gotRider, err := svc.AssignRider(p.ID, r.ID)
	if err != nil {
		t.Fatalf("AssignRider failed: %v", err)
	}
	if gotParcel.DeliveryStatus != parcelModel.DeliveryStatusRiderAssigned {
		t.Errorf("delivery status = %q, want rider_assigned", gotParcel.DeliveryStatus)
	}
	if gotParcel.AssignedRiderID == nil || *gotParcel.AssignedRiderID != r.ID {
		t.Errorf("assigned rider id not set to %d", r.ID)
	}
	if gotRider.WorkStatus != riderModel.WorkStatusInDelivery {
		t.Errorf("rider work status = %q, want in_delivery", gotRider.WorkStatus)
	}
}

func TestAssignBusyRiderLeavesStateUnchanged(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(db)

	p, err := svc.CreateParcel(sampleCreateRequest(), "sender@example.com")
	if err != nil {
		t.Fatalf("CreateParcel failed: %v", err)
	}
	r := seedIdleRider(t, db, "rider@example.com")
	if err := db.Model(r).Update("work_status", riderModel.WorkStatusInDelivery).Error; err != nil {
		t.Fatalf("failed to mark rider busy: %v", err)
	}

	if _, _, err := svc.AssignRider(p.ID, r.ID); !errors.Is(err, riderService.ErrRiderBusy) {
		t.Fatalf("AssignRider error = %v, want ErrRiderBusy", err)
	}

	var reloaded parcelModel.Parcel
	if err := db.First(&reloaded, p.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.DeliveryStatus != parcelModel.DeliveryStatusNotCollected {
		t.Errorf("delivery status changed to %q after failed assignment", reloaded.DeliveryStatus)
	}
	if reloaded.AssignedRiderID != nil {
		t.Errorf("assigned rider id set after failed assignment")
	}
}

func TestAssignRiderMissingRows(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(db)

	r := seedIdleRider(t, db, "rider@example.com")
	if _, _, err := svc.AssignRider(9999, r.ID); !errors.Is(err, ErrParcelNotFound) {
		t.Fatalf("missing parcel error = %v, want ErrParcelNotFound", err)
	}

	p, err := svc.CreateParcel(sampleCreateRequest(), "sender@example.com")
	if err != nil {
		t.Fatalf("CreateParcel failed: %v", err)
	}
	if _, _, err := svc.AssignRider(p.ID, 9999); !errors.Is(err, riderService.ErrRiderNotFound) {
		t.Fatalf("missing rider error = %v, want ErrRiderNotFound", err)
	}
}

func TestPickedAtStampedOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(db)

	p, err := svc.CreateParcel(sampleCreateRequest(), "sender@example.com")
	if err != nil {
		t.Fatalf("CreateParcel failed: %v", err)
	}
	r := seedIdleRider(t, db, "rider@example.com")
	if _, _, err := svc.AssignRider(p.ID, r.ID); err != nil {
		t.Fatalf("AssignRider failed: %v", err)
	}

	first, err := svc.AdvanceDeliveryStatus(p.ID, parcelModel.DeliveryStatusInTransit)
	if err != nil {
		t.Fatalf("AdvanceDeliveryStatus failed: %v", err)
	}
	if first.PickedAt == nil {
		t.Fatal("picked_at not stamped on first in_transit")
	}

	time.Sleep(10 * time.Millisecond)
	second, err := svc.AdvanceDeliveryStatus(p.ID, parcelModel.DeliveryStatusInTransit)
	if err != nil {
		t.Fatalf("second AdvanceDeliveryStatus failed: %v", err)
	}
	if !second.PickedAt.Equal(*first.PickedAt) {
		t.Errorf("picked_at re-stamped: %v -> %v", first.PickedAt, second.PickedAt)
	}
}

func TestDeliveredReleasesRider(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(db)

	p, err := svc.CreateParcel(sampleCreateRequest(), "sender@example.com")
	if err != nil {
		t.Fatalf("CreateParcel failed: %v", err)
	}
	r := seedIdleRider(t, db, "rider@example.com")
	if _, _, err := svc.AssignRider(p.ID, r.ID); err != nil {
		t.Fatalf("AssignRider failed: %v", err)
	}
	if _, err := svc.AdvanceDeliveryStatus(p.ID, parcelModel.DeliveryStatusInTransit); err != nil {
		t.Fatalf("in_transit failed: %v", err)
	}

	delivered, err := svc.AdvanceDeliveryStatus(p.ID, parcelModel.DeliveryStatusDelivered)
	if err != nil {
		t.Fatalf("delivered failed: %v", err)
	}
	if delivered.DeliveredAt == nil {
		t.Fatal("delivered_at not stamped")
	}

	var reloadedRider riderModel.Rider
	if err := db.First(&reloadedRider, r.ID).Error; err != nil {
		t.Fatalf("reload rider failed: %v", err)
	}
	if reloadedRider.WorkStatus != riderModel.WorkStatusIdle {
		t.Errorf("rider work status = %q after delivery, want idle", reloadedRider.WorkStatus)
	}
}

func TestAdvanceUnknownParcel(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(db)

	if _, err := svc.AdvanceDeliveryStatus(9999, parcelModel.DeliveryStatusInTransit); !errors.Is(err, ErrParcelNotFound) {
		t.Fatalf("error = %v, want ErrParcelNotFound", err)
	}
}

func TestTrackingHistoryOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(db)

	p, err := svc.CreateParcel(sampleCreateRequest(), "sender@example.com")
	if err != nil {
		t.Fatalf("CreateParcel failed: %v", err)
	}

	steps := []struct{ status, message string }{
		{"parcel_created", "Order placed"},
		{"payment_completed", "Payment received"},
		{"picked_up", "Picked up from sender"},
	}
	for _, step := range steps {
		if _, err := svc.AppendTracking(p.ID, step.status, step.message); err != nil {
			t.Fatalf("AppendTracking(%q) failed: %v", step.status, err)
		}
	}

	loaded, err := svc.GetByID(p.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(loaded.TrackingHistory) != len(steps) {
		t.Fatalf("history has %d events, want %d", len(loaded.TrackingHistory), len(steps))
	}
	for i, ev := range loaded.TrackingHistory {
		if ev.Status != steps[i].status {
			t.Errorf("event %d status = %q, want %q", i, ev.Status, steps[i].status)
		}
	}
	if loaded.DeliveryStatus != parcelModel.DeliveryStatusNotCollected {
		t.Errorf("manual tracking changed delivery status to %q", loaded.DeliveryStatus)
	}
}

func TestCashOutRestamps(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(db)

	p, err := svc.CreateParcel(sampleCreateRequest(), "sender@example.com")
	if err != nil {
		t.Fatalf("CreateParcel failed: %v", err)
	}

	first, err := svc.CashOut(p.ID)
	if err != nil {
		t.Fatalf("first CashOut failed: %v", err)
	}
	if first.CashOutStatus != parcelModel.CashOutStatusPaid || first.CashOutAt == nil {
		t.Fatal("first cash-out did not mark paid with a timestamp")
	}

	time.Sleep(10 * time.Millisecond)
	second, err := svc.CashOut(p.ID)
	if err != nil {
		t.Fatalf("second CashOut failed: %v", err)
	}
	if !second.CashOutAt.After(*first.CashOutAt) {
		t.Errorf("cash_out_at not re-stamped: %v then %v", first.CashOutAt, second.CashOutAt)
	}
}

func TestGetAssignableFiltersPaidUncollected(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(db)

	paid, err := svc.CreateParcel(sampleCreateRequest(), "a@example.com")
	if err != nil {
		t.Fatalf("CreateParcel failed: %v", err)
	}
	if _, err := svc.RecordPayment(nil, paid.ID); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if _, err := svc.CreateParcel(sampleCreateRequest(), "b@example.com"); err != nil {
		t.Fatalf("CreateParcel failed: %v", err)
	}

	assignable, err := svc.GetAssignable()
	if err != nil {
		t.Fatalf("GetAssignable failed: %v", err)
	}
	if len(assignable) != 1 || assignable[0].ID != paid.ID {
		t.Errorf("assignable = %d parcels, want exactly the paid one", len(assignable))
	}
}

func TestRiderDeliveryQueues(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(db)
	r := seedIdleRider(t, db, "rider@example.com")

	open, err := svc.CreateParcel(sampleCreateRequest(), "a@example.com")
	if err != nil {
		t.Fatalf("CreateParcel failed: %v", err)
	}
	if _, _, err := svc.AssignRider(open.ID, r.ID); err != nil {
		t.Fatalf("AssignRider failed: %v", err)
	}

	done, err := svc.CreateParcel(sampleCreateRequest(), "b@example.com")
	if err != nil {
		t.Fatalf("CreateParcel failed: %v", err)
	}
	// Rider goes idle once the first delivery completes, then takes the next.
	if _, err := svc.AdvanceDeliveryStatus(open.ID, parcelModel.DeliveryStatusDelivered); err != nil {
		t.Fatalf("delivered failed: %v", err)
	}
	if _, _, err := svc.AssignRider(done.ID, r.ID); err != nil {
		t.Fatalf("second AssignRider failed: %v", err)
	}

	pending, err := svc.GetPendingDeliveries("rider@example.com")
	if err != nil {
		t.Fatalf("GetPendingDeliveries failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != done.ID {
		t.Errorf("pending = %d parcels, want only the second one", len(pending))
	}

	completed, err := svc.GetCompletedDeliveries("rider@example.com")
	if err != nil {
		t.Fatalf("GetCompletedDeliveries failed: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != open.ID {
		t.Errorf("completed = %d parcels, want only the first one", len(completed))
	}

	if _, err := svc.GetPendingDeliveries("nobody@example.com"); !errors.Is(err, riderService.ErrRiderNotFound) {
		t.Errorf("unknown rider error = %v, want ErrRiderNotFound", err)
	}
}

func TestStatusSummary(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(db)
	r := seedIdleRider(t, db, "rider@example.com")

	if _, err := svc.CreateParcel(sampleCreateRequest(), "a@example.com"); err != nil {
		t.Fatalf("CreateParcel failed: %v", err)
	}
	delivered, err := svc.CreateParcel(sampleCreateRequest(), "b@example.com")
	if err != nil {
		t.Fatalf("CreateParcel failed: %v", err)
	}
	if _, _, err := svc.AssignRider(delivered.ID, r.ID); err != nil {
		t.Fatalf("AssignRider failed: %v", err)
	}
	if _, err := svc.AdvanceDeliveryStatus(delivered.ID, parcelModel.DeliveryStatusDelivered); err != nil {
		t.Fatalf("delivered failed: %v", err)
	}

	summary, deliveredToday, err := svc.StatusSummary()
	if err != nil {
		t.Fatalf("StatusSummary failed: %v", err)
	}
	counts := map[string]int64{}
	for _, row := range summary {
		counts[row.Status] = row.Count
	}
	if counts[string(parcelModel.DeliveryStatusNotCollected)] != 1 {
		t.Errorf("not_collected count = %d, want 1", counts[string(parcelModel.DeliveryStatusNotCollected)])
	}
	if counts[string(parcelModel.DeliveryStatusDelivered)] != 1 {
		t.Errorf("delivered count = %d, want 1", counts[string(parcelModel.DeliveryStatusDelivered)])
	}
	if deliveredToday != 1 {
		t.Errorf("delivered today = %d, want 1", deliveredToday)
	}
}

func TestDeleteRemovesHistory(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(db)

	p, err := svc.CreateParcel(sampleCreateRequest(), "sender@example.com")
	if err != nil {
		t.Fatalf("CreateParcel failed: %v", err)
	}
	if _, err := svc.AppendTracking(p.ID, "parcel_created", "Order placed"); err != nil {
		t.Fatalf("AppendTracking failed: %v", err)
	}

	if _, err := svc.Delete(p.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.GetByID(p.ID); !errors.Is(err, ErrParcelNotFound) {
		t.Errorf("GetByID after delete = %v, want ErrParcelNotFound", err)
	}

	var orphans int64
	if err := db.Model(&parcelModel.TrackingEvent{}).Where("parcel_id = ?", p.ID).Count(&orphans).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if orphans != 0 {
		t.Errorf("%d tracking events left after delete", orphans)
	}
}

// Full lifecycle: create, pay, assign, pick up, deliver.
func TestEndToEndDelivery(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(db)
	r := seedIdleRider(t, db, "rider@example.com")

	p, err := svc.CreateParcel(sampleCreateRequest(), "sender@example.com")
	if err != nil {
		t.Fatalf("CreateParcel failed: %v", err)
	}
	if _, err := svc.RecordPayment(nil, p.ID); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if _, _, err := svc.AssignRider(p.ID, r.ID); err != nil {
		t.Fatalf("AssignRider failed: %v", err)
	}
	if _, err := svc.AdvanceDeliveryStatus(p.ID, parcelModel.DeliveryStatusInTransit); err != nil {
		t.Fatalf("in_transit failed: %v", err)
	}
	final, err := svc.AdvanceDeliveryStatus(p.ID, parcelModel.DeliveryStatusDelivered)
	if err != nil {
		t.Fatalf("delivered failed: %v", err)
	}

	if final.PaymentStatus != parcelModel.PaymentStatusPaid {
		t.Errorf("payment status = %q, want paid", final.PaymentStatus)
	}
	if final.DeliveryStatus != parcelModel.DeliveryStatusDelivered {
		t.Errorf("delivery status = %q, want delivered", final.DeliveryStatus)
	}
	if final.PickedAt == nil || final.DeliveredAt == nil {
		t.Error("picked_at and delivered_at should both be stamped")
	}

	var reloadedRider riderModel.Rider
	if err := db.First(&reloadedRider, r.ID).Error; err != nil {
		t.Fatalf("reload rider failed: %v", err)
	}
	if reloadedRider.WorkStatus != riderModel.WorkStatusIdle {
		t.Errorf("rider work status = %q at end, want idle", reloadedRider.WorkStatus)
	}
}
