package parcel

import (
	"errors"
	"fmt"
	"time"

	parcelModel "parcel-delivery/models/parcel"
	riderModel "parcel-delivery/models/rider"
	riderService "parcel-delivery/services/rider"
	"parcel-delivery/services/tracking"
	parcelTypes "parcel-delivery/types/parcel"
	"parcel-delivery/utils"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

var ErrParcelNotFound = errors.New("parcel not found")

// LifecycleService owns the parcel delivery state machine: creation,
// payment flip, rider binding, status advancement, tracking history and
// cash-out.
type LifecycleService struct {
	db *gorm.DB
}

func NewLifecycleService(db *gorm.DB) *LifecycleService {
	return &LifecycleService{db: db}
}

// CreateParcel inserts a new order in not_collected/unpaid with a freshly
// generated tracking code and an empty tracking history.
func (s *LifecycleService) CreateParcel(req parcelTypes.ParcelCreateRequest, ownerEmail string) (*parcelModel.Parcel, error) {
	p := parcelModel.Parcel{
		TrackingID: utils.GenerateTrackingID(),
		Type:       req.Type,
		Title:      req.Title,
		Weight:     req.Weight,

		SenderName:        req.SenderName,
		SenderContact:     req.SenderContact,
		SenderRegion:      req.SenderRegion,
		SenderCenter:      req.SenderCenter,
		SenderArea:        req.SenderArea,
		PickupInstruction: req.PickupInstruction,

		ReceiverName:        req.ReceiverName,
		ReceiverContact:     req.ReceiverContact,
		ReceiverRegion:      req.ReceiverRegion,
		ReceiverCenter:      req.ReceiverCenter,
		ReceiverArea:        req.ReceiverArea,
		DeliveryInstruction: req.DeliveryInstruction,

		CreateBy:  utils.NormalizeEmail(ownerEmail),
		TotalCost: req.TotalCost,

		PaymentStatus:  parcelModel.PaymentStatusUnpaid,
		DeliveryStatus: parcelModel.DeliveryStatusNotCollected,
		CashOutStatus:  parcelModel.CashOutStatusPending,
	}

	if err := s.db.Create(&p).Error; err != nil {
		return nil, fmt.Errorf("failed to create parcel: %w", err)
	}
	return &p, nil
}

// RecordPayment flips a parcel to paid. Independent of delivery status.
func (s *LifecycleService) RecordPayment(tx *gorm.DB, parcelID uint) (*parcelModel.Parcel, error) {
	if tx == nil {
		tx = s.db
	}
	var p parcelModel.Parcel
	if err := tx.First(&p, parcelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParcelNotFound
		}
		return nil, err
	}
	p.PaymentStatus = parcelModel.PaymentStatusPaid
	if err := tx.Save(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// AssignRider binds an idle rider to a parcel. Parcel and rider are updated
// in one transaction so a failure leaves neither changed.
func (s *LifecycleService) AssignRider(parcelID, riderID uint) (*parcelModel.Parcel, *riderModel.Rider, error) {
	var p parcelModel.Parcel
	var r riderModel.Rider

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, parcelID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParcelNotFound
			}
			return err
		}
		if err := tx.First(&r, riderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return riderService.ErrRiderNotFound
			}
			return err
		}
		return riderService.TryAssign(tx, &p, &r)
	})
	if err != nil {
		return nil, nil, err
	}
	return &p, &r, nil
}

// AdvanceDeliveryStatus sets a parcel's delivery status. Any value in the
// enumerated set is accepted; ordering is the caller's responsibility.
// Moving to in_transit stamps picked_at once while a rider is assigned;
// moving to delivered stamps delivered_at once and releases the rider, all
// in one transaction.
func (s *LifecycleService) AdvanceDeliveryStatus(parcelID uint, status parcelModel.DeliveryStatus) (*parcelModel.Parcel, error) {
	var p parcelModel.Parcel

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, parcelID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParcelNotFound
			}
			return err
		}

		p.DeliveryStatus = status
		now := time.Now()

		if status == parcelModel.DeliveryStatusInTransit && p.AssignedRiderID != nil && p.PickedAt == nil {
			p.PickedAt = &now
		}

		if status == parcelModel.DeliveryStatusDelivered && p.AssignedRiderID != nil {
			if p.DeliveredAt == nil {
				p.DeliveredAt = &now
			}
			if err := riderService.Release(tx, *p.AssignedRiderID); err != nil {
				return err
			}
		}

		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// AppendTracking adds one immutable history entry. The delivery status is
// untouched.
func (s *LifecycleService) AppendTracking(parcelID uint, status, message string) (*parcelModel.Parcel, error) {
	var p parcelModel.Parcel
	if err := s.db.First(&p, parcelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParcelNotFound
		}
		return nil, err
	}
	if err := tracking.AppendEvent(s.db, p.ID, status, message); err != nil {
		return nil, err
	}
	history, err := tracking.HistoryFor(s.db, p.ID)
	if err != nil {
		return nil, err
	}
	p.TrackingHistory = history
	return &p, nil
}

// CashOut marks a parcel's cash-on-delivery funds as settled. Calling it
// again re-stamps cash_out_at with the latest time.
func (s *LifecycleService) CashOut(parcelID uint) (*parcelModel.Parcel, error) {
	var p parcelModel.Parcel
	if err := s.db.First(&p, parcelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParcelNotFound
		}
		return nil, err
	}
	now := time.Now()
	p.CashOutStatus = parcelModel.CashOutStatusPaid
	p.CashOutAt = &now
	if err := s.db.Save(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID loads a parcel with its tracking history.
func (s *LifecycleService) GetByID(parcelID uint) (*parcelModel.Parcel, error) {
	var p parcelModel.Parcel
	err := s.db.Preload("TrackingHistory", func(db *gorm.DB) *gorm.DB {
		return db.Order("parcel_tracking_events.id asc")
	}).First(&p, parcelID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParcelNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByTrackingID loads a parcel by its public tracking code.
func (s *LifecycleService) GetByTrackingID(trackingID string) (*parcelModel.Parcel, error) {
	var p parcelModel.Parcel
	err := s.db.Preload("TrackingHistory", func(db *gorm.DB) *gorm.DB {
		return db.Order("parcel_tracking_events.id asc")
	}).Where("tracking_id = ?", trackingID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParcelNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByOwner returns all parcels created by an owner email, newest first.
func (s *LifecycleService) GetByOwner(email string) ([]parcelModel.Parcel, error) {
	var parcels []parcelModel.Parcel
	err := s.db.Where("create_by = ?", utils.NormalizeEmail(email)).
		Order("created_at desc").
		Find(&parcels).Error
	return parcels, err
}

// GetAssignable returns paid parcels still waiting for a rider, newest first.
func (s *LifecycleService) GetAssignable() ([]parcelModel.Parcel, error) {
	var parcels []parcelModel.Parcel
	err := s.db.Where("payment_status = ? AND delivery_status = ?",
		parcelModel.PaymentStatusPaid, parcelModel.DeliveryStatusNotCollected).
		Order("created_at desc").
		Find(&parcels).Error
	return parcels, err
}

// GetPendingDeliveries returns a rider's open parcels (assigned or in transit).
func (s *LifecycleService) GetPendingDeliveries(riderEmail string) ([]parcelModel.Parcel, error) {
	return s.deliveriesFor(riderEmail, []parcelModel.DeliveryStatus{
		parcelModel.DeliveryStatusRiderAssigned,
		parcelModel.DeliveryStatusInTransit,
	})
}

// GetCompletedDeliveries returns a rider's delivered parcels.
func (s *LifecycleService) GetCompletedDeliveries(riderEmail string) ([]parcelModel.Parcel, error) {
	return s.deliveriesFor(riderEmail, []parcelModel.DeliveryStatus{
		parcelModel.DeliveryStatusDelivered,
	})
}

func (s *LifecycleService) deliveriesFor(riderEmail string, statuses []parcelModel.DeliveryStatus) ([]parcelModel.Parcel, error) {
	var r riderModel.Rider
	if err := s.db.Where("email = ?", utils.NormalizeEmail(riderEmail)).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, riderService.ErrRiderNotFound
		}
		return nil, err
	}

	var parcels []parcelModel.Parcel
	err := s.db.Where("assigned_rider_id = ? AND delivery_status IN ?", r.ID, statuses).
		Order("created_at desc").
		Find(&parcels).Error
	return parcels, err
}

// StatusCount is one row of the delivery-status summary.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// StatusSummary groups parcels by delivery status and also reports how many
// were delivered since the beginning of today.
func (s *LifecycleService) StatusSummary() ([]StatusCount, int64, error) {
	var summary []StatusCount
	err := s.db.Model(&parcelModel.Parcel{}).
		Select("delivery_status as status, count(*) as count").
		Group("delivery_status").
		Find(&summary).Error
	if err != nil {
		return nil, 0, err
	}

	var deliveredToday int64
	err = s.db.Model(&parcelModel.Parcel{}).
		Where("delivery_status = ? AND delivered_at >= ?",
			parcelModel.DeliveryStatusDelivered, now.BeginningOfDay()).
		Count(&deliveredToday).Error
	if err != nil {
		return nil, 0, err
	}

	return summary, deliveredToday, nil
}

// Delete hard-deletes a parcel. Operator action only; there is no tombstone.
func (s *LifecycleService) Delete(parcelID uint) (*parcelModel.Parcel, error) {
	p, err := s.GetByID(parcelID)
	if err != nil {
		return nil, err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parcel_id = ?", parcelID).Delete(&parcelModel.TrackingEvent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&parcelModel.Parcel{}, parcelID).Error
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
