package rider

import (
	"errors"
	"fmt"

	parcelModel "parcel-delivery/models/parcel"
	riderModel "parcel-delivery/models/rider"

	"gorm.io/gorm"
)

// ErrRiderBusy is returned when a rider who is not idle is offered a parcel.
var ErrRiderBusy = errors.New("rider is currently busy")

// TryAssign binds a rider to a parcel. Only idle riders may take a new
// delivery; on success the parcel moves to rider_assigned and the rider to
// in_delivery. Run inside a transaction so the two writes land together.
func TryAssign(tx *gorm.DB, p *parcelModel.Parcel, r *riderModel.Rider) error {
	if r.WorkStatus != riderModel.WorkStatusIdle {
		return ErrRiderBusy
	}

	p.AssignedRiderID = &r.ID
	p.DeliveryStatus = parcelModel.DeliveryStatusRiderAssigned
	if err := tx.Save(p).Error; err != nil {
		return fmt.Errorf("failed to save parcel: %w", err)
	}

	r.WorkStatus = riderModel.WorkStatusInDelivery
	if err := tx.Save(r).Error; err != nil {
		return fmt.Errorf("failed to save rider: %w", err)
	}

	return nil
}

// Release puts a rider back to idle. Called when their parcel is delivered.
func Release(tx *gorm.DB, riderID uint) error {
	return tx.Model(&riderModel.Rider{}).
		Where("id = ?", riderID).
		Update("work_status", riderModel.WorkStatusIdle).Error
}
