package tracking

import (
	parcelModel "parcel-delivery/models/parcel"

	"gorm.io/gorm"
)

// AppendEvent writes one immutable tracking entry for a parcel. Entries are
// append-only; nothing ever updates or reorders them.
func AppendEvent(tx *gorm.DB, parcelID uint, status, message string) error {
	ev := parcelModel.TrackingEvent{
		ParcelID: parcelID,
		Status:   status,
		Message:  message,
	}
	return tx.Create(&ev).Error
}

// HistoryFor loads a parcel's tracking history in insertion order.
func HistoryFor(tx *gorm.DB, parcelID uint) ([]parcelModel.TrackingEvent, error) {
	var events []parcelModel.TrackingEvent
	err := tx.Where("parcel_id = ?", parcelID).Order("id asc").Find(&events).Error
	return events, err
}
