package rider

import (
	"errors"
	"fmt"
	"time"

	riderModel "parcel-delivery/models/rider"
	userModel "parcel-delivery/models/user"
	riderTypes "parcel-delivery/types/rider"
	"parcel-delivery/utils"

	"gorm.io/gorm"
)

var (
	ErrRiderNotFound        = errors.New("rider not found")
	ErrDuplicateApplication = errors.New("an application already exists for this account")
	ErrEmailMismatch        = errors.New("application email must match the login email")
)

// RiderService owns rider onboarding and availability state.
type RiderService struct {
	db *gorm.DB
}

func NewRiderService(db *gorm.DB) *RiderService {
	return &RiderService{db: db}
}

// Apply submits a new rider application for the authenticated user. One
// application per identity subject; the given email must be the login email.
func (s *RiderService) Apply(req riderTypes.RiderApplicationRequest, uid, tokenEmail string) (*riderModel.Rider, error) {
	if utils.NormalizeEmail(req.Email) != utils.NormalizeEmail(tokenEmail) {
		return nil, ErrEmailMismatch
	}

	var existing riderModel.Rider
	err := s.db.Where("uid = ?", uid).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateApplication
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	rider := riderModel.Rider{
		UID:               uid,
		Email:             utils.NormalizeEmail(req.Email),
		Name:              req.Name,
		Age:               req.Age,
		NID:               req.NID,
		Contact:           req.Contact,
		BikeModel:         req.BikeModel,
		Region:            req.Region,
		Warehouse:         req.Warehouse,
		ApplicationStatus: riderModel.ApplicationStatusPending,
		WorkStatus:        riderModel.WorkStatusIdle,
		IsActive:          false,
	}
	if err := s.db.Create(&rider).Error; err != nil {
		return nil, fmt.Errorf("failed to create rider application: %w", err)
	}
	return &rider, nil
}

// Decide approves or rejects a pending application. Approval also promotes
// the matching user record to the rider role; both writes share one
// transaction.
func (s *RiderService) Decide(riderID uint, status riderModel.ApplicationStatus, email string) (*riderModel.Rider, error) {
	var rider riderModel.Rider

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rider, riderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRiderNotFound
			}
			return err
		}

		now := time.Now()
		rider.ApplicationStatus = status

		switch status {
		case riderModel.ApplicationStatusApproved:
			rider.ApproveDate = &now
			rider.IsActive = true
			if err := tx.Model(&userModel.User{}).
				Where("email = ?", utils.NormalizeEmail(email)).
				Update("role", userModel.RoleRider).Error; err != nil {
				return err
			}
		case riderModel.ApplicationStatusRejected:
			rider.RejectDate = &now
			rider.IsActive = false
		}

		return tx.Save(&rider).Error
	})
	if err != nil {
		return nil, err
	}
	return &rider, nil
}

// ListPending returns pending applications, newest first.
func (s *RiderService) ListPending() ([]riderModel.Rider, error) {
	var riders []riderModel.Rider
	err := s.db.Where("application_status = ?", riderModel.ApplicationStatusPending).
		Order("application_at desc").
		Find(&riders).Error
	return riders, err
}

// ListApproved returns approved riders, latest approved first.
func (s *RiderService) ListApproved() ([]riderModel.Rider, error) {
	var riders []riderModel.Rider
	err := s.db.Where("application_status = ?", riderModel.ApplicationStatusApproved).
		Order("approve_date desc").
		Find(&riders).Error
	return riders, err
}

// GetApprovedByEmail returns the approved rider with the given email.
func (s *RiderService) GetApprovedByEmail(email string) (*riderModel.Rider, error) {
	var rider riderModel.Rider
	err := s.db.Where("email = ? AND application_status = ?",
		utils.NormalizeEmail(email), riderModel.ApplicationStatusApproved).
		First(&rider).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRiderNotFound
		}
		return nil, err
	}
	return &rider, nil
}

// SetActive toggles an operator's activation flag on a rider.
func (s *RiderService) SetActive(riderID uint, isActive bool) (*riderModel.Rider, error) {
	var rider riderModel.Rider
	if err := s.db.First(&rider, riderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRiderNotFound
		}
		return nil, err
	}
	rider.IsActive = isActive
	if err := s.db.Save(&rider).Error; err != nil {
		return nil, err
	}
	return &rider, nil
}

// AvailableByRegion returns active, idle, approved riders for a region
// (case-insensitive exact match).
func (s *RiderService) AvailableByRegion(region string) ([]riderModel.Rider, error) {
	var riders []riderModel.Rider
	err := s.db.Where("LOWER(region) = LOWER(?)", region).
		Where("is_active = ?", true).
		Where("work_status = ?", riderModel.WorkStatusIdle).
		Where("application_status = ?", riderModel.ApplicationStatusApproved).
		Find(&riders).Error
	return riders, err
}

// UpdateWorkStatus lets a rider change their own availability.
func (s *RiderService) UpdateWorkStatus(email string, status riderModel.WorkStatus) (*riderModel.Rider, error) {
	var rider riderModel.Rider
	if err := s.db.Where("email = ?", utils.NormalizeEmail(email)).First(&rider).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRiderNotFound
		}
		return nil, err
	}
	rider.WorkStatus = status
	if err := s.db.Save(&rider).Error; err != nil {
		return nil, err
	}
	return &rider, nil
}
