package rider

import (
	"fmt"
	"strings"

	riderModel "parcel-delivery/models/rider"
	"parcel-delivery/utils"
)

// RiderApplicationRequest represents the request payload for a new rider application
type RiderApplicationRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=255"`
	Age       string `json:"age" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	NID       string `json:"nid" validate:"required"`
	Contact   string `json:"contact" validate:"required,phone"`
	BikeModel string `json:"bike_model" validate:"required"`
	Region    string `json:"region" validate:"required"`
	Warehouse string `json:"warehouse" validate:"required"`
}

func (r RiderApplicationRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(r.Age) == "" {
		return fmt.Errorf("age is required")
	}
	if !utils.ValidateEmail(r.Email) {
		return fmt.Errorf("invalid email address")
	}
	if strings.TrimSpace(r.NID) == "" {
		return fmt.Errorf("nid is required")
	}
	if !utils.ValidatePhoneNumber(r.Contact) {
		return fmt.Errorf("contact is not a valid Bangladeshi phone number")
	}
	if strings.TrimSpace(r.BikeModel) == "" {
		return fmt.Errorf("bike model is required")
	}
	if strings.TrimSpace(r.Region) == "" {
		return fmt.Errorf("region is required")
	}
	if strings.TrimSpace(r.Warehouse) == "" {
		return fmt.Errorf("warehouse is required")
	}
	return nil
}

// ApplicationDecisionRequest represents the request payload for approving or rejecting an application
type ApplicationDecisionRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
	Email  string `json:"email" validate:"required,email"`
}

func (r ApplicationDecisionRequest) Validate() error {
	if r.Status != riderModel.ApplicationStatusApproved.String() && r.Status != riderModel.ApplicationStatusRejected.String() {
		return fmt.Errorf("invalid status value")
	}
	if !utils.ValidateEmail(r.Email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ActiveStatusRequest represents the request payload for toggling a rider's active flag
type ActiveStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

func (r ActiveStatusRequest) Validate() error {
	if r.IsActive == nil {
		return fmt.Errorf("invalid is_active value")
	}
	return nil
}

// WorkStatusRequest represents the request payload for a rider's own availability change
type WorkStatusRequest struct {
	WorkStatus string `json:"work_status" validate:"required,oneof=idle busy on_break"`
}

func (r WorkStatusRequest) Validate() error {
	if r.WorkStatus == "" {
		return fmt.Errorf("work status is required")
	}
	if !riderModel.WorkStatus(r.WorkStatus).IsValid() {
		return fmt.Errorf("invalid work status value")
	}
	return nil
}
