package parcel

import (
	"fmt"
	"strings"

	parcelModel "parcel-delivery/models/parcel"
	"parcel-delivery/utils"
)

// ParcelCreateRequest represents the request payload for creating a parcel order
type ParcelCreateRequest struct {
	Type   string  `json:"type" validate:"required,oneof=document non-document"`
	Title  string  `json:"title" validate:"required,min=1,max=255"`
	Weight float64 `json:"weight" validate:"gte=0,lte=1000"`

	SenderName        string `json:"sender_name" validate:"required"`
	SenderContact     string `json:"sender_contact" validate:"required,phone"`
	SenderRegion      string `json:"sender_region" validate:"required"`
	SenderCenter      string `json:"sender_center" validate:"required"`
	SenderArea        string `json:"sender_area" validate:"required"`
	PickupInstruction string `json:"pickup_instruction" validate:"required"`

	ReceiverName        string `json:"receiver_name" validate:"required"`
	ReceiverContact     string `json:"receiver_contact" validate:"required,phone"`
	ReceiverRegion      string `json:"receiver_region" validate:"required"`
	ReceiverCenter      string `json:"receiver_center" validate:"required"`
	ReceiverArea        string `json:"receiver_area" validate:"required"`
	DeliveryInstruction string `json:"delivery_instruction" validate:"required"`

	TotalCost float64 `json:"total_cost" validate:"gte=0"`
}

func (r ParcelCreateRequest) Validate() error {
	if r.Type != string(parcelModel.ParcelTypeDocument) && r.Type != string(parcelModel.ParcelTypeNonDocument) {
		return fmt.Errorf("type must be either 'document' or 'non-document'")
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if r.Weight < 0 {
		return fmt.Errorf("weight cannot be negative")
	}
	if r.Weight > parcelModel.MaxWeight {
		return fmt.Errorf("weight seems too high")
	}
	if strings.TrimSpace(r.SenderName) == "" {
		return fmt.Errorf("sender name is required")
	}
	if !utils.ValidatePhoneNumber(r.SenderContact) {
		return fmt.Errorf("sender contact is not a valid Bangladeshi phone number")
	}
	if strings.TrimSpace(r.SenderRegion) == "" {
		return fmt.Errorf("sender region is required")
	}
	if strings.TrimSpace(r.SenderCenter) == "" {
		return fmt.Errorf("sender service center is required")
	}
	if strings.TrimSpace(r.SenderArea) == "" {
		return fmt.Errorf("sender area is required")
	}
	if strings.TrimSpace(r.PickupInstruction) == "" {
		return fmt.Errorf("pickup instruction is required")
	}
	if strings.TrimSpace(r.ReceiverName) == "" {
		return fmt.Errorf("receiver name is required")
	}
	if !utils.ValidatePhoneNumber(r.ReceiverContact) {
		return fmt.Errorf("receiver contact is not a valid Bangladeshi phone number")
	}
	if strings.TrimSpace(r.ReceiverRegion) == "" {
		return fmt.Errorf("receiver region is required")
	}
	if strings.TrimSpace(r.ReceiverCenter) == "" {
		return fmt.Errorf("receiver service center is required")
	}
	if strings.TrimSpace(r.ReceiverArea) == "" {
		return fmt.Errorf("receiver area is required")
	}
	if strings.TrimSpace(r.DeliveryInstruction) == "" {
		return fmt.Errorf("delivery instruction is required")
	}
	if r.TotalCost < 0 {
		return fmt.Errorf("total cost cannot be negative")
	}
	return nil
}

// AssignRiderRequest represents the request payload for binding a rider to a parcel
type AssignRiderRequest struct {
	RiderID uint `json:"rider_id" validate:"required"`
}

func (r AssignRiderRequest) Validate() error {
	if r.RiderID == 0 {
		return fmt.Errorf("rider_id is required")
	}
	return nil
}

// UpdateStatusRequest represents the request payload for a delivery status change
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (r UpdateStatusRequest) Validate() error {
	if r.Status == "" {
		return fmt.Errorf("status is required")
	}
	switch parcelModel.DeliveryStatus(r.Status) {
	case parcelModel.DeliveryStatusNotCollected,
		parcelModel.DeliveryStatusRiderAssigned,
		parcelModel.DeliveryStatusInTransit,
		parcelModel.DeliveryStatusDelivered:
		return nil
	}
	return fmt.Errorf("invalid delivery status value")
}

// TrackingUpdateRequest represents the request payload for a manual tracking entry
type TrackingUpdateRequest struct {
	Status  string `json:"status" validate:"required"`
	Message string `json:"message" validate:"required"`
}

func (r TrackingUpdateRequest) Validate() error {
	if strings.TrimSpace(r.Status) == "" {
		return fmt.Errorf("status is required")
	}
	if strings.TrimSpace(r.Message) == "" {
		return fmt.Errorf("message is required")
	}
	return nil
}
