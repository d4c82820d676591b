package rider

import (
	"errors"
	"fmt"
	"strconv"

	"parcel-delivery/logger"
	"parcel-delivery/middleware"
	riderModel "parcel-delivery/models/rider"
	riderService "parcel-delivery/services/rider"
	"parcel-delivery/types"
	riderTypes "parcel-delivery/types/rider"
	"parcel-delivery/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RiderController handles rider onboarding and availability HTTP requests
type RiderController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
	Riders *riderService.RiderService
}

// NewRiderController creates a new rider controller
func NewRiderController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *RiderController {
	return &RiderController{
		DB:     db,
		Logger: asyncLogger,
		Riders: riderService.NewRiderService(db),
	}
}

func (rc *RiderController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	rc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

// Apply submits a new rider application for the authenticated user
func (rc *RiderController) Apply(c *fiber.Ctx) error {
	var req riderTypes.RiderApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	authUser, ok := middleware.AuthUserFromCtx(c)
	if !ok {
		return rc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Success: false,
			Message: "Unauthorized",
		})
	}

	newRider, err := rc.Riders.Apply(req, authUser.UID, authUser.Email)
	if err != nil {
		switch {
		case errors.Is(err, riderService.ErrEmailMismatch):
			return rc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
				Success: false,
				Message: "You have to enter your login email!",
			})
		case errors.Is(err, riderService.ErrDuplicateApplication):
			return rc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
				Success: false,
				Message: "You already have an active application with this account.",
			})
		}
		logger.Error("Error creating rider", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to create rider application",
		})
	}

	logger.Success(fmt.Sprintf("Rider application submitted for %s", newRider.Email))
	return rc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Success: true,
		Message: "Rider application submitted successfully!",
		Data:    newRider,
	})
}

// GetPending lists pending applications; admin only
func (rc *RiderController) GetPending(c *fiber.Ctx) error {
	pendingRiders, err := rc.Riders.ListPending()
	if err != nil {
		logger.Error("Error fetching pending riders", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to fetch pending rider applications",
		})
	}
	if len(pendingRiders) == 0 {
		return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
			Success: false,
			Message: "No pending rider applications found",
		})
	}

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Success: true,
		Message: "Pending rider applications retrieved successfully",
		Data:    pendingRiders,
	})
}

// UpdateStatus approves or rejects an application; admin only
func (rc *RiderController) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: "invalid id",
		})
	}

	var req riderTypes.ApplicationDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: "Invalid status value",
		})
	}

	rider, err := rc.Riders.Decide(uint(id), riderModel.ApplicationStatus(req.Status), req.Email)
	if err != nil {
		if errors.Is(err, riderService.ErrRiderNotFound) {
			return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Success: false,
				Message: "Rider not found",
			})
		}
		logger.Error("Error updating rider status", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to update rider status",
		})
	}

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Success: true,
		Message: fmt.Sprintf("Rider %s successfully", req.Status),
		Data:    rider,
	})
}

// GetApproved lists approved riders; admin only
func (rc *RiderController) GetApproved(c *fiber.Ctx) error {
	approvedRiders, err := rc.Riders.ListApproved()
	if err != nil {
		logger.Error("Error fetching approved riders", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to fetch approved riders",
		})
	}
	if len(approvedRiders) == 0 {
		return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
			Success: false,
			Message: "No approved riders found",
		})
	}

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Success: true,
		Message: "Approved riders retrieved successfully",
		Data:    approvedRiders,
	})
}

// GetApprovedByEmail returns a single approved rider; rider may only view themselves
func (rc *RiderController) GetApprovedByEmail(c *fiber.Ctx) error {
	email := utils.NormalizeEmail(c.Params("email"))
	if email == "" {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: "Email is required",
		})
	}

	authUser, ok := middleware.AuthUserFromCtx(c)
	if !ok {
		return rc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Success: false,
			Message: "Unauthorized",
		})
	}
	if email != authUser.Email {
		return rc.sendResponseWithLog(c, fiber.StatusForbidden, types.ApiResponse{
			Success: false,
			Message: "Access denied",
		})
	}

	rider, err := rc.Riders.GetApprovedByEmail(email)
	if err != nil {
		if errors.Is(err, riderService.ErrRiderNotFound) {
			return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Success: false,
				Message: "Rider not found or not approved",
			})
		}
		logger.Error("Error fetching rider", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Internal Server Error",
		})
	}

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Success: true,
		Message: "Rider fetched successfully",
		Data:    rider,
	})
}

// UpdateActiveStatus toggles a rider's operator-activation flag; admin only
func (rc *RiderController) UpdateActiveStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: "invalid id",
		})
	}

	var req riderTypes.ActiveStatusRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: "Invalid isActive value",
		})
	}

	rider, err := rc.Riders.SetActive(uint(id), *req.IsActive)
	if err != nil {
		if errors.Is(err, riderService.ErrRiderNotFound) {
			return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Success: false,
				Message: "Rider not found",
			})
		}
		logger.Error("Error updating rider active status", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to update rider active status",
		})
	}

	message := "Rider deactivated successfully"
	if rider.IsActive {
		message = "Rider activated successfully"
	}
	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Success: true,
		Message: message,
		Data:    rider,
	})
}

// GetAvailable lists active, idle, approved riders for a region
func (rc *RiderController) GetAvailable(c *fiber.Ctx) error {
	region := c.Query("region")
	if region == "" {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: "Region query parameter is required",
		})
	}

	riders, err := rc.Riders.AvailableByRegion(region)
	if err != nil {
		logger.Error("Error getting available riders", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to get available riders",
		})
	}

	message := "Available riders fetched successfully"
	if len(riders) == 0 {
		message = "No available riders found"
	}
	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Success: true,
		Message: message,
		Data:    riders,
	})
}

// UpdateWorkStatus lets a rider change their own availability
func (rc *RiderController) UpdateWorkStatus(c *fiber.Ctx) error {
	email := utils.NormalizeEmail(c.Params("email"))

	authUser, ok := middleware.AuthUserFromCtx(c)
	if !ok {
		return rc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Success: false,
			Message: "Unauthorized",
		})
	}
	if email != authUser.Email {
		return rc.sendResponseWithLog(c, fiber.StatusForbidden, types.ApiResponse{
			Success: false,
			Message: "Access denied",
		})
	}

	var req riderTypes.WorkStatusRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	rider, err := rc.Riders.UpdateWorkStatus(email, riderModel.WorkStatus(req.WorkStatus))
	if err != nil {
		if errors.Is(err, riderService.ErrRiderNotFound) {
			return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Success: false,
				Message: "Rider not found",
			})
		}
		logger.Error("Error updating work status", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Internal server error",
		})
	}

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Success: true,
		Message: fmt.Sprintf("Work status updated to %q", req.WorkStatus),
		Data:    rider,
	})
}
