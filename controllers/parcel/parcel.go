package parcel

import (
	"errors"
	"fmt"
	"strconv"

	"parcel-delivery/logger"
	"parcel-delivery/middleware"
	parcelModel "parcel-delivery/models/parcel"
	parcelService "parcel-delivery/services/parcel"
	riderService "parcel-delivery/services/rider"
	"parcel-delivery/types"
	parcelTypes "parcel-delivery/types/parcel"
	"parcel-delivery/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ParcelController handles parcel lifecycle HTTP requests
type ParcelController struct {
	DB        *gorm.DB
	Logger    *logger.AsyncLogger
	Lifecycle *parcelService.LifecycleService
}

// NewParcelController creates a new parcel controller
func NewParcelController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *ParcelController {
	return &ParcelController{
		DB:        db,
		Logger:    asyncLogger,
		Lifecycle: parcelService.NewLifecycleService(db),
	}
}

// Helper function to send response and log in one call
func (pc *ParcelController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	pc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", param)
	}
	return uint(id), nil
}

// Create stores a new parcel order for the authenticated user
func (pc *ParcelController) Create(c *fiber.Ctx) error {
	var req parcelTypes.ParcelCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: "Invalid request body",
		})
	}

	if err := req.Validate(); err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	authUser, ok := middleware.AuthUserFromCtx(c)
	if !ok {
		return pc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Success: false,
			Message: "Unauthorized",
		})
	}

	newParcel, err := pc.Lifecycle.CreateParcel(req, authUser.Email)
	if err != nil {
		logger.Error("Parcel creation error", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to create parcel",
		})
	}

	logger.Success(fmt.Sprintf("Parcel created successfully with tracking id: %s", newParcel.TrackingID))
	return pc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Success: true,
		Message: "Parcel created successfully",
		Data:    newParcel,
	})
}

// GetMyParcels returns parcels created by the logged-in user; owner only
func (pc *ParcelController) GetMyParcels(c *fiber.Ctx) error {
	email := utils.NormalizeEmail(c.Params("userEmail"))

	authUser, ok := middleware.AuthUserFromCtx(c)
	if !ok {
		return pc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Success: false,
			Message: "Unauthorized",
		})
	}
	if email != authUser.Email {
		return pc.sendResponseWithLog(c, fiber.StatusForbidden, types.ApiResponse{
			Success: false,
			Message: "Access denied",
		})
	}

	myParcels, err := pc.Lifecycle.GetByOwner(email)
	if err != nil {
		logger.Error("Failed to get parcels by owner", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to get your parcels",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Success: true,
		Message: "Your parcels retrieved successfully",
		Data:    myParcels,
	})
}

// GetByID returns a single parcel with its tracking history
func (pc *ParcelController) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c, "parcelId")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	p, err := pc.Lifecycle.GetByID(id)
	if err != nil {
		if errors.Is(err, parcelService.ErrParcelNotFound) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Success: false,
				Message: "Parcel not found",
			})
		}
		logger.Error("Failed to get parcel by ID", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to get parcel by ID",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Success: true,
		Message: "Parcel found successfully",
		Data:    p,
	})
}

// Delete removes a parcel permanently; admin action
func (pc *ParcelController) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	deleted, err := pc.Lifecycle.Delete(id)
	if err != nil {
		if errors.Is(err, parcelService.ErrParcelNotFound) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Success: false,
				Message: "Parcel not found",
			})
		}
		logger.Error("Failed to delete parcel", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to delete parcel",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Success: true,
		Message: "Parcel deleted successfully",
		Data:    deleted,
	})
}

// GetAssignable returns paid parcels waiting for rider assignment; admin only
func (pc *ParcelController) GetAssignable(c *fiber.Ctx) error {
	parcels, err := pc.Lifecycle.GetAssignable()
	if err != nil {
		logger.Error("Failed to fetch assignable parcels", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to fetch assignable parcels",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Success: true,
		Message: "Available parcels for rider assignment",
		Data:    parcels,
	})
}

// AssignRider binds an idle rider to a parcel; admin only
func (pc *ParcelController) AssignRider(c *fiber.Ctx) error {
	parcelID, err := parseID(c, "parcelId")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	var req parcelTypes.AssignRiderRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	p, r, err := pc.Lifecycle.AssignRider(parcelID, req.RiderID)
	if err != nil {
		switch {
		case errors.Is(err, parcelService.ErrParcelNotFound):
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Success: false,
				Message: "Parcel not found",
			})
		case errors.Is(err, riderService.ErrRiderNotFound):
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Success: false,
				Message: "Rider not found",
			})
		case errors.Is(err, riderService.ErrRiderBusy):
			return pc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
				Success: false,
				Message: "Rider is currently busy",
			})
		}
		logger.Error("Failed to assign rider", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to assign rider",
		})
	}

	logger.Success(fmt.Sprintf("Rider %d assigned to parcel %d", r.ID, p.ID))
	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Success: true,
		Message: "Rider assigned successfully",
		Data: fiber.Map{
			"parcel": p,
			"rider":  r,
		},
	})
}

// GetPendingDeliveries returns the rider's open parcels; rider may only view their own
func (pc *ParcelController) GetPendingDeliveries(c *fiber.Ctx) error {
	return pc.deliveriesResponse(c, pc.Lifecycle.GetPendingDeliveries, "Pending deliveries fetched successfully")
}

// GetCompletedDeliveries returns the rider's delivered parcels
func (pc *ParcelController) GetCompletedDeliveries(c *fiber.Ctx) error {
	return pc.deliveriesResponse(c, pc.Lifecycle.GetCompletedDeliveries, "Completed deliveries fetched successfully")
}

func (pc *ParcelController) deliveriesResponse(c *fiber.Ctx, fetch func(string) ([]parcelModel.Parcel, error), message string) error {
	email := utils.NormalizeEmail(c.Params("email"))

	authUser, ok := middleware.AuthUserFromCtx(c)
	if !ok {
		return pc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Success: false,
			Message: "Unauthorized",
		})
	}
	if email != authUser.Email {
		return pc.sendResponseWithLog(c, fiber.StatusForbidden, types.ApiResponse{
			Success: false,
			Message: "Access denied",
		})
	}

	parcels, err := fetch(email)
	if err != nil {
		if errors.Is(err, riderService.ErrRiderNotFound) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Success: false,
				Message: "Rider not found",
			})
		}
		logger.Error("Failed to fetch deliveries", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to fetch deliveries",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Success: true,
		Message: message,
		Data:    parcels,
	})
}

// UpdateStatus advances a parcel's delivery status; rider action
func (pc *ParcelController) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	var req parcelTypes.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	updated, err := pc.Lifecycle.AdvanceDeliveryStatus(id, parcelModel.DeliveryStatus(req.Status))
	if err != nil {
		if errors.Is(err, parcelService.ErrParcelNotFound) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Success: false,
				Message: "Parcel not found!",
			})
		}
		logger.Error("Failed to update delivery status", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to update delivery status",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Success: true,
		Message: "Delivery status updated!",
		Data:    updated,
	})
}

// CashOut settles a parcel's cash-on-delivery funds; rider action
func (pc *ParcelController) CashOut(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	updated, err := pc.Lifecycle.CashOut(id)
	if err != nil {
		if errors.Is(err, parcelService.ErrParcelNotFound) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Success: false,
				Message: "Parcel not found!",
			})
		}
		logger.Error("Failed to cash out parcel", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to cash out parcel",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Success: true,
		Message: "Cash out successful",
		Data:    updated,
	})
}

// AddTracking appends a manual tracking entry to a parcel's history
func (pc *ParcelController) AddTracking(c *fiber.Ctx) error {
	id, err := parseID(c, "parcelId")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	var req parcelTypes.TrackingUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: "Status and message are required.",
		})
	}

	updated, err := pc.Lifecycle.AppendTracking(id, req.Status, req.Message)
	if err != nil {
		if errors.Is(err, parcelService.ErrParcelNotFound) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Success: false,
				Message: "Parcel not found.",
			})
		}
		logger.Error("Failed to add tracking update", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to add tracking update",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Success: true,
		Message: "Tracking update added successfully.",
		Data:    updated,
	})
}

// GetByTrackingID returns a parcel by its public tracking code
func (pc *ParcelController) GetByTrackingID(c *fiber.Ctx) error {
	trackingID := c.Params("trackingId")

	p, err := pc.Lifecycle.GetByTrackingID(trackingID)
	if err != nil {
		if errors.Is(err, parcelService.ErrParcelNotFound) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Success: false,
				Message: "Parcel not found",
			})
		}
		logger.Error("Failed to get parcel by tracking id", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Internal Server Error",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Success: true,
		Message: "Parcel found successfully",
		Data:    p,
	})
}

// StatusSummary groups parcels by delivery status; admin only
func (pc *ParcelController) StatusSummary(c *fiber.Ctx) error {
	summary, deliveredToday, err := pc.Lifecycle.StatusSummary()
	if err != nil {
		logger.Error("Error fetching parcel summary", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to fetch parcel summary",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Success: true,
		Message: "Parcel summary fetched successfully",
		Data: fiber.Map{
			"summary":         summary,
			"delivered_today": deliveredToday,
		},
	})
}
