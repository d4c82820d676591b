package payment

import (
	"errors"
	"fmt"
	"os"

	"parcel-delivery/httpServices/stripe"
	"parcel-delivery/logger"
	"parcel-delivery/middleware"
	userModel "parcel-delivery/models/user"
	parcelService "parcel-delivery/services/parcel"
	paymentService "parcel-delivery/services/payment"
	"parcel-delivery/types"
	paymentTypes "parcel-delivery/types/payment"
	"parcel-delivery/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PaymentController handles checkout and payment confirmation requests
type PaymentController struct {
	DB       *gorm.DB
	Logger   *logger.AsyncLogger
	Payments *paymentService.PaymentService
	Stripe   *httpServices.StripeClient
}

// NewPaymentController creates a new payment controller
func NewPaymentController(db *gorm.DB, asyncLogger *logger.AsyncLogger, payments *paymentService.PaymentService) *PaymentController {
	return &PaymentController{
		DB:       db,
		Logger:   asyncLogger,
		Payments: payments,
		Stripe:   httpServices.NewClient(os.Getenv("STRIPE_BASE_URL"), os.Getenv("STRIPE_SECRET_KEY")),
	}
}

func (pc *PaymentController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	pc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

// Checkout creates a payment intent for a parcel and returns its client secret
func (pc *PaymentController) Checkout(c *fiber.Ctx) error {
	var req paymentTypes.CheckoutRequest
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

	intent, err := pc.Stripe.CreatePaymentIntent(req.Amount, "usd", fmt.Sprintf("Parcel delivery charge for parcel #%d", req.ParcelID))
	if err != nil {
		logger.Error("Failed to create payment intent", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to create payment intent",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Success: true,
		Message: "Payment intent created successfully",
		Data: fiber.Map{
			"clientSecret": intent.ClientSecret,
		},
	})
}

// Confirm records a completed payment: flips the parcel to paid and stores
// the payment history row
func (pc *PaymentController) Confirm(c *fiber.Ctx) error {
	var req paymentTypes.ConfirmPaymentRequest
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

	history, err := pc.Payments.Confirm(req)
	if err != nil {
		if errors.Is(err, parcelService.ErrParcelNotFound) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Success: false,
				Message: "Parcel not found",
			})
		}
		if errors.Is(err, paymentService.ErrDuplicateTransaction) {
			return pc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
				Success: false,
				Message: "Payment with this transaction id is already recorded",
			})
		}
		logger.Error("Failed to confirm payment", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to confirm payment",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Success: true,
		Message: "Payment confirmed and history saved successfully",
		Data:    history,
	})
}

// HistoryByEmail returns a payer's payment history, newest first. Non-admin
// callers can only read their own history.
func (pc *PaymentController) HistoryByEmail(c *fiber.Ctx) error {
	email := c.Params("email")
	if email == "" {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: "Email is required",
		})
	}

	authUser, ok := middleware.AuthUserFromCtx(c)
	if !ok {
		return pc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Success: false,
			Message: "Unauthorized",
		})
	}
	if utils.NormalizeEmail(email) != authUser.Email {
		userInfo, err := utils.GetUserByEmail(authUser.Email)
		if err != nil || userInfo.Role != userModel.RoleAdmin {
			return pc.sendResponseWithLog(c, fiber.StatusForbidden, types.ApiResponse{
				Success: false,
				Message: "Access denied",
			})
		}
	}

	histories, err := pc.Payments.HistoryByEmail(email)
	if err != nil {
		logger.Error("Failed to fetch payment history", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to fetch payment history",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Success: true,
		Message: "Payment history fetched successfully",
		Data:    histories,
	})
}
