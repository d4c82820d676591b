package user

import (
	"errors"
	"strconv"
	"time"

	"parcel-delivery/logger"
	userModel "parcel-delivery/models/user"
	"parcel-delivery/types"
	"parcel-delivery/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserController handles user identity and role HTTP requests
type UserController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

// NewUserController creates a new user controller
func NewUserController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *UserController {
	return &UserController{
		DB:     db,
		Logger: asyncLogger,
	}
}

func (uc *UserController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	uc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// CreateOrTouch creates a user on first login or bumps last_login on repeat logins
func (uc *UserController) CreateOrTouch(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return uc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: "Invalid request body",
		})
	}

	if !utils.ValidateEmail(req.Email) {
		return uc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: "Email is required",
		})
	}
	email := utils.NormalizeEmail(req.Email)

	var existing userModel.User
	err := uc.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		existing.LastLogin = time.Now()
		if err := uc.DB.Save(&existing).Error; err != nil {
			logger.Error("Failed to update last login", err)
			return uc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
				Success: false,
				Message: "Failed to update last login",
			})
		}
		return uc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
			Success: true,
			Message: "User already exists — last login updated",
			Data:    existing,
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Database error while checking existing user", err)
		return uc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Database error",
		})
	}

	role := userModel.Role(req.Role)
	if !role.IsValid() {
		role = userModel.RoleUser
	}

	newUser := userModel.User{
		Name:      req.Name,
		Email:     email,
		Role:      role,
		LastLogin: time.Now(),
	}
	if err := uc.DB.Create(&newUser).Error; err != nil {
		logger.Error("Failed to create user", err)
		return uc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to create user",
		})
	}

	return uc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Success: true,
		Message: "New user created successfully",
		Data:    newUser,
	})
}

// Search finds users by name or email substring, max 10 results; admin only
func (uc *UserController) Search(c *fiber.Ctx) error {
	search := c.Query("search")
	if search == "" {
		return uc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: "Search query is required",
		})
	}

	var users []userModel.User
	pattern := "%" + search + "%"
	err := uc.DB.Where("email ILIKE ? OR name ILIKE ?", pattern, pattern).
		Order("created_at desc").
		Limit(10).
		Find(&users).Error
	if err != nil {
		logger.Error("Failed to search users", err)
		return uc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to search users",
		})
	}

	return uc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Success: true,
		Message: "Users fetched successfully",
		Data:    users,
	})
}

func (uc *UserController) setRole(c *fiber.Ctx, role userModel.Role, successMsg string) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return uc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: "invalid id",
		})
	}

	var updated userModel.User
	if err := uc.DB.First(&updated, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Success: false,
				Message: "User not found",
			})
		}
		logger.Error("Failed to load user", err)
		return uc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to update user role",
		})
	}

	updated.Role = role
	if err := uc.DB.Save(&updated).Error; err != nil {
		logger.Error("Failed to update user role", err)
		return uc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Failed to update user role",
		})
	}

	return uc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Success: true,
		Message: successMsg,
		Data:    updated,
	})
}

// MakeAdmin promotes a user to admin; admin only
func (uc *UserController) MakeAdmin(c *fiber.Ctx) error {
	return uc.setRole(c, userModel.RoleAdmin, "User promoted to admin successfully")
}

// RemoveAdmin demotes a user back to the user role; admin only
func (uc *UserController) RemoveAdmin(c *fiber.Ctx) error {
	return uc.setRole(c, userModel.RoleUser, "Admin role removed successfully")
}

// RoleByEmail returns the stored role for an email
func (uc *UserController) RoleByEmail(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return uc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Success: false,
			Message: "Email is required",
		})
	}

	userInfo, err := utils.GetUserByEmail(email)
	if err != nil {
		if err.Error() == "user not found" {
			return uc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Success: false,
				Message: "User not found",
			})
		}
		logger.Error("Failed to fetch user role", err)
		return uc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Success: false,
			Message: "Server Error",
		})
	}

	return uc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Success: true,
		Message: "User role fetched successfully",
		Data: fiber.Map{
			"role": userInfo.Role,
		},
	})
}
