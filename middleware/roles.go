package middleware

import (
	"errors"

	"parcel-delivery/models/user"
	"parcel-delivery/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// requireRole looks up the caller's stored role by token email and denies
// the request unless it matches. Composed per route after Protected.
func requireRole(db *gorm.DB, role user.Role, deniedMsg string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authUser, ok := AuthUserFromCtx(c)
		if !ok || authUser.Email == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Success: false,
				Message: "Unauthorized: No user email found",
			})
		}

		var userModel user.User
		if err := db.Where("email = ?", authUser.Email).First(&userModel).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
					Success: false,
					Message: "User not found in database",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
				Success: false,
				Message: "Something went wrong with role verification",
			})
		}

		if userModel.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
				Success: false,
				Message: deniedMsg,
			})
		}

		return c.Next()
	}
}

// RequireAdmin restricts a route to users with the admin role.
func RequireAdmin(db *gorm.DB) fiber.Handler {
	return requireRole(db, user.RoleAdmin, "Access denied: Admin only")
}

// RequireRider restricts a route to users with the rider role.
func RequireRider(db *gorm.DB) fiber.Handler {
	return requireRole(db, user.RoleRider, "Access denied: Rider only")
}
