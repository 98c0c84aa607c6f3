package middleware

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StaffRequired admits callers whose stored profile has the admin or
// moderator role. It must run after Authenticated.
func StaffRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := GetPrincipal(c)
		if principal == nil {
			return unauthorized(c)
		}

		var user models.User
		err := db.WithContext(c.UserContext()).
			Select("id", "role").
			First(&user, "id = ?", principal.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: "User profile not found",
			})
		}
		if err != nil {
			slog.Error("admin role lookup failed", "user_id", principal.ID, "path", c.Path(), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: "Error verifying admin status",
			})
		}

		if !user.IsStaff() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: "Admin privileges required",
			})
		}

		c.Locals(roleKey, user.Role)
		return c.Next()
	}
}
