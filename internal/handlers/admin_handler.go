package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

const defaultLogLimit = 50

type AdminHandler struct {
	userAdminService *services.UserAdminService
	analyticsService *services.AnalyticsService
	auditService     *services.AuditService
}

func NewAdminHandler(
	userAdminService *services.UserAdminService,
	analyticsService *services.AnalyticsService,
	auditService *services.AuditService,
) *AdminHandler {
	return &AdminHandler{
		userAdminService: userAdminService,
		analyticsService: analyticsService,
		auditService:     auditService,
	}
}

func (h *AdminHandler) SystemStats(c *fiber.Ctx) error {
	stats, err := h.analyticsService.SystemStats(c.UserContext())
	if err != nil {
		slog.Error("system stats failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to get system stats",
		})
	}
	return c.JSON(stats)
}

func (h *AdminHandler) CommunityStats(c *fiber.Ctx) error {
	stats, err := h.analyticsService.CommunityStats(c.UserContext(), c.Query("period", "7d"))
	if err != nil {
		slog.Error("community stats failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to get community stats",
		})
	}
	return c.JSON(stats)
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	resp, err := h.userAdminService.ListUsers(c.UserContext(), dto.ListUsersQuery{
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", services.DefaultPageSize),
		Role:   c.Query("role"),
		Status: c.Query("status"),
	})
	if err != nil {
		slog.Error("list users failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to fetch users",
		})
	}
	return c.JSON(resp)
}

func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	userID := c.Params("userId")

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Invalid request body",
		})
	}

	if err := h.userAdminService.UpdateUser(c.UserContext(), userID, principal.ID, &req); err != nil {
		switch {
		case errors.Is(err, services.ErrNoValidUpdates), errors.Is(err, services.ErrInvalidRole):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "User not found"})
		}
		slog.Error("update user failed",
			"user_id", principal.ID, "action", "user_update", "target_user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to update user",
		})
	}

	return c.JSON(dto.SuccessResponse{
		Success: true,
		Message: "User updated successfully",
	})
}

func (h *AdminHandler) ListLogs(c *fiber.Ctx) error {
	logs, err := h.auditService.ListLogs(c.UserContext(), queryLimit(c, defaultLogLimit, services.MaxPageSize))
	if err != nil {
		slog.Error("list admin logs failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to fetch admin logs",
		})
	}
	return c.JSON(logs)
}

// queryLimit reads ?limit, falling back to def when absent or invalid and
// capping at max.
func queryLimit(c *fiber.Ctx, def, max int) int {
	limit := c.QueryInt("limit", def)
	if limit < 1 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
