package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ProgressHandler struct {
	progressService *services.ProgressService
}

func NewProgressHandler(progressService *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

func (h *ProgressHandler) GetProgress(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	progress, err := h.progressService.GetProgress(c.UserContext(), principal.ID)
	if err != nil {
		slog.Error("get progress failed", "user_id", principal.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to fetch progress",
		})
	}
	return c.JSON(progress)
}

func (h *ProgressHandler) SetProgress(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	var req dto.SetProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Invalid request body",
		})
	}

	if err := h.progressService.SetProgress(c.UserContext(), principal.ID, &req); err != nil {
		if errors.Is(err, services.ErrInvalidActivity) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: err.Error(),
			})
		}
		slog.Error("set progress failed", "user_id", principal.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to update progress",
		})
	}
	return c.SendString("Progress updated!")
}
