package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ModerationHandler struct {
	moderationService *services.ModerationService
}

func NewModerationHandler(moderationService *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

func (h *ModerationHandler) CreateReport(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Invalid request body",
		})
	}

	report, err := h.moderationService.CreateReport(c.UserContext(), principal.ID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrContentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrInvalidContentType),
			errors.Is(err, services.ErrMissingContentID),
			errors.Is(err, services.ErrReasonTooLong):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		slog.Error("create report failed", "user_id", principal.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to create report",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ModerationHandler) ListReports(c *fiber.Ctx) error {
	status := c.Query("status", models.ReportPending)
	limit := queryLimit(c, services.DefaultPageSize, services.MaxPageSize)

	reports, err := h.moderationService.ListReports(c.UserContext(), status, limit)
	if err != nil {
		slog.Error("list reports failed", "status", status, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to fetch reports",
		})
	}
	return c.JSON(reports)
}

func (h *ModerationHandler) ResolveReport(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	reportID := c.Params("reportId")

	var req dto.ResolveReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Invalid request body",
		})
	}

	status, err := h.moderationService.ResolveReport(c.UserContext(), reportID, principal.ID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAction):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid action"})
		case errors.Is(err, services.ErrReportNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "Report not found"})
		case errors.Is(err, services.ErrContentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrReportAlreadyResolved):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: "Report already resolved"})
		}
		slog.Error("resolve report failed",
			"user_id", principal.ID, "action", "report_resolved", "report_id", reportID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to resolve report",
		})
	}

	return c.JSON(dto.SuccessResponse{
		Success: true,
		Message: "Report " + status + " successfully",
	})
}
