package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/betatools/tracker-backend/internal/dto"
	"github.com/betatools/tracker-backend/internal/middleware"
	"github.com/betatools/tracker-backend/internal/models"
	"github.com/betatools/tracker-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) Submit(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.SubmitReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	report, err := h.reportService.Submit(userID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	filter := services.ReportFilter{
		Category: c.Query("category", "all"),
		Status:   c.Query("status", "all"),
		Sort:     c.Query("sort", "id_asc"),
		Page:     c.QueryInt("page", 1),
	}

	resp, err := h.reportService.List(filter)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.JSON(resp)
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report id",
		})
	}

	report, err := h.reportService.Get(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Report not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(report)
}

func (h *ReportHandler) Approve(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report id",
		})
	}

	actorID, err := middleware.GetUserID(c)
	if err != nil {
		// Requests authorized by the admin token carry no user claims.
		actorID = uuid.Nil
	}

	var req dto.ApproveReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.reportService.Approve(uint(id), actorID, req.Reward)
	if err != nil {
		return h.transitionError(c, err)
	}

	return c.JSON(resp)
}

func (h *ReportHandler) Decline(c *fiber.Ctx) error {
	return h.resolveAction(c, h.reportService.Decline)
}

func (h *ReportHandler) Fix(c *fiber.Ctx) error {
	return h.resolveAction(c, h.reportService.Fix)
}

func (h *ReportHandler) DailyStats(c *fiber.Ctx) error {
	date := c.Query("date", time.Now().UTC().Format("2006-01-02"))

	resp, err := h.reportService.DailyStats(date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.JSON(resp)
}

func (h *ReportHandler) UserStats(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user id",
		})
	}

	resp, err := h.reportService.UserStats(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(resp)
}

func (h *ReportHandler) resolveAction(c *fiber.Ctx, action func(uint, uuid.UUID) (*models.Report, error)) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report id",
		})
	}

	actorID, err := middleware.GetUserID(c)
	if err != nil {
		actorID = uuid.Nil
	}

	report, err := action(uint(id), actorID)
	if err != nil {
		return h.transitionError(c, err)
	}

	return c.JSON(report)
}

func (h *ReportHandler) transitionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrReportNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Report not found",
		})
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrNoRewardRecipient):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidReward):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}
