package handlers

import (
	"errors"

	"github.com/betatools/tracker-backend/internal/dto"
	"github.com/betatools/tracker-backend/internal/middleware"
	"github.com/betatools/tracker-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PointsHandler struct {
	pointsService *services.PointsService
}

func NewPointsHandler(pointsService *services.PointsService) *PointsHandler {
	return &PointsHandler{pointsService: pointsService}
}

// Balance returns the caller's own balance.
func (h *PointsHandler) Balance(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	amount, err := h.pointsService.GetBalance(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(dto.BalanceResponse{UserID: userID, Amount: amount})
}

func (h *PointsHandler) Add(c *fiber.Ctx) error {
	return h.adjust(c, h.pointsService.Add)
}

func (h *PointsHandler) Remove(c *fiber.Ctx) error {
	return h.adjust(c, h.pointsService.Subtract)
}

func (h *PointsHandler) Reset(c *fiber.Ctx) error {
	var req dto.ResetPointsRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.pointsService.Reset(req.UserID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(dto.BalanceResponse{UserID: req.UserID, Amount: 0})
}

func (h *PointsHandler) adjust(c *fiber.Ctx, op func(uuid.UUID, int64) (int64, error)) error {
	var req dto.AdjustPointsRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	amount, err := op(req.UserID, req.Amount)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(dto.BalanceResponse{UserID: req.UserID, Amount: amount})
}
