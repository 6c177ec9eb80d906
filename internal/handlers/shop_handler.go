package handlers

import (
	"errors"

	"github.com/betatools/tracker-backend/internal/dto"
	"github.com/betatools/tracker-backend/internal/middleware"
	"github.com/betatools/tracker-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ShopHandler struct {
	shopService *services.ShopService
}

func NewShopHandler(shopService *services.ShopService) *ShopHandler {
	return &ShopHandler{shopService: shopService}
}

func (h *ShopHandler) Browse(c *fiber.Ctx) error {
	resp, err := h.shopService.Browse(c.QueryInt("page", 1))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(resp)
}

func (h *ShopHandler) Begin(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.BeginPurchaseRequest
	if err := c.BodyParser(&req); err != nil || req.ItemID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	purchase, err := h.shopService.Begin(userID, req.ItemID)
	if err != nil {
		return h.purchaseError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(purchase)
}

func (h *ShopHandler) Confirm(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	purchaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid purchase id",
		})
	}

	var req dto.ConfirmPurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	purchase, err := h.shopService.Confirm(userID, purchaseID, req.IGN)
	if err != nil {
		return h.purchaseError(c, err)
	}

	return c.JSON(purchase)
}

func (h *ShopHandler) Cancel(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	purchaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid purchase id",
		})
	}

	purchase, err := h.shopService.Cancel(userID, purchaseID)
	if err != nil {
		return h.purchaseError(c, err)
	}

	return c.JSON(purchase)
}

func (h *ShopHandler) purchaseError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrItemNotFound), errors.Is(err, services.ErrPurchaseNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInsufficientPoints), errors.Is(err, services.ErrPurchaseClosed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidIGN):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}
