package dto

import "github.com/betatools/tracker-backend/internal/models"

type ShopListResponse struct {
	Items   []models.ShopItem `json:"items"`
	Total   int               `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}

type BeginPurchaseRequest struct {
	ItemID uint `json:"item_id"`
}

type ConfirmPurchaseRequest struct {
	IGN string `json:"ign"`
}
