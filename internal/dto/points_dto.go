package dto

import "github.com/google/uuid"

type AdjustPointsRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Amount int64     `json:"amount"`
}

type ResetPointsRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

type BalanceResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Amount int64     `json:"amount"`
}
