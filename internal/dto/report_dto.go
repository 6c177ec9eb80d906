package dto

import (
	"github.com/betatools/tracker-backend/internal/models"
	"github.com/google/uuid"
)

type SubmitReportRequest struct {
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	ReproductionSteps  string     `json:"reproduction_steps"`
	Category           string     `json:"category"`
	Severity           string     `json:"severity"`
	OriginalReporterID *uuid.UUID `json:"original_reporter_id,omitempty"`
}

type ApproveReportRequest struct {
	// Reward in [1,5], chosen by the approving admin. Ignored for reports
	// filed on someone else's behalf, which auto-award a single point.
	Reward int64 `json:"reward"`
}

type ReportListResponse struct {
	Reports []models.Report `json:"reports"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
}

type ApproveReportResponse struct {
	Report    models.Report `json:"report"`
	Reward    int64         `json:"reward"`
	Recipient uuid.UUID     `json:"recipient"`
}

type ReporterCount struct {
	ReporterID uuid.UUID `json:"reporter_id"`
	Count      int       `json:"count"`
}

type DailyStatsResponse struct {
	Date      string          `json:"date"`
	Total     int             `json:"total"`
	Reporters []ReporterCount `json:"reporters"`
}

type UserStatsResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Balance  int64     `json:"balance"`
	Pending  int       `json:"pending"`
	Approved int       `json:"approved"`
	Fixed    int       `json:"fixed"`
	Declined int       `json:"declined"`
	Total    int       `json:"total"`
}
