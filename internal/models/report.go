package models

import (
	"time"

	"github.com/google/uuid"
)

type ReportStatus string

const (
	StatusPending  ReportStatus = "pending"
	StatusApproved ReportStatus = "approved"
	StatusFixed    ReportStatus = "fixed"
	StatusDeclined ReportStatus = "declined"
)

// Terminal reports that no transition may leave.
func (s ReportStatus) Terminal() bool {
	return s == StatusFixed || s == StatusDeclined
}

func ValidStatus(s string) bool {
	switch ReportStatus(s) {
	case StatusPending, StatusApproved, StatusFixed, StatusDeclined:
		return true
	}
	return false
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityVeryHigh Severity = "very_high"
)

// severityRank is the fixed total order used for sorting. Unknown or
// missing severities rank below everything else.
var severityRank = map[Severity]int{
	SeverityVeryHigh: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
}

const UnknownSeverityRank = 4

func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return UnknownSeverityRank
}

func ValidSeverity(s string) bool {
	_, ok := severityRank[Severity(s)]
	return ok
}

type Category string

const (
	CategoryMining   Category = "mining"
	CategoryForaging Category = "foraging"
	CategoryDungeons Category = "dungeons"
	CategorySlayers  Category = "slayers"
	CategoryIsland   Category = "island"
	CategoryFishing  Category = "fishing"
	CategoryOthers   Category = "others"
)

func ValidCategory(c string) bool {
	switch Category(c) {
	case CategoryMining, CategoryForaging, CategoryDungeons, CategorySlayers,
		CategoryIsland, CategoryFishing, CategoryOthers:
		return true
	}
	return false
}

// Report is one submitted defect tracked through the review lifecycle.
// IDs are assigned by the database sequence and never reused; status only
// moves forward (pending -> approved -> fixed/declined, or pending -> declined).
type Report struct {
	ID                 uint         `gorm:"primaryKey" json:"id"`
	Title              string       `gorm:"size:100;not null" json:"title"`
	Description        string       `gorm:"size:800;not null" json:"description"`
	ReproductionSteps  string       `gorm:"size:500;not null" json:"reproduction_steps"`
	Category           Category     `gorm:"size:20;not null;index" json:"category"`
	Severity           Severity     `gorm:"size:20;not null" json:"severity"`
	Status             ReportStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ReporterID         uuid.UUID    `gorm:"type:uuid;not null;index" json:"reporter_id"`
	OriginalReporterID *uuid.UUID   `gorm:"type:uuid" json:"original_reporter_id,omitempty"`
	ReportedAt         string       `gorm:"size:10;not null;index" json:"reported_at"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// ReportedAtDate parses the day-granularity submission date. Unparseable
// values fall back to the epoch so they sort to the front of ascending
// date order instead of failing the listing.
func (r *Report) ReportedAtDate() time.Time {
	t, err := time.Parse("2006-01-02", r.ReportedAt)
	if err != nil {
		return time.Unix(0, 0).UTC()
	}
	return t
}
