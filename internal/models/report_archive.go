package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ReportArchive is the terminal record written when a report is resolved
// (fixed or declined). It keeps a full snapshot of the report plus the
// identity of the resolving admin, independent of later edits.
type ReportArchive struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID   uint           `gorm:"not null;index" json:"report_id"`
	Resolution ReportStatus   `gorm:"size:20;not null" json:"resolution"`
	ActorID    uuid.UUID      `gorm:"type:uuid;not null" json:"actor_id"`
	Snapshot   datatypes.JSON `gorm:"type:jsonb" json:"snapshot"`
	CreatedAt  time.Time      `json:"created_at"`
}
