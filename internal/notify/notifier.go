package notify

import (
	"github.com/betatools/tracker-backend/internal/models"
	"github.com/google/uuid"
)

// Notifier is the outbound notification surface. Implementations deliver
// to review/reward/archive/purchase destinations; delivery failures are the
// implementation's problem to report and never roll back the triggering
// business operation.
type Notifier interface {
	ReportCreated(report *models.Report) error
	ReportApproved(report *models.Report, amount int64, recipient uuid.UUID, actor uuid.UUID) error
	ReportDeclined(report *models.Report, actor uuid.UUID) error
	ReportFixed(report *models.Report, actor uuid.UUID) error
	PurchaseCompleted(purchase *models.Purchase) error
}
