package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/betatools/tracker-backend/internal/dto"
	"github.com/betatools/tracker-backend/internal/models"
	"github.com/betatools/tracker-backend/internal/notify"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound     = errors.New("report not found")
	ErrInvalidTransition  = errors.New("report status does not allow this transition")
	ErrInvalidReward      = errors.New("reward must be between 1 and 5")
	ErrNoRewardRecipient  = errors.New("no eligible reward recipient")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidSeverity    = errors.New("invalid severity")
	ErrInvalidReportField = errors.New("invalid report field")
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 800
	maxStepsLen       = 500

	minReward = 1
	maxReward = 5
	// Reports filed on someone else's behalf always award a single point
	// to the person being reported for, regardless of admin input.
	proxyReward = 1
)

const reportsPerPage = 10

type ReportService struct {
	db       *gorm.DB
	notifier notify.Notifier
}

func NewReportService(db *gorm.DB, notifier notify.Notifier) *ReportService {
	return &ReportService{db: db, notifier: notifier}
}

// Submit validates and persists a new report in pending status. The
// submission date is stamped server side at day granularity.
func (s *ReportService) Submit(reporterID uuid.UUID, req *dto.SubmitReportRequest) (*models.Report, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	steps := strings.TrimSpace(req.ReproductionSteps)

	if title == "" || len(title) > maxTitleLen {
		return nil, fmt.Errorf("%w: title must be 1-%d characters", ErrInvalidReportField, maxTitleLen)
	}
	if description == "" || len(description) > maxDescriptionLen {
		return nil, fmt.Errorf("%w: description must be 1-%d characters", ErrInvalidReportField, maxDescriptionLen)
	}
	if steps == "" || len(steps) > maxStepsLen {
		return nil, fmt.Errorf("%w: reproduction steps must be 1-%d characters", ErrInvalidReportField, maxStepsLen)
	}
	if !models.ValidCategory(req.Category) {
		return nil, ErrInvalidCategory
	}
	if !models.ValidSeverity(req.Severity) {
		return nil, ErrInvalidSeverity
	}

	report := &models.Report{
		Title:              title,
		Description:        description,
		ReproductionSteps:  steps,
		Category:           models.Category(req.Category),
		Severity:           models.Severity(req.Severity),
		Status:             models.StatusPending,
		ReporterID:         reporterID,
		OriginalReporterID: req.OriginalReporterID,
		ReportedAt:         time.Now().UTC().Format("2006-01-02"),
	}

	if err := s.db.Create(report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	if err := s.notifier.ReportCreated(report); err != nil {
		slog.Warn("report created notification failed", "report_id", report.ID, "error", err)
	}

	return report, nil
}

func (s *ReportService) Get(id uint) (*models.Report, error) {
	var report models.Report
	err := s.db.First(&report, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return &report, nil
}

// Approve moves a pending report to approved and credits the reward in the
// same transaction. Direct reports pay the admin-chosen amount to the
// submitter; proxy reports pay a fixed single point to the person the
// report was filed for.
func (s *ReportService) Approve(id uint, actorID uuid.UUID, reward int64) (*dto.ApproveReportResponse, error) {
	var report models.Report
	var amount int64
	var recipient uuid.UUID

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&report, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReportNotFound
			}
			return fmt.Errorf("failed to load report: %w", err)
		}

		if report.Status != models.StatusPending {
			return ErrInvalidTransition
		}

		if report.OriginalReporterID != nil {
			amount = proxyReward
			recipient = *report.OriginalReporterID
		} else {
			if reward < minReward || reward > maxReward {
				return ErrInvalidReward
			}
			amount = reward
			recipient = report.ReporterID
		}
		// No recipient means no reward can be paid, so the transition
		// does not happen either.
		if recipient == uuid.Nil {
			return ErrNoRewardRecipient
		}

		// Guard against a concurrent transition on the same report. The
		// conditional update only lands if the row is still pending.
		result := tx.Model(&models.Report{}).
			Where("id = ? AND status = ?", id, models.StatusPending).
			Update("status", models.StatusApproved)
		if result.Error != nil {
			return fmt.Errorf("failed to approve report: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		report.Status = models.StatusApproved

		if _, err := creditTx(tx, recipient, amount); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.ReportApproved(&report, amount, recipient, actorID); err != nil {
		slog.Warn("report approved notification failed", "report_id", report.ID, "error", err)
	}

	return &dto.ApproveReportResponse{Report: report, Reward: amount, Recipient: recipient}, nil
}

// Decline resolves a report from pending or approved. No points move; an
// archive row records the resolution and the acting admin.
func (s *ReportService) Decline(id uint, actorID uuid.UUID) (*models.Report, error) {
	report, err := s.resolve(id, actorID, models.StatusDeclined,
		models.StatusPending, models.StatusApproved)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.ReportDeclined(report, actorID); err != nil {
		slog.Warn("report declined notification failed", "report_id", report.ID, "error", err)
	}
	return report, nil
}

// Fix resolves an approved report as fixed. The reward was already paid at
// approval; fixing never pays a second time.
func (s *ReportService) Fix(id uint, actorID uuid.UUID) (*models.Report, error) {
	report, err := s.resolve(id, actorID, models.StatusFixed, models.StatusApproved)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.ReportFixed(report, actorID); err != nil {
		slog.Warn("report fixed notification failed", "report_id", report.ID, "error", err)
	}
	return report, nil
}

func (s *ReportService) resolve(id uint, actorID uuid.UUID, to models.ReportStatus, from ...models.ReportStatus) (*models.Report, error) {
	var report models.Report
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&report, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReportNotFound
			}
			return fmt.Errorf("failed to load report: %w", err)
		}

		allowed := false
		for _, f := range from {
			if report.Status == f {
				allowed = true
				break
			}
		}
		if !allowed {
			return ErrInvalidTransition
		}

		result := tx.Model(&models.Report{}).
			Where("id = ? AND status = ?", id, report.Status).
			Update("status", to)
		if result.Error != nil {
			return fmt.Errorf("failed to update report status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		report.Status = to

		snapshot, err := json.Marshal(&report)
		if err != nil {
			return fmt.Errorf("failed to snapshot report: %w", err)
		}
		archive := &models.ReportArchive{
			ID:         uuid.New(),
			ReportID:   report.ID,
			Resolution: to,
			ActorID:    actorID,
			Snapshot:   snapshot,
		}
		if err := tx.Create(archive).Error; err != nil {
			return fmt.Errorf("failed to archive report: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ReportFilter narrows and orders a listing. Category and Status accept
// "all" (or empty) to mean no filtering. Sort is one of id_asc, newest,
// date_asc, date_desc, severity_asc or severity_desc; ascending id is the
// default and anything else is rejected.
type ReportFilter struct {
	Category string
	Status   string
	Sort     string
	Page     int
}

// List returns one page of reports matching the filter. Ordering happens
// in memory after the database filter so severity rank and the epoch date
// fallback behave identically across backends.
func (s *ReportService) List(filter ReportFilter) (*dto.ReportListResponse, error) {
	query := s.db.Model(&models.Report{})
	if filter.Category != "" && filter.Category != "all" {
		if !models.ValidCategory(filter.Category) {
			return nil, ErrInvalidCategory
		}
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" && filter.Status != "all" {
		if !models.ValidStatus(filter.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidReportField, filter.Status)
		}
		query = query.Where("status = ?", filter.Status)
	}

	switch filter.Sort {
	case "", "id_asc", "newest", "date_asc", "date_desc", "severity_asc", "severity_desc":
	default:
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidReportField, filter.Sort)
	}

	var reports []models.Report
	if err := query.Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	sortReports(reports, filter.Sort)

	total := len(reports)
	page := filter.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * reportsPerPage
	if start > total {
		start = total
	}
	end := start + reportsPerPage
	if end > total {
		end = total
	}

	return &dto.ReportListResponse{
		Reports: reports[start:end],
		Total:   total,
		Page:    page,
		PerPage: reportsPerPage,
	}, nil
}

// sortReports orders in place. The default is ascending id, oldest report
// first. Severity order always puts unknown values last regardless of
// direction; ties break on ascending id so paging is stable.
func sortReports(reports []models.Report, order string) {
	less := func(a, b *models.Report) bool { return a.ID < b.ID }

	switch order {
	case "newest":
		less = func(a, b *models.Report) bool { return a.CreatedAt.After(b.CreatedAt) }
	case "date_asc":
		less = func(a, b *models.Report) bool {
			return a.ReportedAtDate().Before(b.ReportedAtDate())
		}
	case "date_desc":
		less = func(a, b *models.Report) bool {
			return a.ReportedAtDate().After(b.ReportedAtDate())
		}
	case "severity_desc":
		less = func(a, b *models.Report) bool {
			return a.Severity.Rank() < b.Severity.Rank()
		}
	case "severity_asc":
		less = func(a, b *models.Report) bool {
			return severityAscKey(a.Severity) < severityAscKey(b.Severity)
		}
	}

	sort.SliceStable(reports, func(i, j int) bool {
		a, b := &reports[i], &reports[j]
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return a.ID < b.ID
	})
}

// severityAscKey inverts known ranks so ascending order reads low to
// very_high while unknown still sorts after everything.
func severityAscKey(s models.Severity) int {
	r := s.Rank()
	if r == models.UnknownSeverityRank {
		return models.UnknownSeverityRank
	}
	return (models.UnknownSeverityRank - 1) - r
}

// DailyStats summarizes submissions for one day, reporters ordered by
// volume.
func (s *ReportService) DailyStats(date string) (*dto.DailyStatsResponse, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidReportField)
	}

	var reports []models.Report
	if err := s.db.Where("reported_at = ?", date).Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to load daily stats: %w", err)
	}

	counts := make(map[uuid.UUID]int)
	for i := range reports {
		counts[reports[i].ReporterID]++
	}
	reporters := make([]dto.ReporterCount, 0, len(counts))
	for id, n := range counts {
		reporters = append(reporters, dto.ReporterCount{ReporterID: id, Count: n})
	}
	sort.Slice(reporters, func(i, j int) bool {
		if reporters[i].Count != reporters[j].Count {
			return reporters[i].Count > reporters[j].Count
		}
		return reporters[i].ReporterID.String() < reporters[j].ReporterID.String()
	})

	return &dto.DailyStatsResponse{
		Date:      date,
		Total:     len(reports),
		Reporters: reporters,
	}, nil
}

// UserStats returns a user's balance plus their report counts by status.
func (s *ReportService) UserStats(userID uuid.UUID) (*dto.UserStatsResponse, error) {
	var reports []models.Report
	if err := s.db.Where("reporter_id = ?", userID).Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to load user reports: %w", err)
	}

	stats := &dto.UserStatsResponse{UserID: userID, Total: len(reports)}
	for i := range reports {
		switch reports[i].Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusApproved:
			stats.Approved++
		case models.StatusFixed:
			stats.Fixed++
		case models.StatusDeclined:
			stats.Declined++
		}
	}

	var balance models.Balance
	err := s.db.Where("user_id = ?", userID).First(&balance).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load balance: %w", err)
	}
	stats.Balance = balance.Amount

	return stats, nil
}
