package services

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/betatools/tracker-backend/internal/dto"
	"github.com/betatools/tracker-backend/internal/models"
	"github.com/betatools/tracker-backend/internal/notify"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrItemNotFound       = errors.New("shop item not found")
	ErrPurchaseNotFound   = errors.New("purchase not found")
	ErrPurchaseClosed     = errors.New("purchase is no longer open")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrInvalidIGN         = errors.New("invalid in-game name")
)

var ignPattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,32}$`)

const shopItemsPerPage = 10

// ShopService runs the two-step purchase flow: Begin opens a pending
// purchase after a balance precheck, Confirm re-checks and debits inside
// one transaction. Nothing is charged until Confirm succeeds.
type ShopService struct {
	db       *gorm.DB
	window   time.Duration
	notifier notify.Notifier
}

func NewShopService(db *gorm.DB, window time.Duration, notifier notify.Notifier) *ShopService {
	return &ShopService{db: db, window: window, notifier: notifier}
}

func (s *ShopService) Browse(page int) (*dto.ShopListResponse, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := s.db.Model(&models.ShopItem{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count shop items: %w", err)
	}

	var items []models.ShopItem
	err := s.db.Order("id ASC").
		Offset((page - 1) * shopItemsPerPage).
		Limit(shopItemsPerPage).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list shop items: %w", err)
	}

	return &dto.ShopListResponse{
		Items:   items,
		Total:   int(total),
		Page:    page,
		PerPage: shopItemsPerPage,
	}, nil
}

// Begin opens a pending purchase for the item. A balance shortfall here is
// terminal: no purchase row is created and the caller gets
// ErrInsufficientPoints immediately.
func (s *ShopService) Begin(userID uuid.UUID, itemID uint) (*models.Purchase, error) {
	var item models.ShopItem
	err := s.db.First(&item, itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load shop item: %w", err)
	}

	var balance models.Balance
	err = s.db.Where("user_id = ?", userID).First(&balance).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load balance: %w", err)
	}
	if balance.Amount < item.Price {
		return nil, ErrInsufficientPoints
	}

	purchase := &models.Purchase{
		ID:        uuid.New(),
		UserID:    userID,
		ItemID:    item.ID,
		ItemName:  item.Name,
		Price:     item.Price,
		Status:    models.PurchasePending,
		ExpiresAt: time.Now().UTC().Add(s.window),
	}
	if err := s.db.Create(purchase).Error; err != nil {
		return nil, fmt.Errorf("failed to create purchase: %w", err)
	}
	return purchase, nil
}

// Confirm debits the (re-checked) balance and completes the purchase. An
// expired pending purchase is flipped to expired and reported closed; a
// shortfall found here cancels the purchase rather than charging.
func (s *ShopService) Confirm(userID, purchaseID uuid.UUID, ign string) (*models.Purchase, error) {
	if !ignPattern.MatchString(ign) {
		return nil, ErrInvalidIGN
	}

	var purchase models.Purchase
	// bizErr carries failures that must still commit a status flip, so
	// returning them from inside the transaction would roll that flip back.
	var bizErr error
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", purchaseID, userID).
			First(&purchase).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPurchaseNotFound
			}
			return fmt.Errorf("failed to load purchase: %w", err)
		}

		if purchase.Status != models.PurchasePending {
			return ErrPurchaseClosed
		}
		if time.Now().UTC().After(purchase.ExpiresAt) {
			bizErr = ErrPurchaseClosed
			return s.closeTx(tx, &purchase, models.PurchaseExpired)
		}

		if err := debitExactTx(tx, userID, purchase.Price); err != nil {
			if errors.Is(err, ErrInsufficientPoints) {
				// The balance moved between Begin and Confirm. Close the
				// purchase instead of charging what is not there.
				bizErr = err
				return s.closeTx(tx, &purchase, models.PurchaseCancelled)
			}
			return err
		}

		result := tx.Model(&models.Purchase{}).
			Where("id = ? AND status = ?", purchase.ID, models.PurchasePending).
			Updates(map[string]any{"status": models.PurchaseCompleted, "ign": ign})
		if result.Error != nil {
			return fmt.Errorf("failed to complete purchase: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrPurchaseClosed
		}
		purchase.Status = models.PurchaseCompleted
		purchase.IGN = ign
		return nil
	})
	if err != nil {
		return nil, err
	}
	if bizErr != nil {
		return nil, bizErr
	}

	if err := s.notifier.PurchaseCompleted(&purchase); err != nil {
		slog.Warn("purchase notification failed", "purchase_id", purchase.ID, "error", err)
	}
	return &purchase, nil
}

// Cancel closes a pending purchase without charging. Expired purchases are
// flipped to expired instead of cancelled.
func (s *ShopService) Cancel(userID, purchaseID uuid.UUID) (*models.Purchase, error) {
	var purchase models.Purchase
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", purchaseID, userID).
			First(&purchase).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPurchaseNotFound
			}
			return fmt.Errorf("failed to load purchase: %w", err)
		}

		if purchase.Status != models.PurchasePending {
			return ErrPurchaseClosed
		}

		status := models.PurchaseCancelled
		if time.Now().UTC().After(purchase.ExpiresAt) {
			status = models.PurchaseExpired
		}
		return s.closeTx(tx, &purchase, status)
	})
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (s *ShopService) closeTx(tx *gorm.DB, purchase *models.Purchase, status models.PurchaseStatus) error {
	result := tx.Model(&models.Purchase{}).
		Where("id = ? AND status = ?", purchase.ID, models.PurchasePending).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to close purchase: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPurchaseClosed
	}
	purchase.Status = status
	return nil
}
