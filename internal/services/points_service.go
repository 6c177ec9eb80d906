package services

import (
	"errors"
	"fmt"

	"github.com/betatools/tracker-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalidAmount = errors.New("amount must be positive")

// PointsService is the points ledger. Balances are keyed rows updated
// atomically per user; a missing row reads as zero and resetting deletes
// the row. Subtraction floors at zero and never errors on over-subtraction.
type PointsService struct {
	db *gorm.DB
}

func NewPointsService(db *gorm.DB) *PointsService {
	return &PointsService{db: db}
}

func (s *PointsService) GetBalance(userID uuid.UUID) (int64, error) {
	var balance models.Balance
	err := s.db.Where("user_id = ?", userID).First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load balance: %w", err)
	}
	return balance.Amount, nil
}

func (s *PointsService) Add(userID uuid.UUID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var newAmount int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		newAmount, txErr = creditTx(tx, userID, amount)
		return txErr
	})
	if err != nil {
		return 0, err
	}
	return newAmount, nil
}

func (s *PointsService) Subtract(userID uuid.UUID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var newAmount int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var balance models.Balance
		if err := tx.Where("user_id = ?", userID).First(&balance).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Absent means zero; subtracting from zero stays zero.
				newAmount = 0
				return nil
			}
			return fmt.Errorf("failed to load balance: %w", err)
		}

		newAmount = balance.Amount - amount
		if newAmount < 0 {
			newAmount = 0
		}
		return tx.Model(&models.Balance{}).
			Where("user_id = ?", userID).
			Update("amount", newAmount).Error
	})
	if err != nil {
		return 0, err
	}
	return newAmount, nil
}

// Reset removes the balance record entirely. Deleting an absent record is
// not an error since absence already reads as zero.
func (s *PointsService) Reset(userID uuid.UUID) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.Balance{}).Error
}

// creditTx upserts a credit inside the caller's transaction so callers can
// tie it to other mutations (report approval, in particular) as a single
// unit of work.
func creditTx(tx *gorm.DB, userID uuid.UUID, amount int64) (int64, error) {
	var balance models.Balance
	err := tx.Where("user_id = ?", userID).First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		balance = models.Balance{UserID: userID, Amount: amount}
		if err := tx.Create(&balance).Error; err != nil {
			return 0, fmt.Errorf("failed to create balance: %w", err)
		}
		return balance.Amount, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load balance: %w", err)
	}

	newAmount := balance.Amount + amount
	if err := tx.Model(&models.Balance{}).
		Where("user_id = ?", userID).
		Update("amount", newAmount).Error; err != nil {
		return 0, fmt.Errorf("failed to update balance: %w", err)
	}
	return newAmount, nil
}

// debitExactTx subtracts exactly amount, failing if the balance would go
// negative. The conditional update keeps two racing debits from both
// passing a stale balance check.
func debitExactTx(tx *gorm.DB, userID uuid.UUID, amount int64) error {
	result := tx.Model(&models.Balance{}).
		Where("user_id = ? AND amount >= ?", userID, amount).
		Update("amount", gorm.Expr("amount - ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to debit balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientPoints
	}
	return nil
}
