package services

import (
	"testing"
	"time"

	"github.com/betatools/tracker-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newShopService(t *testing.T, window time.Duration) (*ShopService, *PointsService, *fakeNotifier, *gorm.DB) {
	t.Helper()
	db := testDB(t)
	notifier := &fakeNotifier{}
	return NewShopService(db, window, notifier), NewPointsService(db), notifier, db
}

func seedItem(t *testing.T, db *gorm.DB, name string, price int64) *models.ShopItem {
	t.Helper()
	item := &models.ShopItem{Name: name, Price: price, Description: "test item"}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestBrowsePagination(t *testing.T) {
	svc, _, _, db := newShopService(t, time.Minute)

	for i := 0; i < 12; i++ {
		seedItem(t, db, "Item", 5)
	}

	resp, err := svc.Browse(1)
	require.NoError(t, err)
	require.Equal(t, 12, resp.Total)
	require.Len(t, resp.Items, 10)

	resp, err = svc.Browse(2)
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
}

func TestBeginRejectsUnknownItem(t *testing.T) {
	svc, _, _, _ := newShopService(t, time.Minute)

	_, err := svc.Begin(uuid.New(), 42)
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestBeginRejectsInsufficientBalance(t *testing.T) {
	svc, points, _, db := newShopService(t, time.Minute)
	user := uuid.New()
	item := seedItem(t, db, "Rank Upgrade", 15)

	_, err := points.Add(user, 10)
	require.NoError(t, err)

	_, err = svc.Begin(user, item.ID)
	require.ErrorIs(t, err, ErrInsufficientPoints)

	// No purchase row is left behind and nothing was charged.
	var count int64
	require.NoError(t, db.Model(&models.Purchase{}).Count(&count).Error)
	require.EqualValues(t, 0, count)

	balance, err := points.GetBalance(user)
	require.NoError(t, err)
	require.EqualValues(t, 10, balance)
}

func TestConfirmDebitsAndCompletes(t *testing.T) {
	svc, points, notifier, db := newShopService(t, time.Minute)
	user := uuid.New()
	item := seedItem(t, db, "Rank Upgrade", 15)

	_, err := points.Add(user, 20)
	require.NoError(t, err)

	purchase, err := svc.Begin(user, item.ID)
	require.NoError(t, err)
	require.Equal(t, models.PurchasePending, purchase.Status)
	require.Equal(t, item.Name, purchase.ItemName)

	confirmed, err := svc.Confirm(user, purchase.ID, "Steve_42")
	require.NoError(t, err)
	require.Equal(t, models.PurchaseCompleted, confirmed.Status)
	require.Equal(t, "Steve_42", confirmed.IGN)

	balance, err := points.GetBalance(user)
	require.NoError(t, err)
	require.EqualValues(t, 5, balance)

	// Exactly one receipt was delivered.
	require.Len(t, notifier.purchases, 1)

	// Confirming again does not double charge.
	_, err = svc.Confirm(user, purchase.ID, "Steve_42")
	require.ErrorIs(t, err, ErrPurchaseClosed)
	balance, err = points.GetBalance(user)
	require.NoError(t, err)
	require.EqualValues(t, 5, balance)
	require.Len(t, notifier.purchases, 1)
}

func TestConfirmRequiresValidIGN(t *testing.T) {
	svc, points, _, db := newShopService(t, time.Minute)
	user := uuid.New()
	item := seedItem(t, db, "Kit", 5)

	_, err := points.Add(user, 10)
	require.NoError(t, err)

	purchase, err := svc.Begin(user, item.ID)
	require.NoError(t, err)

	_, err = svc.Confirm(user, purchase.ID, "")
	require.ErrorIs(t, err, ErrInvalidIGN)
	_, err = svc.Confirm(user, purchase.ID, "has spaces")
	require.ErrorIs(t, err, ErrInvalidIGN)

	// The purchase stays open for a corrected retry.
	confirmed, err := svc.Confirm(user, purchase.ID, "Alex")
	require.NoError(t, err)
	require.Equal(t, models.PurchaseCompleted, confirmed.Status)
}

func TestConfirmRechecksBalance(t *testing.T) {
	svc, points, notifier, db := newShopService(t, time.Minute)
	user := uuid.New()
	item := seedItem(t, db, "Rank Upgrade", 15)

	_, err := points.Add(user, 20)
	require.NoError(t, err)

	purchase, err := svc.Begin(user, item.ID)
	require.NoError(t, err)

	// The balance drops between Begin and Confirm.
	_, err = points.Subtract(user, 10)
	require.NoError(t, err)

	_, err = svc.Confirm(user, purchase.ID, "Steve")
	require.ErrorIs(t, err, ErrInsufficientPoints)

	// Nothing was charged and the purchase was closed, not completed.
	balance, err := points.GetBalance(user)
	require.NoError(t, err)
	require.EqualValues(t, 10, balance)

	var stored models.Purchase
	require.NoError(t, db.First(&stored, "id = ?", purchase.ID).Error)
	require.Equal(t, models.PurchaseCancelled, stored.Status)
	require.Empty(t, notifier.purchases)
}

func TestConfirmExpiredPurchase(t *testing.T) {
	svc, points, notifier, db := newShopService(t, -time.Second)
	user := uuid.New()
	item := seedItem(t, db, "Kit", 5)

	_, err := points.Add(user, 10)
	require.NoError(t, err)

	purchase, err := svc.Begin(user, item.ID)
	require.NoError(t, err)

	_, err = svc.Confirm(user, purchase.ID, "Steve")
	require.ErrorIs(t, err, ErrPurchaseClosed)

	var stored models.Purchase
	require.NoError(t, db.First(&stored, "id = ?", purchase.ID).Error)
	require.Equal(t, models.PurchaseExpired, stored.Status)

	balance, err := points.GetBalance(user)
	require.NoError(t, err)
	require.EqualValues(t, 10, balance)
	require.Empty(t, notifier.purchases)
}

func TestConfirmEnforcesOwnership(t *testing.T) {
	svc, points, _, db := newShopService(t, time.Minute)
	owner := uuid.New()
	item := seedItem(t, db, "Kit", 5)

	_, err := points.Add(owner, 10)
	require.NoError(t, err)

	purchase, err := svc.Begin(owner, item.ID)
	require.NoError(t, err)

	_, err = svc.Confirm(uuid.New(), purchase.ID, "Steve")
	require.ErrorIs(t, err, ErrPurchaseNotFound)
}

func TestCancelPendingPurchase(t *testing.T) {
	svc, points, _, db := newShopService(t, time.Minute)
	user := uuid.New()
	item := seedItem(t, db, "Kit", 5)

	_, err := points.Add(user, 10)
	require.NoError(t, err)

	purchase, err := svc.Begin(user, item.ID)
	require.NoError(t, err)

	cancelled, err := svc.Cancel(user, purchase.ID)
	require.NoError(t, err)
	require.Equal(t, models.PurchaseCancelled, cancelled.Status)

	balance, err := points.GetBalance(user)
	require.NoError(t, err)
	require.EqualValues(t, 10, balance)

	_, err = svc.Cancel(user, purchase.ID)
	require.ErrorIs(t, err, ErrPurchaseClosed)
}
