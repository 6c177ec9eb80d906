package services

import (
	"sync"
	"testing"

	"github.com/betatools/tracker-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A uniquely named shared-cache database keeps the schema visible
	// across pooled connections while isolating tests from each other.
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Report{},
		&models.ReportArchive{},
		&models.Balance{},
		&models.ShopItem{},
		&models.Purchase{},
	))
	return db
}

// fakeNotifier records deliveries so tests can assert on notification
// counts without any network.
type fakeNotifier struct {
	mu        sync.Mutex
	created   []uint
	approved  []uint
	declined  []uint
	fixed     []uint
	purchases []uuid.UUID
}

func (f *fakeNotifier) ReportCreated(r *models.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, r.ID)
	return nil
}

func (f *fakeNotifier) ReportApproved(r *models.Report, amount int64, recipient, actor uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.approved = append(f.approved, r.ID)
	return nil
}

func (f *fakeNotifier) ReportDeclined(r *models.Report, actor uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.declined = append(f.declined, r.ID)
	return nil
}

func (f *fakeNotifier) ReportFixed(r *models.Report, actor uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fixed = append(f.fixed, r.ID)
	return nil
}

func (f *fakeNotifier) PurchaseCompleted(p *models.Purchase) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purchases = append(f.purchases, p.ID)
	return nil
}
