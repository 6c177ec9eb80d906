package services

import (
	"testing"
	"time"

	"github.com/betatools/tracker-backend/internal/config"
	"github.com/betatools/tracker-backend/internal/dto"
	"github.com/betatools/tracker-backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := testDB(t)
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
	}
	return NewAuthService(db, cfg), db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)

	resp, err := svc.Register(&dto.RegisterRequest{
		Email: "tester@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, models.RoleTester, resp.User.Role)

	login, err := svc.Login(&dto.LoginRequest{
		Email: "tester@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(&dto.RegisterRequest{
		Email: "tester@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, err = svc.Register(&dto.RegisterRequest{
		Email: "tester@example.com", Password: "hunter2hunter2",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(&dto.RegisterRequest{
		Email: "tester@example.com", Password: "short",
	})
	require.Error(t, err)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(&dto.RegisterRequest{
		Email: "tester@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, err = svc.Login(&dto.LoginRequest{
		Email: "tester@example.com", Password: "wrong-password",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _ := newAuthService(t)

	resp, err := svc.Register(&dto.RegisterRequest{
		Email: "tester@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	require.NotEqual(t, resp.RefreshToken, refreshed.RefreshToken)

	// The old token was revoked by the rotation.
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _ := newAuthService(t)

	resp, err := svc.Register(&dto.RegisterRequest{
		Email: "tester@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: resp.RefreshToken}))

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestListTestersExcludesAdmins(t *testing.T) {
	svc, db := newAuthService(t)

	first, err := svc.Register(&dto.RegisterRequest{
		Email: "first@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	second, err := svc.Register(&dto.RegisterRequest{
		Email: "second@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	promoted, err := svc.Register(&dto.RegisterRequest{
		Email: "boss@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", promoted.User.ID).
		Update("role", models.RoleAdmin).Error)

	roster, err := svc.ListTesters()
	require.NoError(t, err)
	require.Equal(t, 2, roster.Total)
	require.Equal(t, first.User.ID, roster.Testers[0].ID)
	require.Equal(t, second.User.ID, roster.Testers[1].ID)
	for _, tester := range roster.Testers {
		require.Equal(t, models.RoleTester, tester.Role)
	}
}

func TestDeleteAccountKeepsReports(t *testing.T) {
	svc, db := newAuthService(t)
	notifier := &fakeNotifier{}
	reports := NewReportService(db, notifier)
	points := NewPointsService(db)

	resp, err := svc.Register(&dto.RegisterRequest{
		Email: "tester@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	userID := resp.User.ID

	report := submitReport(t, reports, userID, nil)
	_, err = points.Add(userID, 5)
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeleteAccount(userID, "wrong-password"), ErrInvalidCredentials)
	require.NoError(t, svc.DeleteAccount(userID, "hunter2hunter2"))

	var user models.User
	err = db.First(&user, "id = ?", userID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// The balance is gone but the report history survives.
	balance, err := points.GetBalance(userID)
	require.NoError(t, err)
	require.EqualValues(t, 0, balance)

	var stored models.Report
	require.NoError(t, db.First(&stored, report.ID).Error)
	require.Equal(t, userID, stored.ReporterID)
}
