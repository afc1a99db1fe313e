package ledger

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"referral-bot/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "ledger.db")), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Campaign{},
		&models.Referral{},
		&models.PointsHistory{},
		&models.PayoutMethod{},
		&models.Payment{},
	))
	return db
}

func newTestLedger(t *testing.T) (*Ledger, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(db, log), db
}

func seedCampaign(t *testing.T, db *gorm.DB, mutate func(*models.Campaign)) *models.Campaign {
	t.Helper()
	camp := models.Campaign{
		Name:             "Test Campaign",
		Status:           models.CampaignStatusActive,
		CommissionCents:  100,
		MinWithdrawCents: 200,
		Currency:         "USD",
		RewardType:       models.RewardTypePoints,
		RewardValue:      1,
	}
	if mutate != nil {
		mutate(&camp)
	}
	require.NoError(t, db.Create(&camp).Error)
	return &camp
}

func seedUserWithCode(t *testing.T, db *gorm.DB, userID int64, code string) {
	t.Helper()
	require.NoError(t, db.Create(&models.User{ID: userID, Code: code}).Error)
}
