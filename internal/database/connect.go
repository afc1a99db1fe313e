package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"referral-bot/internal/config"
	"referral-bot/internal/models"
)

// Connect opens the configured backend and runs migrations. All ledger code
// is written against the returned *gorm.DB only, never a specific dialect.
func Connect(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.StorageBackend {
	case "postgres":
		db, err = ConnectPostgres(cfg, log)
	case "sqlite":
		db, err = ConnectSQLite(cfg, log)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	if err != nil {
		return nil, err
	}

	if err := Migrate(db, cfg); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates the schema and seeds the default campaign from env config.
func Migrate(db *gorm.DB, cfg *config.Config) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Campaign{},
		&models.Referral{},
		&models.PointsHistory{},
		&models.PayoutMethod{},
		&models.Payment{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	seed := models.Campaign{
		ID:               1,
		Name:             "Default Referral Campaign",
		Status:           models.CampaignStatusActive,
		CommissionCents:  cfg.CommissionPerApprovedCents,
		MinWithdrawCents: cfg.MinWithdrawCents,
		Currency:         cfg.Currency,
		RewardType:       models.RewardTypePoints,
		RewardValue:      cfg.PointsPerReferral,
		GroupChatID:      cfg.GroupChatID,
	}
	if err := db.FirstOrCreate(&seed, models.Campaign{ID: 1}).Error; err != nil {
		return fmt.Errorf("failed to seed default campaign: %w", err)
	}
	return nil
}
