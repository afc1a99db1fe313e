package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"referral-bot/internal/config"
)

func ConnectSQLite(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	// sqlite serializes writers; keep the pool small.
	sqlDB.SetMaxOpenConns(1)

	log.WithField("path", cfg.SQLitePath).Info("Connected to SQLite")
	return db, nil
}
