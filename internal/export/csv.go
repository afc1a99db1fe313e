package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"referral-bot/internal/models"
)

// Exporter writes admin CSV dumps of the user registry.
type Exporter struct {
	db  *gorm.DB
	log *logrus.Logger
	dir string
}

func NewExporter(db *gorm.DB, log *logrus.Logger, dir string) *Exporter {
	return &Exporter{db: db, log: log, dir: dir}
}

// WriteUsers dumps all users to a timestamped CSV file and returns its path.
func (e *Exporter) WriteUsers(ctx context.Context) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	var users []models.User
	if err := e.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		e.log.WithError(err).Error("failed to load users for export")
		return "", err
	}

	name := filepath.Join(e.dir, fmt.Sprintf("users-%s.csv", time.Now().UTC().Format("20060102-150405")))
	f, err := os.Create(name)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"user_id", "phone", "code", "country_code", "total_points", "created_at"}); err != nil {
		return "", err
	}
	for _, u := range users {
		phone := ""
		if u.Phone != nil {
			phone = *u.Phone
		}
		record := []string{
			strconv.FormatInt(u.ID, 10),
			phone,
			u.Code,
			u.CountryCode,
			strconv.FormatInt(u.TotalPoints, 10),
			u.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	e.log.WithFields(logrus.Fields{"file": name, "rows": len(users)}).Info("users exported")
	return name, nil
}
