package export

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"referral-bot/internal/models"
)

func TestWriteUsers(t *testing.T) {
	dir := t.TempDir()
	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "export.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	phone := "+50688887777"
	require.NoError(t, db.Create(&models.User{ID: 1, Code: "CR-AAAA-BBBB", Phone: &phone, CountryCode: "CR", TotalPoints: 5}).Error)
	require.NoError(t, db.Create(&models.User{ID: 2, Code: "CR-CCCC-DDDD"}).Error)

	log := logrus.New()
	log.SetOutput(io.Discard)
	exporter := NewExporter(db, log, filepath.Join(dir, "out"))

	path, err := exporter.WriteUsers(context.Background())
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"user_id", "phone", "code", "country_code", "total_points", "created_at"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "+50688887777", rows[1][1])
	assert.Equal(t, "CR-AAAA-BBBB", rows[1][2])
	assert.Equal(t, "5", rows[1][4])
	assert.Equal(t, "2", rows[2][0])
	assert.Empty(t, rows[2][1])
}
