package campaign

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"referral-bot/internal/models"
)

func newTestResolver(t *testing.T) (*Resolver, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "campaigns.db")), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Campaign{}))

	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewResolver(db, log), db
}

func TestActiveCampaignForUserPicksNewest(t *testing.T) {
	r, db := newTestResolver(t)
	ctx := context.Background()

	old := models.Campaign{Name: "Old", Status: models.CampaignStatusActive, CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, db.Create(&old).Error)
	newer := models.Campaign{Name: "New", Status: models.CampaignStatusActive, CreatedAt: time.Now()}
	require.NoError(t, db.Create(&newer).Error)
	inactive := models.Campaign{Name: "Off", Status: models.CampaignStatusInactive, CreatedAt: time.Now().Add(time.Hour)}
	require.NoError(t, db.Create(&inactive).Error)

	camp, err := r.ActiveCampaignForUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, camp.ID)
}

func TestActiveCampaignForUserClientScoping(t *testing.T) {
	r, db := newTestResolver(t)
	ctx := context.Background()

	clientID := int64(7)
	require.NoError(t, db.Create(&models.User{ID: 1, ClientID: &clientID}).Error)
	require.NoError(t, db.Create(&models.User{ID: 2}).Error)

	global := models.Campaign{Name: "Global", Status: models.CampaignStatusActive, CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, db.Create(&global).Error)
	scoped := models.Campaign{Name: "Scoped", Status: models.CampaignStatusActive, ClientID: &clientID, CreatedAt: time.Now()}
	require.NoError(t, db.Create(&scoped).Error)

	// The client's user sees the scoped campaign, everyone else the global.
	camp, err := r.ActiveCampaignForUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, scoped.ID, camp.ID)

	camp, err = r.ActiveCampaignForUser(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, global.ID, camp.ID)
}

func TestActiveCampaignForUserNone(t *testing.T) {
	r, db := newTestResolver(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Campaign{Name: "Off", Status: models.CampaignStatusInactive}).Error)

	_, err := r.ActiveCampaignForUser(ctx, 42)
	assert.ErrorIs(t, err, ErrNoActiveCampaign)
}
