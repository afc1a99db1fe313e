package campaign

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"referral-bot/internal/models"
)

// ErrNoActiveCampaign reports that no ACTIVE campaign applies to the user.
var ErrNoActiveCampaign = errors.New("no active campaign")

// Resolver picks the campaign whose commission and withdrawal parameters
// apply to a user. Campaign management itself lives outside the ledger; the
// ledger only reads the result.
type Resolver struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewResolver(db *gorm.DB, log *logrus.Logger) *Resolver {
	return &Resolver{db: db, log: log}
}

// ActiveCampaignForUser returns the most recently created ACTIVE campaign
// visible to the user: campaigns of the user's client plus global ones
// (no client). Most-recently-created wins if several are active.
func (r *Resolver) ActiveCampaignForUser(ctx context.Context, userID int64) (*models.Campaign, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, userID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		r.log.WithError(err).WithField("user_id", userID).Error("failed to load user for campaign lookup")
		return nil, err
	}

	query := r.db.WithContext(ctx).Where("status = ?", models.CampaignStatusActive)
	if user.ClientID != nil {
		query = query.Where("client_id IS NULL OR client_id = ?", *user.ClientID)
	} else {
		query = query.Where("client_id IS NULL")
	}

	var camp models.Campaign
	err = query.Order("created_at DESC, id DESC").First(&camp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveCampaign
	}
	if err != nil {
		r.log.WithError(err).WithField("user_id", userID).Error("failed to resolve active campaign")
		return nil, err
	}
	return &camp, nil
}
