package ledger

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"referral-bot/internal/models"
)

// Ledger owns the referral/points/balance bookkeeping and the withdrawal
// state machine. Every read-then-write path relies on a store constraint
// (unique index or conditional update) as the authoritative race guard, not
// on its pre-checks.
type Ledger struct {
	db  *gorm.DB
	log *logrus.Logger
}

func New(db *gorm.DB, log *logrus.Logger) *Ledger {
	return &Ledger{db: db, log: log}
}

// ensureUser creates a bare user row if the id is unknown. Referees and
// referrers may interact with the ledger before ever sharing a phone.
func ensureUser(tx *gorm.DB, userID int64) error {
	return tx.FirstOrCreate(&models.User{}, models.User{ID: userID}).Error
}

// addPoints appends a points_history row and bumps the cached total in one
// atomic increment. Callers run it inside a transaction.
func addPoints(tx *gorm.DB, userID int64, referralID *int64, points int64, reason string) error {
	entry := models.PointsHistory{
		UserID:     userID,
		ReferralID: referralID,
		Points:     points,
		Reason:     reason,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}
	return tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("total_points", gorm.Expr("total_points + ?", points)).Error
}

// UserPoints returns the cached point total for a user. Unknown users hold
// zero points.
func (l *Ledger) UserPoints(ctx context.Context, userID int64) (int64, error) {
	var user models.User
	err := l.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		l.log.WithError(err).WithField("user_id", userID).Error("failed to load user points")
		return 0, err
	}
	return user.TotalPoints, nil
}

// AddPoints records a signed point delta outside the approval flow (e.g. the
// referee bonus on the membership-gated path).
func (l *Ledger) AddPoints(ctx context.Context, userID int64, referralID *int64, points int64, reason string) error {
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(tx, userID); err != nil {
			return err
		}
		return addPoints(tx, userID, referralID, points, reason)
	})
	if err != nil {
		l.log.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"points":  points,
			"reason":  reason,
		}).Error("failed to add points")
	}
	return err
}
