package ledger

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"referral-bot/internal/models"
)

// maxPointsPerApproval is a sanity bound against fat-fingered admin input.
const maxPointsPerApproval = 1_000_000

// MembershipChecker is the optional external collaborator for the
// immediate-approval path. Implemented by the transport adapter.
type MembershipChecker interface {
	IsMember(ctx context.Context, groupChatID int64, userID int64) (bool, error)
}

// RegisterReferral validates and records a referral edge. The ordered checks
// give precise rejection reasons; the unique index on (campaign_id,
// referee_id) at insert time is the sole authoritative guard against two
// concurrent submissions for the same referee.
func (l *Ledger) RegisterReferral(ctx context.Context, campaignID, refereeID int64, rawCode string) (*models.Referral, error) {
	code := NormalizeCode(rawCode)

	referrerID, err := l.FindUserByCode(ctx, code)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, err
	}

	if referrerID == refereeID {
		return nil, ErrSelfReferral
	}

	exists, err := l.referralExists(ctx, campaignID, refereeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReferred
	}

	// Mirror edge: referee already referred the referrer in this campaign.
	mirror, err := l.mirrorExists(ctx, campaignID, refereeID, referrerID)
	if err != nil {
		return nil, err
	}
	if mirror {
		return nil, ErrReciprocalBlocked
	}

	var camp models.Campaign
	err = l.db.WithContext(ctx).First(&camp, campaignID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		l.log.WithError(err).WithField("campaign_id", campaignID).Error("failed to load campaign")
		return nil, err
	}
	if !camp.IsActive() {
		return nil, ErrCampaignInactive
	}

	referral := models.Referral{
		CampaignID: campaignID,
		RefereeID:  refereeID,
		ReferrerID: referrerID,
		CodeUsed:   code,
		Status:     models.ReferralStatusPending,
	}
	var rowsAffected int64
	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(tx, refereeID); err != nil {
			return err
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "campaign_id"}, {Name: "referee_id"}},
			DoNothing: true,
		}).Create(&referral)
		rowsAffected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		l.log.WithError(err).WithFields(logrus.Fields{
			"campaign_id": campaignID,
			"referrer_id": referrerID,
			"referee_id":  refereeID,
		}).Error("failed to insert referral")
		return nil, err
	}
	if rowsAffected == 0 {
		// A concurrent insert won the race between the pre-check and the
		// write; report it exactly like the synchronous duplicate.
		return nil, ErrAlreadyReferred
	}

	l.log.WithFields(logrus.Fields{
		"campaign_id": campaignID,
		"referrer_id": referrerID,
		"referee_id":  refereeID,
		"referral_id": referral.ID,
	}).Info("referral registered")
	return &referral, nil
}

// RegisterReferralWithMembership registers a referral and, when the campaign
// is gated on a group and the referee is confirmed a member, approves it
// synchronously: the referrer is awarded through the exactly-once approval
// path and the referee receives the campaign reward as a joining bonus. The
// returned flag reports whether the referral ended up approved.
func (l *Ledger) RegisterReferralWithMembership(ctx context.Context, campaignID, refereeID int64, rawCode string, checker MembershipChecker) (*models.Referral, bool, error) {
	referral, err := l.RegisterReferral(ctx, campaignID, refereeID, rawCode)
	if err != nil {
		return nil, false, err
	}

	var camp models.Campaign
	if err := l.db.WithContext(ctx).First(&camp, campaignID).Error; err != nil {
		return referral, false, err
	}
	if camp.GroupChatID == 0 || checker == nil {
		return referral, false, nil
	}

	member, err := checker.IsMember(ctx, camp.GroupChatID, refereeID)
	if err != nil {
		// Membership lookup failures leave the referral pending for manual
		// approval rather than losing it.
		l.log.WithError(err).WithField("referral_id", referral.ID).Warn("membership check failed, referral left pending")
		return referral, false, nil
	}
	if !member {
		return referral, false, nil
	}

	if err := l.ApproveReferral(ctx, referral.ID, camp.RewardValue); err != nil {
		return referral, false, err
	}
	if err := l.AddPoints(ctx, refereeID, &referral.ID, camp.RewardValue, models.PointsReasonJoinedGroup); err != nil {
		return referral, false, err
	}
	referral.Status = models.ReferralStatusApproved
	referral.Approved = true
	referral.PointsAwarded = camp.RewardValue
	return referral, true, nil
}

// ApproveReferral flips a pending referral to APPROVED and awards points to
// the referrer, all-or-nothing. The conditional update restricted to
// unapproved PENDING rows is the concurrency and immutability guard: only
// one caller observes RowsAffected == 1, and REJECTED rows stay rejected.
func (l *Ledger) ApproveReferral(ctx context.Context, referralID, points int64) error {
	if points < 0 || points > maxPointsPerApproval {
		return ErrInvalidPoints
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var referral models.Referral
		err := tx.First(&referral, referralID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		res := tx.Model(&models.Referral{}).
			Where("id = ? AND approved = ? AND status = ?", referralID, false, models.ReferralStatusPending).
			Updates(map[string]interface{}{
				"approved":       true,
				"status":         models.ReferralStatusApproved,
				"points_awarded": points,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if referral.Status == models.ReferralStatusRejected {
				return ErrAlreadyRejected
			}
			return ErrAlreadyApproved
		}

		if err := ensureUser(tx, referral.ReferrerID); err != nil {
			return err
		}
		return addPoints(tx, referral.ReferrerID, &referral.ID, points, models.PointsReasonApprovedReferral)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyApproved) || errors.Is(err, ErrAlreadyRejected) {
			return err
		}
		l.log.WithError(err).WithFields(logrus.Fields{
			"referral_id": referralID,
			"points":      points,
		}).Error("failed to approve referral")
		return err
	}

	l.log.WithFields(logrus.Fields{
		"referral_id": referralID,
		"points":      points,
	}).Info("referral approved")
	return nil
}

// RejectReferral marks a pending referral REJECTED. Approved and rejected
// referrals are immutable.
func (l *Ledger) RejectReferral(ctx context.Context, referralID int64) error {
	res := l.db.WithContext(ctx).Model(&models.Referral{}).
		Where("id = ? AND approved = ? AND status = ?", referralID, false, models.ReferralStatusPending).
		Update("status", models.ReferralStatusRejected)
	if res.Error != nil {
		l.log.WithError(res.Error).WithField("referral_id", referralID).Error("failed to reject referral")
		return res.Error
	}
	if res.RowsAffected == 0 {
		var referral models.Referral
		err := l.db.WithContext(ctx).First(&referral, referralID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if referral.Status == models.ReferralStatusRejected {
			return ErrAlreadyRejected
		}
		return ErrAlreadyApproved
	}
	return nil
}

func (l *Ledger) referralExists(ctx context.Context, campaignID, refereeID int64) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(&models.Referral{}).
		Where("campaign_id = ? AND referee_id = ?", campaignID, refereeID).
		Count(&count).Error
	if err != nil {
		l.log.WithError(err).Error("failed to check existing referral")
		return false, err
	}
	return count > 0, nil
}

func (l *Ledger) mirrorExists(ctx context.Context, campaignID, refereeID, referrerID int64) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(&models.Referral{}).
		Where("campaign_id = ? AND referrer_id = ? AND referee_id = ?", campaignID, refereeID, referrerID).
		Count(&count).Error
	if err != nil {
		l.log.WithError(err).Error("failed to check reciprocal referral")
		return false, err
	}
	return count > 0, nil
}
