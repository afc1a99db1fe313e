package ledger

import (
	"context"

	"referral-bot/internal/models"
)

// Balances carries the minor-unit money figures derived from the referral
// and payment ledgers. All arithmetic stays in integers.
type Balances struct {
	ApprovedCount int64
	GrossCents    int64
	PaidCents     int64
	PendingCents  int64
}

// Available is what the user may still withdraw. Never negative.
func (b Balances) Available() int64 {
	available := b.GrossCents - b.PaidCents - b.PendingCents
	if available < 0 {
		return 0
	}
	return available
}

// ComputeBalances derives the money view for a user in a campaign: approved
// referrals times the campaign commission, minus settled and outstanding
// withdrawals. Only APPROVED referrals count toward gross.
func (l *Ledger) ComputeBalances(ctx context.Context, userID, campaignID, commissionCents int64) (Balances, error) {
	var b Balances

	err := l.db.WithContext(ctx).Model(&models.Referral{}).
		Where("referrer_id = ? AND campaign_id = ? AND status = ?", userID, campaignID, models.ReferralStatusApproved).
		Count(&b.ApprovedCount).Error
	if err != nil {
		l.log.WithError(err).WithField("user_id", userID).Error("failed to count approved referrals")
		return Balances{}, err
	}
	b.GrossCents = b.ApprovedCount * commissionCents

	b.PaidCents, err = l.sumPayments(ctx, userID, []string{models.PaymentStatusPaid})
	if err != nil {
		return Balances{}, err
	}
	b.PendingCents, err = l.sumPayments(ctx, userID, []string{models.PaymentStatusRequested, models.PaymentStatusApproved})
	if err != nil {
		return Balances{}, err
	}
	return b, nil
}

func (l *Ledger) sumPayments(ctx context.Context, userID int64, statuses []string) (int64, error) {
	var total int64
	err := l.db.WithContext(ctx).Model(&models.Payment{}).
		Where("user_id = ? AND status IN ?", userID, statuses).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error
	if err != nil {
		l.log.WithError(err).WithField("user_id", userID).Error("failed to sum payments")
		return 0, err
	}
	return total, nil
}
