package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"referral-bot/internal/models"
)

func TestRegisterReferral(t *testing.T) {
	l, db := newTestLedger(t)
	ctx := context.Background()
	camp := seedCampaign(t, db, nil)
	seedUserWithCode(t, db, 100, "CR-AAAA-BBBB")

	referral, err := l.RegisterReferral(ctx, camp.ID, 200, "cr-aaaa-bbbb")
	require.NoError(t, err)
	assert.Equal(t, int64(100), referral.ReferrerID)
	assert.Equal(t, int64(200), referral.RefereeID)
	assert.Equal(t, "CR-AAAA-BBBB", referral.CodeUsed)
	assert.Equal(t, models.ReferralStatusPending, referral.Status)
	assert.False(t, referral.Approved)
}

func TestRegisterReferralRejections(t *testing.T) {
	l, db := newTestLedger(t)
	ctx := context.Background()
	camp := seedCampaign(t, db, nil)
	seedUserWithCode(t, db, 100, "CR-AAAA-BBBB")
	seedUserWithCode(t, db, 101, "CR-CCCC-DDDD")

	_, err := l.RegisterReferral(ctx, camp.ID, 200, "CR-ZZZZ-ZZZZ")
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = l.RegisterReferral(ctx, camp.ID, 100, "CR-AAAA-BBBB")
	assert.ErrorIs(t, err, ErrSelfReferral)

	_, err = l.RegisterReferral(ctx, camp.ID, 200, "CR-AAAA-BBBB")
	require.NoError(t, err)

	// One referral per referee per campaign, whatever code comes next.
	_, err = l.RegisterReferral(ctx, camp.ID, 200, "CR-CCCC-DDDD")
	assert.ErrorIs(t, err, ErrAlreadyReferred)

	// 100 already refers 200, so 100 using 200's code is the mirror edge.
	// User 200 exists by now; just give it a code.
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", 200).Update("code", "CR-EEEE-FFFF").Error)
	_, err = l.RegisterReferral(ctx, camp.ID, 100, "CR-EEEE-FFFF")
	assert.ErrorIs(t, err, ErrReciprocalBlocked)
}

func TestRegisterReferralCampaignState(t *testing.T) {
	l, db := newTestLedger(t)
	ctx := context.Background()
	inactive := seedCampaign(t, db, func(c *models.Campaign) {
		c.Status = models.CampaignStatusInactive
	})
	seedUserWithCode(t, db, 100, "CR-AAAA-BBBB")

	_, err := l.RegisterReferral(ctx, inactive.ID, 200, "CR-AAAA-BBBB")
	assert.ErrorIs(t, err, ErrCampaignInactive)

	_, err = l.RegisterReferral(ctx, 9999, 200, "CR-AAAA-BBBB")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApproveReferralExactlyOnce(t *testing.T) {
	l, db := newTestLedger(t)
	ctx := context.Background()
	camp := seedCampaign(t, db, nil)
	seedUserWithCode(t, db, 100, "CR-AAAA-BBBB")

	referral, err := l.RegisterReferral(ctx, camp.ID, 200, "CR-AAAA-BBBB")
	require.NoError(t, err)

	require.NoError(t, l.ApproveReferral(ctx, referral.ID, 5))

	points, err := l.UserPoints(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(5), points)

	var stored models.Referral
	require.NoError(t, db.First(&stored, referral.ID).Error)
	assert.True(t, stored.Approved)
	assert.Equal(t, models.ReferralStatusApproved, stored.Status)
	assert.Equal(t, int64(5), stored.PointsAwarded)

	// Second approval must not double-award.
	err = l.ApproveReferral(ctx, referral.ID, 5)
	assert.ErrorIs(t, err, ErrAlreadyApproved)

	points, err = l.UserPoints(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(5), points)

	var historyCount int64
	require.NoError(t, db.Model(&models.PointsHistory{}).Where("user_id = ?", 100).Count(&historyCount).Error)
	assert.Equal(t, int64(1), historyCount)
}

func TestApproveReferralValidation(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	assert.ErrorIs(t, l.ApproveReferral(ctx, 1, -1), ErrInvalidPoints)
	assert.ErrorIs(t, l.ApproveReferral(ctx, 1, maxPointsPerApproval+1), ErrInvalidPoints)
	assert.ErrorIs(t, l.ApproveReferral(ctx, 424242, 1), ErrNotFound)
}

func TestRejectReferral(t *testing.T) {
	l, db := newTestLedger(t)
	ctx := context.Background()
	camp := seedCampaign(t, db, nil)
	seedUserWithCode(t, db, 100, "CR-AAAA-BBBB")

	referral, err := l.RegisterReferral(ctx, camp.ID, 200, "CR-AAAA-BBBB")
	require.NoError(t, err)

	require.NoError(t, l.RejectReferral(ctx, referral.ID))
	var stored models.Referral
	require.NoError(t, db.First(&stored, referral.ID).Error)
	assert.Equal(t, models.ReferralStatusRejected, stored.Status)

	// Approved referrals are immutable.
	second, err := l.RegisterReferral(ctx, camp.ID, 300, "CR-AAAA-BBBB")
	require.NoError(t, err)
	require.NoError(t, l.ApproveReferral(ctx, second.ID, 1))
	assert.ErrorIs(t, l.RejectReferral(ctx, second.ID), ErrAlreadyApproved)

	assert.ErrorIs(t, l.RejectReferral(ctx, 424242), ErrNotFound)
}

func TestApproveReferralAfterRejectIsBlocked(t *testing.T) {
	l, db := newTestLedger(t)
	ctx := context.Background()
	camp := seedCampaign(t, db, nil)
	seedUserWithCode(t, db, 100, "CR-AAAA-BBBB")

	referral, err := l.RegisterReferral(ctx, camp.ID, 200, "CR-AAAA-BBBB")
	require.NoError(t, err)
	require.NoError(t, l.RejectReferral(ctx, referral.ID))

	// Rejected referrals are terminal: no late approval, no points.
	err = l.ApproveReferral(ctx, referral.ID, 10)
	assert.ErrorIs(t, err, ErrAlreadyRejected)

	var stored models.Referral
	require.NoError(t, db.First(&stored, referral.ID).Error)
	assert.Equal(t, models.ReferralStatusRejected, stored.Status)
	assert.False(t, stored.Approved)

	points, err := l.UserPoints(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), points)

	// Re-rejecting reports the rejected state, not approval.
	assert.ErrorIs(t, l.RejectReferral(ctx, referral.ID), ErrAlreadyRejected)
}

type staticChecker struct {
	member bool
	err    error
}

func (c staticChecker) IsMember(ctx context.Context, groupChatID, userID int64) (bool, error) {
	return c.member, c.err
}

func TestRegisterReferralWithMembershipApproves(t *testing.T) {
	l, db := newTestLedger(t)
	ctx := context.Background()
	camp := seedCampaign(t, db, func(c *models.Campaign) {
		c.GroupChatID = -100123
		c.RewardValue = 2
	})
	seedUserWithCode(t, db, 100, "CR-AAAA-BBBB")

	referral, approved, err := l.RegisterReferralWithMembership(ctx, camp.ID, 200, "CR-AAAA-BBBB", staticChecker{member: true})
	require.NoError(t, err)
	assert.True(t, approved)
	assert.True(t, referral.Approved)

	// Referrer awarded through the approval path, referee gets the bonus.
	referrerPoints, err := l.UserPoints(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(2), referrerPoints)

	refereePoints, err := l.UserPoints(ctx, 200)
	require.NoError(t, err)
	assert.Equal(t, int64(2), refereePoints)
}

func TestRegisterReferralWithMembershipLeavesPending(t *testing.T) {
	l, db := newTestLedger(t)
	ctx := context.Background()
	camp := seedCampaign(t, db, func(c *models.Campaign) {
		c.GroupChatID = -100123
	})
	seedUserWithCode(t, db, 100, "CR-AAAA-BBBB")

	// Not a member: stays pending.
	referral, approved, err := l.RegisterReferralWithMembership(ctx, camp.ID, 200, "CR-AAAA-BBBB", staticChecker{member: false})
	require.NoError(t, err)
	assert.False(t, approved)
	assert.False(t, referral.Approved)

	// Lookup failure: stays pending instead of failing the registration.
	referral, approved, err = l.RegisterReferralWithMembership(ctx, camp.ID, 300, "CR-AAAA-BBBB", staticChecker{err: errors.New("api down")})
	require.NoError(t, err)
	assert.False(t, approved)
	assert.False(t, referral.Approved)
}

func TestRegisterReferralWithMembershipNoGroup(t *testing.T) {
	l, db := newTestLedger(t)
	ctx := context.Background()
	camp := seedCampaign(t, db, nil)
	seedUserWithCode(t, db, 100, "CR-AAAA-BBBB")

	_, approved, err := l.RegisterReferralWithMembership(ctx, camp.ID, 200, "CR-AAAA-BBBB", staticChecker{member: true})
	require.NoError(t, err)
	assert.False(t, approved)
}
