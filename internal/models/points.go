package models

import (
	"time"
)

// PointsHistory is the append-only source of truth for point balances.
// users.total_points must always equal the sum of deltas per user.
type PointsHistory struct {
	ID         int64  `gorm:"primaryKey"`
	UserID     int64  `gorm:"not null;index"`
	ReferralID *int64 `gorm:"index"`
	Points     int64  `gorm:"not null"`
	Reason     string `gorm:"size:64"`
	CreatedAt  time.Time
}

func (PointsHistory) TableName() string {
	return "points_history"
}

const (
	PointsReasonApprovedReferral   = "approved_referral"
	PointsReasonJoinedGroup        = "joined_group"
	PointsReasonReferralSuccess    = "referral_success"
	PointsReasonWithdrawal         = "withdrawal"
	PointsReasonWithdrawalReverted = "withdrawal_reverted"
)
