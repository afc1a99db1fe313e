package models

import (
	"time"
)

const (
	ReferralStatusPending  = "PENDING"
	ReferralStatusApproved = "APPROVED"
	ReferralStatusRejected = "REJECTED"
)

// Referral is a directed edge referrer -> referee within one campaign. The
// composite unique index on (campaign_id, referee_id) is the authoritative
// guard against duplicate registration; the Approved flag is the guard for
// exactly-once point awarding.
type Referral struct {
	ID            int64  `gorm:"primaryKey"`
	CampaignID    int64  `gorm:"not null;uniqueIndex:idx_referrals_campaign_referee"`
	RefereeID     int64  `gorm:"not null;uniqueIndex:idx_referrals_campaign_referee"`
	ReferrerID    int64  `gorm:"not null;index"`
	CodeUsed      string `gorm:"size:32;not null"`
	Status        string `gorm:"size:16;not null;default:'PENDING'"`
	Approved      bool   `gorm:"not null;default:false"`
	PointsAwarded int64  `gorm:"not null;default:0"`
	CreatedAt     time.Time
}
