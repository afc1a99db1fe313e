package models

import (
	"time"
)

// User is keyed by the transport-provided numeric id. The referral code is
// assigned once and never reassigned; TotalPoints is a cache over
// points_history rows.
type User struct {
	ID          int64   `gorm:"primaryKey;autoIncrement:false"`
	Code        string  `gorm:"size:32;uniqueIndex"`
	Phone       *string `gorm:"size:32;uniqueIndex"`
	Email       *string `gorm:"size:255"`
	CountryCode string  `gorm:"size:8"`
	ClientID    *int64  `gorm:"index"`
	TotalPoints int64   `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
