package models

import (
	"time"
)

const (
	CampaignStatusActive   = "ACTIVE"
	CampaignStatusInactive = "INACTIVE"
)

const RewardTypePoints = "points"

type Campaign struct {
	ID               int64   `gorm:"primaryKey"`
	ClientID         *int64  `gorm:"index"`
	Name             string  `gorm:"size:255;not null"`
	Status           string  `gorm:"size:16;not null;default:'ACTIVE';index"`
	CommissionCents  int64   `gorm:"not null;default:0"`
	MinWithdrawCents int64   `gorm:"not null;default:0"`
	Currency         string  `gorm:"size:8;not null;default:'USD'"`
	RewardType       string  `gorm:"size:32"`
	RewardValue      int64   `gorm:"not null;default:0"`
	GroupChatID      int64   `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (c *Campaign) IsActive() bool {
	return c.Status == CampaignStatusActive
}
