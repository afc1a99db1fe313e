package models

import (
	"time"
)

const (
	PaymentStatusRequested = "REQUESTED"
	PaymentStatusApproved  = "APPROVED"
	PaymentStatusPaid      = "PAID"
	PaymentStatusRejected  = "REJECTED"
	PaymentStatusCanceled  = "CANCELED"
)

// Payment is a withdrawal request. PAID, REJECTED and CANCELED are terminal;
// the available-balance check happens only at creation time.
type Payment struct {
	ID          int64  `gorm:"primaryKey"`
	Reference   string `gorm:"size:36;uniqueIndex"`
	UserID      int64  `gorm:"not null;index"`
	AmountCents int64  `gorm:"not null"`
	Status      string `gorm:"size:16;not null;default:'REQUESTED';index"`
	MethodID    int64  `gorm:"index"`
	PointCost   int64  `gorm:"not null;default:0"`
	RequestedAt time.Time
	ProcessedAt *time.Time
	Note        string
}

// PaymentStatusTerminal reports whether the status admits no further
// transitions.
func PaymentStatusTerminal(status string) bool {
	switch status {
	case PaymentStatusPaid, PaymentStatusRejected, PaymentStatusCanceled:
		return true
	}
	return false
}
