package models

import (
	"time"
)

const (
	MethodPaypal     = "Paypal"
	MethodBinancePay = "BinancePay"
	MethodUSDTTRC20  = "USDT_TRC20"
	MethodSINPE      = "SINPE"
)

// PayoutMethod upserts on (user_id, method_type); at most one row per user
// carries IsDefault.
type PayoutMethod struct {
	ID          int64  `gorm:"primaryKey"`
	UserID      int64  `gorm:"not null;uniqueIndex:idx_methods_user_type"`
	MethodType  string `gorm:"size:32;not null;uniqueIndex:idx_methods_user_type"`
	DetailsJSON string `gorm:"not null"`
	IsDefault   bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
