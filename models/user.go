package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	UserCode string `gorm:"uniqueIndex;size:64" json:"user_code"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

// HouseAccount is the per-user monetary account, created lazily on first
// access. BalanceCents is a projection updated only inside controlled
// transactions, never from request input.
type HouseAccount struct {
	gorm.Model

	UserID             uint  `gorm:"uniqueIndex" json:"user_id"`
	BalanceCents       int64 `json:"balance_cents"`
	LifetimeTopupCents int64 `json:"lifetime_topup_cents"`
	LifetimeSpendCents int64 `json:"lifetime_spend_cents"`
}
