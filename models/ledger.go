package models

import "gorm.io/gorm"

// LedgerEntry is one signed point delta for a (user, club) pair. Entries are
// append-only: the balance is the sum of deltas, and corrections are new
// offsetting entries, never updates or deletes.
type LedgerEntry struct {
	gorm.Model

	UserID uint   `gorm:"index:idx_ledger_user_club" json:"user_id"`
	ClubID uint   `gorm:"index:idx_ledger_user_club" json:"club_id"`
	Delta  int64  `json:"delta"`
	Reason string `gorm:"size:64;index" json:"reason"`
	RefID  string `gorm:"size:128;index" json:"ref_id"`
}

// PointWallet caches the ledger sum per (user, club). It is only ever moved
// inside the same transaction as the ledger append that produced the delta;
// on any doubt the ledger wins and the cache is recomputed.
type PointWallet struct {
	gorm.Model

	UserID  uint  `gorm:"uniqueIndex:idx_wallet_user_club" json:"user_id"`
	ClubID  uint  `gorm:"uniqueIndex:idx_wallet_user_club" json:"club_id"`
	Balance int64 `json:"balance"`
}
