package models

import "gorm.io/gorm"

// WeeklyUpfrontStat accumulates one row per (club, ISO year, ISO week).
// Every folded purchase keeps gross = platform_fee + reserve_delta + upfront.
type WeeklyUpfrontStat struct {
	gorm.Model

	ClubID uint `gorm:"uniqueIndex:idx_upfront_club_week" json:"club_id"`
	Year   int  `gorm:"uniqueIndex:idx_upfront_club_week" json:"year"`
	Week   int  `gorm:"uniqueIndex:idx_upfront_club_week" json:"week"`

	GrossCents        int64 `json:"gross_cents"`
	PlatformFeeCents  int64 `json:"platform_fee_cents"`
	ReserveDeltaCents int64 `json:"reserve_delta_cents"`
	UpfrontCents      int64 `json:"upfront_cents"`
}
