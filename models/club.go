package models

import "gorm.io/gorm"

// Club is the settlement counterparty: points are earned inside a club and
// upfront payouts accrue to it.
type Club struct {
	gorm.Model

	ClubCode string `gorm:"uniqueIndex;size:32" json:"club_code"`
	Name     string `gorm:"size:128" json:"name"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}
