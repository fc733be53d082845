package models

import "gorm.io/gorm"

// ProcessedEvent marks a provider event as applied. The unique index on
// EventID is the sole duplicate authority: the insert conflict, not a prior
// read, decides whether a redelivery is a no-op.
type ProcessedEvent struct {
	gorm.Model

	EventID   string `gorm:"uniqueIndex;size:128;not null" json:"event_id"`
	EventType string `gorm:"size:64;index" json:"event_type"`
}
