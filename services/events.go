package services

import (
	"fmt"

	"superfan/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AdmitEvent records an event id and reports whether this is its first
// delivery. The unique constraint on event_id, not a prior read, is the
// duplicate signal, so concurrent redeliveries cannot race past each other.
// Run it inside the transaction that applies the event's side effects: then a
// crash before commit leaves the event unrecorded and safe to redeliver.
func AdmitEvent(tx *gorm.DB, eventID, eventType string) (bool, error) {
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(&models.ProcessedEvent{EventID: eventID, EventType: eventType})
	if res.Error != nil {
		return false, fmt.Errorf("%w: admit event: %v", ErrStore, res.Error)
	}
	return res.RowsAffected > 0, nil
}
