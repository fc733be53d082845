package services

import (
	"testing"

	"superfan/models"

	"github.com/stretchr/testify/require"
)

func TestAdmitEventFirstDelivery(t *testing.T) {
	db := newTestDB(t)

	first, err := AdmitEvent(db, "evt_1", "payment.completed")
	require.NoError(t, err)
	require.True(t, first)
}

func TestAdmitEventRedelivery(t *testing.T) {
	db := newTestDB(t)

	first, err := AdmitEvent(db, "evt_1", "payment.completed")
	require.NoError(t, err)
	require.True(t, first)

	for i := 0; i < 3; i++ {
		again, err := AdmitEvent(db, "evt_1", "payment.completed")
		require.NoError(t, err)
		require.False(t, again)
	}

	var count int64
	require.NoError(t, db.Model(&models.ProcessedEvent{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestAdmitEventDistinctIDs(t *testing.T) {
	db := newTestDB(t)

	for _, id := range []string{"evt_a", "evt_b", "evt_c"} {
		first, err := AdmitEvent(db, id, "payment.completed")
		require.NoError(t, err)
		require.True(t, first)
	}
}
