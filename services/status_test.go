package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusFloorTier(t *testing.T) {
	engine := NewStatusEngine(DefaultThresholds())

	st := engine.StatusFor(0)
	require.Equal(t, "fan", st.Name)
	require.Equal(t, 0, st.Rank)
	require.NotNil(t, st.PointsToNext)
	require.Equal(t, int64(1000), *st.PointsToNext)
}

func TestStatusBelowFloorStillResolves(t *testing.T) {
	// A floor above zero: balances under it still hold the floor tier.
	engine := NewStatusEngine([]StatusThreshold{
		{Name: "bronze", PointsRequired: 100},
		{Name: "silver", PointsRequired: 500},
	})

	st := engine.StatusFor(10)
	require.Equal(t, "bronze", st.Name)
	require.Equal(t, 0, st.Rank)
	require.Zero(t, st.Progress)
}

func TestStatusProgressMidTier(t *testing.T) {
	engine := NewStatusEngine(DefaultThresholds())

	st := engine.StatusFor(3000)
	require.Equal(t, "supporter", st.Name)
	require.InDelta(t, 0.5, st.Progress, 1e-9)
	require.NotNil(t, st.PointsToNext)
	require.Equal(t, int64(2000), *st.PointsToNext)
}

func TestStatusTopTier(t *testing.T) {
	engine := NewStatusEngine(DefaultThresholds())

	st := engine.StatusFor(1_000_000)
	require.Equal(t, "superfan", st.Name)
	require.Equal(t, 1.0, st.Progress)
	require.Nil(t, st.PointsToNext)
}

func TestStatusMonotonicity(t *testing.T) {
	engine := NewStatusEngine(DefaultThresholds())

	prevRank := -1
	for balance := int64(0); balance <= 30000; balance += 123 {
		st := engine.StatusFor(balance)
		require.GreaterOrEqual(t, st.Rank, prevRank, "rank regressed at balance %d", balance)
		prevRank = st.Rank
	}
}

func TestStatusUnsortedThresholds(t *testing.T) {
	engine := NewStatusEngine([]StatusThreshold{
		{Name: "gold", PointsRequired: 900},
		{Name: "bronze", PointsRequired: 0},
		{Name: "silver", PointsRequired: 300},
	})

	require.Equal(t, "bronze", engine.StatusFor(299).Name)
	require.Equal(t, "silver", engine.StatusFor(300).Name)
	require.Equal(t, "gold", engine.StatusFor(901).Name)
}
