package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuoteAtParityPeg(t *testing.T) {
	engine := NewPricingEngine(1)

	bundle, err := engine.Quote("1000")
	require.NoError(t, err)
	require.Equal(t, int64(1000), bundle.Points)
	require.Equal(t, int64(0), bundle.BonusPoints)
	require.Equal(t, int64(1000), bundle.USDCents)
}

func TestQuoteAtMarkupPeg(t *testing.T) {
	// Selling at 2 cents per point while settlement stays configured apart.
	engine := NewPricingEngine(2)

	bundle, err := engine.Quote("500")
	require.NoError(t, err)
	require.Equal(t, int64(500), bundle.Points)
	require.Equal(t, int64(1000), bundle.USDCents)
}

func TestQuoteBonusBundle(t *testing.T) {
	engine := NewPricingEngine(1)

	bundle, err := engine.Quote("2500")
	require.NoError(t, err)
	require.Equal(t, int64(2500), bundle.Points)
	require.Equal(t, int64(125), bundle.BonusPoints)
	// Gross covers the base points only; bonus points are free liability.
	require.Equal(t, int64(2500), bundle.USDCents)
}

func TestQuoteUnknownBundle(t *testing.T) {
	engine := NewPricingEngine(1)

	_, err := engine.Quote("9999")
	require.ErrorIs(t, err, ErrInvalidBundle)
}
