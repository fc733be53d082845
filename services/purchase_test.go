package services

import (
	"testing"
	"time"

	"superfan/models"
	"superfan/providers/payments"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPurchaseService(db *gorm.DB) *PurchaseService {
	return NewPurchaseService(db,
		NewPricingEngine(1),
		NewLedgerService(db),
		NewSettlementCalculator(500, 1),
	)
}

func purchaseEvent(id, campaignID string) *payments.Event {
	return &payments.Event{
		ID:        id,
		Type:      payments.EventPaymentCompleted,
		CreatedAt: time.Now().Unix(),
		Data: payments.EventData{
			PaymentReference: "pay_" + id,
			UserCode:         "fan-1",
			ClubCode:         "label-1",
			BundleID:         "1000",
			AmountCents:      1000,
			CampaignID:       campaignID,
		},
	}
}

func TestApplyEventGrantsPointsOnce(t *testing.T) {
	db := newTestDB(t)
	seedClub(t, db, "label-1")
	svc := newPurchaseService(db)

	out, err := svc.ApplyEvent(purchaseEvent("evt_1", ""))
	require.NoError(t, err)
	require.True(t, out.Applied)
	require.Equal(t, int64(1000), out.Bundle.Points)
	require.Equal(t, int64(50), out.Breakdown.PlatformFeeCents)
	require.Equal(t, int64(-50), out.Breakdown.UpfrontCents)

	// Redelivery: no-op success, no second ledger entry, no second fold.
	out, err = svc.ApplyEvent(purchaseEvent("evt_1", ""))
	require.NoError(t, err)
	require.False(t, out.Applied)

	var entries []models.LedgerEntry
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	require.Equal(t, int64(1000), entries[0].Delta)

	var stats []models.WeeklyUpfrontStat
	require.NoError(t, db.Find(&stats).Error)
	require.Len(t, stats, 1)
	require.Equal(t, int64(1000), stats[0].GrossCents)
}

func TestApplyEventCreatesUserAndAccounts(t *testing.T) {
	db := newTestDB(t)
	seedClub(t, db, "label-1")
	svc := newPurchaseService(db)

	_, err := svc.ApplyEvent(purchaseEvent("evt_1", ""))
	require.NoError(t, err)

	var user models.User
	require.NoError(t, db.Where("user_code = ?", "fan-1").First(&user).Error)

	var account models.HouseAccount
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&account).Error)
	require.Equal(t, int64(1000), account.LifetimeTopupCents)

	var wallet models.PointWallet
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&wallet).Error)
	require.Equal(t, int64(1000), wallet.Balance)
}

func TestApplyEventBonusBundle(t *testing.T) {
	db := newTestDB(t)
	seedClub(t, db, "label-1")
	svc := newPurchaseService(db)

	evt := purchaseEvent("evt_1", "")
	evt.Data.BundleID = "2500"
	evt.Data.AmountCents = 2500

	out, err := svc.ApplyEvent(evt)
	require.NoError(t, err)
	require.Equal(t, int64(125), out.Bundle.BonusPoints)
	// Reserve covers base plus bonus liability at the settle peg.
	require.Equal(t, int64(2625), out.Breakdown.ReserveDeltaCents)

	var entries []models.LedgerEntry
	require.NoError(t, db.Order("id").Find(&entries).Error)
	require.Len(t, entries, 2)
	require.Equal(t, ReasonPurchase, entries[0].Reason)
	require.Equal(t, int64(2500), entries[0].Delta)
	require.Equal(t, ReasonPurchaseBonus, entries[1].Reason)
	require.Equal(t, int64(125), entries[1].Delta)
}

func TestApplyEventAmountMismatch(t *testing.T) {
	db := newTestDB(t)
	seedClub(t, db, "label-1")
	svc := newPurchaseService(db)

	evt := purchaseEvent("evt_1", "")
	evt.Data.AmountCents = 999

	_, err := svc.ApplyEvent(evt)
	require.ErrorIs(t, err, ErrValidation)

	// The rolled-back delivery is not marked processed, so a corrected
	// redelivery would get a clean run.
	var count int64
	require.NoError(t, db.Model(&models.ProcessedEvent{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestApplyEventUnknownClub(t *testing.T) {
	db := newTestDB(t)
	svc := newPurchaseService(db)

	_, err := svc.ApplyEvent(purchaseEvent("evt_1", ""))
	require.ErrorIs(t, err, ErrValidation)
}

func TestApplyEventUnknownBundle(t *testing.T) {
	db := newTestDB(t)
	seedClub(t, db, "label-1")
	svc := newPurchaseService(db)

	evt := purchaseEvent("evt_1", "")
	evt.Data.BundleID = "13"

	_, err := svc.ApplyEvent(evt)
	require.ErrorIs(t, err, ErrInvalidBundle)
}

func TestApplyEventJoinsCampaign(t *testing.T) {
	db := newTestDB(t)
	club := seedClub(t, db, "label-1")
	require.NoError(t, db.Create(&models.Campaign{
		CampaignID:         "camp-1",
		ClubID:             club.ID,
		PricePerPointCents: 1,
		Status:             models.CampaignActive,
	}).Error)
	svc := newPurchaseService(db)

	_, err := svc.ApplyEvent(purchaseEvent("evt_1", "camp-1"))
	require.NoError(t, err)

	var campaign models.Campaign
	require.NoError(t, db.Where("campaign_id = ?", "camp-1").First(&campaign).Error)
	require.Equal(t, int64(1000), campaign.PointsSold)
	require.Equal(t, int64(1000), campaign.GrossRaisedCents)

	var claim models.RewardClaim
	require.NoError(t, db.Where("campaign_id = ?", campaign.ID).First(&claim).Error)
	require.Equal(t, models.RefundNone, claim.RefundStatus)
	require.Equal(t, int64(1000), claim.Points)
	require.Equal(t, int64(1000), claim.PaidPriceCents)
	require.Equal(t, "pay_evt_1", claim.PaymentReference)
}

func TestApplyEventSupplyCap(t *testing.T) {
	db := newTestDB(t)
	club := seedClub(t, db, "label-1")
	require.NoError(t, db.Create(&models.Campaign{
		CampaignID:         "camp-1",
		ClubID:             club.ID,
		PricePerPointCents: 1,
		SupplyLimited:      true,
		SupplyCap:          1500,
		Status:             models.CampaignActive,
	}).Error)
	svc := newPurchaseService(db)

	_, err := svc.ApplyEvent(purchaseEvent("evt_1", "camp-1"))
	require.NoError(t, err)

	// A second 1000-point purchase would breach the 1500 cap; the whole
	// delivery rolls back, points included.
	_, err = svc.ApplyEvent(purchaseEvent("evt_2", "camp-1"))
	require.ErrorIs(t, err, ErrSupplyExceeded)

	var entries []models.LedgerEntry
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)

	var campaign models.Campaign
	require.NoError(t, db.Where("campaign_id = ?", "camp-1").First(&campaign).Error)
	require.Equal(t, int64(1000), campaign.PointsSold)
}

func TestApplyEventInactiveCampaign(t *testing.T) {
	for _, status := range []string{models.CampaignFailed, models.CampaignCompleted} {
		t.Run(status, func(t *testing.T) {
			db := newTestDB(t)
			club := seedClub(t, db, "label-1")
			require.NoError(t, db.Create(&models.Campaign{
				CampaignID:         "camp-1",
				ClubID:             club.ID,
				PricePerPointCents: 1,
				Status:             status,
			}).Error)
			svc := newPurchaseService(db)

			_, err := svc.ApplyEvent(purchaseEvent("evt_1", "camp-1"))
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}
