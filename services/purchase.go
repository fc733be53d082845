package services

import (
	"errors"
	"fmt"
	"time"

	"superfan/models"
	"superfan/providers/payments"

	"gorm.io/gorm"
)

const (
	ReasonPurchase       = "purchase"
	ReasonPurchaseBonus  = "purchase_bonus"
	ReasonCampaignRefund = "campaign_refund"
)

// PurchaseService applies verified payment events: idempotency gate, ledger
// append, campaign participation and settlement fold, all in one transaction.
type PurchaseService struct {
	db         *gorm.DB
	pricing    *PricingEngine
	ledger     *LedgerService
	settlement *SettlementCalculator
}

func NewPurchaseService(db *gorm.DB, pricing *PricingEngine, ledger *LedgerService, settlement *SettlementCalculator) *PurchaseService {
	return &PurchaseService{db: db, pricing: pricing, ledger: ledger, settlement: settlement}
}

type PurchaseOutcome struct {
	// Applied is false when the event was already processed; the delivery is
	// still a success so the provider stops retrying.
	Applied   bool                `json:"applied"`
	Bundle    Bundle              `json:"bundle"`
	Breakdown SettlementBreakdown `json:"settlement"`
}

// ApplyEvent turns one payment.completed event into durable state. The gate
// insert and every side effect commit together: a redelivery either replays
// as a no-op or, if the first attempt rolled back, gets a clean second run.
func (s *PurchaseService) ApplyEvent(evt *payments.Event) (PurchaseOutcome, error) {
	if err := validatePurchaseEvent(evt); err != nil {
		return PurchaseOutcome{}, err
	}

	var out PurchaseOutcome
	err := s.db.Transaction(func(tx *gorm.DB) error {
		first, err := AdmitEvent(tx, evt.ID, evt.Type)
		if err != nil {
			return err
		}
		if !first {
			return ErrDuplicateEvent
		}

		bundle, err := s.pricing.Quote(evt.Data.BundleID)
		if err != nil {
			return err
		}
		if bundle.USDCents != evt.Data.AmountCents {
			return fmt.Errorf("%w: paid %d cents for bundle priced at %d",
				ErrValidation, evt.Data.AmountCents, bundle.USDCents)
		}

		user, err := s.ledger.GetOrCreateUser(tx, evt.Data.UserCode)
		if err != nil {
			return err
		}

		var club models.Club
		if err := tx.Where("club_code = ? AND is_active = true", evt.Data.ClubCode).First(&club).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: unknown club %q", ErrValidation, evt.Data.ClubCode)
			}
			return fmt.Errorf("%w: load club: %v", ErrStore, err)
		}

		totalPoints := bundle.Points + bundle.BonusPoints
		if err := s.ledger.Append(tx, user.ID, club.ID, bundle.Points, ReasonPurchase, evt.ID); err != nil {
			return err
		}
		if bundle.BonusPoints > 0 {
			if err := s.ledger.Append(tx, user.ID, club.ID, bundle.BonusPoints, ReasonPurchaseBonus, evt.ID); err != nil {
				return err
			}
		}

		if _, err := s.ledger.GetOrCreateHouseAccount(tx, user.ID); err != nil {
			return err
		}
		if err := tx.Model(&models.HouseAccount{}).
			Where("user_id = ?", user.ID).
			Update("lifetime_topup_cents", gorm.Expr("lifetime_topup_cents + ?", evt.Data.AmountCents)).Error; err != nil {
			return fmt.Errorf("%w: record topup: %v", ErrStore, err)
		}

		if evt.Data.CampaignID != "" {
			if err := s.joinCampaign(tx, evt, user.ID, club.ID, totalPoints); err != nil {
				return err
			}
		}

		breakdown := s.settlement.Breakdown(evt.Data.AmountCents, totalPoints)
		if err := s.settlement.Fold(tx, club.ID, breakdown, time.Now()); err != nil {
			return err
		}

		out = PurchaseOutcome{Applied: true, Bundle: bundle, Breakdown: breakdown}
		return nil
	})
	if errors.Is(err, ErrDuplicateEvent) {
		return PurchaseOutcome{Applied: false}, nil
	}
	if err != nil {
		return PurchaseOutcome{}, err
	}
	return out, nil
}

// joinCampaign records the participant claim and advances the campaign's sold
// counters under the supply-cap guard in one conditional update.
func (s *PurchaseService) joinCampaign(tx *gorm.DB, evt *payments.Event, userID, clubID uint, points int64) error {
	var campaign models.Campaign
	if err := tx.Where("campaign_id = ?", evt.Data.CampaignID).First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: unknown campaign %q", ErrValidation, evt.Data.CampaignID)
		}
		return fmt.Errorf("%w: load campaign: %v", ErrStore, err)
	}
	if campaign.Status != models.CampaignActive {
		return fmt.Errorf("%w: campaign %q is %s", ErrValidation, evt.Data.CampaignID, campaign.Status)
	}

	res := tx.Model(&models.Campaign{}).
		Where("id = ? AND status = ? AND (supply_limited = ? OR points_sold + ? <= supply_cap)",
			campaign.ID, models.CampaignActive, false, points).
		Updates(map[string]interface{}{
			"points_sold":        gorm.Expr("points_sold + ?", points),
			"gross_raised_cents": gorm.Expr("gross_raised_cents + ?", evt.Data.AmountCents),
		})
	if res.Error != nil {
		return fmt.Errorf("%w: advance campaign counters: %v", ErrStore, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: campaign %q cannot absorb %d points", ErrSupplyExceeded, evt.Data.CampaignID, points)
	}

	claim := models.RewardClaim{
		CampaignID:       campaign.ID,
		UserID:           userID,
		ClubID:           clubID,
		Points:           points,
		PaidPriceCents:   evt.Data.AmountCents,
		PaymentReference: evt.Data.PaymentReference,
		RefundStatus:     models.RefundNone,
	}
	if err := tx.Create(&claim).Error; err != nil {
		return fmt.Errorf("%w: create reward claim: %v", ErrStore, err)
	}
	return nil
}

func validatePurchaseEvent(evt *payments.Event) error {
	switch {
	case evt.ID == "":
		return fmt.Errorf("%w: missing event id", ErrValidation)
	case evt.Data.UserCode == "":
		return fmt.Errorf("%w: missing user_code", ErrValidation)
	case evt.Data.ClubCode == "":
		return fmt.Errorf("%w: missing club_code", ErrValidation)
	case evt.Data.BundleID == "":
		return fmt.Errorf("%w: missing bundle_id", ErrValidation)
	case evt.Data.AmountCents <= 0:
		return fmt.Errorf("%w: non-positive amount_cents", ErrValidation)
	}
	return nil
}
