package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"superfan/models"
	"superfan/providers/payments"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Namespace for deriving per-claim refund idempotency keys.
var refundKeyNamespace = uuid.MustParse("6e7f1a52-9d14-4b6e-8d6a-2f3f44c1b7a9")

// RefundIdempotencyKey is a deterministic function of the claim id alone, so
// re-running the processor can never double-refund a participant even when a
// previous run's status update failed to persist.
func RefundIdempotencyKey(claimID uint) string {
	return uuid.NewSHA1(refundKeyNamespace, []byte(fmt.Sprintf("reward-claim-%d", claimID))).String()
}

type RefundFailure struct {
	ClaimID uint   `json:"claim_id"`
	Reason  string `json:"reason"`
}

// RefundRunResult reports a batch outcome. Partial success is first-class:
// Success is false when any participant failed, while RefundedCount still
// counts the ones that went through.
type RefundRunResult struct {
	Success       bool            `json:"success"`
	RefundedCount int             `json:"refunded_count"`
	FailedCount   int             `json:"failed_count"`
	Failures      []RefundFailure `json:"failures,omitempty"`
}

// RefundProcessor walks the unrefunded paid participants of a failed campaign
// and issues provider-side refunds, recording each outcome independently.
type RefundProcessor struct {
	db       *gorm.DB
	provider payments.Provider
	ledger   *LedgerService
}

func NewRefundProcessor(db *gorm.DB, provider payments.Provider, ledger *LedgerService) *RefundProcessor {
	return &RefundProcessor{db: db, provider: provider, ledger: ledger}
}

// ProcessCampaign refunds every claim still in the none state. Each claim's
// transition commits on its own, so a crash mid-loop leaves only
// already-committed claims advanced and a re-run picks up the rest. The
// campaign is marked campaign_failed at the end regardless of per-claim
// outcomes: campaign status reflects the funding decision, not refund
// completion.
func (p *RefundProcessor) ProcessCampaign(ctx context.Context, campaignID string) (RefundRunResult, error) {
	var campaign models.Campaign
	if err := p.db.Where("campaign_id = ?", campaignID).First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RefundRunResult{}, fmt.Errorf("%w: unknown campaign %q", ErrValidation, campaignID)
		}
		return RefundRunResult{}, fmt.Errorf("%w: load campaign: %v", ErrStore, err)
	}
	// A completed campaign settled successfully; only active campaigns can be
	// failed, and already-failed ones may be re-swept.
	if campaign.Status == models.CampaignCompleted {
		return RefundRunResult{}, fmt.Errorf("%w: campaign %q already completed", ErrValidation, campaignID)
	}

	var claims []models.RewardClaim
	if err := p.db.
		Where("campaign_id = ? AND refund_status = ?", campaign.ID, models.RefundNone).
		Order("id").
		Find(&claims).Error; err != nil {
		return RefundRunResult{}, fmt.Errorf("%w: list claims: %v", ErrStore, err)
	}

	result := RefundRunResult{Success: true}
	for i := range claims {
		claim := &claims[i]

		if claim.PaymentReference == "" {
			p.recordFailure(claim, "missing_payment_reference", &result)
			continue
		}

		receipt, err := p.provider.Refund(ctx, claim.PaymentReference, claim.PaidPriceCents, RefundIdempotencyKey(claim.ID))
		if err != nil {
			// Covers timeouts too: an unknown outcome is never marked
			// processed, only a confirmed receipt is.
			p.recordFailure(claim, fmt.Errorf("%w: %v", ErrProvider, err).Error(), &result)
			continue
		}

		if err := p.markProcessed(claim, receipt); err != nil {
			log.Printf("❌ refund claim %d: confirmed by provider but not persisted: %v", claim.ID, err)
			result.Success = false
			result.FailedCount++
			result.Failures = append(result.Failures, RefundFailure{
				ClaimID: claim.ID,
				Reason:  "refund confirmed but status update failed",
			})
			continue
		}
		result.RefundedCount++
	}

	if err := p.db.Model(&models.Campaign{}).
		Where("id = ?", campaign.ID).
		Update("status", models.CampaignFailed).Error; err != nil {
		return result, fmt.Errorf("%w: mark campaign failed: %v", ErrStore, err)
	}
	return result, nil
}

// markProcessed flips the claim exactly once and appends the offsetting
// ledger entry in the same transaction, so the points reversal happens once
// no matter how often the processor re-runs.
func (p *RefundProcessor) markProcessed(claim *models.RewardClaim, receipt *payments.RefundReceipt) error {
	now := time.Now()
	return p.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RewardClaim{}).
			Where("id = ? AND refund_status = ?", claim.ID, models.RefundNone).
			Updates(map[string]interface{}{
				"refund_status":    models.RefundProcessed,
				"refund_reference": receipt.RefundID,
				"refunded_at":      now,
			})
		if res.Error != nil {
			return fmt.Errorf("%w: mark claim processed: %v", ErrStore, res.Error)
		}
		if res.RowsAffected == 0 {
			// Another run already advanced this claim.
			return nil
		}
		return p.ledger.Append(tx, claim.UserID, claim.ClubID, -claim.Points, ReasonCampaignRefund, receipt.RefundID)
	})
}

func (p *RefundProcessor) markFailed(claim *models.RewardClaim, reason string) error {
	meta, _ := json.Marshal(map[string]string{"refund_error": reason})
	res := p.db.Model(&models.RewardClaim{}).
		Where("id = ? AND refund_status = ?", claim.ID, models.RefundNone).
		Updates(map[string]interface{}{
			"refund_status": models.RefundFailed,
			"metadata":      datatypes.JSON(meta),
		})
	if res.Error != nil {
		return fmt.Errorf("%w: mark claim failed: %v", ErrStore, res.Error)
	}
	return nil
}

func (p *RefundProcessor) recordFailure(claim *models.RewardClaim, reason string, result *RefundRunResult) {
	if err := p.markFailed(claim, reason); err != nil {
		log.Printf("❌ refund claim %d: %v", claim.ID, err)
	}
	result.Success = false
	result.FailedCount++
	result.Failures = append(result.Failures, RefundFailure{ClaimID: claim.ID, Reason: reason})
}
