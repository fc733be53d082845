package jobs

import (
	"context"
	"log"
	"time"

	"superfan/models"
	"superfan/services"

	"gorm.io/gorm"
)

// StartRefundSweeper periodically re-runs the refund processor for failed
// campaigns that still have untouched claims, typically ones a crashed run
// left behind. The processor is idempotent, so sweeping is always safe.
func StartRefundSweeper(db *gorm.DB, processor *services.RefundProcessor, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			<-ticker.C

			var ids []string
			err := db.Model(&models.Campaign{}).
				Distinct("campaigns.campaign_id").
				Joins("JOIN reward_claims ON reward_claims.campaign_id = campaigns.id AND reward_claims.refund_status = ?", models.RefundNone).
				Where("campaigns.status = ?", models.CampaignFailed).
				Pluck("campaigns.campaign_id", &ids).Error
			if err != nil {
				log.Printf("❌ refund sweep: %v", err)
				continue
			}

			for _, id := range ids {
				result, err := processor.ProcessCampaign(context.Background(), id)
				if err != nil {
					log.Printf("❌ refund sweep %s: %v", id, err)
					continue
				}
				log.Printf("✅ refund sweep %s: refunded=%d failed=%d", id, result.RefundedCount, result.FailedCount)
			}
		}
	}()
}
