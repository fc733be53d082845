package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CampaignActive    = "active"
	CampaignFailed    = "campaign_failed"
	CampaignCompleted = "completed"
)

const (
	RefundNone      = "none"
	RefundProcessed = "processed"
	RefundFailed    = "failed"
)

// Supply is campaign inventory as a tagged variant: either unlimited or
// capped at Cap points. Never a nullable cap column read back as "no limit".
type Supply struct {
	Limited bool
	Cap     int64
}

func UnlimitedSupply() Supply { return Supply{} }

func LimitedSupply(cap int64) Supply { return Supply{Limited: true, Cap: cap} }

// Campaign is a time-boxed funding drive run by a club. The transition to
// campaign_failed is terminal for refund purposes.
type Campaign struct {
	gorm.Model

	CampaignID         string `gorm:"uniqueIndex;size:64" json:"campaign_id"`
	ClubID             uint   `gorm:"index" json:"club_id"`
	PricePerPointCents int64  `json:"price_per_point_cents"`

	SupplyLimited bool  `json:"supply_limited"`
	SupplyCap     int64 `json:"supply_cap"`

	PointsSold       int64  `json:"points_sold"`
	GrossRaisedCents int64  `json:"gross_raised_cents"`
	Status           string `gorm:"size:32;index;default:active" json:"status"`
}

func (c *Campaign) Supply() Supply {
	if !c.SupplyLimited {
		return UnlimitedSupply()
	}
	return LimitedSupply(c.SupplyCap)
}

// RewardClaim records one paid participant of a campaign. RefundStatus moves
// exactly once from none to processed or failed and never reverts.
type RewardClaim struct {
	gorm.Model

	CampaignID uint `gorm:"index:idx_claim_campaign" json:"campaign_id"`
	UserID     uint `gorm:"index" json:"user_id"`
	ClubID     uint `gorm:"index" json:"club_id"`

	Points           int64  `json:"points"`
	PaidPriceCents   int64  `json:"paid_price_cents"`
	PaymentReference string `gorm:"size:128" json:"payment_reference"`

	RefundStatus    string         `gorm:"size:16;index:idx_claim_campaign;default:none" json:"refund_status"`
	RefundReference string         `gorm:"size:128" json:"refund_reference"`
	RefundedAt      *time.Time     `json:"refunded_at,omitempty"`
	Metadata        datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
}
