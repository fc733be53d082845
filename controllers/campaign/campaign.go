package campaign

import (
	"errors"

	"superfan/helpers"
	"superfan/models"
	"superfan/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Controller struct {
	DB      *gorm.DB
	Refunds *services.RefundProcessor
}

type CreateRequest struct {
	CampaignID         string `json:"campaign_id"`
	ClubCode           string `json:"club_code"`
	PricePerPointCents int64  `json:"price_per_point_cents"`
	Unlimited          bool   `json:"unlimited"`
	SupplyCap          int64  `json:"supply_cap"`
}

func (ct *Controller) Create(c *fiber.Ctx) error {
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.CampaignID == "" || req.ClubCode == "" {
		return helpers.JSONError(c, "CAMPAIGN_ID_AND_CLUB_CODE_REQUIRED")
	}
	if req.PricePerPointCents <= 0 {
		return helpers.JSONError(c, "PRICE_PER_POINT_REQUIRED")
	}

	supply := models.UnlimitedSupply()
	if !req.Unlimited {
		if req.SupplyCap <= 0 {
			return helpers.JSONError(c, "SUPPLY_CAP_OR_UNLIMITED_REQUIRED")
		}
		supply = models.LimitedSupply(req.SupplyCap)
	}

	var club models.Club
	if err := ct.DB.Where("club_code = ? AND is_active = true", req.ClubCode).First(&club).Error; err != nil {
		return helpers.JSONError(c, "CLUB_NOT_FOUND")
	}

	var existing models.Campaign
	if err := ct.DB.Where("campaign_id = ?", req.CampaignID).First(&existing).Error; err == nil {
		return helpers.JSONError(c, "CAMPAIGN_ALREADY_EXISTS")
	}

	campaign := models.Campaign{
		CampaignID:         req.CampaignID,
		ClubID:             club.ID,
		PricePerPointCents: req.PricePerPointCents,
		SupplyLimited:      supply.Limited,
		SupplyCap:          supply.Cap,
		Status:             models.CampaignActive,
	}
	if err := ct.DB.Create(&campaign).Error; err != nil {
		return helpers.JSONStatusError(c, fiber.StatusInternalServerError, "FAILED_TO_CREATE_CAMPAIGN")
	}

	return helpers.JSONSuccess(c, "Campaign created successfully", fiber.Map{
		"campaign_id":    campaign.CampaignID,
		"club_code":      club.ClubCode,
		"supply_limited": campaign.SupplyLimited,
		"supply_cap":     campaign.SupplyCap,
	})
}

type CompleteRequest struct {
	CampaignID string `json:"campaign_id"`
}

// Complete closes a campaign that reached its goal. Only an active campaign
// can complete; the transition is terminal, so a completed campaign can no
// longer absorb purchases or be failed into a refund run.
func (ct *Controller) Complete(c *fiber.Ctx) error {
	var req CompleteRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.CampaignID == "" {
		return helpers.JSONError(c, "CAMPAIGN_ID_REQUIRED")
	}

	res := ct.DB.Model(&models.Campaign{}).
		Where("campaign_id = ? AND status = ?", req.CampaignID, models.CampaignActive).
		Update("status", models.CampaignCompleted)
	if res.Error != nil {
		return helpers.JSONStatusError(c, fiber.StatusInternalServerError, "STORE_FAILURE")
	}
	if res.RowsAffected == 0 {
		var existing models.Campaign
		if err := ct.DB.Where("campaign_id = ?", req.CampaignID).First(&existing).Error; err != nil {
			return helpers.JSONError(c, "CAMPAIGN_NOT_FOUND")
		}
		return helpers.JSONError(c, "CAMPAIGN_NOT_ACTIVE")
	}

	return helpers.JSONSuccess(c, "Campaign completed successfully", fiber.Map{
		"campaign_id": req.CampaignID,
		"status":      models.CampaignCompleted,
	})
}

type FailRequest struct {
	CampaignID string `json:"campaign_id"`
}

// Fail marks a campaign as failed and refunds its paid participants. Safe to
// call repeatedly: already-settled claims are skipped. Partial failure is a
// 200 with success:false and the per-claim reasons for operator follow-up.
func (ct *Controller) Fail(c *fiber.Ctx) error {
	var req FailRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.CampaignID == "" {
		return helpers.JSONError(c, "CAMPAIGN_ID_REQUIRED")
	}

	result, err := ct.Refunds.ProcessCampaign(c.UserContext(), req.CampaignID)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return helpers.JSONError(c, "CAMPAIGN_NOT_FOUND")
		}
		return helpers.JSONStatusError(c, fiber.StatusInternalServerError, "STORE_FAILURE")
	}

	return helpers.JSONSuccess(c, "Refund run completed", result)
}
