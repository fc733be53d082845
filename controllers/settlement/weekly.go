package settlement

import (
	"time"

	"superfan/helpers"
	"superfan/models"
	"superfan/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Controller struct {
	DB         *gorm.DB
	Settlement *services.SettlementCalculator
}

// Weekly returns the running totals for one club week. Year and week default
// to the current ISO week when omitted.
func (ct *Controller) Weekly(c *fiber.Ctx) error {
	var req struct {
		ClubCode string `json:"club_code"`
		Year     int    `json:"year"`
		Week     int    `json:"week"`
	}
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.ClubCode == "" {
		return helpers.JSONError(c, "CLUB_CODE_REQUIRED")
	}

	var club models.Club
	if err := ct.DB.Where("club_code = ?", req.ClubCode).First(&club).Error; err != nil {
		return helpers.JSONError(c, "CLUB_NOT_FOUND")
	}

	if req.Year == 0 || req.Week == 0 {
		req.Year, req.Week = time.Now().UTC().ISOWeek()
	}

	stat, err := ct.Settlement.WeeklyTotals(ct.DB, club.ID, req.Year, req.Week)
	if err != nil {
		return helpers.JSONStatusError(c, fiber.StatusInternalServerError, "STORE_FAILURE")
	}

	return helpers.JSONSuccess(c, "Weekly settlement retrieved successfully", fiber.Map{
		"club_code":           club.ClubCode,
		"year":                stat.Year,
		"week":                stat.Week,
		"gross_cents":         stat.GrossCents,
		"platform_fee_cents":  stat.PlatformFeeCents,
		"reserve_delta_cents": stat.ReserveDeltaCents,
		"upfront_cents":       stat.UpfrontCents,
	})
}
