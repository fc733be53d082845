package club

import (
	"superfan/helpers"
	"superfan/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Controller struct {
	DB *gorm.DB
}

type RegisterRequest struct {
	ClubCode string `json:"club_code"`
	Name     string `json:"name"`
}

func (ct *Controller) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.ClubCode == "" || req.Name == "" {
		return helpers.JSONError(c, "CLUB_CODE_AND_NAME_REQUIRED")
	}

	var existing models.Club
	if err := ct.DB.Where("club_code = ?", req.ClubCode).First(&existing).Error; err == nil {
		return helpers.JSONError(c, "CLUB_ALREADY_EXISTS")
	}

	club := models.Club{
		ClubCode: req.ClubCode,
		Name:     req.Name,
		IsActive: true,
	}
	if err := ct.DB.Create(&club).Error; err != nil {
		return helpers.JSONStatusError(c, fiber.StatusInternalServerError, "FAILED_TO_CREATE_CLUB")
	}

	return helpers.JSONSuccess(c, "Club registered successfully", fiber.Map{
		"club_code": club.ClubCode,
		"name":      club.Name,
	})
}
