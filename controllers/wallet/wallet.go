package wallet

import (
	"errors"

	"superfan/helpers"
	"superfan/models"
	"superfan/providers/payments"
	"superfan/services"
	tasks "superfan/task"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Controller struct {
	DB       *gorm.DB
	Ledger   *services.LedgerService
	Status   *services.StatusEngine
	Pricing  *services.PricingEngine
	Provider payments.Provider
}

type walletRequest struct {
	UserCode string `json:"user_code"`
	ClubCode string `json:"club_code"`
}

// Balance returns the ledger-derived balance for a (user, club) pair, with
// the cached projection alongside for comparison.
func (ct *Controller) Balance(c *fiber.Ctx) error {
	var req walletRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	user, club, errMsg := ct.resolve(req)
	if errMsg != "" {
		return helpers.JSONError(c, errMsg)
	}

	balance, err := ct.Ledger.CurrentBalance(user.ID, club.ID)
	if err != nil {
		return helpers.JSONStatusError(c, fiber.StatusInternalServerError, "STORE_FAILURE")
	}
	cached, err := ct.Ledger.CachedBalance(user.ID, club.ID)
	if err != nil {
		return helpers.JSONStatusError(c, fiber.StatusInternalServerError, "STORE_FAILURE")
	}

	return helpers.JSONSuccess(c, "Balance retrieved successfully", fiber.Map{
		"user_code":      user.UserCode,
		"club_code":      club.ClubCode,
		"balance":        balance,
		"cached_balance": cached,
	})
}

// TierStatus resolves the user's current tier from the ledger balance.
func (ct *Controller) TierStatus(c *fiber.Ctx) error {
	var req walletRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	user, club, errMsg := ct.resolve(req)
	if errMsg != "" {
		return helpers.JSONError(c, errMsg)
	}

	balance, err := ct.Ledger.CurrentBalance(user.ID, club.ID)
	if err != nil {
		return helpers.JSONStatusError(c, fiber.StatusInternalServerError, "STORE_FAILURE")
	}
	status := ct.Status.StatusFor(balance)

	return helpers.JSONSuccess(c, "Status retrieved successfully", fiber.Map{
		"user_code": user.UserCode,
		"club_code": club.ClubCode,
		"balance":   balance,
		"status":    status,
	})
}

// Account returns the user's house account, creating it lazily on first view.
func (ct *Controller) Account(c *fiber.Ctx) error {
	var req struct {
		UserCode string `json:"user_code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.UserCode == "" {
		return helpers.JSONError(c, "USER_CODE_REQUIRED")
	}

	var user models.User
	if err := ct.DB.Where("user_code = ? AND is_active = true", req.UserCode).First(&user).Error; err != nil {
		return helpers.JSONError(c, "USER_NOT_FOUND")
	}
	account, err := ct.Ledger.GetOrCreateHouseAccount(ct.DB, user.ID)
	if err != nil {
		return helpers.JSONStatusError(c, fiber.StatusInternalServerError, "STORE_FAILURE")
	}

	return helpers.JSONSuccess(c, "Account retrieved successfully", fiber.Map{
		"user_code":            user.UserCode,
		"balance_cents":        account.BalanceCents,
		"lifetime_topup_cents": account.LifetimeTopupCents,
		"lifetime_spend_cents": account.LifetimeSpendCents,
	})
}

// Topup quotes a bundle and opens a provider checkout session. Points are
// granted later, by the completed-payment webhook, never here.
func (ct *Controller) Topup(c *fiber.Ctx) error {
	var req struct {
		UserCode string `json:"user_code"`
		BundleID string `json:"bundle_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.UserCode == "" || req.BundleID == "" {
		return helpers.JSONError(c, "USER_CODE_AND_BUNDLE_REQUIRED")
	}

	bundle, err := ct.Pricing.Quote(req.BundleID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidBundle) {
			return helpers.JSONError(c, "INVALID_BUNDLE")
		}
		return helpers.JSONStatusError(c, fiber.StatusInternalServerError, "PRICING_FAILURE")
	}

	session, err := ct.Provider.CreateCheckout(c.UserContext(), req.UserCode, bundle.ID, bundle.USDCents)
	if err != nil {
		return helpers.JSONStatusError(c, fiber.StatusBadGateway, "PROVIDER_FAILURE")
	}

	return helpers.JSONSuccess(c, "Checkout session created", fiber.Map{
		"bundle":     bundle,
		"session_id": session.SessionID,
		"url":        session.URL,
	})
}

// Reconcile recomputes every cached wallet balance from the ledger.
func (ct *Controller) Reconcile(c *fiber.Ctx) error {
	fixed, err := tasks.ReconcileWalletBalances(ct.DB)
	if err != nil {
		return helpers.JSONStatusError(c, fiber.StatusInternalServerError, "STORE_FAILURE")
	}
	return helpers.JSONSuccess(c, "Wallet caches reconciled", fiber.Map{
		"corrected": fixed,
	})
}

func (ct *Controller) resolve(req walletRequest) (*models.User, *models.Club, string) {
	if req.UserCode == "" || req.ClubCode == "" {
		return nil, nil, "USER_CODE_AND_CLUB_CODE_REQUIRED"
	}
	var user models.User
	if err := ct.DB.Where("user_code = ? AND is_active = true", req.UserCode).First(&user).Error; err != nil {
		return nil, nil, "USER_NOT_FOUND"
	}
	var club models.Club
	if err := ct.DB.Where("club_code = ? AND is_active = true", req.ClubCode).First(&club).Error; err != nil {
		return nil, nil, "CLUB_NOT_FOUND"
	}
	return &user, &club, ""
}
