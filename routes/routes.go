package routes

import (
	"superfan/config"
	"superfan/controllers/campaign"
	"superfan/controllers/club"
	"superfan/controllers/settlement"
	"superfan/controllers/wallet"
	"superfan/controllers/webhook"
	"superfan/middlewares"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Config     *config.Config
	Webhook    *webhook.Controller
	Wallet     *wallet.Controller
	Settlement *settlement.Controller
	Club       *club.Controller
	Campaign   *campaign.Controller
}

func Setup(app *fiber.App, h *Handlers) {
	app.Post("/webhooks/payments",
		middlewares.PaymentWebhookAuth(h.Config.WebhookSecret, h.Config.WebhookTolerance),
		h.Webhook.HandlePaymentEvent,
	)

	walletroutes := app.Group("/wallet")
	walletroutes.Post("/balance", h.Wallet.Balance)
	walletroutes.Post("/status", h.Wallet.TierStatus)
	walletroutes.Post("/account", h.Wallet.Account)
	walletroutes.Post("/topup", h.Wallet.Topup)

	app.Post("/settlement/weekly", h.Settlement.Weekly)

	adminroutes := app.Group("/admin", middlewares.AdminAuth(h.Config.AdminKey))
	adminroutes.Post("/clubs", h.Club.Register)
	adminroutes.Post("/campaigns", h.Campaign.Create)
	adminroutes.Post("/campaigns/complete", h.Campaign.Complete)
	adminroutes.Post("/campaigns/fail", h.Campaign.Fail)
	adminroutes.Post("/wallets/reconcile", h.Wallet.Reconcile)
}
