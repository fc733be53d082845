package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"superfan/config"
	"superfan/controllers/campaign"
	"superfan/controllers/club"
	"superfan/controllers/settlement"
	"superfan/controllers/wallet"
	"superfan/controllers/webhook"
	"superfan/database"
	"superfan/jobs"
	"superfan/providers/payments"
	"superfan/routes"
	"superfan/services"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Invalid configuration: ", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("❌ Failed to connect to database: ", err)
	}

	provider := payments.NewClient(cfg.ProviderBaseURL, cfg.ProviderAPIKey, cfg.ProviderTimeout)

	pricing := services.NewPricingEngine(cfg.UnitSellCents)
	ledger := services.NewLedgerService(db)
	settleCalc := services.NewSettlementCalculator(cfg.PlatformFeeBps, cfg.UnitSettleCents)
	statusEngine := services.NewStatusEngine(services.DefaultThresholds())
	purchases := services.NewPurchaseService(db, pricing, ledger, settleCalc)
	refunds := services.NewRefundProcessor(db, provider, ledger)

	app := fiber.New()
	routes.Setup(app, &routes.Handlers{
		Config:  cfg,
		Webhook: webhook.NewController(purchases),
		Wallet: &wallet.Controller{
			DB:       db,
			Ledger:   ledger,
			Status:   statusEngine,
			Pricing:  pricing,
			Provider: provider,
		},
		Settlement: &settlement.Controller{DB: db, Settlement: settleCalc},
		Club:       &club.Controller{DB: db},
		Campaign:   &campaign.Controller{DB: db, Refunds: refunds},
	})

	if cfg.RefundSweepEnabled {
		jobs.StartRefundSweeper(db, refunds, cfg.RefundSweepInterval)
	}

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	log.Println("Server running at", addr)

	go func() {
		if err := app.Listen(addr); err != nil {
			log.Panicf("Failed to start server: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("Gracefully shutting down...")
	if err := app.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited cleanly")
}
