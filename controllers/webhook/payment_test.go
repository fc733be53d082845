package webhook

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"superfan/database"
	"superfan/middlewares"
	"superfan/models"
	"superfan/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"superfan/providers/payments"
)

const testSecret = "whsec_test"

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	purchases := services.NewPurchaseService(db,
		services.NewPricingEngine(1),
		services.NewLedgerService(db),
		services.NewSettlementCalculator(500, 1),
	)

	app := fiber.New()
	app.Post("/webhooks/payments",
		middlewares.PaymentWebhookAuth(testSecret, 5*time.Minute),
		NewController(purchases).HandlePaymentEvent,
	)
	return app, db
}

func signedRequest(body string) *http.Request {
	req := httptest.NewRequest(fiber.MethodPost, "/webhooks/payments", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Payment-Signature", payments.SignHeader([]byte(body), testSecret, time.Now().Unix()))
	return req
}

func completedBody(eventID string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"type": "payment.completed",
		"data": {"payment_reference": "pay_1", "user_code": "fan-1", "club_code": "label-1", "bundle_id": "1000", "amount_cents": 1000}
	}`, eventID)
}

func TestWebhookMissingSignature(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodPost, "/webhooks/payments", bytes.NewBufferString(completedBody("evt_1")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestWebhookInvalidSignature(t *testing.T) {
	app, db := newTestApp(t)

	body := completedBody("evt_1")
	req := httptest.NewRequest(fiber.MethodPost, "/webhooks/payments", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Payment-Signature", payments.SignHeader([]byte(body), "whsec_wrong", time.Now().Unix()))

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Nothing was admitted or written.
	var count int64
	require.NoError(t, db.Model(&models.ProcessedEvent{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestWebhookAppliesThenDeduplicates(t *testing.T) {
	app, db := newTestApp(t)
	require.NoError(t, db.Create(&models.Club{ClubCode: "label-1", Name: "Label 1", IsActive: true}).Error)

	body := completedBody("evt_1")

	resp, err := app.Test(signedRequest(body))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Same event again: still 200, but no second grant.
	resp, err = app.Test(signedRequest(body))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var entries int64
	require.NoError(t, db.Model(&models.LedgerEntry{}).Count(&entries).Error)
	require.Equal(t, int64(1), entries)
}

func TestWebhookUnknownClubNotRetriable(t *testing.T) {
	app, db := newTestApp(t)

	resp, err := app.Test(signedRequest(completedBody("evt_1")))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.LedgerEntry{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestWebhookIgnoresUnhandledType(t *testing.T) {
	app, db := newTestApp(t)

	body := `{"id": "evt_9", "type": "payout.created", "data": {"payment_reference": "x", "user_code": "fan-1", "club_code": "label-1", "bundle_id": "1000", "amount_cents": 1000}}`
	resp, err := app.Test(signedRequest(body))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Unhandled types are acknowledged without being recorded.
	var count int64
	require.NoError(t, db.Model(&models.ProcessedEvent{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestWebhookAcknowledgesPaymentFailed(t *testing.T) {
	app, db := newTestApp(t)

	body := `{"id": "evt_5", "type": "payment.failed", "data": {"payment_reference": "pay_5", "user_code": "fan-1", "club_code": "label-1", "bundle_id": "1000", "amount_cents": 1000}}`
	resp, err := app.Test(signedRequest(body))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.LedgerEntry{}).Count(&count).Error)
	require.Zero(t, count)
}
