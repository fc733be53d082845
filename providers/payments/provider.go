package payments

import "context"

const (
	EventPaymentCompleted = "payment.completed"
	EventPaymentFailed    = "payment.failed"
)

// Event is the typed projection of a provider webhook payload. Only these
// fields cross into the core; anything else the provider sends is dropped at
// this boundary.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	CreatedAt int64     `json:"created_at"`
	Data      EventData `json:"data"`
}

type EventData struct {
	PaymentReference string `json:"payment_reference"`
	UserCode         string `json:"user_code"`
	ClubCode         string `json:"club_code"`
	BundleID         string `json:"bundle_id"`
	AmountCents      int64  `json:"amount_cents"`
	CampaignID       string `json:"campaign_id,omitempty"`
}

type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

type RefundReceipt struct {
	RefundID    string `json:"refund_id"`
	Status      string `json:"status"`
	AmountCents int64  `json:"amount_cents"`
}

// Provider is the payment collaborator. The platform only mirrors outcomes it
// is told about; transaction state lives on the provider's side.
type Provider interface {
	// CreateCheckout starts a hosted purchase and returns the redirect target.
	CreateCheckout(ctx context.Context, userCode, bundleID string, amountCents int64) (*CheckoutSession, error)

	// Refund returns money for a prior payment. The idempotency key lets the
	// provider collapse duplicate requests, so callers may safely retry.
	Refund(ctx context.Context, paymentReference string, amountCents int64, idempotencyKey string) (*RefundReceipt, error)
}
