package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the payment provider's REST API. Every call is bounded by
// the client timeout; a timeout is an unknown outcome, never a success.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) CreateCheckout(ctx context.Context, userCode, bundleID string, amountCents int64) (*CheckoutSession, error) {
	payload := map[string]any{
		"user_code":    userCode,
		"bundle_id":    bundleID,
		"amount_cents": amountCents,
	}

	var session CheckoutSession
	if err := c.post(ctx, "/v1/checkout/sessions", "", payload, &session); err != nil {
		return nil, err
	}
	if session.URL == "" {
		return nil, fmt.Errorf("checkout session has no redirect url")
	}
	return &session, nil
}

func (c *Client) Refund(ctx context.Context, paymentReference string, amountCents int64, idempotencyKey string) (*RefundReceipt, error) {
	payload := map[string]any{
		"payment_reference": paymentReference,
		"amount_cents":      amountCents,
	}

	var receipt RefundReceipt
	if err := c.post(ctx, "/v1/refunds", idempotencyKey, payload, &receipt); err != nil {
		return nil, err
	}
	if receipt.RefundID == "" {
		return nil, fmt.Errorf("refund response has no refund_id")
	}
	return &receipt, nil
}

func (c *Client) post(ctx context.Context, path, idempotencyKey string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read provider response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode provider response: %w", err)
	}
	return nil
}
