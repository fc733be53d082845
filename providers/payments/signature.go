package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

// VerifySignature checks an "X-Payment-Signature: t={unix},v1={hex}" header
// against the raw body. The signed content is "{timestamp}.{body}" under
// HMAC-SHA256 with the shared secret. A tolerance of zero disables the
// timestamp freshness check.
func VerifySignature(body []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	var timestamp int64
	var provided string

	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: bad timestamp", ErrInvalidSignature)
			}
			timestamp = ts
		case "v1":
			provided = v
		}
	}

	if timestamp == 0 || provided == "" {
		return fmt.Errorf("%w: malformed header", ErrInvalidSignature)
	}
	if tolerance > 0 {
		age := now.Sub(time.Unix(timestamp, 0))
		if age > tolerance || age < -tolerance {
			return fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
		}
	}

	expected := ComputeSignature(timestamp, body, secret)
	if !hmac.Equal([]byte(expected), []byte(provided)) {
		return fmt.Errorf("%w: digest mismatch", ErrInvalidSignature)
	}
	return nil
}

func ComputeSignature(timestamp int64, body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignHeader produces a header value the way the provider would.
func SignHeader(body []byte, secret string, timestamp int64) string {
	return fmt.Sprintf("t=%d,v1=%s", timestamp, ComputeSignature(timestamp, body, secret))
}

// ParseEvent decodes the verified payload into the typed projection.
func ParseEvent(body []byte) (*Event, error) {
	var evt Event
	if err := json.Unmarshal(body, &evt); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if evt.ID == "" || evt.Type == "" {
		return nil, fmt.Errorf("event is missing id or type")
	}
	return &evt, nil
}
