package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidSignature is returned when the X-Line-Signature header does not
// match the request body. The webhook fails closed on it.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// ErrNotConfigured is returned when LINE credentials are missing.
var ErrNotConfigured = errors.New("line client not configured")

// VerifySignature checks the X-Line-Signature header value against the raw
// request body: base64(HMAC-SHA256(channel secret, body)).
func VerifySignature(channelSecret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ParseWebhook verifies the signature and decodes the event payload.
func (c *Client) ParseWebhook(body []byte, signature string) ([]Event, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if !VerifySignature(c.channelSecret, body, signature) {
		return nil, ErrInvalidSignature
	}

	var req WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("decode webhook body: %w", err)
	}
	return req.Events, nil
}
