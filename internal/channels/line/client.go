// Package line is a lightweight LINE Messaging API client using net/http.
// It covers webhook signature verification and the reply/push/profile
// endpoints the relay needs.
package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client is a native LINE Messaging API client.
type Client struct {
	accessToken   string
	channelSecret string
	apiBase       string
	httpClient    *http.Client
}

// NewClient creates a LINE client. Both credentials must be present for the
// client to be usable; Configured reports that.
func NewClient(accessToken, channelSecret, apiBase string) *Client {
	if apiBase == "" {
		apiBase = "https://api.line.me"
	}
	return &Client{
		accessToken:   accessToken,
		channelSecret: channelSecret,
		apiBase:       strings.TrimRight(apiBase, "/"),
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether both LINE credentials are present.
func (c *Client) Configured() bool {
	return c.accessToken != "" && c.channelSecret != ""
}

// ReplyMessage sends a text reply keyed by the event's single-use reply token.
func (c *Client) ReplyMessage(ctx context.Context, replyToken, text string) error {
	payload := map[string]interface{}{
		"replyToken": replyToken,
		"messages": []map[string]string{
			{"type": "text", "text": text},
		},
	}
	if err := c.post(ctx, "/v2/bot/message/reply", payload); err != nil {
		return fmt.Errorf("line reply: %w", err)
	}
	slog.Info("line: reply sent")
	return nil
}

// PushMessage sends a text message to a user outside the reply window.
func (c *Client) PushMessage(ctx context.Context, userID, text string) error {
	payload := map[string]interface{}{
		"to": userID,
		"messages": []map[string]string{
			{"type": "text", "text": text},
		},
	}
	if err := c.post(ctx, "/v2/bot/message/push", payload); err != nil {
		return fmt.Errorf("line push: %w", err)
	}
	slog.Info("line: push sent", "user_id", userID)
	return nil
}

// GetProfile fetches a user's profile.
func (c *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.apiBase+"/v2/bot/profile/"+userID, nil)
	if err != nil {
		return nil, fmt.Errorf("line profile: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("line profile: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("line profile: status %d: %s", resp.StatusCode, string(respBody))
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("line profile: decode response: %w", err)
	}
	return &profile, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiBase+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}
