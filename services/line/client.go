package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const apiBase = "https://api.line.me"

// Client talks to the LINE Messaging API. Reply is preferred over Push for
// webhook-originated messages; reply tokens are free while pushes count
// against the channel's monthly quota.
type Client struct {
	token      string
	httpClient *http.Client
}

func NewClient(channelAccessToken string) *Client {
	return &Client{
		token:      channelAccessToken,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Reply answers a webhook event using its reply token.
func (c *Client) Reply(ctx context.Context, replyToken, text string) error {
	payload := map[string]any{
		"replyToken": replyToken,
		"messages":   []textMessage{{Type: "text", Text: text}},
	}
	return c.post(ctx, "/v2/bot/message/reply", payload)
}

// Push sends a message outside a reply window, e.g. reminders.
func (c *Client) Push(ctx context.Context, userID, text string) error {
	payload := map[string]any{
		"to":       userID,
		"messages": []textMessage{{Type: "text", Text: text}},
	}
	return c.post(ctx, "/v2/bot/message/push", payload)
}

// Profile is the subset of the LINE profile the bot uses.
type Profile struct {
	DisplayName string `json:"displayName"`
	UserID      string `json:"userId"`
}

// GetProfile fetches a user's display name. Callers should fall back to a
// generic honorific when this fails; a profile lookup failure must never
// block a reservation.
func (c *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"/v2/bot/profile/"+userID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch LINE profile for %s: %w", userID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("LINE profile request for %s returned %d: %s", userID, resp.StatusCode, body)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode LINE profile response: %w", err)
	}
	return &profile, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBase+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("LINE API request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("LINE API request to %s returned %d: %s", path, resp.StatusCode, respBody)
	}
	return nil
}
