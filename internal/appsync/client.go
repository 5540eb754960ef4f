// Package appsync pushes WhatsApp-recorded ledger entries to the companion
// finance app, which owns the canonical transaction history.
package appsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"duitbot/internal/core"
)

// EntryPusher is the outbound port the sync worker depends on.
type EntryPusher interface {
	Push(ctx context.Context, e core.Entry) error
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiToken   string
}

func NewClient(baseURL, apiToken string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		apiToken:   apiToken,
	}, nil
}

type entryPayload struct {
	ID           string `json:"id"`
	OccurredAt   string `json:"occurred_at"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Kind         string `json:"kind"`
	Amount       string `json:"amount"`
	LastModified string `json:"last_modified"`
	Source       string `json:"source"`
}

// Push implements EntryPusher. The entry ID doubles as the idempotency key on
// the companion app side, so re-pushing after a lost ack is safe there even
// though the bot itself does not deduplicate.
func (c *Client) Push(ctx context.Context, e core.Entry) error {
	payload := entryPayload{
		ID:           e.ID,
		OccurredAt:   e.OccurredAt.UTC().Format(time.RFC3339),
		Description:  e.Description,
		Category:     string(e.Category),
		Kind:         string(e.Kind),
		Amount:       e.Amount.String(),
		LastModified: e.LastModified.UTC().Format(time.RFC3339),
		Source:       "whatsapp",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/accounts/%s/transactions", c.baseURL, e.AccountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push entry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("push entry: status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
