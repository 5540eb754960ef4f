// Package wa talks to the WhatsApp Business Cloud API: outbound text
// delivery and the inbound webhook envelope format.
package wa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://graph.facebook.com/v18.0"

type Client struct {
	httpClient    *http.Client
	baseURL       string
	phoneNumberID string
	accessToken   string
}

type Option func(*Client)

// WithBaseURL overrides the Graph API base URL, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func NewClient(phoneNumberID, accessToken string, opts ...Option) (*Client, error) {
	if phoneNumberID == "" {
		return nil, fmt.Errorf("phone number id is required")
	}
	if accessToken == "" {
		return nil, fmt.Errorf("access token is required")
	}
	c := &Client{
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		baseURL:       defaultBaseURL,
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type textPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

// Send implements bot.Messenger: a plain text message to one recipient.
func (c *Client) Send(ctx context.Context, to, text string) error {
	payload := textPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: text},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send message: status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
