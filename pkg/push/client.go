package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cenkalti/backoff/v4"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/config"
	pkgerrors "github.com/taskercompanyofficial/taskercompany-api/pkg/errors"
)

// Sender is the push delivery surface consumed by services.
type Sender interface {
	Send(ctx context.Context, message Message) error
}

// Message is the Expo-shaped push payload delivered to a device token.
type Message struct {
	To    string         `json:"to"`
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data,omitempty"`
	Sound string         `json:"sound,omitempty"`
}

// Client delivers push notifications through the configured gateway endpoint.
type Client struct {
	cfg  config.PushConfig
	http *http.Client
}

// New builds a push client from configuration.
func New(cfg config.PushConfig) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// Send posts the message to the push gateway, retrying transient failures.
func (c *Client) Send(ctx context.Context, message Message) error {
	if message.To == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "push token is required")
	}
	if message.Sound == "" {
		message.Sound = "default"
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encoding push payload: %w", err)
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("push gateway returned %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			return backoff.Permanent(fmt.Errorf("push gateway rejected message: %d %s", resp.StatusCode, detail))
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.cfg.MaxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "push send failed")
	}
	return nil
}

var _ Sender = (*Client)(nil)
