package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/config"
	pkgerrors "github.com/taskercompanyofficial/taskercompany-api/pkg/errors"
)

// Sender is the outbound messaging surface consumed by services.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
	SendTemplate(ctx context.Context, to, templateName, languageCode string, bodyParams []string) error
}

// Client talks to the Graph-API-shaped WhatsApp Business endpoint.
type Client struct {
	cfg  config.WhatsAppConfig
	http *http.Client
}

// New builds a WhatsApp client from configuration.
func New(cfg config.WhatsAppConfig) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type textMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

type templateMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Template         templateBody `json:"template"`
}

type templateBody struct {
	Name       string              `json:"name"`
	Language   templateLanguage    `json:"language"`
	Components []templateComponent `json:"components,omitempty"`
}

type templateLanguage struct {
	Code string `json:"code"`
}

type templateComponent struct {
	Type       string              `json:"type"`
	Parameters []templateParameter `json:"parameters"`
}

type templateParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Button is a quick-reply option attached to an interactive message.
type Button struct {
	ID    string
	Title string
}

type interactiveMessage struct {
	MessagingProduct string          `json:"messaging_product"`
	To               string          `json:"to"`
	Type             string          `json:"type"`
	Interactive      interactiveBody `json:"interactive"`
}

type interactiveBody struct {
	Type   string            `json:"type"`
	Body   textBody          `json:"body"`
	Action interactiveAction `json:"action"`
}

type interactiveAction struct {
	Buttons []interactiveButton `json:"buttons"`
}

type interactiveButton struct {
	Type  string      `json:"type"`
	Reply buttonReply `json:"reply"`
}

type buttonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// SendText delivers a plain text message to the recipient's phone number.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	payload := textMessage{
		MessagingProduct: "whatsapp",
		To:               normalizePhone(to),
		Type:             "text",
		Text:             textBody{Body: body},
	}
	return c.post(ctx, payload)
}

// SendTemplate delivers a pre-approved template message with positional body parameters.
func (c *Client) SendTemplate(ctx context.Context, to, templateName, languageCode string, bodyParams []string) error {
	if languageCode == "" {
		languageCode = "en"
	}
	tpl := templateBody{
		Name:     templateName,
		Language: templateLanguage{Code: languageCode},
	}
	if len(bodyParams) > 0 {
		params := make([]templateParameter, 0, len(bodyParams))
		for _, p := range bodyParams {
			params = append(params, templateParameter{Type: "text", Text: p})
		}
		tpl.Components = []templateComponent{{Type: "body", Parameters: params}}
	}

	payload := templateMessage{
		MessagingProduct: "whatsapp",
		To:               normalizePhone(to),
		Type:             "template",
		Template:         tpl,
	}
	return c.post(ctx, payload)
}

// SendButtons delivers an interactive message with quick-reply buttons.
// The gateway accepts at most three buttons per message.
func (c *Client) SendButtons(ctx context.Context, to, body string, buttons []Button) error {
	action := interactiveAction{Buttons: make([]interactiveButton, 0, len(buttons))}
	for _, b := range buttons {
		action.Buttons = append(action.Buttons, interactiveButton{
			Type:  "reply",
			Reply: buttonReply{ID: b.ID, Title: b.Title},
		})
	}

	payload := interactiveMessage{
		MessagingProduct: "whatsapp",
		To:               normalizePhone(to),
		Type:             "interactive",
		Interactive: interactiveBody{
			Type:   "button",
			Body:   textBody{Body: body},
			Action: action,
		},
	}
	return c.post(ctx, payload)
}

func (c *Client) post(ctx context.Context, payload any) error {
	if c.cfg.PhoneNumberID == "" || c.cfg.Token == "" {
		return pkgerrors.New(pkgerrors.CodeDependency, "whatsapp gateway not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding whatsapp payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.PhoneNumberID)

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("whatsapp gateway returned %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			return backoff.Permanent(fmt.Errorf("whatsapp gateway rejected message: %d %s", resp.StatusCode, detail))
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.cfg.MaxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "whatsapp send failed")
	}
	return nil
}

func normalizePhone(phone string) string {
	cleaned := strings.TrimSpace(phone)
	cleaned = strings.TrimPrefix(cleaned, "+")
	return cleaned
}

var _ Sender = (*Client)(nil)
