package intake

import "strings"

// webhookObject is the only payload object type the webhook processes.
const webhookObject = "whatsapp_business_account"

// WebhookPayload mirrors the Graph API change-notification envelope.
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

type WebhookValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Messages         []WebhookMessage `json:"messages"`
}

type WebhookMessage struct {
	From        string              `json:"from"`
	ID          string              `json:"id"`
	Type        string              `json:"type"`
	Text        *WebhookText        `json:"text"`
	Interactive *WebhookInteractive `json:"interactive"`
}

type WebhookText struct {
	Body string `json:"body"`
}

type WebhookInteractive struct {
	Type        string        `json:"type"`
	ButtonReply *WebhookReply `json:"button_reply"`
	ListReply   *WebhookReply `json:"list_reply"`
}

type WebhookReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Inbound is one user message extracted from a webhook delivery.
type Inbound struct {
	From string
	Text string
}

// Messages flattens the envelope into the inbound messages it carries.
// Button and list replies surface their reply id as the message text.
func (p WebhookPayload) Messages() []Inbound {
	if p.Object != webhookObject {
		return nil
	}

	var out []Inbound
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				text := ""
				switch {
				case msg.Interactive != nil && msg.Interactive.ButtonReply != nil:
					text = msg.Interactive.ButtonReply.ID
				case msg.Interactive != nil && msg.Interactive.ListReply != nil:
					text = msg.Interactive.ListReply.ID
				case msg.Text != nil:
					text = msg.Text.Body
				}
				text = strings.TrimSpace(text)
				if msg.From == "" || text == "" {
					continue
				}
				out = append(out, Inbound{From: msg.From, Text: text})
			}
		}
	}
	return out
}
