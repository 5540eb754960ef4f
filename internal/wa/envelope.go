package wa

import "strings"

// ObjectBusinessAccount is the envelope object for WhatsApp Business webhooks.
const ObjectBusinessAccount = "whatsapp_business_account"

// Envelope is the inbound webhook payload, trimmed to the fields the bot
// consumes.
type Envelope struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

type Value struct {
	Messages []Message `json:"messages"`
}

type Message struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      *Text  `json:"text"`
}

type Text struct {
	Body string `json:"body"`
}

// FirstTextMessage walks the envelope and returns the first message carrying
// a text body, trimmed. Status-only notifications and media messages yield
// ok=false.
func (e Envelope) FirstTextMessage() (Message, string, bool) {
	for _, entry := range e.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if msg.Text == nil {
					continue
				}
				body := strings.TrimSpace(msg.Text.Body)
				if body == "" {
					continue
				}
				return msg, body, true
			}
		}
	}
	return Message{}, "", false
}
