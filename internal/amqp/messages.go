package amqp

import (
	"encoding/json"
	"time"
)

// EntrySyncMessage tells the worker to push one ledger entry to the companion
// app. It carries only the entry ID; the worker reads the full entry from the
// store, so a stale message can never overwrite newer data.
type EntrySyncMessage struct {
	EntryID   string    `json:"entry_id"`
	Attempt   int       `json:"attempt"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntrySyncMessage(entryID string) *EntrySyncMessage {
	return &EntrySyncMessage{
		EntryID:   entryID,
		Attempt:   1,
		Timestamp: time.Now(),
	}
}

func (m *EntrySyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntrySyncMessageFromJSON(data []byte) (*EntrySyncMessage, error) {
	var msg EntrySyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
