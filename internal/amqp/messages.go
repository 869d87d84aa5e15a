package amqp

import (
	"encoding/json"
	"time"
)

// Mirror message actions.
const (
	ActionUpsert = "upsert"
	ActionDelete = "delete"
)

// EntrySyncMessage tells the mirror worker that an entry changed. It carries
// only the entry id and the action; the worker fetches the full entry from
// the database, so a stale message after a delete simply finds nothing.
type EntrySyncMessage struct {
	EntryID   string    `json:"entryId"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntrySyncMessage creates an upsert notification for the given entry.
func NewEntrySyncMessage(entryID string) *EntrySyncMessage {
	return &EntrySyncMessage{
		EntryID:   entryID,
		Action:    ActionUpsert,
		Timestamp: time.Now(),
	}
}

// NewEntryDeleteMessage creates a delete notification for the given entry.
func NewEntryDeleteMessage(entryID string) *EntrySyncMessage {
	return &EntrySyncMessage{
		EntryID:   entryID,
		Action:    ActionDelete,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *EntrySyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntrySyncMessageFromJSON creates a message from JSON bytes.
func EntrySyncMessageFromJSON(data []byte) (*EntrySyncMessage, error) {
	var msg EntrySyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Action == "" {
		msg.Action = ActionUpsert
	}
	return &msg, nil
}
