// Package sync drains the outbox against the remote store. It owns the
// transport envelope, the payload codec, and the debounced background
// engine.
package sync

import (
	"encoding/json"
	"time"
)

// Envelope is the wire format the remote applies. Payload is opaque,
// entity-specific JSON produced at enqueue time.
type Envelope struct {
	DeviceID   string          `json:"deviceId"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	OpKind     string          `json:"opKind"`
	Payload    json.RawMessage `json:"payload"`
	SentAt     time.Time       `json:"sentAt"`
}

// ApplyResult is the remote's verdict on one envelope.
type ApplyResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
