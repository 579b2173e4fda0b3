package sync

import (
	"encoding/json"
	"fmt"
	"time"

	"kiranapos/internal/domain/outbox"
)

// Codec turns stored outbox entries into transport envelopes. A decode
// failure means the entry can never be sent, so the engine fails it
// without touching the network.
type Codec struct {
	deviceID string
}

// NewCodec creates a codec stamping envelopes with this device's id.
func NewCodec(deviceID string) *Codec {
	return &Codec{deviceID: deviceID}
}

// Decode validates an entry and builds its envelope.
func (c *Codec) Decode(e *outbox.Entry) (*Envelope, error) {
	if !outbox.KnownEntity(e.EntityType) {
		return nil, fmt.Errorf("unknown entity type %q", e.EntityType)
	}
	if !outbox.KnownOp(e.Kind) {
		return nil, fmt.Errorf("unknown op kind %q", e.Kind)
	}
	if len(e.Payload) == 0 || !json.Valid(e.Payload) {
		return nil, fmt.Errorf("entry %d has malformed payload", e.ID)
	}

	return &Envelope{
		DeviceID:   c.deviceID,
		EntityType: string(e.EntityType),
		EntityID:   e.EntityID,
		OpKind:     string(e.Kind),
		Payload:    json.RawMessage(e.Payload),
		SentAt:     time.Now(),
	}, nil
}
