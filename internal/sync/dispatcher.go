package sync

import (
	"fmt"

	"kiranapos/internal/domain/outbox"
)

// Preview renders a one-line human-readable description of an entry, used
// by logs and the queue inspection surface.
func Preview(e *outbox.Entry) string {
	return fmt.Sprintf("%s %s %s (%d bytes)", e.Kind, e.EntityType, e.EntityID, len(e.Payload))
}
