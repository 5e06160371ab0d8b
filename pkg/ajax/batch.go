package ajax

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Batch wraps a rendered command sequence for distribution on the bus.
// Commands holds the exact JSON array the originating response carried.
type Batch struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	Source    string          `json:"source"`
	Timestamp int64           `json:"timestamp"`
	Commands  json.RawMessage `json:"commands"`
	Signature string          `json:"signature,omitempty"`
}

// NewBatch renders commands and wraps them in a Batch with a generated ID
// and current timestamp.
func NewBatch(action, source string, commands []Command) (Batch, error) {
	body, err := Render(commands)
	if err != nil {
		return Batch{}, err
	}
	return Batch{
		ID:        "bat_" + uuid.NewString(),
		Action:    action,
		Source:    source,
		Timestamp: time.Now().Unix(),
		Commands:  body,
	}, nil
}
