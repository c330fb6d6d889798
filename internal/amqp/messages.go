package amqp

import (
	"encoding/json"
	"time"
)

// MovementSyncMessage asks the worker to re-sync a single movement.
// It carries only the ID and version; the worker fetches the full record
// from the database. Deleted marks a removal instead of an upsert.
type MovementSyncMessage struct {
	ID        string    `json:"id"`
	Version   int64     `json:"version"`
	Deleted   bool      `json:"deleted,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMovementSyncMessage(id string, version int64) *MovementSyncMessage {
	return &MovementSyncMessage{
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func NewMovementDeleteMessage(id string, version int64) *MovementSyncMessage {
	return &MovementSyncMessage{
		ID:        id,
		Version:   version,
		Deleted:   true,
		Timestamp: time.Now(),
	}
}

func (m *MovementSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MovementSyncMessageFromJSON(data []byte) (*MovementSyncMessage, error) {
	var msg MovementSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
