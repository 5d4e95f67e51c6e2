package buffer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EntityProject = "project"
	EntityTask    = "task"
)

// Item is a write that could not reach the primary store. Items are replayed
// in the order they were enqueued.
type Item struct {
	ID        string          `json:"id"`
	Entity    string          `json:"entity"`
	Operation string          `json:"operation"`
	EntityID  string          `json:"entityId,omitempty"`
	RequestID string          `json:"requestId,omitempty"`
	Data      json.RawMessage `json:"data"`
	Attempts  int             `json:"attempts"`
	QueuedAt  time.Time       `json:"queuedAt"`

	key []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.QueuedAt.IsZero() {
		i.QueuedAt = time.Now()
	}
}
