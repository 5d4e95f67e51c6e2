package memory

import (
	"context"
	"sync"

	"github.com/fastygo/taskboard/domain"
)

// Ledger is the process-local NotificationLedger used when Redis is off.
// Entries live until the process exits.
type Ledger struct {
	mu       sync.Mutex
	sessions map[string]map[string]bool
}

func NewLedger() *Ledger {
	return &Ledger{sessions: make(map[string]map[string]bool)}
}

func (l *Ledger) Shown(ctx context.Context, sessionID string) (map[string]bool, error) {
	if sessionID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]bool, len(l.sessions[sessionID]))
	for k := range l.sessions[sessionID] {
		out[k] = true
	}
	return out, nil
}

func (l *Ledger) MarkShown(ctx context.Context, sessionID string, keys ...string) error {
	if sessionID == "" {
		return domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	set, ok := l.sessions[sessionID]
	if !ok {
		set = make(map[string]bool, len(keys))
		l.sessions[sessionID] = set
	}
	for _, k := range keys {
		set[k] = true
	}
	return nil
}
