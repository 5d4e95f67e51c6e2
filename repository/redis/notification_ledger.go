package redis

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

type notificationLedger struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewNotificationLedger stores one Redis set per session. The set expires
// ttl after the last write so abandoned sessions clean themselves up.
func NewNotificationLedger(client *redislib.Client, ttl time.Duration) repository.NotificationLedger {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &notificationLedger{
		client: client,
		prefix: "notified:",
		ttl:    ttl,
	}
}

func (l *notificationLedger) Shown(ctx context.Context, sessionID string) (map[string]bool, error) {
	if sessionID == "" {
		return nil, domain.ErrInvalidPayload
	}
	members, err := l.client.SMembers(ctx, l.key(sessionID)).Result()
	if err != nil {
		return nil, domain.Unavailable(err)
	}
	shown := make(map[string]bool, len(members))
	for _, m := range members {
		shown[m] = true
	}
	return shown, nil
}

func (l *notificationLedger) MarkShown(ctx context.Context, sessionID string, keys ...string) error {
	if sessionID == "" {
		return domain.ErrInvalidPayload
	}
	if len(keys) == 0 {
		return nil
	}
	members := make([]interface{}, len(keys))
	for i, k := range keys {
		members[i] = k
	}

	pipe := l.client.TxPipeline()
	pipe.SAdd(ctx, l.key(sessionID), members...)
	pipe.Expire(ctx, l.key(sessionID), l.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.Unavailable(err)
	}
	return nil
}

func (l *notificationLedger) key(sessionID string) string {
	return fmt.Sprintf("%s%s", l.prefix, sessionID)
}
