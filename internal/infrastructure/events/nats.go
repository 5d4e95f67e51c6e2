// Package events publishes task status changes on NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/usecase"
)

const HeaderTaskID = "Task-Id"

// Connect dials NATS with reconnects enabled. Publishing never blocks on an
// outage: messages are buffered by the client while it reconnects.
func Connect(url, name string, logger *zap.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}

// Publisher sends each StatusChange to <subject>.<new status>, e.g.
// taskboard.task.status.vencida.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

func NewPublisher(nc *nats.Conn, subject string) *Publisher {
	if subject == "" {
		subject = "taskboard.task.status"
	}
	return &Publisher{nc: nc, subject: subject}
}

// Subject returns the subject a change with the given target status goes to.
func (p *Publisher) Subject(to domain.TaskStatus) string {
	return p.subject + "." + strings.ToLower(string(to))
}

func (p *Publisher) PublishStatusChange(ctx context.Context, change domain.StatusChange) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("failed to marshal status change: %w", err)
	}
	msg := nats.NewMsg(p.Subject(change.To))
	msg.Header.Set(HeaderTaskID, change.TaskID)
	msg.Data = data
	if err := p.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish status change: %w", err)
	}
	return nil
}

var _ usecase.StatusPublisher = (*Publisher)(nil)
