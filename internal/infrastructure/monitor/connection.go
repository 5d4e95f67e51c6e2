package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/internal/infrastructure/buffer"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Option func(*Monitor)

func WithPostgres(p Pinger) Option {
	return func(m *Monitor) {
		if p != nil {
			m.pg = p.Ping
		}
	}
}

func WithRedis(c *redislib.Client) Option {
	return func(m *Monitor) {
		if c != nil {
			m.redis = func(ctx context.Context) error { return c.Ping(ctx).Err() }
		}
	}
}

func WithNATS(nc *nats.Conn) Option {
	return func(m *Monitor) {
		if nc != nil {
			m.nats = nc.IsConnected
		}
	}
}

func WithBuffer(b *buffer.Store) Option {
	return func(m *Monitor) { m.buffer = b }
}

// Monitor periodically pings the backing services. Only Postgres decides
// whether the service is online: Redis and NATS are optional accelerators.
type Monitor struct {
	pg     func(ctx context.Context) error
	redis  func(ctx context.Context) error
	nats   func() bool
	buffer *buffer.Store

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(interval time.Duration, logger *zap.Logger, opts ...Option) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Monitor{
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// IsOnline reports whether the primary store answered the last ping. Without
// Postgres (memory driver) the service is always online.
func (m *Monitor) IsOnline() bool {
	if m.pg == nil {
		return true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.PostgreSQL
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Refresh(context.Background())
	for {
		select {
		case <-ticker.C:
			m.Refresh(context.Background())
		case <-m.stopCh:
			return
		}
	}
}

// Refresh probes every configured component now and stores the result.
func (m *Monitor) Refresh(ctx context.Context) Status {
	var disabled []string
	probe := func(name string, fn func(context.Context) error, timeout time.Duration) bool {
		if fn == nil {
			disabled = append(disabled, name)
			return false
		}
		pctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := fn(pctx); err != nil {
			m.logger.Debug("dependency check failed", zap.String("component", name), zap.Error(err))
			return false
		}
		return true
	}

	status := Status{
		PostgreSQL: probe("postgresql", m.pg, 3*time.Second),
		Redis:      probe("redis", m.redis, 2*time.Second),
		LastCheck:  time.Now(),
	}
	if m.nats != nil {
		status.NATS = m.nats()
	} else {
		disabled = append(disabled, "nats")
	}
	status.Buffer, status.BufferSize = m.checkBuffer()
	if m.buffer == nil {
		disabled = append(disabled, "buffer")
	}
	status.Disabled = disabled
	status.Online = m.pg == nil || status.PostgreSQL

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
	return status
}

func (m *Monitor) checkBuffer() (bool, int) {
	if m.buffer == nil {
		return false, 0
	}
	size, err := m.buffer.Len()
	if err != nil {
		m.logger.Warn("buffer size check failed", zap.Error(err))
		return false, size
	}
	return true, size
}
