package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

const projectListKey = "projects:all"

type projectCache struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewProjectCache caches the full project listing under a single key.
func NewProjectCache(client *redislib.Client, prefix string, ttl time.Duration) repository.ProjectCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &projectCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *projectCache) GetProjects(ctx context.Context) ([]domain.Project, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+projectListKey).Bytes()
	if err != nil {
		if err == redislib.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get error: %w", err)
	}

	var projects []domain.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, false, fmt.Errorf("cache unmarshal error: %w", err)
	}
	return projects, true, nil
}

func (c *projectCache) SetProjects(ctx context.Context, projects []domain.Project) error {
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+projectListKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

func (c *projectCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.prefix+projectListKey).Err(); err != nil {
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}
