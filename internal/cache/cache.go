// Package cache is a redis-backed response cache for task reads.
// List entries are keyed by the full filter tuple plus a per-user
// version counter; a mutation bumps the counter, which orphans every
// list entry for that user at once, and deletes the detail entry for
// the touched id. Redis being down or unconfigured makes every lookup
// a miss.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taskboard/internal/domain"

	redis "github.com/redis/go-redis/v9"
)

type TaskCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to redis at addr. An empty addr or a failed ping
// returns a disabled cache; callers never need to check.
func New(addr, password string, db int, ttl time.Duration) *TaskCache {
	c := &TaskCache{ttl: ttl}
	if addr == "" || ttl <= 0 {
		return c
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return c
	}
	c.client = client
	return c
}

func (c *TaskCache) enabled() bool { return c != nil && c.client != nil }

func versionKey(userID string) string { return "tasks:ver:" + userID }

func detailKey(userID string, id int64) string {
	return fmt.Sprintf("tasks:detail:%s:%d", userID, id)
}

func (c *TaskCache) version(ctx context.Context, userID string) int64 {
	v, err := c.client.Get(ctx, versionKey(userID)).Int64()
	if err != nil {
		return 0
	}
	return v
}

func (c *TaskCache) listKey(ctx context.Context, userID, text, filter string, page, limit int) string {
	return fmt.Sprintf("tasks:list:%s:%d:%s:%s:%d:%d",
		userID, c.version(ctx, userID), text, filter, page, limit)
}

// GetList returns the cached page for the filter tuple, or nil.
func (c *TaskCache) GetList(ctx context.Context, userID, text, filter string, page, limit int) *domain.TaskPage {
	if !c.enabled() {
		return nil
	}
	raw, err := c.client.Get(ctx, c.listKey(ctx, userID, text, filter, page, limit)).Bytes()
	if err != nil {
		return nil
	}
	var tp domain.TaskPage
	if err := json.Unmarshal(raw, &tp); err != nil {
		return nil
	}
	return &tp
}

func (c *TaskCache) SetList(ctx context.Context, userID, text, filter string, page, limit int, tp *domain.TaskPage) {
	if !c.enabled() || tp == nil {
		return
	}
	raw, err := json.Marshal(tp)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.listKey(ctx, userID, text, filter, page, limit), raw, c.ttl)
}

// GetDetail returns the cached task, or nil on any miss.
func (c *TaskCache) GetDetail(ctx context.Context, userID string, id int64) *domain.Task {
	if !c.enabled() {
		return nil
	}
	raw, err := c.client.Get(ctx, detailKey(userID, id)).Bytes()
	if err != nil {
		return nil
	}
	var t domain.Task
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil
	}
	return &t
}

func (c *TaskCache) SetDetail(ctx context.Context, userID string, t *domain.Task) {
	if !c.enabled() || t == nil {
		return
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return
	}
	c.client.Set(ctx, detailKey(userID, t.ID), raw, c.ttl)
}

// Invalidate drops every list entry for the user and the detail entry
// for id. Called after each successful mutation.
func (c *TaskCache) Invalidate(ctx context.Context, userID string, id int64) {
	if !c.enabled() {
		return
	}
	c.client.Incr(ctx, versionKey(userID))
	if id != 0 {
		c.client.Del(ctx, detailKey(userID, id))
	}
}
