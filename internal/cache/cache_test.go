package cache

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"taskboard/internal/domain"
)

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestTaskCacheIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}

	c := New(addr, os.Getenv("REDIS_PASSWORD"), db, 10*time.Second)
	if !c.enabled() {
		t.Fatal("cache did not connect")
	}

	ctx := context.Background()
	user := "cache_test_user"

	page := &domain.TaskPage{
		Tasks:      []*domain.Task{{ID: 1, Title: "cached", UserID: user}},
		Pagination: domain.Pagination{Page: 1, Limit: 10, Total: 1, TotalPages: 1},
	}

	if got := c.GetList(ctx, user, "", "all", 1, 10); got != nil {
		c.Invalidate(ctx, user, 0)
	}

	c.SetList(ctx, user, "", "all", 1, 10, page)
	got := c.GetList(ctx, user, "", "all", 1, 10)
	if got == nil || len(got.Tasks) != 1 || got.Tasks[0].Title != "cached" {
		t.Fatalf("expected cached page, got %+v", got)
	}

	// different filter tuple misses
	if got := c.GetList(ctx, user, "milk", "all", 1, 10); got != nil {
		t.Fatal("expected miss for different filter tuple")
	}

	// invalidation orphans every list entry for the user
	c.Invalidate(ctx, user, 1)
	if got := c.GetList(ctx, user, "", "all", 1, 10); got != nil {
		t.Fatal("expected miss after invalidation")
	}
}

func TestDisabledCacheIsNoop(t *testing.T) {
	c := New("", "", 0, time.Minute)
	ctx := context.Background()

	c.SetList(ctx, "u", "", "all", 1, 10, &domain.TaskPage{})
	if got := c.GetList(ctx, "u", "", "all", 1, 10); got != nil {
		t.Fatal("disabled cache returned a value")
	}
	c.SetDetail(ctx, "u", &domain.Task{ID: 1})
	if got := c.GetDetail(ctx, "u", 1); got != nil {
		t.Fatal("disabled cache returned a value")
	}
	c.Invalidate(ctx, "u", 1)
}
