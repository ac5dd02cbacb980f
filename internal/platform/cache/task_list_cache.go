// Package cache provides a Redis-backed read-through cache for task
// listings. The board UI refetches the full board after every change, so
// caching the hot list queries takes the repeated read load off Postgres.
// Every mutation invalidates all cached listings; a stale entry can never
// outlive its short TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kanbanlab/taskboard-api/internal/domain"
	"github.com/kanbanlab/taskboard-api/internal/platform/logger"
	"github.com/kanbanlab/taskboard-api/internal/store"
)

const listKeyPrefix = "tasks:list:"

// TaskListCache caches task list pages (items plus total match count) in Redis.
type TaskListCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewTaskListCache returns a new TaskListCache.
// If logger is nil, a default logger will be used.
func NewTaskListCache(rdb *redis.Client, ttl time.Duration, log *slog.Logger) *TaskListCache {
	if rdb == nil {
		panic("rdb cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &TaskListCache{
		rdb:    rdb,
		ttl:    ttl,
		logger: log.With(slog.String("component", "task_list_cache")),
	}
}

// cachedPage is the stored representation of one list result.
type cachedPage struct {
	Tasks []*domain.Task `json:"tasks"`
	Total int            `json:"total"`
}

// GetList returns the cached page for the given query, or ok=false on a miss.
func (c *TaskListCache) GetList(ctx context.Context, q store.TaskQuery) ([]*domain.Task, int, bool, error) {
	b, err := c.rdb.Get(ctx, listKey(q)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}

	var page cachedPage
	if err := json.Unmarshal(b, &page); err != nil {
		return nil, 0, false, err
	}
	return page.Tasks, page.Total, true, nil
}

// SetList stores a page result under the query's canonical key.
func (c *TaskListCache) SetList(ctx context.Context, q store.TaskQuery, tasks []*domain.Task, total int) error {
	b, err := json.Marshal(cachedPage{Tasks: tasks, Total: total})
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(q), b, c.ttl).Err()
}

// Invalidate drops every cached listing. Called after each mutation so
// readers never see a stale board beyond the in-flight requests.
func (c *TaskListCache) Invalidate(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	iter := c.rdb.Scan(ctx, 0, listKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return err
	}

	log.Debug("invalidated cached task listings", slog.Int("keys", len(keys)))
	return nil
}

// listKey derives a canonical cache key from a normalized query plan.
// Two requests that normalize to the same plan share one cache entry.
func listKey(q store.TaskQuery) string {
	return fmt.Sprintf("%s%s|%s|%s|%s|%s|%s|%d|%d",
		listKeyPrefix,
		q.Status,
		q.Keywords,
		formatBound(q.DueFrom),
		formatBound(q.DueBefore),
		q.SortBy,
		strconv.FormatBool(q.SortDesc),
		q.Offset,
		q.Limit,
	)
}

func formatBound(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
