package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	id "presensi/pkg/domain"
)

// StatusCache keeps the day-status read model in Redis with a short TTL.
// The cache is strictly an accelerator: every failure degrades to the store
// lookup, and every accepted mutation invalidates the user's entry.
type StatusCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewStatusCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *StatusCache {
	return &StatusCache{client: client, ttl: ttl, logger: logger}
}

func statusKey(userID id.UserID, date string) string {
	return fmt.Sprintf("attendance:status:%s:%s", userID.String(), date)
}

func (c *StatusCache) Get(ctx context.Context, userID id.UserID, date string) (DayStatus, bool) {
	if c == nil || c.client == nil {
		return DayStatus{}, false
	}
	raw, err := c.client.Get(ctx, statusKey(userID, date)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "status cache read failed", "error", err)
		}
		return DayStatus{}, false
	}
	var status DayStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		c.logger.WarnContext(ctx, "status cache entry corrupt", "error", err)
		return DayStatus{}, false
	}
	return status, true
}

func (c *StatusCache) Set(ctx context.Context, userID id.UserID, status DayStatus) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(status)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statusKey(userID, status.Date), raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "status cache write failed", "error", err)
	}
}

func (c *StatusCache) Invalidate(ctx context.Context, userID id.UserID, date string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, statusKey(userID, date)).Err(); err != nil {
		c.logger.WarnContext(ctx, "status cache invalidation failed", "error", err)
	}
}
