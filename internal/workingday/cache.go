package workingday

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"sgprep/internal/operation"
)

// Redis key prefix for cached working-day answers.
const cacheKeyPrefix = "wd:"

// CachedOracle wraps an oracle with a Redis cache. Both positive and negative
// answers are cached; a cache failure degrades to a direct lookup rather than
// failing the validation.
type CachedOracle struct {
	next   operation.WorkingDayOracle
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedOracle(next operation.WorkingDayOracle, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedOracle {
	return &CachedOracle{next: next, client: client, ttl: ttl, logger: logger}
}

func (c *CachedOracle) IsWorkingDay(ctx context.Context, opNumber string, date time.Time) (bool, error) {
	key := cacheKeyPrefix + opNumber + ":" + date.Format(dateLayout)

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		return cached == "1", nil
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "working-day cache read failed, falling through",
			"key", key,
			"error", err,
		)
	}

	working, err := c.next.IsWorkingDay(ctx, opNumber, date)
	if err != nil {
		return false, err
	}

	value := "0"
	if working {
		value = "1"
	}
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "working-day cache write failed",
			"key", key,
			"error", err,
		)
	}
	return working, nil
}
