package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ScoreboardWindow is the minimum interval between successive
// scoreboard_update dispatches.
const ScoreboardWindow = 5 * time.Minute

// Debouncer rate-limits high-frequency event kinds to one dispatch per
// fixed window. The window is held as a Redis key with a TTL and claimed
// with SET NX, so concurrent triggers across worker processes cannot both
// pass the check. The claim is recorded on the dispatch attempt, not on
// delivery success.
type Debouncer struct {
	redisClient *redis.Client
	logger      *slog.Logger
	window      time.Duration
}

func NewDebouncer(redisClient *redis.Client, logger *slog.Logger, window time.Duration) *Debouncer {
	return &Debouncer{
		redisClient: redisClient,
		logger:      logger,
		window:      window,
	}
}

func debounceKey(kind string) string {
	return fmt.Sprintf("debounce:%s", kind)
}

// ShouldFire reports whether a dispatch of kind is allowed now. A true
// result also starts the suppression window. Fails open if Redis is
// unavailable: a duplicate dispatch beats a silently dropped one.
func (d *Debouncer) ShouldFire(ctx context.Context, kind string) bool {
	ok, err := d.redisClient.SetNX(ctx, debounceKey(kind),
		time.Now().UTC().Format(time.RFC3339), d.window).Result()
	if err != nil {
		d.logger.Warn("debounce check failed, allowing dispatch", "kind", kind, "error", err)
		return true
	}

	if !ok {
		d.logger.Debug("dispatch suppressed by debounce window", "kind", kind, "window", d.window)
	}
	return ok
}
