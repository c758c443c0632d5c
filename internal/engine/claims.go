package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ClaimStore hands out one-shot claims backed by Redis SET NX. A claim
// succeeds exactly once per key across all worker processes, which
// serializes the race-prone check-then-fire sequences: two simultaneous
// first solves of the same challenge can both observe solve count 1, but
// only one of them wins the claim.
type ClaimStore struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

func NewClaimStore(redisClient *redis.Client, logger *slog.Logger) *ClaimStore {
	return &ClaimStore{redisClient: redisClient, logger: logger}
}

// ClaimFirstBlood acquires the per-challenge first-blood claim. The key has
// no expiry; a challenge only ever has one first blood.
func (c *ClaimStore) ClaimFirstBlood(ctx context.Context, challengeID int64) bool {
	return c.claim(ctx, fmt.Sprintf("firstblood:%d", challengeID))
}

// ClaimCTFStartAnnounce acquires the one-shot claim for announcing that the
// CTF has started.
func (c *ClaimStore) ClaimCTFStartAnnounce(ctx context.Context) bool {
	return c.claim(ctx, "ctf_started:announced")
}

func (c *ClaimStore) claim(ctx context.Context, key string) bool {
	ok, err := c.redisClient.SetNX(ctx, key,
		time.Now().UTC().Format(time.RFC3339), 0).Result()
	if err != nil {
		// Fail open: without Redis we fall back to the caller's own check,
		// accepting a possible duplicate fire.
		c.logger.Warn("claim check failed, allowing", "key", key, "error", err)
		return true
	}
	return ok
}
