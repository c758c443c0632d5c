package engine

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestDebouncer(t *testing.T, window time.Duration) (*Debouncer, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewDebouncer(client, logger, window), mr
}

func TestDebouncer_FiveMinuteWindow(t *testing.T) {
	d, mr := setupTestDebouncer(t, 5*time.Minute)
	ctx := context.Background()

	// t=0: fires
	if !d.ShouldFire(ctx, "scoreboard_update") {
		t.Error("first call should fire")
	}

	// t=2min: suppressed
	mr.FastForward(2 * time.Minute)
	if d.ShouldFire(ctx, "scoreboard_update") {
		t.Error("call inside the window should be suppressed")
	}

	// t=6min: fires again
	mr.FastForward(4 * time.Minute)
	if !d.ShouldFire(ctx, "scoreboard_update") {
		t.Error("call after the window should fire")
	}
}

func TestDebouncer_IndependentKinds(t *testing.T) {
	d, _ := setupTestDebouncer(t, 5*time.Minute)
	ctx := context.Background()

	if !d.ShouldFire(ctx, "scoreboard_update") {
		t.Error("first scoreboard_update should fire")
	}
	// A different kind has its own window
	if !d.ShouldFire(ctx, "other_kind") {
		t.Error("other kind should not share the scoreboard window")
	}
}

func TestDebouncer_FailsOpenWithoutRedis(t *testing.T) {
	d, mr := setupTestDebouncer(t, 5*time.Minute)
	mr.Close()

	if !d.ShouldFire(context.Background(), "scoreboard_update") {
		t.Error("debouncer should fail open when Redis is unreachable")
	}
}
