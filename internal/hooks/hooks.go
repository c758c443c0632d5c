package hooks

import (
	"context"
	"log/slog"

	"github.com/Babidiii/webhoogz/internal/domain"
	"github.com/Babidiii/webhoogz/internal/engine"
	"github.com/Babidiii/webhoogz/internal/events"
)

// GameQuery is the slice of the host platform the trigger layer reads.
type GameQuery interface {
	ChallengeByID(ctx context.Context, id int64) (*domain.Challenge, error)
	TeamByID(ctx context.Context, id int64) (*domain.Team, error)
	SolveByID(ctx context.Context, id int64) (*domain.Solve, error)
	SolveCountForChallenge(ctx context.Context, challengeID int64) (int, error)
	CTFStarted(ctx context.Context) (bool, error)
}

// Dispatcher is what hooks hand finished payloads to.
type Dispatcher interface {
	Dispatch(ctx context.Context, kind string, payload any)
}

// Hooks are the entry points the host invokes after a row is durably
// committed. Every failure inside a hook is logged and swallowed: a broken
// webhook must never fail a challenge, solve, or team creation.
type Hooks struct {
	registry   *events.Registry
	dispatcher Dispatcher
	game       GameQuery
	debouncer  *engine.Debouncer
	claims     *engine.ClaimStore
	logger     *slog.Logger
}

func New(registry *events.Registry, dispatcher Dispatcher, game GameQuery, debouncer *engine.Debouncer, claims *engine.ClaimStore, logger *slog.Logger) *Hooks {
	return &Hooks{
		registry:   registry,
		dispatcher: dispatcher,
		game:       game,
		debouncer:  debouncer,
		claims:     claims,
		logger:     logger,
	}
}

// ChallengeCreated fires challenge_created for a newly committed challenge.
func (h *Hooks) ChallengeCreated(ctx context.Context, challengeID int64) {
	challenge, err := h.game.ChallengeByID(ctx, challengeID)
	if err != nil {
		h.logger.Error("challenge lookup failed, skipping webhook", "challenge_id", challengeID, "error", err)
		return
	}
	h.fire(ctx, "challenge_created", events.EventContext{Challenge: challenge})
}

// TeamCreated fires team_created for a newly committed team.
func (h *Hooks) TeamCreated(ctx context.Context, teamID int64) {
	team, err := h.game.TeamByID(ctx, teamID)
	if err != nil {
		h.logger.Error("team lookup failed, skipping webhook", "team_id", teamID, "error", err)
		return
	}
	h.fire(ctx, "team_created", events.EventContext{Team: team})
}

// SolveInserted runs every solve-adjacent trigger for a newly committed
// solve: challenge_solved always, ctf_started once after the competition
// begins, firstblood for the first-ever solve of the challenge, and a
// debounced scoreboard_update.
func (h *Hooks) SolveInserted(ctx context.Context, solveID int64) {
	solve, err := h.game.SolveByID(ctx, solveID)
	if err != nil {
		h.logger.Error("solve lookup failed, skipping webhooks", "solve_id", solveID, "error", err)
		return
	}

	h.fire(ctx, "challenge_solved", events.EventContext{Solve: solve})
	h.announceStartOnce(ctx)
	h.fireFirstBlood(ctx, solve)
	h.fireScoreboardDebounced(ctx)
}

func (h *Hooks) announceStartOnce(ctx context.Context) {
	started, err := h.game.CTFStarted(ctx)
	if err != nil {
		h.logger.Error("ctf start check failed", "error", err)
		return
	}
	if !started || !h.claims.ClaimCTFStartAnnounce(ctx) {
		return
	}
	h.fire(ctx, "ctf_started", events.EventContext{})
}

// fireFirstBlood fires iff this solve is the first-ever solve row for its
// challenge. The count check mirrors the trigger rule; the claim makes it
// at-most-once when two first solves race.
func (h *Hooks) fireFirstBlood(ctx context.Context, solve *domain.Solve) {
	count, err := h.game.SolveCountForChallenge(ctx, solve.ChallengeID)
	if err != nil {
		h.logger.Error("solve count failed, skipping firstblood check",
			"challenge_id", solve.ChallengeID, "error", err)
		return
	}
	if count != 1 {
		return
	}
	if !h.claims.ClaimFirstBlood(ctx, solve.ChallengeID) {
		h.logger.Info("firstblood already claimed", "challenge_id", solve.ChallengeID)
		return
	}
	h.fire(ctx, "firstblood", events.EventContext{Solve: solve})
}

// fireScoreboardDebounced skips the payload build entirely on the
// suppressed path; standings queries are the expensive part.
func (h *Hooks) fireScoreboardDebounced(ctx context.Context) {
	if !h.debouncer.ShouldFire(ctx, "scoreboard_update") {
		return
	}
	h.fire(ctx, "scoreboard_update", events.EventContext{})
}

func (h *Hooks) fire(ctx context.Context, kind string, ec events.EventContext) {
	payload, err := h.registry.BuildPayload(ctx, kind, ec)
	if err != nil {
		h.logger.Error("payload build failed, skipping dispatch", "kind", kind, "error", err)
		return
	}
	h.dispatcher.Dispatch(ctx, kind, payload)
}
