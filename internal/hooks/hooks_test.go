package hooks

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Babidiii/webhoogz/internal/domain"
	"github.com/Babidiii/webhoogz/internal/engine"
	"github.com/Babidiii/webhoogz/internal/events"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// recordingDispatcher captures dispatched kinds in order.
type recordingDispatcher struct {
	mu    sync.Mutex
	kinds []string
}

func (r *recordingDispatcher) Dispatch(ctx context.Context, kind string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, kind)
}

func (r *recordingDispatcher) count(kind string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, k := range r.kinds {
		if k == kind {
			n++
		}
	}
	return n
}

// fakeGame backs both the hook layer and the payload builders.
type fakeGame struct {
	challenges map[int64]*domain.Challenge
	users      map[int64]*domain.User
	teams      map[int64]*domain.Team
	solves     map[int64]*domain.Solve
	solveCount map[int64]int
	started    bool
	teamsMode  bool
}

var errMissing = errors.New("missing row")

func (f *fakeGame) ChallengeByID(ctx context.Context, id int64) (*domain.Challenge, error) {
	if c, ok := f.challenges[id]; ok {
		return c, nil
	}
	return nil, errMissing
}

func (f *fakeGame) UserByID(ctx context.Context, id int64) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errMissing
}

func (f *fakeGame) TeamByID(ctx context.Context, id int64) (*domain.Team, error) {
	if tm, ok := f.teams[id]; ok {
		return tm, nil
	}
	return nil, errMissing
}

func (f *fakeGame) SolveByID(ctx context.Context, id int64) (*domain.Solve, error) {
	if s, ok := f.solves[id]; ok {
		return s, nil
	}
	return nil, errMissing
}

func (f *fakeGame) SolveCountForChallenge(ctx context.Context, challengeID int64) (int, error) {
	return f.solveCount[challengeID], nil
}

func (f *fakeGame) CTFStarted(ctx context.Context) (bool, error) { return f.started, nil }

func (f *fakeGame) UserCount(ctx context.Context) (int, error) { return len(f.users), nil }

func (f *fakeGame) TeamCount(ctx context.Context) (int, error) { return len(f.teams), nil }

func (f *fakeGame) TeamsMode(ctx context.Context) (bool, error) { return f.teamsMode, nil }

func (f *fakeGame) Standings(ctx context.Context, count int) ([]domain.Standing, error) {
	return []domain.Standing{}, nil
}

func newTestGame() *fakeGame {
	return &fakeGame{
		challenges: map[int64]*domain.Challenge{
			1: {ID: 1, Name: "BOF 1", Category: "pwn", Value: 100},
		},
		users: map[int64]*domain.User{
			10: {ID: 10, Name: "alice"},
		},
		teams: map[int64]*domain.Team{
			20: {ID: 20, Name: "hackers", Created: time.Now().UTC()},
		},
		solves: map[int64]*domain.Solve{
			100: {ID: 100, ChallengeID: 1, UserID: 10, Date: time.Now().UTC()},
			101: {ID: 101, ChallengeID: 1, UserID: 10, Date: time.Now().UTC()},
		},
		solveCount: map[int64]int{},
		started:    true,
	}
}

func setupHooks(t *testing.T, game *fakeGame) (*Hooks, *recordingDispatcher, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	registry := events.NewRegistry()
	events.RegisterBuiltins(registry, game)

	dispatcher := &recordingDispatcher{}
	debouncer := engine.NewDebouncer(client, logger, 5*time.Minute)
	claims := engine.NewClaimStore(client, logger)

	return New(registry, dispatcher, game, debouncer, claims, logger), dispatcher, mr
}

func TestChallengeCreated(t *testing.T) {
	h, d, _ := setupHooks(t, newTestGame())

	h.ChallengeCreated(context.Background(), 1)

	if d.count("challenge_created") != 1 {
		t.Errorf("expected 1 challenge_created dispatch, got %d", d.count("challenge_created"))
	}
}

func TestChallengeCreated_UnknownID(t *testing.T) {
	h, d, _ := setupHooks(t, newTestGame())

	h.ChallengeCreated(context.Background(), 999)

	if len(d.kinds) != 0 {
		t.Errorf("unknown challenge id should dispatch nothing, got %v", d.kinds)
	}
}

func TestTeamCreated(t *testing.T) {
	h, d, _ := setupHooks(t, newTestGame())

	h.TeamCreated(context.Background(), 20)

	if d.count("team_created") != 1 {
		t.Errorf("expected 1 team_created dispatch, got %d", d.count("team_created"))
	}
}

func TestSolveInserted_FirstSolve(t *testing.T) {
	game := newTestGame()
	game.solveCount[1] = 1 // the triggering solve is the first row
	h, d, _ := setupHooks(t, game)

	h.SolveInserted(context.Background(), 100)

	if d.count("challenge_solved") != 1 {
		t.Errorf("expected challenge_solved, got %v", d.kinds)
	}
	if d.count("firstblood") != 1 {
		t.Errorf("expected firstblood on the first solve, got %v", d.kinds)
	}
	if d.count("ctf_started") != 1 {
		t.Errorf("expected ctf_started announcement, got %v", d.kinds)
	}
	if d.count("scoreboard_update") != 1 {
		t.Errorf("expected scoreboard_update, got %v", d.kinds)
	}
}

func TestSolveInserted_SecondSolve_NoFirstblood(t *testing.T) {
	game := newTestGame()
	game.solveCount[1] = 1
	h, d, _ := setupHooks(t, game)

	h.SolveInserted(context.Background(), 100)
	game.solveCount[1] = 2
	h.SolveInserted(context.Background(), 101)

	if d.count("firstblood") != 1 {
		t.Errorf("firstblood must fire exactly once per challenge, got %d", d.count("firstblood"))
	}
	if d.count("challenge_solved") != 2 {
		t.Errorf("every solve should fire challenge_solved, got %d", d.count("challenge_solved"))
	}
}

func TestSolveInserted_FirstbloodClaimBlocksDoubleFire(t *testing.T) {
	// Two solves that both observe count==1, as in a concurrent race
	game := newTestGame()
	game.solveCount[1] = 1
	h, d, _ := setupHooks(t, game)

	h.SolveInserted(context.Background(), 100)
	h.SolveInserted(context.Background(), 101)

	if d.count("firstblood") != 1 {
		t.Errorf("claim should allow only one firstblood when both observe count==1, got %d", d.count("firstblood"))
	}
}

func TestSolveInserted_CTFStartAnnouncedOnce(t *testing.T) {
	game := newTestGame()
	game.solveCount[1] = 1
	h, d, _ := setupHooks(t, game)

	h.SolveInserted(context.Background(), 100)
	game.solveCount[1] = 2
	h.SolveInserted(context.Background(), 101)

	if d.count("ctf_started") != 1 {
		t.Errorf("ctf_started must be announced once, got %d", d.count("ctf_started"))
	}
}

func TestSolveInserted_BeforeCTFStart_NoAnnouncement(t *testing.T) {
	game := newTestGame()
	game.started = false
	game.solveCount[1] = 1
	h, d, _ := setupHooks(t, game)

	h.SolveInserted(context.Background(), 100)

	if d.count("ctf_started") != 0 {
		t.Errorf("ctf_started must not fire before the start time, got %d", d.count("ctf_started"))
	}
}

func TestSolveInserted_ScoreboardDebounced(t *testing.T) {
	game := newTestGame()
	game.solveCount[1] = 1
	h, d, mr := setupHooks(t, game)

	h.SolveInserted(context.Background(), 100)

	// 2 minutes later: suppressed
	mr.FastForward(2 * time.Minute)
	game.solveCount[1] = 2
	h.SolveInserted(context.Background(), 101)

	if d.count("scoreboard_update") != 1 {
		t.Errorf("scoreboard_update inside the window should be suppressed, got %d", d.count("scoreboard_update"))
	}

	// 6 minutes after the first: fires again
	mr.FastForward(4 * time.Minute)
	h.SolveInserted(context.Background(), 101)

	if d.count("scoreboard_update") != 2 {
		t.Errorf("scoreboard_update after the window should fire, got %d", d.count("scoreboard_update"))
	}
}

func TestSolveInserted_UnknownSolve_NothingFires(t *testing.T) {
	h, d, _ := setupHooks(t, newTestGame())

	h.SolveInserted(context.Background(), 999)

	if len(d.kinds) != 0 {
		t.Errorf("unknown solve id should dispatch nothing, got %v", d.kinds)
	}
}
