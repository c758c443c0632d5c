package events

import (
	"context"
	"fmt"
	"time"

	"github.com/Babidiii/webhoogz/internal/domain"
)

// StandingsCount is how many scoreboard rows a scoreboard_update carries.
const StandingsCount = 5

// GameQuery is the slice of the host platform the built-in payload builders
// read from. Solve-derived builders query users and challenges back by id,
// so the triggering rows must be committed before a hook fires.
type GameQuery interface {
	ChallengeByID(ctx context.Context, id int64) (*domain.Challenge, error)
	UserByID(ctx context.Context, id int64) (*domain.User, error)
	UserCount(ctx context.Context) (int, error)
	TeamCount(ctx context.Context) (int, error)
	Standings(ctx context.Context, count int) ([]domain.Standing, error)
	TeamsMode(ctx context.Context) (bool, error)
}

type ChallengeCreatedPayload struct {
	Challenge string `json:"challenge"`
	Category  string `json:"category"`
	Value     int    `json:"value"`
}

// SolvePayload is shared by firstblood and challenge_solved.
type SolvePayload struct {
	Category  string `json:"category"`
	Username  string `json:"username"`
	Challenge string `json:"challenge"`
	Timestamp string `json:"timestamp"`
}

type CTFStartedPayload struct {
	Status string `json:"status"`
}

type TeamRank struct {
	Rank     int    `json:"rank"`
	TeamID   int64  `json:"team_id"`
	TeamName string `json:"team_name"`
	Score    int    `json:"score"`
}

type UserRank struct {
	Rank     int    `json:"rank"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// ScoreboardPayload always carries both lists; exactly one is populated
// depending on the platform's teams-mode flag, the other stays empty.
type ScoreboardPayload struct {
	Timestamp  string     `json:"timestamp"`
	TotalTeams int        `json:"total_teams"`
	TotalUsers int        `json:"total_users"`
	TopTeams   []TeamRank `json:"top_teams"`
	TopUsers   []UserRank `json:"top_users"`
}

type TeamCreatedPayload struct {
	TeamName  string `json:"team_name"`
	Timestamp string `json:"timestamp"`
}

// RegisterBuiltins populates the registry with the six built-in event kinds.
// Called once at startup, before the dispatcher is reachable.
func RegisterBuiltins(r *Registry, game GameQuery) {
	r.Register(Definition{
		Kind:        "challenge_created",
		DisplayName: "Challenge Created",
		Description: "Triggered when a new challenge is created.",
		SampleData:  ChallengeCreatedPayload{Challenge: "BOF 1", Category: "pwn", Value: 100},
		Build: func(ctx context.Context, ec EventContext) (any, error) {
			if ec.Challenge == nil {
				return nil, fmt.Errorf("challenge_created: missing challenge")
			}
			return ChallengeCreatedPayload{
				Challenge: ec.Challenge.Name,
				Category:  ec.Challenge.Category,
				Value:     ec.Challenge.Value,
			}, nil
		},
	})

	r.Register(Definition{
		Kind:        "firstblood",
		DisplayName: "First Blood",
		Description: "Triggered when a challenge is solved for the first time.",
		SampleData: SolvePayload{
			Category:  "string",
			Username:  "string",
			Challenge: "string",
			Timestamp: "string (ISO)",
		},
		Build: func(ctx context.Context, ec EventContext) (any, error) {
			return buildSolvePayload(ctx, game, ec, "firstblood")
		},
	})

	r.Register(Definition{
		Kind:        "challenge_solved",
		DisplayName: "Challenge Solved",
		Description: "Triggered when any challenge is solved.",
		SampleData: SolvePayload{
			Category:  "string",
			Username:  "string",
			Challenge: "string",
			Timestamp: "string (ISO)",
		},
		Build: func(ctx context.Context, ec EventContext) (any, error) {
			return buildSolvePayload(ctx, game, ec, "challenge_solved")
		},
	})

	r.Register(Definition{
		Kind:        "ctf_started",
		DisplayName: "CTF Started",
		Description: "Triggered when the CTF begins.",
		SampleData:  CTFStartedPayload{Status: "string"},
		Build: func(ctx context.Context, ec EventContext) (any, error) {
			return CTFStartedPayload{Status: "The CTF has begun!"}, nil
		},
	})

	r.Register(Definition{
		Kind:        "scoreboard_update",
		DisplayName: "Scoreboard Update",
		Description: "Triggered when the scoreboard changes (debounced every 5 mins).",
		SampleData: ScoreboardPayload{
			Timestamp: "string (ISO)",
			TopTeams:  []TeamRank{},
			TopUsers:  []UserRank{},
		},
		Build: func(ctx context.Context, ec EventContext) (any, error) {
			return buildScoreboardPayload(ctx, game)
		},
	})

	r.Register(Definition{
		Kind:        "team_created",
		DisplayName: "Team Created",
		Description: "Triggered when a new team is created.",
		SampleData:  TeamCreatedPayload{TeamName: "string", Timestamp: "string (ISO)"},
		Build: func(ctx context.Context, ec EventContext) (any, error) {
			if ec.Team == nil {
				return nil, fmt.Errorf("team_created: missing team")
			}
			return TeamCreatedPayload{
				TeamName:  ec.Team.Name,
				Timestamp: ec.Team.Created.UTC().Format(time.RFC3339),
			}, nil
		},
	})
}

func buildSolvePayload(ctx context.Context, game GameQuery, ec EventContext, kind string) (any, error) {
	if ec.Solve == nil {
		return nil, fmt.Errorf("%s: missing solve", kind)
	}
	user, err := game.UserByID(ctx, ec.Solve.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: looking up user %d: %w", kind, ec.Solve.UserID, err)
	}
	challenge, err := game.ChallengeByID(ctx, ec.Solve.ChallengeID)
	if err != nil {
		return nil, fmt.Errorf("%s: looking up challenge %d: %w", kind, ec.Solve.ChallengeID, err)
	}
	return SolvePayload{
		Category:  challenge.Category,
		Username:  user.Name,
		Challenge: challenge.Name,
		Timestamp: ec.Solve.Date.UTC().Format(time.RFC3339),
	}, nil
}

func buildScoreboardPayload(ctx context.Context, game GameQuery) (any, error) {
	totalTeams, err := game.TeamCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("scoreboard_update: counting teams: %w", err)
	}
	totalUsers, err := game.UserCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("scoreboard_update: counting users: %w", err)
	}
	standings, err := game.Standings(ctx, StandingsCount)
	if err != nil {
		return nil, fmt.Errorf("scoreboard_update: fetching standings: %w", err)
	}
	teamsMode, err := game.TeamsMode(ctx)
	if err != nil {
		return nil, fmt.Errorf("scoreboard_update: reading teams mode: %w", err)
	}

	payload := ScoreboardPayload{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		TotalTeams: totalTeams,
		TotalUsers: totalUsers,
		TopTeams:   []TeamRank{},
		TopUsers:   []UserRank{},
	}
	if teamsMode {
		for i, entry := range standings {
			payload.TopTeams = append(payload.TopTeams, TeamRank{
				Rank:     i + 1,
				TeamID:   entry.AccountID,
				TeamName: entry.Name,
				Score:    entry.Score,
			})
		}
	} else {
		for i, entry := range standings {
			payload.TopUsers = append(payload.TopUsers, UserRank{
				Rank:     i + 1,
				UserID:   entry.AccountID,
				Username: entry.Name,
				Score:    entry.Score,
			})
		}
	}
	return payload, nil
}
