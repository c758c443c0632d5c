package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Babidiii/webhoogz/internal/domain"
	"github.com/jackc/pgx/v5"
)

// Read-only queries against the host platform's game tables. Row lookups
// return ErrNotFound when the id does not exist; hooks always fire after
// the row is committed, so a miss means the caller passed a bad id.

// ErrNotFound is returned when a referenced game row does not exist.
var ErrNotFound = errors.New("not found")

func (s *PostgresStore) ChallengeByID(ctx context.Context, id int64) (*domain.Challenge, error) {
	var c domain.Challenge
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, category, value FROM challenges WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Category, &c.Value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("challenge %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("querying challenge: %w", err)
	}
	return &c, nil
}

func (s *PostgresStore) UserByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := s.pool.QueryRow(ctx, `
		SELECT id, name FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) TeamByID(ctx context.Context, id int64) (*domain.Team, error) {
	var t domain.Team
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, created FROM teams WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.Created)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("team %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("querying team: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) SolveByID(ctx context.Context, id int64) (*domain.Solve, error) {
	var sv domain.Solve
	err := s.pool.QueryRow(ctx, `
		SELECT id, challenge_id, user_id, team_id, date FROM solves WHERE id = $1
	`, id).Scan(&sv.ID, &sv.ChallengeID, &sv.UserID, &sv.TeamID, &sv.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("solve %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("querying solve: %w", err)
	}
	return &sv, nil
}

// SolveCountForChallenge counts all solve rows for one challenge,
// including the triggering one.
func (s *PostgresStore) SolveCountForChallenge(ctx context.Context, challengeID int64) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM solves WHERE challenge_id = $1`, challengeID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting solves: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) UserCount(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) TeamCount(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM teams`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting teams: %w", err)
	}
	return n, nil
}

// Standings returns the top-N accounts by score. Accounts are teams in
// teams mode, individual users otherwise.
func (s *PostgresStore) Standings(ctx context.Context, count int) ([]domain.Standing, error) {
	teamsMode, err := s.TeamsMode(ctx)
	if err != nil {
		return nil, err
	}

	var query string
	if teamsMode {
		query = `
			SELECT t.id, t.name, COALESCE(SUM(c.value), 0) AS score
			FROM teams t
			LEFT JOIN solves sv ON sv.team_id = t.id
			LEFT JOIN challenges c ON c.id = sv.challenge_id
			GROUP BY t.id, t.name
			ORDER BY score DESC, t.id ASC
			LIMIT $1
		`
	} else {
		query = `
			SELECT u.id, u.name, COALESCE(SUM(c.value), 0) AS score
			FROM users u
			LEFT JOIN solves sv ON sv.user_id = u.id
			LEFT JOIN challenges c ON c.id = sv.challenge_id
			GROUP BY u.id, u.name
			ORDER BY score DESC, u.id ASC
			LIMIT $1
		`
	}

	rows, err := s.pool.Query(ctx, query, count)
	if err != nil {
		return nil, fmt.Errorf("querying standings: %w", err)
	}
	defer rows.Close()

	var standings []domain.Standing
	for rows.Next() {
		var st domain.Standing
		if err := rows.Scan(&st.AccountID, &st.Name, &st.Score); err != nil {
			return nil, fmt.Errorf("scanning standing: %w", err)
		}
		standings = append(standings, st)
	}

	if standings == nil {
		standings = []domain.Standing{}
	}

	return standings, nil
}

// TeamsMode reports whether the platform runs in team mode, from the host's
// user_mode config key.
func (s *PostgresStore) TeamsMode(ctx context.Context) (bool, error) {
	mode, _, err := s.GetConfig(ctx, "user_mode")
	if err != nil {
		return false, err
	}
	return mode == "teams", nil
}

// CTFStarted reports whether the competition has begun. No configured start
// time means the CTF is always considered started.
func (s *PostgresStore) CTFStarted(ctx context.Context) (bool, error) {
	raw, ok, err := s.GetConfig(ctx, "start")
	if err != nil {
		return false, err
	}
	if !ok || raw == "" {
		return true, nil
	}
	start, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parsing start time %q: %w", raw, err)
	}
	return time.Now().Unix() >= start, nil
}
