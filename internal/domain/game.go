package domain

import "time"

// Host platform rows consumed by payload builders. These are read-only
// projections of the CTF platform's own tables; this service never writes
// to them.

type Challenge struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Value    int    `json:"value"`
}

type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Team struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
}

type Solve struct {
	ID          int64     `json:"id"`
	ChallengeID int64     `json:"challenge_id"`
	UserID      int64     `json:"user_id"`
	TeamID      *int64    `json:"team_id,omitempty"`
	Date        time.Time `json:"date"`
}

// Standing is one scoreboard row: the account is a team in teams mode,
// a user otherwise.
type Standing struct {
	AccountID int64
	Name      string
	Score     int
}
