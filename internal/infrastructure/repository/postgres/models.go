package postgres

import (
	"database/sql"
	"time"
)

type matchTableModel struct {
	ID        string       `db:"id"`
	HomeTeam  string       `db:"home_team"`
	AwayTeam  string       `db:"away_team"`
	Status    string       `db:"status"`
	StartedAt sql.NullTime `db:"started_at"`
	PausedMs  int64        `db:"paused_ms"`
	Round     int          `db:"round"`
	UpdatedAt time.Time    `db:"updated_at"`
}

type matchInsertModel struct {
	ID        string     `db:"id"`
	HomeTeam  string     `db:"home_team"`
	AwayTeam  string     `db:"away_team"`
	Status    string     `db:"status"`
	StartedAt *time.Time `db:"started_at"`
	PausedMs  int64      `db:"paused_ms"`
	Round     int        `db:"round"`
	UpdatedAt time.Time  `db:"updated_at"`
}

type eventTableModel struct {
	ID        string    `db:"id"`
	MatchID   string    `db:"match_id"`
	Type      string    `db:"type"`
	Payload   []byte    `db:"payload"`
	CreatedBy string    `db:"created_by"`
	IsValid   bool      `db:"is_valid"`
	Revision  int       `db:"revision"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type memberTableModel struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	Role      string         `db:"role"`
	PlayerID  sql.NullString `db:"player_id"`
	CreatedAt time.Time      `db:"created_at"`
}

type rosterEntryModel struct {
	MatchID  string `db:"match_id"`
	Team     string `db:"team"`
	PlayerID string `db:"player_id"`
}

type paymentTableModel struct {
	ID                string    `db:"id"`
	ExternalReference string    `db:"external_reference"`
	UserID            string    `db:"user_id"`
	AmountCents       int64     `db:"amount_cents"`
	Currency          string    `db:"currency"`
	Description       string    `db:"description"`
	Status            string    `db:"status"`
	CreatedAt         time.Time `db:"created_at"`
}

type checkInTableModel struct {
	ID        string    `db:"id"`
	MatchID   string    `db:"match_id"`
	PlayerID  string    `db:"player_id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

var (
	matchColumns   = []string{"id", "home_team", "away_team", "status", "started_at", "paused_ms", "round", "updated_at"}
	eventColumns   = []string{"id", "match_id", "type", "payload", "created_by", "is_valid", "revision", "created_at", "updated_at"}
	memberColumns  = []string{"id", "name", "role", "player_id", "created_at"}
	paymentColumns = []string{"id", "external_reference", "user_id", "amount_cents", "currency", "description", "status", "created_at"}
	checkInColumns = []string{"id", "match_id", "player_id", "user_id", "created_at"}
)
