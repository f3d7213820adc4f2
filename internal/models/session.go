// internal/models/session.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a game session.
type SessionStatus string

const (
	SessionWaiting    SessionStatus = "waiting"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionCancelled  SessionStatus = "cancelled"
)

// Session represents one live tournament instance. Players join with the
// short Code; the organizer controls start, tie-breaks and deletion.
type Session struct {
	ID            uuid.UUID     `json:"id"`
	Code          string        `json:"code"`
	CompetitionID uuid.UUID     `json:"competition_id"`
	OrganizerID   *uuid.UUID    `json:"organizer_id,omitempty"`
	OrganizerName string        `json:"organizer_name"`
	Status        SessionStatus `json:"status"`

	// CurrentRound is set while in_progress and retains its final value
	// after completion. TotalRounds is computed once at start.
	CurrentRound *int `json:"current_round,omitempty"`
	TotalRounds  *int `json:"total_rounds,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Player is a participant attached to a session. UserID is nil for guests;
// identified users may hold at most one Player per session.
type Player struct {
	ID          uuid.UUID  `json:"id"`
	SessionID   uuid.UUID  `json:"session_id"`
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	Nickname    string     `json:"nickname"`
	IsOrganizer bool       `json:"is_organizer"`
	JoinedAt    time.Time  `json:"joined_at"`
}

// Vote records one player's choice for one pair. Weight is fixed at cast
// time (1.0 regular, 1.5 organizer) and never changes retroactively.
type Vote struct {
	ID          uuid.UUID `json:"id"`
	SessionID   uuid.UUID `json:"session_id"`
	PlayerID    uuid.UUID `json:"player_id"`
	ItemID      uuid.UUID `json:"item_id"`
	RoundNumber int       `json:"round_number"`
	PairIndex   int       `json:"pair_index"`
	Weight      float64   `json:"weight"`
	CreatedAt   time.Time `json:"created_at"`
}

// Item is a competition entry as surfaced by the competition provider.
type Item struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	ImageURL string    `json:"image_url,omitempty"`
}
