// internal/models/round.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// RoundStatus is the lifecycle state of a single elimination round.
type RoundStatus string

const (
	RoundInProgress RoundStatus = "in_progress"
	RoundCompleted  RoundStatus = "completed"
)

// Pair is two items competing at a fixed index within a round. Winner stays
// nil until the pair resolves; once set it is immutable.
type Pair struct {
	Item1       uuid.UUID  `json:"item1"`
	Item2       uuid.UUID  `json:"item2"`
	Winner      *uuid.UUID `json:"winner,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Resolved reports whether the pair has a winner.
func (p Pair) Resolved() bool {
	return p.Winner != nil
}

// Contains reports whether id is one of the pair's two items.
func (p Pair) Contains(id uuid.UUID) bool {
	return p.Item1 == id || p.Item2 == id
}

// Round is one elimination stage. Pairs are stored as an embedded list and
// mutated in place when winners are set; ByeItem, if present, advances to
// the next round without a vote.
type Round struct {
	ID          uuid.UUID   `json:"id"`
	SessionID   uuid.UUID   `json:"session_id"`
	Number      int         `json:"round_number"`
	Pairs       []Pair      `json:"pairs"`
	ByeItem     *uuid.UUID  `json:"bye_item,omitempty"`
	Status      RoundStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}
