// internal/session/store.go
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/knockvote/knockvote/internal/models"
	"github.com/knockvote/knockvote/internal/ws"
)

// Store is the durable tournament state behind the orchestrator. The
// contract that keeps concurrent voting safe lives in SetPairWinner: it
// must be an atomic compare-and-set against the round's pair list, so two
// racing finalizations can never apply two different winners.
type Store interface {
	CreateSession(ctx context.Context, s *models.Session) error
	SessionByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	SessionByCode(ctx context.Context, code string) (*models.Session, error)
	// MarkStarted moves the session to in_progress with its round counts.
	MarkStarted(ctx context.Context, id uuid.UUID, totalRounds int, at time.Time) error
	// AdvanceRound bumps current_round after a round completes.
	AdvanceRound(ctx context.Context, id uuid.UUID, round int) error
	MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error
	// DeleteSession cascades to players, rounds and votes.
	DeleteSession(ctx context.Context, id uuid.UUID) error

	// AddPlayer returns ErrAlreadyJoined when the (session, user) pair
	// already exists; guests (nil user id) are never deduplicated.
	AddPlayer(ctx context.Context, p *models.Player) error
	PlayerByID(ctx context.Context, id uuid.UUID) (*models.Player, error)
	PlayerByUser(ctx context.Context, sessionID, userID uuid.UUID) (*models.Player, error)
	PlayerCount(ctx context.Context, sessionID uuid.UUID) (int, error)
	Players(ctx context.Context, sessionID uuid.UUID) ([]models.Player, error)

	CreateRound(ctx context.Context, r *models.Round) error
	Round(ctx context.Context, sessionID uuid.UUID, number int) (*models.Round, error)
	Rounds(ctx context.Context, sessionID uuid.UUID) ([]models.Round, error)
	// SetPairWinner sets the winner at pairIndex if and only if the pair
	// is still unresolved. It reports whether the write applied; a false
	// return with nil error means another caller resolved the pair first.
	SetPairWinner(ctx context.Context, sessionID uuid.UUID, number, pairIndex int, winner uuid.UUID, at time.Time) (bool, error)
	CompleteRound(ctx context.Context, sessionID uuid.UUID, number int, at time.Time) error

	// AddVote returns ErrDuplicateVote when the player already voted for
	// this (round, pair).
	AddVote(ctx context.Context, v *models.Vote) error
	VotesForPair(ctx context.Context, sessionID uuid.UUID, number, pairIndex int) ([]models.Vote, error)
	TotalVotes(ctx context.Context, sessionID uuid.UUID) (int, error)
}

// ItemSource provides competition items. Competitions themselves are
// managed elsewhere; the orchestrator only reads.
type ItemSource interface {
	CompetitionItems(ctx context.Context, competitionID uuid.UUID) ([]models.Item, error)
	ItemsByID(ctx context.Context, ids []uuid.UUID) ([]models.Item, error)
}

// Broadcaster is the realtime fan-out seen by the orchestrator. The
// *ws.Registry satisfies it; tests substitute a recorder.
type Broadcaster interface {
	Broadcast(sessionID uuid.UUID, ev ws.Event)
	// SendToOrganizer reports whether the organizer was reachable; an
	// undeliverable event is queued for redelivery by the implementation.
	SendToOrganizer(sessionID uuid.UUID, ev ws.Event) bool
	ClearOrganizerPending(sessionID uuid.UUID)
	// ConnectedCount is the number of live connections for the session,
	// which is what "all players voted" is measured against.
	ConnectedCount(sessionID uuid.UUID) int
	CloseSession(sessionID uuid.UUID)
}

// Identity carries who is acting: the resolved user id (nil for guests)
// and whether the transport attributes organizer standing to the caller's
// connection.
type Identity struct {
	UserID      *uuid.UUID
	IsOrganizer bool
}
