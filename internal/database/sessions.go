// internal/database/sessions.go
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/knockvote/knockvote/internal/models"
	"github.com/knockvote/knockvote/internal/session"
)

const sessionColumns = `id, code, competition_id, organizer_id, organizer_name, status,
	current_round, total_rounds, created_at, started_at, completed_at`

func scanSession(row pgx.Row) (*models.Session, error) {
	var s models.Session
	err := row.Scan(&s.ID, &s.Code, &s.CompetitionID, &s.OrganizerID, &s.OrganizerName, &s.Status,
		&s.CurrentRound, &s.TotalRounds, &s.CreatedAt, &s.StartedAt, &s.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, session.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	return &s, nil
}

func (st *Store) CreateSession(ctx context.Context, s *models.Session) error {
	q := `
		INSERT INTO game_sessions (id, code, competition_id, organizer_id, organizer_name, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := st.pool.Exec(ctx, q, s.ID, s.Code, s.CompetitionID, s.OrganizerID, s.OrganizerName, s.Status, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (st *Store) SessionByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	q := `SELECT ` + sessionColumns + ` FROM game_sessions WHERE id = $1`
	return scanSession(st.pool.QueryRow(ctx, q, id))
}

func (st *Store) SessionByCode(ctx context.Context, code string) (*models.Session, error) {
	q := `SELECT ` + sessionColumns + ` FROM game_sessions WHERE code = $1`
	return scanSession(st.pool.QueryRow(ctx, q, code))
}

func (st *Store) MarkStarted(ctx context.Context, id uuid.UUID, totalRounds int, at time.Time) error {
	q := `
		UPDATE game_sessions
		SET status = $2, current_round = 1, total_rounds = $3, started_at = $4
		WHERE id = $1
	`
	tag, err := st.pool.Exec(ctx, q, id, models.SessionInProgress, totalRounds, at)
	if err != nil {
		return fmt.Errorf("mark started: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

func (st *Store) AdvanceRound(ctx context.Context, id uuid.UUID, round int) error {
	q := `UPDATE game_sessions SET current_round = $2 WHERE id = $1`
	tag, err := st.pool.Exec(ctx, q, id, round)
	if err != nil {
		return fmt.Errorf("advance round: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

func (st *Store) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error {
	q := `UPDATE game_sessions SET status = $2, completed_at = $3 WHERE id = $1`
	tag, err := st.pool.Exec(ctx, q, id, models.SessionCompleted, at)
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

// DeleteSession relies on ON DELETE CASCADE for players, rounds and votes.
func (st *Store) DeleteSession(ctx context.Context, id uuid.UUID) error {
	tag, err := st.pool.Exec(ctx, `DELETE FROM game_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}
