// internal/database/players.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/knockvote/knockvote/internal/models"
	"github.com/knockvote/knockvote/internal/session"
)

func (st *Store) AddPlayer(ctx context.Context, p *models.Player) error {
	q := `
		INSERT INTO session_players (id, session_id, user_id, nickname, is_organizer, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := st.pool.Exec(ctx, q, p.ID, p.SessionID, p.UserID, p.Nickname, p.IsOrganizer, p.JoinedAt)
	if isUniqueViolation(err) {
		return session.ErrAlreadyJoined
	}
	if err != nil {
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

func (st *Store) PlayerByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	q := `
		SELECT id, session_id, user_id, nickname, is_organizer, joined_at
		FROM session_players WHERE id = $1
	`
	return scanPlayer(st.pool.QueryRow(ctx, q, id))
}

func (st *Store) PlayerByUser(ctx context.Context, sessionID, userID uuid.UUID) (*models.Player, error) {
	q := `
		SELECT id, session_id, user_id, nickname, is_organizer, joined_at
		FROM session_players WHERE session_id = $1 AND user_id = $2
	`
	return scanPlayer(st.pool.QueryRow(ctx, q, sessionID, userID))
}

func (st *Store) PlayerCount(ctx context.Context, sessionID uuid.UUID) (int, error) {
	var n int
	err := st.pool.QueryRow(ctx, `SELECT COUNT(*) FROM session_players WHERE session_id = $1`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}
	return n, nil
}

func (st *Store) Players(ctx context.Context, sessionID uuid.UUID) ([]models.Player, error) {
	q := `
		SELECT id, session_id, user_id, nickname, is_organizer, joined_at
		FROM session_players WHERE session_id = $1 ORDER BY joined_at
	`
	rows, err := st.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	var out []models.Player
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.SessionID, &p.UserID, &p.Nickname, &p.IsOrganizer, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPlayer(row pgx.Row) (*models.Player, error) {
	var p models.Player
	err := row.Scan(&p.ID, &p.SessionID, &p.UserID, &p.Nickname, &p.IsOrganizer, &p.JoinedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, session.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan player: %w", err)
	}
	return &p, nil
}

// isUniqueViolation reports a Postgres 23505 unique constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
