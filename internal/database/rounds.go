// internal/database/rounds.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/knockvote/knockvote/internal/models"
	"github.com/knockvote/knockvote/internal/session"
)

func (st *Store) CreateRound(ctx context.Context, r *models.Round) error {
	pairs, err := json.Marshal(r.Pairs)
	if err != nil {
		return fmt.Errorf("marshal pairs: %w", err)
	}
	q := `
		INSERT INTO session_rounds (id, session_id, round_number, pairs, bye_item, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = st.pool.Exec(ctx, q, r.ID, r.SessionID, r.Number, pairs, r.ByeItem, r.Status, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert round: %w", err)
	}
	return nil
}

func (st *Store) Round(ctx context.Context, sessionID uuid.UUID, number int) (*models.Round, error) {
	q := `
		SELECT id, session_id, round_number, pairs, bye_item, status, created_at, completed_at
		FROM session_rounds WHERE session_id = $1 AND round_number = $2
	`
	return scanRound(st.pool.QueryRow(ctx, q, sessionID, number))
}

func (st *Store) Rounds(ctx context.Context, sessionID uuid.UUID) ([]models.Round, error) {
	q := `
		SELECT id, session_id, round_number, pairs, bye_item, status, created_at, completed_at
		FROM session_rounds WHERE session_id = $1 ORDER BY round_number
	`
	rows, err := st.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query rounds: %w", err)
	}
	defer rows.Close()

	var out []models.Round
	for rows.Next() {
		r, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// SetPairWinner is the single point where a pair resolves. The WHERE
// clause requires the pair's winner slot to still be null, so the update
// applies at most once no matter how many finalizations race.
func (st *Store) SetPairWinner(ctx context.Context, sessionID uuid.UUID, number, pairIndex int, winner uuid.UUID, at time.Time) (bool, error) {
	q := `
		UPDATE session_rounds
		SET pairs = jsonb_set(
			jsonb_set(pairs, ARRAY[$3::text, 'winner'], to_jsonb($4::text)),
			ARRAY[$3::text, 'completed_at'], to_jsonb($5::timestamptz))
		WHERE session_id = $1
		  AND round_number = $2
		  AND pairs -> $3::int ->> 'winner' IS NULL
	`
	tag, err := st.pool.Exec(ctx, q, sessionID, number, pairIndex, winner.String(), at)
	if err != nil {
		return false, fmt.Errorf("set pair winner: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (st *Store) CompleteRound(ctx context.Context, sessionID uuid.UUID, number int, at time.Time) error {
	q := `
		UPDATE session_rounds SET status = $3, completed_at = $4
		WHERE session_id = $1 AND round_number = $2
	`
	tag, err := st.pool.Exec(ctx, q, sessionID, number, models.RoundCompleted, at)
	if err != nil {
		return fmt.Errorf("complete round: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrRoundNotFound
	}
	return nil
}

func scanRound(row pgx.Row) (*models.Round, error) {
	var r models.Round
	var pairs []byte
	err := row.Scan(&r.ID, &r.SessionID, &r.Number, &pairs, &r.ByeItem, &r.Status, &r.CreatedAt, &r.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, session.ErrRoundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan round: %w", err)
	}
	if err := json.Unmarshal(pairs, &r.Pairs); err != nil {
		return nil, fmt.Errorf("unmarshal pairs: %w", err)
	}
	return &r, nil
}
