// internal/database/votes.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/knockvote/knockvote/internal/models"
	"github.com/knockvote/knockvote/internal/session"
)

func (st *Store) AddVote(ctx context.Context, v *models.Vote) error {
	q := `
		INSERT INTO session_votes (id, session_id, player_id, item_id, round_number, pair_index, weight, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := st.pool.Exec(ctx, q, v.ID, v.SessionID, v.PlayerID, v.ItemID, v.RoundNumber, v.PairIndex, v.Weight, v.CreatedAt)
	if isUniqueViolation(err) {
		return session.ErrDuplicateVote
	}
	if err != nil {
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

func (st *Store) VotesForPair(ctx context.Context, sessionID uuid.UUID, number, pairIndex int) ([]models.Vote, error) {
	q := `
		SELECT id, session_id, player_id, item_id, round_number, pair_index, weight, created_at
		FROM session_votes
		WHERE session_id = $1 AND round_number = $2 AND pair_index = $3
		ORDER BY created_at
	`
	rows, err := st.pool.Query(ctx, q, sessionID, number, pairIndex)
	if err != nil {
		return nil, fmt.Errorf("query votes: %w", err)
	}
	defer rows.Close()

	var out []models.Vote
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ID, &v.SessionID, &v.PlayerID, &v.ItemID, &v.RoundNumber, &v.PairIndex, &v.Weight, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (st *Store) TotalVotes(ctx context.Context, sessionID uuid.UUID) (int, error) {
	var n int
	err := st.pool.QueryRow(ctx, `SELECT COUNT(*) FROM session_votes WHERE session_id = $1`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return n, nil
}
