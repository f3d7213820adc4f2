// internal/database/items.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/knockvote/knockvote/internal/models"
)

func (st *Store) CompetitionItems(ctx context.Context, competitionID uuid.UUID) ([]models.Item, error) {
	q := `
		SELECT id, name, COALESCE(image_url, '')
		FROM competition_items WHERE competition_id = $1 ORDER BY name
	`
	rows, err := st.pool.Query(ctx, q, competitionID)
	if err != nil {
		return nil, fmt.Errorf("query competition items: %w", err)
	}
	defer rows.Close()

	var out []models.Item
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.ImageURL); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (st *Store) ItemsByID(ctx context.Context, ids []uuid.UUID) ([]models.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `
		SELECT id, name, COALESCE(image_url, '')
		FROM competition_items WHERE id = ANY($1)
	`
	rows, err := st.pool.Query(ctx, q, ids)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var out []models.Item
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.ImageURL); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
