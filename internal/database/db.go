// internal/database/db.go

// Package database is the pgx-backed implementation of the orchestrator's
// storage interfaces. Rounds embed their pair list as jsonb; winner
// assignment is a single compare-and-set UPDATE so concurrent
// finalizations cannot disagree.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// Connect opens a pgx pool and verifies connectivity.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return pool, nil
}

// Store satisfies session.Store and session.ItemSource on top of Postgres.
type Store struct {
	pool *pgxpool.Pool
	log  *logrus.Logger
}

// New wraps an open pool.
func New(pool *pgxpool.Pool, log *logrus.Logger) *Store {
	return &Store{pool: pool, log: log}
}
