// internal/cache/redis.go

// Package cache holds the Redis-backed join-code lookup. Code resolution
// happens on every websocket connect and HTTP code lookup, so the
// code-to-session mapping is cached in front of Postgres.
package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Rdb is the global Redis client. Connect it once at application startup.
var Rdb *redis.Client

const (
	codeKeyPrefix = "knockvote:code:"

	// codeTTL comfortably outlives any single game night.
	codeTTL = 24 * time.Hour
)

// ConnectRedis initializes the global Redis client and verifies the
// connection.
func ConnectRedis(addr string, db int) error {
	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return Rdb.Ping(ctx).Err()
}

// CacheSessionCode stores the code-to-session mapping. Failures are
// ignored; the database remains the source of truth.
func CacheSessionCode(ctx context.Context, code string, sessionID uuid.UUID) {
	if Rdb == nil {
		return
	}
	Rdb.Set(ctx, codeKeyPrefix+code, sessionID.String(), codeTTL)
}

// SessionIDByCode looks up a cached join code.
func SessionIDByCode(ctx context.Context, code string) (uuid.UUID, bool) {
	if Rdb == nil {
		return uuid.Nil, false
	}
	val, err := Rdb.Get(ctx, codeKeyPrefix+code).Result()
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// InvalidateSessionCode drops a cached code, e.g. when its session is
// deleted.
func InvalidateSessionCode(ctx context.Context, code string) {
	if Rdb == nil {
		return
	}
	Rdb.Del(ctx, codeKeyPrefix+code)
}
