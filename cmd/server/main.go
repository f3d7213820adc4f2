// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/knockvote/knockvote/internal/auth"
	"github.com/knockvote/knockvote/internal/cache"
	"github.com/knockvote/knockvote/internal/config"
	"github.com/knockvote/knockvote/internal/database"
	"github.com/knockvote/knockvote/internal/handlers"
	"github.com/knockvote/knockvote/internal/session"
	"github.com/knockvote/knockvote/internal/ws"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	cfg := config.Load()
	auth.Init()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.PostgresURL())
	if err != nil {
		logger.Fatalf("database connect: %v", err)
	}
	defer pool.Close()
	logger.Infof("connected to database at %s:%s", cfg.PostgresHost, cfg.PostgresPort)

	if err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisDB); err != nil {
		logger.Fatalf("redis connect: %v", err)
	}
	logger.Infof("connected to redis at %s", cfg.RedisAddr)

	store := database.New(pool, logger)
	registry := ws.NewRegistry(logger)
	sessions := session.New(cfg.Game, store, store, registry, logger)
	server := handlers.NewServer(logger, sessions, registry)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Routes(),
	}

	go func() {
		logger.Infof("running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server exited: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	registry.Shutdown()
}
