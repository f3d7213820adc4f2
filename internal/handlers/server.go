// internal/handlers/server.go

// Package handlers exposes the HTTP session API and the game websocket
// endpoint. All tournament behavior lives in internal/session; handlers
// translate transport concerns only.
package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/knockvote/knockvote/internal/middleware"
	"github.com/knockvote/knockvote/internal/session"
	"github.com/knockvote/knockvote/internal/ws"
)

// Server bundles the handler dependencies.
type Server struct {
	log      *logrus.Logger
	sessions *session.Service
	registry *ws.Registry
}

// NewServer wires the handler layer.
func NewServer(log *logrus.Logger, sessions *session.Service, registry *ws.Registry) *Server {
	return &Server{log: log, sessions: sessions, registry: registry}
}

// Routes builds the chi router for the whole service.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.LogMiddleware(s.log))

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/code/{code}", s.handleSessionByCode)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/join", s.handleJoin)
			r.Post("/start", s.handleStart)
			r.Get("/players", s.handlePlayers)
			r.Get("/pair", s.handleCurrentPair)
			r.Get("/results", s.handleResults)
			r.Get("/rounds/{number}", s.handleRoundResults)
		})
	})

	r.Get("/game/ws/{code}", s.handleGameWS)
	return r
}
