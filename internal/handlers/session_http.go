// internal/handlers/session_http.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/knockvote/knockvote/internal/auth"
	"github.com/knockvote/knockvote/internal/cache"
	"github.com/knockvote/knockvote/internal/models"
	"github.com/knockvote/knockvote/internal/session"
)

type createSessionRequest struct {
	CompetitionID uuid.UUID `json:"competition_id"`
	OrganizerName string    `json:"organizer_name"`
}

type joinSessionRequest struct {
	Nickname string `json:"nickname"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CompetitionID == uuid.Nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.OrganizerName == "" {
		req.OrganizerName = "Organizer"
	}

	userID := auth.UserIDFromRequest(r)
	sess, err := s.sessions.CreateSession(r.Context(), req.CompetitionID, userID, req.OrganizerName)
	if err != nil {
		writeError(w, err)
		return
	}
	cache.CacheSessionCode(r.Context(), sess.Code, sess.ID)
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleSessionByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	sess, err := s.resolveCode(r, code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// resolveCode looks up a join code, consulting the Redis cache before
// Postgres and refilling it on a miss.
func (s *Server) resolveCode(r *http.Request, code string) (*models.Session, error) {
	if id, ok := cache.SessionIDByCode(r.Context(), code); ok {
		sess, err := s.sessions.Session(r.Context(), id)
		if err == nil {
			return sess, nil
		}
		cache.InvalidateSessionCode(r.Context(), code)
	}
	sess, err := s.sessions.SessionByCode(r.Context(), code)
	if err != nil {
		return nil, err
	}
	cache.CacheSessionCode(r.Context(), code, sess.ID)
	return sess, nil
}

func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	sess, err := s.sessions.Session(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	var req joinSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Nickname == "" {
		http.Error(w, "nickname is required", http.StatusBadRequest)
		return
	}

	player, err := s.sessions.JoinSession(r.Context(), id, auth.UserIDFromRequest(r), req.Nickname)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, player)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	actor := session.Identity{UserID: auth.UserIDFromRequest(r)}
	sess, err := s.sessions.StartSession(r.Context(), id, actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	sess, err := s.sessions.Session(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	actor := session.Identity{UserID: auth.UserIDFromRequest(r)}
	if err := s.sessions.DeleteSession(r.Context(), id, actor); err != nil {
		writeError(w, err)
		return
	}
	cache.InvalidateSessionCode(r.Context(), sess.Code)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	players, err := s.sessions.Players(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"players": players,
		"count":   len(players),
	})
}

func (s *Server) handleCurrentPair(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	info, err := s.sessions.CurrentPair(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	results, err := s.sessions.FinalResults(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleRoundResults(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number < 1 {
		http.Error(w, "invalid round number", http.StatusBadRequest)
		return
	}
	summary, err := s.sessions.RoundResults(r.Context(), id, number)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
