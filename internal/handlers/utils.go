// internal/handlers/utils.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/knockvote/knockvote/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders a session error as {"error": ..., "code": ...} with
// the matching HTTP status. Unknown errors become an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	msg := err.Error()
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		msg = session.ErrInternal.Message
	}
	writeJSON(w, status, map[string]string{
		"error": msg,
		"code":  session.CodeOf(err),
	})
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrPlayerNotFound),
		errors.Is(err, session.ErrRoundNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrNotOrganizer):
		return http.StatusForbidden
	case errors.Is(err, session.ErrSessionStarted),
		errors.Is(err, session.ErrSessionNotInProgress),
		errors.Is(err, session.ErrSessionNotCompleted),
		errors.Is(err, session.ErrAlreadyJoined),
		errors.Is(err, session.ErrDuplicateVote),
		errors.Is(err, session.ErrSessionFull):
		return http.StatusConflict
	case errors.Is(err, session.ErrNotEnoughPlayers),
		errors.Is(err, session.ErrNotEnoughItems),
		errors.Is(err, session.ErrTooManyItems),
		errors.Is(err, session.ErrInvalidVote),
		errors.Is(err, session.ErrInvalidTieChoice):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
