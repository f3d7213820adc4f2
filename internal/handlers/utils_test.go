// internal/handlers/utils_test.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/knockvote/knockvote/internal/session"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{session.ErrSessionNotFound, http.StatusNotFound},
		{session.ErrPlayerNotFound, http.StatusNotFound},
		{session.ErrNotOrganizer, http.StatusForbidden},
		{session.ErrSessionStarted, http.StatusConflict},
		{session.ErrDuplicateVote, http.StatusConflict},
		{session.ErrSessionFull, http.StatusConflict},
		{session.ErrNotEnoughPlayers, http.StatusUnprocessableEntity},
		{session.ErrInvalidTieChoice, http.StatusUnprocessableEntity},
		{errors.New("pg went away"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, httpStatus(tc.err), "error %v", tc.err)
	}
}

func TestHTTPStatusUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("join session: %w", session.ErrSessionFull)
	assert.Equal(t, http.StatusConflict, httpStatus(wrapped))
	assert.Equal(t, "SESSION_FULL", session.CodeOf(wrapped))
}
