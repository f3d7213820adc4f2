// internal/session/errors.go
package session

import "errors"

// Error is a caller-recoverable rejection with a stable code. Codes are
// part of the wire contract: clients match on Code, Message is display
// text.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	// not-found
	ErrSessionNotFound = &Error{Code: "SESSION_NOT_FOUND", Message: "session not found"}
	ErrPlayerNotFound  = &Error{Code: "PLAYER_NOT_FOUND", Message: "player not found in session"}
	ErrRoundNotFound   = &Error{Code: "ROUND_NOT_FOUND", Message: "round not found"}

	// state-conflict
	ErrSessionStarted       = &Error{Code: "SESSION_ALREADY_STARTED", Message: "session has already started"}
	ErrSessionNotInProgress = &Error{Code: "SESSION_NOT_IN_PROGRESS", Message: "session is not in progress"}
	ErrAlreadyJoined        = &Error{Code: "PLAYER_ALREADY_JOINED", Message: "you have already joined this session"}
	ErrDuplicateVote        = &Error{Code: "DUPLICATE_VOTE", Message: "player already voted for this pair"}
	ErrSessionNotCompleted  = &Error{Code: "SESSION_NOT_COMPLETED", Message: "session has not completed yet"}
	ErrCodeExhausted        = &Error{Code: "SESSION_CODE_EXHAUSTED", Message: "could not allocate session"}

	// authorization
	ErrNotOrganizer = &Error{Code: "UNAUTHORIZED_ORGANIZER_ACTION", Message: "only the organizer can perform this action"}

	// capacity
	ErrSessionFull      = &Error{Code: "SESSION_FULL", Message: "session is full"}
	ErrNotEnoughPlayers = &Error{Code: "NOT_ENOUGH_PLAYERS", Message: "not enough players to start"}
	ErrNotEnoughItems   = &Error{Code: "NOT_ENOUGH_ITEMS", Message: "competition does not have enough items"}
	ErrTooManyItems     = &Error{Code: "TOO_MANY_ITEMS", Message: "competition has too many items"}

	// validation
	ErrInvalidVote      = &Error{Code: "INVALID_VOTE", Message: "vote target is not part of this pair"}
	ErrInvalidTieChoice = &Error{Code: "INVALID_TIE_CHOICE", Message: "tie-break choice is not among the tied items"}

	// internal invariant violations; details stay in the logs
	ErrInternal = &Error{Code: "INTERNAL_ERROR", Message: "internal error"}
)

// CodeOf extracts the stable code from err, or INTERNAL_ERROR for
// anything that is not a session error.
func CodeOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrInternal.Code
}
