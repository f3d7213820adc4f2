// internal/ws/events.go

// Package ws implements the realtime fan-out layer: the per-process
// connection registry and the closed set of events exchanged with clients.
package ws

import (
	"time"

	"github.com/google/uuid"
)

// EventType tags every message crossing a game websocket.
type EventType string

// Server-to-client events.
const (
	EventConnectionSuccess EventType = "connection_success"
	EventPlayerJoined      EventType = "player_joined"
	EventPlayerLeft        EventType = "player_left"
	EventGameStarted       EventType = "game_started"
	EventVoteUpdate        EventType = "vote_update"
	EventVoteComplete      EventType = "vote_complete"
	EventNextPair          EventType = "next_pair"
	EventRoundComplete     EventType = "round_complete"
	EventGameComplete      EventType = "game_complete"
	EventTieBreakerRequest EventType = "tie_breaker_request"
	EventHeartbeat         EventType = "heartbeat"
	EventError             EventType = "error"
)

// Client-to-server message types, dispatched in the websocket handler.
const (
	EventVoteCast           EventType = "vote_cast"
	EventStartGame          EventType = "start_game"
	EventNextPairRequest    EventType = "next_pair_request"
	EventTieBreakerDecision EventType = "tie_breaker_decision"
)

// Event is implemented by every outbound message. Kind drives the "type"
// field on the wire; the concrete struct is the payload.
type Event interface {
	Kind() EventType
}

// ItemInfo is the client-facing view of a competition item.
type ItemInfo struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	ImageURL string    `json:"image_url,omitempty"`
}

type ConnectionSuccessEvent struct {
	SessionID     uuid.UUID `json:"session_id"`
	ConnectionID  uuid.UUID `json:"connection_id"`
	SessionStatus string    `json:"session_status"`
	PlayerCount   int       `json:"player_count"`
	IsOrganizer   bool      `json:"is_organizer"`
}

func (ConnectionSuccessEvent) Kind() EventType { return EventConnectionSuccess }

type PlayerJoinedEvent struct {
	PlayerID     string `json:"player_id"`
	PlayerName   string `json:"player_name"`
	TotalPlayers int    `json:"total_players"`
	IsOrganizer  bool   `json:"is_organizer"`
}

func (PlayerJoinedEvent) Kind() EventType { return EventPlayerJoined }

type PlayerLeftEvent struct {
	PlayerID         string `json:"player_id"`
	PlayerName       string `json:"player_name,omitempty"`
	RemainingPlayers int    `json:"remaining_players"`
}

func (PlayerLeftEvent) Kind() EventType { return EventPlayerLeft }

type GameStartedEvent struct {
	TotalRounds int `json:"total_rounds"`
	TotalItems  int `json:"total_items"`
}

func (GameStartedEvent) Kind() EventType { return EventGameStarted }

type VoteUpdateEvent struct {
	RoundNumber  int                `json:"round_number"`
	PairIndex    int                `json:"pair_index"`
	VoteCounts   map[string]float64 `json:"vote_counts"`
	TotalVotes   float64            `json:"total_votes"`
	VotersCount  int                `json:"voters_count"`
	PlayersVoted []string           `json:"players_voted"`
}

func (VoteUpdateEvent) Kind() EventType { return EventVoteUpdate }

type VoteCompleteEvent struct {
	RoundNumber int                `json:"round_number"`
	PairIndex   int                `json:"pair_index"`
	WinnerID    uuid.UUID          `json:"winner_id"`
	WinnerName  string             `json:"winner_name,omitempty"`
	FinalCounts map[string]float64 `json:"final_counts"`
}

func (VoteCompleteEvent) Kind() EventType { return EventVoteComplete }

type NextPairEvent struct {
	RoundNumber int      `json:"round_number"`
	RoundName   string   `json:"round_name"`
	PairIndex   int      `json:"pair_index"`
	TotalPairs  int      `json:"total_pairs"`
	Item1       ItemInfo `json:"item1"`
	Item2       ItemInfo `json:"item2"`
}

func (NextPairEvent) Kind() EventType { return EventNextPair }

type RoundCompleteEvent struct {
	RoundNumber       int        `json:"round_number"`
	Winners           []ItemInfo `json:"winners"`
	NextRoundStarting bool       `json:"next_round_starting"`
	NextRoundPairs    int        `json:"next_round_pairs,omitempty"`
}

func (RoundCompleteEvent) Kind() EventType { return EventRoundComplete }

type GameCompleteEvent struct {
	Winner          *ItemInfo   `json:"winner"`
	FinalBracket    BracketView `json:"final_bracket"`
	TotalRounds     int         `json:"total_rounds"`
	TotalVotes      int         `json:"total_votes"`
	DurationSeconds int         `json:"duration_seconds"`
}

func (GameCompleteEvent) Kind() EventType { return EventGameComplete }

// BracketView is the full tournament tree included in game_complete and
// the final-results endpoint.
type BracketView struct {
	TotalRounds int            `json:"total_rounds"`
	Rounds      []BracketRound `json:"rounds"`
}

type BracketRound struct {
	RoundNumber int           `json:"round_number"`
	Status      string        `json:"status"`
	Pairs       []BracketPair `json:"pairs"`
	ByeItem     *uuid.UUID    `json:"bye_item,omitempty"`
}

type BracketPair struct {
	Index     int        `json:"index"`
	Item1ID   uuid.UUID  `json:"item1_id"`
	Item2ID   uuid.UUID  `json:"item2_id"`
	WinnerID  *uuid.UUID `json:"winner_id,omitempty"`
	Completed bool       `json:"completed"`
}

type TieBreakerRequestEvent struct {
	RoundNumber int                `json:"round_number"`
	PairIndex   int                `json:"pair_index"`
	TiedItems   []ItemInfo         `json:"tied_items"`
	VoteCounts  map[string]float64 `json:"vote_counts"`
}

func (TieBreakerRequestEvent) Kind() EventType { return EventTieBreakerRequest }

type HeartbeatEvent struct {
	ServerTime time.Time `json:"server_time"`
}

func (HeartbeatEvent) Kind() EventType { return EventHeartbeat }

type ErrorEvent struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (ErrorEvent) Kind() EventType { return EventError }

// envelope is the wire shape: {"type": ..., "data": {...}}.
type envelope struct {
	Type EventType `json:"type"`
	Data Event     `json:"data"`
}

// Envelope wraps an event for serialization.
func Envelope(ev Event) any {
	return envelope{Type: ev.Kind(), Data: ev}
}
