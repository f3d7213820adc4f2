// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/knockvote/knockvote/internal/auth"
	"github.com/knockvote/knockvote/internal/middleware"
	"github.com/knockvote/knockvote/internal/models"
	"github.com/knockvote/knockvote/internal/session"
	"github.com/knockvote/knockvote/internal/ws"
)

const writeTimeout = 5 * time.Second

// clientMessage is the inbound wire shape, mirroring the outbound
// envelope: a type tag plus a type-specific payload.
type clientMessage struct {
	Type ws.EventType    `json:"type"`
	Data json.RawMessage `json:"data"`
}

type votePayload struct {
	ItemID      uuid.UUID `json:"item_id"`
	RoundNumber int       `json:"round_number"`
	PairIndex   int       `json:"pair_index"`
}

type tieBreakPayload struct {
	RoundNumber int       `json:"round_number"`
	PairIndex   int       `json:"pair_index"`
	ChosenItem  uuid.UUID `json:"chosen_item_id"`
}

// handleGameWS upgrades the connection for a session's live game feed:
// GET /game/ws/{code}?player_id=...
// The caller must have joined over HTTP first; player_id proves the seat.
func (s *Server) handleGameWS(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	sess, err := s.resolveCode(r, code)
	if err != nil {
		writeError(w, err)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:   []string{"game"},
		OriginPatterns: []string{"*"}, // Adjust for production security.
	})
	if err != nil {
		s.log.Warnf("WebSocket accept error for session %s: %v", sess.ID, err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "internal server error during handler exit")

	if c.Subprotocol() != "game" {
		c.Close(websocket.StatusCode(BadSubprotocolError), "client must use the 'game' subprotocol")
		return
	}

	playerID, err := uuid.Parse(r.URL.Query().Get("player_id"))
	if err != nil {
		c.Close(websocket.StatusCode(InvalidPlayerIDError), "player_id query param is required")
		return
	}
	player, err := s.sessions.Player(r.Context(), sess.ID, playerID)
	if err != nil {
		c.Close(websocket.StatusCode(InvalidPlayerIDError), "you have not joined this session")
		return
	}

	userID := auth.UserIDFromRequest(r)
	isOrganizer := player.IsOrganizer ||
		(userID != nil && sess.OrganizerID != nil && *userID == *sess.OrganizerID)

	middleware.LogWebSocketConnect(s.log, r.RemoteAddr, r.URL.Path)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn := s.registry.Register(sess.ID, ws.Participant{
		PlayerID:    &player.ID,
		PlayerName:  player.Nickname,
		IsOrganizer: isOrganizer,
	}, cancel)

	go s.writePump(ctx, c, conn)

	playerCount := s.registry.ConnectedCount(sess.ID)
	if players, err := s.sessions.Players(ctx, sess.ID); err == nil {
		playerCount = len(players)
	}
	s.registry.SendTo(conn.ID, ws.ConnectionSuccessEvent{
		SessionID:     sess.ID,
		ConnectionID:  conn.ID,
		SessionStatus: string(sess.Status),
		PlayerCount:   playerCount,
		IsOrganizer:   isOrganizer,
	})
	s.registry.BroadcastExcept(sess.ID, ws.PlayerJoinedEvent{
		PlayerID:     player.ID.String(),
		PlayerName:   player.Nickname,
		TotalPlayers: playerCount,
		IsOrganizer:  isOrganizer,
	}, conn.ID)

	identity := session.Identity{UserID: userID, IsOrganizer: isOrganizer}
	s.readMessages(ctx, c, sess.ID, player, identity, conn.ID)

	// read loop exited: drop the connection and tell the room
	s.registry.Unregister(conn.ID)
	s.registry.Broadcast(sess.ID, ws.PlayerLeftEvent{
		PlayerID:         player.ID.String(),
		PlayerName:       player.Nickname,
		RemainingPlayers: s.registry.ConnectedCount(sess.ID),
	})
	middleware.LogWebSocketDisconnect(s.log, r.RemoteAddr, r.URL.Path, nil)
}

// writePump drains the registry channel onto the socket. It owns all
// writes for the connection; a failed write cancels the read side.
func (s *Server) writePump(ctx context.Context, c *websocket.Conn, conn *ws.Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-conn.Out():
			if !ok {
				c.Close(websocket.StatusNormalClosure, "session closed")
				return
			}
			data, err := json.Marshal(ws.Envelope(ev))
			if err != nil {
				s.log.Errorf("failed to marshal %s event: %v", ev.Kind(), err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				s.registry.Unregister(conn.ID)
				return
			}
		}
	}
}

// readMessages dispatches inbound client messages until the connection
// drops or the context is cancelled.
func (s *Server) readMessages(ctx context.Context, c *websocket.Conn, sessionID uuid.UUID, player *models.Player, identity session.Identity, connID uuid.UUID) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				s.log.Infof("WebSocket closed normally for player %s in session %s", player.ID, sessionID)
			} else if !strings.Contains(err.Error(), "context canceled") {
				s.log.Warnf("WebSocket read error for player %s in session %s: %v", player.ID, sessionID, err)
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendError(connID, "invalid JSON format", "BAD_MESSAGE")
			continue
		}

		switch msg.Type {
		case ws.EventVoteCast:
			var p votePayload
			if err := json.Unmarshal(msg.Data, &p); err != nil || p.ItemID == uuid.Nil {
				s.sendError(connID, "malformed vote payload", "BAD_MESSAGE")
				continue
			}
			if err := s.sessions.SubmitVote(ctx, sessionID, player.ID, p.ItemID, p.RoundNumber, p.PairIndex); err != nil {
				s.sendSessionError(connID, err)
			}

		case ws.EventStartGame:
			if _, err := s.sessions.StartSession(ctx, sessionID, identity); err != nil {
				s.sendSessionError(connID, err)
			}

		case ws.EventTieBreakerDecision:
			var p tieBreakPayload
			if err := json.Unmarshal(msg.Data, &p); err != nil || p.ChosenItem == uuid.Nil {
				s.sendError(connID, "malformed tie-break payload", "BAD_MESSAGE")
				continue
			}
			if err := s.sessions.ResolveTie(ctx, sessionID, p.RoundNumber, p.PairIndex, p.ChosenItem, identity); err != nil {
				s.sendSessionError(connID, err)
			}

		case ws.EventNextPairRequest:
			s.handleNextPairRequest(ctx, sessionID, connID)

		case ws.EventHeartbeat:
			s.registry.SendTo(connID, ws.HeartbeatEvent{ServerTime: time.Now()})

		default:
			s.sendError(connID, fmt.Sprintf("unknown message type: %s", msg.Type), "BAD_MESSAGE")
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// handleNextPairRequest replays the current pair to one client, or the
// final results when the game is already over.
func (s *Server) handleNextPairRequest(ctx context.Context, sessionID, connID uuid.UUID) {
	sess, err := s.sessions.Session(ctx, sessionID)
	if err != nil {
		s.sendSessionError(connID, err)
		return
	}
	if sess.Status == models.SessionCompleted {
		results, err := s.sessions.FinalResults(ctx, sessionID)
		if err != nil {
			s.sendSessionError(connID, err)
			return
		}
		s.registry.SendTo(connID, ws.GameCompleteEvent{
			Winner:          results.Winner,
			FinalBracket:    results.Bracket,
			TotalRounds:     results.TotalRounds,
			TotalVotes:      results.TotalVotes,
			DurationSeconds: results.DurationSeconds,
		})
		return
	}

	info, err := s.sessions.CurrentPair(ctx, sessionID)
	if err != nil {
		s.sendSessionError(connID, err)
		return
	}
	s.registry.SendTo(connID, ws.NextPairEvent{
		RoundNumber: info.RoundNumber,
		RoundName:   info.RoundName,
		PairIndex:   info.PairIndex,
		TotalPairs:  info.TotalPairs,
		Item1:       info.Item1,
		Item2:       info.Item2,
	})
}

func (s *Server) sendError(connID uuid.UUID, msg, code string) {
	s.registry.SendTo(connID, ws.ErrorEvent{Message: msg, Code: code})
}

// sendSessionError converts orchestrator errors into client error events.
// Internal errors are masked; their detail stays in the logs.
func (s *Server) sendSessionError(connID uuid.UUID, err error) {
	var se *session.Error
	if errors.As(err, &se) {
		s.sendError(connID, se.Message, se.Code)
		return
	}
	s.log.Errorf("internal error on websocket dispatch: %v", err)
	s.sendError(connID, session.ErrInternal.Message, session.ErrInternal.Code)
}
