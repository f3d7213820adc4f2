// internal/ws/registry.go
package ws

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// outChanSize bounds the per-connection send buffer. A connection whose
// buffer fills is treated as dead and dropped from the registry.
const outChanSize = 32

// Participant describes the player behind a connection.
type Participant struct {
	PlayerID    *uuid.UUID
	PlayerName  string
	IsOrganizer bool
}

// Conn is one live connection's presence in the registry. Out is drained
// by the connection's write pump; Cancel tears down the pump goroutines.
type Conn struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Info      Participant
	Cancel    func()

	out    chan Event
	mu     sync.Mutex
	closed bool
}

// Out exposes the outbound channel for the write pump.
func (c *Conn) Out() <-chan Event { return c.out }

// send pushes an event non-blockingly. It reports false when the channel
// is closed or full, in which case the caller drops the connection.
func (c *Conn) send(ev Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.out <- ev:
		return true
	default:
		return false
	}
}

func (c *Conn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.out)
	}
	if c.Cancel != nil {
		c.Cancel()
	}
}

// Registry tracks live connections per session and fans events out to
// them. It is process-lifetime state: constructed at startup, torn down
// via Shutdown. All methods are safe for concurrent use.
type Registry struct {
	log *logrus.Logger

	mu       sync.RWMutex
	conns    map[uuid.UUID]*Conn              // connection id -> conn
	sessions map[uuid.UUID]map[uuid.UUID]*Conn // session id -> connection ids

	// pendingOrganizer holds the latest organizer-only event that could
	// not be delivered (or may need redelivery), keyed by session. It is
	// replayed when an organizer connection registers and cleared when
	// the pair in question resolves.
	pendingOrganizer map[uuid.UUID]Event
}

// NewRegistry returns an empty connection registry.
func NewRegistry(log *logrus.Logger) *Registry {
	return &Registry{
		log:              log,
		conns:            make(map[uuid.UUID]*Conn),
		sessions:         make(map[uuid.UUID]map[uuid.UUID]*Conn),
		pendingOrganizer: make(map[uuid.UUID]Event),
	}
}

// Register adds a connection for a session and returns it. If the
// participant is the organizer and a tie-break request is pending for the
// session, it is redelivered immediately.
func (r *Registry) Register(sessionID uuid.UUID, info Participant, cancel func()) *Conn {
	conn := &Conn{
		ID:        uuid.New(),
		SessionID: sessionID,
		Info:      info,
		Cancel:    cancel,
		out:       make(chan Event, outChanSize),
	}

	r.mu.Lock()
	r.conns[conn.ID] = conn
	if _, ok := r.sessions[sessionID]; !ok {
		r.sessions[sessionID] = make(map[uuid.UUID]*Conn)
	}
	r.sessions[sessionID][conn.ID] = conn
	var pending Event
	if info.IsOrganizer {
		pending = r.pendingOrganizer[sessionID]
	}
	r.mu.Unlock()

	if pending != nil {
		conn.send(pending)
		r.log.Infof("redelivered pending organizer event for session %s", sessionID)
	}

	r.log.Infof("connection %s (%s) registered for session %s", conn.ID, info.PlayerName, sessionID)
	return conn
}

// Unregister removes a connection. Unregistering an unknown or already
// removed connection is a no-op.
func (r *Registry) Unregister(connID uuid.UUID) {
	r.mu.Lock()
	conn, ok := r.conns[connID]
	if ok {
		delete(r.conns, connID)
		if sess, ok := r.sessions[conn.SessionID]; ok {
			delete(sess, connID)
			if len(sess) == 0 {
				delete(r.sessions, conn.SessionID)
			}
		}
	}
	r.mu.Unlock()

	if ok {
		conn.close()
		r.log.Infof("connection %s removed from session %s", connID, conn.SessionID)
	}
}

// Broadcast sends an event to every live connection for the session. A
// connection that cannot accept the event is dropped from the registry;
// delivery to the remaining connections continues.
func (r *Registry) Broadcast(sessionID uuid.UUID, ev Event) {
	r.BroadcastExcept(sessionID, ev, uuid.Nil)
}

// BroadcastExcept behaves like Broadcast but skips the excluded
// connection id (uuid.Nil excludes nothing).
func (r *Registry) BroadcastExcept(sessionID uuid.UUID, ev Event, exclude uuid.UUID) {
	r.mu.RLock()
	targets := make([]*Conn, 0, len(r.sessions[sessionID]))
	for id, conn := range r.sessions[sessionID] {
		if id != exclude {
			targets = append(targets, conn)
		}
	}
	r.mu.RUnlock()

	for _, conn := range targets {
		if !conn.send(ev) {
			r.log.Warnf("dropping unresponsive connection %s in session %s", conn.ID, sessionID)
			r.Unregister(conn.ID)
		}
	}
}

// SendToOrganizer delivers an event to the session's organizer connection
// and reports whether delivery happened. The event is also remembered so a
// later-connecting organizer receives it; callers clear it via
// ClearOrganizerPending once the event is obsolete.
func (r *Registry) SendToOrganizer(sessionID uuid.UUID, ev Event) bool {
	r.mu.Lock()
	r.pendingOrganizer[sessionID] = ev
	var target *Conn
	for _, conn := range r.sessions[sessionID] {
		if conn.Info.IsOrganizer {
			target = conn
			break
		}
	}
	r.mu.Unlock()

	if target == nil {
		r.log.Warnf("organizer not connected for session %s, event queued", sessionID)
		return false
	}
	if !target.send(ev) {
		r.Unregister(target.ID)
		return false
	}
	return true
}

// ClearOrganizerPending drops any queued organizer-only event for the
// session.
func (r *Registry) ClearOrganizerPending(sessionID uuid.UUID) {
	r.mu.Lock()
	delete(r.pendingOrganizer, sessionID)
	r.mu.Unlock()
}

// SendTo delivers an event to a single connection, dropping it on failure.
func (r *Registry) SendTo(connID uuid.UUID, ev Event) {
	r.mu.RLock()
	conn := r.conns[connID]
	r.mu.RUnlock()

	if conn != nil && !conn.send(ev) {
		r.Unregister(connID)
	}
}

// ConnectedCount returns the number of live connections for a session.
func (r *Registry) ConnectedCount(sessionID uuid.UUID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions[sessionID])
}

// Participants returns the participant info of every live connection in
// the session.
func (r *Registry) Participants(sessionID uuid.UUID) []Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Participant, 0, len(r.sessions[sessionID]))
	for _, conn := range r.sessions[sessionID] {
		out = append(out, conn.Info)
	}
	return out
}

// CloseSession tears down every connection for one session, e.g. when the
// organizer deletes it.
func (r *Registry) CloseSession(sessionID uuid.UUID) {
	r.mu.Lock()
	conns := make([]*Conn, 0, len(r.sessions[sessionID]))
	for _, conn := range r.sessions[sessionID] {
		conns = append(conns, conn)
		delete(r.conns, conn.ID)
	}
	delete(r.sessions, sessionID)
	delete(r.pendingOrganizer, sessionID)
	r.mu.Unlock()

	for _, conn := range conns {
		conn.close()
	}
	if len(conns) > 0 {
		r.log.Infof("closed %d connections for session %s", len(conns), sessionID)
	}
}

// Shutdown closes every tracked connection. Called once at process exit.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	conns := make([]*Conn, 0, len(r.conns))
	for _, conn := range r.conns {
		conns = append(conns, conn)
	}
	r.conns = make(map[uuid.UUID]*Conn)
	r.sessions = make(map[uuid.UUID]map[uuid.UUID]*Conn)
	r.pendingOrganizer = make(map[uuid.UUID]Event)
	r.mu.Unlock()

	for _, conn := range conns {
		conn.close()
	}
	r.log.Info("websocket registry shut down")
}
