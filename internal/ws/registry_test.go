// internal/ws/registry_test.go
package ws

import (
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *Registry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewRegistry(log)
}

func drain(c *Conn) []Event {
	var events []Event
	for {
		select {
		case ev, ok := <-c.Out():
			if !ok {
				return events
			}
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestRegisterAndCount(t *testing.T) {
	r := testRegistry()
	sessionID := uuid.New()

	assert.Equal(t, 0, r.ConnectedCount(sessionID))

	c1 := r.Register(sessionID, Participant{PlayerName: "alice", IsOrganizer: true}, nil)
	c2 := r.Register(sessionID, Participant{PlayerName: "bob"}, nil)
	assert.Equal(t, 2, r.ConnectedCount(sessionID))

	r.Unregister(c1.ID)
	assert.Equal(t, 1, r.ConnectedCount(sessionID))

	// idempotent
	r.Unregister(c1.ID)
	r.Unregister(uuid.New())
	assert.Equal(t, 1, r.ConnectedCount(sessionID))

	r.Unregister(c2.ID)
	assert.Equal(t, 0, r.ConnectedCount(sessionID))
}

func TestBroadcastExcludesSender(t *testing.T) {
	r := testRegistry()
	sessionID := uuid.New()

	c1 := r.Register(sessionID, Participant{PlayerName: "alice"}, nil)
	c2 := r.Register(sessionID, Participant{PlayerName: "bob"}, nil)
	other := r.Register(uuid.New(), Participant{PlayerName: "eve"}, nil)

	r.BroadcastExcept(sessionID, HeartbeatEvent{}, c1.ID)

	assert.Empty(t, drain(c1))
	assert.Len(t, drain(c2), 1)
	assert.Empty(t, drain(other), "other sessions must not receive the event")
}

func TestBroadcastDropsFullConnection(t *testing.T) {
	r := testRegistry()
	sessionID := uuid.New()

	stuck := r.Register(sessionID, Participant{PlayerName: "stuck"}, nil)
	healthy := r.Register(sessionID, Participant{PlayerName: "healthy"}, nil)

	// fill the stuck connection's buffer
	for i := 0; i < outChanSize; i++ {
		require.True(t, stuck.send(HeartbeatEvent{}))
	}

	r.Broadcast(sessionID, ErrorEvent{Code: "X"})

	// stuck was removed; healthy still got the event
	assert.Equal(t, 1, r.ConnectedCount(sessionID))
	events := drain(healthy)
	require.Len(t, events, 1)
	assert.Equal(t, EventError, events[0].Kind())
}

func TestSendToOrganizer(t *testing.T) {
	r := testRegistry()
	sessionID := uuid.New()

	player := r.Register(sessionID, Participant{PlayerName: "bob"}, nil)
	org := r.Register(sessionID, Participant{PlayerName: "alice", IsOrganizer: true}, nil)

	delivered := r.SendToOrganizer(sessionID, TieBreakerRequestEvent{RoundNumber: 1})
	assert.True(t, delivered)
	assert.Len(t, drain(org), 1)
	assert.Empty(t, drain(player))
}

func TestPendingOrganizerRedelivery(t *testing.T) {
	r := testRegistry()
	sessionID := uuid.New()

	r.Register(sessionID, Participant{PlayerName: "bob"}, nil)

	ev := TieBreakerRequestEvent{RoundNumber: 2, PairIndex: 1}
	delivered := r.SendToOrganizer(sessionID, ev)
	require.False(t, delivered, "no organizer connected")

	// organizer connects later and receives the queued request
	org := r.Register(sessionID, Participant{PlayerName: "alice", IsOrganizer: true}, nil)
	events := drain(org)
	require.Len(t, events, 1)
	assert.Equal(t, ev, events[0])

	// once cleared, a reconnect gets nothing
	r.ClearOrganizerPending(sessionID)
	r.Unregister(org.ID)
	org2 := r.Register(sessionID, Participant{PlayerName: "alice", IsOrganizer: true}, nil)
	assert.Empty(t, drain(org2))
}

func TestCloseSessionAndShutdown(t *testing.T) {
	r := testRegistry()
	s1, s2 := uuid.New(), uuid.New()

	c1 := r.Register(s1, Participant{PlayerName: "a"}, nil)
	c2 := r.Register(s2, Participant{PlayerName: "b"}, nil)

	r.CloseSession(s1)
	assert.Equal(t, 0, r.ConnectedCount(s1))
	assert.Equal(t, 1, r.ConnectedCount(s2))
	_, open := <-c1.Out()
	assert.False(t, open, "closed connection's channel must be closed")

	r.Shutdown()
	assert.Equal(t, 0, r.ConnectedCount(s2))
	_, open = <-c2.Out()
	assert.False(t, open)
}
