package hub

import (
	"sync"
	"sync/atomic"
)

// SessionID uniquely identifies a connection (a WebSocket, in practice).
type SessionID string

// SessionHandle is how the arena talks to a connected client without
// depending on the WebSocket layer.
type SessionHandle interface {
	ID() SessionID

	// Send queues an event. It never blocks the game loop.
	Send(evt Event)

	// Done closes when the session ends.
	Done() <-chan struct{}

	// Close ends the session from the server side.
	Close()
}

// ChannelSession buffers events in a channel that the transport drains.
// The transport closes the session when the peer leaves.
type ChannelSession struct {
	id       SessionID
	events   chan Event
	dropped  atomic.Int64
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelSession creates a session buffering up to size events.
func NewChannelSession(id SessionID, size int) *ChannelSession {
	if size < 1 {
		size = 64
	}
	return &ChannelSession{
		id:     id,
		events: make(chan Event, size),
		done:   make(chan struct{}),
	}
}

func (s *ChannelSession) ID() SessionID { return s.id }

// Send queues an event for the session. When the buffer is full the oldest
// frame is discarded and counted, so a slow viewer falls behind instead of
// stalling everyone else.
func (s *ChannelSession) Send(evt Event) {
	select {
	case <-s.done:
		return
	default:
	}

	for {
		select {
		case s.events <- evt:
			return
		default:
		}
		select {
		case <-s.events:
			s.dropped.Add(1)
		default:
		}
	}
}

// Events is drained by the transport's write loop.
func (s *ChannelSession) Events() <-chan Event { return s.events }

func (s *ChannelSession) Done() <-chan struct{} { return s.done }

// Dropped reports how many events were discarded for a full buffer.
func (s *ChannelSession) Dropped() int64 { return s.dropped.Load() }

// Close is idempotent.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() { close(s.done) })
}

// SessionRegistry maps ids to live sessions. The transport registers on
// connect and the arena unregisters on disconnect.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
	dropped  int64 // frames dropped by sessions that are gone
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[SessionID]SessionHandle),
	}
}

func (r *SessionRegistry) Register(session SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
}

func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		r.dropped += droppedBy(s)
		delete(r.sessions, id)
	}
}

func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Stats returns the number of connections and the frames dropped over the
// registry's lifetime.
func (r *SessionRegistry) Stats() (connections int, dropped int64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dropped = r.dropped
	for _, s := range r.sessions {
		dropped += droppedBy(s)
	}
	return len(r.sessions), dropped
}

// CloseAll closes every registered session. Transports notice through Done
// and tear their connections down.
func (r *SessionRegistry) CloseAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.sessions {
		s.Close()
	}
}

func droppedBy(s SessionHandle) int64 {
	if d, ok := s.(interface{ Dropped() int64 }); ok {
		return d.Dropped()
	}
	return 0
}
