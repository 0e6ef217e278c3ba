// Package live pushes the "ideas changed" signal to connected clients.
package live

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// EventIdeasUpdated is the only frame sent to clients. It carries no payload;
// clients reload their idea list when they see it.
const EventIdeasUpdated = "ideas_updated"

type Broadcaster interface {
	BroadcastIdeasChanged(ctx context.Context)
}

// Session is one connected client. Signals arriving while a previous one is
// still unread are merged into it.
type Session struct {
	signal chan struct{}
}

func (s *Session) Signals() <-chan struct{} {
	return s.signal
}

type Hub struct {
	mu       sync.RWMutex
	sessions map[*Session]struct{}
	log      *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		sessions: make(map[*Session]struct{}),
		log:      log,
	}
}

func (h *Hub) Register() *Session {
	s := &Session{signal: make(chan struct{}, 1)}

	h.mu.Lock()
	h.sessions[s] = struct{}{}
	n := len(h.sessions)
	h.mu.Unlock()

	h.log.Debug("live session registered", zap.Int("sessions", n))
	return s
}

func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	delete(h.sessions, s)
	n := len(h.sessions)
	h.mu.Unlock()

	h.log.Debug("live session unregistered", zap.Int("sessions", n))
}

// BroadcastIdeasChanged signals every registered session without blocking.
func (h *Hub) BroadcastIdeasChanged(context.Context) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.sessions {
		select {
		case s.signal <- struct{}{}:
		default:
		}
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}
