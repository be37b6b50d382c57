package live

import (
	"sync"
)

// sendBuffer is the per-session queue of non-frame messages. A session that
// falls this far behind is dropped.
const sendBuffer = 64

// session is one connected viewer. Frames are kept apart from other
// messages: only the newest undelivered frame is ever sent.
type session struct {
	id    string
	send  chan []byte
	frame chan []byte // capacity 1, newest wins
	done  chan struct{}
	once  sync.Once
}

func newSession(id string) *session {
	return &session{
		id:    id,
		send:  make(chan []byte, sendBuffer),
		frame: make(chan []byte, 1),
		done:  make(chan struct{}),
	}
}

func (s *session) close() { s.once.Do(func() { close(s.done) }) }

// pushFrame replaces any pending frame with data.
func (s *session) pushFrame(data []byte) {
	for {
		select {
		case s.frame <- data:
			return
		default:
		}
		select {
		case <-s.frame:
		default:
		}
	}
}

// push queues data and reports false when the queue is full.
func (s *session) push(data []byte) bool {
	select {
	case s.send <- data:
		return true
	default:
		return false
	}
}

// Hub fans messages out to every connected session. It is safe for
// concurrent use.
type Hub struct {
	mu        sync.RWMutex
	sessions  map[string]*session
	lastFrame []byte
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{sessions: make(map[string]*session)}
}

// add registers s and queues the latest frame so a new viewer does not wait
// for the next change.
func (h *Hub) add(s *session) {
	h.mu.Lock()
	h.sessions[s.id] = s
	last := h.lastFrame
	h.mu.Unlock()
	if last != nil {
		s.pushFrame(last)
	}
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	s, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if ok {
		s.close()
	}
}

// Len returns the number of connected sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// publishFrame stores data as the latest frame and offers it to every
// session.
func (h *Hub) publishFrame(data []byte) {
	h.mu.Lock()
	h.lastFrame = data
	targets := h.snapshot()
	h.mu.Unlock()
	for _, s := range targets {
		s.pushFrame(data)
	}
}

// LastFrame returns the latest published frame message, or nil.
func (h *Hub) LastFrame() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastFrame
}

// broadcast queues data for every session, dropping sessions that are too
// far behind.
func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	targets := h.snapshot()
	h.mu.RUnlock()
	for _, s := range targets {
		if !s.push(data) {
			h.remove(s.id)
		}
	}
}

// sendTo queues data for one session.
func (h *Hub) sendTo(id string, data []byte) {
	h.mu.RLock()
	s, ok := h.sessions[id]
	h.mu.RUnlock()
	if ok && !s.push(data) {
		h.remove(id)
	}
}

// snapshot copies the session set. Callers hold mu.
func (h *Hub) snapshot() []*session {
	out := make([]*session, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, s)
	}
	return out
}

// closeAll disconnects every session.
func (h *Hub) closeAll() {
	h.mu.Lock()
	targets := h.snapshot()
	h.sessions = make(map[string]*session)
	h.mu.Unlock()
	for _, s := range targets {
		s.close()
	}
}
