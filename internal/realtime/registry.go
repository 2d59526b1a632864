package realtime

import (
	"encoding/json"
	"sync"

	"goose_server/internal/logger"
)

// Message is the outbound notification envelope.
type Message struct {
	Action string `json:"action"`
	Data   any    `json:"data,omitempty"`
}

// Session is the transport half the registry needs from a connection:
// enqueue one frame (best effort) and tear the connection down.
type Session interface {
	Send(data []byte) bool
	Close()
}

// Registry is the single source of truth for which users are reachable.
// One live connection per user: registering a second connection for the
// same user silently closes the first (reconnecting elsewhere wins).
type Registry struct {
	mu    sync.RWMutex
	conns map[int64]Session
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[int64]Session)}
}

func (r *Registry) Register(userID int64, s Session) {
	r.mu.Lock()
	old := r.conns[userID]
	r.conns[userID] = s
	r.mu.Unlock()

	if old != nil && old != s {
		logger.Info("connection replaced", "user_id", userID)
		old.Close()
	}
	connectionsGauge.Set(float64(r.Len()))
}

func (r *Registry) Get(userID int64) (Session, bool) {
	r.mu.RLock()
	s, ok := r.conns[userID]
	r.mu.RUnlock()
	return s, ok
}

// Remove is idempotent; removing an absent user is a no-op.
func (r *Registry) Remove(userID int64) {
	r.mu.Lock()
	delete(r.conns, userID)
	r.mu.Unlock()
	connectionsGauge.Set(float64(r.Len()))
}

// RemoveSession removes the entry only if it still belongs to s. It reports
// whether the removal happened, so a stale connection torn down after a
// takeover does not evict its replacement.
func (r *Registry) RemoveSession(userID int64, s Session) bool {
	r.mu.Lock()
	cur, ok := r.conns[userID]
	if ok && cur == s {
		delete(r.conns, userID)
	}
	r.mu.Unlock()
	connectionsGauge.Set(float64(r.Len()))
	return ok && cur == s
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Send marshals msg and writes it to the user's connection. Delivery is
// at-most-once: if the user is not connected or the write queue is full the
// message is dropped and Send reports false.
func (r *Registry) Send(userID int64, msg Message) bool {
	s, ok := r.Get(userID)
	if !ok {
		return false
	}
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("marshal outbound message", "action", msg.Action, "error", err)
		return false
	}
	if !s.Send(data) {
		logger.Warn("outbound message dropped", "user_id", userID, "action", msg.Action)
		return false
	}
	return true
}

// Broadcast sends to every connection except excludeUserID. Each send is
// isolated: one slow or dead connection never aborts the rest.
func (r *Registry) Broadcast(msg Message, excludeUserID int64) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("marshal broadcast", "action", msg.Action, "error", err)
		return
	}

	r.mu.RLock()
	targets := make([]Session, 0, len(r.conns))
	for id, s := range r.conns {
		if id == excludeUserID {
			continue
		}
		targets = append(targets, s)
	}
	r.mu.RUnlock()

	for _, s := range targets {
		s.Send(data)
	}
}
