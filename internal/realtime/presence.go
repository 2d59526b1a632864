package realtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"goose_server/internal/domain"
)

// StatusStore mirrors presence to the persistent user store.
type StatusStore interface {
	UpdateStatus(ctx context.Context, userID int64, status domain.PresenceStatus) error
}

// Presence tracks each user's connectivity status. The in-memory map is
// authoritative; the store is a best-effort mirror.
type Presence struct {
	mu       sync.RWMutex
	statuses map[int64]domain.PresenceStatus
	store    StatusStore
}

func NewPresence(store StatusStore) *Presence {
	return &Presence{
		statuses: make(map[int64]domain.PresenceStatus),
		store:    store,
	}
}

// SetStatus updates the in-memory status and mirrors it to the store. A
// store failure does not roll the memory update back; it is returned so the
// caller can log the delivery gap.
func (p *Presence) SetStatus(userID int64, status domain.PresenceStatus) error {
	p.mu.Lock()
	p.statuses[userID] = status
	p.mu.Unlock()

	if p.store == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.store.UpdateStatus(ctx, userID, status); err != nil {
		return fmt.Errorf("persist presence for user %d: %w", userID, err)
	}
	return nil
}

// GetStatus never fails: unknown users are Disconnected.
func (p *Presence) GetStatus(userID int64) domain.PresenceStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if s, ok := p.statuses[userID]; ok {
		return s
	}
	return domain.StatusDisconnected
}

func (p *Presence) ListByStatus(status domain.PresenceStatus) []int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var res []int64
	for id, s := range p.statuses {
		if s == status {
			res = append(res, id)
		}
	}
	return res
}

// CountByStatus returns a snapshot of presence counters. The snapshot may
// be stale by the time it is read; that is fine for UI counters.
func (p *Presence) CountByStatus() map[domain.PresenceStatus]int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	res := make(map[domain.PresenceStatus]int, 3)
	for _, s := range p.statuses {
		res[s]++
	}
	return res
}

// Remove downgrades the user to Disconnected. The key is kept so late
// queries still resolve to Disconnected rather than "unknown".
func (p *Presence) Remove(userID int64) error {
	return p.SetStatus(userID, domain.StatusDisconnected)
}
