package realtime

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"goose_server/internal/domain"
)

type recordingStore struct {
	mu      sync.Mutex
	updates map[int64]domain.PresenceStatus
	err     error
}

func (s *recordingStore) UpdateStatus(_ context.Context, userID int64, status domain.PresenceStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.updates == nil {
		s.updates = make(map[int64]domain.PresenceStatus)
	}
	s.updates[userID] = status
	return nil
}

func TestGetStatusDefaultsToDisconnected(t *testing.T) {
	p := NewPresence(nil)
	if got := p.GetStatus(123); got != domain.StatusDisconnected {
		t.Fatalf("GetStatus(unknown) = %q, want %q", got, domain.StatusDisconnected)
	}
}

func TestSetStatusMirrorsToStore(t *testing.T) {
	store := &recordingStore{}
	p := NewPresence(store)

	if err := p.SetStatus(1, domain.StatusConnected); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if p.GetStatus(1) != domain.StatusConnected {
		t.Fatal("memory status not updated")
	}
	if store.updates[1] != domain.StatusConnected {
		t.Fatal("store not updated")
	}
}

func TestSetStatusKeepsMemoryOnStoreFailure(t *testing.T) {
	store := &recordingStore{err: errors.New("db down")}
	p := NewPresence(store)

	err := p.SetStatus(1, domain.StatusPlaying)
	if err == nil {
		t.Fatal("expected an error from the failing store")
	}
	if p.GetStatus(1) != domain.StatusPlaying {
		t.Fatal("in-memory status must survive a store failure")
	}
}

func TestListByStatus(t *testing.T) {
	p := NewPresence(nil)
	p.SetStatus(1, domain.StatusConnected)
	p.SetStatus(2, domain.StatusPlaying)
	p.SetStatus(3, domain.StatusConnected)
	p.Remove(2)

	got := p.ListByStatus(domain.StatusConnected)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("connected users = %v, want [1 3]", got)
	}
	if p.GetStatus(2) != domain.StatusDisconnected {
		t.Fatal("removed user should read as disconnected")
	}
}

func TestCountByStatus(t *testing.T) {
	p := NewPresence(nil)
	p.SetStatus(1, domain.StatusConnected)
	p.SetStatus(2, domain.StatusConnected)
	p.SetStatus(3, domain.StatusPlaying)

	counts := p.CountByStatus()
	if counts[domain.StatusConnected] != 2 || counts[domain.StatusPlaying] != 1 {
		t.Fatalf("counts = %v", counts)
	}
}
