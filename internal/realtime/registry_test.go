package realtime

import (
	"encoding/json"
	"sync"
	"testing"
)

type fakeSession struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
	full   bool
}

func (s *fakeSession) Send(data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.full {
		return false
	}
	s.frames = append(s.frames, data)
	return true
}

func (s *fakeSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *fakeSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *fakeSession) actions(t *testing.T) []string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []string
	for _, f := range s.frames {
		var m struct {
			Action string `json:"action"`
		}
		if err := json.Unmarshal(f, &m); err != nil {
			t.Fatalf("bad frame %s: %v", f, err)
		}
		res = append(res, m.Action)
	}
	return res
}

func TestRegisterReplacesExistingConnection(t *testing.T) {
	r := NewRegistry()
	first := &fakeSession{}
	second := &fakeSession{}

	r.Register(7, first)
	r.Register(7, second)

	if !first.isClosed() {
		t.Fatal("first connection should be closed after takeover")
	}
	if second.isClosed() {
		t.Fatal("second connection should stay open")
	}
	got, ok := r.Get(7)
	if !ok || got != second {
		t.Fatal("registry should resolve to the newest connection")
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Register(1, &fakeSession{})

	r.Remove(1)
	r.Remove(1)
	r.Remove(99)

	if _, ok := r.Get(1); ok {
		t.Fatal("user should be gone")
	}
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}
}

func TestRemoveSessionKeepsReplacement(t *testing.T) {
	r := NewRegistry()
	old := &fakeSession{}
	replacement := &fakeSession{}
	r.Register(3, old)
	r.Register(3, replacement)

	if r.RemoveSession(3, old) {
		t.Fatal("stale session must not evict its replacement")
	}
	if _, ok := r.Get(3); !ok {
		t.Fatal("replacement should still be registered")
	}
	if !r.RemoveSession(3, replacement) {
		t.Fatal("owning session should remove itself")
	}
}

func TestSendDropsWhenAbsentOrFull(t *testing.T) {
	r := NewRegistry()
	if r.Send(42, Message{Action: "ping"}) {
		t.Fatal("send to an absent user should report false")
	}

	s := &fakeSession{full: true}
	r.Register(42, s)
	if r.Send(42, Message{Action: "ping"}) {
		t.Fatal("send to a full queue should report false")
	}
}

func TestBroadcastSkipsExcludedAndSurvivesFullSessions(t *testing.T) {
	r := NewRegistry()
	a := &fakeSession{}
	b := &fakeSession{full: true}
	c := &fakeSession{}
	r.Register(1, a)
	r.Register(2, b)
	r.Register(3, c)

	r.Broadcast(Message{Action: "announce"}, 1)

	if len(a.actions(t)) != 0 {
		t.Fatal("excluded user should receive nothing")
	}
	if got := c.actions(t); len(got) != 1 || got[0] != "announce" {
		t.Fatalf("user 3 frames = %v, want one announce", got)
	}
}
