package realtime

import (
	"errors"
	"testing"
)

func TestCreateEnforcesOneLobbyPerUser(t *testing.T) {
	l := NewLobbies()

	lobby := l.Create(1)
	if lobby == nil {
		t.Fatal("first create should succeed")
	}
	if l.Create(1) != nil {
		t.Fatal("second create for the same user should fail")
	}
	if id, ok := l.UserLobby(1); !ok || id != lobby.ID {
		t.Fatalf("UserLobby(1) = (%q, %v), want (%q, true)", id, ok, lobby.ID)
	}
}

func TestJoinValidation(t *testing.T) {
	l := NewLobbies()
	lobby := l.Create(1)
	other := l.Create(2)

	if _, err := l.Join(3, "nope"); !errors.Is(err, ErrLobbyNotFound) {
		t.Fatalf("join missing lobby: %v, want ErrLobbyNotFound", err)
	}
	if _, err := l.Join(2, lobby.ID); !errors.Is(err, ErrAlreadyInLobby) {
		t.Fatalf("join while in another lobby: %v, want ErrAlreadyInLobby", err)
	}
	// Joining your own lobby again is a no-op, not an error.
	joined, err := l.Join(2, other.ID)
	if err != nil || len(joined.Members) != 1 {
		t.Fatalf("rejoin own lobby: (%v, %v)", joined, err)
	}

	joined, err = l.Join(3, lobby.ID)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if len(joined.Members) != 2 {
		t.Fatalf("members = %v, want two", joined.Members)
	}
}

func TestLobbyDestroyedWhenEmpty(t *testing.T) {
	l := NewLobbies()
	lobby := l.Create(1)
	l.Join(2, lobby.ID)

	l.Leave(1)
	if _, ok := l.Get(lobby.ID); !ok {
		t.Fatal("lobby with a remaining member should survive")
	}
	l.Leave(2)
	if _, ok := l.Get(lobby.ID); ok {
		t.Fatal("empty lobby should be destroyed")
	}
	if l.Leave(2) {
		t.Fatal("leaving twice should report false")
	}
}

func TestCreatePairEvictsExistingMemberships(t *testing.T) {
	l := NewLobbies()
	old := l.Create(1)

	pair := l.CreatePair(1, 2)
	if len(pair.Members) != 2 {
		t.Fatalf("pair members = %v", pair.Members)
	}
	if _, ok := l.Get(old.ID); ok {
		t.Fatal("old single-member lobby should be destroyed")
	}
	for _, id := range []int64{1, 2} {
		if got, _ := l.UserLobby(id); got != pair.ID {
			t.Fatalf("user %d lobby = %q, want %q", id, got, pair.ID)
		}
	}
}
