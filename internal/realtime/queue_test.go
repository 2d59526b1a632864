package realtime

import (
	"sync"
	"testing"

	"goose_server/internal/domain"
)

func TestEnqueuePairsTwoOldest(t *testing.T) {
	p := NewPresence(nil)
	q := NewQueue(p)

	if _, _, paired := q.Enqueue(1); paired {
		t.Fatal("a single user cannot be paired")
	}
	a, b, paired := q.Enqueue(2)
	if !paired || a != 1 || b != 2 {
		t.Fatalf("got (%d, %d, %v), want (1, 2, true)", a, b, paired)
	}
	if q.Len() != 0 {
		t.Fatalf("queue length = %d after pairing, want 0", q.Len())
	}
	if p.GetStatus(1) != domain.StatusPlaying || p.GetStatus(2) != domain.StatusPlaying {
		t.Fatal("both paired users should be marked playing")
	}
}

func TestEnqueueIsIdempotent(t *testing.T) {
	q := NewQueue(NewPresence(nil))

	q.Enqueue(5)
	if _, _, paired := q.Enqueue(5); paired {
		t.Fatal("re-enqueueing the same user must not pair him with himself")
	}
	if q.Len() != 1 {
		t.Fatalf("queue length = %d, want 1", q.Len())
	}
}

func TestDequeueRemovesWaitingUser(t *testing.T) {
	q := NewQueue(NewPresence(nil))
	q.Enqueue(1)
	q.Dequeue(1)
	q.Dequeue(1)

	if q.Contains(1) {
		t.Fatal("dequeued user should be gone")
	}
	if _, _, paired := q.Enqueue(2); paired {
		t.Fatal("no partner should remain after dequeue")
	}
}

func TestConcurrentEnqueuePairsEveryUserOnce(t *testing.T) {
	const users = 100
	q := NewQueue(NewPresence(nil))

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		seen  = make(map[int64]int)
		pairs int
	)
	for i := 1; i <= users; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			a, b, paired := q.Enqueue(id)
			if !paired {
				return
			}
			mu.Lock()
			pairs++
			seen[a]++
			seen[b]++
			mu.Unlock()
		}(int64(i))
	}
	wg.Wait()

	if pairs != users/2 {
		t.Fatalf("pairs = %d, want %d", pairs, users/2)
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("user %d paired %d times", id, n)
		}
	}
	if q.Len() != 0 {
		t.Fatalf("queue length = %d after all pairings, want 0", q.Len())
	}
}
