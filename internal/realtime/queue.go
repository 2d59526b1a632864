package realtime

import (
	"sync"

	"goose_server/internal/domain"
	"goose_server/internal/logger"
)

// Queue is the FIFO waiting list for random-opponent matchmaking. The
// enqueue-then-maybe-pair sequence runs under one mutex so two concurrent
// enqueues can never both observe "two waiting" and pair the same users.
type Queue struct {
	mu       sync.Mutex
	waiting  []int64
	present  map[int64]bool
	presence *Presence
}

func NewQueue(presence *Presence) *Queue {
	return &Queue{
		present:  make(map[int64]bool),
		presence: presence,
	}
}

// Enqueue appends the user and pairs the two oldest entries when the queue
// holds at least two. Re-enqueueing a waiting user is a no-op. Both paired
// users are marked Playing as part of the same call.
func (q *Queue) Enqueue(userID int64) (a, b int64, paired bool) {
	q.mu.Lock()
	if q.present[userID] {
		q.mu.Unlock()
		return 0, 0, false
	}
	q.waiting = append(q.waiting, userID)
	q.present[userID] = true

	if len(q.waiting) >= 2 {
		a, b = q.waiting[0], q.waiting[1]
		q.waiting = q.waiting[2:]
		delete(q.present, a)
		delete(q.present, b)
		paired = true
	}
	q.mu.Unlock()

	if paired {
		for _, id := range []int64{a, b} {
			if err := q.presence.SetStatus(id, domain.StatusPlaying); err != nil {
				logger.Error("mark playing failed", "user_id", id, "error", err)
			}
		}
	}
	return a, b, paired
}

// Dequeue removes a specific user (cancellation or disconnect); absent users
// are a no-op.
func (q *Queue) Dequeue(userID int64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.present[userID] {
		return
	}
	delete(q.present, userID)
	for i, id := range q.waiting {
		if id == userID {
			q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
			break
		}
	}
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiting)
}

func (q *Queue) Contains(userID int64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.present[userID]
}
