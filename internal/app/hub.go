package app

import (
	"sync"
	"time"

	"quiz-analytics-service/internal/cohort"
)

// ReportUpdate is a cohort report pushed to live subscribers.
type ReportUpdate struct {
	QuizID    string        `json:"quizId"`
	Report    cohort.Report `json:"report"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Hub fans out report updates for one quiz. It holds only the latest
// snapshot and the subscriber set; reports are computed by the service.
type Hub struct {
	id          string
	createdAt   time.Time
	now         func() time.Time
	mu          sync.RWMutex
	latest      *ReportUpdate
	subscribers map[chan ReportUpdate]struct{}
}

// NewHub is exported for infrastructure layers that keep hubs.
func NewHub(id string) *Hub {
	return NewHubWithClock(id, time.Now)
}

// NewHubWithClock allows deterministic timestamps in tests.
func NewHubWithClock(id string, now func() time.Time) *Hub {
	return &Hub{
		id:          id,
		createdAt:   now(),
		now:         now,
		subscribers: make(map[chan ReportUpdate]struct{}),
	}
}

// ID returns the quiz the hub serves.
func (h *Hub) ID() string {
	return h.id
}

// IsIdle reports whether nobody is listening.
func (h *Hub) IsIdle() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers) == 0
}

func (h *Hub) hasSnapshot() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest != nil
}

// Subscribe registers a listener and primes it with the latest snapshot.
// Services go through HubRepository.Subscribe so that registering the
// listener and keeping the hub findable happen together.
func (h *Hub) Subscribe() (<-chan ReportUpdate, func()) {
	ch := make(chan ReportUpdate, 8)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	if h.latest != nil {
		ch <- *h.latest
	}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *Hub) publish(report cohort.Report) ReportUpdate {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.publishLocked(report)
}

// publishIfEmpty primes a fresh hub. It is a no-op once any report has been
// published, so a report built from an older snapshot never replaces a newer one.
func (h *Hub) publishIfEmpty(report cohort.Report) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.latest != nil {
		return false
	}
	h.publishLocked(report)
	return true
}

func (h *Hub) publishLocked(report cohort.Report) ReportUpdate {
	update := ReportUpdate{QuizID: h.id, Report: report, UpdatedAt: h.now()}
	h.latest = &update
	for ch := range h.subscribers {
		select {
		case ch <- update:
		default:
			// Slow subscriber: drop its oldest pending update.
			select {
			case <-ch:
			default:
			}
			ch <- update
		}
	}
	return update
}
