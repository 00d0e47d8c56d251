package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-analytics-service/internal/app"
)

// HubStore is a Redis-aware implementation of app.HubRepository.
// Hubs and their subscribers stay in process; Redis only carries a liveness
// marker per quiz so operators can see which dashboards are being watched.
type HubStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	hubs   map[string]*app.Hub
}

func NewHubStore(client *redis.Client, ttl time.Duration) *HubStore {
	return &HubStore{
		client: client,
		ttl:    ttl,
		hubs:   make(map[string]*app.Hub),
	}
}

// Subscribe registers a listener on the quiz's hub, creating it and its
// liveness marker if needed. The returned cancel drops both once the last
// listener leaves.
func (s *HubStore) Subscribe(quizID string) (*app.Hub, <-chan app.ReportUpdate, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hub, ok := s.hubs[quizID]
	if !ok {
		hub = app.NewHub(quizID)
		s.hubs[quizID] = hub
		// best-effort liveness marker
		_ = s.client.Set(context.Background(), hubKey(quizID), "1", s.ttl).Err()
	}
	ch, unsubscribe := hub.Subscribe()

	var once sync.Once
	return hub, ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			unsubscribe()
			if s.hubs[quizID] == hub && hub.IsIdle() {
				delete(s.hubs, quizID)
				_ = s.client.Del(context.Background(), hubKey(quizID)).Err()
			}
		})
	}
}

func (s *HubStore) Get(quizID string) (*app.Hub, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hub, ok := s.hubs[quizID]
	return hub, ok
}

func hubKey(quizID string) string {
	return "quiz:hub:" + quizID
}
