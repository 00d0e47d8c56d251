package memory

import (
	"sync"

	"quiz-analytics-service/internal/app"
)

// HubStore is an in-memory implementation of app.HubRepository.
type HubStore struct {
	mu   sync.RWMutex
	hubs map[string]*app.Hub
}

func NewHubStore() *HubStore {
	return &HubStore{
		hubs: make(map[string]*app.Hub),
	}
}

// Subscribe registers a listener on the quiz's hub, creating it if needed.
// The returned cancel removes the hub once its last listener leaves.
func (s *HubStore) Subscribe(quizID string) (*app.Hub, <-chan app.ReportUpdate, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hub, ok := s.hubs[quizID]
	if !ok {
		hub = app.NewHub(quizID)
		s.hubs[quizID] = hub
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
