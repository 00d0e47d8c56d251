package memory

import (
	"context"
	"sync"

	"quiz-analytics-service/internal/domain"
)

// ResponseStore is an in-memory implementation of app.ResponseRepository.
type ResponseStore struct {
	mu        sync.RWMutex
	responses map[string][]domain.Response
}

func NewResponseStore() *ResponseStore {
	return &ResponseStore{responses: make(map[string][]domain.Response)}
}

// Save appends the response, replacing an earlier one with the same ID in place.
func (s *ResponseStore) Save(_ context.Context, response domain.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.responses[response.QuizID]
	for i := range list {
		if list[i].ID == response.ID {
			list[i] = response
			return nil
		}
	}
	s.responses[response.QuizID] = append(list, response)
	return nil
}

func (s *ResponseStore) Get(_ context.Context, quizID, responseID string) (domain.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.responses[quizID] {
		if r.ID == responseID {
			return r, nil
		}
	}
	return domain.Response{}, domain.ErrResponseNotFound
}

// List returns a snapshot copy; later saves do not affect it.
func (s *ResponseStore) List(_ context.Context, quizID string) ([]domain.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Response, len(s.responses[quizID]))
	copy(out, s.responses[quizID])
	return out, nil
}

func (s *ResponseStore) Delete(_ context.Context, quizID, responseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.responses[quizID]
	for i := range list {
		if list[i].ID != responseID {
			continue
		}
		next := make([]domain.Response, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		if len(next) == 0 {
			delete(s.responses, quizID)
		} else {
			s.responses[quizID] = next
		}
		return nil
	}
	return domain.ErrResponseNotFound
}
