package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Store persists session state by session id.
type Store interface {
	Load(ctx context.Context, id string) (State, error)
	Save(ctx context.Context, id string, state State) error
	Delete(ctx context.Context, id string) error
}

type entry struct {
	state   State
	expires time.Time
}

// InMemoryStore keeps sessions in process memory. Entries expire after ttl.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

func NewInMemoryStore(ttl time.Duration) *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *InMemoryStore) Load(ctx context.Context, id string) (State, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return State{}, ErrNotFound
	}
	if !s.now().Before(e.expires) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return State{}, ErrNotFound
	}
	return e.state.Apply(), nil
}

func (s *InMemoryStore) Save(ctx context.Context, id string, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = entry{state: state.Apply(), expires: s.now().Add(s.ttl)}
	return nil
}

func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len reports the number of stored sessions, expired ones included.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Purge removes expired sessions and reports how many were deleted.
func (s *InMemoryStore) Purge(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var n int64
	for id, e := range s.sessions {
		if !now.Before(e.expires) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}
