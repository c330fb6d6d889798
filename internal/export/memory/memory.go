package memory

import (
	"context"
	"fmt"
	"sync"

	"caixa/internal/core"
)

// Store is an in-memory export target, used in tests and as a stand-in
// when no spreadsheet is configured.
type Store struct {
	mu    sync.Mutex
	items map[string]core.Movement
	order []string
}

func New() *Store {
	return &Store{items: make(map[string]core.Movement)}
}

// Append stores the movement and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, m core.Movement) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[m.ID]; !ok {
		s.order = append(s.order, m.ID)
	}
	s.items[m.ID] = m
	return fmt.Sprintf("mem:%d", len(s.order)), nil
}

// Remove drops the movement. Removing an unknown ID is a no-op.
func (s *Store) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return nil
	}
	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// All returns the stored movements in append order.
func (s *Store) All() []core.Movement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Movement, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}
