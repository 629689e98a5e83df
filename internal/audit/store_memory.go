package audit

import (
	"context"
	"sort"
	"sync"

	id "cnr/pkg/domain"
)

// InMemoryStore keeps the trail in process memory.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.BeneficiaryID][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.BeneficiaryID][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.BeneficiaryID] = append(s.events[event.BeneficiaryID], event)
	return nil
}

func (s *InMemoryStore) ListByBeneficiary(_ context.Context, beneficiaryID id.BeneficiaryID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]Event(nil), s.events[beneficiaryID]...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}
