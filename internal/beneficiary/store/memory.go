package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"cnr/internal/beneficiary/models"
	id "cnr/pkg/domain"
)

// InMemory is a process-local store. Every read returns a copy, so callers
// can only change stored state through Commit.
type InMemory struct {
	mu            sync.RWMutex
	beneficiaries map[id.BeneficiaryID]*models.Beneficiary
	byExternalID  map[id.ExternalID]id.BeneficiaryID
	reversions    map[id.BeneficiaryID]*models.Reversion
}

func NewInMemory() *InMemory {
	return &InMemory{
		beneficiaries: make(map[id.BeneficiaryID]*models.Beneficiary),
		byExternalID:  make(map[id.ExternalID]id.BeneficiaryID),
		reversions:    make(map[id.BeneficiaryID]*models.Reversion),
	}
}

func (s *InMemory) Create(_ context.Context, b *models.Beneficiary) error {
	if b == nil {
		return fmt.Errorf("beneficiary is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byExternalID[b.ExternalID]; exists {
		return fmt.Errorf("external id %s: %w", b.ExternalID, ErrConflict)
	}
	if _, exists := s.beneficiaries[b.ID]; exists {
		return fmt.Errorf("beneficiary %s: %w", b.ID, ErrConflict)
	}
	stored := b.Clone()
	stored.Reversion = nil
	s.beneficiaries[b.ID] = stored
	s.byExternalID[b.ExternalID] = b.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, beneficiaryID id.BeneficiaryID) (*models.Beneficiary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadLocked(beneficiaryID)
}

func (s *InMemory) FindByExternalID(_ context.Context, externalID id.ExternalID) (*models.Beneficiary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	beneficiaryID, ok := s.byExternalID[externalID]
	if !ok {
		return nil, ErrNotFound
	}
	return s.loadLocked(beneficiaryID)
}

func (s *InMemory) List(_ context.Context) ([]*models.Beneficiary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Beneficiary, 0, len(s.beneficiaries))
	for beneficiaryID := range s.beneficiaries {
		b, _ := s.loadLocked(beneficiaryID)
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ExternalID < out[j].ExternalID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemory) ReversionFor(_ context.Context, beneficiaryID id.BeneficiaryID) (*models.Reversion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reversions[beneficiaryID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *r
	return &copied, nil
}

// Commit writes b and, when non-nil, reversion as one unit. Either both are
// visible afterwards or neither is.
func (s *InMemory) Commit(_ context.Context, b *models.Beneficiary, reversion *models.Reversion) error {
	if b == nil {
		return fmt.Errorf("beneficiary is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.beneficiaries[b.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Version != b.Version {
		return fmt.Errorf("beneficiary %s version %d, stored %d: %w", b.ID, b.Version, current.Version, ErrConflict)
	}
	if current.ExternalID != b.ExternalID {
		return fmt.Errorf("external id is immutable: %w", ErrConflict)
	}
	if reversion != nil {
		if reversion.BeneficiaryID != b.ID {
			return fmt.Errorf("reversion belongs to %s, not %s", reversion.BeneficiaryID, b.ID)
		}
		if _, exists := s.reversions[b.ID]; exists {
			return fmt.Errorf("reversion for %s: %w", b.ID, ErrConflict)
		}
	}

	stored := b.Clone()
	stored.Reversion = nil
	stored.Version = current.Version + 1
	s.beneficiaries[b.ID] = stored
	if reversion != nil {
		copied := *reversion
		s.reversions[b.ID] = &copied
	}
	b.Version = stored.Version
	return nil
}

func (s *InMemory) loadLocked(beneficiaryID id.BeneficiaryID) (*models.Beneficiary, error) {
	b, ok := s.beneficiaries[beneficiaryID]
	if !ok {
		return nil, ErrNotFound
	}
	out := b.Clone()
	if r, ok := s.reversions[beneficiaryID]; ok {
		copied := *r
		out.Reversion = &copied
	}
	return out, nil
}
