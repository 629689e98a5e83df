package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"cnr/internal/beneficiary/models"
	id "cnr/pkg/domain"
	"cnr/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) newBeneficiary(externalID string) *models.Beneficiary {
	b, err := models.NewBeneficiary(id.NewBeneficiaryID(), id.ExternalID(externalID), "Amina Brahimi", 30000, time.Now())
	s.Require().NoError(err)
	return b
}

func (s *InMemoryStoreSuite) TestCreationAndLookups() {
	b := s.newBeneficiary("26-16-48213-42")
	s.Require().NoError(s.store.Create(s.ctx, b))

	s.Run("finds by id", func() {
		found, err := s.store.FindByID(s.ctx, b.ID)
		s.Require().NoError(err)
		s.Equal(b.ExternalID, found.ExternalID)
		s.Nil(found.Reversion)
	})

	s.Run("finds by external id", func() {
		found, err := s.store.FindByExternalID(s.ctx, b.ExternalID)
		s.Require().NoError(err)
		s.Equal(b.ID, found.ID)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.FindByID(s.ctx, id.NewBeneficiaryID())
		s.ErrorIs(err, sentinel.ErrNotFound)

		_, err = s.store.ReversionFor(s.ctx, b.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects duplicate external id", func() {
		dup := s.newBeneficiary("26-16-48213-42")
		s.ErrorIs(s.store.Create(s.ctx, dup), sentinel.ErrConflict)
	})

	s.Run("reads are copies", func() {
		found, err := s.store.FindByID(s.ctx, b.ID)
		s.Require().NoError(err)
		found.Eligible = true

		again, err := s.store.FindByID(s.ctx, b.ID)
		s.Require().NoError(err)
		s.False(again.Eligible)
	})
}

func (s *InMemoryStoreSuite) TestCommit() {
	s.Run("writes beneficiary and reversion together", func() {
		b := s.newBeneficiary("26-16-48213-00")
		s.Require().NoError(s.store.Create(s.ctx, b))

		s.Require().NoError(b.ApplyAssessment(models.Assessment{Alive: false, LegalStatus: "closed"}, time.Now()))
		rev, err := models.NewReversion(id.NewReversionID(), b, 0.75, time.Now())
		s.Require().NoError(err)

		s.Require().NoError(s.store.Commit(s.ctx, b, rev))
		s.Equal(int64(2), b.Version)

		found, err := s.store.FindByID(s.ctx, b.ID)
		s.Require().NoError(err)
		s.False(found.Alive)
		s.Require().NotNil(found.Reversion)
		s.Equal(22500.0, found.Reversion.Amount)
	})

	s.Run("rejects stale version without writing", func() {
		b := s.newBeneficiary("26-16-48214-00")
		s.Require().NoError(s.store.Create(s.ctx, b))

		first, _ := s.store.FindByID(s.ctx, b.ID)
		second, _ := s.store.FindByID(s.ctx, b.ID)

		s.Require().NoError(first.ApplyAssessment(models.Assessment{Alive: true, Eligible: true, LegalStatus: "valid"}, time.Now()))
		s.Require().NoError(s.store.Commit(s.ctx, first, nil))

		s.Require().NoError(second.ApplyAssessment(models.Assessment{Alive: false, LegalStatus: "closed"}, time.Now()))
		rev, err := models.NewReversion(id.NewReversionID(), second, 0.75, time.Now())
		s.Require().NoError(err)
		s.ErrorIs(s.store.Commit(s.ctx, second, rev), sentinel.ErrConflict)

		found, _ := s.store.FindByID(s.ctx, b.ID)
		s.True(found.Alive)
		s.Nil(found.Reversion, "no reversion may be visible after a rejected commit")
	})

	s.Run("rejects second reversion", func() {
		b := s.newBeneficiary("26-16-48215-00")
		s.Require().NoError(s.store.Create(s.ctx, b))
		rev1, _ := models.NewReversion(id.NewReversionID(), b, 0.75, time.Now())
		s.Require().NoError(s.store.Commit(s.ctx, b, rev1))

		rev2, _ := models.NewReversion(id.NewReversionID(), b, 0.75, time.Now())
		s.ErrorIs(s.store.Commit(s.ctx, b, rev2), sentinel.ErrConflict)
	})

	s.Run("unknown beneficiary", func() {
		ghost := s.newBeneficiary("26-16-48216-42")
		s.ErrorIs(s.store.Commit(s.ctx, ghost, nil), sentinel.ErrNotFound)
	})
}

// TestConcurrentCommitsSameVersion verifies that concurrent writers holding the
// same version produce exactly one winner.
func (s *InMemoryStoreSuite) TestConcurrentCommitsSameVersion() {
	b := s.newBeneficiary("26-16-48217-42")
	s.Require().NoError(s.store.Create(s.ctx, b))

	const writers = 50
	var wg sync.WaitGroup
	var wins atomic.Int32
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			copyOf := b.Clone()
			_ = copyOf.ApplyAssessment(models.Assessment{Alive: true, Eligible: true, LegalStatus: "valid"}, time.Now())
			if err := s.store.Commit(s.ctx, copyOf, nil); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load())
	found, err := s.store.FindByID(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), found.Version)
}

func (s *InMemoryStoreSuite) TestListOrdersByCreation() {
	older := s.newBeneficiary("26-16-10000-42")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := s.newBeneficiary("26-16-10001-42")
	s.Require().NoError(s.store.Create(s.ctx, newer))
	s.Require().NoError(s.store.Create(s.ctx, older))

	list, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(older.ID, list[0].ID)
	s.Equal(newer.ID, list[1].ID)
}
