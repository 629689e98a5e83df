package eligibility

import (
	"context"

	"golang.org/x/sync/errgroup"

	"cnr/internal/verification"
	id "cnr/pkg/domain"
)

// evidence is the joined output of both verification calls.
type evidence struct {
	CivilStatus verification.CivilStatusResult
	Employment  verification.EmploymentResult
}

// gatherEvidence runs both verification calls concurrently and waits for
// both. The verifiers never fail, so the group only serves as the join;
// each call is bounded by its own client timeout.
func (s *Service) gatherEvidence(ctx context.Context, externalID id.ExternalID) evidence {
	var ev evidence
	var g errgroup.Group

	g.Go(func() error {
		ev.CivilStatus = s.civilStatus.Verify(ctx, externalID)
		return nil
	})
	g.Go(func() error {
		ev.Employment = s.employment.Verify(ctx, externalID)
		return nil
	})

	_ = g.Wait()
	return ev
}
