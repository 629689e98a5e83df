// Package eligibility runs the entitlement audit: load a beneficiary, verify
// it against both authorities concurrently, apply the decision table, and
// commit the record together with any derived reversion.
package eligibility

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cnr/internal/audit"
	"cnr/internal/beneficiary/models"
	"cnr/internal/platform/metrics"
	"cnr/internal/verification"
	id "cnr/pkg/domain"
	dErrors "cnr/pkg/domain-errors"
	"cnr/pkg/platform/sentinel"
	"cnr/pkg/requestcontext"
)

// Store is the slice of the record store the audit needs.
type Store interface {
	FindByID(ctx context.Context, beneficiaryID id.BeneficiaryID) (*models.Beneficiary, error)
	ReversionFor(ctx context.Context, beneficiaryID id.BeneficiaryID) (*models.Reversion, error)
	Commit(ctx context.Context, b *models.Beneficiary, reversion *models.Reversion) error
}

// CivilStatusVerifier never fails; authority problems come back as a
// degraded result.
type CivilStatusVerifier interface {
	Verify(ctx context.Context, externalID id.ExternalID) verification.CivilStatusResult
}

// EmploymentVerifier never fails; authority problems come back as a
// degraded result.
type EmploymentVerifier interface {
	Verify(ctx context.Context, externalID id.ExternalID) verification.EmploymentResult
}

// AuditPublisher records the trail. Failures are logged, never surfaced.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates audits.
type Service struct {
	store          Store
	civilStatus    CivilStatusVerifier
	employment     EmploymentVerifier
	locker         Locker
	auditor        AuditPublisher
	policy         Policy
	logger         *slog.Logger
	metrics        *metrics.Metrics
	newReversionID func() id.ReversionID
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

// WithLocker replaces the default in-process KeyedLocker, e.g. with a
// RedisLocker when several replicas share a database.
func WithLocker(l Locker) Option {
	return func(s *Service) {
		if l != nil {
			s.locker = l
		}
	}
}

func WithPolicy(p Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithReversionIDGenerator fixes reversion ids in tests.
func WithReversionIDGenerator(fn func() id.ReversionID) Option {
	return func(s *Service) {
		if fn != nil {
			s.newReversionID = fn
		}
	}
}

func NewService(store Store, civilStatus CivilStatusVerifier, employment EmploymentVerifier, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if civilStatus == nil || employment == nil {
		return nil, fmt.Errorf("both verifiers are required")
	}
	s := &Service{
		store:          store,
		civilStatus:    civilStatus,
		employment:     employment,
		locker:         NewKeyedLocker(),
		policy:         DefaultPolicy(),
		logger:         slog.Default(),
		newReversionID: id.NewReversionID,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.policy.ReversionShare <= 0 || s.policy.ReversionShare > 1 {
		return nil, fmt.Errorf("reversion share must be in (0, 1], got %v", s.policy.ReversionShare)
	}
	return s, nil
}

// RunAudit re-validates one beneficiary and returns the committed record,
// including its reversion when one exists.
//
// Errors: not_found (no external call made), timeout (ctx ended before the
// commit; nothing written), write_failure (commit rejected; retryable).
func (s *Service) RunAudit(ctx context.Context, beneficiaryID id.BeneficiaryID) (*models.Beneficiary, error) {
	start := time.Now()

	unlock, err := s.locker.Lock(ctx, beneficiaryID.String())
	if err != nil {
		if ctx.Err() != nil {
			return nil, s.fail(ctx, beneficiaryID, dErrors.Wrap(err, dErrors.CodeTimeout, "audit canceled while waiting for a concurrent audit"))
		}
		return nil, s.fail(ctx, beneficiaryID, dErrors.Wrap(err, dErrors.CodeWriteFailure, "audit lock unavailable"))
	}
	defer unlock()

	b, err := s.store.FindByID(ctx, beneficiaryID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, s.fail(ctx, beneficiaryID, dErrors.Wrap(err, dErrors.CodeNotFound, "beneficiary not found"))
		}
		return nil, s.fail(ctx, beneficiaryID, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load beneficiary"))
	}

	ev := s.gatherEvidence(ctx, b.ExternalID)
	if err := ctx.Err(); err != nil {
		return nil, s.fail(ctx, beneficiaryID, dErrors.Wrap(err, dErrors.CodeTimeout, "audit canceled during verification"))
	}

	alive := ev.CivilStatus.Alive
	if b.DeathConfirmed() && alive {
		// Death is terminal; no later answer revives the record.
		s.logger.InfoContext(ctx, "ignoring alive answer for a confirmed death",
			"beneficiary_id", beneficiaryID.String(),
			"source", ev.CivilStatus.Source,
		)
		alive = false
	}
	decision := Decide(s.policy, alive, ev.Employment.Employed)
	now := requestcontext.Now(ctx)

	var created *models.Reversion
	if decision.CreateReversion {
		created, err = s.reversionToCreate(ctx, b, decision.ReversionShare, now)
		if err != nil {
			return nil, s.fail(ctx, beneficiaryID, err)
		}
	}

	if err := b.ApplyAssessment(decision.Assessment(), now); err != nil {
		return nil, s.fail(ctx, beneficiaryID, dErrors.Wrap(err, dErrors.CodeInternal, "decision produced an invalid record"))
	}
	if err := ctx.Err(); err != nil {
		return nil, s.fail(ctx, beneficiaryID, dErrors.Wrap(err, dErrors.CodeTimeout, "audit canceled before commit"))
	}

	if err := s.store.Commit(ctx, b, created); err != nil {
		s.logger.ErrorContext(ctx, "audit commit failed",
			"request_id", requestcontext.RequestID(ctx),
			"beneficiary_id", beneficiaryID.String(),
			"case", decision.Case,
			"error", err,
		)
		msg := "failed to commit audit"
		if errors.Is(err, sentinel.ErrConflict) {
			msg = "beneficiary changed during audit"
		}
		return nil, s.fail(ctx, beneficiaryID, dErrors.Wrap(err, dErrors.CodeWriteFailure, msg))
	}
	if created != nil {
		b.Reversion = created
		s.metrics.IncrementReversionsCreated()
	}

	s.emitTrail(ctx, b, decision, ev, created)
	s.metrics.IncrementAuditOutcome(string(decision.Case))
	s.metrics.ObserveAuditLatency(time.Since(start))
	s.logger.InfoContext(ctx, "audit committed",
		"request_id", requestcontext.RequestID(ctx),
		"beneficiary_id", beneficiaryID.String(),
		"external_id", b.ExternalID.String(),
		"case", decision.Case,
		"eligible", b.Eligible,
		"civil_status_source", ev.CivilStatus.Source,
		"employment_source", ev.Employment.Source,
		"reversion_created", created != nil,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return b, nil
}

// reversionToCreate returns a new reversion when the beneficiary has none,
// or nil when one already exists.
func (s *Service) reversionToCreate(ctx context.Context, b *models.Beneficiary, share float64, now time.Time) (*models.Reversion, error) {
	existing, err := s.store.ReversionFor(ctx, b.ID)
	switch {
	case err == nil:
		b.Reversion = existing
		return nil, nil
	case errors.Is(err, sentinel.ErrNotFound):
		rev, err := models.NewReversion(s.newReversionID(), b, share, now)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to derive reversion")
		}
		return rev, nil
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up reversion")
	}
}

func (s *Service) fail(ctx context.Context, beneficiaryID id.BeneficiaryID, err error) error {
	code := dErrors.CodeOf(err)
	s.metrics.IncrementAuditFailure(string(code))
	if code != dErrors.CodeWriteFailure {
		s.logger.WarnContext(ctx, "audit aborted",
			"request_id", requestcontext.RequestID(ctx),
			"beneficiary_id", beneficiaryID.String(),
			"code", code,
			"error", err,
		)
	}
	return err
}

func (s *Service) emitTrail(ctx context.Context, b *models.Beneficiary, d Decision, ev evidence, created *models.Reversion) {
	if s.auditor == nil {
		return
	}
	requestID := requestcontext.RequestID(ctx)
	base := audit.Event{
		BeneficiaryID: b.ID,
		ExternalID:    b.ExternalID,
		RequestID:     requestID,
		Timestamp:     b.UpdatedAt,
	}

	if f := ev.CivilStatus.Failure; f != nil {
		s.emit(ctx, withAction(base, audit.ActionAuthorityDegraded, string(f.Authority), string(f.Category)))
	}
	if f := ev.Employment.Failure; f != nil {
		s.emit(ctx, withAction(base, audit.ActionAuthorityDegraded, string(f.Authority), string(f.Category)))
	}
	s.emit(ctx, withAction(base, audit.ActionBeneficiaryAudited, string(d.Case), b.LegalStatus))
	if created != nil {
		s.emit(ctx, withAction(base, audit.ActionReversionCreated, created.ID.String(), created.SuccessorName))
	}
}

func withAction(base audit.Event, action audit.Action, decision, reason string) audit.Event {
	base.Action = action
	base.Decision = decision
	base.Reason = reason
	return base
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"beneficiary_id", event.BeneficiaryID.String(),
			"error", err,
		)
	}
}
