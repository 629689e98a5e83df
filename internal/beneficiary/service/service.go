// Package service enrols beneficiaries and serves read access to their
// records and audit trail.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cnr/internal/audit"
	"cnr/internal/beneficiary/models"
	"cnr/internal/nss"
	"cnr/internal/platform/metrics"
	id "cnr/pkg/domain"
	dErrors "cnr/pkg/domain-errors"
	"cnr/pkg/platform/sentinel"
	"cnr/pkg/requestcontext"
)

// Store persists beneficiary records.
type Store interface {
	Create(ctx context.Context, b *models.Beneficiary) error
	FindByID(ctx context.Context, beneficiaryID id.BeneficiaryID) (*models.Beneficiary, error)
	List(ctx context.Context) ([]*models.Beneficiary, error)
}

// IdentifierGenerator issues external identifiers.
type IdentifierGenerator interface {
	Generate(sim nss.Simulation) (id.ExternalID, error)
}

// Trail records events and reads them back.
type Trail interface {
	Emit(ctx context.Context, event audit.Event) error
	ListByBeneficiary(ctx context.Context, beneficiaryID id.BeneficiaryID) ([]audit.Event, error)
}

type Service struct {
	store     Store
	generator IdentifierGenerator
	trail     Trail
	logger    *slog.Logger
	metrics   *metrics.Metrics
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

func WithTrail(t Trail) Option {
	return func(s *Service) {
		s.trail = t
	}
}

func New(store Store, generator IdentifierGenerator, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if generator == nil {
		return nil, fmt.Errorf("identifier generator is required")
	}
	s := &Service{
		store:     store,
		generator: generator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create enrols a beneficiary in the pending state. A zero pension takes the
// default amount. An identifier collision is reported as a conflict; the
// caller may retry.
func (s *Service) Create(ctx context.Context, fullName string, pension float64, sim nss.Simulation) (*models.Beneficiary, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "full_name is required")
	}
	if pension == 0 {
		pension = models.DefaultPension
	}
	if pension < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "pension must be positive")
	}

	if sim == "" {
		sim = nss.SimulationNormal
	}
	externalID, err := s.generator.Generate(sim)
	if err != nil {
		return nil, err
	}
	b, err := models.NewBeneficiary(id.NewBeneficiaryID(), externalID, fullName, pension, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, dErrors.MessageOf(err))
	}

	if err := s.store.Create(ctx, b); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "external identifier already assigned")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create beneficiary")
	}

	s.metrics.IncrementBeneficiariesCreated()
	s.emit(ctx, audit.Event{
		Action:        audit.ActionBeneficiaryEnrolled,
		BeneficiaryID: b.ID,
		ExternalID:    b.ExternalID,
		Decision:      string(sim),
		Reason:        b.LegalStatus,
		RequestID:     requestcontext.RequestID(ctx),
		Timestamp:     b.CreatedAt,
	})
	s.logger.InfoContext(ctx, "beneficiary enrolled",
		"request_id", requestcontext.RequestID(ctx),
		"beneficiary_id", b.ID.String(),
		"external_id", b.ExternalID.String(),
	)
	return b, nil
}

func (s *Service) Get(ctx context.Context, beneficiaryID id.BeneficiaryID) (*models.Beneficiary, error) {
	b, err := s.store.FindByID(ctx, beneficiaryID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "beneficiary not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load beneficiary")
	}
	return b, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Beneficiary, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list beneficiaries")
	}
	return list, nil
}

// Events returns the audit trail of an existing beneficiary, oldest first.
func (s *Service) Events(ctx context.Context, beneficiaryID id.BeneficiaryID) ([]audit.Event, error) {
	if _, err := s.Get(ctx, beneficiaryID); err != nil {
		return nil, err
	}
	if s.trail == nil {
		return []audit.Event{}, nil
	}
	events, err := s.trail.ListByBeneficiary(ctx, beneficiaryID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events")
	}
	return events, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.trail == nil {
		return
	}
	if err := s.trail.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"beneficiary_id", event.BeneficiaryID.String(),
			"error", err,
		)
	}
}
