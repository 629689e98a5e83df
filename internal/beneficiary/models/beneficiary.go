package models

import (
	"strings"
	"time"

	id "cnr/pkg/domain"
	dErrors "cnr/pkg/domain-errors"
)

// StatusPending is the narrative of a record that has never been audited.
const StatusPending = "pending: awaiting audit"

// DefaultPension is the amount used when enrolment omits one.
const DefaultPension = 30000.0

// Beneficiary is the entitlement record under audit.
//
// Invariants:
//   - ExternalID is non-empty and never changes after construction
//   - Pension is positive
//   - Eligible implies Alive and not Employed
//   - LegalStatus is derived from (Alive, Employed, Eligible) by the decision
//     table; it is only written together with those flags via ApplyAssessment
//
// Version increments on every committed write and backs the store's
// compare-and-set.
type Beneficiary struct {
	ID          id.BeneficiaryID
	ExternalID  id.ExternalID
	FullName    string
	Alive       bool
	Employed    bool
	Eligible    bool
	LegalStatus string
	Pension     float64
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Reversion is populated on reads and after an audit; it is not part of
	// the beneficiary row.
	Reversion *Reversion
}

// NewBeneficiary builds a record in the pending, not-yet-adjudicated state.
func NewBeneficiary(beneficiaryID id.BeneficiaryID, externalID id.ExternalID, fullName string, pension float64, now time.Time) (*Beneficiary, error) {
	fullName = strings.TrimSpace(fullName)
	if beneficiaryID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "beneficiary id is required")
	}
	if externalID == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "external id is required")
	}
	if fullName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "full name is required")
	}
	if pension <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "pension must be positive")
	}
	return &Beneficiary{
		ID:          beneficiaryID,
		ExternalID:  externalID,
		FullName:    fullName,
		Alive:       true,
		Employed:    false,
		Eligible:    false,
		LegalStatus: StatusPending,
		Pension:     pension,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Assessment is the outcome of one audit as applied to the record.
type Assessment struct {
	Alive       bool
	Employed    bool
	Eligible    bool
	LegalStatus string
}

// ApplyAssessment replaces the verification flags and narrative in place.
// It rejects assessments that would break the eligibility invariant.
func (b *Beneficiary) ApplyAssessment(a Assessment, now time.Time) error {
	if a.Eligible && (!a.Alive || a.Employed) {
		return dErrors.New(dErrors.CodeInvariantViolation, "eligible requires alive and not employed")
	}
	if a.LegalStatus == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "legal status is required")
	}
	b.Alive = a.Alive
	b.Employed = a.Employed
	b.Eligible = a.Eligible
	b.LegalStatus = a.LegalStatus
	b.UpdatedAt = now
	return nil
}

// IsPending reports whether the record has never been adjudicated.
func (b *Beneficiary) IsPending() bool {
	return b.LegalStatus == StatusPending
}

// DeathConfirmed reports whether a previous audit recorded the death.
func (b *Beneficiary) DeathConfirmed() bool {
	return !b.Alive
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (b *Beneficiary) Clone() *Beneficiary {
	if b == nil {
		return nil
	}
	c := *b
	if b.Reversion != nil {
		r := *b.Reversion
		c.Reversion = &r
	}
	return &c
}
