package models

import (
	"fmt"
	"time"

	id "cnr/pkg/domain"
	dErrors "cnr/pkg/domain-errors"
)

// ReversionStatus is the lifecycle flag of a survivor benefit.
type ReversionStatus string

const (
	ReversionStatusActive ReversionStatus = "active"
)

// Reversion is the survivor benefit derived from a deceased beneficiary. It is
// created once, by the death branch of an audit, and never mutated afterwards.
type Reversion struct {
	ID            id.ReversionID
	BeneficiaryID id.BeneficiaryID
	SuccessorName string
	Amount        float64
	Status        ReversionStatus
	CreatedAt     time.Time
}

// SuccessorName labels the survivors of the named beneficiary.
func SuccessorName(fullName string) string {
	return fmt.Sprintf("survivors of %s", fullName)
}

// NewReversion derives a survivor benefit worth share of the original pension.
func NewReversion(reversionID id.ReversionID, b *Beneficiary, share float64, now time.Time) (*Reversion, error) {
	if b == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "beneficiary is required")
	}
	if share <= 0 || share > 1 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "reversion share must be in (0, 1]")
	}
	return &Reversion{
		ID:            reversionID,
		BeneficiaryID: b.ID,
		SuccessorName: SuccessorName(b.FullName),
		Amount:        b.Pension * share,
		Status:        ReversionStatusActive,
		CreatedAt:     now,
	}, nil
}
