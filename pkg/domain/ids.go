// Package domain holds typed identifiers shared across modules.
//
// Typed IDs keep a beneficiary id from being passed where a reversion id is
// expected. Parsing happens at trust boundaries (HTTP handlers, store scans).
package domain

import (
	"strings"
	"unicode"

	"github.com/google/uuid"

	dErrors "cnr/pkg/domain-errors"
)

// BeneficiaryID is the stable internal id of an entitlement record.
type BeneficiaryID uuid.UUID

// ReversionID identifies a survivor-benefit record.
type ReversionID uuid.UUID

// EventID identifies an audit trail entry.
type EventID uuid.UUID

func NewBeneficiaryID() BeneficiaryID { return BeneficiaryID(uuid.New()) }
func NewReversionID() ReversionID     { return ReversionID(uuid.New()) }
func NewEventID() EventID             { return EventID(uuid.New()) }

func (id BeneficiaryID) String() string { return uuid.UUID(id).String() }
func (id ReversionID) String() string   { return uuid.UUID(id).String() }
func (id EventID) String() string       { return uuid.UUID(id).String() }

func (id BeneficiaryID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ReversionID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

// ParseBeneficiaryID parses a non-nil UUID.
func ParseBeneficiaryID(s string) (BeneficiaryID, error) {
	u, err := parseUUID(s, "beneficiary id")
	return BeneficiaryID(u), err
}

// ParseReversionID parses a non-nil UUID.
func ParseReversionID(s string) (ReversionID, error) {
	u, err := parseUUID(s, "reversion id")
	return ReversionID(u), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" must not be nil")
	}
	return u, nil
}

// ExternalID is the opaque correlation key shared with the civil-status and
// employment authorities. It is immutable once assigned.
type ExternalID string

const maxExternalIDLength = 64

// ParseExternalID rejects empty, oversized, or non-printable identifiers. The
// value ends up in authority URLs, so path separators are rejected too.
func ParseExternalID(s string) (ExternalID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "external id is required")
	}
	if len(s) > maxExternalIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "external id is too long")
	}
	for _, r := range s {
		if r == '/' || r == '?' || r == '#' || unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "external id contains invalid characters")
		}
	}
	return ExternalID(s), nil
}

func (e ExternalID) String() string { return string(e) }
