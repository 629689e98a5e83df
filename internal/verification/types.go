package verification

import (
	"time"

	id "cnr/pkg/domain"
)

// Authority names an external verification service.
type Authority string

const (
	AuthorityCivilStatus Authority = "civil_status"
	AuthorityEmployment  Authority = "employment"
)

// Source tells whether a result came from the authority or from the
// degraded-mode default.
type Source string

const (
	SourceAuthority Source = "authority"
	SourceDegraded  Source = "degraded"
)

// CivilStatus is the normalized answer of the civil-status authority.
type CivilStatus struct {
	Identifier  id.ExternalID
	Alive       bool
	DateOfDeath *time.Time
}

// Employment is the normalized answer of the employment authority.
type Employment struct {
	Identifier id.ExternalID
	Employed   bool
	Employer   *string
}

// CivilStatusResult is either an authority answer or the degraded default
// (alive). Failure is set exactly when Source is SourceDegraded.
type CivilStatusResult struct {
	CivilStatus
	Source  Source
	Failure *AuthorityError
}

func (r CivilStatusResult) Degraded() bool { return r.Source == SourceDegraded }

// EmploymentResult is either an authority answer or the degraded default
// (not employed). Failure is set exactly when Source is SourceDegraded.
type EmploymentResult struct {
	Employment
	Source  Source
	Failure *AuthorityError
}

func (r EmploymentResult) Degraded() bool { return r.Source == SourceDegraded }

// degradedCivilStatus favours continuity of payment: an unreachable registry
// never reports a death.
func degradedCivilStatus(externalID id.ExternalID, failure *AuthorityError) CivilStatusResult {
	return CivilStatusResult{
		CivilStatus: CivilStatus{Identifier: externalID, Alive: true},
		Source:      SourceDegraded,
		Failure:     failure,
	}
}

// degradedEmployment favours continuity of payment: an unreachable registry
// never reports employment.
func degradedEmployment(externalID id.ExternalID, failure *AuthorityError) EmploymentResult {
	return EmploymentResult{
		Employment: Employment{Identifier: externalID, Employed: false},
		Source:     SourceDegraded,
		Failure:    failure,
	}
}
