package eligibility

import (
	"cnr/internal/beneficiary/models"
	"cnr/internal/platform/config"
)

// Case is the branch of the decision table an audit landed on.
type Case string

const (
	CaseDeceased  Case = "deceased"
	CaseSuspended Case = "suspended"
	CaseCompliant Case = "compliant"
)

const (
	StatusDeceased  = "closed: death confirmed by civil authority"
	StatusSuspended = "suspended: salaried activity detected (cumulation breach)"
	StatusCompliant = "valid: compliant, cessation of activity verified"
)

// Policy holds the legal constants of the decision table.
type Policy struct {
	ReversionShare  float64
	DeceasedStatus  string
	SuspendedStatus string
	CompliantStatus string
}

func DefaultPolicy() Policy {
	return Policy{
		ReversionShare:  config.DefaultReversionShare,
		DeceasedStatus:  StatusDeceased,
		SuspendedStatus: StatusSuspended,
		CompliantStatus: StatusCompliant,
	}
}

// PolicyFromConfig overlays configured values on the defaults. Zero values
// keep the default.
func PolicyFromConfig(cfg config.PolicyConfig) Policy {
	p := DefaultPolicy()
	if cfg.ReversionShare > 0 {
		p.ReversionShare = cfg.ReversionShare
	}
	if cfg.DeceasedStatus != "" {
		p.DeceasedStatus = cfg.DeceasedStatus
	}
	if cfg.SuspendedStatus != "" {
		p.SuspendedStatus = cfg.SuspendedStatus
	}
	if cfg.CompliantStatus != "" {
		p.CompliantStatus = cfg.CompliantStatus
	}
	return p
}

// Decision is the outcome of the decision table for one (alive, employed)
// pair.
type Decision struct {
	Case            Case
	Alive           bool
	Employed        bool
	Eligible        bool
	LegalStatus     string
	CreateReversion bool
	ReversionShare  float64
}

// Decide applies the decision table. This is pure domain logic - no I/O, no
// side effects.
// Rule priority (first match wins):
//  1. Death - terminal, dominates any employment signal
//  2. Salaried activity - cumulation breach
//  3. Otherwise compliant
func Decide(p Policy, alive, employed bool) Decision {
	d := Decision{Alive: alive, Employed: employed}
	switch {
	case !alive:
		d.Case = CaseDeceased
		d.LegalStatus = p.DeceasedStatus
		d.CreateReversion = true
		d.ReversionShare = p.ReversionShare
	case employed:
		d.Case = CaseSuspended
		d.LegalStatus = p.SuspendedStatus
	default:
		d.Case = CaseCompliant
		d.Eligible = true
		d.LegalStatus = p.CompliantStatus
	}
	return d
}

// Assessment is the record-level projection of the decision.
func (d Decision) Assessment() models.Assessment {
	return models.Assessment{
		Alive:       d.Alive,
		Employed:    d.Employed,
		Eligible:    d.Eligible,
		LegalStatus: d.LegalStatus,
	}
}
