package audit

import (
	"time"

	id "cnr/pkg/domain"
)

// Action names an entry in a beneficiary's audit trail.
type Action string

const (
	ActionBeneficiaryEnrolled Action = "beneficiary_enrolled"
	ActionBeneficiaryAudited  Action = "beneficiary_audited"
	ActionReversionCreated    Action = "reversion_created"
	ActionAuthorityDegraded   Action = "authority_degraded"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID            id.EventID
	Timestamp     time.Time
	Action        Action
	BeneficiaryID id.BeneficiaryID
	ExternalID    id.ExternalID
	Decision      string
	Reason        string
	RequestID     string
}
