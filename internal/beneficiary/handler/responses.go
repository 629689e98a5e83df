package handler

import (
	"time"

	"cnr/internal/audit"
	"cnr/internal/beneficiary/models"
)

// BeneficiaryResponse is the public shape of a record.
type BeneficiaryResponse struct {
	ID          string             `json:"id"`
	ExternalID  string             `json:"external_id"`
	FullName    string             `json:"full_name"`
	Alive       bool               `json:"alive"`
	Employed    bool               `json:"employed"`
	Eligible    bool               `json:"eligible"`
	LegalStatus string             `json:"legal_status"`
	Pension     float64            `json:"pension"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Reversion   *ReversionResponse `json:"reversion"`
}

type ReversionResponse struct {
	ID            string    `json:"id"`
	SuccessorName string    `json:"successor_name"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type EventResponse struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Action     string    `json:"action"`
	ExternalID string    `json:"external_id,omitempty"`
	Decision   string    `json:"decision,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
}

// NewBeneficiaryResponse maps a record to its public shape. The audit
// endpoint returns the same shape.
func NewBeneficiaryResponse(b *models.Beneficiary) BeneficiaryResponse {
	resp := BeneficiaryResponse{
		ID:          b.ID.String(),
		ExternalID:  b.ExternalID.String(),
		FullName:    b.FullName,
		Alive:       b.Alive,
		Employed:    b.Employed,
		Eligible:    b.Eligible,
		LegalStatus: b.LegalStatus,
		Pension:     b.Pension,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if r := b.Reversion; r != nil {
		resp.Reversion = &ReversionResponse{
			ID:            r.ID.String(),
			SuccessorName: r.SuccessorName,
			Amount:        r.Amount,
			Status:        string(r.Status),
			CreatedAt:     r.CreatedAt,
		}
	}
	return resp
}

func newEventResponses(events []audit.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, EventResponse{
			ID:         e.ID.String(),
			Timestamp:  e.Timestamp,
			Action:     string(e.Action),
			ExternalID: e.ExternalID.String(),
			Decision:   e.Decision,
			Reason:     e.Reason,
			RequestID:  e.RequestID,
		})
	}
	return out
}
