package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "cnr/pkg/domain"
	"cnr/pkg/platform/tx"
)

// PostgresStore appends events to the audit_events table. Appends join a
// transaction carried in ctx, if any.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	_, err := tx.QuerierFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO audit_events (id, occurred_at, action, beneficiary_id, external_id, decision, reason, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		uuid.UUID(event.ID),
		event.Timestamp,
		string(event.Action),
		uuid.UUID(event.BeneficiaryID),
		event.ExternalID.String(),
		event.Decision,
		event.Reason,
		event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByBeneficiary(ctx context.Context, beneficiaryID id.BeneficiaryID) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, occurred_at, action, beneficiary_id, external_id, decision, reason, request_id
		FROM audit_events
		WHERE beneficiary_id = $1
		ORDER BY occurred_at ASC, id ASC
	`, uuid.UUID(beneficiaryID))
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			event    Event
			eventID  uuid.UUID
			benefID  uuid.UUID
			action   string
			external string
		)
		if err := rows.Scan(&eventID, &event.Timestamp, &action, &benefID, &external, &event.Decision, &event.Reason, &event.RequestID); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.ID = id.EventID(eventID)
		event.BeneficiaryID = id.BeneficiaryID(benefID)
		event.Action = Action(action)
		event.ExternalID = id.ExternalID(external)
		out = append(out, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return out, nil
}
