package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"cnr/internal/beneficiary/models"
	id "cnr/pkg/domain"
	"cnr/pkg/platform/tx"
)

const pgUniqueViolation = "23505"

// PostgresStore persists beneficiaries and reversions in PostgreSQL. Commit
// runs both writes in one transaction guarded by the version column.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed store over a shared pool.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectBeneficiary = `
	SELECT b.id, b.external_id, b.full_name, b.alive, b.employed, b.eligible,
	       b.legal_status, b.pension, b.version, b.created_at, b.updated_at,
	       r.id, r.successor_name, r.amount, r.status, r.created_at
	FROM beneficiaries b
	LEFT JOIN reversions r ON r.beneficiary_id = b.id
`

func (s *PostgresStore) Create(ctx context.Context, b *models.Beneficiary) error {
	if b == nil {
		return fmt.Errorf("beneficiary is required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO beneficiaries (id, external_id, full_name, alive, employed, eligible,
		                           legal_status, pension, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		uuid.UUID(b.ID),
		b.ExternalID.String(),
		b.FullName,
		b.Alive,
		b.Employed,
		b.Eligible,
		b.LegalStatus,
		b.Pension,
		b.Version,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("external id %s: %w", b.ExternalID, ErrConflict)
		}
		return fmt.Errorf("create beneficiary: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, beneficiaryID id.BeneficiaryID) (*models.Beneficiary, error) {
	row := s.db.QueryRowContext(ctx, selectBeneficiary+` WHERE b.id = $1`, uuid.UUID(beneficiaryID))
	b, err := scanBeneficiary(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find beneficiary: %w", err)
	}
	return b, nil
}

func (s *PostgresStore) FindByExternalID(ctx context.Context, externalID id.ExternalID) (*models.Beneficiary, error) {
	row := s.db.QueryRowContext(ctx, selectBeneficiary+` WHERE b.external_id = $1`, externalID.String())
	b, err := scanBeneficiary(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find beneficiary by external id: %w", err)
	}
	return b, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Beneficiary, error) {
	rows, err := s.db.QueryContext(ctx, selectBeneficiary+` ORDER BY b.created_at, b.external_id`)
	if err != nil {
		return nil, fmt.Errorf("list beneficiaries: %w", err)
	}
	defer rows.Close()

	var out []*models.Beneficiary
	for rows.Next() {
		b, err := scanBeneficiary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan beneficiary: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list beneficiaries: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ReversionFor(ctx context.Context, beneficiaryID id.BeneficiaryID) (*models.Reversion, error) {
	var (
		r     models.Reversion
		revID uuid.UUID
		benID uuid.UUID
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, beneficiary_id, successor_name, amount, status, created_at
		FROM reversions
		WHERE beneficiary_id = $1
	`, uuid.UUID(beneficiaryID)).Scan(&revID, &benID, &r.SuccessorName, &r.Amount, &r.Status, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find reversion: %w", err)
	}
	r.ID = id.ReversionID(revID)
	r.BeneficiaryID = id.BeneficiaryID(benID)
	return &r, nil
}

// Commit replaces the beneficiary row in place and inserts the reversion, if
// any, in a single transaction. The update only applies when the stored
// version matches b.Version; on success b.Version is advanced.
func (s *PostgresStore) Commit(ctx context.Context, b *models.Beneficiary, reversion *models.Reversion) error {
	if b == nil {
		return fmt.Errorf("beneficiary is required")
	}
	if reversion != nil && reversion.BeneficiaryID != b.ID {
		return fmt.Errorf("reversion belongs to %s, not %s", reversion.BeneficiaryID, b.ID)
	}

	err := tx.Run(ctx, s.db, func(ctx context.Context) error {
		q := tx.QuerierFrom(ctx, s.db)
		res, err := q.ExecContext(ctx, `
			UPDATE beneficiaries
			SET alive = $3, employed = $4, eligible = $5, legal_status = $6,
			    updated_at = $7, version = version + 1
			WHERE id = $1 AND version = $2
		`,
			uuid.UUID(b.ID),
			b.Version,
			b.Alive,
			b.Employed,
			b.Eligible,
			b.LegalStatus,
			b.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update beneficiary: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update beneficiary: %w", err)
		}
		if affected == 0 {
			return s.missingOrStale(ctx, q, b)
		}

		if reversion == nil {
			return nil
		}
		_, err = q.ExecContext(ctx, `
			INSERT INTO reversions (id, beneficiary_id, successor_name, amount, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			uuid.UUID(reversion.ID),
			uuid.UUID(reversion.BeneficiaryID),
			reversion.SuccessorName,
			reversion.Amount,
			string(reversion.Status),
			reversion.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("reversion for %s: %w", b.ID, ErrConflict)
			}
			return fmt.Errorf("insert reversion: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	b.Version++
	return nil
}

func (s *PostgresStore) missingOrStale(ctx context.Context, q tx.Querier, b *models.Beneficiary) error {
	var stored int64
	err := q.QueryRowContext(ctx, `SELECT version FROM beneficiaries WHERE id = $1`, uuid.UUID(b.ID)).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check beneficiary version: %w", err)
	}
	return fmt.Errorf("beneficiary %s version %d, stored %d: %w", b.ID, b.Version, stored, ErrConflict)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBeneficiary(row rowScanner) (*models.Beneficiary, error) {
	var (
		b          models.Beneficiary
		benID      uuid.UUID
		externalID string
		revID      uuid.NullUUID
		revName    sql.NullString
		revAmount  sql.NullFloat64
		revStatus  sql.NullString
		revCreated sql.NullTime
	)
	if err := row.Scan(
		&benID, &externalID, &b.FullName, &b.Alive, &b.Employed, &b.Eligible,
		&b.LegalStatus, &b.Pension, &b.Version, &b.CreatedAt, &b.UpdatedAt,
		&revID, &revName, &revAmount, &revStatus, &revCreated,
	); err != nil {
		return nil, err
	}
	b.ID = id.BeneficiaryID(benID)
	b.ExternalID = id.ExternalID(externalID)
	if revID.Valid {
		b.Reversion = &models.Reversion{
			ID:            id.ReversionID(revID.UUID),
			BeneficiaryID: b.ID,
			SuccessorName: revName.String,
			Amount:        revAmount.Float64,
			Status:        models.ReversionStatus(revStatus.String),
			CreatedAt:     revCreated.Time,
		}
	}
	return &b, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}
