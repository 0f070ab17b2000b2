package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/advisorly/content-compliance-backend/internal/domain/compliance"
	domainerrors "github.com/advisorly/content-compliance-backend/internal/domain/errors"
)

// ValidationRepository persists ContentValidation aggregates in Postgres.
// The nested check results, risk assessment, modifications and workflow
// are stored as JSONB; audit entries live in their own append-only table.
type ValidationRepository struct {
	db *pgxpool.Pool
}

// NewValidationRepository creates a new validation repository.
func NewValidationRepository(db *pgxpool.Pool) *ValidationRepository {
	return &ValidationRepository{db: db}
}

var _ compliance.Repository = (*ValidationRepository)(nil)

// Save stores a newly created validation and its initial audit trail in
// one transaction.
func (r *ValidationRepository) Save(ctx context.Context, v *compliance.ContentValidation) error {
	checks, risk, mods, workflow, err := marshalAggregate(v)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO content_validations (
			id, content_id, advisor_id, meeting_id, validation_type, status,
			compliance_checks, risk_assessment, content_modifications,
			approval_workflow, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = tx.Exec(ctx, query,
		v.ID, v.ContentID, v.AdvisorID, v.MeetingID, v.ValidationType, v.Status,
		checks, risk, mods, workflow, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting validation: %w", err)
	}

	for _, entry := range v.AuditTrail {
		if err := insertAuditEntry(ctx, tx, v.ID, entry); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Update persists review mutations and any audit entries not yet stored.
func (r *ValidationRepository) Update(ctx context.Context, v *compliance.ContentValidation) error {
	_, _, _, workflow, err := marshalAggregate(v)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE content_validations
		SET status = $2, approval_workflow = $3, updated_at = $4
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, v.ID, v.Status, workflow, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating validation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainerrors.ErrValidationNotFound
	}

	// INSERT ... ON CONFLICT keeps already-stored entries untouched, so
	// re-saving the full trail stays idempotent.
	for _, entry := range v.AuditTrail {
		if err := insertAuditEntry(ctx, tx, v.ID, entry); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetByID fetches one validation with its full audit trail.
func (r *ValidationRepository) GetByID(ctx context.Context, id uuid.UUID) (*compliance.ContentValidation, error) {
	query := `
		SELECT id, content_id, advisor_id, meeting_id, validation_type, status,
		       compliance_checks, risk_assessment, content_modifications,
		       approval_workflow, created_at, updated_at
		FROM content_validations
		WHERE id = $1`

	v, err := scanValidation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerrors.ErrValidationNotFound
		}
		return nil, fmt.Errorf("querying validation: %w", err)
	}

	trail, err := r.loadAuditTrail(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	v.AuditTrail = trail
	return v, nil
}

// ListByAdvisor returns an advisor's validations newest first, audit
// trails included.
func (r *ValidationRepository) ListByAdvisor(ctx context.Context, advisorID string, limit, offset int) ([]*compliance.ContentValidation, error) {
	query := `
		SELECT id, content_id, advisor_id, meeting_id, validation_type, status,
		       compliance_checks, risk_assessment, content_modifications,
		       approval_workflow, created_at, updated_at
		FROM content_validations
		WHERE advisor_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, advisorID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying validations: %w", err)
	}
	defer rows.Close()

	var validations []*compliance.ContentValidation
	for rows.Next() {
		v, err := scanValidation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning validation: %w", err)
		}
		validations = append(validations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating validations: %w", err)
	}

	for _, v := range validations {
		trail, err := r.loadAuditTrail(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		v.AuditTrail = trail
	}

	return validations, nil
}

func (r *ValidationRepository) loadAuditTrail(ctx context.Context, validationID uuid.UUID) ([]compliance.AuditEntry, error) {
	query := `
		SELECT id, action, performed_by, performed_at, details
		FROM validation_audit_entries
		WHERE validation_id = $1
		ORDER BY performed_at, seq`

	rows, err := r.db.Query(ctx, query, validationID)
	if err != nil {
		return nil, fmt.Errorf("querying audit trail: %w", err)
	}
	defer rows.Close()

	var trail []compliance.AuditEntry
	for rows.Next() {
		var e compliance.AuditEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.PerformedBy, &e.PerformedAt, &e.Details); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		trail = append(trail, e)
	}
	return trail, rows.Err()
}

func insertAuditEntry(ctx context.Context, tx pgx.Tx, validationID uuid.UUID, entry compliance.AuditEntry) error {
	query := `
		INSERT INTO validation_audit_entries (id, validation_id, action, performed_by, performed_at, details)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`

	_, err := tx.Exec(ctx, query,
		entry.ID, validationID, entry.Action, entry.PerformedBy, entry.PerformedAt, entry.Details,
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

func marshalAggregate(v *compliance.ContentValidation) (checks, risk, mods, workflow []byte, err error) {
	if checks, err = json.Marshal(v.ComplianceChecks); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshaling compliance checks: %w", err)
	}
	if risk, err = json.Marshal(v.RiskAssessment); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshaling risk assessment: %w", err)
	}
	if mods, err = json.Marshal(v.ContentModifications); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshaling modifications: %w", err)
	}
	if workflow, err = json.Marshal(v.ApprovalWorkflow); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshaling approval workflow: %w", err)
	}
	return checks, risk, mods, workflow, nil
}

func scanValidation(row pgx.Row) (*compliance.ContentValidation, error) {
	var (
		v        compliance.ContentValidation
		checks   []byte
		risk     []byte
		mods     []byte
		workflow []byte
	)

	err := row.Scan(
		&v.ID, &v.ContentID, &v.AdvisorID, &v.MeetingID, &v.ValidationType, &v.Status,
		&checks, &risk, &mods, &workflow, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(checks, &v.ComplianceChecks); err != nil {
		return nil, fmt.Errorf("unmarshaling compliance checks: %w", err)
	}
	if err := json.Unmarshal(risk, &v.RiskAssessment); err != nil {
		return nil, fmt.Errorf("unmarshaling risk assessment: %w", err)
	}
	if err := json.Unmarshal(mods, &v.ContentModifications); err != nil {
		return nil, fmt.Errorf("unmarshaling modifications: %w", err)
	}
	if err := json.Unmarshal(workflow, &v.ApprovalWorkflow); err != nil {
		return nil, fmt.Errorf("unmarshaling approval workflow: %w", err)
	}

	return &v, nil
}
