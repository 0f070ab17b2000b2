package compliance

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists ContentValidation aggregates. The engine itself has
// no persistence side effects; callers that need an audit record of the
// validation store it through this interface.
type Repository interface {
	// Save stores a newly created validation and its initial audit trail.
	Save(ctx context.Context, validation *ContentValidation) error

	// Update persists review-workflow mutations (status, approval fields)
	// and any audit entries appended since the last save.
	Update(ctx context.Context, validation *ContentValidation) error

	// GetByID fetches one validation with its full audit trail.
	GetByID(ctx context.Context, id uuid.UUID) (*ContentValidation, error)

	// ListByAdvisor returns an advisor's validations, newest first.
	ListByAdvisor(ctx context.Context, advisorID string, limit, offset int) ([]*ContentValidation, error)
}
