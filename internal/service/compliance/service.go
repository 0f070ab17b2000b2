package compliance

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/advisorly/content-compliance-backend/internal/domain/compliance"
	"github.com/advisorly/content-compliance-backend/internal/domain/errors"
	"github.com/advisorly/content-compliance-backend/internal/metrics"
)

// Service wraps the engine with persistence, caching, metrics and the
// human review workflow. The engine stays pure; everything with a side
// effect lives here.
type Service struct {
	logger  *zap.Logger
	engine  *Engine
	repo    compliance.Repository
	cache   QuickCheckCache
	metrics *metrics.Registry
	tracer  trace.Tracer
}

// NewService creates the compliance service. repo, cache and registry may
// be nil: validation still works, it just loses the corresponding side
// channel.
func NewService(logger *zap.Logger, engine *Engine, repo compliance.Repository, cache QuickCheckCache, registry *metrics.Registry) *Service {
	return &Service{
		logger:  logger,
		engine:  engine,
		repo:    repo,
		cache:   cache,
		metrics: registry,
		tracer:  otel.Tracer("service.compliance"),
	}
}

// ValidateContent runs a full validation and stores the resulting record.
// Persistence failures are returned to the caller: an unstored validation
// has no audit value for a regulated firm.
func (s *Service) ValidateContent(ctx context.Context, content, advisorID string, meetingID *string) (*compliance.ContentValidation, error) {
	ctx, span := s.tracer.Start(ctx, "compliance.validate_content",
		trace.WithAttributes(attribute.String("advisor_id", advisorID)))
	defer span.End()

	start := time.Now()
	validation := s.engine.ValidateContent(ctx, content, advisorID, meetingID)

	if s.repo != nil {
		if err := s.repo.Save(ctx, validation); err != nil {
			s.logger.Error("failed to store validation",
				zap.String("validation_id", validation.ID.String()),
				zap.Error(err),
			)
			return nil, errors.Wrap(err, "storing validation")
		}
	}

	var ruleIDs []string
	for _, r := range validation.ComplianceChecks.All() {
		ruleIDs = append(ruleIDs, r.RuleViolations...)
	}
	s.metrics.RecordValidation(ctx, string(validation.Status),
		validation.ApprovalWorkflow.EscalatedTo != "", ruleIDs, time.Since(start))

	span.SetAttributes(
		attribute.String("status", string(validation.Status)),
		attribute.Int("risk_score", validation.RiskAssessment.OverallRiskScore),
	)

	return validation, nil
}

// QuickComplianceCheck runs the fast-path check, consulting the cache
// first. Cache errors are logged and ignored: the check is cheap enough
// to recompute.
func (s *Service) QuickComplianceCheck(ctx context.Context, content string) (QuickCheckResult, error) {
	ctx, span := s.tracer.Start(ctx, "compliance.quick_check")
	defer span.End()

	key := contentHash(content)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("quick-check cache read failed", zap.Error(err))
		} else if ok {
			s.metrics.RecordQuickCheck(ctx, cached.IsCompliant, true)
			return *cached, nil
		}
	}

	result := s.engine.QuickComplianceCheck(content)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result); err != nil {
			s.logger.Warn("quick-check cache write failed", zap.Error(err))
		}
	}

	s.metrics.RecordQuickCheck(ctx, result.IsCompliant, false)
	return result, nil
}

// GenerateComplianceDisclaimers previews disclaimers for content.
func (s *Service) GenerateComplianceDisclaimers(content string) []string {
	return s.engine.GenerateComplianceDisclaimers(content)
}

// GetValidation fetches one stored validation.
func (s *Service) GetValidation(ctx context.Context, id uuid.UUID) (*compliance.ContentValidation, error) {
	if s.repo == nil {
		return nil, errors.NewInternalError("validation storage is not configured")
	}
	return s.repo.GetByID(ctx, id)
}

// ListValidations returns an advisor's validations, newest first.
func (s *Service) ListValidations(ctx context.Context, advisorID string, limit, offset int) ([]*compliance.ContentValidation, error) {
	if s.repo == nil {
		return nil, errors.NewInternalError("validation storage is not configured")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByAdvisor(ctx, advisorID, limit, offset)
}

// ApproveValidation records a human approval on a stored validation.
func (s *Service) ApproveValidation(ctx context.Context, id uuid.UUID, reviewer string) (*compliance.ContentValidation, error) {
	return s.review(ctx, id, reviewer, (*compliance.ContentValidation).Approve)
}

// RejectValidation records a human rejection on a stored validation.
func (s *Service) RejectValidation(ctx context.Context, id uuid.UUID, reviewer string) (*compliance.ContentValidation, error) {
	return s.review(ctx, id, reviewer, (*compliance.ContentValidation).Reject)
}

func (s *Service) review(ctx context.Context, id uuid.UUID, reviewer string, decide func(*compliance.ContentValidation, string) error) (*compliance.ContentValidation, error) {
	if s.repo == nil {
		return nil, errors.NewInternalError("validation storage is not configured")
	}

	validation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := decide(validation, reviewer); err != nil {
		return nil, errors.NewComplianceError("INVALID_TRANSITION", err.Error())
	}

	if err := s.repo.Update(ctx, validation); err != nil {
		return nil, errors.Wrap(err, "storing review decision")
	}

	s.logger.Info("validation reviewed",
		zap.String("validation_id", id.String()),
		zap.String("reviewer", reviewer),
		zap.String("status", string(validation.Status)),
	)

	return validation, nil
}

func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
