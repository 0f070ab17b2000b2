package compliance

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/advisorly/content-compliance-backend/internal/domain/compliance"
)

// Engine runs the full compliance pipeline over a content string. It is
// pure computation: no I/O, no shared mutable state across calls, so a
// single instance is safe for concurrent use.
type Engine struct {
	logger     *zap.Logger
	detector   compliance.PrivacyDetector
	firmPolicy compliance.FirmPolicyChecker
}

// NewEngine creates an engine with the default regex privacy detector and
// the no-op firm policy. Use the With options to swap either seam.
func NewEngine(logger *zap.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		logger:     logger,
		detector:   compliance.NewRegexPrivacyDetector(),
		firmPolicy: compliance.NoopFirmPolicy{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithPrivacyDetector replaces the default regex detector.
func WithPrivacyDetector(d compliance.PrivacyDetector) EngineOption {
	return func(e *Engine) { e.detector = d }
}

// WithFirmPolicy replaces the default no-op firm policy checker.
func WithFirmPolicy(f compliance.FirmPolicyChecker) EngineOption {
	return func(e *Engine) { e.firmPolicy = f }
}

// ValidateContent runs the five domain checks, aggregates risk, resolves
// the status, derives content modifications and assembles the validation
// record with its initial audit entry. Every code path returns a complete
// record; rule failures are expressed as data, never as an error.
func (e *Engine) ValidateContent(ctx context.Context, content, advisorID string, meetingID *string) *compliance.ContentValidation {
	start := time.Now()

	checks := e.runChecks(content, advisorID)
	results := checks.All()

	risk := compliance.AggregateRisk(results)
	status := compliance.ResolveStatus(results)
	mods := compliance.BuildModifications(content, results)
	workflow := compliance.BuildApprovalWorkflow(risk, status)

	// The created entry's timestamp doubles as the record's creation
	// time so CreatedAt and UpdatedAt are equal at creation.
	created := compliance.NewAuditEntry(compliance.AuditCreated, "system")

	validation := &compliance.ContentValidation{
		ID:                   uuid.New(),
		ContentID:            uuid.New(),
		AdvisorID:            advisorID,
		MeetingID:            meetingID,
		ValidationType:       compliance.ValidationPrePublication,
		Status:               status,
		ComplianceChecks:     checks,
		RiskAssessment:       risk,
		ContentModifications: mods,
		ApprovalWorkflow:     workflow,
		CreatedAt:            created.PerformedAt,
		UpdatedAt:            created.PerformedAt,
	}
	validation.AppendAudit(created)

	e.logger.Info("content validation completed",
		zap.String("validation_id", validation.ID.String()),
		zap.String("advisor_id", advisorID),
		zap.String("status", string(status)),
		zap.Int("risk_score", risk.OverallRiskScore),
		zap.String("risk_level", string(risk.RiskLevel)),
		zap.Bool("escalated", workflow.EscalatedTo != ""),
		zap.Duration("elapsed", time.Since(start)),
	)

	return validation
}

// runChecks evaluates the five regulatory domains. The checks have no
// data dependencies on each other, so they run in parallel; the zero
// value of CheckResults is filled in place, one field per goroutine.
func (e *Engine) runChecks(content, advisorID string) compliance.CheckResults {
	var checks compliance.CheckResults

	var wg sync.WaitGroup
	wg.Add(5)
	go func() {
		defer wg.Done()
		checks.FINRA = compliance.EvaluateRules(content, compliance.FINRARules)
	}()
	go func() {
		defer wg.Done()
		checks.SEC = compliance.EvaluateRules(content, compliance.SECRules)
	}()
	go func() {
		defer wg.Done()
		checks.FirmPolicy = e.firmPolicy.CheckFirmPolicy(content, advisorID)
	}()
	go func() {
		defer wg.Done()
		checks.ClientPrivacy = compliance.EvaluateClientPrivacy(content, e.detector)
	}()
	go func() {
		defer wg.Done()
		checks.State = compliance.EvaluateRules(content, compliance.StateRules)
	}()
	wg.Wait()

	return checks
}

// QuickCheckResult is the outcome of the lightweight pre-check path.
type QuickCheckResult struct {
	IsCompliant bool                 `json:"is_compliant"`
	Issues      []string             `json:"issues,omitempty"`
	RiskLevel   compliance.RiskLevel `json:"risk_level"`
}

// Quick-check trigger keywords. This path deliberately duplicates a
// subset of the catalog keywords instead of running the full pipeline:
// it backs interactive UI validation and must stay cheap.
var (
	quickAdviceKeywords      = []string{"you should buy", "recommend", "sell your", "invest in"}
	quickPerformanceKeywords = []string{"returns", "performance"}
	quickGuaranteeKeywords   = []string{"guarantee", "guaranteed"}
)

// QuickComplianceCheck is the fast-path content screen: investment-advice,
// client-name, performance and guarantee triggers only.
func (e *Engine) QuickComplianceCheck(content string) QuickCheckResult {
	lowered := strings.ToLower(content)

	var issues []string
	risk := compliance.RiskLow

	if containsAny(lowered, quickAdviceKeywords) {
		issues = append(issues, "Content may contain specific investment advice")
		risk = compliance.RiskHigh
	}
	if e.detector.DetectNames(content) {
		issues = append(issues, "Content may contain client names")
		risk = compliance.RiskHigh
	}
	if containsAny(lowered, quickPerformanceKeywords) {
		issues = append(issues, "Content may contain performance claims")
		if risk != compliance.RiskHigh {
			risk = compliance.RiskMedium
		}
	}
	if containsAny(lowered, quickGuaranteeKeywords) {
		issues = append(issues, "Content may contain prohibited guarantees")
		if risk != compliance.RiskHigh {
			risk = compliance.RiskMedium
		}
	}

	return QuickCheckResult{
		IsCompliant: len(issues) == 0,
		Issues:      issues,
		RiskLevel:   risk,
	}
}

// GenerateComplianceDisclaimers previews the disclaimers a validation of
// this content would inject, without building a validation record.
func (e *Engine) GenerateComplianceDisclaimers(content string) []string {
	finra := compliance.EvaluateRules(content, compliance.FINRARules)

	var disclaimers []string
	for _, id := range finra.RuleViolations {
		switch id {
		case compliance.RuleFINRAInvestmentAdvice:
			disclaimers = append(disclaimers, compliance.DisclaimerInvestmentAdvice)
		case compliance.RuleFINRAPerformanceClaims:
			disclaimers = append(disclaimers, compliance.DisclaimerPastPerformance)
		}
	}
	return disclaimers
}

func containsAny(lowered string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
