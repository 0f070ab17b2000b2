package compliance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CheckResult is the outcome of evaluating one regulatory domain against a
// piece of content. Immutable once returned from a check.
type CheckResult struct {
	Passed          bool     `json:"passed"`
	Issues          []string `json:"issues,omitempty"`
	Severity        Severity `json:"severity"`
	Recommendations []string `json:"recommendations,omitempty"`
	RuleViolations  []string `json:"rule_violations,omitempty"`
	RequiredActions []string `json:"required_actions,omitempty"`
}

// CheckResults holds the per-domain results of one validation run.
type CheckResults struct {
	FINRA         CheckResult `json:"finra"`
	SEC           CheckResult `json:"sec"`
	FirmPolicy    CheckResult `json:"firm_policy"`
	ClientPrivacy CheckResult `json:"client_privacy"`
	State         CheckResult `json:"state"`
}

// All returns the five results in their canonical order.
func (r CheckResults) All() []CheckResult {
	return []CheckResult{r.FINRA, r.SEC, r.FirmPolicy, r.ClientPrivacy, r.State}
}

// RiskAssessment summarizes aggregate compliance risk across all checks.
type RiskAssessment struct {
	OverallRiskScore   int       `json:"overall_risk_score"`
	RiskLevel          RiskLevel `json:"risk_level"`
	RiskFactors        []string  `json:"risk_factors,omitempty"`
	MitigationRequired bool      `json:"mitigation_required"`
}

// ContentModifications carries the disclaimers and required changes a
// validation proposes. The engine proposes, it does not rewrite:
// ModifiedContent always equals OriginalContent.
type ContentModifications struct {
	OriginalContent     string   `json:"original_content"`
	ModifiedContent     string   `json:"modified_content"`
	InjectedDisclaimers []string `json:"injected_disclaimers,omitempty"`
	RemovedContent      []string `json:"removed_content,omitempty"`
	AddedWarnings       []string `json:"added_warnings,omitempty"`
}

// ApprovalWorkflow tracks the human review state of a validation. All
// reviewer fields start unset; the engine never auto-approves.
type ApprovalWorkflow struct {
	ApprovedBy       string     `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	ReviewedBy       string     `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	EscalatedTo      string     `json:"escalated_to,omitempty"`
	EscalationReason string     `json:"escalation_reason,omitempty"`
}

// AuditEntry is one timestamped action on a validation's audit trail.
type AuditEntry struct {
	ID          uuid.UUID   `json:"id"`
	Action      AuditAction `json:"action"`
	PerformedBy string      `json:"performed_by"`
	PerformedAt time.Time   `json:"performed_at"`
	Details     string      `json:"details"`
}

// NewAuditEntry builds a single audit entry for the given action.
func NewAuditEntry(action AuditAction, performedBy string) AuditEntry {
	return AuditEntry{
		ID:          uuid.New(),
		Action:      action,
		PerformedBy: performedBy,
		PerformedAt: time.Now(),
		Details:     fmt.Sprintf("Compliance validation %s", action),
	}
}

// ContentValidation is the aggregate root produced by one validation run.
type ContentValidation struct {
	ID             uuid.UUID      `json:"id"`
	ContentID      uuid.UUID      `json:"content_id"`
	AdvisorID      string         `json:"advisor_id"`
	MeetingID      *string        `json:"meeting_id,omitempty"`
	ValidationType ValidationType `json:"validation_type"`

	Status               ValidationStatus     `json:"status"`
	ComplianceChecks     CheckResults         `json:"compliance_checks"`
	RiskAssessment       RiskAssessment       `json:"risk_assessment"`
	ContentModifications ContentModifications `json:"content_modifications"`
	ApprovalWorkflow     ApprovalWorkflow     `json:"approval_workflow"`
	AuditTrail           []AuditEntry         `json:"audit_trail"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppendAudit appends an entry to the audit trail, clamping its timestamp
// so PerformedAt is non-decreasing across the trail.
func (v *ContentValidation) AppendAudit(entry AuditEntry) {
	if n := len(v.AuditTrail); n > 0 {
		if last := v.AuditTrail[n-1].PerformedAt; entry.PerformedAt.Before(last) {
			entry.PerformedAt = last
		}
	}
	v.AuditTrail = append(v.AuditTrail, entry)
	v.UpdatedAt = entry.PerformedAt
}

// CanApprove reports whether a reviewer may approve this validation.
// Rejected validations stay rejected; approved ones need no re-approval.
func (v *ContentValidation) CanApprove() bool {
	return v.Status == StatusPending || v.Status == StatusRequiresModification
}

// CanReject reports whether a reviewer may reject this validation.
func (v *ContentValidation) CanReject() bool {
	return v.Status != StatusRejected
}

// Approve records a human approval decision and appends the matching
// audit entries.
func (v *ContentValidation) Approve(reviewer string) error {
	if !v.CanApprove() {
		return fmt.Errorf("validation %s cannot be approved from status %s", v.ID, v.Status)
	}

	now := time.Now()
	v.Status = StatusApproved
	v.ApprovalWorkflow.ReviewedBy = reviewer
	v.ApprovalWorkflow.ReviewedAt = &now
	v.ApprovalWorkflow.ApprovedBy = reviewer
	v.ApprovalWorkflow.ApprovedAt = &now
	v.AppendAudit(NewAuditEntry(AuditReviewed, reviewer))
	v.AppendAudit(NewAuditEntry(AuditApproved, reviewer))
	return nil
}

// Reject records a human rejection decision and appends the matching
// audit entries.
func (v *ContentValidation) Reject(reviewer string) error {
	if !v.CanReject() {
		return fmt.Errorf("validation %s cannot be rejected from status %s", v.ID, v.Status)
	}

	now := time.Now()
	v.Status = StatusRejected
	v.ApprovalWorkflow.ReviewedBy = reviewer
	v.ApprovalWorkflow.ReviewedAt = &now
	v.AppendAudit(NewAuditEntry(AuditReviewed, reviewer))
	v.AppendAudit(NewAuditEntry(AuditRejected, reviewer))
	return nil
}
