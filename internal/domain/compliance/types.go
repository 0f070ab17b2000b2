package compliance

// Severity ranks how serious a triggered rule or check result is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Escalate raises the current severity to next if next outranks it.
// The chain is deliberately explicit rather than a generic max: a later
// lower-severity rule must never downgrade an already-set severity.
func (s Severity) Escalate(next Severity) Severity {
	switch {
	case next == SeverityCritical:
		return SeverityCritical
	case next == SeverityHigh && s != SeverityCritical:
		return SeverityHigh
	case next == SeverityMedium && s == SeverityLow:
		return SeverityMedium
	default:
		return s
	}
}

// ValidationStatus is the outcome of a full content validation.
type ValidationStatus string

const (
	StatusApproved             ValidationStatus = "approved"
	StatusRejected             ValidationStatus = "rejected"
	StatusRequiresModification ValidationStatus = "requires_modification"
	StatusPending              ValidationStatus = "pending"
)

// ValidationType identifies when in the content lifecycle a validation ran.
type ValidationType string

const (
	ValidationPrePublication  ValidationType = "pre_publication"
	ValidationPostPublication ValidationType = "post_publication"
	ValidationPeriodicReview  ValidationType = "periodic_review"
)

// RiskLevel summarizes aggregate risk across all domain checks.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// CheckDomain names one of the five regulatory domains evaluated per validation.
type CheckDomain string

const (
	DomainFINRA         CheckDomain = "finra"
	DomainSEC           CheckDomain = "sec"
	DomainFirmPolicy    CheckDomain = "firm_policy"
	DomainClientPrivacy CheckDomain = "client_privacy"
	DomainState         CheckDomain = "state"
)

// AuditAction enumerates the actions recorded on a validation's audit trail.
type AuditAction string

const (
	AuditCreated   AuditAction = "created"
	AuditReviewed  AuditAction = "reviewed"
	AuditApproved  AuditAction = "approved"
	AuditRejected  AuditAction = "rejected"
	AuditModified  AuditAction = "modified"
	AuditEscalated AuditAction = "escalated"
)
