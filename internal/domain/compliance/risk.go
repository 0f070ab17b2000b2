package compliance

// Per-severity weights for the overall risk score.
const (
	riskWeightCritical = 40
	riskWeightHigh     = 25
	riskWeightMedium   = 15
	riskWeightLow      = 5

	maxRiskScore = 100

	// EscalationRiskThreshold is the score above which a validation is
	// routed to human review regardless of status.
	EscalationRiskThreshold = 70

	// EscalationReviewer is the default compliance-team queue that
	// escalated validations are assigned to.
	EscalationReviewer = "compliance-team"

	escalationReason = "High risk content requires review"
)

// AggregateRisk combines the five check results into one risk assessment.
//
// Every result is counted by its severity field regardless of pass/fail,
// so five passing low-severity checks still score 25. That is the
// established scoring baseline; changing it would shift every historical
// score, so it is kept deliberately.
func AggregateRisk(results []CheckResult) RiskAssessment {
	var critical, high, medium, low int
	var factors []string

	for _, r := range results {
		switch r.Severity {
		case SeverityCritical:
			critical++
		case SeverityHigh:
			high++
		case SeverityMedium:
			medium++
		default:
			low++
		}
		if !r.Passed {
			factors = append(factors, r.Issues...)
		}
	}

	score := critical*riskWeightCritical + high*riskWeightHigh + medium*riskWeightMedium + low*riskWeightLow
	if score > maxRiskScore {
		score = maxRiskScore
	}

	level := RiskLow
	switch {
	case critical > 0:
		level = RiskCritical
	case high > 0:
		level = RiskHigh
	case medium > 0:
		level = RiskMedium
	}

	return RiskAssessment{
		OverallRiskScore:   score,
		RiskLevel:          level,
		RiskFactors:        factors,
		MitigationRequired: level == RiskHigh || level == RiskCritical,
	}
}

// ResolveStatus maps the five check results to a validation status.
// A single high-severity result forces requires_modification even when it
// is the only failure.
func ResolveStatus(results []CheckResult) ValidationStatus {
	var critical, high, failed int
	for _, r := range results {
		if r.Severity == SeverityCritical {
			critical++
		}
		if r.Severity == SeverityHigh {
			high++
		}
		if !r.Passed {
			failed++
		}
	}

	switch {
	case critical > 0:
		return StatusRejected
	case high > 0 || failed > 2:
		return StatusRequiresModification
	case failed > 0:
		return StatusPending
	default:
		return StatusApproved
	}
}

// Standard disclaimer texts injected by the modification generator.
const (
	DisclaimerInvestmentAdvice = "This content is for informational purposes only and should not be considered investment advice. Please consult a qualified financial advisor before making investment decisions."
	DisclaimerPastPerformance  = "Past performance does not guarantee future results. All investments involve risk, including possible loss of principal."

	RequiredChangeClientNames   = "Remove or anonymize client names"
	RequiredChangeSensitiveData = "Remove sensitive financial information"
)

// BuildModifications derives the disclaimers and required changes for the
// content based on which rules fired. It proposes edits only:
// ModifiedContent is always the verbatim original.
func BuildModifications(content string, results []CheckResult) ContentModifications {
	mods := ContentModifications{
		OriginalContent: content,
		ModifiedContent: content,
	}

	violations := make(map[string]bool)
	for _, r := range results {
		for _, id := range r.RuleViolations {
			violations[id] = true
		}
	}

	if violations[RuleFINRAInvestmentAdvice] {
		mods.InjectedDisclaimers = append(mods.InjectedDisclaimers, DisclaimerInvestmentAdvice)
	}
	if violations[RuleFINRAPerformanceClaims] {
		mods.InjectedDisclaimers = append(mods.InjectedDisclaimers, DisclaimerPastPerformance)
	}
	if violations[RuleClientPrivacyNames] {
		mods.RemovedContent = append(mods.RemovedContent, RequiredChangeClientNames)
	}
	if violations[RuleClientPrivacyNumbers] {
		mods.RemovedContent = append(mods.RemovedContent, RequiredChangeSensitiveData)
	}

	return mods
}

// BuildApprovalWorkflow decides whether human escalation is required based
// on the aggregated risk and resolved status. Rejected validations always
// escalate so a human confirms the block. Reviewer fields start unset.
func BuildApprovalWorkflow(risk RiskAssessment, status ValidationStatus) ApprovalWorkflow {
	var wf ApprovalWorkflow
	if risk.OverallRiskScore > EscalationRiskThreshold ||
		status == StatusRequiresModification ||
		status == StatusRejected {
		wf.EscalatedTo = EscalationReviewer
		wf.EscalationReason = escalationReason
	}
	return wf
}
