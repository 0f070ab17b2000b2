package compliance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/advisorly/content-compliance-backend/internal/domain/compliance"
)

func passing() compliance.CheckResult {
	return compliance.CheckResult{Passed: true, Severity: compliance.SeverityLow}
}

func failing(sev compliance.Severity, issues ...string) compliance.CheckResult {
	return compliance.CheckResult{
		Passed:          false,
		Severity:        sev,
		Issues:          issues,
		RequiredActions: []string{"Review and address compliance issues"},
	}
}

func TestAggregateRisk(t *testing.T) {
	tests := []struct {
		name     string
		results  []compliance.CheckResult
		validate func(t *testing.T, r compliance.RiskAssessment)
	}{
		{
			name:    "all passing scores the low baseline",
			results: []compliance.CheckResult{passing(), passing(), passing(), passing(), passing()},
			validate: func(t *testing.T, r compliance.RiskAssessment) {
				// Five low-severity results at 5 points each, pass/fail
				// notwithstanding.
				assert.Equal(t, 25, r.OverallRiskScore)
				assert.Equal(t, compliance.RiskLow, r.RiskLevel)
				assert.Empty(t, r.RiskFactors)
				assert.False(t, r.MitigationRequired)
			},
		},
		{
			name: "single critical dominates risk level",
			results: []compliance.CheckResult{
				failing(compliance.SeverityCritical, "sensitive data"),
				passing(), passing(), passing(), passing(),
			},
			validate: func(t *testing.T, r compliance.RiskAssessment) {
				assert.Equal(t, 60, r.OverallRiskScore) // 40 + 4*5
				assert.Equal(t, compliance.RiskCritical, r.RiskLevel)
				assert.True(t, r.MitigationRequired)
				assert.Equal(t, []string{"sensitive data"}, r.RiskFactors)
			},
		},
		{
			name: "score is capped at 100",
			results: []compliance.CheckResult{
				failing(compliance.SeverityCritical, "a"),
				failing(compliance.SeverityCritical, "b"),
				failing(compliance.SeverityCritical, "c"),
				failing(compliance.SeverityCritical, "d"),
				failing(compliance.SeverityCritical, "e"),
			},
			validate: func(t *testing.T, r compliance.RiskAssessment) {
				assert.Equal(t, 100, r.OverallRiskScore)
				assert.Len(t, r.RiskFactors, 5)
			},
		},
		{
			name: "high without critical is high risk",
			results: []compliance.CheckResult{
				failing(compliance.SeverityHigh, "misleading claim"),
				passing(), passing(), passing(), passing(),
			},
			validate: func(t *testing.T, r compliance.RiskAssessment) {
				assert.Equal(t, 45, r.OverallRiskScore) // 25 + 4*5
				assert.Equal(t, compliance.RiskHigh, r.RiskLevel)
				assert.True(t, r.MitigationRequired)
			},
		},
		{
			name: "medium only does not require mitigation",
			results: []compliance.CheckResult{
				failing(compliance.SeverityMedium, "state finding"),
				passing(), passing(), passing(), passing(),
			},
			validate: func(t *testing.T, r compliance.RiskAssessment) {
				assert.Equal(t, compliance.RiskMedium, r.RiskLevel)
				assert.False(t, r.MitigationRequired)
			},
		},
		{
			name: "risk factors come only from failed results",
			results: []compliance.CheckResult{
				failing(compliance.SeverityHigh, "h1", "h2"),
				failing(compliance.SeverityMedium, "m1"),
				passing(), passing(), passing(),
			},
			validate: func(t *testing.T, r compliance.RiskAssessment) {
				assert.Equal(t, []string{"h1", "h2", "m1"}, r.RiskFactors)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, compliance.AggregateRisk(tt.results))
		})
	}
}

func TestResolveStatus(t *testing.T) {
	tests := []struct {
		name    string
		results []compliance.CheckResult
		want    compliance.ValidationStatus
	}{
		{
			name:    "all passing is approved",
			results: []compliance.CheckResult{passing(), passing(), passing(), passing(), passing()},
			want:    compliance.StatusApproved,
		},
		{
			name: "any critical rejects",
			results: []compliance.CheckResult{
				failing(compliance.SeverityCritical, "x"),
				passing(), passing(), passing(), passing(),
			},
			want: compliance.StatusRejected,
		},
		{
			name: "single high forces modification",
			results: []compliance.CheckResult{
				failing(compliance.SeverityHigh, "x"),
				passing(), passing(), passing(), passing(),
			},
			want: compliance.StatusRequiresModification,
		},
		{
			name: "more than two failures force modification",
			results: []compliance.CheckResult{
				failing(compliance.SeverityMedium, "a"),
				failing(compliance.SeverityMedium, "b"),
				failing(compliance.SeverityLow, "c"),
				passing(), passing(),
			},
			want: compliance.StatusRequiresModification,
		},
		{
			name: "one or two soft failures are pending",
			results: []compliance.CheckResult{
				failing(compliance.SeverityMedium, "a"),
				failing(compliance.SeverityLow, "b"),
				passing(), passing(), passing(),
			},
			want: compliance.StatusPending,
		},
		{
			name: "critical wins over failure count",
			results: []compliance.CheckResult{
				failing(compliance.SeverityCritical, "a"),
				failing(compliance.SeverityHigh, "b"),
				failing(compliance.SeverityMedium, "c"),
				failing(compliance.SeverityLow, "d"),
				passing(),
			},
			want: compliance.StatusRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compliance.ResolveStatus(tt.results))
		})
	}
}

func TestBuildModifications(t *testing.T) {
	content := "I recommend you buy this guaranteed investment"

	tests := []struct {
		name     string
		results  []compliance.CheckResult
		validate func(t *testing.T, m compliance.ContentModifications)
	}{
		{
			name:    "no violations yields no modifications",
			results: []compliance.CheckResult{passing(), passing(), passing(), passing(), passing()},
			validate: func(t *testing.T, m compliance.ContentModifications) {
				assert.Empty(t, m.InjectedDisclaimers)
				assert.Empty(t, m.RemovedContent)
			},
		},
		{
			name: "investment advice violation injects advice disclaimer",
			results: []compliance.CheckResult{
				{Passed: false, Severity: compliance.SeverityCritical, RuleViolations: []string{compliance.RuleFINRAInvestmentAdvice}},
				passing(), passing(), passing(), passing(),
			},
			validate: func(t *testing.T, m compliance.ContentModifications) {
				assert.Equal(t, []string{compliance.DisclaimerInvestmentAdvice}, m.InjectedDisclaimers)
			},
		},
		{
			name: "performance claim injects past performance disclaimer",
			results: []compliance.CheckResult{
				{Passed: false, Severity: compliance.SeverityHigh, RuleViolations: []string{compliance.RuleFINRAPerformanceClaims}},
				passing(), passing(), passing(), passing(),
			},
			validate: func(t *testing.T, m compliance.ContentModifications) {
				assert.Equal(t, []string{compliance.DisclaimerPastPerformance}, m.InjectedDisclaimers)
			},
		},
		{
			name: "privacy violations add required changes",
			results: []compliance.CheckResult{
				passing(), passing(), passing(),
				{Passed: false, Severity: compliance.SeverityCritical, RuleViolations: []string{
					compliance.RuleClientPrivacyNames,
					compliance.RuleClientPrivacyNumbers,
				}},
				passing(),
			},
			validate: func(t *testing.T, m compliance.ContentModifications) {
				assert.Equal(t, []string{
					compliance.RequiredChangeClientNames,
					compliance.RequiredChangeSensitiveData,
				}, m.RemovedContent)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := compliance.BuildModifications(content, tt.results)
			// Proposals only: the content itself is never rewritten.
			assert.Equal(t, content, m.OriginalContent)
			assert.Equal(t, content, m.ModifiedContent)
			assert.Empty(t, m.AddedWarnings)
			tt.validate(t, m)
		})
	}
}

func TestBuildApprovalWorkflow(t *testing.T) {
	tests := []struct {
		name         string
		risk         compliance.RiskAssessment
		status       compliance.ValidationStatus
		wantEscalate bool
	}{
		{"low risk approved", compliance.RiskAssessment{OverallRiskScore: 25}, compliance.StatusApproved, false},
		{"high score escalates", compliance.RiskAssessment{OverallRiskScore: 85}, compliance.StatusPending, true},
		{"threshold is exclusive", compliance.RiskAssessment{OverallRiskScore: 70}, compliance.StatusPending, false},
		{"requires modification escalates", compliance.RiskAssessment{OverallRiskScore: 45}, compliance.StatusRequiresModification, true},
		{"rejected escalates", compliance.RiskAssessment{OverallRiskScore: 60}, compliance.StatusRejected, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf := compliance.BuildApprovalWorkflow(tt.risk, tt.status)
			if tt.wantEscalate {
				assert.Equal(t, compliance.EscalationReviewer, wf.EscalatedTo)
				assert.NotEmpty(t, wf.EscalationReason)
			} else {
				assert.Empty(t, wf.EscalatedTo)
				assert.Empty(t, wf.EscalationReason)
			}
			// Reviewer fields always start unset.
			assert.Empty(t, wf.ApprovedBy)
			assert.Nil(t, wf.ApprovedAt)
			assert.Empty(t, wf.ReviewedBy)
			assert.Nil(t, wf.ReviewedAt)
		})
	}
}
