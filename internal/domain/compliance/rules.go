package compliance

import (
	"fmt"
	"strings"
)

// Rule is an immutable catalog entry for one regulatory constraint.
// Keywords are lowercase trigger substrings; a rule fires when any of them
// appears (case-insensitively) in the content under review.
type Rule struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Severity    Severity `json:"severity"`
}

// FINRA rule identifiers referenced by the modification generator.
const (
	RuleFINRACommunications    = "FINRA_2210"
	RuleFINRAVariableInsurance = "FINRA_2211"
	RuleFINRAInvestmentAdvice  = "FINRA_2212"
	RuleFINRAPerformanceClaims = "FINRA_2213"
	RuleFINRATestimonials      = "FINRA_2214"

	RuleSECRecordKeeping   = "SEC_17A4"
	RuleSECRecordMaking    = "SEC_17A3"
	RuleSECCustomerPrivacy = "SEC_REGS_P"
	RuleSECCustomerConsent = "SEC_REGS_P_CONSENT"

	RuleStateCaliforniaPrivacy = "STATE_CA_CCPA"
	RuleStateNewYork           = "STATE_NY_REG"
)

// FINRARules is the static FINRA catalog. Built once at init; never mutated.
var FINRARules = []Rule{
	{
		ID:          RuleFINRACommunications,
		Description: "Communications with the public must be fair, balanced and not misleading",
		Keywords:    []string{"guarantee", "guaranteed", "risk-free", "no risk", "can't lose"},
		Severity:    SeverityHigh,
	},
	{
		ID:          RuleFINRAVariableInsurance,
		Description: "Variable insurance product communications require principal approval",
		Keywords:    []string{"variable annuity", "variable life", "annuity"},
		Severity:    SeverityMedium,
	},
	{
		ID:          RuleFINRAInvestmentAdvice,
		Description: "Specific investment advice requires suitability review",
		Keywords:    []string{"you should buy", "recommend", "buy this", "sell your", "invest in"},
		Severity:    SeverityCritical,
	},
	{
		ID:          RuleFINRAPerformanceClaims,
		Description: "Performance claims must include required disclosures",
		Keywords:    []string{"returns", "outperform", "beat the market", "performance"},
		Severity:    SeverityHigh,
	},
	{
		ID:          RuleFINRATestimonials,
		Description: "Testimonials require disclosure of compensation arrangements",
		Keywords:    []string{"testimonial", "endorsement", "my client says"},
		Severity:    SeverityMedium,
	},
}

// SECRules is the static SEC catalog.
var SECRules = []Rule{
	{
		ID:          RuleSECRecordKeeping,
		Description: "Business communications must be preserved per record-keeping rules",
		Keywords:    []string{"delete this", "off the record", "don't save"},
		Severity:    SeverityHigh,
	},
	{
		ID:          RuleSECRecordMaking,
		Description: "Required records of communications must be made and kept current",
		Keywords:    []string{"unrecorded", "no record"},
		Severity:    SeverityMedium,
	},
	{
		ID:          RuleSECCustomerPrivacy,
		Description: "Customer nonpublic personal information must be protected",
		Keywords:    []string{"account number", "social security", "account balance"},
		Severity:    SeverityCritical,
	},
	{
		ID:          RuleSECCustomerConsent,
		Description: "Disclosure of customer information requires consent",
		Keywords:    []string{"without consent", "shared your information"},
		Severity:    SeverityHigh,
	},
}

// StateRules is the static state-regulation catalog. State findings are
// advisory, hence the uniform medium severity.
var StateRules = []Rule{
	{
		ID:          RuleStateCaliforniaPrivacy,
		Description: "California consumer privacy obligations may apply",
		Keywords:    []string{"california resident", "ccpa request"},
		Severity:    SeverityMedium,
	},
	{
		ID:          RuleStateNewYork,
		Description: "New York advertising regulations may apply",
		Keywords:    []string{"new york resident", "ny exclusive offer"},
		Severity:    SeverityMedium,
	},
}

// EvaluateRules scans content against one rule catalog and returns a
// structured check result. Matching is case-insensitive substring
// containment, evaluated independently per rule, so a single content
// string may trigger several rules in one catalog. Severity only ever
// escalates across triggered rules.
func EvaluateRules(content string, catalog []Rule) CheckResult {
	lowered := strings.ToLower(content)

	result := CheckResult{
		Passed:   true,
		Severity: SeverityLow,
	}

	for _, rule := range catalog {
		if !ruleTriggered(lowered, rule) {
			continue
		}
		result.Passed = false
		result.Issues = append(result.Issues, rule.Description)
		result.RuleViolations = append(result.RuleViolations, rule.ID)
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("Review content for %s", strings.ToLower(rule.Description)))
		result.Severity = result.Severity.Escalate(rule.Severity)
	}

	if !result.Passed {
		result.RequiredActions = []string{"Review and address compliance issues"}
	}

	return result
}

func ruleTriggered(loweredContent string, rule Rule) bool {
	for _, kw := range rule.Keywords {
		if strings.Contains(loweredContent, kw) {
			return true
		}
	}
	return false
}
