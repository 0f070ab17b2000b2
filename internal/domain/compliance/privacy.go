package compliance

import "regexp"

// Bespoke rule codes for the client-privacy check. These are not catalog
// rules: privacy violations need structural pattern matching, not keyword
// lists.
const (
	RuleClientPrivacyNames   = "CLIENT_PRIVACY_001"
	RuleClientPrivacyNumbers = "CLIENT_PRIVACY_002"
)

// PrivacyDetector finds client-identifying information in content. The
// interface exists so the regex heuristic below can later be replaced by a
// named-entity recognizer without touching the rest of the pipeline.
type PrivacyDetector interface {
	// DetectNames reports whether the content appears to contain a
	// personal name.
	DetectNames(content string) bool

	// DetectSensitiveNumbers reports whether the content contains
	// account-number-like or SSN-like sequences.
	DetectSensitiveNumbers(content string) bool
}

var (
	// Two adjacent capitalized words. Known limitation: this will flag
	// any such phrase ("Wall Street"), trading false positives for
	// never missing a real name.
	namePattern = regexp.MustCompile(`[A-Z][a-z]+ [A-Z][a-z]+`)

	sensitiveNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d{4}-\d{4}-\d{4}-\d{4}`), // card-like
		regexp.MustCompile(`\d{3}-\d{2}-\d{4}`),       // SSN with dashes
		regexp.MustCompile(`\b\d{9}\b`),               // bare 9-digit
	}
)

// RegexPrivacyDetector is the default pattern-based detector.
type RegexPrivacyDetector struct{}

func NewRegexPrivacyDetector() RegexPrivacyDetector { return RegexPrivacyDetector{} }

func (RegexPrivacyDetector) DetectNames(content string) bool {
	return namePattern.MatchString(content)
}

// DetectSensitiveNumbers short-circuits on the first matching pattern.
func (RegexPrivacyDetector) DetectSensitiveNumbers(content string) bool {
	for _, p := range sensitiveNumberPatterns {
		if p.MatchString(content) {
			return true
		}
	}
	return false
}

// EvaluateClientPrivacy runs the bespoke privacy check. Severity is
// critical when anything is found, low otherwise; the check does not use
// the medium or high tiers.
func EvaluateClientPrivacy(content string, detector PrivacyDetector) CheckResult {
	result := CheckResult{
		Passed:   true,
		Severity: SeverityLow,
	}

	if detector.DetectNames(content) {
		result.Passed = false
		result.Issues = append(result.Issues, "Content may contain client names")
		result.RuleViolations = append(result.RuleViolations, RuleClientPrivacyNames)
		result.Recommendations = append(result.Recommendations, "Remove or anonymize client names")
	}

	if detector.DetectSensitiveNumbers(content) {
		result.Passed = false
		result.Issues = append(result.Issues, "Content may contain sensitive financial information")
		result.RuleViolations = append(result.RuleViolations, RuleClientPrivacyNumbers)
		result.Recommendations = append(result.Recommendations, "Remove sensitive financial information")
	}

	if !result.Passed {
		result.Severity = SeverityCritical
		result.RequiredActions = []string{"Review and address compliance issues"}
	}

	return result
}

// FirmPolicyChecker is the extension point for per-firm compliance rules.
// Implementations return one check result for the advisor's firm.
type FirmPolicyChecker interface {
	CheckFirmPolicy(content, advisorID string) CheckResult
}

// NoopFirmPolicy is the default checker: no firm rules are configured, so
// every content passes with zero issues. It exists so firm-specific rule
// sets can be plugged in without changing the engine.
type NoopFirmPolicy struct{}

func (NoopFirmPolicy) CheckFirmPolicy(content, advisorID string) CheckResult {
	return CheckResult{Passed: true, Severity: SeverityLow}
}

// FirmPolicyFunc adapts a function to the FirmPolicyChecker interface.
type FirmPolicyFunc func(content, advisorID string) CheckResult

func (f FirmPolicyFunc) CheckFirmPolicy(content, advisorID string) CheckResult {
	return f(content, advisorID)
}
