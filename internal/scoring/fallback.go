package scoring

import (
	"fmt"
	"strconv"

	"ventureshield/internal/model"
)

// actionRule fires when a section scores strictly below threshold
type actionRule struct {
	section   model.SectionID
	threshold float64
	action    model.ActionItem // ID is assigned when the rule fires
}

// sectionRule contributes one statement for a section
type sectionRule struct {
	section   model.SectionID
	threshold float64
	text      string
}

// Evaluated top to bottom; order here is the order in the report.
var actionRules = []actionRule{
	{
		section:   model.SectionSecurityPractices,
		threshold: 50,
		action: model.ActionItem{
			Title:       "Implement Secrets Management",
			Description: "Move all secrets to a dedicated secrets manager (AWS Secrets Manager or HashiCorp Vault). Audit git history for any committed credentials immediately.",
			Section:     model.SectionSecurityPractices,
			Severity:    model.SeverityCritical,
			Effort:      model.EffortMedium,
			Impact:      "Prevents credential leaks, a top cause of startup security breaches and a major red flag for VCs.",
		},
	},
	{
		section:   model.SectionCloudSetup,
		threshold: 50,
		action: model.ActionItem{
			Title:       "Enforce MFA and Least-Privilege IAM",
			Description: "Enable MFA on all accounts, create role-based access policies, remove root account from daily use, and audit all IAM permissions.",
			Section:     model.SectionCloudSetup,
			Severity:    model.SeverityCritical,
			Effort:      model.EffortLow,
			Impact:      "IAM misconfiguration is the #1 cloud breach vector. VCs routinely check this during technical due diligence.",
		},
	},
	{
		section:   model.SectionComplianceReadiness,
		threshold: 40,
		action: model.ActionItem{
			Title:       "Begin SOC 2 Readiness Program",
			Description: "Engage a compliance platform (Vanta, Drata, or Secureframe) to start SOC 2 Type I preparation. Prioritize evidence collection for security controls.",
			Section:     model.SectionComplianceReadiness,
			Severity:    model.SeverityHigh,
			Effort:      model.EffortHigh,
			Impact:      "Enterprise customers and most Series A investors require SOC 2. Starting now prevents a 6-12 month delay in deals.",
		},
	},
	{
		section:   model.SectionTeamMaturity,
		threshold: 50,
		action: model.ActionItem{
			Title:       "Implement CI/CD with Security Gates",
			Description: "Set up automated testing, SAST scanning, and dependency vulnerability checks in your CI/CD pipeline. Require PR reviews before merging.",
			Section:     model.SectionTeamMaturity,
			Severity:    model.SeverityHigh,
			Effort:      model.EffortMedium,
			Impact:      "Demonstrates engineering discipline and reduces breach risk from unreviewed code changes.",
		},
	},
}

var defaultAction = model.ActionItem{
	Title:       "Conduct an External Penetration Test",
	Description: "Engage an external security firm for a comprehensive penetration test of your application and infrastructure.",
	Section:     model.SectionSecurityPractices,
	Severity:    model.SeverityLow,
	Effort:      model.EffortMedium,
	Impact:      "External validation of your security posture builds investor and customer confidence.",
}

// Strengths fire at or above threshold.
var strengthRules = []sectionRule{
	{model.SectionCloudSetup, 70, "Strong cloud infrastructure security posture with good IAM and network segmentation"},
	{model.SectionSecurityPractices, 70, "Mature security practices with automated scanning and incident response readiness"},
	{model.SectionTeamMaturity, 70, "Excellent engineering maturity with robust CI/CD and observability"},
	{model.SectionComplianceReadiness, 70, "Advanced compliance readiness with data classification and regulatory awareness"},
}

const defaultStrength = "Completed a structured security self-assessment, which demonstrates security awareness"

// Risk flags fire strictly below threshold.
var riskFlagRules = []sectionRule{
	{model.SectionSecurityPractices, 40, "Critical: No secrets management, high credential exposure risk"},
	{model.SectionCloudSetup, 40, "Critical: Weak cloud IAM, elevated risk of unauthorized access"},
	{model.SectionComplianceReadiness, 30, "High: No compliance foundation, will block enterprise sales and Series A"},
	{model.SectionTeamMaturity, 40, "High: Immature engineering processes, operational reliability risk"},
}

const defaultRiskFlag = "Continue monitoring and improving across all security domains"

const (
	rationaleTemplate = "Based on your assessment responses, your composite risk score is %s/100. This places you in the %s category. Review the priority actions below to improve your posture."
	summaryTemplate   = "This startup achieved a composite security score of %s/100 across four key domains. The assessment reveals areas requiring immediate attention before institutional investment. Addressing the priority actions below will materially improve investor confidence."
)

// BuildFallback derives a complete report from the pre-scores alone.
// Scores are copied unchanged; the result always carries at least one
// action, one strength and one risk flag.
func BuildFallback(pre *model.PreScoreResult) *model.AnalysisResult {
	scores := make(map[model.SectionID]float64, len(pre.SectionScores))
	for id, v := range pre.SectionScores {
		scores[id] = v
	}

	verdict := VerdictFor(pre.CompositeScore)
	composite := formatScore(pre.CompositeScore)

	return &model.AnalysisResult{
		CompositeScore:   pre.CompositeScore,
		SectionScores:    scores,
		Verdict:          verdict,
		VerdictRationale: fmt.Sprintf(rationaleTemplate, composite, verdict),
		ExecutiveSummary: fmt.Sprintf(summaryTemplate, composite),
		PriorityActions:  fallbackActions(scores),
		Strengths:        fallbackStatements(scores, strengthRules, atOrAbove, defaultStrength),
		RiskFlags:        fallbackStatements(scores, riskFlagRules, below, defaultRiskFlag),
	}
}

func fallbackActions(scores map[model.SectionID]float64) []model.ActionItem {
	var actions []model.ActionItem
	for _, r := range actionRules {
		if below(scores[r.section], r.threshold) {
			actions = append(actions, r.action)
		}
	}
	if len(actions) == 0 {
		actions = append(actions, defaultAction)
	}
	for i := range actions {
		actions[i].ID = "action_" + strconv.Itoa(i+1)
	}
	return actions
}

func fallbackStatements(scores map[model.SectionID]float64, rules []sectionRule, fires func(score, threshold float64) bool, fallback string) []string {
	var out []string
	for _, r := range rules {
		if fires(scores[r.section], r.threshold) {
			out = append(out, r.text)
		}
	}
	if len(out) == 0 {
		out = append(out, fallback)
	}
	return out
}

func below(score, threshold float64) bool     { return score < threshold }
func atOrAbove(score, threshold float64) bool { return score >= threshold }

// formatScore prints a score the shortest way, 62.5 as "62.5" and 70 as "70"
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
