package model

// SectionPreScore is the deterministic score of one section
type SectionPreScore struct {
	SectionID     SectionID `json:"sectionId"`
	Score         float64   `json:"score"` // 0-100, one decimal
	AnsweredCount int       `json:"answeredCount"`
	TotalCount    int       `json:"totalCount"`
}

// PreScoreResult is the output of the deterministic scorer
type PreScoreResult struct {
	SectionScores  map[SectionID]float64 `json:"sectionScores"`
	CompositeScore float64               `json:"compositeScore"`
	SectionDetails []SectionPreScore     `json:"sectionDetails"`
}

// Detail returns the per-section detail for id
func (p *PreScoreResult) Detail(id SectionID) (SectionPreScore, bool) {
	for _, d := range p.SectionDetails {
		if d.SectionID == id {
			return d, true
		}
	}
	return SectionPreScore{}, false
}

// Verdict is the categorical label derived from the composite score
type Verdict string

const (
	VerdictCriticalRisk    Verdict = "Critical Risk"
	VerdictHighRisk        Verdict = "High Risk"
	VerdictModerateRisk    Verdict = "Moderate Risk"
	VerdictInvestmentReady Verdict = "Investment Ready"
	VerdictExemplary       Verdict = "Exemplary"
)

// Valid reports whether v is one of the five verdicts
func (v Verdict) Valid() bool {
	switch v {
	case VerdictCriticalRisk, VerdictHighRisk, VerdictModerateRisk, VerdictInvestmentReady, VerdictExemplary:
		return true
	}
	return false
}

// Severity ranks an action item
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Valid reports whether s is a known severity
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// Effort estimates the work an action item takes
type Effort string

const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// Valid reports whether e is a known effort level
func (e Effort) Valid() bool {
	switch e {
	case EffortLow, EffortMedium, EffortHigh:
		return true
	}
	return false
}

// ActionItem is one prioritized remediation step
type ActionItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Section     SectionID `json:"section"`
	Severity    Severity  `json:"severity"`
	Effort      Effort    `json:"effort"`
	Impact      string    `json:"impact"`
}

// AnalysisResult is the final risk report
type AnalysisResult struct {
	CompositeScore   float64               `json:"compositeScore"`
	SectionScores    map[SectionID]float64 `json:"sectionScores"`
	Verdict          Verdict               `json:"verdict"`
	VerdictRationale string                `json:"verdictRationale"`
	ExecutiveSummary string                `json:"executiveSummary"`
	PriorityActions  []ActionItem          `json:"priorityActions"`
	Strengths        []string              `json:"strengths"`
	RiskFlags        []string              `json:"riskFlags"`
}

// AnalysisSource records which path produced a result
type AnalysisSource string

const (
	SourceEnriched AnalysisSource = "enriched"
	SourceFallback AnalysisSource = "fallback"
	SourceCache    AnalysisSource = "cache"
)
