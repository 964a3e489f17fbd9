package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"ventureshield/internal/catalog"
	"ventureshield/internal/config"
	"ventureshield/internal/model"
	"ventureshield/internal/scoring"
)

var (
	ErrEnrichmentDisabled = errors.New("enrichment is not configured")
	ErrEmptyResponse      = errors.New("empty response from Gemini")
)

// Enricher refines a pre-score into a full narrative report
type Enricher interface {
	Enrich(ctx context.Context, sub *model.Submission, pre *model.PreScoreResult) (*model.AnalysisResult, error)
}

// AdvisorService enriches pre-scores via the Gemini API
type AdvisorService struct {
	config  *config.AIConfig
	catalog *catalog.Catalog
	client  *http.Client
}

// NewAdvisorService creates a new advisor service.
// The caller bounds each call with a context deadline.
func NewAdvisorService(cfg *config.AIConfig, cat *catalog.Catalog) *AdvisorService {
	return &AdvisorService{
		config:  cfg,
		catalog: cat,
		client:  &http.Client{},
	}
}

// Enrich asks the model for a stage-calibrated report. The reply is only
// parsed here; bounds against the pre-score are checked by the caller.
func (s *AdvisorService) Enrich(ctx context.Context, sub *model.Submission, pre *model.PreScoreResult) (*model.AnalysisResult, error) {
	if !s.config.IsEnabled() {
		return nil, ErrEnrichmentDisabled
	}

	response, err := s.callGemini(ctx, buildSystemPrompt(), s.buildUserPrompt(sub, pre))
	if err != nil {
		return nil, err
	}
	return scoring.ParseEnrichment(response)
}

// callGemini makes a request to the Gemini API
func (s *AdvisorService) callGemini(ctx context.Context, system, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"systemInstruction": map[string]interface{}{
			"parts": []map[string]string{
				{"text": system},
			},
		},
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"temperature":      0,
			"maxOutputTokens":  s.config.MaxTokens,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	// Parse Gemini response structure
	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", ErrEmptyResponse
}

// Prompt builders
func buildSystemPrompt() string {
	return `You are a senior VC due diligence analyst and security engineer specializing in early-stage startup risk assessment. Your role is to evaluate startups' security and operational posture to determine investment readiness.

You have deep expertise in:
- Cloud infrastructure security (AWS, GCP, Azure)
- Application security practices and DevSecOps
- Engineering team maturity and operational excellence
- Regulatory compliance (SOC 2, GDPR, HIPAA, PCI-DSS)

Analyze a startup's self-assessment responses and produce a structured risk report in strict JSON. Be direct, precise and data-driven. Judge findings against the startup's stage and team size: a pre-seed team of 3 is held to different standards than a Series A team of 30.

Respond with ONLY valid JSON matching this schema, no markdown and no text outside the JSON:

{
  "compositeScore": <number 0-100>,
  "sectionScores": {
    "cloud_setup": <number 0-100>,
    "security_practices": <number 0-100>,
    "team_maturity": <number 0-100>,
    "compliance_readiness": <number 0-100>
  },
  "verdict": <"Critical Risk" | "High Risk" | "Moderate Risk" | "Investment Ready" | "Exemplary">,
  "verdictRationale": <string, 2-3 sentences explaining the verdict>,
  "executiveSummary": <string, 3-4 sentences VC-style summary of risk posture>,
  "priorityActions": [
    {
      "id": <string, unique e.g. "action_1">,
      "title": <string, concise action title>,
      "description": <string, specific actionable steps>,
      "section": <"cloud_setup" | "security_practices" | "team_maturity" | "compliance_readiness">,
      "severity": <"critical" | "high" | "medium" | "low">,
      "effort": <"low" | "medium" | "high">,
      "impact": <string, what this fixes and why it matters to investors>
    }
  ],
  "strengths": [<string>, ...],
  "riskFlags": [<string>, ...]
}

Scoring guidance:
- Adjust each pre-computed section score up or down by at most 15 points based on context
- Stage expectations: pre_seed 0-30, seed 30-50, series_a 50-70, series_b_plus 70+
- Verdict thresholds: 0-29=Critical Risk, 30-49=High Risk, 50-69=Moderate Risk, 70-84=Investment Ready, 85-100=Exemplary
- Generate 4-8 priorityActions sorted by severity, critical first
- Generate 2-5 strengths
- Generate 2-6 riskFlags (specific, investor-relevant risks)`
}

func (s *AdvisorService) buildUserPrompt(sub *model.Submission, pre *model.PreScoreResult) string {
	answers := make(map[string]model.AnswerValue, len(sub.Answers))
	for _, a := range sub.Answers {
		answers[a.QuestionID] = a.Value
	}

	company := sub.CompanyContext
	var sb strings.Builder

	sb.WriteString("## Startup Context\n")
	sb.WriteString(fmt.Sprintf("- Company: %s\n", orDefault(company.CompanyName, "Unnamed Startup")))
	sb.WriteString(fmt.Sprintf("- Stage: %s\n", company.Stage.Label()))
	sb.WriteString(fmt.Sprintf("- Team Size: %s employees\n", company.TeamSize))
	sb.WriteString(fmt.Sprintf("- Industry: %s\n", orDefault(company.Industry, "Not specified")))
	sb.WriteString(fmt.Sprintf("- Has dedicated security budget: %s\n", yesNo(company.HasSecurityBudget)))

	sb.WriteString("\n## Pre-Computed Scores (deterministic, use as baseline)\n")
	for _, section := range s.catalog.Sections() {
		detail, _ := pre.Detail(section.ID)
		sb.WriteString(fmt.Sprintf("  %s: %s/100 (%d/%d questions answered)\n",
			section.Title, formatNumber(pre.SectionScores[section.ID]), detail.AnsweredCount, detail.TotalCount))
	}
	sb.WriteString(fmt.Sprintf("- Composite Score: %s/100\n", formatNumber(pre.CompositeScore)))

	sb.WriteString("\n## Detailed Assessment Responses\n")
	for _, section := range s.catalog.Sections() {
		sb.WriteString(fmt.Sprintf("\n### %s (Pre-score: %s/100)\n", section.Title, formatNumber(pre.SectionScores[section.ID])))
		for i := range section.Questions {
			q := &section.Questions[i]
			sb.WriteString(fmt.Sprintf("  Q: %s\n", q.Text))
			sb.WriteString(fmt.Sprintf("  A: %s\n\n", formatAnswer(q, answers[q.ID])))
		}
	}

	sb.WriteString("## Your Task\n")
	sb.WriteString("Analyze the above responses in the context of the startup's stage and team size. ")
	sb.WriteString("Adjust the pre-computed scores where contextual factors warrant it. ")
	sb.WriteString("Return the complete JSON report as specified in your instructions.")
	return sb.String()
}

// formatAnswer renders an answer the way a reviewer would read it
func formatAnswer(q *model.Question, value model.AnswerValue) string {
	switch v := value.(type) {
	case nil:
		return "(not answered)"
	case model.BoolValue:
		return yesNo(bool(v))
	case model.ScaleValue:
		return fmt.Sprintf("%d/%d", v, q.ScaleMax)
	case model.ChoiceValue:
		if opt, ok := q.Option(string(v)); ok {
			return opt.Label
		}
		return string(v)
	case model.MultiChoiceValue:
		if len(v) == 0 {
			return "(none selected)"
		}
		labels := make([]string, 0, len(v))
		for _, id := range v {
			if opt, ok := q.Option(id); ok {
				labels = append(labels, opt.Label)
			} else {
				labels = append(labels, id)
			}
		}
		return strings.Join(labels, ", ")
	}
	return "(not answered)"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
