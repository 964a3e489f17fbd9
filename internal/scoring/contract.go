package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"ventureshield/internal/model"
)

// DefaultMaxDelta is how far enrichment may move a section score from its pre-score
const DefaultMaxDelta = 15.0

// ErrNonConforming marks an enrichment payload that breaks the report contract
var ErrNonConforming = errors.New("enrichment result does not conform")

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSON strips code fences or surrounding prose from a model reply
// and returns the JSON object inside it.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") {
		return text
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

type actionWire struct {
	ID          *string          `json:"id"`
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Section     *model.SectionID `json:"section"`
	Severity    *model.Severity  `json:"severity"`
	Effort      *model.Effort    `json:"effort"`
	Impact      *string          `json:"impact"`
}

type resultWire struct {
	CompositeScore   *float64                     `json:"compositeScore"`
	SectionScores    map[model.SectionID]*float64 `json:"sectionScores"`
	Verdict          *model.Verdict               `json:"verdict"`
	VerdictRationale *string                      `json:"verdictRationale"`
	ExecutiveSummary *string                      `json:"executiveSummary"`
	PriorityActions  []actionWire                 `json:"priorityActions"`
	Strengths        []string                     `json:"strengths"`
	RiskFlags        []string                     `json:"riskFlags"`
}

// ParseEnrichment decodes a raw model reply into an AnalysisResult. Every
// field of the report must be present; unknown fields are ignored.
func ParseEnrichment(text string) (*model.AnalysisResult, error) {
	payload := ExtractJSON(text)

	var w resultWire
	dec := json.NewDecoder(strings.NewReader(payload))
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNonConforming, err)
	}

	var missing []string
	need := func(ok bool, field string) {
		if !ok {
			missing = append(missing, field)
		}
	}
	need(w.CompositeScore != nil, "compositeScore")
	need(w.SectionScores != nil, "sectionScores")
	need(w.Verdict != nil, "verdict")
	need(w.VerdictRationale != nil, "verdictRationale")
	need(w.ExecutiveSummary != nil, "executiveSummary")
	need(w.PriorityActions != nil, "priorityActions")
	need(w.Strengths != nil, "strengths")
	need(w.RiskFlags != nil, "riskFlags")
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrNonConforming, strings.Join(missing, ", "))
	}

	res := &model.AnalysisResult{
		CompositeScore:   *w.CompositeScore,
		SectionScores:    make(map[model.SectionID]float64, len(model.SectionIDs)),
		Verdict:          *w.Verdict,
		VerdictRationale: *w.VerdictRationale,
		ExecutiveSummary: *w.ExecutiveSummary,
		PriorityActions:  make([]model.ActionItem, 0, len(w.PriorityActions)),
		Strengths:        w.Strengths,
		RiskFlags:        w.RiskFlags,
	}

	for _, id := range model.SectionIDs {
		v, ok := w.SectionScores[id]
		if !ok || v == nil {
			return nil, fmt.Errorf("%w: missing sectionScores.%s", ErrNonConforming, id)
		}
		res.SectionScores[id] = *v
	}

	for i, a := range w.PriorityActions {
		if a.ID == nil || a.Title == nil || a.Description == nil || a.Section == nil ||
			a.Severity == nil || a.Effort == nil || a.Impact == nil {
			return nil, fmt.Errorf("%w: priorityActions[%d] incomplete", ErrNonConforming, i)
		}
		res.PriorityActions = append(res.PriorityActions, model.ActionItem{
			ID:          *a.ID,
			Title:       *a.Title,
			Description: *a.Description,
			Section:     *a.Section,
			Severity:    *a.Severity,
			Effort:      *a.Effort,
			Impact:      *a.Impact,
		})
	}

	return res, nil
}

// ValidateEnrichment checks the structural contract of an enrichment result
// and that no section score moved more than maxDelta from the pre-score.
func ValidateEnrichment(res *model.AnalysisResult, pre *model.PreScoreResult, maxDelta float64) error {
	if res == nil {
		return fmt.Errorf("%w: empty result", ErrNonConforming)
	}
	if !validScore(res.CompositeScore) {
		return fmt.Errorf("%w: compositeScore %v outside [0,100]", ErrNonConforming, res.CompositeScore)
	}
	if !res.Verdict.Valid() {
		return fmt.Errorf("%w: unknown verdict %q", ErrNonConforming, res.Verdict)
	}

	for _, id := range model.SectionIDs {
		v, ok := res.SectionScores[id]
		if !ok {
			return fmt.Errorf("%w: missing sectionScores.%s", ErrNonConforming, id)
		}
		if !validScore(v) {
			return fmt.Errorf("%w: sectionScores.%s %v outside [0,100]", ErrNonConforming, id, v)
		}
		if base, ok := pre.SectionScores[id]; ok && math.Abs(v-base) > maxDelta+1e-9 {
			return fmt.Errorf("%w: sectionScores.%s moved %.1f from pre-score %.1f (max %.0f)",
				ErrNonConforming, id, v-base, base, maxDelta)
		}
	}

	seen := make(map[string]bool, len(res.PriorityActions))
	for i, a := range res.PriorityActions {
		switch {
		case seen[a.ID]:
			return fmt.Errorf("%w: duplicate action id %q", ErrNonConforming, a.ID)
		case !a.Section.Valid():
			return fmt.Errorf("%w: priorityActions[%d].section %q", ErrNonConforming, i, a.Section)
		case !a.Severity.Valid():
			return fmt.Errorf("%w: priorityActions[%d].severity %q", ErrNonConforming, i, a.Severity)
		case !a.Effort.Valid():
			return fmt.Errorf("%w: priorityActions[%d].effort %q", ErrNonConforming, i, a.Effort)
		}
		seen[a.ID] = true
	}

	return nil
}

func validScore(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0 && v <= 100
}
