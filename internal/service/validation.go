package service

import (
	"fmt"
	"strings"

	"ventureshield/internal/catalog"
	"ventureshield/internal/model"
)

// ValidationError reports every structural problem found in a submission
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "invalid submission: " + strings.Join(e.Details, "; ")
}

// ValidateSubmission enforces the submission schema against the catalog.
// Returned warnings describe tolerated oddities: unknown question ids are
// ignored by the scorer and duplicate answers resolve to the last one.
func ValidateSubmission(cat *catalog.Catalog, sub *model.Submission) (warnings []string, err error) {
	var details []string

	company := sub.CompanyContext
	if !company.Stage.Valid() {
		details = append(details, fmt.Sprintf("companyContext.stage: unknown stage %q", company.Stage))
	}
	if !company.TeamSize.Valid() {
		details = append(details, fmt.Sprintf("companyContext.teamSize: unknown team size %q", company.TeamSize))
	}

	seen := make(map[string]bool, len(sub.Answers))
	for i, a := range sub.Answers {
		field := fmt.Sprintf("answers[%d]", i)
		if a.QuestionID == "" {
			details = append(details, field+".questionId: required")
			continue
		}
		if _, ok := cat.Section(a.SectionID); !ok {
			details = append(details, fmt.Sprintf("%s.sectionId: unknown section %q", field, a.SectionID))
			continue
		}
		if seen[a.QuestionID] {
			warnings = append(warnings, fmt.Sprintf("%s: duplicate answer for %q, last one wins", field, a.QuestionID))
		}
		seen[a.QuestionID] = true

		q, ok := cat.Question(a.QuestionID)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: unknown question %q ignored", field, a.QuestionID))
			continue
		}
		if a.SectionID != q.SectionID {
			details = append(details, fmt.Sprintf("%s.sectionId: question %q belongs to %q, not %q", field, q.ID, q.SectionID, a.SectionID))
		}
		if msg := checkValue(q, a.Value); msg != "" {
			details = append(details, field+".value: "+msg)
		}
	}

	if len(details) > 0 {
		return warnings, &ValidationError{Details: details}
	}
	return warnings, nil
}

func checkValue(q *model.Question, value model.AnswerValue) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case model.BoolValue:
		if q.Type != model.QuestionTypeBoolean {
			return fmt.Sprintf("boolean given for %s question %q", q.Type, q.ID)
		}
	case model.ScaleValue:
		if q.Type != model.QuestionTypeScale {
			return fmt.Sprintf("number given for %s question %q", q.Type, q.ID)
		}
		if int(v) < q.ScaleMin || int(v) > q.ScaleMax {
			return fmt.Sprintf("%d is outside %d..%d for %q", v, q.ScaleMin, q.ScaleMax, q.ID)
		}
	case model.ChoiceValue:
		if q.Type != model.QuestionTypeSingleChoice {
			return fmt.Sprintf("option id given for %s question %q", q.Type, q.ID)
		}
	case model.MultiChoiceValue:
		if q.Type != model.QuestionTypeMultiChoice {
			return fmt.Sprintf("option list given for %s question %q", q.Type, q.ID)
		}
		picked := make(map[string]bool, len(v))
		for _, id := range v {
			if picked[id] {
				return fmt.Sprintf("option %q selected twice for %q", id, q.ID)
			}
			picked[id] = true
			if _, ok := q.Option(id); !ok {
				return fmt.Sprintf("unknown option %q for %q", id, q.ID)
			}
		}
	}
	return ""
}
