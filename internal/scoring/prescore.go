// Package scoring turns raw questionnaire answers into bounded, reproducible
// scores and builds the rule-based report used when enrichment is unavailable.
//
// Everything here is a pure function of its inputs. Nothing blocks, nothing
// is shared between calls except the read-only catalog.
package scoring

import (
	"errors"
	"fmt"
	"math"

	"ventureshield/internal/catalog"
	"ventureshield/internal/model"
)

// ErrPrecondition marks input the scorer was never supposed to receive,
// such as a scale value outside its bounds or a value of the wrong shape.
// The submission validator rejects these before scoring.
var ErrPrecondition = errors.New("scoring precondition violated")

// Scorer computes pre-scores against a fixed catalog
type Scorer struct {
	catalog *catalog.Catalog
}

// NewScorer creates a scorer bound to cat
func NewScorer(cat *catalog.Catalog) *Scorer {
	return &Scorer{catalog: cat}
}

// Score computes per-section and composite scores.
//
// Unanswered questions are left out of both the numerator and the weight
// denominator of their section. A section with no answered questions scores
// 0, which is indistinguishable from answering everything at the minimum;
// use SectionPreScore.AnsweredCount to tell the two apart.
//
// Answers for question ids not in the catalog are ignored. When the same
// question is answered twice the last answer wins.
func (s *Scorer) Score(answers []model.Answer) (*model.PreScoreResult, error) {
	byQuestion := make(map[string]model.AnswerValue, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a.Value
	}

	sections := s.catalog.Sections()
	result := &model.PreScoreResult{
		SectionScores:  make(map[model.SectionID]float64, len(sections)),
		SectionDetails: make([]model.SectionPreScore, 0, len(sections)),
	}

	composite := 0.0
	for i := range sections {
		section := &sections[i]
		weightedSum, weightSum := 0.0, 0.0
		answered := 0

		for j := range section.Questions {
			q := &section.Questions[j]
			v, ok, err := Normalize(q, byQuestion[q.ID])
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			weightedSum += v * q.RiskWeight
			weightSum += q.RiskWeight
			answered++
		}

		score := 0.0
		if weightSum > 0 {
			score = round1(weightedSum / weightSum * 100)
		}

		result.SectionScores[section.ID] = score
		result.SectionDetails = append(result.SectionDetails, model.SectionPreScore{
			SectionID:     section.ID,
			Score:         score,
			AnsweredCount: answered,
			TotalCount:    len(section.Questions),
		})
		composite += score * section.Weight
	}

	result.CompositeScore = round1(composite)
	return result, nil
}

// Normalize maps a single answer to [0,1]. The boolean result is false when
// the answer counts as unanswered.
func Normalize(q *model.Question, value model.AnswerValue) (float64, bool, error) {
	if value == nil {
		return 0, false, nil
	}

	switch q.Type {
	case model.QuestionTypeBoolean:
		v, ok := value.(model.BoolValue)
		if !ok {
			return 0, false, shapeError(q, value)
		}
		if v {
			return 1, true, nil
		}
		return 0, true, nil

	case model.QuestionTypeScale:
		v, ok := value.(model.ScaleValue)
		if !ok {
			return 0, false, shapeError(q, value)
		}
		if int(v) < q.ScaleMin || int(v) > q.ScaleMax {
			return 0, false, fmt.Errorf("%w: question %q: scale value %d outside [%d,%d]",
				ErrPrecondition, q.ID, v, q.ScaleMin, q.ScaleMax)
		}
		return float64(int(v)-q.ScaleMin) / float64(q.ScaleMax-q.ScaleMin), true, nil

	case model.QuestionTypeSingleChoice:
		v, ok := value.(model.ChoiceValue)
		if !ok {
			return 0, false, shapeError(q, value)
		}
		opt, found := q.Option(string(v))
		if !found {
			// Unknown option id degrades to unanswered
			return 0, false, nil
		}
		return opt.Weight, true, nil

	case model.QuestionTypeMultiChoice:
		v, ok := value.(model.MultiChoiceValue)
		if !ok {
			return 0, false, shapeError(q, value)
		}
		return normalizeMulti(q, v), true, nil
	}

	return 0, false, fmt.Errorf("%w: question %q: unknown type %q", ErrPrecondition, q.ID, q.Type)
}

func normalizeMulti(q *model.Question, selected model.MultiChoiceValue) float64 {
	if len(selected) == 0 {
		return 0
	}

	total, maxAchievable := 0.0, 0.0
	for _, o := range q.Options {
		picked := selected.Contains(o.ID)
		if picked && o.Weight == 0 {
			// "None" dominates every other selection
			return 0
		}
		if picked {
			total += o.Weight
		}
		if o.Weight > 0 {
			maxAchievable += o.Weight
		}
	}

	if maxAchievable == 0 {
		return 0
	}
	return total / maxAchievable
}

func shapeError(q *model.Question, value model.AnswerValue) error {
	return fmt.Errorf("%w: question %q of type %s got %T", ErrPrecondition, q.ID, q.Type, value)
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
