package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// AnswerValue is the typed value of an answer. A nil AnswerValue means the
// question was not answered. The concrete type must match the question type:
//
//	boolean       -> BoolValue
//	scale         -> ScaleValue
//	single_choice -> ChoiceValue
//	multi_choice  -> MultiChoiceValue
type AnswerValue interface {
	isAnswerValue()
}

// BoolValue answers a boolean question
type BoolValue bool

// ScaleValue answers a scale question
type ScaleValue int

// ChoiceValue is the selected option id of a single_choice question
type ChoiceValue string

// MultiChoiceValue is the set of selected option ids of a multi_choice question.
// An empty, non-nil set means "answered, nothing selected".
type MultiChoiceValue []string

func (BoolValue) isAnswerValue()        {}
func (ScaleValue) isAnswerValue()       {}
func (ChoiceValue) isAnswerValue()      {}
func (MultiChoiceValue) isAnswerValue() {}

// Contains reports whether id was selected
func (v MultiChoiceValue) Contains(id string) bool {
	for _, s := range v {
		if s == id {
			return true
		}
	}
	return false
}

// Answer is a submitted answer to one question
type Answer struct {
	QuestionID string      `json:"questionId"`
	SectionID  SectionID   `json:"sectionId"`
	Value      AnswerValue `json:"value"`
}

type answerWire struct {
	QuestionID string          `json:"questionId"`
	SectionID  SectionID       `json:"sectionId"`
	Value      json.RawMessage `json:"value"`
}

// UnmarshalJSON decodes the untyped wire value into the matching AnswerValue variant
func (a *Answer) UnmarshalJSON(data []byte) error {
	var w answerWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	v, err := decodeAnswerValue(w.Value)
	if err != nil {
		return fmt.Errorf("answer %q: %w", w.QuestionID, err)
	}
	a.QuestionID = w.QuestionID
	a.SectionID = w.SectionID
	a.Value = v
	return nil
}

// MarshalJSON encodes the value back to its untyped wire form
func (a Answer) MarshalJSON() ([]byte, error) {
	var value interface{}
	switch v := a.Value.(type) {
	case nil:
		value = nil
	case BoolValue:
		value = bool(v)
	case ScaleValue:
		value = int(v)
	case ChoiceValue:
		value = string(v)
	case MultiChoiceValue:
		ids := []string(v)
		if ids == nil {
			ids = []string{}
		}
		value = ids
	}
	return json.Marshal(struct {
		QuestionID string      `json:"questionId"`
		SectionID  SectionID   `json:"sectionId"`
		Value      interface{} `json:"value"`
	}{a.QuestionID, a.SectionID, value})
}

func decodeAnswerValue(raw json.RawMessage) (AnswerValue, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch raw[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return BoolValue(b), nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return ChoiceValue(s), nil
	case '[':
		var ids []string
		if err := json.Unmarshal(raw, &ids); err != nil {
			return nil, fmt.Errorf("value must be an array of option ids: %w", err)
		}
		if ids == nil {
			ids = []string{}
		}
		return MultiChoiceValue(ids), nil
	default:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("unsupported value %s", string(raw))
		}
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("scale value must be an integer, got %v", f)
		}
		return ScaleValue(int(f)), nil
	}
}

// Stage is the funding stage of the assessed company
type Stage string

const (
	StagePreSeed     Stage = "pre_seed"
	StageSeed        Stage = "seed"
	StageSeriesA     Stage = "series_a"
	StageSeriesBPlus Stage = "series_b_plus"
)

// Valid reports whether s is a known stage
func (s Stage) Valid() bool {
	switch s {
	case StagePreSeed, StageSeed, StageSeriesA, StageSeriesBPlus:
		return true
	}
	return false
}

// Label is the human-readable stage name
func (s Stage) Label() string {
	switch s {
	case StagePreSeed:
		return "Pre-Seed"
	case StageSeed:
		return "Seed"
	case StageSeriesA:
		return "Series A"
	case StageSeriesBPlus:
		return "Series B+"
	}
	return string(s)
}

// TeamSize is a headcount bucket
type TeamSize string

const (
	TeamSize1to5   TeamSize = "1-5"
	TeamSize6to15  TeamSize = "6-15"
	TeamSize16to50 TeamSize = "16-50"
	TeamSize51Plus TeamSize = "51+"
)

// Valid reports whether t is a known bucket
func (t TeamSize) Valid() bool {
	switch t {
	case TeamSize1to5, TeamSize6to15, TeamSize16to50, TeamSize51Plus:
		return true
	}
	return false
}

// CompanyContext calibrates how the advisory interprets the scores
type CompanyContext struct {
	CompanyName       string   `json:"companyName,omitempty"`
	Stage             Stage    `json:"stage"`
	TeamSize          TeamSize `json:"teamSize"`
	Industry          string   `json:"industry,omitempty"`
	HasSecurityBudget bool     `json:"hasSecurityBudget"`
}

// Submission is one completed questionnaire
type Submission struct {
	CompanyContext CompanyContext `json:"companyContext"`
	Answers        []Answer       `json:"answers"`
}
