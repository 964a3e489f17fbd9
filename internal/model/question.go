package model

// SectionID identifies one of the four fixed assessment domains
type SectionID string

const (
	SectionCloudSetup          SectionID = "cloud_setup"
	SectionSecurityPractices   SectionID = "security_practices"
	SectionTeamMaturity        SectionID = "team_maturity"
	SectionComplianceReadiness SectionID = "compliance_readiness"
)

// SectionIDs lists every domain in catalog order
var SectionIDs = []SectionID{
	SectionCloudSetup,
	SectionSecurityPractices,
	SectionTeamMaturity,
	SectionComplianceReadiness,
}

// Valid reports whether id is one of the fixed domains
func (id SectionID) Valid() bool {
	switch id {
	case SectionCloudSetup, SectionSecurityPractices, SectionTeamMaturity, SectionComplianceReadiness:
		return true
	}
	return false
}

// QuestionType defines the type of question
type QuestionType string

const (
	QuestionTypeBoolean      QuestionType = "boolean"       // Yes/no
	QuestionTypeScale        QuestionType = "scale"         // Integer in [ScaleMin, ScaleMax]
	QuestionTypeSingleChoice QuestionType = "single_choice" // One option id
	QuestionTypeMultiChoice  QuestionType = "multi_choice"  // Set of option ids
)

// Valid reports whether t is a supported question type
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeBoolean, QuestionTypeScale, QuestionTypeSingleChoice, QuestionTypeMultiChoice:
		return true
	}
	return false
}

// ChoiceOption is one selectable option of a choice question.
// Weight 0.0 is reserved for the "none of the above" option.
type ChoiceOption struct {
	ID     string  `json:"id" yaml:"id"`
	Label  string  `json:"label" yaml:"label"`
	Weight float64 `json:"weight" yaml:"weight"` // 0-1, higher = better posture
}

// ScaleLabels are the captions shown at both ends of a scale
type ScaleLabels struct {
	Min string `json:"min" yaml:"min"`
	Max string `json:"max" yaml:"max"`
}

// Question is a single catalog question
type Question struct {
	ID          string         `json:"id" yaml:"id"`
	SectionID   SectionID      `json:"sectionId" yaml:"-"` // Filled from the owning section on load
	Type        QuestionType   `json:"type" yaml:"type"`
	Text        string         `json:"text" yaml:"text"`
	HelpText    string         `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	RiskWeight  float64        `json:"riskWeight" yaml:"riskWeight"`               // Importance within section
	Options     []ChoiceOption `json:"options,omitempty" yaml:"options,omitempty"` // single_choice / multi_choice
	ScaleMin    int            `json:"scaleMin,omitempty" yaml:"scaleMin,omitempty"`
	ScaleMax    int            `json:"scaleMax,omitempty" yaml:"scaleMax,omitempty"`
	ScaleLabels *ScaleLabels   `json:"scaleLabels,omitempty" yaml:"scaleLabels,omitempty"`
}

// Option looks up an option by id
func (q *Question) Option(id string) (ChoiceOption, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return ChoiceOption{}, false
}

// Section is a weighted group of questions
type Section struct {
	ID          SectionID  `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Weight      float64    `json:"weight" yaml:"weight"` // Sum across sections = 1.0
	Questions   []Question `json:"questions" yaml:"questions"`
}
