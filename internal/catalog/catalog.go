// Package catalog loads and validates the static question catalog.
//
// The catalog is read once at startup and never mutated afterwards, so a
// *Catalog can be shared freely between concurrent requests.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"ventureshield/internal/model"
)

//go:embed default_catalog.yaml
var defaultCatalog string

// weightTolerance absorbs float noise when checking that section weights sum to 1
const weightTolerance = 1e-9

// ErrInvalidCatalog is returned when the catalog breaks a structural invariant
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is the immutable, validated questionnaire
type Catalog struct {
	sections  []model.Section
	questions map[string]*model.Question
	sectionIx map[model.SectionID]int
}

type catalogFile struct {
	Sections []model.Section `yaml:"sections"`
}

// Default returns the catalog compiled into the binary
func Default() (*Catalog, error) {
	return Load(strings.NewReader(defaultCatalog))
}

// LoadFile reads a catalog from path, or the built-in one when path is empty
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and validates a YAML catalog
func Load(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(file.Sections)
}

// New validates sections and builds the lookup indexes
func New(sections []model.Section) (*Catalog, error) {
	c := &Catalog{
		sections:  make([]model.Section, len(sections)),
		questions: make(map[string]*model.Question),
		sectionIx: make(map[model.SectionID]int, len(sections)),
	}

	var problems []string
	weightSum := 0.0
	seenIDs := make(map[string]bool)

	for i, s := range sections {
		if !s.ID.Valid() {
			problems = append(problems, fmt.Sprintf("section %q: unknown section id", s.ID))
		}
		if _, dup := c.sectionIx[s.ID]; dup {
			problems = append(problems, fmt.Sprintf("section %q: duplicate", s.ID))
		}
		if s.Weight <= 0 {
			problems = append(problems, fmt.Sprintf("section %q: weight must be positive", s.ID))
		}
		if len(s.Questions) == 0 {
			problems = append(problems, fmt.Sprintf("section %q: no questions", s.ID))
		}
		weightSum += s.Weight
		c.sectionIx[s.ID] = i

		s.Questions = append([]model.Question(nil), s.Questions...)
		for j := range s.Questions {
			q := &s.Questions[j]
			q.SectionID = s.ID
			q.Options = append([]model.ChoiceOption(nil), q.Options...)
			problems = append(problems, validateQuestion(q)...)
			if seenIDs[q.ID] {
				problems = append(problems, fmt.Sprintf("question %q: duplicate id", q.ID))
			}
			seenIDs[q.ID] = true
		}
		c.sections[i] = s
	}

	// Index after copying so pointers refer to the catalog's own slices
	for i := range c.sections {
		for j := range c.sections[i].Questions {
			q := &c.sections[i].Questions[j]
			c.questions[q.ID] = q
		}
	}

	for _, id := range model.SectionIDs {
		if _, ok := c.sectionIx[id]; !ok {
			problems = append(problems, fmt.Sprintf("section %q: missing", id))
		}
	}
	if math.Abs(weightSum-1.0) > weightTolerance {
		problems = append(problems, fmt.Sprintf("section weights sum to %v, want 1.0", weightSum))
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, "; "))
	}
	return c, nil
}

func validateQuestion(q *model.Question) []string {
	var problems []string
	fail := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf("question %q: ", q.ID)+fmt.Sprintf(format, args...))
	}

	if q.ID == "" {
		fail("empty id")
	}
	if q.RiskWeight <= 0 {
		fail("riskWeight must be positive")
	}

	switch q.Type {
	case model.QuestionTypeBoolean:
	case model.QuestionTypeScale:
		if q.ScaleMin >= q.ScaleMax {
			fail("scaleMin %d must be below scaleMax %d", q.ScaleMin, q.ScaleMax)
		}
	case model.QuestionTypeSingleChoice, model.QuestionTypeMultiChoice:
		if len(q.Options) == 0 {
			fail("choice question without options")
		}
		seen := make(map[string]bool, len(q.Options))
		zeros := 0
		for _, o := range q.Options {
			if seen[o.ID] {
				fail("duplicate option %q", o.ID)
			}
			seen[o.ID] = true
			if o.Weight < 0 || o.Weight > 1 {
				fail("option %q weight %v outside [0,1]", o.ID, o.Weight)
			}
			if o.Weight == 0 {
				zeros++
			}
		}
		if zeros > 1 {
			fail("%d options with weight 0, at most one allowed", zeros)
		}
	default:
		fail("unknown type %q", q.Type)
	}
	return problems
}

// Sections returns the sections in catalog order. Callers must not modify them.
func (c *Catalog) Sections() []model.Section {
	return c.sections
}

// Section looks up a section by id
func (c *Catalog) Section(id model.SectionID) (*model.Section, bool) {
	i, ok := c.sectionIx[id]
	if !ok {
		return nil, false
	}
	return &c.sections[i], true
}

// Question looks up a question by id
func (c *Catalog) Question(id string) (*model.Question, bool) {
	q, ok := c.questions[id]
	return q, ok
}

// QuestionCount is the total number of questions
func (c *Catalog) QuestionCount() int {
	return len(c.questions)
}
