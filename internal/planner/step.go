// Package planner implements the static, predicate-driven interview: an
// ordered step table walked left to right, skipping steps whose predicate
// is false against the answers collected so far.
package planner

import (
	"github.com/pders01/interview/internal/models"
	"github.com/pders01/interview/internal/options"
	"github.com/pders01/interview/internal/predicates"
)

// StepType distinguishes narrative beats from questions.
type StepType string

const (
	// StepInfo is shown once and records no answer.
	StepInfo StepType = "info"
	// StepQuestion needs exactly one stored answer to advance.
	StepQuestion StepType = "question"
)

// Step is one entry of a static step table.
type Step struct {
	ID      string           `json:"id"`
	Prompt  string           `json:"prompt"`
	Section models.Section   `json:"section"`
	Label   string           `json:"label,omitempty"`
	Type    StepType         `json:"type"`
	Options []options.Option `json:"options,omitempty"`

	// Input is the question type used for validation. Empty means select
	// when Options are present, text otherwise.
	Input      models.QuestionType `json:"input,omitempty"`
	Unit       string              `json:"unit,omitempty"`
	Optional   bool                `json:"optional,omitempty"`
	Validation *models.Validation  `json:"validation,omitempty"`

	// ShouldAsk gates the step. Nil means always eligible.
	ShouldAsk predicates.Predicate `json:"-"`
}

// IsInfo reports whether s is a narrative step.
func (s Step) IsInfo() bool {
	return s.Type == StepInfo
}

// Conditional reports whether s carries a visibility predicate.
func (s Step) Conditional() bool {
	return s.ShouldAsk != nil
}

// InputType resolves the question type used for validation.
func (s Step) InputType() models.QuestionType {
	switch {
	case s.Input != "":
		return s.Input
	case len(s.Options) > 0:
		return models.TypeSelect
	default:
		return models.TypeText
	}
}

// Question projects a question step into a question definition so that
// validation and the summary are shared with the dynamic planner. The
// summary label falls back to the prompt.
func (s Step) Question() models.Question {
	label := s.Label
	if label == "" {
		label = s.Prompt
	}
	section := s.Section

	q := models.Question{
		ID:         s.ID,
		BaseID:     s.ID,
		Type:       s.InputType(),
		Label:      label,
		Required:   !s.Optional,
		Options:    s.Options,
		Unit:       s.Unit,
		Validation: s.Validation,
		Section:    &section,
	}
	return *q.Clone()
}

// Eligible reports whether s may be asked against answers.
func Eligible(s Step, answers models.Answers) bool {
	return s.ShouldAsk == nil || s.ShouldAsk(answers)
}
