package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pders01/interview/internal/options"
)

// QuestionType is the input kind a question expects.
type QuestionType string

const (
	TypeText        QuestionType = "text"
	TypeNumber      QuestionType = "number"
	TypeDate        QuestionType = "date"
	TypeSelect      QuestionType = "select"
	TypeBoolean     QuestionType = "boolean"
	TypeMultiSelect QuestionType = "multi_select"
)

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeText, TypeNumber, TypeDate, TypeSelect, TypeBoolean, TypeMultiSelect:
		return true
	default:
		return false
	}
}

// Validation holds the optional constraints attached to a question.
type Validation struct {
	Pattern string   `json:"pattern,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Message string   `json:"message,omitempty"`
}

// Section groups questions under a title in the summary.
type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Question is one question definition. BaseID identifies the question
// independent of any per-occurrence suffix (e.g. per dependent).
type Question struct {
	ID         string           `json:"id"`
	BaseID     string           `json:"baseId"`
	Type       QuestionType     `json:"type"`
	Label      string           `json:"label"`
	Required   bool             `json:"required"`
	Options    []options.Option `json:"options,omitempty"`
	Unit       string           `json:"unit,omitempty"`
	Validation *Validation      `json:"validation,omitempty"`
	Section    *Section         `json:"section,omitempty"`
}

// SectionTitle returns the section title, or "" when the question has none.
func (q Question) SectionTitle() string {
	if q.Section == nil {
		return ""
	}
	return q.Section.Title
}

// Clone returns a copy that shares no mutable state with q.
func (q *Question) Clone() *Question {
	if q == nil {
		return nil
	}
	cp := *q
	if q.Options != nil {
		cp.Options = make([]options.Option, len(q.Options))
		copy(cp.Options, q.Options)
	}
	if q.Validation != nil {
		v := *q.Validation
		if v.Min != nil {
			lo := *v.Min
			v.Min = &lo
		}
		if v.Max != nil {
			hi := *v.Max
			v.Max = &hi
		}
		cp.Validation = &v
	}
	if q.Section != nil {
		s := *q.Section
		cp.Section = &s
	}
	return &cp
}

// Check reports the first structural problem with q, or nil.
func (q Question) Check() error {
	var missing []string
	if strings.TrimSpace(q.ID) == "" {
		missing = append(missing, "id")
	}
	if strings.TrimSpace(string(q.Type)) == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(q.Label) == "" {
		missing = append(missing, "label")
	}
	if len(missing) > 0 {
		return fmt.Errorf("question is missing required fields: %s", strings.Join(missing, ", "))
	}
	if !q.Type.Valid() {
		return fmt.Errorf("question %s has unknown type %q", q.ID, q.Type)
	}
	if (q.Type == TypeSelect || q.Type == TypeMultiSelect) && len(q.Options) == 0 {
		return fmt.Errorf("question %s of type %s has no usable options", q.ID, q.Type)
	}
	return nil
}

// UnmarshalJSON decodes a question, normalizing its options at the boundary
// and rejecting structurally invalid payloads.
func (q *Question) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID         string        `json:"id"`
		BaseID     string        `json:"baseId"`
		Type       QuestionType  `json:"type"`
		Label      string        `json:"label"`
		Required   bool          `json:"required"`
		Options    []options.Raw `json:"options"`
		Unit       string        `json:"unit"`
		Validation *Validation   `json:"validation"`
		Section    *Section      `json:"section"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	parsed := Question{
		ID:         wire.ID,
		BaseID:     wire.BaseID,
		Type:       wire.Type,
		Label:      wire.Label,
		Required:   wire.Required,
		Options:    options.Normalize(wire.Options),
		Unit:       wire.Unit,
		Validation: wire.Validation,
		Section:    wire.Section,
	}
	if parsed.BaseID == "" {
		parsed.BaseID = parsed.ID
	}
	if len(parsed.Options) == 0 {
		parsed.Options = nil
	}
	if err := parsed.Check(); err != nil {
		return err
	}

	*q = parsed
	return nil
}
