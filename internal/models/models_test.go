package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestValueCell(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{name: "null", value: Null(), expected: ""},
		{name: "string", value: String("En couple"), expected: "En couple"},
		{name: "integer number", value: Number(3), expected: "3"},
		{name: "decimal number", value: Number(12.5), expected: "12.5"},
		{name: "true", value: Bool(true), expected: "Oui"},
		{name: "false", value: Bool(false), expected: "Non"},
		{name: "list", value: List("A", "B"), expected: "A ; B"},
		{name: "empty list", value: List(), expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Cell(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestListIsImmutable(t *testing.T) {
	items := []string{"A", "B"}
	v := List(items...)
	items[0] = "changed"

	got := v.Items()
	if got[0] != "A" {
		t.Errorf("expected list to be copied on construction, got %v", got)
	}

	got[1] = "changed"
	if v.Items()[1] != "B" {
		t.Error("expected Items to return a copy")
	}
}

func TestEmptyListIsNotNull(t *testing.T) {
	v := List()
	if v.IsNull() {
		t.Error("expected empty selection to differ from null")
	}
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("expected [], got %s", data)
	}
}

func TestValueJSON(t *testing.T) {
	payload := `{"a": null, "b": "texte", "c": 4.5, "d": true, "e": ["x", "y"]}`

	var answers Answers
	if err := json.Unmarshal([]byte(payload), &answers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := Answers{
		"a": Null(),
		"b": String("texte"),
		"c": Number(4.5),
		"d": Bool(true),
		"e": List("x", "y"),
	}
	for id, want := range expected {
		got, ok := answers.Get(id)
		if !ok {
			t.Errorf("missing answer %s", id)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("answer %s: expected %v, got %v", id, want, got)
		}
	}

	if err := json.Unmarshal([]byte(`{"a": [1, 2]}`), &answers); err == nil {
		t.Error("expected error for a list of numbers")
	}
}

func TestLedgerRecordMovesToEnd(t *testing.T) {
	a := Question{ID: "a", Label: "A", Type: TypeText}
	b := Question{ID: "b", Label: "B", Type: TypeText}

	var l Ledger
	l = l.Record(a, String("1"))
	l = l.Record(b, String("2"))
	l2 := l.Record(a, String("3"))

	if len(l2) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(l2))
	}
	if l2[0].Question.ID != "b" || l2[1].Question.ID != "a" {
		t.Errorf("expected re-answered entry at the end, got %s then %s", l2[0].Question.ID, l2[1].Question.ID)
	}
	if l2[1].Answer.Str() != "3" {
		t.Errorf("expected latest answer to win, got %v", l2[1].Answer)
	}
	if l[0].Question.ID != "a" || l[0].Answer.Str() != "1" {
		t.Error("expected Record to leave the original ledger untouched")
	}
}

func TestAnswersClone(t *testing.T) {
	a := Answers{"x": String("1")}
	b := a.With("y", String("2"))
	if _, ok := a["y"]; ok {
		t.Error("expected With to copy the answer set")
	}
	if b.Cell("x") != "1" || b.Cell("y") != "2" {
		t.Errorf("unexpected clone content: %v", b)
	}
	if a.Cell("missing") != "" {
		t.Error("expected empty cell for a missing answer")
	}
}

func TestQuestionUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr string
		check   func(t *testing.T, q Question)
	}{
		{
			name:    "full question",
			payload: `{"id": "rent", "type": "number", "label": "Loyer", "required": true, "unit": "€", "validation": {"min": 0, "max": 5000}, "section": {"id": "housing", "title": "Logement"}}`,
			check: func(t *testing.T, q Question) {
				if q.BaseID != "rent" {
					t.Errorf("expected baseId to default to id, got %q", q.BaseID)
				}
				if q.Validation == nil || q.Validation.Min == nil || *q.Validation.Max != 5000 {
					t.Errorf("unexpected validation: %+v", q.Validation)
				}
				if q.SectionTitle() != "Logement" {
					t.Errorf("expected section title Logement, got %q", q.SectionTitle())
				}
			},
		},
		{
			name:    "options normalized",
			payload: `{"id": "status", "baseId": "status", "type": "select", "label": "Statut", "options": ["Option A", {"label": "Option B", "value": "b"}, ""]}`,
			check: func(t *testing.T, q Question) {
				if len(q.Options) != 2 || q.Options[1].Value != "b" {
					t.Errorf("unexpected options: %v", q.Options)
				}
			},
		},
		{name: "missing label", payload: `{"id": "x", "type": "text"}`, wantErr: "label"},
		{name: "missing id and type", payload: `{"label": "X"}`, wantErr: "id, type"},
		{name: "unknown type", payload: `{"id": "x", "type": "slider", "label": "X"}`, wantErr: "unknown type"},
		{name: "select without options", payload: `{"id": "x", "type": "select", "label": "X", "options": [""]}`, wantErr: "no usable options"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Question
			err := json.Unmarshal([]byte(tt.payload), &q)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, q)
		})
	}
}

func TestQuestionClone(t *testing.T) {
	min := 1.0
	q := &Question{ID: "x", Validation: &Validation{Min: &min}, Section: &Section{Title: "S"}}
	cp := q.Clone()
	*cp.Validation.Min = 5
	cp.Section.Title = "T"
	if *q.Validation.Min != 1 || q.Section.Title != "S" {
		t.Error("expected clone to share no pointers with the original")
	}
}
