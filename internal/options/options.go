// Package options reconciles the option shapes a question can carry (a bare
// label, or an object with label and/or value) into one canonical shape.
package options

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pders01/interview/internal/canonical"
)

// Option is a normalized choice. Value identifies the choice; Label is
// what the user sees.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Raw is an option as received at the boundary: either a bare string or an
// object exposing optional label and value fields.
type Raw struct {
	Text     string
	Label    string
	Value    string
	IsObject bool
}

// Bare returns a bare-string option.
func Bare(text string) Raw {
	return Raw{Text: text}
}

// Object returns an object option.
func Object(label, value string) Raw {
	return Raw{Label: label, Value: value, IsObject: true}
}

func (r *Raw) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Raw{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Bare(s)
		return nil
	}

	var obj struct {
		Label *string `json:"label"`
		Value any     `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("option must be a string or an object: %w", err)
	}

	raw := Raw{IsObject: true}
	if obj.Label != nil {
		raw.Label = *obj.Label
	}
	switch v := obj.Value.(type) {
	case nil:
	case string:
		raw.Value = v
	case float64, bool:
		raw.Value = fmt.Sprint(v)
	default:
		return fmt.Errorf("option value must be a scalar, got %T", v)
	}
	*r = raw
	return nil
}

func (r Raw) MarshalJSON() ([]byte, error) {
	if !r.IsObject {
		return json.Marshal(r.Text)
	}
	obj := map[string]string{}
	if r.Label != "" {
		obj["label"] = r.Label
	}
	if r.Value != "" {
		obj["value"] = r.Value
	}
	return json.Marshal(obj)
}

// normalize returns the option for r, or false if it carries neither a
// usable label nor value.
func (r Raw) normalize() (Option, bool) {
	if !r.IsObject {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			return Option{}, false
		}
		return Option{Label: text, Value: text}, true
	}

	label := strings.TrimSpace(r.Label)
	value := strings.TrimSpace(r.Value)
	if value == "" {
		value = label
	}
	if label == "" {
		label = value
	}
	if label == "" {
		return Option{}, false
	}
	return Option{Label: label, Value: value}, true
}

// Normalize maps raw options to {label, value} pairs. A non-empty value wins
// as identifier; otherwise the label is used for both. Entries with no usable
// label are dropped. Order is preserved and duplicates are kept.
func Normalize(raw []Raw) []Option {
	out := make([]Option, 0, len(raw))
	for _, r := range raw {
		if opt, ok := r.normalize(); ok {
			out = append(out, opt)
		}
	}
	return out
}

// FromLabels builds options whose label doubles as value.
func FromLabels(labels ...string) []Option {
	raw := make([]Raw, len(labels))
	for i, l := range labels {
		raw[i] = Bare(l)
	}
	return Normalize(raw)
}

// Find returns the option matching choice: exact value first, then a
// canonical comparison against value and label.
func Find(opts []Option, choice string) (Option, bool) {
	for _, o := range opts {
		if o.Value == choice {
			return o, true
		}
	}
	want := canonical.String(choice)
	if want == "" {
		return Option{}, false
	}
	for _, o := range opts {
		if canonical.String(o.Value) == want || canonical.String(o.Label) == want {
			return o, true
		}
	}
	return Option{}, false
}

// Labels returns the labels of opts in order.
func Labels(opts []Option) []string {
	labels := make([]string, len(opts))
	for i, o := range opts {
		labels[i] = o.Label
	}
	return labels
}
