// Package summary projects the answered-entries ledger into the grouped,
// human-readable text handed over at the end of an interview.
package summary

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/pders01/interview/internal/models"
	"github.com/pders01/interview/internal/validate"
)

// Options tunes projection. The zero value formats for French and adds no
// age annotations.
type Options struct {
	// Now enables age annotations on birth-date answers when non-zero.
	Now time.Time
	// Language used for number formatting. Defaults to French.
	Language language.Tag
}

// Project renders the ledger: one section title line whenever the section
// changes between emitted lines, then one bullet per non-empty answer.
func Project(ledger models.Ledger, opts Options) string {
	p := message.NewPrinter(opts.language())

	var lines []string
	lastSection := ""
	emitted := false
	for _, entry := range ledger {
		value, ok := formatAnswer(p, entry.Question, entry.Answer, opts.Now)
		if !ok {
			continue
		}

		section := entry.Question.SectionTitle()
		if section != "" && (!emitted || section != lastSection) {
			lines = append(lines, section)
		}
		lastSection = section
		emitted = true

		lines = append(lines, bullet(entry.Question, value))
	}

	return strings.TrimRight(strings.Join(lines, "\n"), " \t\r\n")
}

func (o Options) language() language.Tag {
	if o.Language == language.Und {
		return language.French
	}
	return o.Language
}

func bullet(q models.Question, value string) string {
	label := strings.TrimSpace(q.Label)
	unit := strings.TrimSpace(q.Unit)
	if unit == "" {
		return "- " + label + ": " + value
	}
	return "- " + label + " : " + value + " " + unit
}

// FormatValue renders a single answer the way the summary does. ok is false
// when the answer yields nothing to show.
func FormatValue(q models.Question, v models.Value) (string, bool) {
	return formatAnswer(message.NewPrinter(language.French), q, v, time.Time{})
}

func formatAnswer(p *message.Printer, q models.Question, v models.Value, now time.Time) (string, bool) {
	switch v.Kind() {
	case models.KindNull:
		return "", false
	case models.KindString:
		s := strings.TrimSpace(v.Str())
		if s == "" {
			return "", false
		}
		if !now.IsZero() {
			if id := birthDateID(q); id != "" {
				return AnnotateAge(id, s, now), true
			}
		}
		if q.Type == models.TypeDate {
			return displayDate(s), true
		}
		return s, true
	case models.KindNumber:
		return p.Sprint(number.Decimal(v.Num(), number.MaxFractionDigits(2))), true
	case models.KindBool:
		if v.Truth() {
			return "Oui", true
		}
		return "Non", true
	case models.KindList:
		var members []string
		for _, item := range v.Items() {
			if s := strings.TrimSpace(item); s != "" {
				members = append(members, s)
			}
		}
		if len(members) == 0 {
			return "", false
		}
		return strings.Join(members, ", "), true
	default:
		return "", false
	}
}

// birthDateID returns the id or base id that marks q as a birth-date field.
func birthDateID(q models.Question) string {
	switch {
	case IsBirthDateField(q.ID):
		return q.ID
	case IsBirthDateField(q.BaseID):
		return q.BaseID
	default:
		return ""
	}
}

// displayDate turns YYYY-MM-DD into DD/MM/YYYY and leaves anything else as is.
func displayDate(s string) string {
	t, err := time.Parse(validate.ISODate, s)
	if err != nil {
		return s
	}
	return t.Format(validate.DisplayDate)
}
