// Package validate applies the local input rules shared by both planners
// before an answer is submitted. It never contacts the oracle.
package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"go.uber.org/zap"

	"github.com/pders01/interview/internal/canonical"
	"github.com/pders01/interview/internal/errors"
	"github.com/pders01/interview/internal/logging"
	"github.com/pders01/interview/internal/models"
	"github.com/pders01/interview/internal/options"
)

const (
	// DefaultSkipText is the transcript text recorded for a skipped question.
	DefaultSkipText = "Je préfère ne pas répondre"
	// EmptySelectionText is shown for an optional multi-select left empty.
	EmptySelectionText = "Aucune sélection"

	patternTimeout = 250 * time.Millisecond
)

// Input is raw user input. Which fields are read depends on the question
// type: Text for text and number, Choice for select and boolean, Choices for
// multi_select, Year/Month/Day (or Text) for date.
type Input struct {
	Text    string
	Choice  string
	Choices []string
	Year    int
	Month   int
	Day     int
}

// Submission is a validated answer ready to be submitted. Skip means the
// answer is an explicit null.
type Submission struct {
	Value   models.Value
	Display string
	Skip    bool
}

// Validator checks input against a question definition.
type Validator struct {
	logger   *zap.Logger
	skipText string
}

// New returns a Validator. A nil logger discards logs.
func New(logger *zap.Logger) *Validator {
	return &Validator{logger: logging.OrNop(logger), skipText: DefaultSkipText}
}

// WithSkipText returns a copy of v recording text for skipped answers.
func (v *Validator) WithSkipText(text string) *Validator {
	cp := *v
	if strings.TrimSpace(text) != "" {
		cp.skipText = text
	}
	return &cp
}

// SkipText is the display text recorded for skipped answers.
func (v *Validator) SkipText() string {
	return v.skipText
}

// Check validates in against q. Rejections are *errors.ValidationError.
func (v *Validator) Check(q models.Question, in Input) (Submission, error) {
	switch q.Type {
	case models.TypeText:
		return v.checkText(q, in)
	case models.TypeNumber:
		return v.checkNumber(q, in)
	case models.TypeSelect:
		return v.checkSelect(q, in)
	case models.TypeBoolean:
		return v.checkBoolean(q, in)
	case models.TypeMultiSelect:
		return v.checkMultiSelect(q, in)
	case models.TypeDate:
		return v.checkDate(q, in)
	default:
		return Submission{}, errors.Invalid(q.ID, fmt.Sprintf("type de question non pris en charge : %s", q.Type))
	}
}

func (v *Validator) skip() Submission {
	return Submission{Value: models.Null(), Display: v.skipText, Skip: true}
}

func (v *Validator) missing(q models.Question) (Submission, error) {
	if q.Required {
		return Submission{}, errors.Invalid(q.ID, "Ce champ est obligatoire.")
	}
	return v.skip(), nil
}

func customMessage(q models.Question, fallback string) string {
	if q.Validation != nil && strings.TrimSpace(q.Validation.Message) != "" {
		return q.Validation.Message
	}
	return fallback
}

func (v *Validator) checkText(q models.Question, in Input) (Submission, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return v.missing(q)
	}

	if q.Validation != nil && q.Validation.Pattern != "" {
		ok, err := v.matches(q.Validation.Pattern, text)
		if err != nil {
			v.logger.Warn("ignoring unusable validation pattern",
				zap.String(logging.FieldQuestionID, q.ID),
				zap.String(logging.FieldPattern, q.Validation.Pattern),
				zap.Error(err))
		} else if !ok {
			return Submission{}, errors.Invalid(q.ID, customMessage(q, "Le format de la réponse est invalide."))
		}
	}

	return Submission{Value: models.String(text), Display: text}, nil
}

// matches evaluates an ECMAScript pattern. Compile and runtime errors are
// returned so the caller can treat the pattern as absent.
func (v *Validator) matches(pattern, text string) (bool, error) {
	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err != nil {
		return false, err
	}
	re.MatchTimeout = patternTimeout
	return re.MatchString(text)
}

// ParseNumber parses a decimal number written with a comma or a dot.
func ParseNumber(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", ",", ".").Replace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", raw, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("number %q is not finite", raw)
	}
	return f, nil
}

func (v *Validator) checkNumber(q models.Question, in Input) (Submission, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return v.missing(q)
	}

	f, err := ParseNumber(text)
	if err != nil {
		return Submission{}, errors.Invalid(q.ID, "Veuillez saisir un nombre valide.")
	}

	if q.Validation != nil {
		if q.Validation.Min != nil && f < *q.Validation.Min {
			return Submission{}, errors.Invalid(q.ID, customMessage(q,
				fmt.Sprintf("La valeur doit être supérieure ou égale à %s.", formatBound(*q.Validation.Min))))
		}
		if q.Validation.Max != nil && f > *q.Validation.Max {
			return Submission{}, errors.Invalid(q.ID, customMessage(q,
				fmt.Sprintf("La valeur doit être inférieure ou égale à %s.", formatBound(*q.Validation.Max))))
		}
	}

	display := text
	if q.Unit != "" {
		display = text + " " + q.Unit
	}
	return Submission{Value: models.Number(f), Display: display}, nil
}

func formatBound(f float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(f, 'f', -1, 64), ".", ",")
}

func (v *Validator) checkSelect(q models.Question, in Input) (Submission, error) {
	if strings.TrimSpace(in.Choice) == "" {
		if q.Required {
			return Submission{}, errors.Invalid(q.ID, "Veuillez choisir une option.")
		}
		return v.skip(), nil
	}

	opt, ok := options.Find(q.Options, in.Choice)
	if !ok {
		return Submission{}, errors.Invalid(q.ID, "Veuillez choisir une option proposée.")
	}
	return Submission{Value: models.String(opt.Value), Display: opt.Label}, nil
}

func (v *Validator) checkBoolean(q models.Question, in Input) (Submission, error) {
	switch canonical.String(in.Choice) {
	case "oui", "true":
		return Submission{Value: models.Bool(true), Display: "Oui"}, nil
	case "non", "false":
		return Submission{Value: models.Bool(false), Display: "Non"}, nil
	case "":
		if q.Required {
			return Submission{}, errors.Invalid(q.ID, "Veuillez répondre par Oui ou Non.")
		}
		return v.skip(), nil
	default:
		return Submission{}, errors.Invalid(q.ID, "Veuillez répondre par Oui ou Non.")
	}
}

func (v *Validator) checkMultiSelect(q models.Question, in Input) (Submission, error) {
	var values, labels []string
	seen := map[string]bool{}
	for _, choice := range in.Choices {
		if strings.TrimSpace(choice) == "" {
			continue
		}
		opt, ok := options.Find(q.Options, choice)
		if !ok {
			return Submission{}, errors.Invalid(q.ID, fmt.Sprintf("Option inconnue : %s.", strings.TrimSpace(choice)))
		}
		if seen[opt.Value] {
			continue
		}
		seen[opt.Value] = true
		values = append(values, opt.Value)
		labels = append(labels, opt.Label)
	}

	if len(values) == 0 {
		if q.Required {
			return Submission{}, errors.Invalid(q.ID, "Veuillez sélectionner au moins une option.")
		}
		return Submission{Value: models.List(), Display: EmptySelectionText}, nil
	}
	return Submission{Value: models.List(values...), Display: strings.Join(labels, ", ")}, nil
}

func (v *Validator) checkDate(q models.Question, in Input) (Submission, error) {
	y, m, d := in.Year, in.Month, in.Day
	if y == 0 && m == 0 && d == 0 && strings.TrimSpace(in.Text) != "" {
		var err error
		y, m, d, err = SplitDate(in.Text)
		if err != nil {
			return Submission{}, errors.Invalid(q.ID, "Date invalide.")
		}
	}
	if y == 0 && m == 0 && d == 0 {
		return v.missing(q)
	}

	t, ok := CalendarDate(y, m, d)
	if !ok {
		return Submission{}, errors.Invalid(q.ID, "Date invalide.")
	}
	return Submission{Value: models.String(t.Format(ISODate)), Display: t.Format(DisplayDate)}, nil
}
