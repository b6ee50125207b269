package planner

import (
	"time"

	"github.com/pders01/interview/internal/errors"
	"github.com/pders01/interview/internal/models"
	"github.com/pders01/interview/internal/summary"
	"github.com/pders01/interview/internal/validate"
)

// ErrNoQuestion is returned when an answer is given while no question step
// is current.
var ErrNoQuestion = errors.New("no question is awaiting an answer")

// checkpoint is the session state saved before a question is answered.
type checkpoint struct {
	cursor  int
	current Step
	answers models.Answers
	ledger  models.Ledger
}

// Session runs a whole static interview: it owns the answer set, the
// ledger and the planner cursor.
type Session struct {
	planner   *Planner
	validator *validate.Validator

	answers models.Answers
	ledger  models.Ledger
	current Step
	done    bool
	history []checkpoint
}

// NewSession starts an interview over steps. A nil validator uses the
// defaults.
func NewSession(steps []Step, v *validate.Validator) *Session {
	if v == nil {
		v = validate.New(nil)
	}
	s := &Session{
		planner:   New(steps),
		validator: v,
		answers:   models.Answers{},
	}
	s.advance()
	return s
}

func (s *Session) advance() {
	step, ok := s.planner.Advance(s.answers)
	s.current, s.done = step, !ok
}

// Current returns the step being shown, false once the interview is done.
func (s *Session) Current() (Step, bool) {
	if s.done {
		return Step{}, false
	}
	return s.current, true
}

// Continue passes over the current info step. It returns false when the
// current step is a question or the interview is done.
func (s *Session) Continue() bool {
	if s.done || !s.current.IsInfo() {
		return false
	}
	s.advance()
	return true
}

// Record stores v for the current question without validation and moves
// to the next eligible step.
func (s *Session) Record(v models.Value) error {
	if s.done || s.current.IsInfo() {
		return ErrNoQuestion
	}

	s.history = append(s.history, checkpoint{
		cursor:  s.planner.Cursor(),
		current: s.current,
		answers: s.answers.Clone(),
		ledger:  s.ledger.Clone(),
	})

	q := s.current.Question()
	s.answers = s.answers.With(q.ID, v)
	s.ledger = s.ledger.Record(q, v)
	s.advance()
	return nil
}

// Answer validates in against the current question and records it.
// Rejections are validation errors and leave the session unchanged.
func (s *Session) Answer(in validate.Input) (validate.Submission, error) {
	if s.done || s.current.IsInfo() {
		return validate.Submission{}, ErrNoQuestion
	}
	sub, err := s.validator.Check(s.current.Question(), in)
	if err != nil {
		return validate.Submission{}, err
	}
	return sub, s.Record(sub.Value)
}

// Skip records an explicit null for an optional question.
func (s *Session) Skip() error {
	if s.done || s.current.IsInfo() {
		return ErrNoQuestion
	}
	if !s.current.Optional {
		return errors.Invalid(s.current.ID, "Cette question est obligatoire.")
	}
	return s.Record(models.Null())
}

// Back restores the state saved before the last answered question and makes
// that question current again. It returns false when nothing was answered.
func (s *Session) Back() bool {
	if len(s.history) == 0 {
		return false
	}
	cp := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]

	s.planner.Seek(cp.cursor)
	s.current = cp.current
	s.answers = cp.answers
	s.ledger = cp.ledger
	s.done = false
	return true
}

// Fill walks the session forward, passing info steps and recording the
// given answer for each question reached. It stops at the first question
// without an answer and returns the number of answers recorded.
func (s *Session) Fill(given models.Answers) int {
	n := 0
	for !s.done {
		if s.Continue() {
			continue
		}
		v, ok := given[s.current.ID]
		if !ok {
			break
		}
		if err := s.Record(v); err != nil {
			break
		}
		n++
	}
	return n
}

// Done reports whether no eligible step remains.
func (s *Session) Done() bool {
	return s.done
}

// Answers returns a copy of the answer set.
func (s *Session) Answers() models.Answers {
	return s.answers.Clone()
}

// Ledger returns a copy of the answered-entries ledger.
func (s *Session) Ledger() models.Ledger {
	return s.ledger.Clone()
}

// Summary projects the ledger. A zero now disables age annotation.
func (s *Session) Summary(now time.Time) string {
	return summary.Project(s.ledger, summary.Options{Now: now})
}
