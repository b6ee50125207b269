// Package interview runs the remote-driven interview: an oracle decides
// each next question from the full answer set, and the engine keeps a stack
// of snapshots for undo and for rollback when a submission fails.
package interview

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/pders01/interview/internal/errors"
	"github.com/pders01/interview/internal/logging"
	"github.com/pders01/interview/internal/models"
	"github.com/pders01/interview/internal/oracle"
	"github.com/pders01/interview/internal/summary"
	"github.com/pders01/interview/internal/validate"
)

// ClosingText is the bot message appended when the oracle has no further
// question.
const ClosingText = "Merci ! Le questionnaire est terminé. Voici le récapitulatif de vos réponses."

// Oracle computes the next question from the full answer set.
type Oracle interface {
	Next(ctx context.Context, answers models.Answers) (oracle.Response, error)
}

// Describer fetches the optional questionnaire description.
type Describer interface {
	Describe(ctx context.Context) (oracle.Description, error)
}

// State is the position of the engine in its lifecycle.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateAwaiting      State = "awaiting-answer"
	StateSubmitting    State = "submitting"
	StateCompleted     State = "completed"
	StateError         State = "error"
)

// Engine drives one interview for one owner. Operations issued while a
// call to the oracle is in flight are ignored.
type Engine struct {
	oracle    Oracle
	describer Describer
	validator *validate.Validator
	logger    *zap.Logger
	now       func() time.Time
	skipText  string

	mu      sync.Mutex
	busy    bool
	live    Snapshot
	history []Snapshot
	banner  oracle.Meta
	err     error
}

// New returns an engine asking o for questions. Call Start before use.
func New(o Oracle, opts ...Option) *Engine {
	e := &Engine{
		oracle: o,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.validator = validate.New(e.logger).WithSkipText(e.skipText)
	return e
}

func (e *Engine) message(role Role, text, questionID string) Message {
	return Message{ID: uuid.NewString(), Role: role, Text: text, QuestionID: questionID}
}

// next asks the oracle and rejects structurally invalid questions.
func (e *Engine) next(ctx context.Context, answers models.Answers) (oracle.Response, error) {
	resp, err := e.oracle.Next(ctx, answers)
	if err != nil {
		return oracle.Response{}, err
	}
	if resp.Question != nil {
		if err := resp.Question.Check(); err != nil {
			return oracle.Response{}, errors.Malformed(err, "oracle returned an invalid question")
		}
	}
	return resp, nil
}

// advance returns s moved to the oracle's response.
func (e *Engine) advance(s Snapshot, resp oracle.Response) Snapshot {
	if resp.Done() {
		out := s.withMessage(e.message(RoleBot, ClosingText, ""))
		out.Current = nil
		out.Completed = true
		return out
	}
	out := s.withMessage(e.message(RoleBot, resp.Question.Label, resp.Question.ID))
	out.Current = resp.Question.Clone()
	out.Completed = false
	return out
}

func (e *Engine) fail(err error, msg string, fields ...zap.Field) {
	e.err = err
	fields = append(fields,
		zap.String(logging.FieldErrorKind, string(errors.KindOf(err))),
		zap.Error(err))
	e.logger.Warn(msg, fields...)
}

// Start fetches the description and the first question concurrently. A
// description failure is ignored; an oracle failure leaves the engine
// uninitialized and is returned. Start may be called again to retry. Once
// the engine is initialized Start does nothing; use Restart to begin again.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.busy || len(e.history) > 0 {
		e.mu.Unlock()
		return nil
	}
	e.busy = true
	e.err = nil
	e.mu.Unlock()

	var (
		desc    oracle.Description
		descErr error
		resp    oracle.Response
		err     error
		wg      conc.WaitGroup
	)
	if e.describer != nil {
		wg.Go(func() {
			desc, descErr = e.describer.Describe(ctx)
		})
	}
	wg.Go(func() {
		resp, err = e.next(ctx, models.Answers{})
	})
	wg.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.busy = false

	if e.describer != nil {
		if descErr != nil {
			e.logger.Debug("ignoring questionnaire description failure", zap.Error(descErr))
		} else {
			e.banner = desc.Meta
		}
	}

	if err != nil {
		e.live = Snapshot{}
		e.history = nil
		e.fail(err, "failed to start interview")
		return err
	}

	first := e.advance(Snapshot{Answers: models.Answers{}}, resp)
	e.live = first
	e.history = []Snapshot{first.Clone()}
	e.logger.Debug("interview started", zap.String(logging.FieldState, string(e.stateLocked())))
	return nil
}

// Submit records value for the current question and asks the oracle for
// the next one. The user message, answer and ledger entry are visible while
// the call is in flight. On failure every change is rolled back and the
// typed error is returned and kept in Err. Submit is a no-op without a
// current question or while another call is in flight.
func (e *Engine) Submit(ctx context.Context, value models.Value, display string) error {
	e.mu.Lock()
	if e.busy || e.live.Current == nil {
		e.mu.Unlock()
		return nil
	}

	before := e.live
	q := *before.Current.Clone()
	tentative := before.withMessage(e.message(RoleUser, display, q.ID))
	tentative.Answers = before.Answers.With(q.ID, value)
	tentative.Ledger = before.Ledger.Record(q, value)

	e.live = tentative
	e.busy = true
	e.err = nil
	answers := tentative.Answers.Clone()
	e.mu.Unlock()

	resp, err := e.next(ctx, answers)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.busy = false

	if err != nil {
		e.live = before
		e.fail(err, "submission rolled back", zap.String(logging.FieldQuestionID, q.ID))
		return err
	}

	after := e.advance(tentative, resp)
	e.live = after
	e.history = append(e.history, after.Clone())
	e.logger.Debug("answer accepted",
		zap.String(logging.FieldQuestionID, q.ID),
		zap.Int(logging.FieldHistory, len(e.history)),
		zap.String(logging.FieldState, string(e.stateLocked())))
	return nil
}

// Skip submits an explicit null for the current question. Required
// questions cannot be skipped.
func (e *Engine) Skip(ctx context.Context) error {
	e.mu.Lock()
	current, busy := e.live.Current.Clone(), e.busy
	e.mu.Unlock()

	if busy || current == nil {
		return nil
	}
	if current.Required {
		return errors.Invalid(current.ID, "Cette question est obligatoire.")
	}
	return e.Submit(ctx, models.Null(), e.validator.SkipText())
}

// Answer validates raw input against the current question, then submits or
// skips. Validation failures never touch the engine state.
func (e *Engine) Answer(ctx context.Context, in validate.Input) error {
	e.mu.Lock()
	current, busy := e.live.Current.Clone(), e.busy
	e.mu.Unlock()

	if busy || current == nil {
		return nil
	}
	sub, err := e.validator.Check(*current, in)
	if err != nil {
		return err
	}
	return e.Submit(ctx, sub.Value, sub.Display)
}

// GoBack restores the previous snapshot without contacting the oracle. It
// returns false when there is nothing to undo or a call is in flight.
func (e *Engine) GoBack() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.busy || len(e.history) <= 1 {
		return false
	}
	e.history = e.history[:len(e.history)-1]
	e.live = e.history[len(e.history)-1].Clone()
	e.err = nil
	e.logger.Debug("went back", zap.Int(logging.FieldHistory, len(e.history)))
	return true
}

// Restart drops all history and starts over. It is a no-op while a call is
// in flight.
func (e *Engine) Restart(ctx context.Context) error {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return nil
	}
	e.live = Snapshot{}
	e.history = nil
	e.err = nil
	e.mu.Unlock()

	return e.Start(ctx)
}

func (e *Engine) stateLocked() State {
	switch {
	case e.busy:
		return StateSubmitting
	case len(e.history) == 0:
		return StateUninitialized
	case e.err != nil:
		return StateError
	case e.live.Completed:
		return StateCompleted
	default:
		return StateAwaiting
	}
}

// State returns the lifecycle state. StateError means the last operation
// failed; the interview position is unchanged and the operation can be
// retried. An engine whose Start failed stays StateUninitialized, with the
// failure available from Err.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// Initialized reports whether Start has succeeded.
func (e *Engine) Initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.history) > 0
}

// Messages returns a copy of the transcript, including a tentative user
// message while a submission is in flight.
func (e *Engine) Messages() []Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live.Clone().Messages
}

// Current returns a copy of the question awaiting an answer, or nil.
func (e *Engine) Current() *models.Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live.Current.Clone()
}

// Completed reports whether the oracle ended the interview.
func (e *Engine) Completed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live.Completed
}

// Err returns the error of the last failed operation, or nil.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Banner returns the questionnaire title and description, empty when the
// description could not be fetched.
func (e *Engine) Banner() oracle.Meta {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.banner
}

// Answers returns a copy of the answer set.
func (e *Engine) Answers() models.Answers {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live.Answers.Clone()
}

// Ledger returns a copy of the answered-entries ledger.
func (e *Engine) Ledger() models.Ledger {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live.Ledger.Clone()
}

// Snapshot returns a copy of the live state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live.Clone()
}

// History returns copies of the snapshots on the history stack, oldest
// first.
func (e *Engine) History() []Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Snapshot, len(e.history))
	for i, s := range e.history {
		out[i] = s.Clone()
	}
	return out
}

// Summary projects the ledger with age annotations relative to the engine
// clock.
func (e *Engine) Summary() string {
	e.mu.Lock()
	ledger := e.live.Ledger.Clone()
	e.mu.Unlock()
	return summary.Project(ledger, summary.Options{Now: e.now()})
}
