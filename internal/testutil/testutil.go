package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/pders01/interview/internal/errors"
	"github.com/pders01/interview/internal/models"
	"github.com/pders01/interview/internal/options"
	"github.com/pders01/interview/internal/oracle"
)

// Question builds a question definition for tests.
func Question(id string, typ models.QuestionType, label string, opts ...string) models.Question {
	q := models.Question{
		ID:       id,
		BaseID:   id,
		Type:     typ,
		Label:    label,
		Required: true,
	}
	if len(opts) > 0 {
		q.Options = options.FromLabels(opts...)
	}
	return q
}

// Optional returns q marked as not required.
func Optional(q models.Question) models.Question {
	q.Required = false
	return q
}

// InSection returns q placed in a section.
func InSection(q models.Question, id, title string) models.Question {
	q.Section = &models.Section{ID: id, Title: title}
	return q
}

// nextUnanswered returns the first question without an answer.
func nextUnanswered(questions []models.Question, answers models.Answers) *models.Question {
	for i := range questions {
		if _, ok := answers[questions[i].ID]; !ok {
			return questions[i].Clone()
		}
	}
	return nil
}

// FakeOracle serves a fixed question list in order: the next question is
// the first one without an answer. Failures and blocking can be injected.
type FakeOracle struct {
	mu        sync.Mutex
	questions []models.Question
	calls     []models.Answers
	failNext  []error
	gate      chan struct{}
	entered   chan struct{}
}

// NewFakeOracle returns an oracle serving questions in order.
func NewFakeOracle(questions ...models.Question) *FakeOracle {
	return &FakeOracle{questions: questions}
}

// FailNext makes the next call return err. Calls queue up in order.
func (f *FakeOracle) FailNext(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext = append(f.failNext, err)
}

// Block makes subsequent calls wait until Release. Entered receives once
// per call that reached the gate.
func (f *FakeOracle) Block() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
	f.entered = make(chan struct{}, 16)
}

// Entered is signalled when a blocked call is waiting.
func (f *FakeOracle) Entered() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entered
}

// Release unblocks waiting calls and stops blocking.
func (f *FakeOracle) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gate != nil {
		close(f.gate)
		f.gate = nil
	}
}

// Calls returns copies of the answer sets the oracle received.
func (f *FakeOracle) Calls() []models.Answers {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Answers, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.Clone()
	}
	return out
}

// Next implements the oracle contract.
func (f *FakeOracle) Next(ctx context.Context, answers models.Answers) (oracle.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, answers.Clone())
	gate, entered := f.gate, f.entered
	var failure error
	if len(f.failNext) > 0 {
		failure = f.failNext[0]
		f.failNext = f.failNext[1:]
	}
	f.mu.Unlock()

	if gate != nil {
		entered <- struct{}{}
		select {
		case <-gate:
		case <-ctx.Done():
			return oracle.Response{}, errors.Cancelled(ctx.Err(), "fake oracle cancelled")
		}
	}

	if failure != nil {
		return oracle.Response{}, failure
	}

	q := nextUnanswered(f.questions, answers)
	return oracle.Response{Question: q, Completed: q == nil}, nil
}

// FakeDescriber returns a fixed description or error.
type FakeDescriber struct {
	Description oracle.Description
	Err         error
}

// Describe implements the describer contract.
func (d FakeDescriber) Describe(ctx context.Context) (oracle.Description, error) {
	if d.Err != nil {
		return oracle.Description{}, d.Err
	}
	return d.Description, nil
}

// OracleServer is an httptest server speaking the oracle wire format.
type OracleServer struct {
	*httptest.Server
	T *testing.T

	mu          sync.Mutex
	questions   []models.Question
	requests    []models.Answers
	status      int
	rawBody     string
	description oracle.Description
}

// NewOracleServer starts a server serving questions in order.
func NewOracleServer(t *testing.T, questions ...models.Question) *OracleServer {
	t.Helper()

	s := &OracleServer{T: t, questions: questions}
	mux := http.NewServeMux()
	mux.HandleFunc(oracle.DefaultNextPath, s.handleNext)
	mux.HandleFunc(oracle.DefaultQuestionnairePath, s.handleQuestionnaire)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	s.Server = httptest.NewServer(mux)
	return s
}

// Cleanup stops the server
func (s *OracleServer) Cleanup() {
	s.T.Helper()
	s.Server.Close()
}

// FailWith makes every request answer with status.
func (s *OracleServer) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// RespondRaw makes every next-question request answer with body verbatim.
func (s *OracleServer) RespondRaw(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawBody = body
}

// SetDescription sets the questionnaire description served.
func (s *OracleServer) SetDescription(d oracle.Description) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.description = d
}

// Requests returns the answer sets received so far.
func (s *OracleServer) Requests() []models.Answers {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Answers, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *OracleServer) handleNext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Answers models.Answers `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, req.Answers)
	status, raw := s.status, s.rawBody
	s.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if raw != "" {
		w.Write([]byte(raw))
		return
	}

	q := nextUnanswered(s.questions, req.Answers)
	json.NewEncoder(w).Encode(oracle.Response{Question: q, Completed: q == nil})
}

func (s *OracleServer) handleQuestionnaire(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status, desc := s.status, s.description
	s.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(desc)
}
