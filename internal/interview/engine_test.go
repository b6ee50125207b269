package interview

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pders01/interview/internal/errors"
	"github.com/pders01/interview/internal/models"
	"github.com/pders01/interview/internal/oracle"
	"github.com/pders01/interview/internal/testutil"
	"github.com/pders01/interview/internal/validate"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var snapshotOpts = cmp.Options{
	cmp.Comparer(models.Value.Equal),
	cmpopts.EquateEmpty(),
}

func questions() []models.Question {
	return []models.Question{
		testutil.InSection(testutil.Question("living-arrangement", models.TypeSelect, "Situation familiale", "Seul(e)", "En couple"), "foyer", "Votre foyer"),
		testutil.InSection(testutil.Optional(testutil.Question("nickname", models.TypeText, "Surnom")), "foyer", "Votre foyer"),
		testutil.InSection(testutil.Question("rent", models.TypeNumber, "Loyer"), "logement", "Votre logement"),
	}
}

func started(t *testing.T, opts ...Option) (*Engine, *testutil.FakeOracle) {
	t.Helper()
	fake := testutil.NewFakeOracle(questions()...)
	e := New(fake, opts...)
	require.NoError(t, e.Start(context.Background()))
	return e, fake
}

func TestStart(t *testing.T) {
	meta := oracle.Meta{Title: "Simulation des aides", Description: "Quelques questions"}
	e, fake := started(t, WithDescriber(testutil.FakeDescriber{Description: oracle.Description{Meta: meta}}))

	assert.Equal(t, StateAwaiting, e.State())
	assert.True(t, e.Initialized())
	assert.Equal(t, meta, e.Banner())
	require.NotNil(t, e.Current())
	assert.Equal(t, "living-arrangement", e.Current().ID)

	msgs := e.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleBot, msgs[0].Role)
	assert.Equal(t, "Situation familiale", msgs[0].Text)
	assert.NotEmpty(t, msgs[0].ID)

	assert.Len(t, e.History(), 1)
	require.Len(t, fake.Calls(), 1)
	assert.Empty(t, fake.Calls()[0])
}

func TestStartIgnoresDescriptionFailure(t *testing.T) {
	e, _ := started(t, WithDescriber(testutil.FakeDescriber{Err: errors.New("boom")}))

	assert.Equal(t, StateAwaiting, e.State())
	assert.Equal(t, oracle.Meta{}, e.Banner())
	assert.NoError(t, e.Err())
}

func TestStartFailureCanBeRetried(t *testing.T) {
	fake := testutil.NewFakeOracle(questions()...)
	fake.FailNext(errors.Transport(errors.New("connection refused"), "failed to reach oracle"))
	e := New(fake)

	err := e.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.KindTransport, errors.KindOf(e.Err()))
	assert.False(t, e.Initialized())
	assert.Equal(t, StateUninitialized, e.State())
	assert.Nil(t, e.Current())
	assert.Empty(t, e.History())

	require.NoError(t, e.Start(context.Background()))
	assert.NoError(t, e.Err())
	assert.Equal(t, StateAwaiting, e.State())
}

func TestStartKeepsExistingInterview(t *testing.T) {
	e, fake := started(t)
	ctx := context.Background()
	require.NoError(t, e.Submit(ctx, models.String("En couple"), "En couple"))
	before := e.Snapshot()

	fake.FailNext(errors.Transport(errors.New("connection refused"), "failed to reach oracle"))
	require.NoError(t, e.Start(ctx))

	assert.True(t, e.Initialized())
	assert.Len(t, e.History(), 2)
	assert.Len(t, fake.Calls(), 2)
	if diff := cmp.Diff(before, e.Snapshot(), snapshotOpts); diff != "" {
		t.Errorf("state changed (-before +after):\n%s", diff)
	}
}

func TestSubmitToCompletion(t *testing.T) {
	now := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)
	e, fake := started(t, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, e.Submit(ctx, models.String("En couple"), "En couple"))
	assert.Equal(t, "nickname", e.Current().ID)

	require.NoError(t, e.Skip(ctx))
	assert.Equal(t, "rent", e.Current().ID)

	require.NoError(t, e.Submit(ctx, models.Number(650.5), "650,5"))
	assert.True(t, e.Completed())
	assert.Nil(t, e.Current())
	assert.Equal(t, StateCompleted, e.State())

	var roles []Role
	var texts []string
	for _, m := range e.Messages() {
		roles = append(roles, m.Role)
		texts = append(texts, m.Text)
	}
	assert.Equal(t, []Role{RoleBot, RoleUser, RoleBot, RoleUser, RoleBot, RoleUser, RoleBot}, roles)
	assert.Equal(t, validate.DefaultSkipText, texts[3])
	assert.Equal(t, ClosingText, texts[6])

	calls := fake.Calls()
	require.Len(t, calls, 4)
	skipped, ok := calls[2].Get("nickname")
	require.True(t, ok)
	assert.True(t, skipped.IsNull())

	assert.Len(t, e.History(), 4)
	assert.Equal(t, "Votre foyer\n- Situation familiale: En couple\nVotre logement\n- Loyer: 650,5", e.Summary())

	// No current question: further submissions are ignored.
	require.NoError(t, e.Submit(ctx, models.String("x"), "x"))
	assert.Len(t, fake.Calls(), 4)
}

func TestSubmitFailureRollsBack(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind errors.Kind
	}{
		{name: "transport", err: errors.Transport(errors.New("503"), "failed to call oracle"), kind: errors.KindTransport},
		{name: "malformed", err: errors.Malformed(errors.New("bad json"), "failed to decode"), kind: errors.KindMalformed},
		{name: "cancelled", err: errors.Cancelled(context.Canceled, "aborted"), kind: errors.KindCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, fake := started(t)
			ctx := context.Background()
			require.NoError(t, e.Submit(ctx, models.String("Seul(e)"), "Seul(e)"))

			before := e.Snapshot()
			history := e.History()

			fake.FailNext(tt.err)
			err := e.Submit(ctx, models.String("Bob"), "Bob")
			require.Error(t, err)
			assert.Equal(t, tt.kind, errors.KindOf(err))
			assert.Equal(t, tt.kind, errors.KindOf(e.Err()))
			assert.Equal(t, StateError, e.State())

			if diff := cmp.Diff(before, e.Snapshot(), snapshotOpts); diff != "" {
				t.Errorf("live state changed after failed submit (-before +after):\n%s", diff)
			}
			if diff := cmp.Diff(history, e.History(), snapshotOpts); diff != "" {
				t.Errorf("history changed after failed submit (-before +after):\n%s", diff)
			}

			require.NoError(t, e.Submit(ctx, models.String("Bob"), "Bob"))
			assert.NoError(t, e.Err())
			assert.Equal(t, "rent", e.Current().ID)
		})
	}
}

func TestSubmitRejectsInvalidOracleQuestion(t *testing.T) {
	bad := testutil.Question("broken", models.TypeSelect, "Sans options")
	fake := testutil.NewFakeOracle(questions()[0], bad)
	e := New(fake)
	require.NoError(t, e.Start(context.Background()))

	before := e.Snapshot()
	err := e.Submit(context.Background(), models.String("Seul(e)"), "Seul(e)")
	assert.Equal(t, errors.KindMalformed, errors.KindOf(err))
	if diff := cmp.Diff(before, e.Snapshot(), snapshotOpts); diff != "" {
		t.Errorf("state changed (-before +after):\n%s", diff)
	}
}

func TestGoBack(t *testing.T) {
	e, fake := started(t)
	ctx := context.Background()

	assert.False(t, e.GoBack(), "nothing to undo after start")

	require.NoError(t, e.Submit(ctx, models.String("Seul(e)"), "Seul(e)"))
	firstSubmit := e.Snapshot()
	require.NoError(t, e.Submit(ctx, models.String("Bob"), "Bob"))
	calls := len(fake.Calls())

	require.True(t, e.GoBack())
	if diff := cmp.Diff(firstSubmit, e.Snapshot(), snapshotOpts); diff != "" {
		t.Errorf("expected first-submit snapshot (-want +got):\n%s", diff)
	}
	assert.Len(t, e.History(), 2)

	require.True(t, e.GoBack())
	assert.Equal(t, "living-arrangement", e.Current().ID)
	assert.Empty(t, e.Answers())
	assert.Empty(t, e.Ledger())

	assert.False(t, e.GoBack(), "history of one is a no-op")
	assert.Len(t, e.History(), 1)
	assert.Equal(t, calls, len(fake.Calls()), "undo never calls the oracle")
}

func TestGoBackClearsError(t *testing.T) {
	e, fake := started(t)
	ctx := context.Background()
	require.NoError(t, e.Submit(ctx, models.String("Seul(e)"), "Seul(e)"))

	fake.FailNext(errors.Transport(errors.New("down"), "failed to call oracle"))
	require.Error(t, e.Submit(ctx, models.String("Bob"), "Bob"))

	require.True(t, e.GoBack())
	assert.NoError(t, e.Err())
	assert.Equal(t, StateAwaiting, e.State())
}

func TestReansweringMovesLedgerEntry(t *testing.T) {
	e, _ := started(t)
	ctx := context.Background()

	require.NoError(t, e.Submit(ctx, models.String("Seul(e)"), "Seul(e)"))
	require.NoError(t, e.Submit(ctx, models.String("Bob"), "Bob"))
	require.True(t, e.GoBack())
	require.True(t, e.GoBack())
	require.NoError(t, e.Submit(ctx, models.String("En couple"), "En couple"))

	ledger := e.Ledger()
	require.Len(t, ledger, 1)
	assert.Equal(t, "En couple", ledger[0].Answer.Str())
}

func TestOperationsIgnoredWhileSubmitting(t *testing.T) {
	e, fake := started(t)
	ctx := context.Background()
	require.NoError(t, e.Submit(ctx, models.String("Seul(e)"), "Seul(e)"))

	fake.Block()
	done := make(chan error, 1)
	go func() {
		done <- e.Submit(ctx, models.String("Bob"), "Bob")
	}()
	<-fake.Entered()

	assert.Equal(t, StateSubmitting, e.State())
	msgs := e.Messages()
	assert.Equal(t, "Bob", msgs[len(msgs)-1].Text, "tentative user message is visible")
	v, ok := e.Answers().Get("nickname")
	assert.True(t, ok)
	assert.Equal(t, "Bob", v.Str())

	calls := len(fake.Calls())
	assert.False(t, e.GoBack())
	assert.NoError(t, e.Skip(ctx))
	assert.NoError(t, e.Submit(ctx, models.String("Alice"), "Alice"))
	assert.NoError(t, e.Answer(ctx, validate.Input{Text: "Alice"}))
	assert.NoError(t, e.Restart(ctx))
	assert.Equal(t, calls, len(fake.Calls()), "no oracle call while busy")

	fake.Release()
	require.NoError(t, <-done)
	assert.Equal(t, StateAwaiting, e.State())
	assert.Equal(t, "rent", e.Current().ID)
	assert.Len(t, e.History(), 3)
}

func TestCancelledSubmitRollsBack(t *testing.T) {
	e, fake := started(t)
	require.NoError(t, e.Submit(context.Background(), models.String("Seul(e)"), "Seul(e)"))
	before := e.Snapshot()

	fake.Block()
	defer fake.Release()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- e.Submit(ctx, models.String("Bob"), "Bob")
	}()
	<-fake.Entered()
	cancel()

	err := <-done
	assert.Equal(t, errors.KindCancelled, errors.KindOf(err))
	assert.True(t, errors.Is(err, errors.ErrTransport))
	if diff := cmp.Diff(before, e.Snapshot(), snapshotOpts); diff != "" {
		t.Errorf("state changed after cancellation (-before +after):\n%s", diff)
	}
}

func TestSkipRequiredQuestion(t *testing.T) {
	e, fake := started(t)

	err := e.Skip(context.Background())
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.Len(t, fake.Calls(), 1)
	assert.Len(t, e.Messages(), 1)
}

func TestSkipWithCustomText(t *testing.T) {
	e, _ := started(t, WithSkipText("Passer"))
	ctx := context.Background()
	require.NoError(t, e.Submit(ctx, models.String("Seul(e)"), "Seul(e)"))
	require.NoError(t, e.Skip(ctx))

	msgs := e.Messages()
	assert.Equal(t, "Passer", msgs[len(msgs)-2].Text)
}

func TestAnswerValidatesBeforeSubmitting(t *testing.T) {
	e, fake := started(t)
	ctx := context.Background()

	err := e.Answer(ctx, validate.Input{Choice: "Marié(e)"})
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.NoError(t, e.Err(), "validation errors are not engine errors")
	assert.Len(t, fake.Calls(), 1)

	require.NoError(t, e.Answer(ctx, validate.Input{Choice: "en couple"}))
	v, _ := e.Answers().Get("living-arrangement")
	assert.Equal(t, "En couple", v.Str())

	require.NoError(t, e.Answer(ctx, validate.Input{}), "optional text left empty is a skip")
	v, ok := e.Answers().Get("nickname")
	require.True(t, ok)
	assert.True(t, v.IsNull())

	err = e.Answer(ctx, validate.Input{Text: "beaucoup"})
	assert.True(t, errors.Is(err, errors.ErrValidation))
	require.NoError(t, e.Answer(ctx, validate.Input{Text: "650,5"}))
	assert.True(t, e.Completed())
}

func TestRestart(t *testing.T) {
	e, fake := started(t)
	ctx := context.Background()
	require.NoError(t, e.Submit(ctx, models.String("Seul(e)"), "Seul(e)"))

	require.NoError(t, e.Restart(ctx))
	assert.Len(t, e.History(), 1)
	assert.Empty(t, e.Answers())
	assert.Len(t, e.Messages(), 1)
	assert.Equal(t, "living-arrangement", e.Current().ID)

	calls := fake.Calls()
	assert.Empty(t, calls[len(calls)-1])
}

func TestHistoryIsIndependent(t *testing.T) {
	e, _ := started(t)
	require.NoError(t, e.Submit(context.Background(), models.String("Seul(e)"), "Seul(e)"))

	h := e.History()
	h[0].Messages[0].Text = "changed"
	h[1].Answers["living-arrangement"] = models.String("changed")

	again := e.History()
	assert.Equal(t, "Situation familiale", again[0].Messages[0].Text)
	assert.Equal(t, "Seul(e)", again[1].Answers["living-arrangement"].Str())
}

func TestHistoryTopMatchesLiveState(t *testing.T) {
	e, _ := started(t)
	ctx := context.Background()
	require.NoError(t, e.Submit(ctx, models.String("Seul(e)"), "Seul(e)"))
	require.NoError(t, e.Submit(ctx, models.String("Bob"), "Bob"))
	e.GoBack()

	h := e.History()
	if diff := cmp.Diff(h[len(h)-1], e.Snapshot(), snapshotOpts); diff != "" {
		t.Errorf("history top differs from live state (-top +live):\n%s", diff)
	}
}
