package form

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applybot/core/telegram/state"
	"applybot/internal/store"
)

type fakeStore struct {
	rows [][]string
	err  error
}

func (f *fakeStore) Append(_ context.Context, row []string) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeStore) ReadColumn(context.Context, int) ([]string, error) {
	return nil, nil
}

type fakeNotifier struct {
	subs          []Submission
	storeFailures []error
	err           error
}

func (f *fakeNotifier) NotifySubmission(_ context.Context, sub Submission) error {
	if f.err != nil {
		return f.err
	}
	f.subs = append(f.subs, sub)
	return nil
}

func (f *fakeNotifier) NotifyStoreFailure(_ context.Context, cause error) error {
	f.storeFailures = append(f.storeFailures, cause)
	return nil
}

type fakeConfirmer struct {
	confirmed []Applicant
	err       error
}

func (f *fakeConfirmer) ConfirmSubmission(_ context.Context, a Applicant) error {
	if f.err != nil {
		return f.err
	}
	f.confirmed = append(f.confirmed, a)
	return nil
}

type replyRecorder struct {
	texts []string
}

func (r *replyRecorder) reply(text string) error {
	r.texts = append(r.texts, text)
	return nil
}

func newTestFlow(st store.Store, n Notifier, c Confirmer) (*Flow, state.Manager) {
	sessions := state.NewMemoryManager()
	f := NewFlow(sessions, st, n, c)
	f.SetClock(func() time.Time {
		return time.Date(2025, 3, 14, 12, 30, 0, 0, time.UTC)
	})
	return f, sessions
}

func answerAll(t *testing.T, f *Flow, a Applicant, r *replyRecorder, answers []string) *Outcome {
	t.Helper()
	var out *Outcome
	for _, ans := range answers {
		var err error
		out, err = f.Handle(context.Background(), a, ans, r.reply)
		require.NoError(t, err)
	}
	return out
}

func TestFlowHappyPath(t *testing.T) {
	st := &fakeStore{}
	nt := &fakeNotifier{}
	cf := &fakeConfirmer{}
	f, sessions := newTestFlow(st, nt, cf)

	a := Applicant{ID: 42, Username: "ivan", FirstName: "Іван", LastName: "Петренко"}
	r := &replyRecorder{}

	require.NoError(t, f.Begin(context.Background(), a, r.reply))
	require.Equal(t, StepName, sessions.State(a.ID))

	out := answerAll(t, f, a, r, []string{
		"Іван", "25", "Львів", "паспорт", "так, у банку", "+380501234567",
	})

	require.NotNil(t, out)
	assert.NoError(t, out.Store)
	assert.NoError(t, out.Notify)
	assert.NoError(t, out.Confirm)

	// All six prompts were asked, in order.
	require.Len(t, r.texts, 6)
	for i, s := range steps {
		assert.Equal(t, s.prompt, r.texts[i])
	}

	// Exactly one row persisted with all ten fields.
	require.Len(t, st.rows, 1)
	row := st.rows[0]
	require.Len(t, row, store.NumColumns)
	assert.Equal(t, "2025-03-14 12:30", row[0])
	assert.Equal(t, "Іван", row[1])
	assert.Equal(t, "25", row[2])
	assert.Equal(t, "Львів", row[3])
	assert.Equal(t, "паспорт", row[4])
	assert.Equal(t, "так, у банку", row[5])
	assert.Equal(t, "+380501234567", row[6])
	assert.Equal(t, "42", row[7])
	assert.Equal(t, "@ivan", row[8])
	assert.Equal(t, "Іван Петренко", row[9])

	// Operator was notified, applicant confirmed, session reset.
	require.Len(t, nt.subs, 1)
	require.Len(t, cf.confirmed, 1)
	assert.Equal(t, state.StateIdle, sessions.State(a.ID))
	assert.False(t, sessions.InProgress(a.ID))
}

func TestFlowAgeValidation(t *testing.T) {
	st := &fakeStore{}
	f, sessions := newTestFlow(st, &fakeNotifier{}, &fakeConfirmer{})

	a := Applicant{ID: 7}
	r := &replyRecorder{}
	require.NoError(t, f.Begin(context.Background(), a, r.reply))

	_, err := f.Handle(context.Background(), a, "Олена", r.reply)
	require.NoError(t, err)
	require.Equal(t, StepAge, sessions.State(a.ID))

	// Invalid answers re-prompt without advancing or storing, repeatedly.
	for _, bad := range []string{"двадцять", "25 років", "", "2.5"} {
		_, err := f.Handle(context.Background(), a, bad, r.reply)
		require.NoError(t, err)
		assert.Equal(t, StepAge, sessions.State(a.ID))
		_, stored := sessions.Value(a.ID, FieldAge)
		assert.False(t, stored)
		assert.Equal(t, ageInvalidPrompt, r.texts[len(r.texts)-1])
	}

	_, err = f.Handle(context.Background(), a, "25", r.reply)
	require.NoError(t, err)
	assert.Equal(t, StepCity, sessions.State(a.ID))
	age, ok := sessions.Value(a.ID, FieldAge)
	require.True(t, ok)
	assert.Equal(t, "25", age)
}

func TestFlowEmptyAnswersAccepted(t *testing.T) {
	st := &fakeStore{}
	f, _ := newTestFlow(st, &fakeNotifier{}, &fakeConfirmer{})

	a := Applicant{ID: 9}
	r := &replyRecorder{}
	require.NoError(t, f.Begin(context.Background(), a, r.reply))

	out := answerAll(t, f, a, r, []string{"", "30", "", "", "", ""})
	require.NotNil(t, out)
	require.Len(t, st.rows, 1)
	assert.Equal(t, "", st.rows[0][1])
	assert.Equal(t, "30", st.rows[0][2])
}

func TestFlowStoreFailureStillConfirms(t *testing.T) {
	boom := errors.New("sheet unavailable")
	st := &fakeStore{err: boom}
	nt := &fakeNotifier{}
	cf := &fakeConfirmer{}
	f, sessions := newTestFlow(st, nt, cf)

	a := Applicant{ID: 11}
	r := &replyRecorder{}
	require.NoError(t, f.Begin(context.Background(), a, r.reply))

	out := answerAll(t, f, a, r, []string{"a", "1", "b", "c", "d", "e"})
	require.NotNil(t, out)
	assert.ErrorIs(t, out.Store, boom)
	assert.NoError(t, out.Notify)
	assert.NoError(t, out.Confirm)

	// Operator got the failure notice and the submission, applicant was
	// still confirmed, session still reset.
	require.Len(t, nt.storeFailures, 1)
	assert.ErrorIs(t, nt.storeFailures[0], boom)
	assert.Len(t, nt.subs, 1)
	assert.Len(t, cf.confirmed, 1)
	assert.Equal(t, state.StateIdle, sessions.State(a.ID))
}

func TestFlowConfirmFallback(t *testing.T) {
	st := &fakeStore{}
	cf := &fakeConfirmer{err: errors.New("markdown rejected")}
	f, sessions := newTestFlow(st, &fakeNotifier{}, cf)

	a := Applicant{ID: 12}
	r := &replyRecorder{}
	require.NoError(t, f.Begin(context.Background(), a, r.reply))

	out := answerAll(t, f, a, r, []string{"a", "1", "b", "c", "d", "e"})
	require.NotNil(t, out)
	assert.Error(t, out.Confirm)

	// A plain-text acknowledgment replaced the rich confirmation.
	assert.Equal(t, "✅ Дякуємо, вашу заявку отримано!", r.texts[len(r.texts)-1])
	assert.Equal(t, state.StateIdle, sessions.State(a.ID))
}

func TestFlowBeginResetsPreviousAnswers(t *testing.T) {
	st := &fakeStore{}
	f, sessions := newTestFlow(st, &fakeNotifier{}, &fakeConfirmer{})

	a := Applicant{ID: 21}
	r := &replyRecorder{}
	require.NoError(t, f.Begin(context.Background(), a, r.reply))
	_, err := f.Handle(context.Background(), a, "Перший", r.reply)
	require.NoError(t, err)

	require.NoError(t, f.Begin(context.Background(), a, r.reply))
	assert.Equal(t, StepName, sessions.State(a.ID))
	_, stored := sessions.Value(a.ID, FieldName)
	assert.False(t, stored)
}

func TestFlowHandleIgnoresIdleUsers(t *testing.T) {
	f, _ := newTestFlow(&fakeStore{}, &fakeNotifier{}, &fakeConfirmer{})

	r := &replyRecorder{}
	out, err := f.Handle(context.Background(), Applicant{ID: 1}, "hello", r.reply)
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Empty(t, r.texts)
}

func TestSubmissionRow(t *testing.T) {
	sub := Submission{
		Applicant:   Applicant{ID: 5, FirstName: "Оля"},
		SubmittedAt: time.Date(2025, 1, 2, 8, 5, 0, 0, time.UTC),
		Name:        "Оля",
		Age:         "19",
	}
	row := sub.Row()
	require.Len(t, row, store.NumColumns)
	assert.Equal(t, "2025-01-02 08:05", row[0])
	assert.Equal(t, "немає", row[8])
	assert.Equal(t, "Оля", row[9])
}

func TestOperatorText(t *testing.T) {
	sub := Submission{
		Applicant:   Applicant{ID: 99, Username: "olha", FirstName: "Оля", LastName: "К"},
		SubmittedAt: time.Date(2025, 1, 2, 8, 5, 0, 0, time.UTC),
		Name:        "Оля",
		Age:         "19",
		City:        "Київ",
		Documents:   "ID-картка",
		Experience:  "ні",
		Phone:       "+380991112233",
	}
	text := sub.OperatorText()
	assert.Contains(t, text, "*Нова заявка!*")
	assert.Contains(t, text, "🕒 02.01.2025 08:05")
	assert.Contains(t, text, "*Місто:* Київ")
	assert.Contains(t, text, "ID: 99")
	assert.Contains(t, text, "Username: @olha")
	assert.Equal(t, "tg://user?id=99", sub.Applicant.DMLink())
}

func TestOperatorTextEscapesMarkdown(t *testing.T) {
	sub := Submission{
		Applicant:   Applicant{ID: 1, Username: "under_score"},
		SubmittedAt: time.Date(2025, 1, 2, 8, 5, 0, 0, time.UTC),
		Name:        "*bold* move",
	}
	text := sub.OperatorText()
	assert.Contains(t, text, `\*bold\* move`)
	assert.Contains(t, text, `@under\_score`)
}
