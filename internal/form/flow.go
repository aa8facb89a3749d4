// Package form implements the application questionnaire as a transport-free
// state machine. Handlers feed it message text and a reply callback; the
// flow owns session bookkeeping, validation, and the terminal side effects.
package form

import (
	"context"
	"time"

	"applybot/core/logger"
	"applybot/core/telegram/state"
	"applybot/internal/store"
	"log/slog"
)

const ageInvalidPrompt = "Вік має містити лише цифри. Спробуйте ще раз:"

// ReplyFunc delivers a message back to the applicant.
type ReplyFunc func(text string) error

// Notifier delivers operator-facing messages about submissions.
type Notifier interface {
	NotifySubmission(ctx context.Context, sub Submission) error
	NotifyStoreFailure(ctx context.Context, cause error) error
}

// Confirmer delivers the rich confirmation (group link plus main menu) to
// the applicant. The flow falls back to a plain acknowledgment when it fails.
type Confirmer interface {
	ConfirmSubmission(ctx context.Context, a Applicant) error
}

// Outcome reports the three terminal side effects independently. A nil
// field means the effect succeeded.
type Outcome struct {
	Store   error
	Notify  error
	Confirm error
}

// Flow drives a single applicant through the question chain.
type Flow struct {
	sessions state.Manager
	store    store.Store
	notify   Notifier
	confirm  Confirmer
	now      func() time.Time
}

// NewFlow wires the form over its collaborators. notify and confirm may be
// nil in tests that do not reach the terminal step.
func NewFlow(sessions state.Manager, st store.Store, notify Notifier, confirm Confirmer) *Flow {
	return &Flow{
		sessions: sessions,
		store:    st,
		notify:   notify,
		confirm:  confirm,
		now:      time.Now,
	}
}

// SetClock overrides the timestamp source, for tests.
func (f *Flow) SetClock(now func() time.Time) {
	if now != nil {
		f.now = now
	}
}

// Begin force-resets any previous session and asks the first question.
func (f *Flow) Begin(ctx context.Context, a Applicant, reply ReplyFunc) error {
	f.sessions.Clear(a.ID)
	f.sessions.SetState(a.ID, steps[0].step)
	logger.Debug(ctx, "form", "step.enter",
		slog.Int64("user_id", a.ID),
		slog.String("step", string(steps[0].step)),
	)
	return reply(steps[0].prompt)
}

// Reset drops the session back to idle without side effects.
func (f *Flow) Reset(userID int64) {
	f.sessions.Clear(userID)
}

// Step returns the current step for the user, idle when no form is active.
func (f *Flow) Step(userID int64) state.State {
	return f.sessions.State(userID)
}

// Handle consumes one message from an applicant with an active form session.
// It returns a non-nil Outcome only when this message completed the form.
func (f *Flow) Handle(ctx context.Context, a Applicant, text string, reply ReplyFunc) (*Outcome, error) {
	current := f.sessions.State(a.ID)
	idx := stepIndex(current)
	if idx < 0 {
		return nil, nil
	}
	def := steps[idx]

	if def.step == StepAge && !digitsOnly(text) {
		logger.Debug(ctx, "form", "step.retry",
			slog.Int64("user_id", a.ID),
			slog.String("step", string(def.step)),
		)
		return nil, reply(ageInvalidPrompt)
	}

	f.sessions.SetValue(a.ID, def.field, text)

	if idx+1 < len(steps) {
		next := steps[idx+1]
		f.sessions.SetState(a.ID, next.step)
		logger.Debug(ctx, "form", "step.advanced",
			slog.Int64("user_id", a.ID),
			slog.String("step", string(next.step)),
		)
		return nil, reply(next.prompt)
	}

	outcome := f.finish(ctx, a, reply)
	return outcome, nil
}

// finish runs the three terminal side effects in order and always resets
// the session to idle, whatever the effects returned.
func (f *Flow) finish(ctx context.Context, a Applicant, reply ReplyFunc) *Outcome {
	defer f.sessions.Clear(a.ID)

	answers := f.sessions.Values(a.ID)
	sub := Submission{
		Applicant:   a,
		SubmittedAt: f.now(),
		Name:        answers[FieldName],
		Age:         answers[FieldAge],
		City:        answers[FieldCity],
		Documents:   answers[FieldDocuments],
		Experience:  answers[FieldExperience],
		Phone:       answers[FieldPhone],
	}

	var out Outcome

	out.Store = f.store.Append(ctx, sub.Row())
	if out.Store != nil {
		logger.Error(ctx, "form", "submit.store_fail",
			slog.Int64("user_id", a.ID),
			slog.String("err", out.Store.Error()),
		)
		if f.notify != nil {
			if err := f.notify.NotifyStoreFailure(ctx, out.Store); err != nil {
				logger.Warn(ctx, "form", "submit.store_fail_notice_fail",
					slog.String("err", err.Error()),
				)
			}
		}
	}

	if f.notify != nil {
		out.Notify = f.notify.NotifySubmission(ctx, sub)
		if out.Notify != nil {
			logger.Error(ctx, "form", "submit.notify_fail",
				slog.Int64("user_id", a.ID),
				slog.String("err", out.Notify.Error()),
			)
		}
	}

	if f.confirm != nil {
		out.Confirm = f.confirm.ConfirmSubmission(ctx, a)
		if out.Confirm != nil {
			logger.Warn(ctx, "form", "submit.confirm_fallback",
				slog.Int64("user_id", a.ID),
				slog.String("err", out.Confirm.Error()),
			)
			_ = reply("✅ Дякуємо, вашу заявку отримано!")
		}
	}

	logger.Info(ctx, "form", "submit.done",
		slog.Int64("user_id", a.ID),
		slog.String("status", logger.Status(out.Store)),
	)
	return &out
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
