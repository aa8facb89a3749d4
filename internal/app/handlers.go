package app

import (
	"fmt"
	"time"

	"applybot/core/logger"
	tghelpers "applybot/core/telegram/helpers"
	"applybot/core/telegram/keyboard"
	"applybot/internal/broadcast"
	"applybot/internal/form"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

func applicantFrom(u *tele.User) form.Applicant {
	if u == nil {
		return form.Applicant{}
	}
	return form.Applicant{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func replyVia(c tele.Context) form.ReplyFunc {
	return func(text string) error {
		return tghelpers.SendText(c, text)
	}
}

// handleStart greets, force-resets any active conversation, and shows the
// main menu. It is the only way out of a half-filled form.
func (a *App) handleStart(c tele.Context) error {
	if u := c.Sender(); u != nil {
		a.flow.Reset(u.ID)
	}
	return tghelpers.SendText(c, textGreeting, &tele.SendOptions{ReplyMarkup: mainMenu()})
}

func (a *App) handleApply(c tele.Context) error {
	u := c.Sender()
	if u == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	// The menu keyboard disappears with the first question; free-text
	// answers should not compete with menu buttons.
	return a.flow.Begin(ctx, applicantFrom(u), func(text string) error {
		return tghelpers.SendText(c, text, &tele.SendOptions{ReplyMarkup: keyboard.RemoveKeyboard()})
	})
}

func (a *App) handleAbout(c tele.Context) error {
	return tghelpers.SendMD(c, textAbout, mainMenu())
}

func (a *App) handleFAQ(c tele.Context) error {
	return tghelpers.SendMD(c, textFAQ, mainMenu())
}

func (a *App) handleContacts(c tele.Context) error {
	return tghelpers.SendMD(c, textContacts, mainMenu())
}

// handleMenuFallback answers any idle text that matched nothing.
func (a *App) handleMenuFallback(c tele.Context) error {
	return tghelpers.SendText(c, textGreeting, &tele.SendOptions{ReplyMarkup: mainMenu()})
}

func (a *App) handleBroadcastAll(c tele.Context) error {
	u := c.Sender()
	if u == nil {
		return nil
	}
	a.bcast.BeginAll(u.ID)
	return tghelpers.SendText(c, textBroadcastAllPrompt, &tele.SendOptions{ReplyMarkup: keyboard.RemoveKeyboard()})
}

func (a *App) handleBroadcastSpecific(c tele.Context) error {
	u := c.Sender()
	if u == nil {
		return nil
	}
	a.bcast.BeginSpecific(u.ID)
	return tghelpers.SendText(c, textBroadcastIDsPrompt, &tele.SendOptions{ReplyMarkup: keyboard.RemoveKeyboard()})
}

// flowDispatcher routes in-conversation messages to the form or broadcast
// handler based on the session step. This is the single dispatch table for
// all stateful messages.
type flowDispatcher struct{ app *App }

func (d flowDispatcher) InProgress(userID int64) bool {
	return d.app.sessions.InProgress(userID)
}

func (d flowDispatcher) Handle(c tele.Context) error {
	u := c.Sender()
	if u == nil {
		return nil
	}
	st := d.app.sessions.State(u.ID)
	switch {
	case form.IsFormStep(st):
		return d.app.handleFormMessage(c)
	case broadcast.IsBroadcastStep(st):
		return d.app.handleBroadcastMessage(c)
	default:
		// Unknown residue in the session store; drop it.
		d.app.sessions.Clear(u.ID)
		return nil
	}
}

func (a *App) handleFormMessage(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "form")
	_, err := a.flow.Handle(ctx, applicantFrom(c.Sender()), c.Text(), replyVia(c))
	return err
}

func (a *App) handleBroadcastMessage(c tele.Context) error {
	u := c.Sender()
	if u == nil || u.ID != a.cfg.Core.Telegram.AdminID {
		// Broadcast steps can only belong to the operator; anything else
		// is stale session data.
		if u != nil {
			a.bcast.Finish(u.ID)
		}
		return nil
	}

	ctx := tghelpers.WithHandler(c, "broadcast")
	switch a.bcast.Step(u.ID) {
	case broadcast.StepAwaitingPayloadAll:
		defer a.bcast.Finish(u.ID)
		ids, err := a.bcast.AllRecipients(ctx)
		if err != nil {
			logger.Error(ctx, "broadcast", "recipients.read_fail",
				slog.String("err", err.Error()),
			)
			return tghelpers.SendText(c, fmt.Sprintf(textBroadcastReadFail, err))
		}
		if len(ids) == 0 {
			return tghelpers.SendText(c, textBroadcastNoRecipients)
		}
		res := a.relay(c, ids)
		return tghelpers.SendText(c, fmt.Sprintf(textBroadcastSummary, res.Delivered, res.Failed))

	case broadcast.StepAwaitingRecipients:
		if _, ok := a.bcast.AcceptRecipients(u.ID, c.Text()); !ok {
			return tghelpers.SendText(c, textBroadcastIDsRetry)
		}
		return tghelpers.SendText(c, textBroadcastPayloadPrompt)

	case broadcast.StepAwaitingPayload:
		defer a.bcast.Finish(u.ID)
		ids := a.bcast.StoredRecipients(u.ID)
		if len(ids) == 0 {
			return tghelpers.SendText(c, textBroadcastNoRecipients)
		}
		res := a.relay(c, ids)
		return tghelpers.SendText(c, fmt.Sprintf(textBroadcastSummary, res.Delivered, res.Failed))
	}
	return nil
}

// relay copies the operator's payload message to every recipient, so any
// content type survives the trip.
func (a *App) relay(c tele.Context, ids []int64) broadcast.Result {
	ctx := tghelpers.BuildContext(c)
	pause := time.Duration(a.cfg.Broadcast.PauseMS) * time.Millisecond
	msg := c.Message()
	bot := c.Bot()
	return broadcast.Relay(ctx, ids, pause, func(id int64) error {
		_, err := bot.Copy(&tele.User{ID: id}, msg)
		return err
	})
}
