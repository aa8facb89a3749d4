package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"applybot/core/telegram/keyboard"
	"applybot/internal/form"

	tele "gopkg.in/telebot.v4"
)

var errBotNotReady = errors.New("app: bot not started yet")

// mainMenu builds the persistent reply keyboard offered with the greeting
// and with the submission confirmation.
func mainMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{BtnApply},
		[]string{BtnAbout, BtnFAQ},
		[]string{BtnContacts},
	)
}

// operatorNotifier sends submission notifications to the operator chat.
// The bot handle is injected on start because the transport is built after
// the flow is wired.
type operatorNotifier struct {
	adminID int64
	bot     atomic.Pointer[tele.Bot]
}

func (n *operatorNotifier) setBot(b *tele.Bot) {
	n.bot.Store(b)
}

func (n *operatorNotifier) NotifySubmission(_ context.Context, sub form.Submission) error {
	b := n.bot.Load()
	if b == nil {
		return errBotNotReady
	}
	markup := keyboard.URLButtons([]keyboard.URLBtn{
		{Text: textDMButton, URL: sub.Applicant.DMLink()},
	})
	_, err := b.Send(
		&tele.User{ID: n.adminID},
		sub.OperatorText(),
		&tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: markup},
	)
	return err
}

func (n *operatorNotifier) NotifyStoreFailure(_ context.Context, cause error) error {
	b := n.bot.Load()
	if b == nil {
		return errBotNotReady
	}
	_, err := b.Send(&tele.User{ID: n.adminID}, fmt.Sprintf(textStoreFailureNotice, cause))
	return err
}

// respondentConfirmer delivers the rich confirmation with the group invite
// link and the re-offered main menu.
type respondentConfirmer struct {
	groupInviteURL string
	bot            atomic.Pointer[tele.Bot]
}

func (c *respondentConfirmer) setBot(b *tele.Bot) {
	c.bot.Store(b)
}

func (c *respondentConfirmer) ConfirmSubmission(_ context.Context, a form.Applicant) error {
	b := c.bot.Load()
	if b == nil {
		return errBotNotReady
	}
	_, err := b.Send(
		&tele.User{ID: a.ID},
		fmt.Sprintf(textConfirmation, c.groupInviteURL),
		&tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: mainMenu()},
	)
	return err
}
