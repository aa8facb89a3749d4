// Package broadcast lets the operator push a message to respondents, either
// to everyone who ever submitted the form or to an explicit id list.
package broadcast

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"applybot/core/logger"
	"applybot/core/telegram/state"
	"applybot/internal/store"
	"log/slog"
)

// Broadcast steps. They share the session manager with the form flow, so a
// user can be in at most one of the two conversations.
const (
	StepAwaitingPayloadAll state.State = "awaiting_broadcast_all"
	StepAwaitingRecipients state.State = "awaiting_recipient_ids"
	StepAwaitingPayload    state.State = "awaiting_broadcast_specific"
)

const recipientsKey = "recipient_ids"

var digitRuns = regexp.MustCompile(`\d+`)

// IsBroadcastStep reports whether st belongs to a broadcast conversation.
func IsBroadcastStep(st state.State) bool {
	switch st {
	case StepAwaitingPayloadAll, StepAwaitingRecipients, StepAwaitingPayload:
		return true
	}
	return false
}

// ExtractIDs pulls every maximal decimal digit run out of free-form text.
// Duplicates are kept; the operator's list is taken verbatim.
func ExtractIDs(text string) []int64 {
	runs := digitRuns.FindAllString(text, -1)
	ids := make([]int64, 0, len(runs))
	for _, run := range runs {
		id, err := strconv.ParseInt(run, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Controller owns the broadcast conversation state for the operator.
type Controller struct {
	sessions state.Manager
	store    store.Store
}

// NewController wires the controller over the shared session manager and
// the respondent store.
func NewController(sessions state.Manager, st store.Store) *Controller {
	return &Controller{sessions: sessions, store: st}
}

// BeginAll arms the broadcast-to-everyone conversation.
func (c *Controller) BeginAll(userID int64) {
	c.sessions.Clear(userID)
	c.sessions.SetState(userID, StepAwaitingPayloadAll)
}

// BeginSpecific arms the targeted broadcast conversation.
func (c *Controller) BeginSpecific(userID int64) {
	c.sessions.Clear(userID)
	c.sessions.SetState(userID, StepAwaitingRecipients)
}

// Step returns the operator's current broadcast step.
func (c *Controller) Step(userID int64) state.State {
	return c.sessions.State(userID)
}

// Finish drops the conversation back to idle.
func (c *Controller) Finish(userID int64) {
	c.sessions.Clear(userID)
}

// AcceptRecipients parses the operator's id list message. When at least one
// id is found the conversation advances to the payload step and true is
// returned; otherwise the step is left unchanged so the operator can retry.
func (c *Controller) AcceptRecipients(userID int64, text string) ([]int64, bool) {
	ids := ExtractIDs(text)
	if len(ids) == 0 {
		return nil, false
	}
	c.sessions.SetValue(userID, recipientsKey, encodeIDs(ids))
	c.sessions.SetState(userID, StepAwaitingPayload)
	return ids, true
}

// StoredRecipients returns the id list accepted earlier in the conversation.
func (c *Controller) StoredRecipients(userID int64) []int64 {
	raw, ok := c.sessions.Value(userID, recipientsKey)
	if !ok {
		return nil
	}
	return decodeIDs(raw)
}

// AllRecipients reads the id column from the respondent store, drops the
// header cell, and deduplicates by exact value keeping first-seen order.
func (c *Controller) AllRecipients(ctx context.Context) ([]int64, error) {
	column, err := c.store.ReadColumn(ctx, store.ColumnTelegramID)
	if err != nil {
		return nil, err
	}
	if len(column) > 0 {
		column = column[1:]
	}

	seen := make(map[string]struct{}, len(column))
	ids := make([]int64, 0, len(column))
	for _, cell := range column {
		if _, dup := seen[cell]; dup {
			continue
		}
		seen[cell] = struct{}{}
		id, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
		if err != nil {
			logger.Debug(ctx, "broadcast", "recipients.skip",
				slog.String("payload", logger.SanitizeLimit(cell, 32)),
			)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func encodeIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, " ")
}

func decodeIDs(raw string) []int64 {
	if raw == "" {
		return nil
	}
	parts := strings.Fields(raw)
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
