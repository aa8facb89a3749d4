package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	coreconfig "applybot/core/config"
	"applybot/core/telegram/state"
	"applybot/internal/broadcast"
	"applybot/internal/form"
)

// handlerTestContext fakes the tele.Context surface the handlers touch and
// records every outbound message together with its send options.
type handlerTestContext struct {
	tele.Context
	sender *tele.User
	text   string
	store  map[string]interface{}

	sent     []string
	sentOpts []*tele.SendOptions
}

func (c *handlerTestContext) Sender() *tele.User { return c.sender }

func (c *handlerTestContext) Chat() *tele.Chat { return nil }

func (c *handlerTestContext) Update() tele.Update { return tele.Update{} }

func (c *handlerTestContext) Message() *tele.Message { return &tele.Message{Text: c.text} }

func (c *handlerTestContext) Text() string { return c.text }

func (c *handlerTestContext) Get(key string) interface{} { return c.store[key] }

func (c *handlerTestContext) Set(key string, val interface{}) {
	if c.store == nil {
		c.store = map[string]interface{}{}
	}
	c.store[key] = val
}

func (c *handlerTestContext) Send(what interface{}, opts ...interface{}) error {
	if text, ok := what.(string); ok {
		c.sent = append(c.sent, text)
	}
	var so *tele.SendOptions
	for _, o := range opts {
		if v, ok := o.(*tele.SendOptions); ok {
			so = v
		}
	}
	c.sentOpts = append(c.sentOpts, so)
	return nil
}

type stubStore struct {
	column []string
	err    error
}

func (s stubStore) Append(ctx context.Context, row []string) error { return s.err }

func (s stubStore) ReadColumn(ctx context.Context, index int) ([]string, error) {
	return s.column, s.err
}

func newHandlerTestApp(st stubStore) *App {
	sessions := state.NewMemoryManager()
	return &App{
		cfg: &Config{
			Core: coreconfig.Config{
				Telegram: coreconfig.TelegramConfig{AdminID: 42},
			},
		},
		sessions: sessions,
		flow:     form.NewFlow(sessions, st, nil, nil),
		bcast:    broadcast.NewController(sessions, st),
	}
}

func TestBroadcastMessageIgnoresNonOperator(t *testing.T) {
	a := newHandlerTestApp(stubStore{column: []string{"ID", "111"}})
	// Stale broadcast step under a non-admin id must be dropped silently.
	a.sessions.SetState(7, broadcast.StepAwaitingPayloadAll)

	c := &handlerTestContext{sender: &tele.User{ID: 7}, text: "hi all"}
	require.NoError(t, a.handleBroadcastMessage(c))

	assert.Empty(t, c.sent, "non-operator must get no reply")
	assert.False(t, a.sessions.InProgress(7), "stale step must be cleared")
}

func TestBroadcastReadFailureTellsOperator(t *testing.T) {
	a := newHandlerTestApp(stubStore{err: errors.New("sheet unavailable")})
	a.sessions.SetState(42, broadcast.StepAwaitingPayloadAll)

	c := &handlerTestContext{sender: &tele.User{ID: 42}, text: "hi all"}
	require.NoError(t, a.handleBroadcastMessage(c))

	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0], "Не вдалося прочитати")
	assert.Contains(t, c.sent[0], "sheet unavailable")
	assert.False(t, a.sessions.InProgress(42))
}

func TestBroadcastEmptyStoreTellsOperator(t *testing.T) {
	a := newHandlerTestApp(stubStore{column: []string{"ID"}})
	a.sessions.SetState(42, broadcast.StepAwaitingPayloadAll)

	c := &handlerTestContext{sender: &tele.User{ID: 42}, text: "hi all"}
	require.NoError(t, a.handleBroadcastMessage(c))

	require.Len(t, c.sent, 1)
	assert.Equal(t, textBroadcastNoRecipients, c.sent[0])
	assert.False(t, a.sessions.InProgress(42))
}

func TestApplyHidesMenuKeyboard(t *testing.T) {
	a := newHandlerTestApp(stubStore{})

	c := &handlerTestContext{sender: &tele.User{ID: 7}}
	require.NoError(t, a.handleApply(c))

	require.Len(t, c.sentOpts, 1)
	require.NotNil(t, c.sentOpts[0])
	require.NotNil(t, c.sentOpts[0].ReplyMarkup)
	assert.True(t, c.sentOpts[0].ReplyMarkup.RemoveKeyboard)
	assert.True(t, a.sessions.InProgress(7))
}

func TestBroadcastPromptHidesMenuKeyboard(t *testing.T) {
	a := newHandlerTestApp(stubStore{})

	c := &handlerTestContext{sender: &tele.User{ID: 42}}
	require.NoError(t, a.handleBroadcastAll(c))

	require.Len(t, c.sentOpts, 1)
	require.NotNil(t, c.sentOpts[0])
	require.NotNil(t, c.sentOpts[0].ReplyMarkup)
	assert.True(t, c.sentOpts[0].ReplyMarkup.RemoveKeyboard)
	assert.Equal(t, broadcast.StepAwaitingPayloadAll, a.sessions.State(42))
}
