package broadcast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applybot/core/telegram/state"
)

type fakeStore struct {
	column []string
	err    error
}

func (f *fakeStore) Append(context.Context, []string) error { return nil }

func (f *fakeStore) ReadColumn(_ context.Context, index int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.column, nil
}

func TestExtractIDs(t *testing.T) {
	assert.Equal(t, []int64{111, 222, 111}, ExtractIDs("send to 111, 222 and 111 please"))
	assert.Equal(t, []int64{42}, ExtractIDs("42"))
	assert.Empty(t, ExtractIDs("no numbers here"))
	assert.Empty(t, ExtractIDs(""))
}

func TestAllRecipientsDedupsAndDropsHeader(t *testing.T) {
	st := &fakeStore{column: []string{"ID", "111", "222", "111", "333"}}
	c := NewController(state.NewMemoryManager(), st)

	ids, err := c.AllRecipients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{111, 222, 333}, ids)
}

func TestAllRecipientsEmptyStore(t *testing.T) {
	st := &fakeStore{column: []string{"ID"}}
	c := NewController(state.NewMemoryManager(), st)

	ids, err := c.AllRecipients(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestAllRecipientsStoreError(t *testing.T) {
	boom := errors.New("read failed")
	c := NewController(state.NewMemoryManager(), &fakeStore{err: boom})

	_, err := c.AllRecipients(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestAllRecipientsSkipsNonNumericCells(t *testing.T) {
	st := &fakeStore{column: []string{"ID", "111", "not-an-id", "222"}}
	c := NewController(state.NewMemoryManager(), st)

	ids, err := c.AllRecipients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{111, 222}, ids)
}

func TestTargetedConversation(t *testing.T) {
	sessions := state.NewMemoryManager()
	c := NewController(sessions, &fakeStore{})
	const admin int64 = 500

	c.BeginSpecific(admin)
	assert.Equal(t, StepAwaitingRecipients, c.Step(admin))

	// A message without ids leaves the step in place for a retry.
	ids, ok := c.AcceptRecipients(admin, "будь ласка всім")
	assert.False(t, ok)
	assert.Nil(t, ids)
	assert.Equal(t, StepAwaitingRecipients, c.Step(admin))

	// Duplicates in the operator list are preserved.
	ids, ok = c.AcceptRecipients(admin, "111 222 та ще раз 111")
	require.True(t, ok)
	assert.Equal(t, []int64{111, 222, 111}, ids)
	assert.Equal(t, StepAwaitingPayload, c.Step(admin))
	assert.Equal(t, []int64{111, 222, 111}, c.StoredRecipients(admin))

	c.Finish(admin)
	assert.Equal(t, state.StateIdle, c.Step(admin))
	assert.Nil(t, c.StoredRecipients(admin))
}

func TestBeginAllResetsPreviousConversation(t *testing.T) {
	sessions := state.NewMemoryManager()
	c := NewController(sessions, &fakeStore{})
	const admin int64 = 500

	c.BeginSpecific(admin)
	_, ok := c.AcceptRecipients(admin, "123")
	require.True(t, ok)

	c.BeginAll(admin)
	assert.Equal(t, StepAwaitingPayloadAll, c.Step(admin))
	assert.Nil(t, c.StoredRecipients(admin))
}

func TestIsBroadcastStep(t *testing.T) {
	assert.True(t, IsBroadcastStep(StepAwaitingPayloadAll))
	assert.True(t, IsBroadcastStep(StepAwaitingRecipients))
	assert.True(t, IsBroadcastStep(StepAwaitingPayload))
	assert.False(t, IsBroadcastStep(state.StateIdle))
	assert.False(t, IsBroadcastStep("awaiting_name"))
}

func TestRelayCountsAndContinuesPastFailures(t *testing.T) {
	var sent []int64
	res := Relay(context.Background(), []int64{1, 2, 3, 4}, time.Millisecond, func(id int64) error {
		sent = append(sent, id)
		if id == 2 {
			return errors.New("blocked")
		}
		return nil
	})

	assert.Equal(t, []int64{1, 2, 3, 4}, sent)
	assert.Equal(t, 3, res.Delivered)
	assert.Equal(t, 1, res.Failed)
}

func TestRelayEmpty(t *testing.T) {
	res := Relay(context.Background(), nil, time.Millisecond, func(int64) error {
		t.Fatal("send must not be called")
		return nil
	})
	assert.Zero(t, res.Delivered)
	assert.Zero(t, res.Failed)
}
