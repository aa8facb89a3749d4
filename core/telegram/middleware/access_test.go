package middleware

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

// accessTestContext fakes just the surface AdminOnlyMiddleware touches while
// recording outbound messages, so a reject must stay silent to pass.
type accessTestContext struct {
	tele.Context
	sender *tele.User
	sent   int
}

func (c *accessTestContext) Sender() *tele.User { return c.sender }

func (c *accessTestContext) Send(what interface{}, opts ...interface{}) error {
	c.sent++
	return nil
}

func TestAdminOnlyDropsOtherSenders(t *testing.T) {
	mw := AdminOnlyMiddleware(AdminOptions{AdminID: 42})
	called := false
	h := mw(func(c tele.Context) error {
		called = true
		return nil
	})

	c := &accessTestContext{sender: &tele.User{ID: 7}}
	if err := h(c); err != nil {
		t.Fatalf("reject returned error: %v", err)
	}
	if called {
		t.Fatal("handler ran for a non-admin sender")
	}
	if c.sent != 0 {
		t.Fatalf("rejected sender got %d replies, expected silence", c.sent)
	}
}

func TestAdminOnlyDropsNilSender(t *testing.T) {
	mw := AdminOnlyMiddleware(AdminOptions{AdminID: 42})
	called := false
	h := mw(func(c tele.Context) error {
		called = true
		return nil
	})

	c := &accessTestContext{}
	if err := h(c); err != nil {
		t.Fatalf("reject returned error: %v", err)
	}
	if called || c.sent != 0 {
		t.Fatal("sender-less update must be dropped silently")
	}
}

func TestAdminOnlyPassesAdmin(t *testing.T) {
	mw := AdminOnlyMiddleware(AdminOptions{AdminID: 42})
	called := false
	h := mw(func(c tele.Context) error {
		called = true
		return nil
	})

	if err := h(&accessTestContext{sender: &tele.User{ID: 42}}); err != nil {
		t.Fatalf("admin call failed: %v", err)
	}
	if !called {
		t.Fatal("handler did not run for the admin")
	}
}

func TestAdminOnlyRunsOnReject(t *testing.T) {
	rejected := false
	mw := AdminOnlyMiddleware(AdminOptions{
		AdminID:  42,
		OnReject: func(c tele.Context) error { rejected = true; return nil },
	})
	h := mw(func(c tele.Context) error {
		t.Fatal("handler must not run on reject")
		return nil
	})

	if err := h(&accessTestContext{sender: &tele.User{ID: 7}}); err != nil {
		t.Fatalf("reject hook failed: %v", err)
	}
	if !rejected {
		t.Fatal("OnReject was not invoked")
	}
}

func TestAdminOnlyZeroIDDisablesCheck(t *testing.T) {
	mw := AdminOnlyMiddleware(AdminOptions{})
	called := false
	h := mw(func(c tele.Context) error {
		called = true
		return nil
	})

	if err := h(&accessTestContext{sender: &tele.User{ID: 7}}); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if !called {
		t.Fatal("zero admin id must pass every sender through")
	}
}
