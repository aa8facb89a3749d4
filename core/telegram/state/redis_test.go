package state

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisManager(t *testing.T) Manager {
	t.Helper()
	srv := miniredis.RunT(t)
	m, err := NewRedisManager(RedisOptions{
		Addr:      srv.Addr(),
		KeyPrefix: "test",
		TTL:       time.Minute,
	})
	if err != nil {
		t.Fatalf("redis manager: %v", err)
	}
	return m
}

func TestRedisManagerDefaults(t *testing.T) {
	m := newTestRedisManager(t)
	if st := m.State(1); st != StateIdle {
		t.Fatalf("fresh user state = %s, expected idle", st)
	}
	if m.InProgress(1) {
		t.Fatal("fresh user should not be in progress")
	}
	if _, ok := m.Value(1, "name"); ok {
		t.Fatal("fresh user should have no values")
	}
}

func TestRedisManagerRoundTrip(t *testing.T) {
	m := newTestRedisManager(t)
	m.SetState(7, State("awaiting_name"))
	m.SetValue(7, "name", "Оксана")

	if st := m.State(7); st != State("awaiting_name") {
		t.Fatalf("state = %s", st)
	}
	if !m.InProgress(7) {
		t.Fatal("expected in progress")
	}
	if v, ok := m.Value(7, "name"); !ok || v != "Оксана" {
		t.Fatalf("value = %q, ok = %v", v, ok)
	}
	if vals := m.Values(7); vals["name"] != "Оксана" {
		t.Fatalf("values = %v", vals)
	}
}

func TestRedisManagerSetValueKeepsState(t *testing.T) {
	m := newTestRedisManager(t)
	m.SetState(7, State("awaiting_age"))
	m.SetValue(7, "name", "x")

	if st := m.State(7); st != State("awaiting_age") {
		t.Fatalf("state after SetValue = %s", st)
	}
}

func TestRedisManagerClear(t *testing.T) {
	m := newTestRedisManager(t)
	m.SetState(7, State("awaiting_age"))
	m.SetValue(7, "name", "x")
	m.Clear(7)

	if st := m.State(7); st != StateIdle {
		t.Fatalf("state after clear = %s", st)
	}
	if len(m.Values(7)) != 0 {
		t.Fatal("values should be discarded on clear")
	}
}

func TestRedisManagerIsolatesUsers(t *testing.T) {
	m := newTestRedisManager(t)
	m.SetState(1, State("awaiting_city"))
	if m.InProgress(2) {
		t.Fatal("other user affected")
	}
}
