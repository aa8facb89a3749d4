package state

import "testing"

func TestMemoryManagerDefaults(t *testing.T) {
	m := NewMemoryManager()
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

func TestMemoryManagerRoundTrip(t *testing.T) {
	m := NewMemoryManager()
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

	// Values returns a copy; mutating it must not leak into the session.
	vals := m.Values(7)
	vals["name"] = "mutated"
	if v, _ := m.Value(7, "name"); v != "Оксана" {
		t.Fatalf("session value mutated via copy: %q", v)
	}
}

func TestMemoryManagerClear(t *testing.T) {
	m := NewMemoryManager()
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

func TestMemoryManagerIsolatesUsers(t *testing.T) {
	m := NewMemoryManager()
	m.SetState(1, State("awaiting_city"))
	if m.InProgress(2) {
		t.Fatal("other user affected")
	}
}
