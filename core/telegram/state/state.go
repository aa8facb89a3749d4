package state

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
)

// Session stores the conversation step and collected values for a user.
type Session struct {
	State State             `json:"state"`
	Data  map[string]string `json:"data,omitempty"`
}

// Manager orchestrates user sessions. Implementations must be safe for
// concurrent use; a read-modify-write for one user is never interleaved with
// another update for the same user by the transport adapter.
type Manager interface {
	// State returns the current step for a user, StateIdle if none exists.
	State(userID int64) State
	// SetState sets the step for a user, creating a session if necessary.
	SetState(userID int64, st State)
	// SetValue stores a collected key/value pair for the user session.
	SetValue(userID int64, key, value string)
	// Value retrieves a collected value by key.
	Value(userID int64, key string) (string, bool)
	// Values returns a copy of all collected values for the user.
	Values(userID int64) map[string]string
	// Clear removes the entire session, returning the user to idle.
	Clear(userID int64)
	// InProgress reports whether the user has an active step other than idle.
	InProgress(userID int64) bool
}
