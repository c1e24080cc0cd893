// Package session implements the per-user conversational state machine that
// drives multi-step create and edit dialogs. One session exists per user
// while a flow is active; it is created on the first step of a flow and
// destroyed on commit, cancellation or abort.
package session

import (
	"errors"
	"sync"
)

// ErrInvalidTransition is returned when a flow tries to move to a state the
// transition table does not allow from the current one.
var ErrInvalidTransition = errors.New("invalid session state transition")

// State names a position in a dialog flow.
type State string

const (
	StateIdle State = "idle"

	// Task creation flow
	StateTaskTitle       State = "task:title"
	StateTaskDescription State = "task:description"
	StateTaskType        State = "task:type"

	// Task edit flow (single field, then back to idle)
	StateTaskEditTitle       State = "task:edit_title"
	StateTaskEditDescription State = "task:edit_description"
	StateTaskEditType        State = "task:edit_type"

	// Wish creation flow (the only flow with an image step)
	StateWishTitle       State = "wish:title"
	StateWishDescription State = "wish:description"
	StateWishImage       State = "wish:image"
	StateWishType        State = "wish:type"

	// Wish edit flow
	StateWishEditTitle       State = "wish:edit_title"
	StateWishEditDescription State = "wish:edit_description"
	StateWishEditImage       State = "wish:edit_image"

	// Movie creation flow
	StateMovieTitle       State = "movie:title"
	StateMovieDescription State = "movie:description"
	StateMovieType        State = "movie:type"

	// Movie post-watch flow
	StateMovieRating State = "movie:rating"
	StateMovieReview State = "movie:review"

	// Movie edit flow
	StateMovieEditTitle       State = "movie:edit_title"
	StateMovieEditDescription State = "movie:edit_description"
)

// transitions is the table of legal forward moves. Any state may additionally
// move to StateIdle (commit, cancel or abort); that case is handled in To
// rather than enumerated here.
var transitions = map[State][]State{
	StateTaskTitle:        {StateTaskDescription},
	StateTaskDescription:  {StateTaskType},
	StateWishTitle:        {StateWishDescription},
	StateWishDescription:  {StateWishImage},
	StateWishImage:        {StateWishType},
	StateMovieTitle:       {StateMovieDescription},
	StateMovieDescription: {StateMovieType},
	StateMovieRating:      {StateMovieReview},
}

// entryStates are the states a flow may start in from idle. Creation flows
// start at the title step; edit and post-watch flows enter at their field.
var entryStates = map[State]bool{
	StateTaskTitle:            true,
	StateWishTitle:            true,
	StateMovieTitle:           true,
	StateTaskEditTitle:        true,
	StateTaskEditDescription:  true,
	StateTaskEditType:         true,
	StateWishEditTitle:        true,
	StateWishEditDescription:  true,
	StateWishEditImage:        true,
	StateMovieEditTitle:       true,
	StateMovieEditDescription: true,
	StateMovieRating:          true,
}

// Session is the ephemeral per-user flow state with its accumulating fields.
type Session struct {
	UserID      int64
	State       State
	Title       string
	Description string
	ImageID     string
	EntityID    int64  // target of an edit or post-watch flow
	Context     string // list view the user navigated from
}

// To moves the session to next, validating against the transition table.
func (s *Session) To(next State) error {
	if next == StateIdle {
		s.State = StateIdle
		return nil
	}
	if s.State == StateIdle && entryStates[next] {
		s.State = next
		return nil
	}
	for _, allowed := range transitions[s.State] {
		if allowed == next {
			s.State = next
			return nil
		}
	}
	return ErrInvalidTransition
}

// In reports whether the session is in any of the given states.
func (s *Session) In(states ...State) bool {
	for _, st := range states {
		if s.State == st {
			return true
		}
	}
	return false
}

// Store keeps the active sessions keyed by user id. There is no timeout
// eviction; abandoned sessions live until the user re-engages or the
// process restarts.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Get returns the user's active session, or nil when the user is idle.
func (st *Store) Get(userID int64) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[userID]
}

// Begin starts a new flow for the user in the given state, replacing any
// abandoned session left from a previous flow.
func (st *Store) Begin(userID int64, state State) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := &Session{UserID: userID, State: state}
	st.sessions[userID] = s
	return s
}

// Clear destroys the user's session. Safe to call when none exists.
func (st *Store) Clear(userID int64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, userID)
}

// OptionalText normalizes free-text input for optional fields: the literal
// "-" means "leave empty".
func OptionalText(text string) string {
	if text == "-" {
		return ""
	}
	return text
}
