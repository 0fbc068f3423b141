package conversation

import "sync"

// State says how the next text message from a user is read.
type State int

const (
	StateNone State = iota
	StateAwaitingTaskText
	StateAwaitingMemberID
)

func (s State) String() string {
	switch s {
	case StateAwaitingTaskText:
		return "awaiting_task_text"
	case StateAwaitingMemberID:
		return "awaiting_member_id"
	default:
		return "none"
	}
}

type stateStore struct {
	mu     sync.Mutex
	states map[int64]State
}

func newStateStore() *stateStore {
	return &stateStore{states: make(map[int64]State)}
}

func (s *stateStore) get(userID int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[userID]
}

func (s *stateStore) set(userID int64, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = st
}

// take returns the user's state and resets it to StateNone.
func (s *stateStore) take(userID int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.states[userID]
	delete(s.states, userID)
	return st
}
