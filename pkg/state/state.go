package state

import (
	"sync"
	"time"
)

// State represents the conversation state of a chat
type State string

const (
	// StateNormal is the normal state
	StateNormal State = "normal"
	// StateAddingRestaurants is the state when the chat is sending restaurant names
	StateAddingRestaurants State = "adding_restaurants"
)

// DefaultTTL is how long a non-normal state lasts without activity
const DefaultTTL = 10 * time.Minute

// ChatState represents the state of a chat
type ChatState struct {
	State     State
	Timestamp time.Time
}

// Manager manages chat states
type Manager struct {
	states map[int64]ChatState
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
}

// New creates a new state manager
func New() *Manager {
	return &Manager{
		states: make(map[int64]ChatState),
		ttl:    DefaultTTL,
		now:    time.Now,
	}
}

// SetState sets the state for a chat
func (m *Manager) SetState(chatID int64, state State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[chatID] = ChatState{
		State:     state,
		Timestamp: m.now(),
	}
}

// GetState gets the state for a chat, resetting expired states to normal
func (m *Manager) GetState(chatID int64) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.states[chatID]
	if !ok {
		return StateNormal
	}
	if m.now().Sub(state.Timestamp) > m.ttl {
		delete(m.states, chatID)
		return StateNormal
	}
	return state.State
}

// Touch extends the current state of a chat
func (m *Manager) Touch(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.states[chatID]; ok {
		state.Timestamp = m.now()
		m.states[chatID] = state
	}
}

// ClearState clears the state for a chat
func (m *Manager) ClearState(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, chatID)
}
