package session

import (
	"sync"
	"time"

	"go-chi-calculator/internal/calculator"

	"github.com/google/uuid"
)

// Session owns one calculator state. Presses are serialized; each one swaps
// in a whole new state value.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	state     calculator.State
	updatedAt time.Time
	presses   int
}

// Snapshot is a consistent copy of a session taken under its lock.
type Snapshot struct {
	ID        string
	State     calculator.State
	Steps     []calculator.Step
	Presses   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New returns a session in the initial calculator state.
func New() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		state:     calculator.New(),
		updatedAt: now,
	}
}

// Press applies events in order and returns the resulting snapshot with the
// display after every press.
func (s *Session) Press(events ...calculator.Event) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, steps := calculator.Trace(s.state, events)
	s.state = next
	s.presses += len(events)
	s.updatedAt = time.Now().UTC()

	snap := s.snapshotLocked()
	snap.Steps = steps
	return snap
}

// Snapshot returns the current state without changing it.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:        s.ID,
		State:     s.state,
		Presses:   s.presses,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.updatedAt,
	}
}
