package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go-chi-calculator/internal/calculator"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

const (
	DefaultMaxSessions = 1024
	DefaultTTL         = 30 * time.Minute
)

// Store holds sessions in a bounded LRU. Sessions idle for longer than the
// TTL, or pushed out by newer ones, are dropped.
type Store struct {
	// mu orders TTL refreshes against Delete so a deleted session stays gone.
	mu     sync.Mutex
	cache  *expirable.LRU[string, *Session]
	logger *zap.Logger
}

// NewStore builds a store. Non-positive limits fall back to the defaults.
func NewStore(maxSessions int, ttl time.Duration, logger *zap.Logger) *Store {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{logger: logger}
	s.cache = expirable.NewLRU[string, *Session](maxSessions, s.onEvict, ttl)
	return s
}

func (s *Store) onEvict(id string, sess *Session) {
	snap := sess.Snapshot()
	s.logger.Debug("session evicted",
		zap.String("session_id", id),
		zap.Int("presses", snap.Presses),
		zap.Time("last_update", snap.UpdatedAt),
	)
}

// Create starts a new session.
func (s *Store) Create() *Session {
	sess := New()
	s.cache.Add(sess.ID, sess)
	return sess
}

// Get looks up a session.
func (s *Store) Get(id string) (*Session, error) {
	sess, ok := s.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sess, nil
}

// Press applies events to a session and refreshes its TTL.
func (s *Store) Press(id string, events ...calculator.Event) (Snapshot, error) {
	sess, err := s.Get(id)
	if err != nil {
		return Snapshot{}, err
	}

	snap := sess.Press(events...)
	s.touch(id, sess)
	return snap, nil
}

// touch restarts the TTL of id if it still maps to sess.
func (s *Store) touch(id string, sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.cache.Peek(id); ok && current == sess {
		s.cache.Add(id, sess)
	}
}

// Delete removes a session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cache.Remove(id) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.cache.Len()
}

// Collector exposes the live session count to Prometheus.
func (s *Store) Collector() prometheus.Collector {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "calculator_sessions_active",
		Help: "Number of live calculator sessions.",
	}, func() float64 {
		return float64(s.Len())
	})
}
