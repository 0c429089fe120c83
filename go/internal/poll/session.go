package poll

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const (
	DefaultBaseInterval  = 1000 * time.Millisecond
	DefaultBackoffFactor = 3
)

// Config controls poll timing.
type Config struct {
	BaseInterval  time.Duration
	BackoffFactor int
	// MaxDelay caps the backed-off delay. Zero means uncapped.
	MaxDelay time.Duration
}

// DefaultConfig returns the stock 1s interval with 3x backoff.
func DefaultConfig() Config {
	return Config{
		BaseInterval:  DefaultBaseInterval,
		BackoffFactor: DefaultBackoffFactor,
	}
}

func (c Config) normalized() Config {
	if c.BaseInterval <= 0 {
		c.BaseInterval = DefaultBaseInterval
	}
	if c.BackoffFactor < 1 {
		c.BackoffFactor = DefaultBackoffFactor
	}
	return c
}

// Session holds the poll state of one dashboard instance: current delay,
// last rendered version token and the pending timer. Nothing here is global,
// so several dashboards can poll side by side.
type Session struct {
	ID uuid.UUID

	mu     sync.Mutex
	config Config
	delay  time.Duration
	token  string
	timer  clockwork.Timer
}

// NewSession creates a session at the base interval with no token.
func NewSession(cfg Config) *Session {
	cfg = cfg.normalized()
	return &Session{
		ID:     uuid.New(),
		config: cfg,
		delay:  cfg.BaseInterval,
	}
}

// Delay returns the wait before the next fetch.
func (s *Session) Delay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delay
}

// Token returns the last rendered version token ("" before the first render).
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) backoff() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay *= time.Duration(s.config.BackoffFactor)
	if s.config.MaxDelay > 0 && s.delay > s.config.MaxDelay {
		s.delay = s.config.MaxDelay
	}
	return s.delay
}

func (s *Session) reset() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = s.config.BaseInterval
	return s.delay
}

// swapToken stores token when it differs from the stored one and reports
// whether it did.
func (s *Session) swapToken(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" {
		return s.token == ""
	}
	if token == s.token {
		return false
	}
	s.token = token
	return true
}

// setTimer replaces the pending timer, stopping any previous one.
func (s *Session) setTimer(t clockwork.Timer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		stopAndDrainTimer(s.timer)
	}
	s.timer = t
}

// cancelTimer stops and forgets the pending timer. Reports whether one existed.
func (s *Session) cancelTimer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer == nil {
		return false
	}
	stopAndDrainTimer(s.timer)
	s.timer = nil
	return true
}

// clearTimer forgets a timer that already fired.
func (s *Session) clearTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer = nil
}

// Pending reports whether a fetch is scheduled.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// stopAndDrainTimer stops a timer and drains its channel if it already fired.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
