package poll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

var ErrAlreadyStarted = errors.New("scheduler already started")

// State of the poll cycle.
type State int

const (
	StateIdle State = iota
	StateWaiting
	StateFetching
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaiting:
		return "waiting"
	case StateFetching:
		return "fetching"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Fetcher performs one status call. It must convert every failure into a
// Result; token is the last rendered version token.
type Fetcher interface {
	Fetch(ctx context.Context, token string) Result
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, token string) Result

func (f FetcherFunc) Fetch(ctx context.Context, token string) Result { return f(ctx, token) }

// Handler receives the outcome of every poll cycle.
type Handler interface {
	// OnSnapshot gets each successful body. A returned error means the body
	// was unusable and is treated like a transport failure.
	OnSnapshot(ctx context.Context, body json.RawMessage) error
	// OnTransient is told about a retryable failure and the delay before the
	// next attempt.
	OnTransient(err error, next time.Duration)
	// OnFatal is called once when polling stops for good.
	OnFatal(err *HTTPError)
}

// Scheduler drives the poll cycle of one session: fetch, hand the result to
// the handler, wait, repeat. At most one fetch is in flight or scheduled.
type Scheduler struct {
	clock   clockwork.Clock
	session *Session
	fetcher Fetcher
	handler Handler

	mu    sync.Mutex
	state State
	wake  chan struct{}
	done  chan struct{}
}

// NewScheduler creates an idle scheduler. A nil clock uses the real clock.
func NewScheduler(clock clockwork.Clock, session *Session, fetcher Fetcher, handler Handler) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{
		clock:   clock,
		session: session,
		fetcher: fetcher,
		handler: handler,
		state:   StateIdle,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// State returns the current cycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Session returns the session this scheduler owns.
func (s *Scheduler) Session() *Session { return s.session }

// Run fetches immediately and keeps polling until Stop, a fatal HTTP error,
// or ctx cancellation. It returns nil in all of these cases.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.state = StateFetching
	s.mu.Unlock()

	log.Info().
		Str("session_id", s.session.ID.String()).
		Dur("base_interval", s.session.config.BaseInterval).
		Msg("poll scheduler started")

	for {
		res := s.fetcher.Fetch(ctx, s.session.Token())
		if ctx.Err() != nil {
			s.Stop()
			return nil
		}

		delay, live := s.settle(ctx, res)
		if !live {
			return nil
		}
		if !s.wait(ctx, delay) {
			return nil
		}
	}
}

// settle applies one result and returns the delay before the next fetch.
func (s *Scheduler) settle(ctx context.Context, res Result) (time.Duration, bool) {
	switch res.Kind {
	case KindSuccess:
		if err := s.handler.OnSnapshot(ctx, res.Body); err != nil {
			return s.transient(&TransportError{Cause: err}), true
		}
		return s.session.reset(), true

	case KindHTTPError:
		httpErr := &HTTPError{Status: res.Status, StatusText: res.StatusText}
		s.Stop()
		log.Error().
			Str("session_id", s.session.ID.String()).
			Int("status", res.Status).
			Str("status_text", res.StatusText).
			Msg("status poll rejected by server, polling stopped")
		s.handler.OnFatal(httpErr)
		return 0, false

	default:
		return s.transient(res.Err()), true
	}
}

func (s *Scheduler) transient(err error) time.Duration {
	next := s.session.backoff()
	log.Warn().
		Err(err).
		Str("session_id", s.session.ID.String()).
		Dur("next_delay", next).
		Msg("status poll failed, backing off")
	s.handler.OnTransient(err, next)
	return next
}

// wait arms a one-shot timer and blocks until it fires, PollNow is called,
// or the scheduler stops. It reports whether to fetch again.
func (s *Scheduler) wait(ctx context.Context, delay time.Duration) bool {
	s.mu.Lock()
	if s.state == StateStopped {
		s.mu.Unlock()
		return false
	}
	select {
	case <-s.wake:
	default:
	}
	timer := s.clock.NewTimer(delay)
	s.session.setTimer(timer)
	s.state = StateWaiting
	s.mu.Unlock()

	select {
	case <-timer.Chan():
		s.session.clearTimer()
	case <-s.wake:
	case <-s.done:
		return false
	case <-ctx.Done():
		s.Stop()
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateStopped {
		return false
	}
	s.state = StateFetching
	return true
}

// PollNow cuts the current wait short. It is a no-op once stopped and returns
// false in that case; a fetch already in flight is not duplicated.
func (s *Scheduler) PollNow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateIdle, StateStopped:
		return false
	case StateFetching:
		return true
	}

	s.session.cancelTimer()
	select {
	case s.wake <- struct{}{}:
	default:
	}
	return true
}

// Stop cancels any pending fetch and ends the cycle permanently.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateStopped {
		return
	}
	s.state = StateStopped
	if s.session.cancelTimer() {
		log.Debug().Str("session_id", s.session.ID.String()).Msg("cancelled pending poll")
	}
	close(s.done)
}
