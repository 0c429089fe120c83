// Package events carries dashboard notifications to the log and to any other
// registered observer.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type names a dashboard event.
type Type string

const (
	TypeSnapshotRendered Type = "snapshot.rendered"
	TypeSnapshotSkipped  Type = "snapshot.skipped"
	TypePollFailed       Type = "poll.failed"
	TypePollStopped      Type = "poll.stopped"
	TypeActionSubmitted  Type = "action.submitted"
	TypeActionFailed     Type = "action.failed"
)

// Event is the envelope every sink receives.
type Event struct {
	ID        uuid.UUID       `json:"eventId"`
	Type      Type            `json:"eventType"`
	SessionID uuid.UUID       `json:"sessionId"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// New builds an event with a fresh id. payload is marshalled to JSON.
func New(sessionID uuid.UUID, typ Type, payload any) (Event, error) {
	ev := Event{
		ID:        uuid.New(),
		Type:      typ,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Event{}, fmt.Errorf("marshal %s payload: %w", typ, err)
		}
		ev.Payload = data
	}
	return ev, nil
}

// SnapshotRenderedPayload is sent when a new snapshot reached the view.
type SnapshotRenderedPayload struct {
	Summary    string `json:"summary"`
	GameState  string `json:"game_state"`
	RoundState string `json:"round_state"`
	Players    int    `json:"players"`
	Mutations  uint64 `json:"mutations"`
}

// SnapshotSkippedPayload is sent when the gate suppressed a render.
type SnapshotSkippedPayload struct {
	Summary string `json:"summary"`
	Partial bool   `json:"partial"`
}

// PollFailedPayload describes a retryable poll failure.
type PollFailedPayload struct {
	Error       string `json:"error"`
	NextDelayMS int64  `json:"next_delay_ms"`
}

// PollStoppedPayload describes the fatal error that ended polling.
type PollStoppedPayload struct {
	Status     int    `json:"status"`
	StatusText string `json:"status_text"`
}

// ActionPayload describes a submitted action.
type ActionPayload struct {
	Endpoint string `json:"endpoint"`
	Tier     string `json:"tier,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Sink receives events. Publish must not block for long: it is called from
// the poll loop.
type Sink interface {
	Publish(ctx context.Context, ev Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, ev Event) error

func (f SinkFunc) Publish(ctx context.Context, ev Event) error { return f(ctx, ev) }

// Fanout publishes to every sink and joins their errors.
type Fanout []Sink

func (f Fanout) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, s := range f {
		if s == nil {
			continue
		}
		if err := s.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every event.
var Discard Sink = SinkFunc(func(context.Context, Event) error { return nil })
