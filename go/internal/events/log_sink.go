package events

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogSink writes every event to the global logger.
type LogSink struct {
	Level zerolog.Level
}

func (s LogSink) Publish(_ context.Context, ev Event) error {
	e := log.WithLevel(s.Level).
		Str("event_id", ev.ID.String()).
		Str("event_type", string(ev.Type)).
		Str("session_id", ev.SessionID.String())
	if len(ev.Payload) > 0 {
		e = e.RawJSON("payload", ev.Payload)
	}
	e.Msg("dashboard event")
	return nil
}
