package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

type NATSConfig struct {
	URL           string
	SubjectPrefix string
	// Stream, when set, publishes through JetStream into this stream.
	Stream        string
	MaxAge        time.Duration
	MaxReconnects int
	ReconnectWait time.Duration
}

func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		SubjectPrefix: "rikiki.dashboard",
		MaxAge:        24 * time.Hour,
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

// NATSSink publishes events on <prefix>.<session-id>.<event-type>.
type NATSSink struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	config NATSConfig
}

func NewNATSSink(ctx context.Context, cfg NATSConfig) (*NATSSink, error) {
	opts := []nats.Option{
		nats.Name("rikiki-dashboard"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	s := &NATSSink{nc: nc, config: cfg}
	if cfg.Stream == "" {
		return s, nil
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}
	s.js = js
	if err := s.ensureStream(ctx); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure stream: %w", err)
	}
	return s, nil
}

func (s *NATSSink) ensureStream(ctx context.Context) error {
	_, err := s.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        s.config.Stream,
		Description: "rikiki dashboard events",
		Subjects:    []string{s.config.SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      s.config.MaxAge,
		Storage:     jetstream.FileStorage,
	})
	if err != nil {
		return fmt.Errorf("create or update stream %s: %w", s.config.Stream, err)
	}
	log.Info().Str("stream", s.config.Stream).Msg("JetStream stream ready")
	return nil
}

// Subject is the subject an event is published on.
func Subject(prefix string, ev Event) string {
	return fmt.Sprintf("%s.%s.%s", prefix, ev.SessionID, ev.Type)
}

func (s *NATSSink) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := &nats.Msg{
		Subject: Subject(s.config.SubjectPrefix, ev),
		Data:    data,
		Header: nats.Header{
			"Event-Type": []string{string(ev.Type)},
			"Event-ID":   []string{ev.ID.String()},
			"Session-ID": []string{ev.SessionID.String()},
		},
	}

	if s.js == nil {
		if err := s.nc.PublishMsg(msg); err != nil {
			return fmt.Errorf("publish to NATS: %w", err)
		}
		return nil
	}

	ack, err := s.js.PublishMsg(ctx, msg, jetstream.WithMsgID(ev.ID.String()))
	if err != nil {
		return fmt.Errorf("publish to JetStream: %w", err)
	}
	log.Debug().
		Str("subject", msg.Subject).
		Uint64("sequence", ack.Sequence).
		Str("stream", ack.Stream).
		Msg("published to JetStream")
	return nil
}

func (s *NATSSink) Close() error {
	if s.nc == nil {
		return nil
	}
	if err := s.nc.Drain(); err != nil {
		s.nc.Close()
		return fmt.Errorf("drain NATS connection: %w", err)
	}
	return nil
}
