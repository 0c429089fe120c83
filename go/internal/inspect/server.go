// Package inspect serves a read-only view of a running dashboard for test
// harnesses and debugging: health, session info, the view tree and a
// websocket stream of dashboard events.
package inspect

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mcdev12/rikiki/go/internal/events"
	"github.com/mcdev12/rikiki/go/internal/i18n"
	"github.com/mcdev12/rikiki/go/internal/poll"
	"github.com/mcdev12/rikiki/go/internal/view"
)

// Source is the dashboard being inspected.
type Source interface {
	Document() *view.Document
	Session() *poll.Session
	Localizer() *i18n.Localizer
	SelfID() string
	Stopped() bool
	Renders() uint64
}

// Info is the body of GET /info.
type Info struct {
	SessionID string    `json:"session_id"`
	SelfID    string    `json:"self_id,omitempty"`
	Language  string    `json:"language"`
	Summary   string    `json:"summary,omitempty"`
	DelayMS   int64     `json:"delay_ms"`
	Stopped   bool      `json:"stopped"`
	Renders   uint64    `json:"renders"`
	Mutations uint64    `json:"mutations"`
	Viewers   int       `json:"viewers"`
	StartedAt time.Time `json:"started_at"`

	Events *events.CounterSnapshot `json:"events,omitempty"`
}

type Server struct {
	source      Source
	connections *ConnectionManager
	counters    *events.Counters
	startedAt   time.Time
}

func NewServer(source Source, broadcaster *events.Broadcaster, config ConnectionConfig) *Server {
	return &Server{
		source:      source,
		connections: NewConnectionManager(config, broadcaster),
		startedAt:   time.Now().UTC(),
	}
}

// WithCounters adds event publish counts to /info.
func (s *Server) WithCounters(c *events.Counters) *Server {
	s.counters = c
	return s
}

// Routes returns the inspector handler with CORS applied.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/info", s.handleInfo)
	r.Get("/view", s.handleView)
	r.Get("/ws/view", s.handleViewSocket)

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodHead, http.MethodGet},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}

// HTTPServer wraps Routes in an h2c server listening on addr.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(s.Routes(), &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Error().Err(err).Msg("failed to write health check response")
	}
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	session := s.source.Session()
	info := Info{
		SessionID: session.ID.String(),
		SelfID:    s.source.SelfID(),
		Language:  s.source.Localizer().Language().String(),
		Summary:   session.Token(),
		DelayMS:   session.Delay().Milliseconds(),
		Stopped:   s.source.Stopped(),
		Renders:   s.source.Renders(),
		Mutations: s.source.Document().Mutations(),
		Viewers:   s.connections.Count(),
		StartedAt: s.startedAt,
	}
	if s.counters != nil {
		snap := s.counters.Snapshot()
		info.Events = &snap
	}
	writeJSON(w, info)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.source.Document().Snapshot())
}

func (s *Server) handleViewSocket(w http.ResponseWriter, r *http.Request) {
	// the upgrader writes its own error response
	if err := s.connections.UpgradeConnection(w, r, s.source.Document().Snapshot()); err != nil {
		log.Warn().Err(err).Msg("view websocket rejected")
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}
