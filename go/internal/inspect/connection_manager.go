package inspect

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/rikiki/go/internal/events"
	"github.com/mcdev12/rikiki/go/internal/view"
)

// ConnectionConfig holds configuration for websocket viewers.
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBuffer      int
	CheckOrigin     func(r *http.Request) bool
}

func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		SendBuffer:      64,
		CheckOrigin: func(r *http.Request) bool {
			// local inspector, any origin
			return true
		},
	}
}

// Message is what viewers receive: first the current view, then one message
// per dashboard event.
type Message struct {
	Kind  string             `json:"kind"`
	View  *view.NodeSnapshot `json:"view,omitempty"`
	Event *events.Event      `json:"event,omitempty"`
}

const (
	KindView  = "view"
	KindEvent = "event"
)

// ConnectionManager streams dashboard events to websocket viewers.
type ConnectionManager struct {
	connections map[*Connection]bool
	mu          sync.RWMutex

	upgrader    websocket.Upgrader
	config      ConnectionConfig
	broadcaster *events.Broadcaster
}

// Connection is one websocket viewer.
type Connection struct {
	ID          uuid.UUID
	Conn        *websocket.Conn
	ConnectedAt time.Time

	events  <-chan events.Event
	cancel  func()
	manager *ConnectionManager
	once    sync.Once
}

func NewConnectionManager(config ConnectionConfig, broadcaster *events.Broadcaster) *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcaster: broadcaster,
	}
}

// UpgradeConnection upgrades the request and sends initial first.
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request, initial view.NodeSnapshot) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	id, ch, cancel := cm.broadcaster.Subscribe(cm.config.SendBuffer)
	c := &Connection{
		ID:          id,
		Conn:        conn,
		ConnectedAt: time.Now(),
		events:      ch,
		cancel:      cancel,
		manager:     cm,
	}

	cm.mu.Lock()
	cm.connections[c] = true
	total := len(cm.connections)
	cm.mu.Unlock()

	log.Info().
		Str("connection_id", c.ID.String()).
		Int("total_connections", total).
		Msg("view websocket connected")

	go c.writePump(initial)
	go c.readPump()
	return nil
}

// Count is the number of open viewers.
func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.connections)
}

func (cm *ConnectionManager) unregister(c *Connection) {
	c.once.Do(func() {
		cm.mu.Lock()
		delete(cm.connections, c)
		cm.mu.Unlock()
		c.cancel()
		_ = c.Conn.Close()
		log.Info().Str("connection_id", c.ID.String()).Msg("view websocket disconnected")
	})
}

func (c *Connection) write(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s message: %w", msg.Kind, err)
	}
	_ = c.Conn.SetWriteDeadline(time.Now().Add(c.manager.config.WriteTimeout))
	return c.Conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Connection) writePump(initial view.NodeSnapshot) {
	ticker := time.NewTicker(c.manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.manager.unregister(c)
	}()

	if err := c.write(Message{Kind: KindView, View: &initial}); err != nil {
		log.Error().Err(err).Str("connection_id", c.ID.String()).Msg("failed to send initial view")
		return
	}

	for {
		select {
		case ev, ok := <-c.events:
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(Message{Kind: KindEvent, Event: &ev}); err != nil {
				log.Error().Err(err).Str("connection_id", c.ID.String()).Msg("failed to write event to websocket")
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(c.manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().Err(err).Str("connection_id", c.ID.String()).Msg("failed to send ping")
				return
			}
		}
	}
}

// readPump only watches for close and pong; viewers cannot send commands.
func (c *Connection) readPump() {
	defer c.manager.unregister(c)

	c.Conn.SetReadLimit(c.manager.config.MaxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(c.manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(c.manager.config.ReadTimeout))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("connection_id", c.ID.String()).Msg("unexpected websocket close")
			}
			return
		}
	}
}
