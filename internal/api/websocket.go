package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/auralis-home/auralis-core/internal/infrastructure/config"
	"github.com/auralis-home/auralis-core/internal/infrastructure/logging"
	"github.com/auralis-home/auralis-core/internal/music"
	"github.com/auralis-home/auralis-core/internal/presence"
	"github.com/auralis-home/auralis-core/internal/zone"
)

// WebSocket message types.
const (
	WSTypeJoinZone     = "join-zone"
	WSTypeLeaveZone    = "leave-zone"
	WSTypeMusicControl = "music-control"
	WSTypePing         = "ping"
	WSTypePong         = "pong"
	WSTypeEvent        = "event"
	WSTypeResponse     = "response"
	WSTypeError        = "error"

	// wsSendBufferSize is the per-client outbound message buffer size.
	wsSendBufferSize = 256
)

// WSMessage represents a message sent to/from a WebSocket client.
//
// Client to server: type is join-zone, leave-zone, music-control, or ping;
// zone carries the target for join/leave. Server to client: type is event,
// response, or error; event names the update family (see internal/presence)
// and zone names the zone it concerns (empty for global mirrors).
type WSMessage struct {
	Type      string `json:"type"`
	ID        string `json:"id,omitempty"`
	Event     string `json:"event,omitempty"`
	Zone      string `json:"zone,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

// Hub manages WebSocket connections and zone-scoped fan-out.
type Hub struct {
	cfg     config.WebSocketConfig
	logger  *logging.Logger
	store   *zone.Store
	sender  CommandSender
	clients map[*WSClient]struct{}
	mu      sync.RWMutex
}

// WSClient represents a connected WebSocket client.
type WSClient struct {
	hub  *Hub
	conn *websocket.Conn
	id   string
	send chan []byte

	// zones the client has joined, and the last presence revision
	// delivered per zone. Guarded by mu.
	zones   map[string]struct{}
	lastRev map[string]uint64
	mu      sync.RWMutex
}

// upgrader configures the WebSocket upgrader.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// Origin checking is handled by CORS middleware
		return true
	},
}

// NewHub creates a new WebSocket hub.
func NewHub(cfg config.WebSocketConfig, store *zone.Store, sender CommandSender, logger *logging.Logger) *Hub {
	return &Hub{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		sender:  sender,
		clients: make(map[*WSClient]struct{}),
	}
}

// Run starts the hub's main loop. It blocks until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// Register adds a client to the hub.
func (h *Hub) Register(client *WSClient) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", "client_id", client.id, "clients", h.ClientCount())
}

// Unregister removes a client from the hub.
// Only the goroutine that successfully removes the client from the map
// closes the send channel, preventing double-close panics during shutdown.
func (h *Hub) Unregister(client *WSClient) {
	h.mu.Lock()
	_, existed := h.clients[client]
	delete(h.clients, client)
	h.mu.Unlock()

	if existed {
		close(client.send)
	}
	h.logger.Debug("websocket client disconnected", "client_id", client.id, "clients", h.ClientCount())
}

// BroadcastAll sends an event to every connected client.
func (h *Hub) BroadcastAll(event string, data any) {
	payload, ok := h.encodeEvent(event, "", data)
	if !ok {
		return
	}

	for _, client := range h.snapshot() {
		client.trySend(payload)
	}
}

// BroadcastZone sends an event to clients that joined the given zone.
func (h *Hub) BroadcastZone(zoneID, event string, data any) {
	payload, ok := h.encodeEvent(event, zoneID, data)
	if !ok {
		return
	}

	sent := 0
	for _, client := range h.snapshot() {
		if client.inZone(zoneID) {
			client.trySend(payload)
			sent++
		}
	}
	if sent > 0 {
		h.logger.Debug("zone broadcast sent", "zone", zoneID, "event", event, "recipients", sent)
	}
}

// BroadcastPresence sends a zone's occupancy state to its subscribers.
//
// Each client tracks the highest revision it has been sent per zone;
// a snapshot older than that is discarded, so slow or concurrent
// broadcasts can never make a subscriber observe occupancy regress.
func (h *Hub) BroadcastPresence(zoneID string, revision uint64, state zone.State) {
	payload, ok := h.encodeEvent(presence.EventPresenceUpdate, zoneID, state)
	if !ok {
		return
	}

	for _, client := range h.snapshot() {
		client.sendIfNewer(zoneID, revision, payload)
	}
}

// encodeEvent wraps data in the event envelope and marshals it.
func (h *Hub) encodeEvent(event, zoneID string, data any) ([]byte, bool) {
	msg := WSMessage{
		Type:      WSTypeEvent,
		Event:     event,
		Zone:      zoneID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   data,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal broadcast message", "event", event, "error", err)
		return nil, false
	}
	return payload, true
}

// snapshot returns the current client list. Taken under the hub lock,
// released before any per-client work so hub and client locks are never
// held together.
func (h *Hub) snapshot() []*WSClient {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := make([]*WSClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	return clients
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// closeAll disconnects all clients and closes their send channels
// so writePump goroutines can exit cleanly.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		if client.conn != nil {
			client.conn.Close()
		}
		delete(h.clients, client)
	}
}

// handleWebSocket upgrades the HTTP connection to a WebSocket connection.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := &WSClient{
		hub:     s.hub,
		conn:    conn,
		id:      "ws-" + uuid.NewString()[:8],
		send:    make(chan []byte, wsSendBufferSize),
		zones:   make(map[string]struct{}),
		lastRev: make(map[string]uint64),
	}

	s.hub.Register(client)

	// Start read/write pumps
	go client.writePump(s.wsCfg)
	go client.readPump(s.wsCfg)
}

// readPump reads messages from the WebSocket connection.
func (c *WSClient) readPump(cfg config.WebSocketConfig) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(int64(cfg.MaxMessageSize))
	pingInterval := time.Duration(cfg.PingInterval) * time.Second
	pongWait := time.Duration(cfg.PongTimeout) * time.Second
	//nolint:errcheck // Best-effort deadline on connection setup
	c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error", "client_id", c.id, "error", err)
			} else {
				c.hub.logger.Debug("websocket closed", "client_id", c.id, "error", err)
			}
			return
		}
		// Any client message resets the read deadline (keeps connection alive
		// even if browser doesn't respond to protocol-level pings).
		//nolint:errcheck // Best-effort deadline reset
		c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
		c.handleMessage(message)
	}
}

// writePump writes messages to the WebSocket connection.
func (c *WSClient) writePump(cfg config.WebSocketConfig) {
	pingInterval := time.Duration(cfg.PingInterval) * time.Second
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	pongWait := time.Duration(cfg.PongTimeout) * time.Second

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				// Hub closed the channel
				//nolint:errcheck // Best-effort close message
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			//nolint:errcheck // Best-effort deadline; write error caught below
			c.conn.SetWriteDeadline(time.Now().Add(pongWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			//nolint:errcheck // Best-effort deadline; ping error caught below
			c.conn.SetWriteDeadline(time.Now().Add(pongWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming WebSocket message.
func (c *WSClient) handleMessage(data []byte) {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError("", "invalid JSON message")
		return
	}

	switch msg.Type {
	case WSTypeJoinZone:
		c.handleJoinZone(msg)
	case WSTypeLeaveZone:
		c.handleLeaveZone(msg)
	case WSTypeMusicControl:
		c.handleMusicControl(msg)
	case WSTypePing:
		c.sendResponse(msg.ID, WSTypePong, nil)
	default:
		c.sendError(msg.ID, "unknown message type: "+msg.Type)
	}
}

// handleJoinZone subscribes the client to a zone's updates.
// Joining an already-joined zone is a no-op ack. The response carries the
// zone's current state so the client renders without waiting for the next
// presence event.
func (c *WSClient) handleJoinZone(msg WSMessage) {
	if msg.Zone == "" {
		c.sendError(msg.ID, "zone is required")
		return
	}

	state, err := c.hub.store.Get(msg.Zone)
	if err != nil {
		c.sendError(msg.ID, "unknown zone: "+msg.Zone)
		return
	}

	c.mu.Lock()
	c.zones[msg.Zone] = struct{}{}
	if state.Revision > c.lastRev[msg.Zone] {
		c.lastRev[msg.Zone] = state.Revision
	}
	c.mu.Unlock()

	c.hub.logger.Info("websocket client joined zone", "client_id", c.id, "zone", msg.Zone)

	c.sendResponse(msg.ID, WSTypeResponse, map[string]any{
		"joined": msg.Zone,
		"state":  state,
	})
}

// handleLeaveZone unsubscribes the client from a zone. Leaving a zone the
// client never joined is a no-op ack.
func (c *WSClient) handleLeaveZone(msg WSMessage) {
	if msg.Zone == "" {
		c.sendError(msg.ID, "zone is required")
		return
	}

	c.mu.Lock()
	delete(c.zones, msg.Zone)
	delete(c.lastRev, msg.Zone)
	c.mu.Unlock()

	c.sendResponse(msg.ID, WSTypeResponse, map[string]any{
		"left": msg.Zone,
	})
}

// handleMusicControl forwards a client-issued command to the router.
func (c *WSClient) handleMusicControl(msg WSMessage) {
	payloadBytes, err := json.Marshal(msg.Payload)
	if err != nil {
		c.sendError(msg.ID, "invalid payload")
		return
	}

	var cmd music.Command
	if err := json.Unmarshal(payloadBytes, &cmd); err != nil {
		c.sendError(msg.ID, "invalid music control payload")
		return
	}
	if cmd.Zone == "" {
		cmd.Zone = msg.Zone
	}

	if err := c.hub.sender.SendControl(cmd, music.SourceWebSocket); err != nil {
		c.sendError(msg.ID, err.Error())
		return
	}

	c.sendResponse(msg.ID, WSTypeResponse, map[string]any{
		"dispatched": true,
		"zone":       cmd.Zone,
		"action":     cmd.Action,
	})
}

// trySend attempts to send data to the client's send channel.
// It silently handles closed channels (client disconnected during broadcast)
// and full buffers (slow client).
func (c *WSClient) trySend(data []byte) {
	defer func() {
		recover() //nolint:errcheck // Absorb send-on-closed-channel panic
	}()

	select {
	case c.send <- data:
	default:
		// Client buffer full, skip
	}
}

// inZone checks if the client has joined a zone.
func (c *WSClient) inZone(zoneID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.zones[zoneID]
	return ok
}

// sendIfNewer delivers a presence payload only if the client joined the
// zone and the revision advances past the last delivered one.
func (c *WSClient) sendIfNewer(zoneID string, revision uint64, data []byte) {
	c.mu.Lock()
	if _, joined := c.zones[zoneID]; !joined {
		c.mu.Unlock()
		return
	}
	if revision <= c.lastRev[zoneID] {
		c.mu.Unlock()
		return
	}
	c.lastRev[zoneID] = revision
	c.mu.Unlock()

	c.trySend(data)
}

// sendResponse sends a response message to the client.
// Routes through trySend to safely handle closed channels during shutdown.
func (c *WSClient) sendResponse(id, msgType string, payload any) {
	msg := WSMessage{
		Type:      msgType,
		ID:        id,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.trySend(data)
}

// sendError sends an error message to the client.
func (c *WSClient) sendError(id, message string) {
	c.sendResponse(id, WSTypeError, map[string]string{"message": message})
}
