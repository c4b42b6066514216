package websocket

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"nearmeet-server/internal/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // clients connect from the mobile app, not browsers
	},
}

// Hub fans realtime events out to connected clients. Clients subscribe to
// channels ("room:<id>", "chat:<id>") and receive every event published
// there.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
}

// Client is one websocket connection with its channel subscriptions.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	userID   string
	channels map[string]bool
}

// Event is the wire format for hub messages.
type Event struct {
	Type    string      `json:"type"`
	Channel string      `json:"channel"`
	Payload interface{} `json:"payload,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.With(map[string]interface{}{"user_id": client.userID}).Debug("ws client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			logger.With(map[string]interface{}{"user_id": client.userID}).Debug("ws client disconnected")
		}
	}
}

// Publish sends an event to every client subscribed to the channel.
// Slow clients are dropped rather than allowed to block the hub.
func (h *Hub) Publish(channel, eventType string, payload interface{}) {
	data, err := json.Marshal(Event{Type: eventType, Channel: channel, Payload: payload})
	if err != nil {
		logger.L().WithError(err).Warn("ws event marshal failed")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if !client.channels[channel] {
			continue
		}
		select {
		case client.send <- data:
		default:
			delete(h.clients, client)
			close(client.send)
		}
	}
}

// HandleWebSocket upgrades the request and starts the client pumps. The
// caller must have run auth middleware first.
func HandleWebSocket(hub *Hub, c *gin.Context, userID string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.L().WithError(err).Warn("ws upgrade failed")
		return
	}

	client := &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		userID:   userID,
		channels: make(map[string]bool),
	}

	hub.register <- client

	go client.writePump()
	go client.readPump()
}

type inboundMessage struct {
	Type    string `json:"type"` // subscribe | unsubscribe
	Channel string `json:"channel"`
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.L().WithError(err).Debug("ws read error")
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		c.hub.mu.Lock()
		switch msg.Type {
		case "subscribe":
			if msg.Channel != "" {
				c.channels[msg.Channel] = true
			}
		case "unsubscribe":
			delete(c.channels, msg.Channel)
		}
		c.hub.mu.Unlock()
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.L().WithError(err).Debug("ws write error")
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
