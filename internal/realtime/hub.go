package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// MessageType identifies the kind of real-time event.
type MessageType string

const (
	MessageTypeProgress    MessageType = "batch_progress"
	MessageTypeCompleted   MessageType = "batch_completed"
	MessageTypeSubscribe   MessageType = "subscribe"
	MessageTypeUnsubscribe MessageType = "unsubscribe"
)

// Message is one event pushed to subscribed clients.
type Message struct {
	Type      MessageType `json:"type"`
	Topic     string      `json:"topic"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// BatchProgress reports how far a batch validation has advanced.
type BatchProgress struct {
	BatchID   string `json:"batch_id"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
	Valid     int    `json:"valid"`
	Invalid   int    `json:"invalid"`
}

// SubscriptionRequest is a client request to follow or drop topics.
type SubscriptionRequest struct {
	Type   string   `json:"type"`
	Topics []string `json:"topics"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, implement proper origin checking
		return true
	},
}

// Hub maintains the set of active connections and broadcasts batch events.
// Events are mirrored through Redis so every instance sees them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	redis      *redis.Client
	logger     *zap.Logger
	mutex      sync.RWMutex
}

// Client is one WebSocket connection with its topic subscriptions.
type Client struct {
	ID     string
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	Topics map[string]bool
	mutex  sync.RWMutex
}

// NewHub creates a WebSocket hub.
func NewHub(redisClient *redis.Client, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		redis:      redisClient,
		logger:     logger,
	}
}

// Run starts the hub loop. Call it in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			h.logger.Debug("websocket client connected", zap.String("client_id", client.ID))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			h.logger.Debug("websocket client disconnected", zap.String("client_id", client.ID))

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// HandleWebSocket upgrades an HTTP request into a hub connection.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := &Client{
		ID:     fmt.Sprintf("client_%d", time.Now().UnixNano()),
		Hub:    h,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		Topics: make(map[string]bool),
	}

	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}

// BatchTopic is the subscription topic for one batch's events.
func BatchTopic(batchID string) string {
	return "batch:" + batchID
}

// PublishProgress pushes a progress event to subscribers of the batch topic.
func (h *Hub) PublishProgress(progress BatchProgress) error {
	return h.broadcastToTopic(BatchTopic(progress.BatchID), &Message{
		Type:    MessageTypeProgress,
		Topic:   BatchTopic(progress.BatchID),
		Payload: progress,
	})
}

// PublishCompleted announces a finished batch with its final statistics.
func (h *Hub) PublishCompleted(batchID string, statistics interface{}) error {
	return h.broadcastToTopic(BatchTopic(batchID), &Message{
		Type:    MessageTypeCompleted,
		Topic:   BatchTopic(batchID),
		Payload: statistics,
	})
}

func (h *Hub) broadcastToTopic(topic string, message *Message) error {
	message.Timestamp = time.Now()
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	h.mutex.Lock()
	for client := range h.clients {
		client.mutex.RLock()
		subscribed := client.Topics[topic]
		client.mutex.RUnlock()

		if subscribed {
			select {
			case client.Send <- data:
			default:
				close(client.Send)
				delete(h.clients, client)
			}
		}
	}
	h.mutex.Unlock()

	if h.redis == nil {
		return nil
	}
	return h.redis.Publish(context.Background(), "realtime:"+topic, data).Err()
}

// ConnectedClients returns the number of connected clients.
func (h *Hub) ConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// SubscribeToRedis relays events published by other instances to local
// clients. Call it in its own goroutine when Redis is configured.
func (h *Hub) SubscribeToRedis() {
	if h.redis == nil {
		return
	}

	pubsub := h.redis.PSubscribe(context.Background(), "realtime:*")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.broadcast <- []byte(msg.Payload)
	}
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("websocket read failed", zap.Error(err))
			}
			break
		}

		var subReq SubscriptionRequest
		if err := json.Unmarshal(message, &subReq); err == nil {
			c.handleSubscription(&subReq)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Flush queued messages into the same frame
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleSubscription(req *SubscriptionRequest) {
	c.mutex.Lock()
	switch req.Type {
	case "subscribe":
		for _, topic := range req.Topics {
			c.Topics[topic] = true
		}
	case "unsubscribe":
		for _, topic := range req.Topics {
			delete(c.Topics, topic)
		}
	}
	c.mutex.Unlock()

	response := &Message{
		Type:      MessageTypeSubscribe,
		Topic:     "system",
		Payload:   fmt.Sprintf("Subscription updated: %s", req.Type),
		Timestamp: time.Now(),
	}

	data, _ := json.Marshal(response)
	select {
	case c.Send <- data:
	default:
	}
}
