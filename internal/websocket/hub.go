package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/thereayou/barber-booking/internal/models"
)

type MessageType string

const (
	TypeConnect      MessageType = "connect"
	TypePing         MessageType = "ping"
	TypePong         MessageType = "pong"
	TypeNotification MessageType = "notification"
	TypeError        MessageType = "error"
)

type Message struct {
	Type      MessageType     `json:"type"`
	UserID    uint            `json:"user_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type Client struct {
	ID     uuid.UUID
	UserID uint
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *Hub

	// mu guards closed and sends on Send.
	mu     sync.Mutex
	closed bool
}

// Hub tracks open connections per user. One user may hold several.
type Hub struct {
	clients     map[uuid.UUID]*Client
	userClients map[uint]map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	mu  sync.RWMutex
	log *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[uuid.UUID]*Client),
		userClients: make(map[uint]map[uuid.UUID]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ticker.C:
			h.ping()
		}
	}
}

// Stop ends Run and closes every connection.
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		client.close()
		if client.Conn != nil {
			client.Conn.Close()
		}
		delete(h.clients, id)
	}
	h.userClients = make(map[uint]map[uuid.UUID]*Client)
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client

	if _, ok := h.userClients[client.UserID]; !ok {
		h.userClients[client.UserID] = make(map[uuid.UUID]*Client)
	}
	h.userClients[client.UserID][client.ID] = client

	h.log.Debug("websocket client registered",
		zap.String("client_id", client.ID.String()),
		zap.Uint("user_id", client.UserID),
	)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	if userClients, ok := h.userClients[client.UserID]; ok {
		delete(userClients, client.ID)
		if len(userClients) == 0 {
			delete(h.userClients, client.UserID)
		}
	}

	delete(h.clients, client.ID)
	client.close()

	h.log.Debug("websocket client unregistered",
		zap.String("client_id", client.ID.String()),
		zap.Uint("user_id", client.UserID),
	)
}

// SendToUser queues message on every connection of userID. Full queues drop
// the message for that connection.
func (h *Hub) SendToUser(userID uint, message []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, client := range h.userClients[userID] {
		if err := client.enqueue(message); err != nil {
			h.log.Warn("websocket send dropped",
				zap.String("client_id", client.ID.String()),
				zap.Error(err),
			)
			continue
		}
		delivered++
	}
	return delivered
}

// PublishNotification pushes n to the provider it is addressed to. Offline
// providers read it later from their inbox.
func (h *Hub) PublishNotification(n *models.Notification) error {
	if !h.IsOnline(n.User) {
		h.log.Debug("provider offline, notification not pushed", zap.Uint("user_id", n.User))
		return nil
	}

	data, err := json.Marshal(n)
	if err != nil {
		return err
	}

	msg, err := json.Marshal(Message{
		Type:      TypeNotification,
		UserID:    n.User,
		Data:      data,
		Timestamp: time.Now(),
	})
	if err != nil {
		return err
	}

	h.SendToUser(n.User, msg)
	return nil
}

func (h *Hub) ping() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(Message{Type: TypePing, Timestamp: time.Now()})
	if err != nil {
		return
	}

	for _, client := range h.clients {
		_ = client.enqueue(data)
	}
}

// IsOnline reports whether userID has at least one open connection.
func (h *Hub) IsOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.userClients[userID]) > 0
}
