package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	sendBufferSize = 16
)

var (
	ErrClientClosed  = errors.New("websocket client closed")
	ErrSendQueueFull = errors.New("websocket send queue full")
)

// Channel is a live real-time connection to one user
type Channel interface {
	Send(message any) error
	IsOpen() bool
}

// Client wraps one websocket connection. Writes go through a buffered queue
// drained by WritePump, so Send never blocks the caller
type Client struct {
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient creates a client for an upgraded connection
func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
}

// Send queues message as a JSON text frame
func (c *Client) Send(message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return ErrClientClosed
	default:
		return ErrSendQueueFull
	}
}

// IsOpen reports whether the client has not been closed
func (c *Client) IsOpen() bool {
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

// Close closes the underlying connection once
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// PrepareRead applies read limits and the pong deadline handler
func (c *Client) PrepareRead() {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
}

// ReadMessage reads the next frame from the peer
func (c *Client) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

// WritePump writes queued messages and keepalive pings until the client closes
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug().Err(err).Msg("WebSocket write failed")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// WSHub tracks the single live websocket client of each user
type WSHub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		clients: make(map[string]*Client),
	}
}

// Register makes client the live channel for userID, closing any client it replaces
func (h *WSHub) Register(userID string, client *Client) {
	h.mu.Lock()
	old, exists := h.clients[userID]
	h.clients[userID] = client
	h.mu.Unlock()

	if exists && old != client {
		old.Close()
		log.Info().Str("user_id", userID).Msg("WebSocket connection replaced")
		return
	}
	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes userID's entry if it still belongs to client.
// A close that arrives after a replacement leaves the newer client in place
func (h *WSHub) Unregister(userID string, client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	current, exists := h.clients[userID]
	if !exists || current != client {
		return false
	}
	delete(h.clients, userID)
	log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
	return true
}

// Lookup returns the live channel of a user
func (h *WSHub) Lookup(userID string) (Channel, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, exists := h.clients[userID]
	if !exists {
		return nil, false
	}
	return client, true
}

// IsOnline checks if a user is online
func (h *WSHub) IsOnline(userID string) bool {
	ch, ok := h.Lookup(userID)
	return ok && ch.IsOpen()
}

// Count returns the number of registered users
func (h *WSHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes every registered client
func (h *WSHub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*Client)
	h.mu.Unlock()

	for _, client := range clients {
		client.Close()
	}
}
