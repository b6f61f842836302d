package handlers

import (
	"encoding/json"
	"net/http"

	"thinking-of-you-backend/internal/models"
	"thinking-of-you-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// registerMessage is the only message clients send
type registerMessage struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub         *services.WSHub
	userService *services.UserService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *services.WSHub, userService *services.UserService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		userService: userService,
	}
}

// HandleWebSocket handles GET /ws. The connection becomes a user's live channel
// once it sends a register message; until then nothing is routed to it
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	client := services.NewClient(conn)
	go client.WritePump()

	var userID string
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Str("user_id", userID).Msg("WebSocket handler panicked")
		}
		if userID != "" {
			h.hub.Unregister(userID, client)
		}
		client.Close()
	}()

	client.PrepareRead()
	for {
		data, err := client.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Warn().Err(err).Str("user_id", userID).Msg("WebSocket error")
			}
			return
		}

		var msg registerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warn().Err(err).Msg("Dropped malformed WebSocket message")
			continue
		}
		if msg.Type != models.MessageTypeRegister {
			log.Debug().Str("type", msg.Type).Msg("Ignored WebSocket message")
			continue
		}
		if !h.userService.Exists(msg.UserID) {
			log.Warn().Str("user_id", msg.UserID).Msg("Dropped registration for unknown user")
			if err := client.Send(models.Event{Type: models.EventError, Message: "Invalid user"}); err != nil {
				log.Warn().Err(err).Str("user_id", msg.UserID).Msg("Failed to report invalid registration")
			}
			continue
		}

		if userID != "" && userID != msg.UserID {
			h.hub.Unregister(userID, client)
		}
		userID = msg.UserID
		h.hub.Register(userID, client)

		if err := client.Send(models.Event{Type: models.EventRegistered, UserID: userID}); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("Failed to acknowledge registration")
		}
	}
}
