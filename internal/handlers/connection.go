package handlers

import (
	"net/http"

	"thinking-of-you-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ConnectionHandler handles connection customization and pings
type ConnectionHandler struct {
	connectionService *services.ConnectionService
}

// NewConnectionHandler creates a new connection handler
func NewConnectionHandler(connectionService *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{
		connectionService: connectionService,
	}
}

// CustomizeRequest represents the request body for PUT /api/connection/{id}
type CustomizeRequest struct {
	UserID  string  `json:"userId" validate:"required"`
	Emoji   *string `json:"emoji,omitempty" validate:"omitempty,max=32"`
	Message *string `json:"message,omitempty" validate:"omitempty,max=100"`
}

// ThinkingRequest represents the request body for POST /api/thinking
type ThinkingRequest struct {
	UserID       string `json:"userId" validate:"required"`
	ConnectionID string `json:"connectionId" validate:"required"`
}

// ThinkingResponse acknowledges that a ping was handed off
type ThinkingResponse struct {
	Sent bool `json:"sent"`
}

// Customize handles PUT /api/connection/{connection_id}
func (h *ConnectionHandler) Customize(w http.ResponseWriter, r *http.Request) {
	connectionID := chi.URLParam(r, "connection_id")

	var req CustomizeRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	connection, err := h.connectionService.Customize(req.UserID, connectionID, req.Emoji, req.Message)
	if err != nil {
		log.Warn().
			Err(err).
			Str("user_id", req.UserID).
			Str("connection_id", connectionID).
			Msg("Failed to customize connection")

		status, message := errorStatus(err)
		if status == http.StatusNotFound {
			message = "Connection not found"
		}
		respondError(w, message, status)
		return
	}

	respondJSON(w, http.StatusOK, ConnectionResponse{Connection: connection})
}

// Thinking handles POST /api/thinking
func (h *ConnectionHandler) Thinking(w http.ResponseWriter, r *http.Request) {
	var req ThinkingRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.connectionService.Ping(req.UserID, req.ConnectionID); err != nil {
		status, message := errorStatus(err)
		if status == http.StatusNotFound {
			message = "Connection not found"
		}
		respondError(w, message, status)
		return
	}

	respondJSON(w, http.StatusOK, ThinkingResponse{Sent: true})
}
