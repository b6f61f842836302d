package handlers

import (
	"errors"
	"net/http"

	"thinking-of-you-backend/internal/models"
	"thinking-of-you-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// UpsertUserRequest represents the request body for POST /api/user
type UpsertUserRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// UserResponse is returned by POST /api/user
type UserResponse struct {
	User        *models.User        `json:"user"`
	Connections []models.Connection `json:"connections"`
}

// UpsertUser handles POST /api/user. An empty body creates a new user
func (h *UserHandler) UpsertUser(w http.ResponseWriter, r *http.Request) {
	var req UpsertUserRequest
	if err := decodeAndValidate(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, connections, err := h.userService.Upsert(req.UserID, req.Name)
	if err != nil {
		log.Error().Err(err).Str("user_id", req.UserID).Msg("Failed to upsert user")
		respondDomainError(w, err)
		return
	}

	if user.ID != req.UserID {
		log.Info().Str("user_id", user.ID).Msg("User created")
	}

	respondJSON(w, http.StatusOK, UserResponse{User: user, Connections: connections})
}
