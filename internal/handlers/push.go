package handlers

import (
	"net/http"

	"thinking-of-you-backend/internal/models"
	"thinking-of-you-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// PushHandler handles push subscription HTTP requests
type PushHandler struct {
	pushService *services.PushService
}

// NewPushHandler creates a new push handler
func NewPushHandler(pushService *services.PushService) *PushHandler {
	return &PushHandler{
		pushService: pushService,
	}
}

// SubscribeRequest represents the request body for POST /api/push/subscribe
type SubscribeRequest struct {
	UserID       string                   `json:"userId" validate:"required"`
	Subscription *models.PushSubscription `json:"subscription" validate:"required"`
}

// VAPIDKeyResponse carries the server's VAPID public key
type VAPIDKeyResponse struct {
	PublicKey string `json:"publicKey"`
}

// SuccessResponse is a generic acknowledgement
type SuccessResponse struct {
	Success bool `json:"success"`
}

// VAPIDPublicKey handles GET /api/vapid-public-key
func (h *PushHandler) VAPIDPublicKey(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, VAPIDKeyResponse{PublicKey: h.pushService.VAPIDPublicKey()})
}

// Subscribe handles POST /api/push/subscribe
func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.pushService.Subscribe(req.UserID, *req.Subscription); err != nil {
		log.Warn().Err(err).Str("user_id", req.UserID).Msg("Failed to save push subscription")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
