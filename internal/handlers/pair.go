package handlers

import (
	"net/http"

	"thinking-of-you-backend/internal/models"
	"thinking-of-you-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// PairHandler handles pairing-code HTTP requests
type PairHandler struct {
	pairService *services.PairService
}

// NewPairHandler creates a new pair handler
func NewPairHandler(pairService *services.PairService) *PairHandler {
	return &PairHandler{
		pairService: pairService,
	}
}

// GenerateCodeRequest represents the request body for generating a pairing code
type GenerateCodeRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// GenerateCodeResponse is returned with a freshly issued code
type GenerateCodeResponse struct {
	Code string `json:"code"`
}

// JoinRequest represents the request body for redeeming a pairing code
type JoinRequest struct {
	UserID string `json:"userId" validate:"required"`
	Code   string `json:"code"`
}

// ConnectionResponse wraps a single connection
type ConnectionResponse struct {
	Connection models.Connection `json:"connection"`
}

// Generate handles POST /api/pairing/generate
func (h *PairHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateCodeRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, "Invalid user", http.StatusBadRequest)
		return
	}

	code, err := h.pairService.Generate(req.UserID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", req.UserID).Msg("Failed to generate pairing code")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, GenerateCodeResponse{Code: code.Code})
}

// Join handles POST /api/pairing/join
func (h *PairHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req JoinRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		if req.UserID == "" {
			respondError(w, "Invalid user", http.StatusBadRequest)
			return
		}
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	connection, err := h.pairService.Join(req.UserID, req.Code)
	if err != nil {
		log.Warn().
			Err(err).
			Str("user_id", req.UserID).
			Str("code", req.Code).
			Msg("Failed to join with pairing code")

		status, message := errorStatus(err)
		if status == http.StatusNotFound {
			message = "Code not found"
		}
		respondError(w, message, status)
		return
	}

	respondJSON(w, http.StatusOK, ConnectionResponse{Connection: connection})
}
